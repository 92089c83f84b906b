package v1

import (
	"context"

	"github.com/vidalaw/intake-api/pkg/security"
)

const (
	TOKEN_CONTEXT_KEY = "__intake.staff_token"
	GRANT_CONTEXT_KEY = "__intake.share_grant"
)

// InjectTokenClaims is used by middleware and tests to seed the staff
// principal the logic layer reads back. Keys are strings so the same lookup
// works through gin contexts and plain context.Context alike.
func InjectTokenClaims(ctx context.Context, claims security.TokenClaims) context.Context {
	return context.WithValue(ctx, TOKEN_CONTEXT_KEY, claims) //nolint:staticcheck
}

func InjectShareGrant(ctx context.Context, grant *security.ShareGrantClaims) context.Context {
	return context.WithValue(ctx, GRANT_CONTEXT_KEY, grant) //nolint:staticcheck
}

func GetTokenClaims(ctx context.Context) (security.TokenClaims, bool) {
	claims, ok := ctx.Value(TOKEN_CONTEXT_KEY).(security.TokenClaims)
	return claims, ok
}

func GetShareGrant(ctx context.Context) (*security.ShareGrantClaims, bool) {
	grant, ok := ctx.Value(GRANT_CONTEXT_KEY).(*security.ShareGrantClaims)
	return grant, ok
}

// StaffInfo resolves the acting principal, empty when the request came in
// through a share link rather than a staff token.
func StaffInfo(ctx context.Context) string {
	if claims, ok := GetTokenClaims(ctx); ok {
		return claims.GetPrincipal()
	}
	return ""
}
