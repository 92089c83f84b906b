package v1_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/vidalaw/intake-api/app/logic/v1"
	"github.com/vidalaw/intake-api/pkg/errors"
	"github.com/vidalaw/intake-api/pkg/security"
	"github.com/vidalaw/intake-api/pkg/types"
)

func Test_ClaimsRoundTrip(t *testing.T) {
	ctx := v1.InjectTokenClaims(context.Background(), security.NewTokenClaims("intake@vidalaw", "staff", 0))

	claims, ok := v1.GetTokenClaims(ctx)
	require.True(t, ok)
	assert.Equal(t, "intake@vidalaw", claims.GetPrincipal())
	assert.Equal(t, "intake@vidalaw", v1.StaffInfo(ctx))

	// a share-link request carries no staff principal
	assert.Empty(t, v1.StaffInfo(context.Background()))
}

func Test_ShareGrantRoundTrip(t *testing.T) {
	grant := &security.ShareGrantClaims{Kind: types.SHARE_KIND_LETTER, ResourceID: "abc"}
	ctx := v1.InjectShareGrant(context.Background(), grant)

	got, ok := v1.GetShareGrant(ctx)
	require.True(t, ok)
	assert.Equal(t, grant, got)
}

// the kind check runs before any store access, so a grant for one resource
// kind can never read another kind no matter what it claims.
func Test_GrantKindMismatch(t *testing.T) {
	planGrant := &security.ShareGrantClaims{Kind: types.SHARE_KIND_PLAN, ResourceID: "abc"}

	var cerr *errors.CustomizedError

	_, err := v1.NewLetterLogic(context.Background(), nil).GetLetterForGrant(planGrant)
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 403, cerr.GetCode())

	_, err = v1.NewBundleLogic(context.Background(), nil).GetBundleForGrant(planGrant)
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 403, cerr.GetCode())

	letterGrant := &security.ShareGrantClaims{Kind: types.SHARE_KIND_LETTER, ResourceID: "abc"}
	_, err = v1.NewPlanLogic(context.Background(), nil).GetPlanForGrant(letterGrant)
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 403, cerr.GetCode())

	_, err = v1.NewPlanLogic(context.Background(), nil).GetPlanForGrant(nil)
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 403, cerr.GetCode())
}
