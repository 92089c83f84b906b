package v1

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/vidalaw/intake-api/app/core"
	"github.com/vidalaw/intake-api/app/core/srv"
	pkgerrors "github.com/vidalaw/intake-api/pkg/errors"
	"github.com/vidalaw/intake-api/pkg/i18n"
	"github.com/vidalaw/intake-api/pkg/security"
	"github.com/vidalaw/intake-api/pkg/types"
)

// AccessLogic is the single gate every share link goes through. The order of
// checks is fixed: existence, expiry, password, view ceiling. Only the
// missing-password case is ever distinguished to the caller; every other
// refusal collapses into the same message so probing tokens teaches nothing.
type AccessLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewAccessLogic(ctx context.Context, core *core.Core) *AccessLogic {
	return &AccessLogic{
		ctx:  ctx,
		core: core,
	}
}

type AccessGrant struct {
	Grant      string `json:"grant"`
	Kind       string `json:"kind"`
	ResourceID string `json:"resource_id"`
	ExpireAt   int64  `json:"expire_at"`
}

const passwordAttemptWindow = 15 * time.Minute

// Redeem validates the link and, when everything passes, consumes one view
// and returns a short-lived grant. Follow-up reads and saves ride on the
// grant so a form session costs exactly one view.
func (l *AccessLogic) Redeem(token, password string) (AccessGrant, error) {
	res := AccessGrant{}
	now := time.Now()

	link, err := l.core.Store().ShareTokenStore().GetByToken(l.ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			l.core.Metrics().AccessDecisionInc("unknown", "not_found")
			return res, l.invalidShare("AccessLogic.Redeem.ShareTokenStore.GetByToken", types.ErrTokenNotFound)
		}
		return res, pkgerrors.New("AccessLogic.Redeem.ShareTokenStore.GetByToken", i18n.ERROR_INTERNAL, err)
	}

	if link.Expired(now) {
		l.core.Metrics().AccessDecisionInc(link.Kind, "expired")
		return res, l.invalidShare("AccessLogic.Redeem.Expired", types.ErrTokenExpired)
	}

	if link.PasswordHash != "" {
		if password == "" {
			l.core.Metrics().AccessDecisionInc(link.Kind, "password_required")
			return res, pkgerrors.New("AccessLogic.Redeem.PasswordRequired", i18n.ERROR_SHARE_PASSWORD_REQUIRED, types.ErrPasswordRequired).Code(http.StatusUnauthorized)
		}

		if err = l.checkAttemptBudget(token); err != nil {
			return res, err
		}

		if err = bcrypt.CompareHashAndPassword([]byte(link.PasswordHash), []byte(password)); err != nil {
			l.core.Metrics().AccessDecisionInc(link.Kind, "password_mismatch")
			return res, l.invalidShare("AccessLogic.Redeem.ComparePassword", types.ErrPasswordMismatch)
		}
	}

	if err = l.core.Store().ShareTokenStore().RecordView(l.ctx, token, now.Unix()); err != nil {
		switch {
		case errors.Is(err, types.ErrTokenNotFound), errors.Is(err, types.ErrTokenExpired), errors.Is(err, types.ErrViewLimitExceeded):
			l.core.Metrics().AccessDecisionInc(link.Kind, "view_refused")
			return res, l.invalidShare("AccessLogic.Redeem.RecordView", err)
		default:
			return res, pkgerrors.New("AccessLogic.Redeem.RecordView", i18n.ERROR_INTERNAL, err)
		}
	}

	ttl := time.Duration(l.core.Cfg().Security.GrantTTLSeconds) * time.Second
	claims := security.NewShareGrantClaims(link.Kind, link.ResourceID, link.Token, ttl)
	signed, err := security.GenerateJWT(claims, []byte(l.core.Cfg().Security.JWTSecret))
	if err != nil {
		return res, pkgerrors.New("AccessLogic.Redeem.GenerateJWT", i18n.ERROR_INTERNAL, err)
	}

	l.core.Metrics().AccessDecisionInc(link.Kind, "granted")

	if link.Kind == types.SHARE_KIND_PLAN {
		l.core.Srv().Dispatcher().Dispatch(srv.Event{
			Name: srv.EVENT_PLAN_VIEWED,
			Payload: map[string]any{
				"plan_id": link.ResourceID,
			},
		})
	}

	res.Grant = signed
	res.Kind = link.Kind
	res.ResourceID = link.ResourceID
	res.ExpireAt = claims.ExpireTime
	return res, nil
}

// invalidShare is the uniform refusal. The real cause travels inside the
// error for logs; the message key and status are identical for every cause.
func (l *AccessLogic) invalidShare(trace string, cause error) error {
	return pkgerrors.New(trace, i18n.ERROR_SHARE_INVALID, cause).Code(http.StatusNotFound)
}

// checkAttemptBudget throttles password guessing per token. Redis hiccups
// degrade to allowing the attempt; bcrypt and the view ceiling still stand.
func (l *AccessLogic) checkAttemptBudget(token string) error {
	key := fmt.Sprintf("share:pw:%s", token)

	count, err := l.core.Cache().Incr(l.ctx, key)
	if err != nil {
		slog.Warn("Password attempt counter unavailable", slog.String("error", err.Error()))
		return nil
	}
	if count == 1 {
		if err = l.core.Cache().Expire(l.ctx, key, passwordAttemptWindow); err != nil {
			slog.Warn("Failed to set attempt counter expiry", slog.String("error", err.Error()))
		}
	}

	if count > int64(l.core.Cfg().Share.PasswordAttemptLimit) {
		return pkgerrors.New("AccessLogic.checkAttemptBudget", i18n.ERROR_TOO_MANY_REQUESTS, types.ErrPasswordMismatch).Code(http.StatusTooManyRequests)
	}
	return nil
}

// ResolveGrant re-verifies a previously issued grant string.
func (l *AccessLogic) ResolveGrant(grant string) (*security.ShareGrantClaims, error) {
	claims, err := security.VerifyShareGrant(grant, []byte(l.core.Cfg().Security.JWTSecret))
	if err != nil {
		return nil, pkgerrors.New("AccessLogic.ResolveGrant.VerifyShareGrant", i18n.ERROR_UNAUTHORIZED, err).Code(http.StatusUnauthorized)
	}
	return claims, nil
}
