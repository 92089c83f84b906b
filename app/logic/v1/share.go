package v1

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/vidalaw/intake-api/app/core"
	pkgerrors "github.com/vidalaw/intake-api/pkg/errors"
	"github.com/vidalaw/intake-api/pkg/i18n"
	"github.com/vidalaw/intake-api/pkg/types"
	"github.com/vidalaw/intake-api/pkg/utils"
)

// ShareLogic issues and revokes links. Staff only; the consumer side never
// sees these operations.
type ShareLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewShareLogic(ctx context.Context, core *core.Core) *ShareLogic {
	return &ShareLogic{
		ctx:  ctx,
		core: core,
	}
}

type IssueTokenResult struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

const uniqueViolation = "23505"

// IssueToken mints a fresh link for an existing resource. Collisions on the
// token column are absurdly unlikely at 192 bits but the unique index is
// still authoritative; on a violation we draw again a bounded number of
// times instead of looping forever.
func (l *ShareLogic) IssueToken(kind, resourceID string, policy types.SharePolicy) (IssueTokenResult, error) {
	res := IssueTokenResult{}

	if err := l.resourceExists(kind, resourceID); err != nil {
		return res, err
	}

	var passwordHash string
	if policy.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(policy.Password), bcrypt.DefaultCost)
		if err != nil {
			return res, pkgerrors.New("ShareLogic.IssueToken.GenerateFromPassword", i18n.ERROR_INTERNAL, err)
		}
		passwordHash = string(hashed)
	}

	if policy.MaxViews < 0 || policy.ExpireAt < 0 {
		return res, pkgerrors.New("ShareLogic.IssueToken.Policy", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}
	if policy.ExpireAt > 0 && policy.ExpireAt <= time.Now().Unix() {
		return res, pkgerrors.New("ShareLogic.IssueToken.ExpireAt", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}

	for attempt := 0; attempt < 3; attempt++ {
		token, err := utils.GenShareToken()
		if err != nil {
			return res, pkgerrors.New("ShareLogic.IssueToken.GenShareToken", i18n.ERROR_INTERNAL, err)
		}

		err = l.core.Store().ShareTokenStore().Create(l.ctx, &types.ShareToken{
			Kind:         kind,
			ResourceID:   resourceID,
			Token:        token,
			PasswordHash: passwordHash,
			ExpireAt:     policy.ExpireAt,
			MaxViews:     policy.MaxViews,
			IssuedBy:     StaffInfo(l.ctx),
			CreatedAt:    time.Now().Unix(),
		})
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
				continue
			}
			return res, pkgerrors.New("ShareLogic.IssueToken.ShareTokenStore.Create", i18n.ERROR_INTERNAL, err)
		}

		res.Token = token
		res.URL = strings.TrimSuffix(l.core.Cfg().Site.ShareDomain, "/") + "/" + token
		return res, nil
	}

	return res, pkgerrors.New("ShareLogic.IssueToken.Retries", i18n.ERROR_INTERNAL, types.ErrCollisionExhausted)
}

func (l *ShareLogic) RevokeToken(token string) error {
	if _, err := l.core.Store().ShareTokenStore().GetByToken(l.ctx, token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pkgerrors.New("ShareLogic.RevokeToken.GetByToken", i18n.ERROR_NOT_FOUND, err).Code(http.StatusNotFound)
		}
		return pkgerrors.New("ShareLogic.RevokeToken.GetByToken", i18n.ERROR_INTERNAL, err)
	}

	if err := l.core.Store().ShareTokenStore().Delete(l.ctx, token); err != nil {
		return pkgerrors.New("ShareLogic.RevokeToken.Delete", i18n.ERROR_INTERNAL, err)
	}
	return nil
}

func (l *ShareLogic) resourceExists(kind, resourceID string) error {
	var err error
	switch kind {
	case types.SHARE_KIND_LETTER:
		_, err = l.core.Store().CharacterLetterStore().Get(l.ctx, resourceID)
	case types.SHARE_KIND_PLAN:
		_, err = l.core.Store().EmergencyPlanStore().Get(l.ctx, resourceID)
	case types.SHARE_KIND_BUNDLE:
		_, err = l.core.Store().SponsorBundleStore().Get(l.ctx, resourceID)
	default:
		return pkgerrors.New("ShareLogic.resourceExists.Kind", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pkgerrors.New("ShareLogic.resourceExists.Get", i18n.ERROR_NOT_FOUND, err).Code(http.StatusNotFound)
		}
		return pkgerrors.New("ShareLogic.resourceExists.Get", i18n.ERROR_INTERNAL, err)
	}
	return nil
}
