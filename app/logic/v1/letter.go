package v1

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vidalaw/intake-api/app/core"
	"github.com/vidalaw/intake-api/app/core/srv"
	pkgerrors "github.com/vidalaw/intake-api/pkg/errors"
	"github.com/vidalaw/intake-api/pkg/i18n"
	"github.com/vidalaw/intake-api/pkg/safe"
	"github.com/vidalaw/intake-api/pkg/security"
	"github.com/vidalaw/intake-api/pkg/types"
)

type LetterLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewLetterLogic(ctx context.Context, core *core.Core) *LetterLogic {
	return &LetterLogic{
		ctx:  ctx,
		core: core,
	}
}

// CreateLetter opens an empty letter for a client. Staff side; the writer
// only ever arrives through a share link minted afterwards.
func (l *LetterLogic) CreateLetter(clientName string) (*types.CharacterLetter, error) {
	if clientName == "" {
		return nil, pkgerrors.New("LetterLogic.CreateLetter.ClientName", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}

	letter := &types.CharacterLetter{
		ID:         uuid.New().String(),
		ClientName: clientName,
		Status:     types.LETTER_STATUS_PENDING,
		Fields:     types.FormFields{},
		CreatedBy:  StaffInfo(l.ctx),
	}

	if err := l.core.Store().CharacterLetterStore().Create(l.ctx, letter); err != nil {
		return nil, pkgerrors.New("LetterLogic.CreateLetter.Create", i18n.ERROR_INTERNAL, err)
	}
	return letter, nil
}

func (l *LetterLogic) GetLetter(id string) (*types.CharacterLetter, error) {
	letter, err := l.core.Store().CharacterLetterStore().Get(l.ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, pkgerrors.New("LetterLogic.GetLetter.Get", i18n.ERROR_NOT_FOUND, err).Code(http.StatusNotFound)
		}
		return nil, pkgerrors.New("LetterLogic.GetLetter.Get", i18n.ERROR_INTERNAL, err)
	}
	return letter, nil
}

// GetLetterForGrant serves the token-holder view; the grant was already
// checked by middleware, here we only make sure it points at a letter.
func (l *LetterLogic) GetLetterForGrant(grant *security.ShareGrantClaims) (*types.CharacterLetter, error) {
	if grant == nil || grant.Kind != types.SHARE_KIND_LETTER {
		return nil, pkgerrors.New("LetterLogic.GetLetterForGrant.Kind", i18n.ERROR_FORBIDDEN, nil).Code(http.StatusForbidden)
	}
	return l.GetLetter(grant.ResourceID)
}

// SaveFields applies one autosave. Concurrent saves with disjoint keys both
// land because the merge happens inside the database.
func (l *LetterLogic) SaveFields(letterID string, patch types.FormFields) error {
	if len(patch) == 0 {
		return nil
	}

	err := l.core.Store().CharacterLetterStore().MergeFields(l.ctx, letterID, patch, time.Now().Unix())
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return pkgerrors.New("LetterLogic.SaveFields.MergeFields", i18n.ERROR_NOT_FOUND, err).Code(http.StatusNotFound)
		case errors.Is(err, types.ErrResourceFinalized):
			return pkgerrors.New("LetterLogic.SaveFields.MergeFields", i18n.ERROR_RESOURCE_FINALIZED, err).Code(http.StatusConflict)
		default:
			return pkgerrors.New("LetterLogic.SaveFields.MergeFields", i18n.ERROR_INTERNAL, err)
		}
	}
	return nil
}

type ListLettersResult struct {
	List  []*types.CharacterLetter `json:"list"`
	Total int64                    `json:"total"`
}

func (l *LetterLogic) ListLetters(opts types.ListCharacterLetterOptions, page, pageSize uint64) (ListLettersResult, error) {
	res := ListLettersResult{}
	if pageSize == 0 || pageSize > types.MAX_PAGE_SIZE {
		pageSize = types.DEFAULT_PAGE_SIZE
	}
	if page == 0 {
		page = 1
	}

	list, err := l.core.Store().CharacterLetterStore().List(l.ctx, opts, page, pageSize)
	if err != nil {
		return res, pkgerrors.New("LetterLogic.ListLetters.List", i18n.ERROR_INTERNAL, err)
	}

	total, err := l.core.Store().CharacterLetterStore().Total(l.ctx, opts)
	if err != nil {
		return res, pkgerrors.New("LetterLogic.ListLetters.Total", i18n.ERROR_INTERNAL, err)
	}

	res.List = list
	res.Total = total
	return res, nil
}

// FinalizeLetter runs the whole finalization as one transaction: the
// closing patch lands first, then the full required-field check runs against
// the merged state under a row lock, then the status flips exactly once.
// The required-field report outranks the signature requirement, so an
// incomplete finalize always names every field still missing. A letter
// received on paper goes straight to submitted without a signature.
func (l *LetterLogic) FinalizeLetter(letterID string, patch types.FormFields, signature []byte, byMail bool) (*types.CharacterLetter, error) {
	var signatureKey string
	if !byMail && len(signature) > 0 {
		signatureKey = fmt.Sprintf("letters/%s/signature-%d.png", letterID, time.Now().UnixNano())
		if err := l.core.FileStorage().SaveFile(signatureKey, signature); err != nil {
			return nil, pkgerrors.New("LetterLogic.FinalizeLetter.SaveFile", i18n.ERROR_INTERNAL, err)
		}
	}

	target := types.LETTER_STATUS_SIGNED
	if byMail {
		target = types.LETTER_STATUS_SUBMITTED
	}

	var finalized *types.CharacterLetter
	err := l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if len(patch) > 0 {
			if err := l.core.Store().CharacterLetterStore().MergeFields(ctx, letterID, patch, time.Now().Unix()); err != nil {
				return err
			}
		}

		letter, err := l.core.Store().CharacterLetterStore().GetForUpdate(ctx, letterID)
		if err != nil {
			return err
		}

		if letter.Status.Terminal() {
			return types.ErrResourceFinalized
		}

		if missing := letter.Fields.MissingOf(types.LetterRequiredFields); len(missing) > 0 {
			return pkgerrors.New("LetterLogic.FinalizeLetter.MissingFields", i18n.ERROR_MISSING_REQUIRED_FIELDS, nil).
				Code(http.StatusUnprocessableEntity).
				WithData(map[string]interface{}{"missing_fields": missing})
		}

		if !byMail && signatureKey == "" {
			return pkgerrors.New("LetterLogic.FinalizeLetter.Signature", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
		}

		if !letter.Status.CanTransition(target) {
			return types.ErrResourceFinalized
		}

		now := time.Now().Unix()
		if err = l.core.Store().CharacterLetterStore().Finalize(ctx, letterID, letter.Fields, signatureKey, target, now); err != nil {
			return err
		}

		letter.Status = target
		letter.SignatureKey = signatureKey
		letter.FinalizedAt = now
		letter.UpdatedAt = now
		finalized = letter
		return nil
	})
	if err != nil {
		l.cleanupSignature(signatureKey)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, pkgerrors.New("LetterLogic.FinalizeLetter.Tx", i18n.ERROR_NOT_FOUND, err).Code(http.StatusNotFound)
		case errors.Is(err, types.ErrResourceFinalized):
			return nil, pkgerrors.New("LetterLogic.FinalizeLetter.Tx", i18n.ERROR_RESOURCE_FINALIZED, err).Code(http.StatusConflict)
		default:
			return nil, pkgerrors.Trace("LetterLogic.FinalizeLetter.Tx", err)
		}
	}

	l.core.Metrics().FinalizeInc("letter")
	l.core.Srv().Dispatcher().Dispatch(srv.Event{
		Name: srv.EVENT_LETTER_SIGNED,
		Payload: map[string]any{
			"letter_id":   finalized.ID,
			"client_name": finalized.ClientName,
			"status":      finalized.Status,
		},
	})
	l.renderCourtesyPdf(finalized)

	return finalized, nil
}

func (l *LetterLogic) cleanupSignature(signatureKey string) {
	if signatureKey == "" {
		return
	}
	if err := l.core.FileStorage().DeleteFile(signatureKey); err != nil {
		slog.Warn("Failed to remove orphan signature blob", slog.String("key", signatureKey), slog.String("error", err.Error()))
	}
}

// renderCourtesyPdf runs after commit; a renderer outage only costs the
// courtesy copy, never the signature itself.
func (l *LetterLogic) renderCourtesyPdf(letter *types.CharacterLetter) {
	if !l.core.Srv().Pdf().Enabled() {
		return
	}

	fields := letter.Fields
	letterID := letter.ID
	clientName := letter.ClientName
	go safe.Run(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		content, err := l.core.Srv().Pdf().Render(ctx, srv.RenderRequest{
			Title:  fmt.Sprintf("Character reference letter for %s", clientName),
			Fields: fields,
		})
		if err != nil {
			slog.Error("Failed to render letter pdf", slog.String("letter_id", letterID), slog.String("error", err.Error()))
			return
		}

		key := fmt.Sprintf("letters/%s/letter.pdf", letterID)
		if err = l.core.FileStorage().SaveFile(key, content); err != nil {
			slog.Error("Failed to store letter pdf", slog.String("letter_id", letterID), slog.String("error", err.Error()))
		}
	})
}
