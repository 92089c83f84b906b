package store

import (
	"context"

	"github.com/vidalaw/intake-api/pkg/sqlstore"
	"github.com/vidalaw/intake-api/pkg/types"
)

// ShareTokenStore persists the access-policy envelope for every sharing link.
type ShareTokenStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, link *types.ShareToken) error
	GetByToken(ctx context.Context, token string) (*types.ShareToken, error)
	GetByResource(ctx context.Context, kind, resourceID string) (*types.ShareToken, error)
	// RecordView is the atomic compare-and-increment against the view
	// ceiling and expiry. Exactly one of two concurrent callers wins the
	// last remaining view.
	RecordView(ctx context.Context, token string, now int64) error
	Delete(ctx context.Context, token string) error
	// DeleteExpired sweeps links whose expiry already passed. Run by the
	// janitor, never by request handlers.
	DeleteExpired(ctx context.Context, before int64) (int64, error)
}

type CharacterLetterStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, letter *types.CharacterLetter) error
	Get(ctx context.Context, id string) (*types.CharacterLetter, error)
	// GetForUpdate row-locks the letter inside the surrounding transaction.
	GetForUpdate(ctx context.Context, id string) (*types.CharacterLetter, error)
	// MergeFields applies a field-level merge while the letter is still
	// mutable; a pending letter moves to draft in the same statement.
	MergeFields(ctx context.Context, id string, patch types.FormFields, now int64) error
	Finalize(ctx context.Context, id string, fields types.FormFields, signatureKey string, status types.LetterStatus, now int64) error
	List(ctx context.Context, opts types.ListCharacterLetterOptions, page, pageSize uint64) ([]*types.CharacterLetter, error)
	Total(ctx context.Context, opts types.ListCharacterLetterOptions) (int64, error)
}

type EmergencyPlanStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, plan *types.EmergencyPlan) error
	Get(ctx context.Context, id string) (*types.EmergencyPlan, error)
	Delete(ctx context.Context, id string) error
}

type SponsorBundleStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, bundle *types.SponsorBundle) error
	Get(ctx context.Context, id string) (*types.SponsorBundle, error)
	GetForUpdate(ctx context.Context, id string) (*types.SponsorBundle, error)
	// Submit freezes the bundle; conditional on the bundle still pending.
	Submit(ctx context.Context, id string, now int64) error
	List(ctx context.Context, opts types.ListSponsorBundleOptions, page, pageSize uint64) ([]*types.SponsorBundle, error)
}

type BundleFileStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, file *types.BundleFile) error
	Get(ctx context.Context, bundleID, fileID string) (*types.BundleFile, error)
	Delete(ctx context.Context, bundleID, fileID string) error
	List(ctx context.Context, bundleID string) ([]types.BundleFile, error)
	Count(ctx context.Context, bundleID string) (int64, error)
}

type BondSubmissionStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, bond *types.BondSubmission) error
	Get(ctx context.Context, id string) (*types.BondSubmission, error)
	UpdateStatus(ctx context.Context, id string, status types.BondStatus, now int64) error
	List(ctx context.Context, opts types.ListBondSubmissionOptions, page, pageSize uint64) ([]*types.BondSubmission, error)
	Total(ctx context.Context, opts types.ListBondSubmissionOptions) (int64, error)
}

// BondStatusHistoryStore is append-only; there is deliberately no update or
// delete on the interface.
type BondStatusHistoryStore interface {
	sqlstore.SqlCommons
	Append(ctx context.Context, entry *types.BondStatusHistory) error
	List(ctx context.Context, bondID string) ([]types.BondStatusHistory, error)
}
