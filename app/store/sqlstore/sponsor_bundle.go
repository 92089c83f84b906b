package sqlstore

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/vidalaw/intake-api/pkg/register"
	"github.com/vidalaw/intake-api/pkg/types"
)

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.SponsorBundleStore = NewSponsorBundleStore(provider)
	})
}

func NewSponsorBundleStore(provider SqlProviderAchieve) *SponsorBundleStoreImpl {
	repo := &SponsorBundleStoreImpl{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_SPONSOR_BUNDLE)
	repo.SetAllColumns(
		"id", "client_name", "sponsor_name", "status", "created_by", "created_at", "updated_at", "finalized_at",
	)
	return repo
}

type SponsorBundleStoreImpl struct {
	CommonFields
}

func (s *SponsorBundleStoreImpl) Create(ctx context.Context, bundle *types.SponsorBundle) error {
	now := time.Now().Unix()
	if bundle.CreatedAt == 0 {
		bundle.CreatedAt = now
	}
	if bundle.UpdatedAt == 0 {
		bundle.UpdatedAt = now
	}
	if bundle.Status == "" {
		bundle.Status = types.BUNDLE_STATUS_PENDING
	}
	query := sq.Insert(s.GetTable()).
		Columns("id", "client_name", "sponsor_name", "status", "created_by", "created_at", "updated_at", "finalized_at").
		Values(bundle.ID, bundle.ClientName, bundle.SponsorName, bundle.Status, bundle.CreatedBy, bundle.CreatedAt, bundle.UpdatedAt, bundle.FinalizedAt)

	sql, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(sql, args...)
	return err
}

func (s *SponsorBundleStoreImpl) Get(ctx context.Context, id string) (*types.SponsorBundle, error) {
	query := sq.Select(s.GetAllColumns()...).
		From(s.GetTable()).
		Where(sq.Eq{"id": id})

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var bundle types.SponsorBundle
	if err = s.GetReplica(ctx).Get(&bundle, sql, args...); err != nil {
		return nil, err
	}

	return &bundle, nil
}

func (s *SponsorBundleStoreImpl) GetForUpdate(ctx context.Context, id string) (*types.SponsorBundle, error) {
	query := sq.Select(s.GetAllColumns()...).
		From(s.GetTable()).
		Where(sq.Eq{"id": id}).
		Suffix("FOR UPDATE")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var bundle types.SponsorBundle
	if err = s.GetReplica(ctx).Get(&bundle, sql, args...); err != nil {
		return nil, err
	}

	return &bundle, nil
}

// Submit flips the bundle to submitted exactly once; a second caller finds
// zero rows and gets the finalized error.
func (s *SponsorBundleStoreImpl) Submit(ctx context.Context, id string, now int64) error {
	query := sq.Update(s.GetTable()).
		Set("status", types.BUNDLE_STATUS_SUBMITTED).
		Set("updated_at", now).
		Set("finalized_at", now).
		Where(sq.Eq{"id": id, "status": types.BUNDLE_STATUS_PENDING})

	rawSQL, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	res, err := s.GetMaster(ctx).Exec(rawSQL, args...)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return types.ErrBundleFinalized
	}
	return nil
}

func (s *SponsorBundleStoreImpl) List(ctx context.Context, opts types.ListSponsorBundleOptions, page, pageSize uint64) ([]*types.SponsorBundle, error) {
	query := sq.Select(s.GetAllColumns()...).
		From(s.GetTable()).
		OrderBy("created_at DESC")

	if opts.Status != nil {
		query = query.Where(sq.Eq{"status": *opts.Status})
	}
	if page != types.NO_PAGINATION && pageSize != types.NO_PAGINATION {
		query = query.Limit(pageSize).Offset((page - 1) * pageSize)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var bundles []*types.SponsorBundle
	if err = s.GetReplica(ctx).Select(&bundles, sql, args...); err != nil {
		return nil, err
	}

	return bundles, nil
}
