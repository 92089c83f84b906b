package sqlstore

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/vidalaw/intake-api/pkg/register"
	"github.com/vidalaw/intake-api/pkg/types"
)

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.BondSubmissionStore = NewBondSubmissionStore(provider)
	})
}

func NewBondSubmissionStore(provider SqlProviderAchieve) *BondSubmissionStoreImpl {
	repo := &BondSubmissionStoreImpl{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_BOND_SUBMISSION)
	repo.SetAllColumns(
		"id", "detainee_name", "contact_name", "contact_phone", "detention_site", "fields", "status", "created_at", "updated_at",
	)
	return repo
}

type BondSubmissionStoreImpl struct {
	CommonFields
}

func (s *BondSubmissionStoreImpl) Create(ctx context.Context, bond *types.BondSubmission) error {
	now := time.Now().Unix()
	if bond.CreatedAt == 0 {
		bond.CreatedAt = now
	}
	if bond.UpdatedAt == 0 {
		bond.UpdatedAt = now
	}
	if bond.Status == "" {
		bond.Status = types.BOND_STATUS_NEW
	}
	if bond.Fields == nil {
		bond.Fields = types.FormFields{}
	}
	query := sq.Insert(s.GetTable()).
		Columns("id", "detainee_name", "contact_name", "contact_phone", "detention_site", "fields", "status", "created_at", "updated_at").
		Values(bond.ID, bond.DetaineeName, bond.ContactName, bond.ContactPhone, bond.DetentionSite, bond.Fields, bond.Status, bond.CreatedAt, bond.UpdatedAt)

	sql, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(sql, args...)
	return err
}

func (s *BondSubmissionStoreImpl) Get(ctx context.Context, id string) (*types.BondSubmission, error) {
	query := sq.Select(s.GetAllColumns()...).
		From(s.GetTable()).
		Where(sq.Eq{"id": id})

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var bond types.BondSubmission
	if err = s.GetReplica(ctx).Get(&bond, sql, args...); err != nil {
		return nil, err
	}

	return &bond, nil
}

// UpdateStatus moves the submission laterally; any valid status may follow
// any other. The permanent record is the history table, written by the logic
// layer in the same transaction.
func (s *BondSubmissionStoreImpl) UpdateStatus(ctx context.Context, id string, status types.BondStatus, now int64) error {
	query := sq.Update(s.GetTable()).
		Set("status", status).
		Set("updated_at", now).
		Where(sq.Eq{"id": id})

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
		return sql.ErrNoRows
	}
	return nil
}

func (s *BondSubmissionStoreImpl) listQuery(opts types.ListBondSubmissionOptions) sq.SelectBuilder {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable())
	if opts.Status != nil {
		query = query.Where(sq.Eq{"status": *opts.Status})
	}
	if opts.Detainee != "" {
		query = query.Where(sq.ILike{"detainee_name": "%" + opts.Detainee + "%"})
	}
	return query
}

func (s *BondSubmissionStoreImpl) List(ctx context.Context, opts types.ListBondSubmissionOptions, page, pageSize uint64) ([]*types.BondSubmission, error) {
	query := s.listQuery(opts).OrderBy("created_at DESC")
	if page != types.NO_PAGINATION && pageSize != types.NO_PAGINATION {
		query = query.Limit(pageSize).Offset((page - 1) * pageSize)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var bonds []*types.BondSubmission
	if err = s.GetReplica(ctx).Select(&bonds, sql, args...); err != nil {
		return nil, err
	}

	return bonds, nil
}

func (s *BondSubmissionStoreImpl) Total(ctx context.Context, opts types.ListBondSubmissionOptions) (int64, error) {
	query := sq.Select("COUNT(*)").From(s.GetTable())
	if opts.Status != nil {
		query = query.Where(sq.Eq{"status": *opts.Status})
	}
	if opts.Detainee != "" {
		query = query.Where(sq.ILike{"detainee_name": "%" + opts.Detainee + "%"})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, ErrorSqlBuild(err)
	}

	var total int64
	if err = s.GetReplica(ctx).Get(&total, sql, args...); err != nil {
		return 0, err
	}

	return total, nil
}
