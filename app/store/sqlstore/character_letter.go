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
		provider.stores.CharacterLetterStore = NewCharacterLetterStore(provider)
	})
}

func NewCharacterLetterStore(provider SqlProviderAchieve) *CharacterLetterStoreImpl {
	repo := &CharacterLetterStoreImpl{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_CHARACTER_LETTER)
	repo.SetAllColumns(
		"id", "client_name", "status", "fields", "signature_key", "created_by", "created_at", "updated_at", "finalized_at",
	)
	return repo
}

type CharacterLetterStoreImpl struct {
	CommonFields
}

func (s *CharacterLetterStoreImpl) Create(ctx context.Context, letter *types.CharacterLetter) error {
	now := time.Now().Unix()
	if letter.CreatedAt == 0 {
		letter.CreatedAt = now
	}
	if letter.UpdatedAt == 0 {
		letter.UpdatedAt = now
	}
	if letter.Status == "" {
		letter.Status = types.LETTER_STATUS_PENDING
	}
	if letter.Fields == nil {
		letter.Fields = types.FormFields{}
	}
	query := sq.Insert(s.GetTable()).
		Columns("id", "client_name", "status", "fields", "signature_key", "created_by", "created_at", "updated_at", "finalized_at").
		Values(letter.ID, letter.ClientName, letter.Status, letter.Fields, letter.SignatureKey, letter.CreatedBy, letter.CreatedAt, letter.UpdatedAt, letter.FinalizedAt)

	sql, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(sql, args...)
	return err
}

func (s *CharacterLetterStoreImpl) Get(ctx context.Context, id string) (*types.CharacterLetter, error) {
	query := sq.Select(s.GetAllColumns()...).
		From(s.GetTable()).
		Where(sq.Eq{"id": id})

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var letter types.CharacterLetter
	if err = s.GetReplica(ctx).Get(&letter, sql, args...); err != nil {
		return nil, err
	}

	return &letter, nil
}

// GetForUpdate must run inside a transaction; outside one the FOR UPDATE is
// a no-op and provides no protection.
func (s *CharacterLetterStoreImpl) GetForUpdate(ctx context.Context, id string) (*types.CharacterLetter, error) {
	query := sq.Select(s.GetAllColumns()...).
		From(s.GetTable()).
		Where(sq.Eq{"id": id}).
		Suffix("FOR UPDATE")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var letter types.CharacterLetter
	if err = s.GetReplica(ctx).Get(&letter, sql, args...); err != nil {
		return nil, err
	}

	return &letter, nil
}

// MergeFields folds the patch into the stored field map at the database, so
// two writers touching different fields both land. The mutability guard sits
// in the WHERE clause of the same statement; a finalized letter is never
// touched, not even by a request that read it as draft a moment earlier.
func (s *CharacterLetterStoreImpl) MergeFields(ctx context.Context, id string, patch types.FormFields, now int64) error {
	query := sq.Update(s.GetTable()).
		Set("fields", sq.Expr("fields || ?::jsonb", patch)).
		Set("status", sq.Expr("CASE WHEN status = ? THEN ? ELSE status END", types.LETTER_STATUS_PENDING, types.LETTER_STATUS_DRAFT)).
		Set("updated_at", now).
		Where(sq.Eq{"id": id, "status": []types.LetterStatus{types.LETTER_STATUS_PENDING, types.LETTER_STATUS_DRAFT}})

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
	if affected > 0 {
		return nil
	}

	if _, err = s.Get(ctx, id); err != nil {
		return err
	}
	return types.ErrResourceFinalized
}

func (s *CharacterLetterStoreImpl) Finalize(ctx context.Context, id string, fields types.FormFields, signatureKey string, status types.LetterStatus, now int64) error {
	query := sq.Update(s.GetTable()).
		Set("fields", fields).
		Set("signature_key", signatureKey).
		Set("status", status).
		Set("updated_at", now).
		Set("finalized_at", now).
		Where(sq.Eq{"id": id, "status": []types.LetterStatus{types.LETTER_STATUS_PENDING, types.LETTER_STATUS_DRAFT}})

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
		return types.ErrResourceFinalized
	}
	return nil
}

func (s *CharacterLetterStoreImpl) List(ctx context.Context, opts types.ListCharacterLetterOptions, page, pageSize uint64) ([]*types.CharacterLetter, error) {
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

	var letters []*types.CharacterLetter
	if err = s.GetReplica(ctx).Select(&letters, sql, args...); err != nil {
		return nil, err
	}

	return letters, nil
}

func (s *CharacterLetterStoreImpl) Total(ctx context.Context, opts types.ListCharacterLetterOptions) (int64, error) {
	query := sq.Select("COUNT(*)").From(s.GetTable())
	if opts.Status != nil {
		query = query.Where(sq.Eq{"status": *opts.Status})
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
