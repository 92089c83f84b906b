package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/vidalaw/intake-api/pkg/register"
	"github.com/vidalaw/intake-api/pkg/types"
)

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.ShareTokenStore = NewShareTokenStore(provider)
	})
}

func NewShareTokenStore(provider SqlProviderAchieve) *ShareTokenStoreImpl {
	repo := &ShareTokenStoreImpl{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_SHARE_TOKEN)
	repo.SetAllColumns(
		"id", "kind", "resource_id", "token", "password_hash", "expire_at", "max_views", "view_count", "issued_by", "created_at",
	)
	return repo
}

type ShareTokenStoreImpl struct {
	CommonFields
}

func (s *ShareTokenStoreImpl) Create(ctx context.Context, link *types.ShareToken) error {
	if link.CreatedAt == 0 {
		link.CreatedAt = time.Now().Unix()
	}
	query := sq.Insert(s.GetTable()).
		Columns("kind", "resource_id", "token", "password_hash", "expire_at", "max_views", "view_count", "issued_by", "created_at").
		Values(link.Kind, link.ResourceID, link.Token, link.PasswordHash, link.ExpireAt, link.MaxViews, link.ViewCount, link.IssuedBy, link.CreatedAt)

	sql, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(sql, args...)
	return err
}

func (s *ShareTokenStoreImpl) GetByToken(ctx context.Context, token string) (*types.ShareToken, error) {
	query := sq.Select(s.GetAllColumns()...).
		From(s.GetTable()).
		Where(sq.Eq{"token": token})

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var link types.ShareToken
	if err = s.GetReplica(ctx).Get(&link, sql, args...); err != nil {
		return nil, err
	}

	return &link, nil
}

func (s *ShareTokenStoreImpl) GetByResource(ctx context.Context, kind, resourceID string) (*types.ShareToken, error) {
	query := sq.Select(s.GetAllColumns()...).
		From(s.GetTable()).
		Where(sq.Eq{"kind": kind, "resource_id": resourceID}).
		OrderBy("created_at DESC").
		Limit(1)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var link types.ShareToken
	if err = s.GetReplica(ctx).Get(&link, sql, args...); err != nil {
		return nil, err
	}

	return &link, nil
}

// RecordView consumes one view. The ceiling and expiry checks run inside the
// UPDATE itself so two racing requests for the last remaining view can never
// both pass; the loser gets zero rows affected and is classified below.
func (s *ShareTokenStoreImpl) RecordView(ctx context.Context, token string, now int64) error {
	query := sq.Update(s.GetTable()).
		Set("view_count", sq.Expr("view_count + 1")).
		Where(sq.Eq{"token": token}).
		Where(sq.Or{sq.Eq{"expire_at": 0}, sq.Gt{"expire_at": now}}).
		Where("(max_views = 0 OR view_count < max_views)")

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

	link, err := s.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.ErrTokenNotFound
		}
		return err
	}
	if link.Expired(time.Unix(now, 0)) {
		return types.ErrTokenExpired
	}
	return types.ErrViewLimitExceeded
}

func (s *ShareTokenStoreImpl) DeleteExpired(ctx context.Context, before int64) (int64, error) {
	query := sq.Delete(s.GetTable()).
		Where(sq.Gt{"expire_at": 0}).
		Where(sq.LtOrEq{"expire_at": before})

	rawSQL, args, err := query.ToSql()
	if err != nil {
		return 0, ErrorSqlBuild(err)
	}

	res, err := s.GetMaster(ctx).Exec(rawSQL, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *ShareTokenStoreImpl) Delete(ctx context.Context, token string) error {
	query := sq.Delete(s.GetTable()).
		Where(sq.Eq{"token": token})

	sql, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(sql, args...)
	return err
}
