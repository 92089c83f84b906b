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
		provider.stores.BondStatusHistoryStore = NewBondStatusHistoryStore(provider)
	})
}

func NewBondStatusHistoryStore(provider SqlProviderAchieve) *BondStatusHistoryStoreImpl {
	repo := &BondStatusHistoryStoreImpl{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_BOND_STATUS_HISTORY)
	repo.SetAllColumns("id", "bond_id", "status", "principal", "note", "created_at")
	return repo
}

type BondStatusHistoryStoreImpl struct {
	CommonFields
}

func (s *BondStatusHistoryStoreImpl) Append(ctx context.Context, entry *types.BondStatusHistory) error {
	if entry.CreatedAt == 0 {
		entry.CreatedAt = time.Now().Unix()
	}
	query := sq.Insert(s.GetTable()).
		Columns("bond_id", "status", "principal", "note", "created_at").
		Values(entry.BondID, entry.Status, entry.Principal, entry.Note, entry.CreatedAt)

	sql, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(sql, args...)
	return err
}

func (s *BondStatusHistoryStoreImpl) List(ctx context.Context, bondID string) ([]types.BondStatusHistory, error) {
	query := sq.Select(s.GetAllColumns()...).
		From(s.GetTable()).
		Where(sq.Eq{"bond_id": bondID}).
		OrderBy("created_at ASC", "id ASC")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var entries []types.BondStatusHistory
	if err = s.GetReplica(ctx).Select(&entries, sql, args...); err != nil {
		return nil, err
	}

	return entries, nil
}
