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
		provider.stores.EmergencyPlanStore = NewEmergencyPlanStore(provider)
	})
}

func NewEmergencyPlanStore(provider SqlProviderAchieve) *EmergencyPlanStoreImpl {
	repo := &EmergencyPlanStoreImpl{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_EMERGENCY_PLAN)
	repo.SetAllColumns("id", "client_name", "fields", "created_by", "created_at")
	return repo
}

type EmergencyPlanStoreImpl struct {
	CommonFields
}

func (s *EmergencyPlanStoreImpl) Create(ctx context.Context, plan *types.EmergencyPlan) error {
	if plan.CreatedAt == 0 {
		plan.CreatedAt = time.Now().Unix()
	}
	if plan.Fields == nil {
		plan.Fields = types.FormFields{}
	}
	query := sq.Insert(s.GetTable()).
		Columns("id", "client_name", "fields", "created_by", "created_at").
		Values(plan.ID, plan.ClientName, plan.Fields, plan.CreatedBy, plan.CreatedAt)

	sql, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(sql, args...)
	return err
}

func (s *EmergencyPlanStoreImpl) Get(ctx context.Context, id string) (*types.EmergencyPlan, error) {
	query := sq.Select(s.GetAllColumns()...).
		From(s.GetTable()).
		Where(sq.Eq{"id": id})

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var plan types.EmergencyPlan
	if err = s.GetReplica(ctx).Get(&plan, sql, args...); err != nil {
		return nil, err
	}

	return &plan, nil
}

func (s *EmergencyPlanStoreImpl) Delete(ctx context.Context, id string) error {
	query := sq.Delete(s.GetTable()).
		Where(sq.Eq{"id": id})

	sql, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(sql, args...)
	return err
}
