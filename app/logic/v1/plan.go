package v1

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/vidalaw/intake-api/app/core"
	pkgerrors "github.com/vidalaw/intake-api/pkg/errors"
	"github.com/vidalaw/intake-api/pkg/i18n"
	"github.com/vidalaw/intake-api/pkg/security"
	"github.com/vidalaw/intake-api/pkg/types"
)

// PlanLogic covers emergency plans. They are written once by staff and from
// then on only read; all lifecycle control lives in the share policy.
type PlanLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewPlanLogic(ctx context.Context, core *core.Core) *PlanLogic {
	return &PlanLogic{
		ctx:  ctx,
		core: core,
	}
}

func (l *PlanLogic) CreatePlan(clientName string, fields types.FormFields) (*types.EmergencyPlan, error) {
	if clientName == "" {
		return nil, pkgerrors.New("PlanLogic.CreatePlan.ClientName", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}
	if fields == nil {
		fields = types.FormFields{}
	}

	plan := &types.EmergencyPlan{
		ID:         uuid.New().String(),
		ClientName: clientName,
		Fields:     fields,
		CreatedBy:  StaffInfo(l.ctx),
	}

	if err := l.core.Store().EmergencyPlanStore().Create(l.ctx, plan); err != nil {
		return nil, pkgerrors.New("PlanLogic.CreatePlan.Create", i18n.ERROR_INTERNAL, err)
	}
	return plan, nil
}

func (l *PlanLogic) GetPlan(id string) (*types.EmergencyPlan, error) {
	plan, err := l.core.Store().EmergencyPlanStore().Get(l.ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, pkgerrors.New("PlanLogic.GetPlan.Get", i18n.ERROR_NOT_FOUND, err).Code(http.StatusNotFound)
		}
		return nil, pkgerrors.New("PlanLogic.GetPlan.Get", i18n.ERROR_INTERNAL, err)
	}
	return plan, nil
}

func (l *PlanLogic) GetPlanForGrant(grant *security.ShareGrantClaims) (*types.EmergencyPlan, error) {
	if grant == nil || grant.Kind != types.SHARE_KIND_PLAN {
		return nil, pkgerrors.New("PlanLogic.GetPlanForGrant.Kind", i18n.ERROR_FORBIDDEN, nil).Code(http.StatusForbidden)
	}
	return l.GetPlan(grant.ResourceID)
}

// DeletePlan also revokes any outstanding links so a stale token cannot
// resolve into a dangling resource.
func (l *PlanLogic) DeletePlan(id string) error {
	return l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if err := l.core.Store().EmergencyPlanStore().Delete(ctx, id); err != nil {
			return pkgerrors.New("PlanLogic.DeletePlan.Delete", i18n.ERROR_INTERNAL, err)
		}

		link, err := l.core.Store().ShareTokenStore().GetByResource(ctx, types.SHARE_KIND_PLAN, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			return pkgerrors.New("PlanLogic.DeletePlan.GetByResource", i18n.ERROR_INTERNAL, err)
		}
		if err = l.core.Store().ShareTokenStore().Delete(ctx, link.Token); err != nil {
			return pkgerrors.New("PlanLogic.DeletePlan.DeleteToken", i18n.ERROR_INTERNAL, err)
		}
		return nil
	})
}
