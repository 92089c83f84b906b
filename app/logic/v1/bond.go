package v1

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vidalaw/intake-api/app/core"
	"github.com/vidalaw/intake-api/app/core/srv"
	pkgerrors "github.com/vidalaw/intake-api/pkg/errors"
	"github.com/vidalaw/intake-api/pkg/i18n"
	"github.com/vidalaw/intake-api/pkg/types"
)

// BondLogic handles the bond-submission triage queue. Intake is public,
// everything else is staff-side. Statuses are advisory labels, so any valid
// status can follow any other; the append-only history is the real record.
type BondLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewBondLogic(ctx context.Context, core *core.Core) *BondLogic {
	return &BondLogic{
		ctx:  ctx,
		core: core,
	}
}

type CreateBondSubmissionRequest struct {
	DetaineeName  string           `json:"detainee_name"`
	ContactName   string           `json:"contact_name"`
	ContactPhone  string           `json:"contact_phone"`
	DetentionSite string           `json:"detention_site"`
	Fields        types.FormFields `json:"fields"`
}

func (l *BondLogic) CreateSubmission(req CreateBondSubmissionRequest) (*types.BondSubmission, error) {
	if req.DetaineeName == "" || req.ContactName == "" {
		return nil, pkgerrors.New("BondLogic.CreateSubmission.Required", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}
	if req.Fields == nil {
		req.Fields = types.FormFields{}
	}

	bond := &types.BondSubmission{
		ID:            uuid.New().String(),
		DetaineeName:  req.DetaineeName,
		ContactName:   req.ContactName,
		ContactPhone:  req.ContactPhone,
		DetentionSite: req.DetentionSite,
		Fields:        req.Fields,
		Status:        types.BOND_STATUS_NEW,
	}

	err := l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if err := l.core.Store().BondSubmissionStore().Create(ctx, bond); err != nil {
			return err
		}
		return l.core.Store().BondStatusHistoryStore().Append(ctx, &types.BondStatusHistory{
			BondID: bond.ID,
			Status: types.BOND_STATUS_NEW,
		})
	})
	if err != nil {
		return nil, pkgerrors.New("BondLogic.CreateSubmission.Tx", i18n.ERROR_INTERNAL, err)
	}

	return bond, nil
}

type BondDetail struct {
	*types.BondSubmission
	History []types.BondStatusHistory `json:"history"`
}

func (l *BondLogic) GetSubmission(id string) (*BondDetail, error) {
	bond, err := l.core.Store().BondSubmissionStore().Get(l.ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, pkgerrors.New("BondLogic.GetSubmission.Get", i18n.ERROR_NOT_FOUND, err).Code(http.StatusNotFound)
		}
		return nil, pkgerrors.New("BondLogic.GetSubmission.Get", i18n.ERROR_INTERNAL, err)
	}

	history, err := l.core.Store().BondStatusHistoryStore().List(l.ctx, id)
	if err != nil {
		return nil, pkgerrors.New("BondLogic.GetSubmission.History", i18n.ERROR_INTERNAL, err)
	}

	return &BondDetail{
		BondSubmission: bond,
		History:        history,
	}, nil
}

type ListBondSubmissionsResult struct {
	List  []*types.BondSubmission `json:"list"`
	Total int64                   `json:"total"`
}

func (l *BondLogic) ListSubmissions(opts types.ListBondSubmissionOptions, page, pageSize uint64) (ListBondSubmissionsResult, error) {
	res := ListBondSubmissionsResult{}
	if pageSize == 0 || pageSize > types.MAX_PAGE_SIZE {
		pageSize = types.DEFAULT_PAGE_SIZE
	}
	if page == 0 {
		page = 1
	}

	list, err := l.core.Store().BondSubmissionStore().List(l.ctx, opts, page, pageSize)
	if err != nil {
		return res, pkgerrors.New("BondLogic.ListSubmissions.List", i18n.ERROR_INTERNAL, err)
	}

	total, err := l.core.Store().BondSubmissionStore().Total(l.ctx, opts)
	if err != nil {
		return res, pkgerrors.New("BondLogic.ListSubmissions.Total", i18n.ERROR_INTERNAL, err)
	}

	res.List = list
	res.Total = total
	return res, nil
}

// UpdateStatus relabels the submission and appends the trail entry in one
// transaction, so the history can never miss a hop.
func (l *BondLogic) UpdateStatus(id string, status types.BondStatus, note string) (*BondDetail, error) {
	if !status.Valid() {
		return nil, pkgerrors.New("BondLogic.UpdateStatus.Status", i18n.ERROR_ILLEGAL_TRANSITION, nil).Code(http.StatusBadRequest)
	}

	principal := StaffInfo(l.ctx)
	err := l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if _, err := l.core.Store().BondSubmissionStore().Get(ctx, id); err != nil {
			return err
		}

		now := time.Now().Unix()
		if err := l.core.Store().BondSubmissionStore().UpdateStatus(ctx, id, status, now); err != nil {
			return err
		}
		return l.core.Store().BondStatusHistoryStore().Append(ctx, &types.BondStatusHistory{
			BondID:    id,
			Status:    status,
			Principal: principal,
			Note:      note,
			CreatedAt: now,
		})
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, pkgerrors.New("BondLogic.UpdateStatus.Tx", i18n.ERROR_NOT_FOUND, err).Code(http.StatusNotFound)
		}
		return nil, pkgerrors.New("BondLogic.UpdateStatus.Tx", i18n.ERROR_INTERNAL, err)
	}

	l.core.Srv().Dispatcher().Dispatch(srv.Event{
		Name: srv.EVENT_BOND_STATUS_CHANGED,
		Payload: map[string]any{
			"bond_id":   id,
			"status":    status,
			"principal": principal,
		},
	})

	return l.GetSubmission(id)
}
