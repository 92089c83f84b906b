package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/vidalaw/intake-api/app/logic/v1"
	"github.com/vidalaw/intake-api/app/response"
	"github.com/vidalaw/intake-api/pkg/types"
	"github.com/vidalaw/intake-api/pkg/utils"
)

// CreateBondSubmission is the one anonymous write endpoint. It sits behind an
// IP limiter in the router; the payload itself needs no credentials.
func (s *HttpSrv) CreateBondSubmission(c *gin.Context) {
	var (
		err error
		req v1.CreateBondSubmissionRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	bond, err := v1.NewBondLogic(c, s.Core).CreateSubmission(req)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, bond)
}

func (s *HttpSrv) GetBondSubmission(c *gin.Context) {
	bondID, _ := c.Params.Get("bondID")
	detail, err := v1.NewBondLogic(c, s.Core).GetSubmission(bondID)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, detail)
}

type ListBondSubmissionsRequest struct {
	Status   string `form:"status"`
	Detainee string `form:"detainee"`
	Page     uint64 `form:"page"`
	PageSize uint64 `form:"pagesize"`
}

func (s *HttpSrv) ListBondSubmissions(c *gin.Context) {
	var (
		err error
		req ListBondSubmissionsRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	opts := types.ListBondSubmissionOptions{
		Detainee: req.Detainee,
	}
	if req.Status != "" {
		status := types.BondStatus(req.Status)
		opts.Status = &status
	}

	res, err := v1.NewBondLogic(c, s.Core).ListSubmissions(opts, req.Page, req.PageSize)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, res)
}

type UpdateBondStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

func (s *HttpSrv) UpdateBondStatus(c *gin.Context) {
	var (
		err error
		req UpdateBondStatusRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	bondID, _ := c.Params.Get("bondID")
	detail, err := v1.NewBondLogic(c, s.Core).UpdateStatus(bondID, types.BondStatus(req.Status), req.Note)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, detail)
}
