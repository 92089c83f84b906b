package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/vidalaw/intake-api/app/logic/v1"
	"github.com/vidalaw/intake-api/app/response"
	"github.com/vidalaw/intake-api/pkg/types"
	"github.com/vidalaw/intake-api/pkg/utils"
)

type CreatePlanRequest struct {
	ClientName string           `json:"client_name" binding:"required"`
	Fields     types.FormFields `json:"fields"`
}

func (s *HttpSrv) CreatePlan(c *gin.Context) {
	var (
		err error
		req CreatePlanRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	plan, err := v1.NewPlanLogic(c, s.Core).CreatePlan(req.ClientName, req.Fields)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, plan)
}

func (s *HttpSrv) GetPlan(c *gin.Context) {
	planID, _ := c.Params.Get("planID")
	plan, err := v1.NewPlanLogic(c, s.Core).GetPlan(planID)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, plan)
}

func (s *HttpSrv) DeletePlan(c *gin.Context) {
	planID, _ := c.Params.Get("planID")
	if err := v1.NewPlanLogic(c, s.Core).DeletePlan(planID); err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, response.EmptyStruct{})
}

func (s *HttpSrv) GetSharedPlan(c *gin.Context) {
	grant, _ := v1.GetShareGrant(c)
	plan, err := v1.NewPlanLogic(c, s.Core).GetPlanForGrant(grant)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, plan)
}
