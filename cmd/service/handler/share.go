package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/vidalaw/intake-api/app/logic/v1"
	"github.com/vidalaw/intake-api/app/response"
	"github.com/vidalaw/intake-api/pkg/types"
	"github.com/vidalaw/intake-api/pkg/utils"
)

type RedeemShareTokenRequest struct {
	Password string `json:"password"`
}

// RedeemShareToken is the one door every link goes through. POST because the
// password travels in the body and because a successful call consumes a view.
func (s *HttpSrv) RedeemShareToken(c *gin.Context) {
	var (
		err error
		req RedeemShareTokenRequest
	)
	if c.Request.ContentLength > 0 {
		if err = utils.BindArgsWithGin(c, &req); err != nil {
			response.APIError(c, err)
			return
		}
	}

	token, _ := c.Params.Get("token")
	res, err := v1.NewAccessLogic(c, s.Core).Redeem(token, req.Password)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, res)
}

type IssueShareTokenRequest struct {
	Kind       string `json:"kind" binding:"required"`
	ResourceID string `json:"resource_id" binding:"required"`
	Password   string `json:"password"`
	ExpireAt   int64  `json:"expire_at"`
	MaxViews   int    `json:"max_views"`
}

func (s *HttpSrv) IssueShareToken(c *gin.Context) {
	var (
		err error
		req IssueShareTokenRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	res, err := v1.NewShareLogic(c, s.Core).IssueToken(req.Kind, req.ResourceID, types.SharePolicy{
		Password: req.Password,
		ExpireAt: req.ExpireAt,
		MaxViews: req.MaxViews,
	})
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, res)
}

func (s *HttpSrv) RevokeShareToken(c *gin.Context) {
	token, _ := c.Params.Get("token")
	if err := v1.NewShareLogic(c, s.Core).RevokeToken(token); err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, response.EmptyStruct{})
}
