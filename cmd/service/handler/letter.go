package handler

import (
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/vidalaw/intake-api/app/logic/v1"
	"github.com/vidalaw/intake-api/app/response"
	"github.com/vidalaw/intake-api/pkg/errors"
	"github.com/vidalaw/intake-api/pkg/i18n"
	"github.com/vidalaw/intake-api/pkg/types"
	"github.com/vidalaw/intake-api/pkg/utils"
)

type CreateLetterRequest struct {
	ClientName string `json:"client_name" binding:"required"`
}

func (s *HttpSrv) CreateLetter(c *gin.Context) {
	var (
		err error
		req CreateLetterRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	letter, err := v1.NewLetterLogic(c, s.Core).CreateLetter(req.ClientName)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, letter)
}

func (s *HttpSrv) GetLetter(c *gin.Context) {
	letterID, _ := c.Params.Get("letterID")
	letter, err := v1.NewLetterLogic(c, s.Core).GetLetter(letterID)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, letter)
}

type ListLettersRequest struct {
	Status   string `form:"status"`
	Page     uint64 `form:"page"`
	PageSize uint64 `form:"pagesize"`
}

func (s *HttpSrv) ListLetters(c *gin.Context) {
	var (
		err error
		req ListLettersRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	opts := types.ListCharacterLetterOptions{}
	if req.Status != "" {
		status := types.LetterStatus(req.Status)
		opts.Status = &status
	}

	res, err := v1.NewLetterLogic(c, s.Core).ListLetters(opts, req.Page, req.PageSize)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, res)
}

// GetSharedLetter serves the writer's view. The resource id comes from the
// grant, never from the path, so one grant can never read another letter.
func (s *HttpSrv) GetSharedLetter(c *gin.Context) {
	grant, _ := v1.GetShareGrant(c)
	letter, err := v1.NewLetterLogic(c, s.Core).GetLetterForGrant(grant)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, letter)
}

type SaveLetterFieldsRequest struct {
	Fields types.FormFields `json:"fields" binding:"required"`
}

func (s *HttpSrv) SaveSharedLetterFields(c *gin.Context) {
	var (
		err error
		req SaveLetterFieldsRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	grant, _ := v1.GetShareGrant(c)
	logic := v1.NewLetterLogic(c, s.Core)
	letter, err := logic.GetLetterForGrant(grant)
	if err != nil {
		response.APIError(c, err)
		return
	}

	if err = logic.SaveFields(letter.ID, req.Fields); err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, response.EmptyStruct{})
}

type FinalizeLetterRequest struct {
	Fields    types.FormFields `json:"fields"`
	Signature string           `json:"signature"`
}

func (s *HttpSrv) FinalizeSharedLetter(c *gin.Context) {
	var (
		err error
		req FinalizeLetterRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	var signature []byte
	if req.Signature != "" {
		if signature, err = base64.StdEncoding.DecodeString(req.Signature); err != nil {
			response.APIError(c, errors.New("FinalizeSharedLetter.DecodeSignature", i18n.ERROR_INVALIDARGUMENT, err).Code(http.StatusBadRequest))
			return
		}
	}

	grant, _ := v1.GetShareGrant(c)
	logic := v1.NewLetterLogic(c, s.Core)
	letter, err := logic.GetLetterForGrant(grant)
	if err != nil {
		response.APIError(c, err)
		return
	}

	finalized, err := logic.FinalizeLetter(letter.ID, req.Fields, signature, false)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, finalized)
}

type MarkLetterMailedRequest struct {
	Fields types.FormFields `json:"fields"`
}

// MarkLetterMailed closes out a letter that came back on paper. Staff side;
// no signature image is required on this path.
func (s *HttpSrv) MarkLetterMailed(c *gin.Context) {
	var (
		err error
		req MarkLetterMailedRequest
	)
	if c.Request.ContentLength > 0 {
		if err = utils.BindArgsWithGin(c, &req); err != nil {
			response.APIError(c, err)
			return
		}
	}

	letterID, _ := c.Params.Get("letterID")
	finalized, err := v1.NewLetterLogic(c, s.Core).FinalizeLetter(letterID, req.Fields, nil, true)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, finalized)
}
