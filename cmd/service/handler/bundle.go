package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/vidalaw/intake-api/app/logic/v1"
	"github.com/vidalaw/intake-api/app/response"
	"github.com/vidalaw/intake-api/pkg/errors"
	"github.com/vidalaw/intake-api/pkg/i18n"
	"github.com/vidalaw/intake-api/pkg/types"
	"github.com/vidalaw/intake-api/pkg/utils"
)

type CreateBundleRequest struct {
	ClientName  string `json:"client_name" binding:"required"`
	SponsorName string `json:"sponsor_name"`
}

func (s *HttpSrv) CreateBundle(c *gin.Context) {
	var (
		err error
		req CreateBundleRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	bundle, err := v1.NewBundleLogic(c, s.Core).CreateBundle(req.ClientName, req.SponsorName)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, bundle)
}

func (s *HttpSrv) GetBundle(c *gin.Context) {
	bundleID, _ := c.Params.Get("bundleID")
	detail, err := v1.NewBundleLogic(c, s.Core).GetBundle(bundleID)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, detail)
}

type ListBundlesRequest struct {
	Status   string `form:"status"`
	Page     uint64 `form:"page"`
	PageSize uint64 `form:"pagesize"`
}

func (s *HttpSrv) ListBundles(c *gin.Context) {
	var (
		err error
		req ListBundlesRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	opts := types.ListSponsorBundleOptions{}
	if req.Status != "" {
		status := types.BundleStatus(req.Status)
		opts.Status = &status
	}

	list, err := v1.NewBundleLogic(c, s.Core).ListBundles(opts, req.Page, req.PageSize)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, list)
}

type BundleFileURLResponse struct {
	URL string `json:"url"`
}

func (s *HttpSrv) GetBundleFileURL(c *gin.Context) {
	bundleID, _ := c.Params.Get("bundleID")
	fileID, _ := c.Params.Get("fileID")

	url, err := v1.NewBundleLogic(c, s.Core).FileDownloadURL(bundleID, fileID)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, BundleFileURLResponse{URL: url})
}

func (s *HttpSrv) GetSharedBundle(c *gin.Context) {
	grant, _ := v1.GetShareGrant(c)
	detail, err := v1.NewBundleLogic(c, s.Core).GetBundleForGrant(grant)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, detail)
}

// UploadSharedBundleFile takes one multipart document. The body is read
// through a hard cap one byte past the configured limit so an oversized
// upload fails with 413 instead of buffering without bound.
func (s *HttpSrv) UploadSharedBundleFile(c *gin.Context) {
	grant, _ := v1.GetShareGrant(c)
	logic := v1.NewBundleLogic(c, s.Core)
	detail, err := logic.GetBundleForGrant(grant)
	if err != nil {
		response.APIError(c, err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.APIError(c, errors.New("UploadSharedBundleFile.FormFile", i18n.ERROR_INVALIDARGUMENT, err).Code(http.StatusBadRequest))
		return
	}

	category := types.FileCategory(c.PostForm("category"))
	displayName := c.PostForm("display_name")
	if displayName == "" {
		displayName = fileHeader.Filename
	}

	src, err := fileHeader.Open()
	if err != nil {
		response.APIError(c, errors.New("UploadSharedBundleFile.Open", i18n.ERROR_INTERNAL, err))
		return
	}
	defer src.Close()

	maxBytes := s.Core.Cfg().Share.MaxUploadBytes
	content, err := io.ReadAll(io.LimitReader(src, maxBytes+1))
	if err != nil {
		response.APIError(c, errors.New("UploadSharedBundleFile.ReadAll", i18n.ERROR_INTERNAL, err))
		return
	}
	if int64(len(content)) > maxBytes {
		response.APIError(c, errors.New("UploadSharedBundleFile.Size", i18n.ERROR_PAYLOAD_TOO_LARGE, nil).Code(http.StatusRequestEntityTooLarge))
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	file, err := logic.AddFile(detail.ID, category, displayName, mimeType, content)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, file)
}

func (s *HttpSrv) RemoveSharedBundleFile(c *gin.Context) {
	grant, _ := v1.GetShareGrant(c)
	logic := v1.NewBundleLogic(c, s.Core)
	detail, err := logic.GetBundleForGrant(grant)
	if err != nil {
		response.APIError(c, err)
		return
	}

	fileID, _ := c.Params.Get("fileID")
	if err = logic.RemoveFile(detail.ID, fileID); err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, response.EmptyStruct{})
}

func (s *HttpSrv) SubmitSharedBundle(c *gin.Context) {
	grant, _ := v1.GetShareGrant(c)
	logic := v1.NewBundleLogic(c, s.Core)
	detail, err := logic.GetBundleForGrant(grant)
	if err != nil {
		response.APIError(c, err)
		return
	}

	submitted, err := logic.SubmitBundle(detail.ID)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, submitted)
}
