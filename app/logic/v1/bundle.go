package v1

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/vidalaw/intake-api/app/core"
	"github.com/vidalaw/intake-api/app/core/srv"
	pkgerrors "github.com/vidalaw/intake-api/pkg/errors"
	"github.com/vidalaw/intake-api/pkg/i18n"
	"github.com/vidalaw/intake-api/pkg/safe"
	"github.com/vidalaw/intake-api/pkg/security"
	"github.com/vidalaw/intake-api/pkg/types"
)

type BundleLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewBundleLogic(ctx context.Context, core *core.Core) *BundleLogic {
	return &BundleLogic{
		ctx:  ctx,
		core: core,
	}
}

func (l *BundleLogic) CreateBundle(clientName, sponsorName string) (*types.SponsorBundle, error) {
	if clientName == "" {
		return nil, pkgerrors.New("BundleLogic.CreateBundle.ClientName", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}

	bundle := &types.SponsorBundle{
		ID:          uuid.New().String(),
		ClientName:  clientName,
		SponsorName: sponsorName,
		Status:      types.BUNDLE_STATUS_PENDING,
		CreatedBy:   StaffInfo(l.ctx),
	}

	if err := l.core.Store().SponsorBundleStore().Create(l.ctx, bundle); err != nil {
		return nil, pkgerrors.New("BundleLogic.CreateBundle.Create", i18n.ERROR_INTERNAL, err)
	}
	return bundle, nil
}

type BundleDetail struct {
	*types.SponsorBundle
	Files []types.BundleFile `json:"files"`
}

func (l *BundleLogic) GetBundle(id string) (*BundleDetail, error) {
	bundle, err := l.core.Store().SponsorBundleStore().Get(l.ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, pkgerrors.New("BundleLogic.GetBundle.Get", i18n.ERROR_NOT_FOUND, err).Code(http.StatusNotFound)
		}
		return nil, pkgerrors.New("BundleLogic.GetBundle.Get", i18n.ERROR_INTERNAL, err)
	}

	files, err := l.core.Store().BundleFileStore().List(l.ctx, id)
	if err != nil {
		return nil, pkgerrors.New("BundleLogic.GetBundle.ListFiles", i18n.ERROR_INTERNAL, err)
	}

	return &BundleDetail{
		SponsorBundle: bundle,
		Files:         files,
	}, nil
}

func (l *BundleLogic) ListBundles(opts types.ListSponsorBundleOptions, page, pageSize uint64) ([]*types.SponsorBundle, error) {
	if pageSize == 0 || pageSize > types.MAX_PAGE_SIZE {
		pageSize = types.DEFAULT_PAGE_SIZE
	}
	if page == 0 {
		page = 1
	}

	list, err := l.core.Store().SponsorBundleStore().List(l.ctx, opts, page, pageSize)
	if err != nil {
		return nil, pkgerrors.New("BundleLogic.ListBundles.List", i18n.ERROR_INTERNAL, err)
	}
	return list, nil
}

func (l *BundleLogic) GetBundleForGrant(grant *security.ShareGrantClaims) (*BundleDetail, error) {
	if grant == nil || grant.Kind != types.SHARE_KIND_BUNDLE {
		return nil, pkgerrors.New("BundleLogic.GetBundleForGrant.Kind", i18n.ERROR_FORBIDDEN, nil).Code(http.StatusForbidden)
	}
	return l.GetBundle(grant.ResourceID)
}

// FileDownloadURL hands staff a short-lived link to one stored document.
// Only the object key lives in the database; the blob store does the serving.
func (l *BundleLogic) FileDownloadURL(bundleID, fileID string) (string, error) {
	file, err := l.core.Store().BundleFileStore().Get(l.ctx, bundleID, fileID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", pkgerrors.New("BundleLogic.FileDownloadURL.Get", i18n.ERROR_NOT_FOUND, err).Code(http.StatusNotFound)
		}
		return "", pkgerrors.New("BundleLogic.FileDownloadURL.Get", i18n.ERROR_INTERNAL, err)
	}

	url, err := l.core.FileStorage().GenGetObjectPreSignURL(file.FileKey)
	if err != nil {
		return "", pkgerrors.New("BundleLogic.FileDownloadURL.PreSign", i18n.ERROR_INTERNAL, err)
	}
	return url, nil
}

// AddFile validates and stores one document. The blob goes to object storage
// first; the row insert then re-checks the bundle status under a row lock so
// a submit racing an upload cannot slip a file into a frozen bundle.
func (l *BundleLogic) AddFile(bundleID string, category types.FileCategory, displayName, mimeType string, content []byte) (*types.BundleFile, error) {
	if !category.Valid() {
		return nil, pkgerrors.New("BundleLogic.AddFile.Category", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}
	if displayName == "" || len(content) == 0 {
		return nil, pkgerrors.New("BundleLogic.AddFile.Payload", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}
	if int64(len(content)) > l.core.Cfg().Share.MaxUploadBytes {
		return nil, pkgerrors.New("BundleLogic.AddFile.Size", i18n.ERROR_PAYLOAD_TOO_LARGE, nil).Code(http.StatusRequestEntityTooLarge)
	}
	if !lo.Contains(l.core.Cfg().Share.AllowedMimeTypes, mimeType) {
		return nil, pkgerrors.New("BundleLogic.AddFile.MimeType", i18n.ERROR_UNSUPPORTED_MEDIA_TYPE, nil).Code(http.StatusUnsupportedMediaType)
	}

	file := &types.BundleFile{
		ID:          uuid.New().String(),
		BundleID:    bundleID,
		Category:    category,
		DisplayName: displayName,
		FileKey:     fmt.Sprintf("bundles/%s/%s", bundleID, uuid.New().String()),
		SizeBytes:   int64(len(content)),
		MimeType:    mimeType,
	}

	if err := l.core.FileStorage().SaveFile(file.FileKey, content); err != nil {
		return nil, pkgerrors.New("BundleLogic.AddFile.SaveFile", i18n.ERROR_INTERNAL, err)
	}

	err := l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		bundle, err := l.core.Store().SponsorBundleStore().GetForUpdate(ctx, bundleID)
		if err != nil {
			return err
		}
		if bundle.Status.Terminal() {
			return types.ErrBundleFinalized
		}
		return l.core.Store().BundleFileStore().Create(ctx, file)
	})
	if err != nil {
		l.cleanupBlob(file.FileKey)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, pkgerrors.New("BundleLogic.AddFile.Tx", i18n.ERROR_NOT_FOUND, err).Code(http.StatusNotFound)
		case errors.Is(err, types.ErrBundleFinalized):
			return nil, pkgerrors.New("BundleLogic.AddFile.Tx", i18n.ERROR_BUNDLE_FINALIZED, err).Code(http.StatusConflict)
		default:
			return nil, pkgerrors.New("BundleLogic.AddFile.Tx", i18n.ERROR_INTERNAL, err)
		}
	}

	return file, nil
}

func (l *BundleLogic) RemoveFile(bundleID, fileID string) error {
	var fileKey string
	err := l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		bundle, err := l.core.Store().SponsorBundleStore().GetForUpdate(ctx, bundleID)
		if err != nil {
			return err
		}
		if bundle.Status.Terminal() {
			return types.ErrBundleFinalized
		}

		file, err := l.core.Store().BundleFileStore().Get(ctx, bundleID, fileID)
		if err != nil {
			return err
		}
		fileKey = file.FileKey

		return l.core.Store().BundleFileStore().Delete(ctx, bundleID, fileID)
	})
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return pkgerrors.New("BundleLogic.RemoveFile.Tx", i18n.ERROR_NOT_FOUND, err).Code(http.StatusNotFound)
		case errors.Is(err, types.ErrBundleFinalized):
			return pkgerrors.New("BundleLogic.RemoveFile.Tx", i18n.ERROR_BUNDLE_FINALIZED, err).Code(http.StatusConflict)
		default:
			return pkgerrors.New("BundleLogic.RemoveFile.Tx", i18n.ERROR_INTERNAL, err)
		}
	}

	l.cleanupBlob(fileKey)
	return nil
}

// SubmitBundle freezes the bundle. An empty bundle never submits; the file
// count is taken under the same row lock that blocks concurrent removals.
func (l *BundleLogic) SubmitBundle(bundleID string) (*types.SponsorBundle, error) {
	var submitted *types.SponsorBundle
	err := l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		bundle, err := l.core.Store().SponsorBundleStore().GetForUpdate(ctx, bundleID)
		if err != nil {
			return err
		}
		if bundle.Status.Terminal() {
			return types.ErrBundleFinalized
		}

		count, err := l.core.Store().BundleFileStore().Count(ctx, bundleID)
		if err != nil {
			return err
		}
		if count == 0 {
			return pkgerrors.New("BundleLogic.SubmitBundle.Empty", i18n.ERROR_BUNDLE_EMPTY, nil).Code(http.StatusUnprocessableEntity)
		}

		now := time.Now().Unix()
		if err = l.core.Store().SponsorBundleStore().Submit(ctx, bundleID, now); err != nil {
			return err
		}

		bundle.Status = types.BUNDLE_STATUS_SUBMITTED
		bundle.UpdatedAt = now
		bundle.FinalizedAt = now
		submitted = bundle
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, pkgerrors.New("BundleLogic.SubmitBundle.Tx", i18n.ERROR_NOT_FOUND, err).Code(http.StatusNotFound)
		case errors.Is(err, types.ErrBundleFinalized):
			return nil, pkgerrors.New("BundleLogic.SubmitBundle.Tx", i18n.ERROR_BUNDLE_FINALIZED, err).Code(http.StatusConflict)
		default:
			return nil, pkgerrors.Trace("BundleLogic.SubmitBundle.Tx", err)
		}
	}

	l.core.Metrics().FinalizeInc("bundle")
	l.core.Srv().Dispatcher().Dispatch(srv.Event{
		Name: srv.EVENT_BUNDLE_SUBMITTED,
		Payload: map[string]any{
			"bundle_id":   submitted.ID,
			"client_name": submitted.ClientName,
		},
	})

	return submitted, nil
}

func (l *BundleLogic) cleanupBlob(fileKey string) {
	if fileKey == "" {
		return
	}
	go safe.Run(func() {
		if err := l.core.FileStorage().DeleteFile(fileKey); err != nil {
			slog.Warn("Failed to remove bundle blob", slog.String("key", fileKey), slog.String("error", err.Error()))
		}
	})
}
