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
		provider.stores.BundleFileStore = NewBundleFileStore(provider)
	})
}

func NewBundleFileStore(provider SqlProviderAchieve) *BundleFileStoreImpl {
	repo := &BundleFileStoreImpl{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_BUNDLE_FILE)
	repo.SetAllColumns(
		"id", "bundle_id", "category", "display_name", "file_key", "size_bytes", "mime_type", "uploaded_at",
	)
	return repo
}

type BundleFileStoreImpl struct {
	CommonFields
}

func (s *BundleFileStoreImpl) Create(ctx context.Context, file *types.BundleFile) error {
	if file.UploadedAt == 0 {
		file.UploadedAt = time.Now().Unix()
	}
	query := sq.Insert(s.GetTable()).
		Columns("id", "bundle_id", "category", "display_name", "file_key", "size_bytes", "mime_type", "uploaded_at").
		Values(file.ID, file.BundleID, file.Category, file.DisplayName, file.FileKey, file.SizeBytes, file.MimeType, file.UploadedAt)

	sql, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(sql, args...)
	return err
}

func (s *BundleFileStoreImpl) Get(ctx context.Context, bundleID, fileID string) (*types.BundleFile, error) {
	query := sq.Select(s.GetAllColumns()...).
		From(s.GetTable()).
		Where(sq.Eq{"bundle_id": bundleID, "id": fileID})

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var file types.BundleFile
	if err = s.GetReplica(ctx).Get(&file, sql, args...); err != nil {
		return nil, err
	}

	return &file, nil
}

func (s *BundleFileStoreImpl) Delete(ctx context.Context, bundleID, fileID string) error {
	query := sq.Delete(s.GetTable()).
		Where(sq.Eq{"bundle_id": bundleID, "id": fileID})

	sql, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(sql, args...)
	return err
}

func (s *BundleFileStoreImpl) List(ctx context.Context, bundleID string) ([]types.BundleFile, error) {
	query := sq.Select(s.GetAllColumns()...).
		From(s.GetTable()).
		Where(sq.Eq{"bundle_id": bundleID}).
		OrderBy("uploaded_at ASC")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var files []types.BundleFile
	if err = s.GetReplica(ctx).Select(&files, sql, args...); err != nil {
		return nil, err
	}

	return files, nil
}

func (s *BundleFileStoreImpl) Count(ctx context.Context, bundleID string) (int64, error) {
	query := sq.Select("COUNT(*)").
		From(s.GetTable()).
		Where(sq.Eq{"bundle_id": bundleID})

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, ErrorSqlBuild(err)
	}

	var count int64
	if err = s.GetReplica(ctx).Get(&count, sql, args...); err != nil {
		return 0, err
	}

	return count, nil
}
