package core

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vidalaw/intake-api/pkg/object-storage/s3"
)

// FileStorage abstracts where signature images and sponsor documents live.
type FileStorage interface {
	SaveFile(fullPath string, content []byte) error
	DeleteFile(fullFilePath string) error
	GenGetObjectPreSignURL(url string) (string, error)
}

func SetupObjectStorage(cfg ObjectStorageDriver) FileStorage {
	var s FileStorage
	switch strings.ToLower(cfg.Driver) {
	case "s3":
		s3Cfg := cfg.S3
		s = &S3FileStorage{
			S3: s3.NewS3Client(s3Cfg.Endpoint, s3Cfg.Region, s3Cfg.Bucket, s3Cfg.AccessKey, s3Cfg.SecretKey, s3.WithPathStyle(s3Cfg.UsePathStyle)),
		}
	case "local":
		s = &LocalFileStorage{
			StaticDomain: cfg.StaticDomain,
		}
	default:
		s = &NoneFileStorage{}
	}

	return s
}

type NoneFileStorage struct{}

func (fs *NoneFileStorage) SaveFile(fullPath string, content []byte) error {
	return fmt.Errorf("object storage not configured")
}

func (fs *NoneFileStorage) DeleteFile(fullFilePath string) error {
	return fmt.Errorf("object storage not configured")
}

func (fs *NoneFileStorage) GenGetObjectPreSignURL(url string) (string, error) {
	return "", fmt.Errorf("object storage not configured")
}

type LocalFileStorage struct {
	StaticDomain string
}

func (fs *LocalFileStorage) SaveFile(fullPath string, content []byte) error {
	dir := filepath.Dir(fullPath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("failed to check directory: %w", err)
	}

	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}
	return nil
}

func (fs *LocalFileStorage) DeleteFile(fullFilePath string) error {
	if err := os.Remove(fullFilePath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// GenGetObjectPreSignURL on the local driver has nothing to sign; files are
// served straight off the static domain.
func (fs *LocalFileStorage) GenGetObjectPreSignURL(url string) (string, error) {
	return strings.TrimSuffix(fs.StaticDomain, "/") + "/" + strings.TrimPrefix(url, "/"), nil
}

type S3FileStorage struct {
	*s3.S3
}

func (fs *S3FileStorage) SaveFile(fullPath string, content []byte) error {
	return fs.Upload(fullPath, bytes.NewReader(content))
}

func (fs *S3FileStorage) DeleteFile(fullFilePath string) error {
	return fs.Delete(fullFilePath)
}
