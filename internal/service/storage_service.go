package service

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"prep_admin_backend/internal/config"
	"prep_admin_backend/pkg/logger"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// StorageProvider keeps uploaded exercise documents and listening audio.
// Keys are slash separated object names built by ObjectName; the returned
// string is the public URL stored on the row.
type StorageProvider interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)
	UploadFile(ctx context.Context, key string, localPath string, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	GetURL(key string) string
}

var errBadKey = errors.New("storage: invalid object key")

// cleanKey rejects keys that would leave the storage root.
func cleanKey(key string) (string, error) {
	cleaned := path.Clean("/" + key)[1:]
	if cleaned == "" || cleaned != strings.TrimPrefix(key, "/") || strings.Contains(key, "..") {
		return "", errors.Wrap(errBadKey, key)
	}
	return cleaned, nil
}

func joinURL(base string, parts ...string) string {
	escaped := make([]string, 0, len(parts))
	for _, p := range parts {
		for _, seg := range strings.Split(p, "/") {
			escaped = append(escaped, url.PathEscape(seg))
		}
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.Join(escaped, "/")
}

// LocalStorageProvider writes under Storage.LocalPath; the router serves the
// directory at /uploads.
type LocalStorageProvider struct {
	Root    string
	BaseURL string
}

func (p *LocalStorageProvider) path(key string) (string, error) {
	key, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(p.Root, filepath.FromSlash(key)), nil
}

// Upload writes to a temporary file next to the target and renames it, so a
// failed copy never leaves a partial object behind.
func (p *LocalStorageProvider) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	dst, err := p.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", errors.Wrap(err, "create upload directory")
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return "", errors.Wrap(err, "create upload file")
	}
	defer os.Remove(tmp.Name())

	_, err = io.Copy(tmp, reader)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", errors.Wrapf(err, "write %s", key)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", errors.Wrapf(err, "store %s", key)
	}
	return p.GetURL(key), nil
}

func (p *LocalStorageProvider) UploadFile(ctx context.Context, key string, localPath string, contentType string) (string, error) {
	src, err := os.Open(localPath)
	if err != nil {
		return "", errors.Wrap(err, "open spooled upload")
	}
	defer src.Close()
	return p.Upload(ctx, key, src, -1, contentType)
}

func (p *LocalStorageProvider) Delete(ctx context.Context, key string) error {
	dst, err := p.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "delete %s", key)
	}
	return nil
}

func (p *LocalStorageProvider) GetURL(key string) string {
	return joinURL(p.BaseURL, "uploads", key)
}

// MinioStorageProvider talks to any S3 compatible endpoint, Supabase storage
// included.
type MinioStorageProvider struct {
	Client  *minio.Client
	Bucket  string
	BaseURL string
}

// NewMinioStorageProvider connects and creates the bucket when it is missing.
func NewMinioStorageProvider(ctx context.Context, cfg *config.StorageConfig) (*MinioStorageProvider, error) {
	if cfg.MinioEndpoint == "" || cfg.MinioBucket == "" {
		return nil, errors.New("minio endpoint and bucket are required")
	}
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "minio client")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, errors.Wrapf(err, "check bucket %s", cfg.MinioBucket)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, errors.Wrapf(err, "create bucket %s", cfg.MinioBucket)
		}
		logger.Log.Info("storage bucket created", zap.String("bucket", cfg.MinioBucket))
	}

	base := cfg.PublicBaseURL
	if base == "" {
		scheme := "http"
		if cfg.MinioUseSSL {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s", scheme, cfg.MinioEndpoint)
	}
	return &MinioStorageProvider{Client: client, Bucket: cfg.MinioBucket, BaseURL: base}, nil
}

func (p *MinioStorageProvider) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	if _, err := cleanKey(key); err != nil {
		return "", err
	}
	_, err := p.Client.PutObject(ctx, p.Bucket, key, reader, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", errors.Wrapf(err, "put %s", key)
	}
	return p.GetURL(key), nil
}

func (p *MinioStorageProvider) UploadFile(ctx context.Context, key string, localPath string, contentType string) (string, error) {
	if _, err := cleanKey(key); err != nil {
		return "", err
	}
	_, err := p.Client.FPutObject(ctx, p.Bucket, key, localPath, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", errors.Wrapf(err, "put %s", key)
	}
	return p.GetURL(key), nil
}

func (p *MinioStorageProvider) Delete(ctx context.Context, key string) error {
	return errors.Wrapf(p.Client.RemoveObject(ctx, p.Bucket, key, minio.RemoveObjectOptions{}), "remove %s", key)
}

func (p *MinioStorageProvider) GetURL(key string) string {
	return joinURL(p.BaseURL, p.Bucket, key)
}

// OSSStorageProvider stores files in an Aliyun OSS bucket.
type OSSStorageProvider struct {
	Bucket  *oss.Bucket
	BaseURL string
}

func NewOSSStorageProvider(cfg *config.StorageConfig) (*OSSStorageProvider, error) {
	if cfg.OSSEndpoint == "" || cfg.OSSBucket == "" {
		return nil, errors.New("oss endpoint and bucket are required")
	}
	client, err := oss.New(cfg.OSSEndpoint, cfg.OSSAccessKey, cfg.OSSSecretKey)
	if err != nil {
		return nil, errors.Wrap(err, "oss client")
	}
	bucket, err := client.Bucket(cfg.OSSBucket)
	if err != nil {
		return nil, errors.Wrapf(err, "oss bucket %s", cfg.OSSBucket)
	}
	base := cfg.PublicBaseURL
	if base == "" {
		base = fmt.Sprintf("https://%s.%s", cfg.OSSBucket, cfg.OSSEndpoint)
	}
	return &OSSStorageProvider{Bucket: bucket, BaseURL: base}, nil
}

func (p *OSSStorageProvider) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	if _, err := cleanKey(key); err != nil {
		return "", err
	}
	if err := p.Bucket.PutObject(key, reader, oss.ContentType(contentType), oss.WithContext(ctx)); err != nil {
		return "", errors.Wrapf(err, "put %s", key)
	}
	return p.GetURL(key), nil
}

func (p *OSSStorageProvider) UploadFile(ctx context.Context, key string, localPath string, contentType string) (string, error) {
	if _, err := cleanKey(key); err != nil {
		return "", err
	}
	if err := p.Bucket.PutObjectFromFile(key, localPath, oss.ContentType(contentType), oss.WithContext(ctx)); err != nil {
		return "", errors.Wrapf(err, "put %s", key)
	}
	return p.GetURL(key), nil
}

func (p *OSSStorageProvider) Delete(ctx context.Context, key string) error {
	return errors.Wrapf(p.Bucket.DeleteObject(key, oss.WithContext(ctx)), "remove %s", key)
}

func (p *OSSStorageProvider) GetURL(key string) string {
	return joinURL(p.BaseURL, key)
}

// StorageService is the provider picked from configuration.
type StorageService struct {
	StorageProvider
	Kind string
}

// NewStorageService picks the configured provider, falling back to local
// disk when the remote store cannot be reached.
func NewStorageService(cfg *config.Config) *StorageService {
	switch cfg.Storage.Type {
	case "minio":
		p, err := NewMinioStorageProvider(context.Background(), &cfg.Storage)
		if err == nil {
			return &StorageService{StorageProvider: p, Kind: "minio"}
		}
		logger.Log.Warn("minio storage unavailable, using local disk", zap.Error(err))
	case "oss":
		p, err := NewOSSStorageProvider(&cfg.Storage)
		if err == nil {
			return &StorageService{StorageProvider: p, Kind: "oss"}
		}
		logger.Log.Warn("oss storage unavailable, using local disk", zap.Error(err))
	}
	return &StorageService{
		StorageProvider: &LocalStorageProvider{Root: cfg.Storage.LocalPath, BaseURL: cfg.Storage.PublicBaseURL},
		Kind:            "local",
	}
}

// ObjectName builds a collision free key: <folder>/<yyyy/mm>/<uuid><ext>.
func ObjectName(folder, original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return path.Join(folder, time.Now().UTC().Format("2006/01"), uuid.NewString()+ext)
}
