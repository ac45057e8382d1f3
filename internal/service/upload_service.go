package service

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"prep_admin_backend/internal/config"
	"prep_admin_backend/internal/util"
	"prep_admin_backend/pkg/logger"
	"prep_admin_backend/pkg/monitoring"

	"go.uber.org/zap"
)

const (
	FolderExercises = "exercises"
	FolderAudio     = "audio"
)

// FileUpload is one received multipart file.
type FileUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.ReadSeeker
}

// UploadService gates uploads by type and size and stores accepted files.
type UploadService struct {
	Storage StorageProvider
	Media   AudioProber

	mu     sync.RWMutex
	limits config.UploadConfig
}

func NewUploadService(storage StorageProvider, media AudioProber, limits config.UploadConfig) *UploadService {
	s := &UploadService{Storage: storage, Media: media}
	s.SetLimits(limits)
	return s
}

// SetLimits replaces the size limits; used by config hot reload.
func (s *UploadService) SetLimits(limits config.UploadConfig) {
	if limits.MaxSizeMB <= 0 {
		limits.MaxSizeMB = 10
	}
	if limits.AudioMaxSizeMB <= 0 {
		limits.AudioMaxSizeMB = 50
	}
	s.mu.Lock()
	s.limits = limits
	s.mu.Unlock()
}

func (s *UploadService) DocumentRule() util.UploadRule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return util.DocumentRule(s.limits.MaxSizeMB)
}

func (s *UploadService) AudioRule() util.UploadRule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return util.AudioRule(s.limits.AudioMaxSizeMB)
}

// UploadDocument stores an exercise source file (.docx or .pdf) and returns
// its public URL.
func (s *UploadService) UploadDocument(ctx context.Context, file FileUpload) (string, error) {
	rule := s.DocumentRule()
	contentType, err := rule.Check(file.Filename, file.ContentType, file.Size, file.Content)
	if err != nil {
		return "", s.rejected(rule.Kind, err)
	}

	url, err := s.Storage.Upload(ctx, ObjectName(FolderExercises, file.Filename), file.Content, file.Size, contentType)
	if err != nil {
		monitoring.UploadsTotal.WithLabelValues(rule.Kind, "error").Inc()
		return "", util.WrapInternal(err, util.MsgUploadFailed)
	}
	monitoring.UploadsTotal.WithLabelValues(rule.Kind, "ok").Inc()
	logger.Log.Info("document uploaded", zap.String("file", file.Filename), zap.String("url", url))
	return url, nil
}

// UploadAudio stores a listening audio file. The file is spooled to disk so
// ffprobe can read its duration; a failed probe leaves the duration unknown.
func (s *UploadService) UploadAudio(ctx context.Context, file FileUpload) (string, *util.AudioInfo, error) {
	rule := s.AudioRule()
	contentType, err := rule.Check(file.Filename, file.ContentType, file.Size, file.Content)
	if err != nil {
		return "", nil, s.rejected(rule.Kind, err)
	}

	tmp, err := os.CreateTemp("", "audio-*"+strings.ToLower(filepath.Ext(file.Filename)))
	if err != nil {
		return "", nil, util.WrapInternal(err, util.MsgUploadFailed)
	}
	defer os.Remove(tmp.Name())

	_, err = io.Copy(tmp, file.Content)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", nil, util.WrapInternal(err, util.MsgUploadFailed)
	}

	var info *util.AudioInfo
	if s.Media != nil {
		info, _ = s.Media.Probe(ctx, tmp.Name())
	}

	url, err := s.Storage.UploadFile(ctx, ObjectName(FolderAudio, file.Filename), tmp.Name(), contentType)
	if err != nil {
		monitoring.UploadsTotal.WithLabelValues(rule.Kind, "error").Inc()
		return "", nil, util.WrapInternal(err, util.MsgUploadFailed)
	}
	monitoring.UploadsTotal.WithLabelValues(rule.Kind, "ok").Inc()
	return url, info, nil
}

func (s *UploadService) rejected(kind string, err error) error {
	monitoring.UploadsTotal.WithLabelValues(kind, "rejected").Inc()
	if util.IsKind(err, util.KindValidation) {
		return err
	}
	return util.WrapInternal(err, util.MsgUploadFailed)
}
