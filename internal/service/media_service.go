package service

import (
	"context"

	"prep_admin_backend/internal/util"
	"prep_admin_backend/pkg/logger"

	"go.uber.org/zap"
)

// AudioProber reads the properties of a local audio file.
type AudioProber interface {
	Probe(ctx context.Context, path string) (*util.AudioInfo, error)
}

// MediaService probes listening audio with ffprobe.
type MediaService struct {
	probe func(path string) (*util.AudioInfo, error)
}

func NewMediaService() *MediaService {
	return &MediaService{probe: util.GetAudioInfo}
}

func (m *MediaService) Probe(ctx context.Context, path string) (*util.AudioInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info, err := m.probe(path)
	if err != nil {
		logger.Log.Warn("audio probe failed", zap.String("path", path), zap.Error(err))
		return nil, err
	}
	return info, nil
}
