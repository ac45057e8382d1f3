package service

import (
	"context"
	"fmt"

	"prep_admin_backend/pkg/cache"
	"prep_admin_backend/pkg/logger"
	"prep_admin_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// LearningPathListKey caches the learning path overview.
const LearningPathListKey = "learning-paths:list"

func LessonPagePath(lessonID uint) string {
	return fmt.Sprintf("/admin/lessons/%d", lessonID)
}

func LearningPathPagePath(pathID uint) string {
	return fmt.Sprintf("/admin/learning-paths/%d", pathID)
}

// Revalidator drops cached page data after a mutation so the next render
// reads fresh rows. Failures are logged and never fail the mutation.
type Revalidator struct {
	Store cache.Store
}

func NewRevalidator(store cache.Store) *Revalidator {
	return &Revalidator{Store: store}
}

// Paths invalidates the data behind server-rendered routes.
func (r *Revalidator) Paths(ctx context.Context, paths ...string) {
	keys := make([]string, len(paths))
	for i, p := range paths {
		keys[i] = cache.PageKey(p)
	}
	r.Keys(ctx, keys...)
}

// LearningPaths invalidates the pages of the given paths and the overview list.
func (r *Revalidator) LearningPaths(ctx context.Context, pathIDs ...uint) {
	if len(pathIDs) == 0 {
		return
	}
	paths := make([]string, len(pathIDs))
	for i, id := range pathIDs {
		paths[i] = LearningPathPagePath(id)
	}
	r.Paths(ctx, paths...)
	r.Keys(ctx, LearningPathListKey)
}

func (r *Revalidator) Keys(ctx context.Context, keys ...string) {
	if r == nil || r.Store == nil || len(keys) == 0 {
		return
	}
	if err := r.Store.Delete(ctx, keys...); err != nil {
		monitoring.CacheRevalidations.WithLabelValues("error").Inc()
		logger.Log.Warn("cache revalidation failed", zap.Strings("keys", keys), zap.Error(err))
		return
	}
	monitoring.CacheRevalidations.WithLabelValues("ok").Inc()
	logger.Log.Debug("cache revalidated", zap.Strings("keys", keys))
}
