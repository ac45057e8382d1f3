package service

import (
	"context"

	"prep_admin_backend/internal/authoring"
	"prep_admin_backend/internal/model"
	"prep_admin_backend/internal/repository"
	"prep_admin_backend/internal/util"
	"prep_admin_backend/pkg/cache"
	"prep_admin_backend/pkg/logger"

	"go.uber.org/zap"
)

type ExerciseService struct {
	Exercises   *repository.ExerciseRepository
	Uploads     *UploadService
	Revalidator *Revalidator
}

func NewExerciseService(exercises *repository.ExerciseRepository, uploads *UploadService, store cache.Store) *ExerciseService {
	return &ExerciseService{Exercises: exercises, Uploads: uploads, Revalidator: NewRevalidator(store)}
}

func (s *ExerciseService) List(ctx context.Context, filter repository.ExerciseFilter) ([]model.Exercise, error) {
	exercises, err := s.Exercises.List(ctx, filter)
	if err != nil {
		return nil, storeError(err, util.MsgLoadFailed)
	}
	return exercises, nil
}

// Get returns the exercise with its questions in order.
func (s *ExerciseService) Get(ctx context.Context, id uint) (*model.Exercise, error) {
	exercise, err := s.Exercises.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, util.MsgLoadFailed)
	}
	return exercise, nil
}

// Create validates the whole payload before anything is written. New
// exercises are active unless the payload says otherwise.
func (s *ExerciseService) Create(ctx context.Context, actorID uint, payload authoring.SavePayload) (*model.Exercise, error) {
	if len(payload.ExistingQuestions) > 0 || len(payload.RemovedQuestionIDs) > 0 {
		return nil, util.NewValidationError(authoring.MsgQuestionIDs, nil)
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	exercise := &model.Exercise{IsActive: true}
	payload.Apply(exercise)
	if actorID != 0 {
		exercise.CreatedBy = model.UintPtr(actorID)
	}
	if err := s.Exercises.Create(ctx, exercise, payload.NewRows()); err != nil {
		return nil, storeError(err, util.MsgSaveFailed)
	}
	logger.Log.Info("exercise created",
		zap.Uint("exercise_id", exercise.ID),
		zap.Int("questions", len(exercise.Questions)),
	)
	return exercise, nil
}

// Update saves exercise fields and question edits in one transaction and
// returns the stored result.
func (s *ExerciseService) Update(ctx context.Context, id uint, payload authoring.SavePayload) (*model.Exercise, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	exercise, err := s.Exercises.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, util.MsgLoadFailed)
	}
	payload.Apply(exercise)

	changes := repository.ExerciseChanges{
		Exercise:   exercise,
		New:        payload.NewRows(),
		Updated:    payload.ExistingRows(),
		RemovedIDs: payload.RemovedQuestionIDs,
	}
	if err := s.Exercises.ApplyChanges(ctx, changes); err != nil {
		return nil, storeError(err, util.MsgSaveFailed)
	}
	logger.Log.Info("exercise updated",
		zap.Uint("exercise_id", id),
		zap.Int("added", len(changes.New)),
		zap.Int("updated", len(changes.Updated)),
		zap.Int("removed", len(changes.RemovedIDs)),
	)
	return s.Get(ctx, id)
}

// SetActive persists the flag and returns the updated exercise.
func (s *ExerciseService) SetActive(ctx context.Context, id uint, active bool) (*model.Exercise, error) {
	exercise, err := s.Exercises.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, util.MsgLoadFailed)
	}
	if err := s.Exercises.SetActive(ctx, id, active); err != nil {
		return nil, storeError(err, util.MsgSaveFailed)
	}
	exercise.IsActive = active
	logger.Log.Info("exercise status changed", zap.Uint("exercise_id", id), zap.Bool("is_active", active))
	return exercise, nil
}

func (s *ExerciseService) Delete(ctx context.Context, id uint) error {
	touched, err := s.Exercises.Delete(ctx, id)
	if err != nil {
		return storeError(err, util.MsgDeleteFailed)
	}
	s.Revalidator.LearningPaths(ctx, touched...)
	logger.Log.Info("exercise deleted", zap.Uint("exercise_id", id), zap.Int("paths_touched", len(touched)))
	return nil
}

// UploadSourceFile stores an exercise source document and returns its public URL.
func (s *ExerciseService) UploadSourceFile(ctx context.Context, file FileUpload) (string, error) {
	return s.Uploads.UploadDocument(ctx, file)
}

// AttachSourceFile uploads a document and records it on an existing exercise.
func (s *ExerciseService) AttachSourceFile(ctx context.Context, id uint, file FileUpload) (*model.Exercise, error) {
	exercise, err := s.Exercises.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, util.MsgLoadFailed)
	}
	url, err := s.Uploads.UploadDocument(ctx, file)
	if err != nil {
		return nil, err
	}
	if err := s.Exercises.SetSourceFile(ctx, id, url); err != nil {
		return nil, storeError(err, util.MsgSaveFailed)
	}
	exercise.SourceFileURL = url
	return exercise, nil
}
