package repository

import (
	"context"

	"prep_admin_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) FindByID(ctx context.Context, id uint) (*model.Question, error) {
	var question model.Question
	err := r.DB.WithContext(ctx).First(&question, id).Error
	return &question, err
}

func (r *QuestionRepository) ListBySection(ctx context.Context, sectionID uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.WithContext(ctx).Where("section_id = ?", sectionID).Order("sort_order ASC").Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) Append(ctx context.Context, question *model.Question) error {
	return AppendOrdered(ctx, r.DB, QuestionOrder, ParentScope(question.SectionID), question,
		func(q *model.Question, order int) { q.Order = order })
}

func (r *QuestionRepository) Update(ctx context.Context, question *model.Question) error {
	return r.DB.WithContext(ctx).Model(&model.Question{}).Where("id = ?", question.ID).Updates(map[string]interface{}{
		"question_text":  question.QuestionText,
		"options":        question.Options,
		"correct_answer": question.CorrectAnswer,
		"explanation":    question.Explanation,
	}).Error
}

func (r *QuestionRepository) Remove(ctx context.Context, question *model.Question) error {
	return RemoveOrdered(ctx, r.DB, QuestionOrder, ParentScope(question.SectionID), question.ID, nil)
}

func (r *QuestionRepository) Reorder(ctx context.Context, sectionID uint, ids []uint) error {
	return ReorderOrdered(ctx, r.DB, QuestionOrder, ParentScope(sectionID), ids)
}

func (r *QuestionRepository) Move(ctx context.Context, question *model.Question, delta int) error {
	return MoveOrdered(ctx, r.DB, QuestionOrder, ParentScope(question.SectionID), question.ID, delta)
}
