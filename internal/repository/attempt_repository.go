package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/lshigami/examapp/internal/model"
	"gorm.io/gorm"
)

type AttemptRepository interface {
	WithTx(tx *gorm.DB) AttemptRepository
	Create(ctx context.Context, attempt *model.AttemptResult) error
	FindForExaminee(ctx context.Context, examineeID, id uuid.UUID) (*model.AttemptResult, error)
	ListByExaminee(ctx context.Context, examineeID uuid.UUID, offset, limit int) ([]model.AttemptResult, int64, error)
	ListByExam(ctx context.Context, examID uuid.UUID) ([]model.AttemptResult, error)
	DetachQuestions(ctx context.Context, questionIDs []uuid.UUID) error
}

type attemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) WithTx(tx *gorm.DB) AttemptRepository {
	return &attemptRepository{db: tx}
}

// Create inserts the result row and its snapshot rows.
func (r *attemptRepository) Create(ctx context.Context, attempt *model.AttemptResult) error {
	return r.db.WithContext(ctx).Create(attempt).Error
}

// FindForExaminee returns (nil, nil) when the attempt does not exist or belongs to another examinee.
func (r *attemptRepository) FindForExaminee(ctx context.Context, examineeID, id uuid.UUID) (*model.AttemptResult, error) {
	var attempt model.AttemptResult
	err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("attempt_questions.question_order ASC, attempt_questions.created_at ASC, attempt_questions.id ASC")
		}).
		Where("id = ? AND examinee_id = ?", id, examineeID).
		First(&attempt).Error
	return notFoundAsNil(&attempt, err)
}

func (r *attemptRepository) ListByExaminee(ctx context.Context, examineeID uuid.UUID, offset, limit int) ([]model.AttemptResult, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.AttemptResult{}).Where("examinee_id = ?", examineeID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var attempts []model.AttemptResult
	err := r.db.WithContext(ctx).
		Where("examinee_id = ?", examineeID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&attempts).Error
	if err != nil {
		return nil, 0, err
	}
	return attempts, total, nil
}

// ListByExam returns every attempt on the exam, oldest first.
func (r *attemptRepository) ListByExam(ctx context.Context, examID uuid.UUID) ([]model.AttemptResult, error) {
	var attempts []model.AttemptResult
	err := r.db.WithContext(ctx).
		Where("exam_id = ?", examID).
		Order("created_at ASC").
		Find(&attempts).Error
	return attempts, err
}

// DetachQuestions clears snapshot references to live questions that are about to disappear.
func (r *attemptRepository) DetachQuestions(ctx context.Context, questionIDs []uuid.UUID) error {
	if len(questionIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&model.AttemptQuestion{}).
		Where("original_question_id IN ?", questionIDs).
		Update("original_question_id", nil).Error
}
