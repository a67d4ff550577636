package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/lshigami/examapp/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	WithTx(tx *gorm.DB) QuestionRepository
	CreateBatch(ctx context.Context, questions []model.Question) error
	FindByExamID(ctx context.Context, examID uuid.UUID) ([]model.Question, error)
	IDsByExamID(ctx context.Context, examID uuid.UUID) ([]uuid.UUID, error)
	DeleteByExamID(ctx context.Context, examID uuid.UUID) error
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) WithTx(tx *gorm.DB) QuestionRepository {
	return &questionRepository{db: tx}
}

func (r *questionRepository) CreateBatch(ctx context.Context, questions []model.Question) error {
	if len(questions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&questions).Error
}

func (r *questionRepository) FindByExamID(ctx context.Context, examID uuid.UUID) ([]model.Question, error) {
	var questions []model.Question
	if err := r.db.WithContext(ctx).Where("exam_id = ?", examID).Order("question_order ASC, created_at ASC, id ASC").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) IDsByExamID(ctx context.Context, examID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&model.Question{}).Where("exam_id = ?", examID).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *questionRepository) DeleteByExamID(ctx context.Context, examID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("exam_id = ?", examID).Delete(&model.Question{}).Error
}
