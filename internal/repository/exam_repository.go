package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lshigami/examapp/internal/model"
	"gorm.io/gorm"
)

// ExamSummary is an exam row with the number of questions it owns.
type ExamSummary struct {
	model.Exam
	QuestionCount int
}

type ExamRepository interface {
	WithTx(tx *gorm.DB) ExamRepository
	Create(ctx context.Context, exam *model.Exam) error
	Update(ctx context.Context, exam *model.Exam) error
	Delete(ctx context.Context, id uuid.UUID) error
	CodeExists(ctx context.Context, code string) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Exam, error)
	FindByCodeWithQuestions(ctx context.Context, code string) (*model.Exam, error)
	FindOwnedWithQuestions(ctx context.Context, ownerID, id uuid.UUID) (*model.Exam, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]ExamSummary, int64, error)
}

type examRepository struct {
	db *gorm.DB
}

func NewExamRepository(db *gorm.DB) ExamRepository {
	return &examRepository{db: db}
}

func (r *examRepository) WithTx(tx *gorm.DB) ExamRepository {
	return &examRepository{db: tx}
}

// Create inserts the exam and, through the association, all of its questions.
func (r *examRepository) Create(ctx context.Context, exam *model.Exam) error {
	return r.db.WithContext(ctx).Create(exam).Error
}

// Update saves the exam's own columns. Questions are managed separately.
func (r *examRepository) Update(ctx context.Context, exam *model.Exam) error {
	return r.db.WithContext(ctx).Omit("Questions").Save(exam).Error
}

func (r *examRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Exam{}, "id = ?", id).Error
}

func (r *examRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Exam{}).Where("exam_code = ?", code).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByID returns (nil, nil) when the exam does not exist.
func (r *examRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Exam, error) {
	var exam model.Exam
	err := r.db.WithContext(ctx).First(&exam, "id = ?", id).Error
	return notFoundAsNil(&exam, err)
}

// FindByCodeWithQuestions returns (nil, nil) when no exam has the code.
func (r *examRepository) FindByCodeWithQuestions(ctx context.Context, code string) (*model.Exam, error) {
	var exam model.Exam
	err := r.db.WithContext(ctx).
		Preload("Questions", orderedQuestions).
		Where("exam_code = ?", code).
		First(&exam).Error
	return notFoundAsNil(&exam, err)
}

// FindOwnedWithQuestions returns (nil, nil) when the exam does not exist or belongs to someone else.
func (r *examRepository) FindOwnedWithQuestions(ctx context.Context, ownerID, id uuid.UUID) (*model.Exam, error) {
	var exam model.Exam
	err := r.db.WithContext(ctx).
		Preload("Questions", orderedQuestions).
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&exam).Error
	return notFoundAsNil(&exam, err)
}

func (r *examRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]ExamSummary, int64, error) {
	var total int64
	base := r.db.WithContext(ctx).Model(&model.Exam{}).Where("exams.user_id = ?", ownerID)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var results []ExamSummary
	err := r.db.WithContext(ctx).Model(&model.Exam{}).
		Select("exams.*, (SELECT COUNT(*) FROM questions WHERE questions.exam_id = exams.id) AS question_count").
		Where("exams.user_id = ?", ownerID).
		Order("exams.created_at DESC").
		Offset(offset).
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func orderedQuestions(db *gorm.DB) *gorm.DB {
	return db.Order("questions.question_order ASC, questions.created_at ASC, questions.id ASC")
}

func notFoundAsNil[T any](v *T, err error) (*T, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}
