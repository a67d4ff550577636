package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/lshigami/examapp/internal/apperror"
	"github.com/lshigami/examapp/internal/dto"
	"github.com/lshigami/examapp/internal/model"
	"github.com/lshigami/examapp/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type AttemptService interface {
	SubmitAttempt(ctx context.Context, examineeID uuid.UUID, req dto.SubmitAttemptRequest) (*dto.SubmitAttemptResponse, error)
	ListAttempts(ctx context.Context, examineeID uuid.UUID, page dto.PageQuery) (*dto.AttemptListResponse, error)
	GetAttempt(ctx context.Context, examineeID, attemptID uuid.UUID) (*dto.AttemptDetailResponse, error)
}

type attemptService struct {
	attemptRepo repository.AttemptRepository
	examRepo    repository.ExamRepository
	db          *gorm.DB
}

func NewAttemptService(attemptRepo repository.AttemptRepository, examRepo repository.ExamRepository, db *gorm.DB) AttemptService {
	return &attemptService{attemptRepo: attemptRepo, examRepo: examRepo, db: db}
}

// SubmitAttempt scores the submission and stores the result together with one
// snapshot per question in a single transaction.
func (s *attemptService) SubmitAttempt(ctx context.Context, examineeID uuid.UUID, req dto.SubmitAttemptRequest) (*dto.SubmitAttemptResponse, error) {
	if req.ExamID == nil || *req.ExamID == uuid.Nil {
		return nil, apperror.Validation("Exam ID is required")
	}
	if req.TimeTakenMinutes < 0 {
		return nil, apperror.Validation("time_taken_minutes must not be negative")
	}
	for i, q := range req.Questions {
		if !model.IsOptionLabel(q.CorrectAnswer) {
			return nil, apperror.Validation("question %d: correct_answer must be one of A, B, C or D", i+1)
		}
		for _, opt := range q.Options {
			if !model.IsOptionLabel(opt.OptionLetter) {
				return nil, apperror.Validation("question %d: option_letter must be one of A, B, C or D", i+1)
			}
		}
	}

	exam, err := s.examRepo.FindByID(ctx, *req.ExamID)
	if err != nil {
		return nil, apperror.Persistence("Failed to fetch exam", err)
	}
	if exam == nil {
		return nil, apperror.NotFound("Exam not found")
	}

	scored := ScoreAttempt(req.Questions)
	result := model.AttemptResult{
		ExamineeID:          examineeID,
		ExamID:              exam.ID,
		ExamName:            exam.ExamName,
		Subject:             exam.Subject,
		Chapter:             exam.Chapter,
		ClassName:           exam.ClassName,
		TotalMarks:          exam.TotalMarks,
		TotalTimeMinutes:    exam.TotalTimeMinutes,
		NegativeMarksValue:  exam.NegativeMarksValue,
		ExaminerName:        exam.ExaminerName,
		Score:               scored.Score,
		TotalQuestions:      scored.TotalQuestions,
		CorrectAnswers:      scored.CorrectAnswers,
		WrongAnswers:        scored.WrongAnswers,
		UnansweredQuestions: scored.UnansweredQuestions,
		TimeTakenMinutes:    req.TimeTakenMinutes,
		Questions:           scored.Questions,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.attemptRepo.WithTx(tx).Create(ctx, &result)
	})
	if err != nil {
		log.Error().Err(err).Str("examID", exam.ID.String()).Str("examineeID", examineeID.String()).Msg("Failed to save exam attempt")
		return nil, apperror.Persistence("Database commit failed", err)
	}

	log.Info().
		Str("attemptID", result.ID.String()).
		Str("examID", exam.ID.String()).
		Int("correct", result.CorrectAnswers).
		Int("total", result.TotalQuestions).
		Msg("Exam attempt saved")
	return &dto.SubmitAttemptResponse{
		Status:              "success",
		Message:             "Exam attempt saved successfully",
		AttemptResultID:     result.ID,
		TotalQuestions:      result.TotalQuestions,
		Score:               result.Score,
		CorrectAnswers:      result.CorrectAnswers,
		WrongAnswers:        result.WrongAnswers,
		UnansweredQuestions: result.UnansweredQuestions,
	}, nil
}

func (s *attemptService) ListAttempts(ctx context.Context, examineeID uuid.UUID, page dto.PageQuery) (*dto.AttemptListResponse, error) {
	attempts, total, err := s.attemptRepo.ListByExaminee(ctx, examineeID, page.Offset(), page.PerPage)
	if err != nil {
		return nil, apperror.Persistence("Failed to fetch exams", err)
	}
	resp := &dto.AttemptListResponse{
		Status:     "success",
		Exams:      make([]dto.AttemptSummaryResponse, 0, len(attempts)),
		Pagination: dto.NewPagination(page, total),
	}
	for i := range attempts {
		resp.Exams = append(resp.Exams, toAttemptSummary(&attempts[i]))
	}
	return resp, nil
}

func (s *attemptService) GetAttempt(ctx context.Context, examineeID, attemptID uuid.UUID) (*dto.AttemptDetailResponse, error) {
	attempt, err := s.attemptRepo.FindForExaminee(ctx, examineeID, attemptID)
	if err != nil {
		return nil, apperror.Persistence("Failed to fetch exam", err)
	}
	if attempt == nil {
		return nil, apperror.NotFound("Exam attempt not found")
	}

	resp := &dto.AttemptDetailResponse{
		AttemptSummaryResponse: toAttemptSummary(attempt),
		Questions:              make([]dto.AttemptQuestionResponse, 0, len(attempt.Questions)),
	}
	for i := range attempt.Questions {
		q := &attempt.Questions[i]
		qr := dto.AttemptQuestionResponse{
			QuestionID:         q.ID,
			OriginalQuestionID: q.OriginalQuestionID,
			QuestionText:       q.QuestionText,
			QuestionImageURL:   q.QuestionImageURL,
			QuestionImageID:    q.QuestionImageID,
			Marks:              q.Marks,
			QuestionOrder:      q.QuestionOrder,
			SelectedAnswer:     q.SelectedOptionLabel,
			CorrectAnswer:      q.CorrectOptionLabel,
			IsCorrect:          q.IsCorrect,
			Options:            make(map[string]dto.SnapshotOptionResponse, len(model.OptionLabels)),
		}
		for _, label := range model.OptionLabels {
			opt := q.Option(label)
			qr.Options[label] = dto.SnapshotOptionResponse{Text: opt.Text, ImageURL: opt.ImageURL, ImageID: opt.ImageID}
		}
		resp.Questions = append(resp.Questions, qr)
	}
	return resp, nil
}

func toAttemptSummary(attempt *model.AttemptResult) dto.AttemptSummaryResponse {
	var summary dto.AttemptSummaryResponse
	if err := copier.Copy(&summary, attempt); err != nil {
		log.Error().Err(err).Str("attemptID", attempt.ID.String()).Msg("Failed to copy AttemptResult to summary")
	}
	summary.AttemptExamID = attempt.ID
	return summary
}
