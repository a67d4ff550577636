package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/lshigami/examapp/internal/apperror"
	"github.com/lshigami/examapp/internal/dto"
	"github.com/lshigami/examapp/internal/model"
	"github.com/lshigami/examapp/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type ExamService interface {
	// FindByCode returns the exam joined by code. The response carries correct answers.
	FindByCode(ctx context.Context, code string) (*dto.ExamResponse, error)
	CreateExam(ctx context.Context, ownerID uuid.UUID, req dto.ExamInput, images dto.ExamImages) (*dto.CreateExamResponse, error)
	ListOwnExams(ctx context.Context, ownerID uuid.UUID, page dto.PageQuery) (*dto.ExamListResponse, error)
	GetOwnExam(ctx context.Context, ownerID, examID uuid.UUID) (*dto.ExamResponse, error)
	// UpdateExam rewrites the exam's fields and replaces all of its questions. The join code is kept.
	UpdateExam(ctx context.Context, ownerID, examID uuid.UUID, req dto.ExamInput, images dto.ExamImages) (*dto.ExamResponse, error)
	DeleteExam(ctx context.Context, ownerID, examID uuid.UUID) error
}

type examService struct {
	examRepo     repository.ExamRepository
	questionRepo repository.QuestionRepository
	attemptRepo  repository.AttemptRepository
	images       ImageService
	newCode      CodeGenerator
	db           *gorm.DB
}

func NewExamService(
	examRepo repository.ExamRepository,
	questionRepo repository.QuestionRepository,
	attemptRepo repository.AttemptRepository,
	images ImageService,
	db *gorm.DB,
) ExamService {
	return &examService{
		examRepo:     examRepo,
		questionRepo: questionRepo,
		attemptRepo:  attemptRepo,
		images:       images,
		newCode:      GenerateExamCode,
		db:           db,
	}
}

// QuestionImageField is the multipart field carrying the image of the i-th (1-based) question.
func QuestionImageField(i int) string {
	return fmt.Sprintf("question_%d_image", i)
}

// OptionImageField is the multipart field carrying the image of one option of the i-th question.
func OptionImageField(i int, label string) string {
	return fmt.Sprintf("question_%d_opt%s_image", i, label)
}

func (s *examService) FindByCode(ctx context.Context, code string) (*dto.ExamResponse, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, apperror.Validation("Exam code is required")
	}
	exam, err := s.examRepo.FindByCodeWithQuestions(ctx, code)
	if err != nil {
		return nil, apperror.Persistence("Failed to fetch exam", err)
	}
	if exam == nil {
		return nil, apperror.NotFound("Invalid Exam Code")
	}
	resp := toExamResponse(exam)
	return &resp, nil
}

func (s *examService) CreateExam(ctx context.Context, ownerID uuid.UUID, req dto.ExamInput, images dto.ExamImages) (resp *dto.CreateExamResponse, err error) {
	defer func() {
		if err != nil {
			s.discardImages(ctx, images)
		}
	}()

	if err := validateExamInput(req); err != nil {
		return nil, err
	}
	exam := model.Exam{UserID: ownerID}
	applyExamInput(&exam, req)
	exam.Questions = buildQuestions(req.Questions, images)

	if err := s.insertWithUniqueCode(ctx, &exam); err != nil {
		return nil, err
	}
	log.Info().Str("examID", exam.ID.String()).Str("examCode", exam.ExamCode).Int("questions", len(exam.Questions)).Msg("Exam created")
	return &dto.CreateExamResponse{Status: "success", ExamID: exam.ID, ExamCode: exam.ExamCode}, nil
}

// insertWithUniqueCode picks a code nobody holds and inserts the exam with it. A
// concurrent creator can still claim the same code first; the unique index
// rejects the insert and a fresh code is drawn.
func (s *examService) insertWithUniqueCode(ctx context.Context, exam *model.Exam) error {
	for attempt := 1; attempt <= maxExamCodeAttempts; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return &apperror.Error{Kind: apperror.KindInternal, Message: "Failed to generate exam code", Err: err}
		}
		exists, err := s.examRepo.CodeExists(ctx, code)
		if err != nil {
			return apperror.Persistence("Failed to check exam code", err)
		}
		if exists {
			log.Debug().Str("examCode", code).Int("attempt", attempt).Msg("Exam code taken, regenerating")
			continue
		}

		exam.ExamCode = code
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return s.examRepo.WithTx(tx).Create(ctx, exam)
		})
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			log.Warn().Str("examCode", code).Int("attempt", attempt).Msg("Exam code claimed concurrently, regenerating")
			continue
		}
		if err != nil {
			log.Error().Err(err).Msg("Failed to create exam with questions in transaction")
			return apperror.Persistence("Failed to create exam", err)
		}
		return nil
	}
	return apperror.Conflict("Could not allocate a unique exam code, please retry")
}

func (s *examService) ListOwnExams(ctx context.Context, ownerID uuid.UUID, page dto.PageQuery) (*dto.ExamListResponse, error) {
	summaries, total, err := s.examRepo.ListByOwner(ctx, ownerID, page.Offset(), page.PerPage)
	if err != nil {
		return nil, apperror.Persistence("Failed to fetch exams", err)
	}
	resp := &dto.ExamListResponse{
		Status:     "success",
		Exams:      make([]dto.ExamSummaryResponse, 0, len(summaries)),
		Pagination: dto.NewPagination(page, total),
	}
	for _, sm := range summaries {
		resp.Exams = append(resp.Exams, dto.ExamSummaryResponse{
			ExamID:           sm.ID,
			ExamName:         sm.ExamName,
			ExamCode:         sm.ExamCode,
			Subject:          sm.Subject,
			Chapter:          sm.Chapter,
			ClassName:        sm.ClassName,
			TotalMarks:       sm.TotalMarks,
			TotalTimeMinutes: sm.TotalTimeMinutes,
			QuestionCount:    sm.QuestionCount,
			CreatedAt:        sm.CreatedAt,
		})
	}
	return resp, nil
}

func (s *examService) GetOwnExam(ctx context.Context, ownerID, examID uuid.UUID) (*dto.ExamResponse, error) {
	exam, err := s.ownedExam(ctx, ownerID, examID)
	if err != nil {
		return nil, err
	}
	resp := toExamResponse(exam)
	return &resp, nil
}

func (s *examService) UpdateExam(ctx context.Context, ownerID, examID uuid.UUID, req dto.ExamInput, images dto.ExamImages) (resp *dto.ExamResponse, err error) {
	defer func() {
		if err != nil {
			s.discardImages(ctx, images)
		}
	}()

	exam, err := s.ownedExam(ctx, ownerID, examID)
	if err != nil {
		return nil, err
	}
	if err := validateExamInput(req); err != nil {
		return nil, err
	}
	applyExamInput(exam, req)
	exam.Questions = nil
	questions := buildQuestions(req.Questions, images)
	for i := range questions {
		questions[i].ExamID = exam.ID
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.dropQuestions(ctx, tx, exam.ID); err != nil {
			return err
		}
		if err := s.examRepo.WithTx(tx).Update(ctx, exam); err != nil {
			return fmt.Errorf("update exam: %w", err)
		}
		if err := s.questionRepo.WithTx(tx).CreateBatch(ctx, questions); err != nil {
			return fmt.Errorf("create questions: %w", err)
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("examID", examID.String()).Msg("Failed to update exam in transaction")
		return nil, apperror.Persistence("Failed to update exam", err)
	}
	log.Info().Str("examID", examID.String()).Int("questions", len(questions)).Msg("Exam updated")
	return s.GetOwnExam(ctx, ownerID, examID)
}

// DeleteExam removes the exam and its questions. Attempt results keep their snapshots.
func (s *examService) DeleteExam(ctx context.Context, ownerID, examID uuid.UUID) error {
	exam, err := s.ownedExam(ctx, ownerID, examID)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.dropQuestions(ctx, tx, exam.ID); err != nil {
			return err
		}
		if err := s.examRepo.WithTx(tx).Delete(ctx, exam.ID); err != nil {
			return fmt.Errorf("delete exam: %w", err)
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("examID", examID.String()).Msg("Failed to delete exam in transaction")
		return apperror.Persistence("Failed to delete exam", err)
	}
	log.Info().Str("examID", examID.String()).Msg("Exam deleted")
	return nil
}

// dropQuestions detaches attempt snapshots from the exam's questions and deletes them.
func (s *examService) dropQuestions(ctx context.Context, tx *gorm.DB, examID uuid.UUID) error {
	questions := s.questionRepo.WithTx(tx)
	ids, err := questions.IDsByExamID(ctx, examID)
	if err != nil {
		return fmt.Errorf("list question ids: %w", err)
	}
	if err := s.attemptRepo.WithTx(tx).DetachQuestions(ctx, ids); err != nil {
		return fmt.Errorf("detach snapshots: %w", err)
	}
	if err := questions.DeleteByExamID(ctx, examID); err != nil {
		return fmt.Errorf("delete questions: %w", err)
	}
	return nil
}

func (s *examService) ownedExam(ctx context.Context, ownerID, examID uuid.UUID) (*model.Exam, error) {
	exam, err := s.examRepo.FindOwnedWithQuestions(ctx, ownerID, examID)
	if err != nil {
		return nil, apperror.Persistence("Failed to fetch exam", err)
	}
	if exam == nil {
		return nil, apperror.NotFound("Exam not found")
	}
	return exam, nil
}

// discardImages removes uploads belonging to a request that did not commit.
func (s *examService) discardImages(ctx context.Context, images dto.ExamImages) {
	if s.images == nil {
		return
	}
	for field, ref := range images {
		if err := s.images.Delete(context.WithoutCancel(ctx), ref.ID); err != nil {
			log.Warn().Err(err).Str("field", field).Str("imageID", ref.ID).Msg("Failed to remove orphaned image")
		}
	}
}

func validateExamInput(req dto.ExamInput) error {
	required := []struct{ name, value string }{
		{"exam_name", req.ExamName},
		{"subject", req.Subject},
		{"chapter", req.Chapter},
		{"class_name", req.ClassName},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return apperror.Validation("%s is required", f.name)
		}
	}
	if req.TotalMarks <= 0 {
		return apperror.Validation("total_marks is required")
	}
	if req.TotalTimeMinutes <= 0 {
		return apperror.Validation("total_time_minutes is required")
	}
	if req.StartDatetime != nil && req.EndDatetime != nil && req.EndDatetime.Before(*req.StartDatetime) {
		return apperror.Validation("end_datetime must not be before start_datetime")
	}
	if len(req.Questions) == 0 {
		return apperror.Validation("At least one question is required")
	}
	for i, q := range req.Questions {
		if strings.TrimSpace(q.QuestionText) == "" {
			return apperror.Validation("question %d: question_text is required", i+1)
		}
		texts := map[string]string{"A": q.OptAText, "B": q.OptBText, "C": q.OptCText, "D": q.OptDText}
		for _, label := range model.OptionLabels {
			if strings.TrimSpace(texts[label]) == "" {
				return apperror.Validation("question %d: opt%s_text is required", i+1, label)
			}
		}
		if !model.IsOptionLabel(q.CorrectAnswer) {
			return apperror.Validation("question %d: correct_answer must be one of A, B, C or D", i+1)
		}
	}
	return nil
}

func applyExamInput(exam *model.Exam, req dto.ExamInput) {
	exam.ExamName = strings.TrimSpace(req.ExamName)
	exam.Subject = strings.TrimSpace(req.Subject)
	exam.Chapter = strings.TrimSpace(req.Chapter)
	exam.ClassName = strings.TrimSpace(req.ClassName)
	exam.Description = req.Description
	exam.TotalMarks = req.TotalMarks
	exam.PassingMarks = req.PassingMarks
	exam.TotalTimeMinutes = req.TotalTimeMinutes
	exam.StartDatetime = req.StartDatetime
	exam.EndDatetime = req.EndDatetime
	exam.AttemptsAllowed = req.AttemptsAllowed
	if exam.AttemptsAllowed == "" {
		exam.AttemptsAllowed = "single"
	}
	exam.NegativeMarksValue = req.NegativeMarksValue
	exam.ExaminerName = req.ExaminerName
}

// buildQuestions turns authored questions into rows. Freshly uploaded images win
// over references carried in the payload.
func buildQuestions(inputs []dto.QuestionInput, images dto.ExamImages) []model.Question {
	questions := make([]model.Question, 0, len(inputs))
	for i, in := range inputs {
		idx := i + 1
		q := model.Question{
			QuestionText:     strings.TrimSpace(in.QuestionText),
			QuestionImageURL: in.QuestionImageURL,
			QuestionImageID:  in.QuestionImageID,
			CorrectAnswer:    in.CorrectAnswer,
			Marks:            1,
			QuestionOrder:    idx,
		}
		if in.Marks != nil {
			q.Marks = *in.Marks
		}
		if in.QuestionOrder != nil {
			q.QuestionOrder = *in.QuestionOrder
		}
		if ref, ok := images[QuestionImageField(idx)]; ok {
			q.QuestionImageURL, q.QuestionImageID = stringPtr(ref.URL), stringPtr(ref.ID)
		}

		texts := map[string]string{"A": in.OptAText, "B": in.OptBText, "C": in.OptCText, "D": in.OptDText}
		for _, label := range model.OptionLabels {
			opt := model.OptionContent{Text: texts[label]}
			if ref, ok := in.OptionImages[label]; ok && ref.URL != "" {
				opt.ImageURL, opt.ImageID = stringPtr(ref.URL), stringPtr(ref.ID)
			}
			if ref, ok := images[OptionImageField(idx, label)]; ok {
				opt.ImageURL, opt.ImageID = stringPtr(ref.URL), stringPtr(ref.ID)
			}
			q.SetOption(label, opt)
		}
		questions = append(questions, q)
	}
	return questions
}

func toExamResponse(exam *model.Exam) dto.ExamResponse {
	var resp dto.ExamResponse
	if err := copier.Copy(&resp, exam); err != nil {
		log.Error().Err(err).Str("examID", exam.ID.String()).Msg("Failed to copy Exam model to ExamResponse")
	}
	resp.ExamID = exam.ID
	resp.Questions = make([]dto.QuestionResponse, 0, len(exam.Questions))
	for i := range exam.Questions {
		q := &exam.Questions[i]
		qr := dto.QuestionResponse{
			QuestionID:       q.ID,
			QuestionText:     q.QuestionText,
			QuestionImageURL: q.QuestionImageURL,
			QuestionImageID:  q.QuestionImageID,
			Marks:            q.Marks,
			QuestionOrder:    q.QuestionOrder,
			CorrectAnswer:    q.CorrectAnswer,
			Options:          make(map[string]dto.OptionResponse, len(model.OptionLabels)),
		}
		for _, label := range model.OptionLabels {
			opt := q.Option(label)
			qr.Options[label] = dto.OptionResponse{Text: opt.Text, ImageURL: opt.ImageURL, ImageID: opt.ImageID}
		}
		resp.Questions = append(resp.Questions, qr)
	}
	return resp
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
