package examiner

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/lshigami/examapp/internal/apperror"
	"github.com/lshigami/examapp/internal/controller"
	"github.com/lshigami/examapp/internal/dto"
	"github.com/lshigami/examapp/internal/middleware"
	"github.com/lshigami/examapp/internal/model"
	"github.com/lshigami/examapp/internal/service"
	"github.com/rs/zerolog/log"
)

// examDataField is the multipart field holding the exam JSON when images are uploaded alongside it.
const examDataField = "exam_data"

type ExaminerController struct {
	examService        service.ExamService
	imageService       service.ImageService
	leaderboardService service.LeaderboardService
}

func NewExaminerController(examService service.ExamService, imageService service.ImageService, leaderboardService service.LeaderboardService) *ExaminerController {
	return &ExaminerController{
		examService:        examService,
		imageService:       imageService,
		leaderboardService: leaderboardService,
	}
}

// CreateExam godoc
// @Summary (Examiner) Create an exam with its questions
// @Description Send either a JSON body or multipart/form-data with the exam JSON in "exam_data"
// @Description plus optional files question_{i}_image and question_{i}_opt{A-D}_image (i is 1-based).
// @Tags Examiner
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param body body dto.ExamInput false "Exam (JSON requests)"
// @Param exam_data formData string false "Exam JSON (multipart requests)"
// @Success 200 {object} dto.CreateExamResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "No free exam code"
// @Failure 500 {object} dto.ErrorResponse
// @Router /examiner/create-exam [post]
func (c *ExaminerController) CreateExam(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		return
	}
	input, images, err := c.readExamInput(ctx)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}

	resp, err := c.examService.CreateExam(ctx.Request.Context(), userID, input, images)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ListExams godoc
// @Summary (Examiner) List the exams I created
// @Tags Examiner
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Page size (max 100)" default(10)
// @Success 200 {object} dto.ExamListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /examiner/my-created-exams [get]
func (c *ExaminerController) ListExams(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		return
	}
	var page dto.PageQuery
	if err := ctx.ShouldBindQuery(&page); err != nil {
		controller.RespondBindError(ctx, err)
		return
	}

	resp, err := c.examService.ListOwnExams(ctx.Request.Context(), userID, page)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetExam godoc
// @Summary (Examiner) Get one of my exams with its questions
// @Tags Examiner
// @Produce json
// @Security BearerAuth
// @Param exam_id path string true "Exam ID"
// @Success 200 {object} dto.ExamEnvelope
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /examiner/my-created-exams/{exam_id} [get]
func (c *ExaminerController) GetExam(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		return
	}
	examID, ok := controller.UUIDParam(ctx, "exam_id")
	if !ok {
		return
	}

	exam, err := c.examService.GetOwnExam(ctx.Request.Context(), userID, examID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ExamEnvelope{Status: "success", Exam: *exam})
}

// UpdateExam godoc
// @Summary (Examiner) Update an exam and replace its questions
// @Description Accepts the same JSON or multipart payload as create-exam. The exam code does not change.
// @Tags Examiner
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param exam_id path string true "Exam ID"
// @Param body body dto.ExamInput false "Exam (JSON requests)"
// @Param exam_data formData string false "Exam JSON (multipart requests)"
// @Success 200 {object} dto.ExamEnvelope
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /examiner/my-created-exams/{exam_id} [put]
func (c *ExaminerController) UpdateExam(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		return
	}
	examID, ok := controller.UUIDParam(ctx, "exam_id")
	if !ok {
		return
	}
	input, images, err := c.readExamInput(ctx)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}

	exam, err := c.examService.UpdateExam(ctx.Request.Context(), userID, examID, input, images)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ExamEnvelope{Status: "success", Exam: *exam})
}

// DeleteExam godoc
// @Summary (Examiner) Delete an exam
// @Description Questions go with the exam. Attempt snapshots survive with their question links cleared.
// @Tags Examiner
// @Produce json
// @Security BearerAuth
// @Param exam_id path string true "Exam ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /examiner/my-created-exams/{exam_id} [delete]
func (c *ExaminerController) DeleteExam(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		return
	}
	examID, ok := controller.UUIDParam(ctx, "exam_id")
	if !ok {
		return
	}

	if err := c.examService.DeleteExam(ctx.Request.Context(), userID, examID); err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Status: "success", Message: "Exam deleted successfully"})
}

// Leaderboard godoc
// @Summary (Examiner) Leaderboard of one of my exams
// @Tags Examiner
// @Produce json
// @Security BearerAuth
// @Param exam_id path string true "Exam ID"
// @Success 200 {object} dto.LeaderboardResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Not my exam, or no attempts yet"
// @Router /examiner/my-created-exams/{exam_id}/leaderboard [get]
func (c *ExaminerController) Leaderboard(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		return
	}
	examID, ok := controller.UUIDParam(ctx, "exam_id")
	if !ok {
		return
	}

	resp, err := c.leaderboardService.OwnerLeaderboard(ctx.Request.Context(), userID, examID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// readExamInput decodes the exam from a JSON body or from a multipart form, uploading
// any attached images on the way. Uploaded images are removed again if a later one fails.
func (c *ExaminerController) readExamInput(ctx *gin.Context) (dto.ExamInput, dto.ExamImages, error) {
	var input dto.ExamInput
	if !strings.HasPrefix(ctx.ContentType(), gin.MIMEMultipartPOSTForm) {
		if err := ctx.ShouldBindJSON(&input); err != nil {
			log.Warn().Err(err).Msg("Failed to bind exam JSON")
			return input, nil, apperror.Validation("%s", dto.ValidationMessage(err))
		}
		return input, nil, nil
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		return input, nil, apperror.Validation("Invalid multipart form").WithDetails(err.Error())
	}
	raw := ""
	if values := form.Value[examDataField]; len(values) > 0 {
		raw = values[0]
	}
	if strings.TrimSpace(raw) == "" {
		return input, nil, apperror.Validation("%s is required", examDataField)
	}
	if err := json.Unmarshal([]byte(raw), &input); err != nil {
		return input, nil, apperror.Validation("Invalid JSON in %s", examDataField).WithDetails(err.Error())
	}
	if err := binding.Validator.ValidateStruct(&input); err != nil {
		return input, nil, apperror.Validation("%s", dto.ValidationMessage(err))
	}

	images, err := c.uploadImages(ctx.Request.Context(), form, len(input.Questions))
	if err != nil {
		return input, nil, err
	}
	return input, images, nil
}

func (c *ExaminerController) uploadImages(ctx context.Context, form *multipart.Form, questions int) (dto.ExamImages, error) {
	images := dto.ExamImages{}
	upload := func(field, folder string) error {
		files := form.File[field]
		if len(files) == 0 {
			return nil
		}
		ref, err := c.imageService.Upload(ctx, folder, files[0])
		if err != nil {
			return err
		}
		images[field] = *ref
		return nil
	}

	for i := 1; i <= questions; i++ {
		if err := upload(service.QuestionImageField(i), service.QuestionImageFolder); err != nil {
			c.discard(ctx, images)
			return nil, err
		}
		for _, label := range model.OptionLabels {
			if err := upload(service.OptionImageField(i, label), service.OptionImageFolder); err != nil {
				c.discard(ctx, images)
				return nil, err
			}
		}
	}
	return images, nil
}

func (c *ExaminerController) discard(ctx context.Context, images dto.ExamImages) {
	ctx = context.WithoutCancel(ctx)
	for field, ref := range images {
		if err := c.imageService.Delete(ctx, ref.ID); err != nil {
			log.Warn().Err(err).Str("field", field).Str("imageID", ref.ID).Msg("Failed to remove uploaded image")
		}
	}
}
