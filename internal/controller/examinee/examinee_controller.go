package examinee

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/examapp/internal/controller"
	"github.com/lshigami/examapp/internal/dto"
	"github.com/lshigami/examapp/internal/middleware"
	"github.com/lshigami/examapp/internal/service"
)

type ExamineeController struct {
	examService        service.ExamService
	attemptService     service.AttemptService
	leaderboardService service.LeaderboardService
}

func NewExamineeController(examService service.ExamService, attemptService service.AttemptService, leaderboardService service.LeaderboardService) *ExamineeController {
	return &ExamineeController{
		examService:        examService,
		attemptService:     attemptService,
		leaderboardService: leaderboardService,
	}
}

// EnterExamCode godoc
// @Summary (Examinee) Join an exam by its code
// @Description Codes are matched case-insensitively. The returned questions include their correct answers.
// @Tags Examinee
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.EnterExamCodeRequest true "Exam code"
// @Success 200 {object} dto.EnterExamCodeResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Invalid Exam Code"
// @Router /examinee/enter-exam-code [post]
func (c *ExamineeController) EnterExamCode(ctx *gin.Context) {
	var req dto.EnterExamCodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.RespondBindError(ctx, err)
		return
	}

	exam, err := c.examService.FindByCode(ctx.Request.Context(), req.ExamCode)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.EnterExamCodeResponse{
		Status:   "success",
		Message:  "Exam found",
		ExamData: *exam,
	})
}

// SubmitAttempt godoc
// @Summary (Examinee) Submit answers and get the score
// @Tags Examinee
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.SubmitAttemptRequest true "The exam as answered, with selected options flagged"
// @Success 200 {object} dto.SubmitAttemptResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Failure 500 {object} dto.ErrorResponse "Database commit failed"
// @Router /examinee/attempt-exam-result [post]
func (c *ExamineeController) SubmitAttempt(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		return
	}
	var req dto.SubmitAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.RespondBindError(ctx, err)
		return
	}

	resp, err := c.attemptService.SubmitAttempt(ctx.Request.Context(), userID, req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ListAttempts godoc
// @Summary (Examinee) My previous attempts, newest first
// @Tags Examinee
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Page size (max 100)" default(10)
// @Success 200 {object} dto.AttemptListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /examinee/previous-attempt-exam [get]
func (c *ExamineeController) ListAttempts(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		return
	}
	var page dto.PageQuery
	if err := ctx.ShouldBindQuery(&page); err != nil {
		controller.RespondBindError(ctx, err)
		return
	}

	resp, err := c.attemptService.ListAttempts(ctx.Request.Context(), userID, page)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetAttempt godoc
// @Summary (Examinee) One of my attempts with its question snapshots
// @Tags Examinee
// @Produce json
// @Security BearerAuth
// @Param attempt_id path string true "Attempt ID"
// @Success 200 {object} dto.AttemptEnvelope
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Exam attempt not found"
// @Router /examinee/previous-attempt-exam/{attempt_id} [get]
func (c *ExamineeController) GetAttempt(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		return
	}
	attemptID, ok := controller.UUIDParam(ctx, "attempt_id")
	if !ok {
		return
	}

	attempt, err := c.attemptService.GetAttempt(ctx.Request.Context(), userID, attemptID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.AttemptEnvelope{Status: "success", Exam: *attempt})
}

// Leaderboard godoc
// @Summary (Examinee) Leaderboard of an exam
// @Description Ranked by score, then by time taken. my_rank is the caller's best placing, if any.
// @Tags Examinee
// @Produce json
// @Security BearerAuth
// @Param exam_id path string true "Exam ID"
// @Success 200 {object} dto.LeaderboardResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "No attempts found for this exam"
// @Router /examinee/attempt-exam/{exam_id}/leaderboard [get]
func (c *ExamineeController) Leaderboard(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		return
	}
	examID, ok := controller.UUIDParam(ctx, "exam_id")
	if !ok {
		return
	}

	resp, err := c.leaderboardService.ExamLeaderboard(ctx.Request.Context(), userID, examID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
