// Package router assembles the gin engine and mounts every API route.
package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/examapp/config"
	"github.com/lshigami/examapp/internal/controller/account"
	"github.com/lshigami/examapp/internal/controller/examinee"
	"github.com/lshigami/examapp/internal/controller/examiner"
	"github.com/lshigami/examapp/internal/dto"
	"github.com/lshigami/examapp/internal/middleware"
	"github.com/lshigami/examapp/internal/service"
	"github.com/lshigami/examapp/internal/storage"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func New(
	cfg *config.Config,
	store storage.BlobStore,
	authService service.AuthService,
	accountController *account.AccountController,
	examinerController *examiner.ExaminerController,
	examineeController *examinee.ExamineeController,
) (*gin.Engine, error) {
	if err := dto.RegisterValidations(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Recovery())
	r.Use(cors.New(corsConfig(cfg.Server.CORSOrigins)))

	// URL: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if fs, ok := store.(*storage.FSStore); ok && strings.HasPrefix(fs.PublicURL(), "/") {
		r.Static(fs.PublicURL(), fs.Base())
		log.Info().Str("dir", fs.Base()).Str("url", fs.PublicURL()).Msg("Serving uploaded images")
	}

	r.GET("/", health)
	r.GET("/health", health)

	api := r.Group("/api")
	requireAuth := middleware.RequireAuth(authService)

	auth := api.Group("/auth")
	{
		auth.POST("/register", accountController.Register)
		auth.POST("/login", accountController.Login)
	}

	users := api.Group("/users")
	{
		users.GET("", requireAuth, accountController.ListUsers)
		users.POST("", accountController.CreateUser)
	}

	examinerGroup := api.Group("/examiner", requireAuth)
	{
		examinerGroup.POST("/create-exam", examinerController.CreateExam)
		examinerGroup.GET("/my-created-exams", examinerController.ListExams)
		examinerGroup.GET("/my-created-exams/:exam_id", examinerController.GetExam)
		examinerGroup.PUT("/my-created-exams/:exam_id", examinerController.UpdateExam)
		examinerGroup.DELETE("/my-created-exams/:exam_id", examinerController.DeleteExam)
		examinerGroup.GET("/my-created-exams/:exam_id/leaderboard", examinerController.Leaderboard)
	}

	examineeGroup := api.Group("/examinee", requireAuth)
	{
		examineeGroup.POST("/enter-exam-code", examineeController.EnterExamCode)
		examineeGroup.POST("/attempt-exam-result", examineeController.SubmitAttempt)
		examineeGroup.GET("/previous-attempt-exam", examineeController.ListAttempts)
		examineeGroup.GET("/previous-attempt-exam/:attempt_id", examineeController.GetAttempt)
		examineeGroup.GET("/attempt-exam/:exam_id/leaderboard", examineeController.Leaderboard)
	}

	return r, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			// Credentials cannot be combined with a wildcard origin, so echo the caller's origin instead.
			cfg.AllowOriginFunc = func(string) bool { return true }
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	if len(origins) == 0 {
		cfg.AllowOriginFunc = func(string) bool { return true }
	}
	return cfg
}

func health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.MessageResponse{Status: "success", Message: "Exam API is running"})
}
