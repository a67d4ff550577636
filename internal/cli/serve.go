package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/examapp/config"
	"github.com/lshigami/examapp/database"
	"github.com/lshigami/examapp/internal/controller/account"
	"github.com/lshigami/examapp/internal/controller/examinee"
	"github.com/lshigami/examapp/internal/controller/examiner"
	"github.com/lshigami/examapp/internal/logger"
	"github.com/lshigami/examapp/internal/repository"
	"github.com/lshigami/examapp/internal/router"
	"github.com/lshigami/examapp/internal/service"
	"github.com/lshigami/examapp/internal/storage"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Migrate the database and start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := newApp()
			if err := app.Start(cmd.Context()); err != nil {
				return err
			}

			<-app.Done()
			log.Info().Msg("Application shutting down gracefully...")

			stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return app.Stop(stopCtx)
		},
	}
}

func newApp() *fx.App {
	return fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			storage.New,
			router.New,
		),

		fx.Provide(
			repository.NewUserRepository,
			repository.NewExamRepository,
			repository.NewQuestionRepository,
			repository.NewAttemptRepository,
		),

		fx.Provide(
			service.NewTokenService,
			service.NewAuthService,
			service.NewUserService,
			service.NewImageService,
			service.NewExamService,
			service.NewAttemptService,
			service.NewLeaderboardService,
		),

		fx.Provide(
			account.NewAccountController,
			examiner.NewExaminerController,
			examinee.NewExamineeController,
		),

		fx.Invoke(configureLogging),
		fx.Invoke(migrateDB),
		fx.Invoke(startServer),
	)
}

func configureLogging(cfg *config.Config) {
	logger.Configure(cfg.Log.Level, cfg.Log.Pretty)
	gin.SetMode(cfg.Server.GinMode)
}

func migrateDB(db *gorm.DB) error {
	return database.AutoMigrate(db)
}

func startServer(lc fx.Lifecycle, engine *gin.Engine, cfg *config.Config, db *gorm.DB) {
	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	lc.Append(serverHook(server, db))
}

// serverHook runs server for the lifetime of the app. OnStop drains in-flight requests
// within the stop context fx hands it, then closes the database pool.
func serverHook(server *http.Server, db *gorm.DB) fx.Hook {
	return fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Exam API server starting on %s", server.Addr)
			log.Info().Msgf("Swagger UI available at http://localhost%s/swagger/index.html", server.Addr)
			go func() {
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			if err := server.Shutdown(ctx); err != nil {
				return err
			}
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}
