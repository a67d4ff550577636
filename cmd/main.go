package main

import (
	"os"

	_ "github.com/lshigami/examapp/docs"
	"github.com/lshigami/examapp/internal/cli"
	"github.com/lshigami/examapp/internal/logger"
	"github.com/rs/zerolog/log"
)

// @title Online Exam API
// @version 1.0
// @description Examiners author multiple-choice exams shared by join code. Examinees join, submit attempts and compare scores on a leaderboard.
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:5000
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
func main() {
	logger.Init()

	if err := cli.Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
