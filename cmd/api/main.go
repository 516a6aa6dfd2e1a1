package main

import (
	"os"

	"github.com/yigit/enrollment/internal/pkg/logger"
	"github.com/yigit/enrollment/internal/server"
)

// @title Course Enrollment API
// @version 1.0
// @description Course enrollment and grading records for a university faculty

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Enrollment API stopped with an error")
		os.Exit(1)
	}

	logger.Info().Msg("Enrollment API stopped")
}
