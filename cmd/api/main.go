package main

import (
	"os"

	"github.com/mbdelmundo/thesisdesk/internal/pkg/logger"
	"github.com/mbdelmundo/thesisdesk/internal/server"
)

// @title ThesisDesk API
// @version 1.0
// @description API for the thesis advising administration portal
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@thesisdesk.univ.edu

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name portal_session
// @description Session cookie issued by the sign-in callback

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize server")
	}

	// Run blocks until a shutdown signal arrives
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
	os.Exit(0)
}
