package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/mbdelmundo/thesisdesk/docs" // Import generated swagger docs
	appControllers "github.com/mbdelmundo/thesisdesk/internal/app/controllers"
	appMigrations "github.com/mbdelmundo/thesisdesk/internal/app/migrations"
	appRepos "github.com/mbdelmundo/thesisdesk/internal/app/repositories"
	appRoutes "github.com/mbdelmundo/thesisdesk/internal/app/routes"
	appServices "github.com/mbdelmundo/thesisdesk/internal/app/services"
	"github.com/mbdelmundo/thesisdesk/internal/config"
	"github.com/mbdelmundo/thesisdesk/internal/db"
	appMiddleware "github.com/mbdelmundo/thesisdesk/internal/middleware"
	pkgAuth "github.com/mbdelmundo/thesisdesk/internal/pkg/auth"
	"github.com/mbdelmundo/thesisdesk/internal/pkg/logger"
	"github.com/mbdelmundo/thesisdesk/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService            *appServices.AuthService
	UserService            *appServices.UserService
	AdviseeService         *appServices.AdviseeService
	AnnouncementService    *appServices.AnnouncementService
	AuthController         *appControllers.AuthController
	UserController         *appControllers.UserController
	AdviseeController      *appControllers.AdviseeController
	AnnouncementController *appControllers.AnnouncementController
	AuthMiddleware         *appMiddleware.AuthMiddleware
	Repos                  *appRepos.Repositories
	AssertionVerifier      *pkgAuth.AssertionVerifier
	Logger                 zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger // Get the configured global logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	// Create Default Data (after migrations)
	seedLogger := logger.WithField("component", "seed")
	if err := seed.CreateDefaultData(context.Background(), dbPool, seedLogger); err != nil {
		// Log the error but don't necessarily fail the startup
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.AssertionVerifier = pkgAuth.NewAssertionVerifier(pkgAuth.AssertionVerifierConfig{
		Secret: cfg.Auth.AssertionSecret,
		Issuer: cfg.Auth.AssertionIssuer,
	})

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.User,
		deps.Repos.Account,
		deps.Repos.Session,
		deps.AssertionVerifier,
		cfg.SessionTTL(),
	)
	deps.UserService = appServices.NewUserService(deps.Repos.User)
	deps.AdviseeService = appServices.NewAdviseeService(deps.Repos.Advisee)
	deps.AnnouncementService = appServices.NewAnnouncementService(deps.Repos.Announcement)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.AuthService)

	cookieCfg := pkgAuth.CookieConfig{
		Secure: cfg.Auth.SecureCookies,
		MaxAge: int(cfg.SessionTTL().Seconds()),
	}

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, cookieCfg)
	deps.UserController = appControllers.NewUserController(deps.UserService)
	deps.AdviseeController = appControllers.NewAdviseeController(deps.AdviseeService)
	deps.AnnouncementController = appControllers.NewAnnouncementController(deps.AnnouncementService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger())
	router.Use(appMiddleware.Metrics())

	// Setup Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json"), ginSwagger.DefaultModelsExpandDepth(1)))

	// Setup API routes using the dependencies
	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.UserController,
		deps.AdviseeController,
		deps.AnnouncementController,
		deps.AuthMiddleware,
	)

	// Test endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
