package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/studentrecords/internal/app/controllers"
	appMigrations "github.com/yigit/studentrecords/internal/app/migrations"
	appRepos "github.com/yigit/studentrecords/internal/app/repositories"
	appRoutes "github.com/yigit/studentrecords/internal/app/routes"
	appServices "github.com/yigit/studentrecords/internal/app/services"
	"github.com/yigit/studentrecords/internal/config"
	"github.com/yigit/studentrecords/internal/db"
	appMiddleware "github.com/yigit/studentrecords/internal/middleware"
	pkgAuth "github.com/yigit/studentrecords/internal/pkg/auth"
	"github.com/yigit/studentrecords/internal/pkg/helpers"
	"github.com/yigit/studentrecords/internal/pkg/logger"
	"github.com/yigit/studentrecords/internal/seed"
	schema "github.com/yigit/studentrecords/migrations"
	"github.com/yigit/studentrecords/web"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	StudentService    appServices.StudentService
	AttendanceService appServices.AttendanceService
	DashboardService  appServices.DashboardService
	AuthService       appServices.AuthService
	ExportService     appServices.ExportService

	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	DB             *db.PostgresDB
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(config.PathFromEnv())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
		File:   cfg.Logging.File,
	})

	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// ConnectDatabase opens the pool and applies pending migrations.
func ConnectDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(database.Pool).Migrate(ctx, schema.Files); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{DB: database, Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database.Pool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.Session.Secret,
		TokenExp:    helpers.ParseDuration(cfg.Session.Lifetime, 24*time.Hour),
		TokenIssuer: cfg.Session.Issuer,
	})

	deps.StudentService = appServices.NewStudentService(deps.Repos.StudentRepository, lgr)
	deps.AttendanceService = appServices.NewAttendanceService(deps.Repos.AttendanceRepository, deps.Repos.StudentRepository, lgr)
	deps.DashboardService = appServices.NewDashboardService(deps.Repos.StudentRepository)
	deps.AuthService = appServices.NewAuthService(deps.Repos.UserRepository, deps.Repos.SessionRepository, deps.JWTService, lgr)
	deps.ExportService = appServices.NewExportService(deps.Repos.StudentRepository)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.AuthService, cfg.Server.SecureCookies)

	deps.Controllers = appRoutes.Controllers{
		Auth:       appControllers.NewAuthController(deps.AuthService, deps.AuthMiddleware, lgr),
		Dashboard:  appControllers.NewDashboardController(deps.DashboardService),
		Student:    appControllers.NewStudentController(deps.StudentService),
		Attendance: appControllers.NewAttendanceController(deps.AttendanceService),
		Export:     appControllers.NewExportController(deps.ExportService),
		Page:       appControllers.NewPageController(database),
	}

	return deps
}

// SeedData creates the configured operator account and prunes stale
// login sessions. Failures are logged only.
func SeedData(ctx context.Context, cfg *config.Config, deps *Dependencies) {
	err := seed.EnsureAdmin(ctx, deps.Repos.UserRepository, deps.AuthService,
		cfg.Seed.AdminUsername, cfg.Seed.AdminPassword, deps.Logger)
	if err != nil {
		deps.Logger.Error().Err(err).Msg("Failed to create seed data, proceeding anyway...")
	}

	if _, err := deps.AuthService.PruneSessions(ctx); err != nil {
		deps.Logger.Error().Err(err).Msg("Failed to prune expired sessions, proceeding anyway...")
	}
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	templates, err := web.Templates()
	if err != nil {
		return nil, err
	}

	router := NewEngine(cfg.Session.Secret, cfg.Server.SecureCookies, lgr)
	router.SetHTMLTemplate(templates)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware, web.Static())

	return router, nil
}

// NewEngine returns a gin engine carrying the site-wide middleware stack
func NewEngine(sessionSecret string, secureCookies bool, lgr zerolog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		appMiddleware.RequestLogger(lgr),
		appMiddleware.Recovery(),
		appMiddleware.FlashSessions(sessionSecret, secureCookies),
	)
	return router
}
