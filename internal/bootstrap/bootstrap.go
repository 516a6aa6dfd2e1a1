package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appAuth "github.com/yigit/enrollment/internal/app/auth"
	appControllers "github.com/yigit/enrollment/internal/app/controllers"
	appMigrations "github.com/yigit/enrollment/internal/app/migrations"
	appRepos "github.com/yigit/enrollment/internal/app/repositories"
	appRoutes "github.com/yigit/enrollment/internal/app/routes"
	appServices "github.com/yigit/enrollment/internal/app/services"
	"github.com/yigit/enrollment/internal/config"
	"github.com/yigit/enrollment/internal/db"
	appMiddleware "github.com/yigit/enrollment/internal/middleware"
	pkgAuth "github.com/yigit/enrollment/internal/pkg/auth"
	"github.com/yigit/enrollment/internal/pkg/filestorage"
	"github.com/yigit/enrollment/internal/pkg/helpers"
	"github.com/yigit/enrollment/internal/pkg/logger"
	"github.com/yigit/enrollment/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos        *appRepos.Repositories
	FileStorage  *filestorage.LocalStorage
	JWTService   *pkgAuth.JWTService
	AuthzService *appAuth.AuthorizationService
	Eligibility  *appServices.EligibilityResolver

	AuthService       *appServices.AuthService
	ProfileService    *appServices.ProfileService
	StudentService    appServices.StudentService
	TeacherService    appServices.TeacherService
	CourseService     appServices.CourseService
	EnrollmentService appServices.EnrollmentService
	GradingService    appServices.GradingService

	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := config.GetEnv("CONFIG_PATH", filepath.Join("configs", "config.yaml"))
	cfg, err := config.LoadConfig(configPath, ".env")
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.EqualFold(cfg.Logging.Format, "text"),
	})

	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// creates the default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	dbPool, err := db.NewPool(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Str("dir", migrationsDir).Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool, logger.WithComponent("migrator"))
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	repos := appRepos.NewRepositories(dbPool)
	if err := seed.CreateDefaultData(ctx, repos, cfg.Admin.Email, cfg.Admin.Password, cfg.Database.SeedSampleData, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}
	deps.Repos = appRepos.NewRepositories(dbPool)
	repos := deps.Repos

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, cfg.Server.UploadsURL)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 8*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	deps.AuthzService = appAuth.NewAuthorizationService(repos.CourseRepository, repos.EnrollmentRepository)
	deps.Eligibility = appServices.NewEligibilityResolver(repos.StudentRepository)

	component := logger.WithComponent
	deps.AuthService = appServices.NewAuthService(
		repos.AccountRepository,
		repos.TeacherRepository,
		repos.StudentRepository,
		deps.JWTService,
		component("auth"),
	)
	deps.ProfileService = appServices.NewProfileService(repos.TeacherRepository, repos.StudentRepository, deps.FileStorage, component("profile"))
	deps.StudentService = appServices.NewStudentService(repos.StudentRepository, repos.AccountRepository, deps.FileStorage, component("students"))
	deps.TeacherService = appServices.NewTeacherService(repos.TeacherRepository, repos.AccountRepository, deps.FileStorage, component("teachers"))
	deps.CourseService = appServices.NewCourseService(repos.CourseRepository, repos.EnrollmentRepository, deps.AuthzService, component("courses"))
	deps.EnrollmentService = appServices.NewEnrollmentService(repos.EnrollmentRepository, repos.CourseRepository, deps.Eligibility, component("enrollments"))
	deps.GradingService = appServices.NewGradingService(
		repos.EnrollmentRepository,
		repos.CourseRepository,
		deps.AuthzService,
		deps.FileStorage,
		component("grading"),
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)
	deps.Controllers = appRoutes.Controllers{
		Auth:       appControllers.NewAuthController(deps.AuthService, deps.ProfileService, lgr),
		Course:     appControllers.NewCourseController(deps.CourseService, deps.EnrollmentService, deps.GradingService, lgr),
		Enrollment: appControllers.NewEnrollmentController(deps.EnrollmentService, deps.GradingService, lgr),
		Student:    appControllers.NewStudentController(deps.StudentService, lgr),
		Teacher:    appControllers.NewTeacherController(deps.TeacherService, lgr),
	}

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

	appMiddleware.SetupValidation()

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(logger.WithComponent("http")))
	router.MaxMultipartMemory = cfg.MaxUploadBytes()

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	return router
}
