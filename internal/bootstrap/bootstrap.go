// Package bootstrap wires configuration, storage, services and routes.
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

	appControllers "github.com/dotoapp/doto-backend/internal/app/controllers"
	appMigrations "github.com/dotoapp/doto-backend/internal/app/migrations"
	appRepos "github.com/dotoapp/doto-backend/internal/app/repositories"
	appRoutes "github.com/dotoapp/doto-backend/internal/app/routes"
	appServices "github.com/dotoapp/doto-backend/internal/app/services"
	"github.com/dotoapp/doto-backend/internal/config"
	"github.com/dotoapp/doto-backend/internal/db"
	appMiddleware "github.com/dotoapp/doto-backend/internal/middleware"
	pkgAuth "github.com/dotoapp/doto-backend/internal/pkg/auth"
	"github.com/dotoapp/doto-backend/internal/pkg/email"
	"github.com/dotoapp/doto-backend/internal/pkg/filestorage"
	"github.com/dotoapp/doto-backend/internal/pkg/geo"
	"github.com/dotoapp/doto-backend/internal/pkg/helpers"
	"github.com/dotoapp/doto-backend/internal/pkg/logger"
	"github.com/dotoapp/doto-backend/internal/pkg/push"
	"github.com/dotoapp/doto-backend/internal/pkg/websocket"
	"github.com/dotoapp/doto-backend/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos       *appRepos.Repositories
	JWTService  *pkgAuth.JWTService
	FileStorage filestorage.FileStorage
	Hub         *websocket.Hub
	Notifier    *appServices.Notifier

	AuthService         *appServices.AuthService
	UserService         *appServices.UserService
	PostService         *appServices.PostService
	CommentService      *appServices.CommentService
	ConversationService *appServices.ConversationService
	NotificationService *appServices.NotificationService
	EventService        *appServices.EventService
	GeocodeService      *appServices.GeocodeService

	AuthController         *appControllers.AuthController
	UserController         *appControllers.UserController
	PostController         *appControllers.PostController
	CommentController      *appControllers.CommentController
	ConversationController *appControllers.ConversationController
	NotificationController *appControllers.NotificationController
	EventController        *appControllers.EventController
	WSHandler              *websocket.Handler
	AuthMiddleware         *appMiddleware.AuthMiddleware

	Logger zerolog.Logger
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

	lgr := log.Logger
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

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes repositories, services and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	storage, err := setupFileStorage(cfg, lgr)
	if err != nil {
		return nil, err
	}
	deps.FileStorage = storage

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	emailService := email.NewEmailService(email.SMTPConfig{
		Host:      cfg.Email.Host,
		Port:      cfg.Email.Port,
		Username:  cfg.Email.Username,
		Password:  cfg.Email.Password,
		FromName:  cfg.Email.FromName,
		FromEmail: cfg.Email.FromEmail,
		BaseURL:   cfg.Server.BaseURL,
	}, lgr)

	// Push delivery: Expo tokens go to the Expo push API, everything else
	// through Firebase Cloud Messaging.
	expoClient := push.NewExpoClient(cfg.Push.ExpoURL)
	fcmClient := push.NewFCMClient(context.Background(), cfg.Push.FirebaseCredentialFile)
	sender := push.NewSender(expoClient, fcmClient)
	deps.Notifier = appServices.NewNotifier(deps.Repos.PushTokenRepository, sender, lgr)

	deps.Hub = websocket.NewHub(lgr)

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.TokenRepository,
		deps.Repos.PasswordResetRepository,
		deps.JWTService,
		emailService,
		lgr,
	)
	deps.UserService = appServices.NewUserService(
		deps.Repos.UserRepository,
		deps.Repos.PushTokenRepository,
		deps.FileStorage,
		lgr,
	)
	deps.PostService = appServices.NewPostService(
		deps.Repos.PostRepository,
		deps.Repos.UserRepository,
		deps.Repos.CategoryRepository,
		deps.Notifier,
		lgr,
	)
	deps.CommentService = appServices.NewCommentService(
		deps.Repos.CommentRepository,
		deps.Repos.PostRepository,
		deps.Repos.EventRepository,
		deps.Repos.UserRepository,
		lgr,
	)
	deps.ConversationService = appServices.NewConversationService(
		deps.Repos.ConversationRepository,
		deps.Repos.UserRepository,
		deps.Hub,
		deps.Notifier,
		lgr,
	)
	deps.NotificationService = appServices.NewNotificationService(deps.Repos.NotificationRepository, lgr)
	deps.EventService = appServices.NewEventService(
		deps.Repos.EventRepository,
		deps.Repos.UserRepository,
		deps.Notifier,
		lgr,
	)

	geocoder := geo.NewNominatimClient(cfg.Geocoding.NominatimURL, cfg.Geocoding.UserAgent)
	deps.GeocodeService = appServices.NewGeocodeService(
		deps.Repos.PostRepository,
		geocoder,
		cfg.Geocoding.BatchSize,
		helpers.ParseDuration(cfg.Geocoding.BatchDelay, time.Second),
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.UserController = appControllers.NewUserController(deps.UserService, lgr)
	deps.PostController = appControllers.NewPostController(deps.PostService, lgr)
	deps.CommentController = appControllers.NewCommentController(deps.CommentService, lgr)
	deps.ConversationController = appControllers.NewConversationController(deps.ConversationService, lgr)
	deps.NotificationController = appControllers.NewNotificationController(deps.NotificationService, lgr)
	deps.EventController = appControllers.NewEventController(deps.EventService, lgr)
	deps.WSHandler = websocket.NewHandler(deps.Hub, deps.Repos.ConversationRepository, lgr)

	return deps, nil
}

func setupFileStorage(cfg *config.Config, lgr zerolog.Logger) (filestorage.FileStorage, error) {
	if strings.ToLower(cfg.Storage.Driver) == "s3" {
		storage, err := filestorage.NewS3Storage(context.Background(), cfg.Storage.S3Bucket, cfg.Storage.S3Region)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to initialize S3 storage")
			return nil, fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
		lgr.Info().Str("bucket", cfg.Storage.S3Bucket).Msg("S3 file storage configured")
		return storage, nil
	}

	baseURL := cfg.Server.BaseURL + "/uploads"
	storage, err := filestorage.NewLocalStorage(cfg.Server.StoragePath, baseURL)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize local file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}
	lgr.Info().Str("path", cfg.Server.StoragePath).Msg("Local file storage configured")
	return storage, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(appMiddleware.Recovery(lgr))
	router.Use(appMiddleware.RequestLogger(lgr))
	router.Use(appMiddleware.CORS())

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.UserController,
		deps.PostController,
		deps.CommentController,
		deps.ConversationController,
		deps.NotificationController,
		deps.EventController,
		deps.WSHandler,
		deps.AuthMiddleware,
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}
