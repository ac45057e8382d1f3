package app

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"prep_admin_backend/internal/config"
	"prep_admin_backend/internal/controller"
	"prep_admin_backend/internal/repository"
	"prep_admin_backend/internal/seed"
	"prep_admin_backend/internal/service"
	"prep_admin_backend/internal/view"
	"prep_admin_backend/pkg/cache"
	"prep_admin_backend/pkg/configwatcher"
	"prep_admin_backend/pkg/database"
	"prep_admin_backend/pkg/logger"
	"prep_admin_backend/pkg/monitoring"
	"prep_admin_backend/pkg/security"
	"prep_admin_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ConfigFile is watched for hot reloads of the tunable settings.
const ConfigFile = "configs/config.yaml"

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	Cache           cache.Store
	services        *services
	limiter         *security.RateLimiter
	tracer          *sdktrace.TracerProvider
	configCallbacks []configwatcher.Reloader
}

type repositories struct {
	profile      *repository.ProfileRepository
	learningPath *repository.LearningPathRepository
	curriculum   *repository.CurriculumRepository
	pathItem     *repository.PathItemRepository
	lesson       *repository.LessonRepository
	section      *repository.SectionRepository
	question     *repository.QuestionRepository
	exercise     *repository.ExerciseRepository
}

type services struct {
	auth         *service.AuthService
	storage      *service.StorageService
	media        *service.MediaService
	upload       *service.UploadService
	profile      *service.ProfileService
	learningPath *service.LearningPathService
	lesson       *service.LessonService
	exercise     *service.ExerciseService
}

type controllers struct {
	auth         *controller.AuthController
	user         *controller.UserController
	exercise     *controller.ExerciseController
	learningPath *controller.LearningPathController
	lesson       *controller.LessonController
	page         *controller.PageController
	health       *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback configwatcher.Reloader) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		profile:      repository.NewProfileRepository(db),
		learningPath: repository.NewLearningPathRepository(db),
		curriculum:   repository.NewCurriculumRepository(db),
		pathItem:     repository.NewPathItemRepository(db),
		lesson:       repository.NewLessonRepository(db),
		section:      repository.NewSectionRepository(db),
		question:     repository.NewQuestionRepository(db),
		exercise:     repository.NewExerciseRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}
	ttl := cfg.Cache.TTL()

	s.storage = service.NewStorageService(cfg)
	s.media = service.NewMediaService()
	s.upload = service.NewUploadService(s.storage, s.media, cfg.Upload)
	s.auth = service.NewAuthService(repos.profile, cfg)
	s.profile = service.NewProfileService(repos.profile)
	s.learningPath = service.NewLearningPathService(repos.learningPath, repos.curriculum, repos.pathItem, repos.lesson, a.Cache, ttl)
	s.lesson = service.NewLessonService(repos.lesson, repos.section, repos.question, s.upload, a.Cache, ttl)
	s.exercise = service.NewExerciseService(repos.exercise, s.upload, a.Cache)
	return s
}

func (a *App) initControllers(s *services) *controllers {
	auth := controller.NewAuthController(s.auth, a.Config.Server.Mode == gin.ReleaseMode)
	return &controllers{
		auth:         auth,
		user:         controller.NewUserController(s.profile),
		exercise:     controller.NewExerciseController(s.exercise),
		learningPath: controller.NewLearningPathController(s.learningPath),
		lesson:       controller.NewLessonController(s.lesson),
		page:         controller.NewPageController(auth, s.lesson, s.learningPath),
		health:       controller.NewHealthController(a.DB, a.Redis),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(gin.Recovery())
	if cfg.Server.Mode == gin.DebugMode {
		router.Use(gin.Logger())
	}
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(a.limiter.Middleware())

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware(cfg.Tracing))
	}

	router.Use(monitoring.MetricsMiddleware())
	router.Use(func(c *gin.Context) {
		c.Set("config", cfg)
		c.Next()
	})
}

func rateWindow(cfg config.RateLimitConfig) time.Duration {
	return time.Duration(cfg.WindowMinutes) * time.Minute
}

// New builds the application on open connections. rdb may be nil, in which
// case pages are cached in memory.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*App, error) {
	app := &App{
		Config:  cfg,
		DB:      db,
		Redis:   rdb,
		Cache:   cache.NewMemoryStore(),
		limiter: security.NewRateLimiter(cfg.RateLimit.MaxRequests, rateWindow(cfg.RateLimit)),
	}
	if rdb != nil {
		app.Cache = cache.NewRedisStore(rdb, "prep_admin:")
	}

	repos := app.initRepositories(db)
	app.services = app.initServices(repos, cfg)
	controllers := app.initControllers(app.services)

	monitoring.Init()

	templates, err := view.Load()
	if err != nil {
		return nil, errors.Wrap(err, "parse page templates")
	}

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.SetHTMLTemplate(templates)
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, repos, cfg)

	if app.services.storage.Kind == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.RegisterConfigCallback(func(next *config.Config) {
		app.services.upload.SetLimits(next.Upload)
	})
	app.RegisterConfigCallback(func(next *config.Config) {
		app.limiter.SetLimit(next.RateLimit.MaxRequests, rateWindow(next.RateLimit))
	})

	return app, nil
}

// NewApp connects to the configured stores, migrates when asked to and
// builds the application. Startup failures are fatal.
func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode == gin.DebugMode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	if cfg.ForceMigrate || cfg.Server.Mode != gin.ReleaseMode {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = database.InitRedis(context.Background(), &cfg.Redis)
		if err != nil {
			logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		}
	}

	app, err := New(cfg, db, rdb)
	if err != nil {
		logger.Log.Fatal("Failed to build application", zap.Error(err))
	}
	if cfg.MigrateOnly {
		return app
	}

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(context.Background(), cfg.Tracing)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	if err := app.Bootstrap(context.Background()); err != nil {
		logger.Log.Error("Failed to create bootstrap admin", zap.Error(err))
	}
	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		watcher := configwatcher.New(ConfigFile, a.configCallbacks...)
		if err := watcher.Watch(ctx); err != nil {
			logger.Log.Warn("config hot reload disabled", zap.Error(err))
		}
	}()

	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("listen failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}
	a.Close(shutdownCtx)
	logger.Log.Info("Server exiting")
}

// Bootstrap creates the configured admin account when no admin exists yet.
func (a *App) Bootstrap(ctx context.Context) error {
	return a.services.auth.EnsureBootstrapAdmin(ctx)
}

// Seeder imports fixtures through the services of the app.
func (a *App) Seeder() *seed.Seeder {
	return &seed.Seeder{
		Profiles:  a.services.profile,
		Lessons:   a.services.lesson,
		Paths:     a.services.learningPath,
		Exercises: a.services.exercise,
	}
}

// Close releases the connections and background workers of the app.
func (a *App) Close(ctx context.Context) {
	a.limiter.Stop()
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = logger.Log.Sync()
}
