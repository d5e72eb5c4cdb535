package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quiz_platform_backend/internal/bot"
	"quiz_platform_backend/internal/config"
	"quiz_platform_backend/internal/controller"
	"quiz_platform_backend/internal/repository"
	"quiz_platform_backend/internal/service"
	"quiz_platform_backend/pkg/database"
	"quiz_platform_backend/pkg/logger"
	"quiz_platform_backend/pkg/monitoring"
	"quiz_platform_backend/pkg/security"
	"quiz_platform_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
	bot      *bot.Bot
	tracer   *sdktrace.TracerProvider
}

type repositories struct {
	user       *repository.UserRepository
	permission *repository.PermissionRepository
	test       *repository.TestRepository
	userTest   *repository.UserTestRepository
	task       *repository.TaskRepository
}

type services struct {
	auth       *service.AuthService
	user       *service.UserService
	permission *service.PermissionService
	test       *service.TestService
	quiz       *service.QuizService
	task       *service.TaskService
}

type controllers struct {
	auth       *controller.AuthController
	user       *controller.UserController
	permission *controller.PermissionController
	test       *controller.TestController
	quiz       *controller.QuizController
	task       *controller.TaskController
	webapp     *controller.WebAppController
	health     *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		permission: repository.NewPermissionRepository(db),
		test:       repository.NewTestRepository(db),
		userTest:   repository.NewUserTestRepository(db),
		task:       repository.NewTaskRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	return &services{
		auth:       service.NewAuthService(repos.user, cfg.JWT),
		user:       service.NewUserService(repos.user, repos.permission),
		permission: service.NewPermissionService(repos.permission),
		test:       service.NewTestService(repos.test, repos.user, rdb),
		quiz:       service.NewQuizService(repos.user, repos.test, repos.userTest),
		task:       service.NewTaskService(repos.task, repos.user),
	}
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		user:       controller.NewUserController(s.user),
		permission: controller.NewPermissionController(s.permission),
		test:       controller.NewTestController(s.test),
		quiz:       controller.NewQuizController(s.quiz, s.test),
		task:       controller.NewTaskController(s.task),
		webapp:     controller.NewWebAppController(s.user, a.Config.JWT),
		health:     controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks runs the expiry sweep: every minute, attempts past
// their deadline are finalized even if the user never returns.
func (a *App) startBackgroundTasks(s *services) {
	go func() {
		ticker := time.NewTicker(time.Minute)
		for range ticker.C {
			if err := s.quiz.AutoCompleteExpiredTests(); err != nil {
				logger.Log.Error("expiry sweep error", zap.Error(err))
			}
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg.Server.Mode)
	logger.Log.Info("Logger initialized successfully")

	gin.SetMode(cfg.Server.Mode)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	svcs := app.initServices(repos, cfg, rdb)
	app.services = svcs
	ctrls := app.initControllers(svcs, db)

	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("quiz-platform", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	app.registerRoutes(router, ctrls, cfg)

	if cfg.Telegram.Enabled {
		tgBot, err := bot.New(cfg.Telegram, svcs.user, svcs.test, svcs.quiz)
		if err != nil {
			logger.Log.Fatal("Failed to initialize telegram bot", zap.Error(err))
		}
		app.bot = tgBot
		go tgBot.Start()
	}

	app.startBackgroundTasks(svcs)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if a.bot != nil {
		a.bot.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}

	logger.Log.Sync()
	log.Println("Server exiting")
}
