package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vokabel_trainer_backend/internal/config"
	"vokabel_trainer_backend/internal/controller"
	"vokabel_trainer_backend/internal/repository"
	"vokabel_trainer_backend/internal/service"
	"vokabel_trainer_backend/internal/vocab"
	"vokabel_trainer_backend/pkg/database"
	"vokabel_trainer_backend/pkg/logger"
	"vokabel_trainer_backend/pkg/monitoring"
	"vokabel_trainer_backend/pkg/security"
	"vokabel_trainer_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	Table    *vocab.Table
	services *services
}

type repositories struct {
	state repository.StateStore
}

type services struct {
	progress  *service.ProgressService
	generator *service.GeneratorService
	session   *service.SessionService
	storage   *service.StorageService
}

type controllers struct {
	setup    *controller.SetupController
	vocab    *controller.VocabController
	progress *controller.ProgressController
	test     *controller.TestController
	health   *controller.HealthController
}

// initRepositories 按配置选择进度持久化后端
func (a *App) initRepositories(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *repositories {
	if cfg.State.Store == "redis" {
		return &repositories{state: repository.NewRedisStateRepository(rdb)}
	}
	return &repositories{state: repository.NewStateRepository(db)}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, table *vocab.Table) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.progress = service.NewProgressService(repos.state, table)
	s.generator = service.NewGeneratorService(table)
	s.session = service.NewSessionService(s.generator, s.progress)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, table *vocab.Table) *controllers {
	return &controllers{
		setup:    controller.NewSetupController(s.progress),
		vocab:    controller.NewVocabController(table, s.progress, s.storage),
		progress: controller.NewProgressController(s.progress),
		test:     controller.NewTestController(s.session, s.progress, s.storage),
		health:   controller.NewHealthController(db, table),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	table, err := vocab.Load()
	if err != nil {
		logger.Log.Fatal("Failed to load vocabulary data", zap.Error(err))
	}
	logger.Log.Info("Vocabulary loaded", zap.Int("words", len(table.Words())))

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	var rdb *redis.Client
	if cfg.State.Store == "redis" {
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
			log.Fatalf("Failed to initialize redis: %v", err)
		}
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		Table:  table,
	}

	repos := app.initRepositories(cfg, db, rdb)
	services := app.initServices(repos, cfg, table)
	app.services = services
	controllers := app.initControllers(services, db, table)

	// 监控初始化
	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("vokabel-trainer", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers)

	// 本地存储时由本服务静态托管词汇配图
	if cfg.Storage.Type == "local" {
		router.Static("/images", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
