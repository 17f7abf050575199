package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"civic-go-admin/controllers/admin"
	"civic-go-admin/controllers/app"
	"civic-go-admin/db"
	"civic-go-admin/middleware"
	"civic-go-admin/pkg/config"
	"civic-go-admin/pkg/goroutinepool"
	"civic-go-admin/pkg/monitoring"
	"civic-go-admin/redis"
	"civic-go-admin/router"
	"civic-go-admin/services/admin_service"
	"civic-go-admin/services/app_service"
	"civic-go-admin/services/moderation_service"

	"github.com/gin-gonic/gin"
)

func main() {
	// 1. 加载配置
	if err := config.InitConfig(); err != nil {
		log.Fatalf("配置初始化失败: %v", err)
	}
	cfg := config.GetConfig()

	// 2. 日志文件
	logFile := middleware.SetupLogFile("logs")
	if logFile != nil {
		defer logFile.Close()
	}

	// 3. 初始化Redis（失败不阻塞启动，规则缓存自动降级为直查数据库）
	if err := redis.InitRedis(cfg.Redis); err != nil {
		log.Printf("Redis初始化失败，规则缓存不可用: %v", err)
	}

	// 4. 初始化数据库
	db.Init()

	// 5. 审核任务池
	pool := goroutinepool.NewPool(10, 200)
	pool.Start()

	// 6. 组装审核流水线
	client := moderation_service.NewOpenAIClient(cfg.OpenAI)
	configStore := moderation_service.NewDBConfigStore(db.Dao)
	rules := moderation_service.NewGormRuleRepository(db.Dao, redis.GetClient())

	textPipeline := moderation_service.NewTextModerationPipeline(
		moderation_service.NewSensitiveWordFilter(rules),
		moderation_service.NewSafetyClassifier(client, cfg.OpenAI),
		moderation_service.NewKeywordCategoryClassifier(rules),
		moderation_service.NewSemanticCategoryClassifier(client, rules, cfg.OpenAI),
		configStore,
	)

	logs := moderation_service.NewGormModerationLogRepository(db.Dao)
	mediaPipeline := moderation_service.NewMediaModerationPipeline(
		moderation_service.NewImageSafetyClassifier(client, cfg.OpenAI),
		configStore,
		logs,
	)

	lifecycle := moderation_service.NewGormOpinionLifecycle(db.Dao)
	orchestrator := moderation_service.NewModerationOrchestrator(textPipeline, mediaPipeline, logs, lifecycle, pool)

	// 7. 注入业务服务
	app.InitOpinionController(app_service.NewOpinionService(orchestrator))
	admin.InitModerationController(
		admin_service.NewModerationService(lifecycle),
		admin_service.NewModerationRuleService(rules),
	)

	// 8. HTTP服务
	gin.SetMode(cfg.Server.Mode)
	middleware.RegisterValidators()
	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogger("logs"))
	r.Use(monitoring.PrometheusMiddleware())
	router.Init(r)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Printf("服务启动，监听端口 %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 优雅关闭：先停止接收请求，再等待审核任务池排空
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("收到退出信号，开始关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("HTTP服务关闭异常: %v", err)
	}

	pool.Stop()
	log.Println("服务已退出")
}
