package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"finlogix/config"
	"finlogix/database"
	"finlogix/middleware"
	"finlogix/notify"
	"finlogix/router"
	"finlogix/service"

	"golang.org/x/sync/errgroup"
)

// @title FinLogix API
// @version 1.0
// @description 个人记账 API：交易记录、类别管理、理财建议与交易实时推送
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const version = "1.0.0"

var (
	configFile  string
	port        string
	showVersion bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "外部配置文件路径（可选）")
	flag.StringVar(&configFile, "c", "", "外部配置文件路径（简写）")
	flag.StringVar(&port, "port", "", "监听端口，如: 8080 或 :8080")
	flag.StringVar(&port, "p", "", "监听端口（简写）")
	flag.BoolVar(&showVersion, "version", false, "显示版本信息")
	flag.BoolVar(&showVersion, "v", false, "显示版本信息（简写）")
}

func main() {
	flag.Parse()

	if showVersion {
		fmt.Println("FinLogix v" + version)
		return
	}

	// 加载配置（内置配置 + 可选的外部配置覆盖）
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		slog.Error("加载配置失败", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Server.Mode)
	slog.SetDefault(logger)

	// 命令行参数覆盖端口配置
	if port != "" {
		// 自动添加冒号前缀
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
		logger.Info("命令行指定端口", "port", port)
	}

	// 打印配置信息
	config.PrintConfig()

	if err := run(cfg, logger); err != nil {
		logger.Error("服务异常退出", "error", err)
		os.Exit(1)
	}
	logger.Info("服务已停止")
}

func newLogger(mode string) *slog.Logger {
	level := slog.LevelInfo
	if mode == "debug" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

func run(cfg *config.Config, logger *slog.Logger) error {
	// 初始化数据库
	if err := database.Init(cfg); err != nil {
		return fmt.Errorf("数据库初始化失败: %w", err)
	}

	// 初始化 JWT
	middleware.InitJWT(cfg)

	// 事件推送：进程内 Hub 必开，RabbitMQ 可选
	hub := notify.NewHub(cfg.Notify.ListenerBuffer)
	sinks := []notify.Sink{hub}
	if cfg.Notify.AMQP.URL != "" {
		amqpSink, err := notify.NewAMQPSink(cfg.Notify.AMQP.URL, cfg.Notify.AMQP.Exchange)
		if err != nil {
			return fmt.Errorf("连接 RabbitMQ 失败: %w", err)
		}
		defer amqpSink.Close()
		sinks = append(sinks, amqpSink)
		logger.Info("已启用 RabbitMQ 事件推送", "exchange", cfg.Notify.AMQP.Exchange)
	}
	dispatcher := notify.NewDispatcher(cfg.Notify.Buffer, sinks...)

	// 设置路由
	r := router.SetupRouter(cfg, router.Deps{
		DB:        database.GetDB(),
		Hub:       hub,
		Publisher: dispatcher,
		Mailer:    service.NewEmailService(&cfg.Email),
		Logger:    logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
		// 退出信号同时取消请求上下文，SSE 长连接随之结束
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return dispatcher.Run(gctx)
	})

	g.Go(func() error {
		logger.Info("FinLogix 已启动",
			"addr", cfg.Server.Port,
			"swagger", "http://localhost"+cfg.Server.Port+"/swagger/index.html",
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("服务器启动失败: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("收到退出信号，开始关闭")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
