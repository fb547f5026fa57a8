package router

import (
	"log/slog"
	"net/http"
	"time"

	"finlogix/api"
	"finlogix/config"
	_ "finlogix/docs"
	"finlogix/middleware"
	"finlogix/notify"
	"finlogix/repository"
	"finlogix/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// Deps 路由依赖
type Deps struct {
	DB *gorm.DB
	// Hub 为 /events 提供事件，Publisher 供账本在提交后发布
	Hub       *notify.Hub
	Publisher notify.Publisher
	Mailer    service.Mailer
	Logger    *slog.Logger
}

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, deps Deps) *gin.Engine {
	// 设置运行模式
	gin.SetMode(cfg.Server.Mode)

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(logger))
	r.Use(gin.Recovery())
	r.Use(CORSMiddleware(cfg.Server.CORSOrigins))

	// 存储与服务
	users := repository.NewUserStore(deps.DB)
	categoryStore := repository.NewCategoryStore(deps.DB)
	transactions := repository.NewTransactionStore(deps.DB)
	resets := repository.NewPasswordResetStore(deps.DB)
	advice := repository.NewAdviceStore(deps.DB)

	ledger := service.NewLedger(
		transactions,
		categoryStore,
		service.NewNamedCategoryResolver(categoryStore, cfg.Ledger.DefaultCategories),
		deps.Publisher,
	)
	categories := service.NewCategories(categoryStore, transactions)
	advisor := service.NewAdvisor(cfg.AI, transactions, advice)

	// 认证相关路由（无需登录）
	authHandler := api.NewAuthHandler(cfg, users)
	resetHandler := api.NewPasswordResetHandler(cfg, users, resets, deps.Mailer)
	authLimit := middleware.LoginRateLimit(
		cfg.RateLimit.LoginAttempts,
		time.Duration(cfg.RateLimit.LoginWindowSeconds)*time.Second,
	)
	auth := r.Group("/auth")
	{
		auth.POST("/register", authLimit, authHandler.Register)
		auth.POST("/login", authLimit, authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/check-email", authHandler.CheckEmail)
		auth.POST("/forgot-password", authLimit, resetHandler.ForgotPassword)
		auth.POST("/reset-password", authLimit, resetHandler.ResetPassword)
		auth.GET("/profile", middleware.JWTAuth(), authHandler.Profile)
	}

	// 交易
	transactionHandler := api.NewTransactionHandler(ledger)
	exportHandler := api.NewExportHandler(ledger)
	tx := r.Group("/transactions")
	tx.Use(middleware.JWTAuth())
	{
		tx.POST("/add", transactionHandler.Add)
		tx.PUT("/edit/:id", transactionHandler.Edit)
		tx.DELETE("/delete/:id", transactionHandler.Delete)
		tx.GET("/list", transactionHandler.List)
		tx.GET("/export/csv", exportHandler.ExportCSV)
		tx.GET("/export/excel", exportHandler.ExportExcel)
	}

	// 用户
	userHandler := api.NewUserHandler(users, categoryStore)
	user := r.Group("/user")
	user.Use(middleware.JWTAuth())
	{
		user.GET("/categories", userHandler.Categories)
		user.GET("/user-details", userHandler.Details)
		user.GET("/by-email/:email", userHandler.ByEmail)
		user.POST("/change-password", userHandler.ChangePassword)
	}

	// 后台管理，角色以数据库为准
	adminHandler := api.NewAdminHandler(users)
	categoryHandler := api.NewCategoryHandler(categories)
	admin := r.Group("/admin")
	admin.Use(middleware.JWTAuth(), middleware.AdminRequired(users))
	{
		admin.GET("/user-list", adminHandler.UserList)
		admin.POST("/promote/:user_id", adminHandler.Promote)
		admin.GET("/list", adminHandler.ListAdmins)

		admin.GET("/categories", categoryHandler.List)
		admin.POST("/categories/add", categoryHandler.Create)
		admin.PUT("/categories/update/:id", categoryHandler.Update)
		admin.DELETE("/categories/delete/:id", categoryHandler.Delete)
	}

	// 理财建议
	adviceHandler := api.NewAdviceHandler(advisor)
	ai := r.Group("/ai")
	ai.Use(middleware.JWTAuth())
	{
		ai.GET("/advice", adviceHandler.Advice)
		ai.GET("/advice/history", adviceHandler.History)
	}

	// 实时推送，EventSource 无法设置请求头，允许 ?token=
	if deps.Hub != nil {
		events := api.NewEventsHandler(deps.Hub, time.Duration(cfg.Notify.KeepaliveSeconds)*time.Second)
		r.GET("/events", middleware.JWTAuthWithQuery(), events.Stream)
	}

	// Swagger 文档
	if !config.IsRelease() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	return r
}

// CORSMiddleware CORS 跨域中间件，未配置来源时允许任意来源（不携带凭证）
func CORSMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Content-Length", "Accept", "Authorization", "Cache-Control", "X-Requested-With", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Disposition", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}
