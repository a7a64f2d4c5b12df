package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/SlpAus/online-voting-backend/api"
	"github.com/SlpAus/online-voting-backend/internal/platform/config"
	"github.com/SlpAus/online-voting-backend/internal/platform/database"
	"github.com/SlpAus/online-voting-backend/internal/platform/shutdown"
	"github.com/SlpAus/online-voting-backend/internal/platform/startup"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// 1. 加载.env文件（如果存在），让本地开发可以不设系统环境变量
	if err := godotenv.Load(); err != nil {
		fmt.Println("未找到.env文件，使用系统环境变量")
	}

	// 2. 加载配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("加载配置失败: %v", err))
	}
	if cfg.Auth.TokenSecret == "" {
		panic("配置缺少auth.tokenSecret，无法签发登录令牌")
	}

	// 3. 初始化数据库和Redis
	database.InitDB(cfg.Database.Sqlite)
	database.InitRedis(cfg.Database.Redis)

	// 4. 执行应用首次启动初始化流程
	if err := startup.InitializeApplication(); err != nil {
		panic(fmt.Sprintf("应用初始化失败，无法启动: %v", err))
	}

	// 5. 创建Gin引擎并配置CORS中间件
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.Cors.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 6. 注册API路由
	api.SetupRoutes(r)

	// 7. 启动服务器并等待停机信号
	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic("Failed to start server: " + err.Error())
		}
	}()

	fmt.Printf("服务器已准备就绪，开始监听 %s\n", cfg.Server.Address)
	shutdown.ListenForSignalsAndShutdown(server)
}
