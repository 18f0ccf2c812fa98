package main

import (
	"github.com/dootling/dcs/internal/config"
	"github.com/dootling/dcs/internal/database"
	"github.com/dootling/dcs/internal/handler"
	"github.com/dootling/dcs/internal/logger"
	"github.com/dootling/dcs/internal/logic"
	"github.com/dootling/dcs/internal/mailer"
	"github.com/dootling/dcs/internal/oauth"
	"github.com/dootling/dcs/internal/router"
	"github.com/dootling/dcs/internal/task"
	"github.com/dootling/dcs/internal/uploader"
	"github.com/gin-gonic/gin"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化日志
	setupLogger(cfg.Log)

	// 初始化数据库
	db, err := database.Init(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Error("Failed to close database: %v", err)
		}
	}()

	// 外部服务客户端
	smtpMailer := mailer.NewSMTPMailer(cfg.Mail)
	githubClient := oauth.NewGitHubClient(cfg.GitHub.ClientID, cfg.GitHub.ClientSecret, cfg.GitHub.RedirectURI)
	fileUploader := uploader.NewCloudinaryUploader(cfg.Cloudinary.CloudName, cfg.Cloudinary.UploadPreset)

	// 业务逻辑层
	authLogic := logic.NewAuthLogic(db, smtpMailer, cfg.JWT)
	userLogic := logic.NewUserLogic(db)
	profileLogic := logic.NewProfileLogic(db)
	followLogic := logic.NewFollowLogic(db)
	connectionLogic := logic.NewConnectionLogic(db, githubClient)
	homeLogic := logic.NewHomeLogic(db)
	projectLogic := logic.NewProjectLogic(db)
	milestoneLogic := logic.NewMilestoneLogic(db)
	taskLogic := logic.NewTaskLogic(db)

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化路由
	engine := router.Setup(router.Handlers{
		Auth:       handler.NewAuthHandler(authLogic),
		User:       handler.NewUserHandler(userLogic),
		Profile:    handler.NewProfileHandler(profileLogic, fileUploader),
		Follow:     handler.NewFollowHandler(followLogic),
		Connection: handler.NewConnectionHandler(connectionLogic, githubClient),
		Home:       handler.NewHomeHandler(homeLogic),
		Project:    handler.NewProjectHandler(projectLogic, fileUploader),
		Milestone:  handler.NewMilestoneHandler(milestoneLogic, fileUploader),
		Task:       handler.NewTaskHandler(taskLogic, fileUploader),
	}, cfg.JWT.Secret)

	// 启动定时任务
	manager := task.Start(db, cfg)
	defer manager.Stop()

	// 启动服务器
	logger.Info("Server starting on port %s", cfg.Server.Port)
	if err := engine.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}

// setupLogger 按配置初始化默认日志器
func setupLogger(cfg config.LogConfig) {
	level := logger.ParseLogLevel(cfg.Level)

	var log *logger.Logger
	var err error
	if cfg.Output == "file" {
		log, err = logger.NewWithFileRotation(level, cfg.File)
	} else {
		log, err = logger.New(level)
	}
	if err != nil {
		logger.Fatal("Failed to initialize logger: %v", err)
	}

	logger.SetDefaultLogger(log)
}
