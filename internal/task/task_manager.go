package task

import (
	"github.com/dootling/dcs/internal/config"
	"github.com/dootling/dcs/internal/logger"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// TaskManager 后台任务管理器
type TaskManager struct {
	scheduler gocron.Scheduler
	db        *gorm.DB
	config    *config.Config
}

// NewTaskManager 创建后台任务管理器
func NewTaskManager(db *gorm.DB, cfg *config.Config) *TaskManager {
	s, err := gocron.NewScheduler()
	if err != nil {
		logger.Fatal("Failed to create scheduler: %v", err)
	}

	return &TaskManager{
		scheduler: s,
		db:        db,
		config:    cfg,
	}
}

// Start 启动后台任务管理器
func Start(db *gorm.DB, cfg *config.Config) *TaskManager {
	manager := NewTaskManager(db, cfg)

	// 注册所有任务
	manager.RegisterJobs()

	// 启动调度器
	manager.scheduler.Start()

	logger.Info("Task manager started successfully")
	return manager
}

// RegisterJobs 注册所有任务
func (m *TaskManager) RegisterJobs() {
	m.registerJob(NewCodeCleanupJob(m.db, m.config))
	m.registerJob(NewProjectStatusJob(m.db, m.config))
}

// Job 后台任务
type Job interface {
	GetName() string
	GetSchedule() gocron.JobDefinition
	Execute()
}

// registerJob 注册单个任务
func (m *TaskManager) registerJob(job Job) {
	_, err := m.scheduler.NewJob(
		job.GetSchedule(),
		gocron.NewTask(job.Execute),
		gocron.WithName(job.GetName()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		logger.Error("Failed to register job %s: %v", job.GetName(), err)
	}
}

// Stop 停止后台任务管理器
func (m *TaskManager) Stop() {
	if err := m.scheduler.Shutdown(); err != nil {
		logger.Error("Failed to shutdown scheduler: %v", err)
	}
	logger.Info("Task manager stopped")
}
