package task

import (
	"time"

	"github.com/dootling/dcs/internal/config"
	"github.com/dootling/dcs/internal/logger"
	"github.com/dootling/dcs/internal/model"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// ProjectStatusJob 项目状态流转任务
type ProjectStatusJob struct {
	db     *gorm.DB
	config *config.Config
}

// NewProjectStatusJob 创建项目状态流转任务
func NewProjectStatusJob(db *gorm.DB, cfg *config.Config) *ProjectStatusJob {
	return &ProjectStatusJob{db: db, config: cfg}
}

// GetName 获取任务名称
func (j *ProjectStatusJob) GetName() string {
	return "project_status_updater"
}

// GetSchedule 获取调度配置
func (j *ProjectStatusJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Task.Interval) * time.Second)
}

// Execute 推进已到开始日期的托管项目进入进行中状态
func (j *ProjectStatusJob) Execute() {
	now := time.Now()

	res := j.db.Model(&model.Project{}).
		Where("status = ? AND is_escrowed = ? AND is_deleted = ? AND start_date <= ?",
			model.ProjectStatusPending, true, false, now).
		Update("status", model.ProjectStatusActive)
	if res.Error != nil {
		logger.Error("Failed to activate pending projects: %v", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		logger.Info("Activated %d projects that reached their start date", res.RowsAffected)
	}
}
