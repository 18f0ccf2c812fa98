package task

import (
	"time"

	"github.com/dootling/dcs/internal/config"
	"github.com/dootling/dcs/internal/logger"
	"github.com/dootling/dcs/internal/model"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// CodeCleanupJob 过期验证码清理任务
type CodeCleanupJob struct {
	db     *gorm.DB
	config *config.Config
}

// NewCodeCleanupJob 创建验证码清理任务
func NewCodeCleanupJob(db *gorm.DB, cfg *config.Config) *CodeCleanupJob {
	return &CodeCleanupJob{db: db, config: cfg}
}

// GetName 获取任务名称
func (j *CodeCleanupJob) GetName() string {
	return "expired_code_cleanup"
}

// GetSchedule 获取调度配置
func (j *CodeCleanupJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Task.Interval) * time.Second)
}

// Execute 清除已过期的验证码与密码重置码
func (j *CodeCleanupJob) Execute() {
	now := time.Now()

	res := j.db.Model(&model.User{}).
		Where("verification_code_expires IS NOT NULL AND verification_code_expires < ?", now).
		Updates(map[string]interface{}{
			"verification_code":         nil,
			"verification_code_expires": nil,
		})
	if res.Error != nil {
		logger.Error("Failed to clean up expired verification codes: %v", res.Error)
	} else if res.RowsAffected > 0 {
		logger.Info("Cleaned up %d expired verification codes", res.RowsAffected)
	}

	res = j.db.Model(&model.User{}).
		Where("reset_password_expires IS NOT NULL AND reset_password_expires < ?", now).
		Updates(map[string]interface{}{
			"reset_password_token":   nil,
			"reset_password_expires": nil,
		})
	if res.Error != nil {
		logger.Error("Failed to clean up expired password reset codes: %v", res.Error)
	} else if res.RowsAffected > 0 {
		logger.Info("Cleaned up %d expired password reset codes", res.RowsAffected)
	}
}
