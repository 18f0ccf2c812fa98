package logic

import (
	"github.com/dootling/dcs/internal/apperr"
	"github.com/dootling/dcs/internal/model"
	"gorm.io/gorm"
)

// HomeLogic 首页公开信息流业务逻辑
type HomeLogic struct {
	db *gorm.DB
}

// NewHomeLogic 创建首页业务逻辑
func NewHomeLogic(db *gorm.DB) *HomeLogic {
	return &HomeLogic{db: db}
}

// FetchFeed 获取公开项目信息流。
// 只返回公开、未删除且未停用的项目，按创建时间倒序。
func (h *HomeLogic) FetchFeed(limit, skip int) ([]model.Project, error) {
	if limit <= 0 {
		limit = 10
	}

	var projects []model.Project
	err := h.db.
		Where("is_public = ?", true).
		Where("is_deleted = ?", false).
		Where("status <> ?", model.ProjectStatusInactive).
		Preload("Owner", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username", "full_name", "profile_photo_url")
		}).
		Order("created_at DESC").
		Limit(limit).
		Offset(skip).
		Find(&projects).Error
	if err != nil {
		return nil, apperr.Unknown("failed to fetch home feed", err)
	}
	return projects, nil
}
