package logic

import (
	"errors"

	"github.com/dootling/dcs/internal/apperr"
	"github.com/dootling/dcs/internal/model"
	"gorm.io/gorm"
)

// UserLogic 用户查询业务逻辑
type UserLogic struct {
	db *gorm.DB
}

// NewUserLogic 创建用户查询业务逻辑
func NewUserLogic(db *gorm.DB) *UserLogic {
	return &UserLogic{db: db}
}

// GetById 按 ID 获取用户及资料
func (u *UserLogic) GetById(userId string) (*model.User, error) {
	var user model.User
	if err := u.db.Preload("Biodata").First(&user, "id = ?", userId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Unknown("failed to fetch user", err)
	}
	return &user, nil
}

// GetByUsername 按用户名获取公开主页信息
func (u *UserLogic) GetByUsername(username string) (*model.User, error) {
	var user model.User
	if err := u.db.Preload("Biodata").First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Unknown("failed to fetch user", err)
	}
	return &user, nil
}
