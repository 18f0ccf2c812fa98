package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User 用户模型
type User struct {
	Id        string    `json:"id" gorm:"primaryKey;size:36"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// 基本信息
	FullName  string  `json:"fullName" gorm:"not null"`
	Firstname *string `json:"firstname"`
	Lastname  *string `json:"lastname"`
	Username  string  `json:"username" gorm:"uniqueIndex;not null"`
	Email     string  `json:"email" gorm:"uniqueIndex;not null"`
	Password  string  `json:"-" gorm:"not null"`
	UserType  string  `json:"userType" gorm:"default:'user'"`

	// 验证状态
	IsVerified              bool       `json:"isVerified" gorm:"default:false"`
	VerificationCode        *string    `json:"-"`
	VerificationCodeExpires *time.Time `json:"-"`
	ResetPasswordToken      *string    `json:"-"`
	ResetPasswordExpires    *time.Time `json:"-"`

	ProfilePhotoUrl *string    `json:"profilePhotoUrl"`
	LastActive      *time.Time `json:"lastActive"`

	// 关联
	Biodata *Biodata `json:"biodata,omitempty" gorm:"foreignKey:UserId"`
}

// TableName 自定义表名
func (User) TableName() string {
	return "user"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Id == "" {
		u.Id = uuid.NewString()
	}
	return nil
}
