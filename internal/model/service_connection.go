package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ServiceConnection 第三方服务连接
type ServiceConnection struct {
	Id        string    `json:"id" gorm:"primaryKey;size:36"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	UserId             string     `json:"userId" gorm:"not null;index"`
	ServiceType        string     `json:"serviceType" gorm:"not null"`
	ServiceAccountId   string     `json:"serviceAccountId" gorm:"not null"`
	AccessToken        string     `json:"-" gorm:"not null"`
	RefreshToken       *string    `json:"-"`
	ConnectionStatus   string     `json:"connectionStatus" gorm:"default:'ACTIVE'"`
	ConnectionMetadata string     `json:"connectionMetadata" gorm:"type:text"`
	LastSyncAt         *time.Time `json:"lastSyncAt"`
}

// ServiceType 服务类型
const (
	ServiceTypeGitHub     = "GITHUB"
	ServiceTypeJira       = "JIRA"
	ServiceTypeGmail      = "GMAIL"
	ServiceTypeGoogleMeet = "GOOGLE_MEET"
)

// ConnectionStatus 连接状态
const (
	ConnectionStatusActive  = "ACTIVE"
	ConnectionStatusRevoked = "REVOKED"
)

// TableName 自定义表名
func (ServiceConnection) TableName() string {
	return "service_connection"
}

func (s *ServiceConnection) BeforeCreate(tx *gorm.DB) error {
	if s.Id == "" {
		s.Id = uuid.NewString()
	}
	return nil
}
