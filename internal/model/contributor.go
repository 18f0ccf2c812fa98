package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Contributor 项目成员（携带预算份额）
type Contributor struct {
	Id        string    `json:"id" gorm:"primaryKey;size:36"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	ProjectId         string   `json:"projectId" gorm:"not null;index"`
	UserId            string   `json:"userId" gorm:"not null;index"`
	Role              *string  `json:"role"`
	BudgetPercentage  float64  `json:"budgetPercentage" gorm:"default:0"`
	ReleasePercentage *float64 `json:"releasePercentage"`

	// 关联
	Project *Project `json:"project,omitempty" gorm:"foreignKey:ProjectId"`
	User    *User    `json:"user,omitempty" gorm:"foreignKey:UserId"`
}

// TableName 自定义表名
func (Contributor) TableName() string {
	return "contributor"
}

func (c *Contributor) BeforeCreate(tx *gorm.DB) error {
	if c.Id == "" {
		c.Id = uuid.NewString()
	}
	return nil
}
