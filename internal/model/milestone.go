package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Milestone 项目里程碑
type Milestone struct {
	Id        string    `json:"id" gorm:"primaryKey;size:36"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	ProjectId         string     `json:"projectId" gorm:"not null;index"`
	Title             string     `json:"title" gorm:"not null"`
	ReleasePercentage float64    `json:"releasePercentage" gorm:"not null"`
	DueDate           time.Time  `json:"dueDate" gorm:"not null"`
	ReleaseDate       *time.Time `json:"releaseDate"`
	Description       string     `json:"description" gorm:"type:text"`

	// 关联
	Tasks        []Task        `json:"tasks,omitempty" gorm:"foreignKey:MilestoneId"`
	GalleryItems []GalleryItem `json:"galleryItems,omitempty" gorm:"foreignKey:MilestoneId"`
}

// TableName 自定义表名
func (Milestone) TableName() string {
	return "milestone"
}

func (m *Milestone) BeforeCreate(tx *gorm.DB) error {
	if m.Id == "" {
		m.Id = uuid.NewString()
	}
	return nil
}
