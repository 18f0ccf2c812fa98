package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task 里程碑任务
type Task struct {
	Id        string    `json:"id" gorm:"primaryKey;size:36"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	MilestoneId         string     `json:"milestoneId" gorm:"not null;index"`
	ContributorId       string     `json:"contributorId" gorm:"not null;index"`
	Title               string     `json:"title" gorm:"not null"`
	Priority            *string    `json:"priority"`
	DueDate             time.Time  `json:"dueDate" gorm:"not null"`
	Description         string     `json:"description" gorm:"type:text"`
	PercentageOfProject float64    `json:"percentageOfProject" gorm:"not null"`
	PercentageToRelease float64    `json:"percentageToRelease" gorm:"not null"`
	ReleaseDate         *time.Time `json:"releaseDate"`

	// 关联
	Contributor  *Contributor  `json:"contributor,omitempty" gorm:"foreignKey:ContributorId"`
	GalleryItems []GalleryItem `json:"galleryItems,omitempty" gorm:"foreignKey:TaskId"`
}

// TableName 自定义表名
func (Task) TableName() string {
	return "task"
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.Id == "" {
		t.Id = uuid.NewString()
	}
	return nil
}
