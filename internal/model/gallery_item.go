package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GalleryItem 附件记录，仅随所属里程碑/任务创建
type GalleryItem struct {
	Id        string    `json:"id" gorm:"primaryKey;size:36"`
	CreatedAt time.Time `json:"createdAt"`

	Url              string  `json:"url" gorm:"not null"`
	FileType         string  `json:"fileType" gorm:"not null"`
	ProjectId        string  `json:"projectId" gorm:"not null;index"`
	UploadedByUserId string  `json:"uploadedByUserId" gorm:"not null"`
	MilestoneId      *string `json:"milestoneId" gorm:"index"`
	TaskId           *string `json:"taskId" gorm:"index"`
}

// TableName 自定义表名
func (GalleryItem) TableName() string {
	return "gallery_item"
}

func (g *GalleryItem) BeforeCreate(tx *gorm.DB) error {
	if g.Id == "" {
		g.Id = uuid.NewString()
	}
	return nil
}
