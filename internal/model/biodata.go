package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Biodata 用户资料
type Biodata struct {
	Id        string    `json:"id" gorm:"primaryKey;size:36"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	UserId      string    `json:"userId" gorm:"uniqueIndex;not null"`
	DateOfBirth time.Time `json:"dateOfBirth"`
	Age         *int      `json:"age"`
	Country     *string   `json:"country"`
	State       *string   `json:"state"`
	City        *string   `json:"city"`
	Pronouns    *string   `json:"pronouns"`
	Phone       *string   `json:"phone"`
	Role        *string   `json:"role"`
	Industry    *string   `json:"industry"`
	Tags        *string   `json:"tags"`
	Headline    *string   `json:"headline"`
	Languages   *string   `json:"languages"`
}

// TableName 自定义表名
func (Biodata) TableName() string {
	return "biodata"
}

func (b *Biodata) BeforeCreate(tx *gorm.DB) error {
	if b.Id == "" {
		b.Id = uuid.NewString()
	}
	return nil
}
