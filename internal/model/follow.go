package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Follow 关注关系
type Follow struct {
	Id        string    `json:"id" gorm:"primaryKey;size:36"`
	CreatedAt time.Time `json:"createdAt"`

	FollowerId  string `json:"followerId" gorm:"not null;uniqueIndex:idx_follow_pair"`
	FollowingId string `json:"followingId" gorm:"not null;uniqueIndex:idx_follow_pair"`

	// 关联
	Follower  *User `json:"follower,omitempty" gorm:"foreignKey:FollowerId"`
	Following *User `json:"following,omitempty" gorm:"foreignKey:FollowingId"`
}

// TableName 自定义表名
func (Follow) TableName() string {
	return "follow"
}

func (f *Follow) BeforeCreate(tx *gorm.DB) error {
	if f.Id == "" {
		f.Id = uuid.NewString()
	}
	return nil
}
