package logic

import (
	"errors"

	"github.com/dootling/dcs/internal/apperr"
	"github.com/dootling/dcs/internal/model"
	"gorm.io/gorm"
)

// FollowLogic 关注关系业务逻辑
type FollowLogic struct {
	db *gorm.DB
}

// NewFollowLogic 创建关注关系业务逻辑
func NewFollowLogic(db *gorm.DB) *FollowLogic {
	return &FollowLogic{db: db}
}

// Follow 关注用户。重复关注返回既有关系，不视为错误。
func (f *FollowLogic) Follow(followerId, followingId string) (*model.Follow, error) {
	if followerId == followingId {
		return nil, apperr.Validation("a user cannot follow themselves")
	}

	var target model.User
	if err := f.db.Select("id").First(&target, "id = ?", followingId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Unknown("failed to follow user", err)
	}

	var existing model.Follow
	err := f.db.Where("follower_id = ? AND following_id = ?", followerId, followingId).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Unknown("failed to follow user", err)
	}

	follow := model.Follow{FollowerId: followerId, FollowingId: followingId}
	if err := f.db.Create(&follow).Error; err != nil {
		return nil, apperr.Unknown("failed to follow user", err)
	}

	return &follow, nil
}

// Unfollow 取消关注，硬删除关系记录
func (f *FollowLogic) Unfollow(followerId, followingId string) error {
	res := f.db.Where("follower_id = ? AND following_id = ?", followerId, followingId).
		Delete(&model.Follow{})
	if res.Error != nil {
		return apperr.Unknown("failed to unfollow user", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("follow relationship not found")
	}
	return nil
}

// ListFollowers 获取关注者列表
func (f *FollowLogic) ListFollowers(userId string, limit, skip int) ([]model.Follow, error) {
	var followers []model.Follow
	query := f.db.Where("following_id = ?", userId).
		Preload("Follower", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username", "full_name", "profile_photo_url")
		})
	if limit > 0 {
		query = query.Limit(limit)
	}
	if skip > 0 {
		query = query.Offset(skip)
	}

	if err := query.Find(&followers).Error; err != nil {
		return nil, apperr.Unknown("failed to list followers", err)
	}
	return followers, nil
}

// ListFollowing 获取关注中列表
func (f *FollowLogic) ListFollowing(userId string, limit, skip int) ([]model.Follow, error) {
	var following []model.Follow
	query := f.db.Where("follower_id = ?", userId).
		Preload("Following", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username", "full_name", "profile_photo_url")
		})
	if limit > 0 {
		query = query.Limit(limit)
	}
	if skip > 0 {
		query = query.Offset(skip)
	}

	if err := query.Find(&following).Error; err != nil {
		return nil, apperr.Unknown("failed to list following", err)
	}
	return following, nil
}

// FindUsers 搜索可关注的用户，排除自己和已关注者
func (f *FollowLogic) FindUsers(currentUserId, search string, limit, skip int) ([]model.User, error) {
	if limit <= 0 {
		limit = 10
	}

	query := f.db.Model(&model.User{}).
		Select("id", "username", "full_name", "profile_photo_url", "last_active").
		Where("id <> ?", currentUserId).
		Where("id NOT IN (?)", f.db.Model(&model.Follow{}).
			Select("following_id").
			Where("follower_id = ?", currentUserId))

	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("username LIKE ? OR full_name LIKE ?", pattern, pattern)
	}

	var users []model.User
	if err := query.Limit(limit).Offset(skip).Find(&users).Error; err != nil {
		return nil, apperr.Unknown("failed to retrieve users list", err)
	}
	return users, nil
}
