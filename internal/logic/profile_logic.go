package logic

import (
	"errors"
	"fmt"
	"time"

	"github.com/dootling/dcs/internal/apperr"
	"github.com/dootling/dcs/internal/model"
	"gorm.io/gorm"
)

// ProfileLogic 个人资料业务逻辑
type ProfileLogic struct {
	db *gorm.DB
}

// NewProfileLogic 创建个人资料业务逻辑
func NewProfileLogic(db *gorm.DB) *ProfileLogic {
	return &ProfileLogic{db: db}
}

// BiodataUpdate 资料可更新字段，nil 表示保持不变
type BiodataUpdate struct {
	DateOfBirth *time.Time
	Age         *int
	Country     *string
	State       *string
	City        *string
	Pronouns    *string
	Phone       *string
	Role        *string
	Industry    *string
	Tags        *string
	Headline    *string
	Languages   *string
}

// fields 只收集请求中出现的列
func (u BiodataUpdate) fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if u.DateOfBirth != nil {
		fields["date_of_birth"] = *u.DateOfBirth
	}
	if u.Age != nil {
		fields["age"] = *u.Age
	}
	if u.Country != nil {
		fields["country"] = *u.Country
	}
	if u.State != nil {
		fields["state"] = *u.State
	}
	if u.City != nil {
		fields["city"] = *u.City
	}
	if u.Pronouns != nil {
		fields["pronouns"] = *u.Pronouns
	}
	if u.Phone != nil {
		fields["phone"] = *u.Phone
	}
	if u.Role != nil {
		fields["role"] = *u.Role
	}
	if u.Industry != nil {
		fields["industry"] = *u.Industry
	}
	if u.Tags != nil {
		fields["tags"] = *u.Tags
	}
	if u.Headline != nil {
		fields["headline"] = *u.Headline
	}
	if u.Languages != nil {
		fields["languages"] = *u.Languages
	}
	return fields
}

// FetchBiodata 获取用户资料，历史账号缺失时惰性补建
func (p *ProfileLogic) FetchBiodata(userId string) (*model.Biodata, error) {
	var biodata model.Biodata
	err := p.db.First(&biodata, "user_id = ?", userId).Error
	if err == nil {
		return &biodata, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Unknown("could not fetch biodata details", err)
	}

	var user model.User
	if err := p.db.First(&user, "id = ?", userId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Unknown("could not fetch biodata details", err)
	}
	if err := p.ensureBiodata(&user); err != nil {
		return nil, apperr.Unknown("could not fetch biodata details", err)
	}
	return user.Biodata, nil
}

// UpdateBiodata 更新资料，不存在则创建
func (p *ProfileLogic) UpdateBiodata(userId string, update BiodataUpdate) (*model.Biodata, error) {
	fields := update.fields()
	if len(fields) == 0 {
		return nil, apperr.Validation("no fields provided for update")
	}

	var biodata model.Biodata
	err := p.db.First(&biodata, "user_id = ?", userId).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		biodata = model.Biodata{UserId: userId, DateOfBirth: time.Now()}
		if err := p.db.Create(&biodata).Error; err != nil {
			return nil, apperr.Unknown("could not update biodata details", err)
		}
	} else if err != nil {
		return nil, apperr.Unknown("could not update biodata details", err)
	}

	if err := p.db.Model(&biodata).Updates(fields).Error; err != nil {
		return nil, apperr.Unknown("could not update biodata details", err)
	}

	if err := p.db.First(&biodata, "user_id = ?", userId).Error; err != nil {
		return nil, apperr.Unknown("could not update biodata details", err)
	}
	return &biodata, nil
}

// UpdateProfilePhoto 设置头像地址
func (p *ProfileLogic) UpdateProfilePhoto(userId, url string) (*model.User, error) {
	res := p.db.Model(&model.User{}).Where("id = ?", userId).Update("profile_photo_url", url)
	if res.Error != nil {
		return nil, apperr.Unknown("could not update profile photo", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("user not found")
	}

	var user model.User
	if err := p.db.First(&user, "id = ?", userId).Error; err != nil {
		return nil, apperr.Unknown("could not update profile photo", err)
	}
	return &user, nil
}

// RemoveProfilePhoto 移除头像
func (p *ProfileLogic) RemoveProfilePhoto(userId string) error {
	res := p.db.Model(&model.User{}).Where("id = ?", userId).Update("profile_photo_url", nil)
	if res.Error != nil {
		return apperr.Unknown("could not remove profile photo", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

// ensureBiodata 不存在资料时惰性创建
func (p *ProfileLogic) ensureBiodata(user *model.User) error {
	if user.Biodata != nil {
		return nil
	}
	headline := fmt.Sprintf("A new member, %s, has joined!", user.FullName)
	biodata := model.Biodata{
		UserId:      user.Id,
		DateOfBirth: time.Now(),
		Headline:    &headline,
	}
	if err := p.db.Create(&biodata).Error; err != nil {
		return err
	}
	user.Biodata = &biodata
	return nil
}
