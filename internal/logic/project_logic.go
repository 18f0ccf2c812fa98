package logic

import (
	"errors"
	"time"

	"github.com/dootling/dcs/internal/apperr"
	"github.com/dootling/dcs/internal/model"
	"github.com/dootling/dcs/internal/mutation"
	"gorm.io/gorm"
)

// ProjectLogic 项目业务逻辑
type ProjectLogic struct {
	db *gorm.DB
}

// NewProjectLogic 创建项目业务逻辑
func NewProjectLogic(db *gorm.DB) *ProjectLogic {
	return &ProjectLogic{db: db}
}

// CreateProjectInput 创建项目入参
type CreateProjectInput struct {
	OwnerId         string
	Title           string
	Description     string
	IsPublic        bool
	ContributorIds  []string
	TotalBudget     float64
	StartDate       time.Time
	DeliveryDate    time.Time
	ContractClauses string
	FundsRule       bool
	ProjectImageUrl *string
}

// ProjectUpdate 项目可更新字段，nil 表示保持不变
type ProjectUpdate struct {
	Title                     *string
	Description               *string
	IsPublic                  *bool
	TotalBudget               *float64
	StartDate                 *time.Time
	DeliveryDate              *time.Time
	ContractClauses           *string
	FundsRule                 *bool
	ReceiveEmailNotifications *bool
	IsDeleted                 *bool
}

// fields 只收集请求中出现的列
func (u ProjectUpdate) fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if u.Title != nil {
		fields["title"] = *u.Title
	}
	if u.Description != nil {
		fields["description"] = *u.Description
	}
	if u.IsPublic != nil {
		fields["is_public"] = *u.IsPublic
	}
	if u.TotalBudget != nil {
		fields["total_budget"] = *u.TotalBudget
	}
	if u.StartDate != nil {
		fields["start_date"] = *u.StartDate
	}
	if u.DeliveryDate != nil {
		fields["delivery_date"] = *u.DeliveryDate
	}
	if u.ContractClauses != nil {
		fields["contract_clauses"] = *u.ContractClauses
	}
	if u.FundsRule != nil {
		fields["funds_rule"] = *u.FundsRule
	}
	if u.ReceiveEmailNotifications != nil {
		fields["receive_email_notifications"] = *u.ReceiveEmailNotifications
	}
	if u.IsDeleted != nil {
		fields["is_deleted"] = *u.IsDeleted
	}
	return fields
}

// Create 创建项目，可同时挂载初始成员（所有者本人会被剔除）
func (p *ProjectLogic) Create(input CreateProjectInput) (*model.Project, error) {
	if input.Title == "" {
		return nil, apperr.Validation("project title is required")
	}
	if input.TotalBudget <= 0 {
		return nil, apperr.Validation("totalBudget must be greater than zero")
	}

	project := model.Project{
		OwnerId:         input.OwnerId,
		Title:           input.Title,
		Description:     input.Description,
		IsPublic:        input.IsPublic,
		Status:          model.ProjectStatusPending,
		TotalBudget:     input.TotalBudget,
		StartDate:       input.StartDate,
		DeliveryDate:    input.DeliveryDate,
		ContractClauses: input.ContractClauses,
		FundsRule:       input.FundsRule,
		ProjectImageUrl: input.ProjectImageUrl,
	}

	for _, userId := range input.ContributorIds {
		if userId == input.OwnerId {
			continue
		}
		project.Contributors = append(project.Contributors, model.Contributor{
			UserId:           userId,
			BudgetPercentage: 0,
		})
	}

	if err := p.db.Create(&project).Error; err != nil {
		return nil, apperr.Unknown("failed to create project", err)
	}

	return &project, nil
}

// ActivateEscrow 把项目置为托管状态。单向转换：
// 条件更新保证并发双写时只有一个成功。
func (p *ProjectLogic) ActivateEscrow(projectId string) (*model.Project, error) {
	now := time.Now()
	res := p.db.Model(&model.Project{}).
		Where("id = ? AND is_escrowed = ?", projectId, false).
		Updates(map[string]interface{}{"is_escrowed": true, "escrowed_at": now})
	if res.Error != nil {
		return nil, apperr.Unknown("failed to mark project as escrow", res.Error)
	}

	if res.RowsAffected == 0 {
		var count int64
		if err := p.db.Model(&model.Project{}).Where("id = ?", projectId).Count(&count).Error; err != nil {
			return nil, apperr.Unknown("failed to mark project as escrow", err)
		}
		if count == 0 {
			return nil, apperr.NotFound("project not found")
		}
		return nil, apperr.Validation("project is already marked as escrowed and cannot be updated again")
	}

	var project model.Project
	if err := p.db.First(&project, "id = ?", projectId).Error; err != nil {
		return nil, apperr.Unknown("failed to mark project as escrow", err)
	}
	return &project, nil
}

// ManageEscrow 更新托管项目字段并应用成员变更项，整体在一个事务内生效
func (p *ProjectLogic) ManageEscrow(projectId string, update ProjectUpdate, contributors []mutation.ContributorItem) (*model.Project, error) {
	fields := update.fields()

	var payload *mutation.ContributorPayload
	if len(contributors) > 0 {
		built, err := mutation.BuildContributorPayload(contributors, projectId)
		if err != nil {
			return nil, err
		}
		payload = built
	}

	if len(fields) == 0 && (payload == nil || payload.Empty()) {
		return nil, apperr.Validation("no fields provided for update")
	}

	// 检查项目是否存在
	var count int64
	if err := p.db.Model(&model.Project{}).Where("id = ?", projectId).Count(&count).Error; err != nil {
		return nil, apperr.Unknown("failed to update project", err)
	}
	if count == 0 {
		return nil, apperr.NotFound("project not found")
	}

	err := p.db.Transaction(func(tx *gorm.DB) error {
		if len(fields) > 0 {
			if err := tx.Model(&model.Project{}).Where("id = ?", projectId).
				Updates(fields).Error; err != nil {
				return apperr.Unknown("failed to update project", err)
			}
		}

		if payload == nil {
			return nil
		}

		for i := range payload.Creates {
			contributor := payload.Creates[i]
			contributor.ProjectId = projectId
			if err := tx.Create(&contributor).Error; err != nil {
				return apperr.Unknown("failed to update project contributors", err)
			}
		}

		for _, op := range payload.Updates {
			if len(op.Fields) == 0 {
				// 空字段集也要确认目标仍然存在
				var count int64
				if err := tx.Model(&model.Contributor{}).
					Where("id = ? AND project_id = ?", op.Id, projectId).
					Count(&count).Error; err != nil {
					return apperr.Unknown("failed to update project contributors", err)
				}
				if count == 0 {
					return apperr.Concurrency("related record not found or concurrent modification")
				}
				continue
			}
			res := tx.Model(&model.Contributor{}).
				Where("id = ? AND project_id = ?", op.Id, projectId).
				Updates(op.Fields)
			if res.Error != nil {
				return apperr.Unknown("failed to update project contributors", res.Error)
			}
			if res.RowsAffected == 0 {
				return apperr.Concurrency("related record not found or concurrent modification")
			}
		}

		for _, id := range payload.Deletes {
			res := tx.Where("id = ? AND project_id = ?", id, projectId).Delete(&model.Contributor{})
			if res.Error != nil {
				return apperr.Unknown("failed to update project contributors", res.Error)
			}
			if res.RowsAffected == 0 {
				return apperr.Concurrency("related record not found or concurrent modification")
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	var project model.Project
	if err := p.db.Preload("Contributors").First(&project, "id = ?", projectId).Error; err != nil {
		return nil, apperr.Unknown("failed to update project", err)
	}
	return &project, nil
}

// GetDetails 获取项目详情，含成员（带用户摘要）与预算审计记录
func (p *ProjectLogic) GetDetails(projectId string) (*model.Project, error) {
	var project model.Project
	err := p.db.
		Preload("Contributors.User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "email", "full_name", "profile_photo_url", "username")
		}).
		Preload("Contributors").
		Preload("Payments").
		First(&project, "id = ?", projectId).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("project not found")
		}
		return nil, apperr.Unknown("failed to fetch project details", err)
	}
	return &project, nil
}

// FetchContributors 获取项目全部成员，按加入时间升序
func (p *ProjectLogic) FetchContributors(projectId string) ([]model.Contributor, error) {
	var contributors []model.Contributor
	err := p.db.Where("project_id = ?", projectId).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username", "full_name", "profile_photo_url")
		}).
		Order("created_at ASC").
		Find(&contributors).Error
	if err != nil {
		return nil, apperr.Unknown("failed to fetch project contributors", err)
	}
	return contributors, nil
}

// FetchRecentContributors 获取项目最近加入的成员
func (p *ProjectLogic) FetchRecentContributors(projectId string, limit int) ([]model.Contributor, error) {
	if limit <= 0 {
		limit = 5
	}
	var contributors []model.Contributor
	err := p.db.Where("project_id = ?", projectId).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username", "full_name", "profile_photo_url")
		}).
		Order("created_at DESC").
		Limit(limit).
		Find(&contributors).Error
	if err != nil {
		return nil, apperr.Unknown("failed to fetch recently added contributors", err)
	}
	return contributors, nil
}

// ProjectWithContributorCount 项目列表项，附带成员数量
type ProjectWithContributorCount struct {
	model.Project
	ContributorCount int64 `json:"contributorCount"`
}

// FetchOwnedProjects 获取用户拥有的项目（未删除），按创建时间倒序
func (p *ProjectLogic) FetchOwnedProjects(userId string) ([]ProjectWithContributorCount, error) {
	var projects []ProjectWithContributorCount
	err := p.db.Model(&model.Project{}).
		Select("project.*, (SELECT COUNT(*) FROM contributor WHERE contributor.project_id = project.id) AS contributor_count").
		Where("owner_id = ? AND is_deleted = ?", userId, false).
		Order("created_at DESC").
		Find(&projects).Error
	if err != nil {
		return nil, apperr.Unknown("failed to fetch user-owned projects", err)
	}
	return projects, nil
}

// FetchContributingProjects 获取用户作为成员参与的项目
func (p *ProjectLogic) FetchContributingProjects(userId string) ([]model.Project, error) {
	var projects []model.Project
	err := p.db.
		Joins("JOIN contributor ON contributor.project_id = project.id").
		Where("contributor.user_id = ? AND project.is_deleted = ?", userId, false).
		Preload("Owner", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "full_name", "username")
		}).
		Find(&projects).Error
	if err != nil {
		return nil, apperr.Unknown("failed to fetch invited projects", err)
	}
	return projects, nil
}

// FetchGeneralContributors 获取所有者全部项目下的成员记录，按加入时间升序
func (p *ProjectLogic) FetchGeneralContributors(ownerId string) ([]model.Contributor, error) {
	var contributors []model.Contributor
	err := p.db.
		Joins("JOIN project ON project.id = contributor.project_id").
		Where("project.owner_id = ? AND project.is_deleted = ?", ownerId, false).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username", "full_name", "profile_photo_url", "last_active")
		}).
		Preload("User.Biodata").
		Preload("Project", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "title")
		}).
		Order("contributor.created_at ASC").
		Find(&contributors).Error
	if err != nil {
		return nil, apperr.Unknown("failed to fetch general contributor list", err)
	}
	return contributors, nil
}

// FetchRecentGeneralContributors 获取所有者全部项目下最近加入的成员
func (p *ProjectLogic) FetchRecentGeneralContributors(ownerId string, limit int) ([]model.Contributor, error) {
	if limit <= 0 {
		limit = 5
	}
	var contributors []model.Contributor
	err := p.db.
		Joins("JOIN project ON project.id = contributor.project_id").
		Where("project.owner_id = ? AND project.is_deleted = ?", ownerId, false).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username", "full_name", "profile_photo_url", "last_active")
		}).
		Preload("User.Biodata").
		Preload("Project", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "title")
		}).
		Order("contributor.created_at DESC").
		Limit(limit).
		Find(&contributors).Error
	if err != nil {
		return nil, apperr.Unknown("failed to fetch recently added general contributors", err)
	}
	return contributors, nil
}
