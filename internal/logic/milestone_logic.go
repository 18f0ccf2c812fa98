package logic

import (
	"errors"

	"github.com/dootling/dcs/internal/apperr"
	"github.com/dootling/dcs/internal/model"
	"github.com/dootling/dcs/internal/mutation"
	"gorm.io/gorm"
)

// MilestoneLogic 里程碑业务逻辑
type MilestoneLogic struct {
	db *gorm.DB
}

// NewMilestoneLogic 创建里程碑业务逻辑
func NewMilestoneLogic(db *gorm.DB) *MilestoneLogic {
	return &MilestoneLogic{db: db}
}

// Manage 对项目的里程碑关系应用单个变更项，整组指令在一个事务内生效
func (m *MilestoneLogic) Manage(projectId, userId string, items []mutation.MilestoneItem) (*model.Project, error) {
	payload, err := mutation.BuildMilestonePayload(items, projectId, userId)
	if err != nil {
		return nil, err
	}
	if payload.Empty() {
		return nil, apperr.Validation("no fields provided for update")
	}

	// 检查项目是否存在
	var count int64
	if err := m.db.Model(&model.Project{}).Where("id = ?", projectId).Count(&count).Error; err != nil {
		return nil, apperr.Unknown("failed to manage project milestones", err)
	}
	if count == 0 {
		return nil, apperr.NotFound("project not found")
	}

	err = m.db.Transaction(func(tx *gorm.DB) error {
		for i := range payload.Creates {
			milestone := payload.Creates[i]
			milestone.ProjectId = projectId
			if err := tx.Create(&milestone).Error; err != nil {
				return apperr.Unknown("failed to manage project milestones", err)
			}
		}

		for _, op := range payload.Updates {
			if err := m.applyUpdate(tx, projectId, op); err != nil {
				return err
			}
		}

		for _, id := range payload.Deletes {
			if err := m.applyDelete(tx, projectId, id); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return m.Fetch(projectId)
}

// applyUpdate 更新单条里程碑，只改请求中出现的字段
func (m *MilestoneLogic) applyUpdate(tx *gorm.DB, projectId string, op mutation.UpdateOp) error {
	if len(op.Fields) > 0 {
		res := tx.Model(&model.Milestone{}).
			Where("id = ? AND project_id = ?", op.Id, projectId).
			Updates(op.Fields)
		if res.Error != nil {
			return apperr.Unknown("failed to manage project milestones", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.Concurrency("related record not found or concurrent modification")
		}
	} else {
		// 空字段集按无操作处理，但目标必须仍然存在
		var count int64
		if err := tx.Model(&model.Milestone{}).
			Where("id = ? AND project_id = ?", op.Id, projectId).
			Count(&count).Error; err != nil {
			return apperr.Unknown("failed to manage project milestones", err)
		}
		if count == 0 {
			return apperr.Concurrency("related record not found or concurrent modification")
		}
	}

	for i := range op.GalleryItems {
		gi := op.GalleryItems[i]
		milestoneId := op.Id
		gi.MilestoneId = &milestoneId
		if err := tx.Create(&gi).Error; err != nil {
			return apperr.Unknown("failed to attach gallery items", err)
		}
	}
	return nil
}

// applyDelete 硬删除里程碑及其任务和附件
func (m *MilestoneLogic) applyDelete(tx *gorm.DB, projectId, milestoneId string) error {
	var taskIds []string
	if err := tx.Model(&model.Task{}).Where("milestone_id = ?", milestoneId).
		Pluck("id", &taskIds).Error; err != nil {
		return apperr.Unknown("failed to manage project milestones", err)
	}
	if len(taskIds) > 0 {
		if err := tx.Where("task_id IN ?", taskIds).Delete(&model.GalleryItem{}).Error; err != nil {
			return apperr.Unknown("failed to manage project milestones", err)
		}
		if err := tx.Where("milestone_id = ?", milestoneId).Delete(&model.Task{}).Error; err != nil {
			return apperr.Unknown("failed to manage project milestones", err)
		}
	}
	if err := tx.Where("milestone_id = ?", milestoneId).Delete(&model.GalleryItem{}).Error; err != nil {
		return apperr.Unknown("failed to manage project milestones", err)
	}

	res := tx.Where("id = ? AND project_id = ?", milestoneId, projectId).Delete(&model.Milestone{})
	if res.Error != nil {
		return apperr.Unknown("failed to manage project milestones", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.Concurrency("related record not found or concurrent modification")
	}
	return nil
}

// Fetch 获取项目及其全部里程碑，按截止日期升序
func (m *MilestoneLogic) Fetch(projectId string) (*model.Project, error) {
	var project model.Project
	err := m.db.
		Preload("Milestones", func(db *gorm.DB) *gorm.DB {
			return db.Order("due_date ASC")
		}).
		Preload("Milestones.GalleryItems").
		First(&project, "id = ?", projectId).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("project not found")
		}
		return nil, apperr.Unknown("failed to fetch project milestones", err)
	}

	return &project, nil
}
