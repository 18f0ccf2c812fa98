package logic

import (
	"errors"

	"github.com/dootling/dcs/internal/apperr"
	"github.com/dootling/dcs/internal/model"
	"github.com/dootling/dcs/internal/mutation"
	"gorm.io/gorm"
)

// TaskLogic 任务业务逻辑
type TaskLogic struct {
	db *gorm.DB
}

// NewTaskLogic 创建任务业务逻辑
func NewTaskLogic(db *gorm.DB) *TaskLogic {
	return &TaskLogic{db: db}
}

// Manage 对里程碑的任务关系应用单个变更项
func (t *TaskLogic) Manage(projectId, milestoneId, userId string, items []mutation.TaskItem) (*model.Milestone, error) {
	payload, err := mutation.BuildTaskPayload(items, projectId, userId)
	if err != nil {
		return nil, err
	}
	if payload.Empty() {
		return nil, apperr.Validation("no fields provided for update")
	}

	// 里程碑必须存在且隶属于指定项目
	var milestone model.Milestone
	if err := t.db.Select("id", "project_id").First(&milestone, "id = ?", milestoneId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("milestone not found or does not belong to the project")
		}
		return nil, apperr.Unknown("failed to manage milestone tasks", err)
	}
	if milestone.ProjectId != projectId {
		return nil, apperr.NotFound("milestone not found or does not belong to the project")
	}

	err = t.db.Transaction(func(tx *gorm.DB) error {
		for i := range payload.Creates {
			task := payload.Creates[i]
			task.MilestoneId = milestoneId
			if err := tx.Create(&task).Error; err != nil {
				return apperr.Unknown("failed to manage milestone tasks", err)
			}
		}

		for _, op := range payload.Updates {
			if err := t.applyUpdate(tx, milestoneId, op); err != nil {
				return err
			}
		}

		for _, id := range payload.Deletes {
			if err := t.applyDelete(tx, milestoneId, id); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return t.Fetch(milestoneId)
}

// applyUpdate 更新单条任务，只改请求中出现的字段
func (t *TaskLogic) applyUpdate(tx *gorm.DB, milestoneId string, op mutation.UpdateOp) error {
	if len(op.Fields) > 0 {
		res := tx.Model(&model.Task{}).
			Where("id = ? AND milestone_id = ?", op.Id, milestoneId).
			Updates(op.Fields)
		if res.Error != nil {
			return apperr.Unknown("failed to manage milestone tasks", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.Concurrency("related record not found or concurrent modification")
		}
	} else {
		// 空字段集按无操作处理，但目标必须仍然存在
		var count int64
		if err := tx.Model(&model.Task{}).
			Where("id = ? AND milestone_id = ?", op.Id, milestoneId).
			Count(&count).Error; err != nil {
			return apperr.Unknown("failed to manage milestone tasks", err)
		}
		if count == 0 {
			return apperr.Concurrency("related record not found or concurrent modification")
		}
	}

	for i := range op.GalleryItems {
		gi := op.GalleryItems[i]
		taskId := op.Id
		gi.TaskId = &taskId
		if err := tx.Create(&gi).Error; err != nil {
			return apperr.Unknown("failed to attach gallery items", err)
		}
	}
	return nil
}

// applyDelete 硬删除任务及其附件
func (t *TaskLogic) applyDelete(tx *gorm.DB, milestoneId, taskId string) error {
	if err := tx.Where("task_id = ?", taskId).Delete(&model.GalleryItem{}).Error; err != nil {
		return apperr.Unknown("failed to manage milestone tasks", err)
	}

	res := tx.Where("id = ? AND milestone_id = ?", taskId, milestoneId).Delete(&model.Task{})
	if res.Error != nil {
		return apperr.Unknown("failed to manage milestone tasks", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.Concurrency("related record not found or concurrent modification")
	}
	return nil
}

// Delete 删除里程碑下的单个任务
func (t *TaskLogic) Delete(projectId, milestoneId, taskId, userId string) (*model.Milestone, error) {
	item := mutation.TaskItem{Action: mutation.ActionDelete, Id: taskId}
	return t.Manage(projectId, milestoneId, userId, []mutation.TaskItem{item})
}

// Fetch 获取里程碑及其全部任务，按截止日期升序
func (t *TaskLogic) Fetch(milestoneId string) (*model.Milestone, error) {
	var milestone model.Milestone
	err := t.db.
		Preload("Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("due_date ASC")
		}).
		Preload("Tasks.GalleryItems").
		Preload("Tasks.Contributor.User").
		First(&milestone, "id = ?", milestoneId).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("milestone not found")
		}
		return nil, apperr.Unknown("failed to fetch milestone tasks", err)
	}

	return &milestone, nil
}
