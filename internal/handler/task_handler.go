package handler

import (
	"net/http"
	"time"

	"github.com/dootling/dcs/internal/apperr"
	"github.com/dootling/dcs/internal/logic"
	"github.com/dootling/dcs/internal/middleware"
	"github.com/dootling/dcs/internal/mutation"
	"github.com/dootling/dcs/internal/uploader"
	"github.com/gin-gonic/gin"
)

// TaskHandler 任务接口
type TaskHandler struct {
	tasks    *logic.TaskLogic
	uploader uploader.Uploader
}

// NewTaskHandler 创建任务接口
func NewTaskHandler(tasks *logic.TaskLogic, up uploader.Uploader) *TaskHandler {
	return &TaskHandler{tasks: tasks, uploader: up}
}

type taskItemRequest struct {
	Action              string     `json:"action" binding:"required"`
	Id                  string     `json:"id"`
	ContributorId       *string    `json:"contributorId"`
	Title               *string    `json:"title"`
	Priority            *string    `json:"priority"`
	DueDate             *time.Time `json:"dueDate"`
	Description         *string    `json:"description"`
	PercentageOfProject *float64   `json:"percentageOfProject"`
	PercentageToRelease *float64   `json:"percentageToRelease"`
	ReleaseDate         *time.Time `json:"releaseDate"`
}

// parseTaskItem 从 multipart 表单解析变更项
func parseTaskItem(c *gin.Context) (mutation.TaskItem, error) {
	var item mutation.TaskItem

	action, ok := c.GetPostForm("action")
	if !ok {
		return item, apperr.Validation("action is required")
	}
	item.Action = mutation.Action(action)
	item.Id = c.PostForm("id")
	item.ContributorId = formString(c, "contributorId")
	item.Title = formString(c, "title")
	item.Priority = formString(c, "priority")
	item.Description = formString(c, "description")

	var err error
	if item.DueDate, err = formDate(c, "dueDate"); err != nil {
		return item, err
	}
	if item.ReleaseDate, err = formDate(c, "releaseDate"); err != nil {
		return item, err
	}
	if item.PercentageOfProject, err = formFloat(c, "percentageOfProject"); err != nil {
		return item, err
	}
	if item.PercentageToRelease, err = formFloat(c, "percentageToRelease"); err != nil {
		return item, err
	}
	return item, nil
}

// Manage 对里程碑任务应用单个变更项，附件随请求一并上传
func (h *TaskHandler) Manage(c *gin.Context) {
	projectId := c.Param("projectId")
	milestoneId := c.Param("milestoneId")
	userId := middleware.CurrentUserId(c)

	var item mutation.TaskItem

	if isMultipart(c) {
		parsed, err := parseTaskItem(c)
		if err != nil {
			respondError(c, err)
			return
		}
		item = parsed

		files, err := formFiles(c)
		if err != nil {
			respondError(c, err)
			return
		}
		if item.Action == mutation.ActionDelete && len(files) > 0 {
			respondError(c, apperr.Validation("files cannot be attached to a delete operation"))
			return
		}

		galleryItems, err := uploadGalleryItems(h.uploader, files)
		if err != nil {
			respondError(c, err)
			return
		}
		item.GalleryItems = galleryItems
	} else {
		var req taskItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, apperr.Validation("action is required"))
			return
		}
		item = mutation.TaskItem{
			Action:              mutation.Action(req.Action),
			Id:                  req.Id,
			ContributorId:       req.ContributorId,
			Title:               req.Title,
			Priority:            req.Priority,
			DueDate:             req.DueDate,
			Description:         req.Description,
			PercentageOfProject: req.PercentageOfProject,
			PercentageToRelease: req.PercentageToRelease,
			ReleaseDate:         req.ReleaseDate,
		}
	}

	milestone, err := h.tasks.Manage(projectId, milestoneId, userId, []mutation.TaskItem{item})
	if err != nil {
		respondError(c, err)
		return
	}

	switch item.Action {
	case mutation.ActionCreate:
		respondOK(c, http.StatusCreated, "Tasks updated successfully.", milestone)
	case mutation.ActionDelete:
		c.Status(http.StatusNoContent)
	default:
		respondOK(c, http.StatusOK, "Tasks updated successfully.", milestone)
	}
}

// Delete 删除里程碑下的单个任务
func (h *TaskHandler) Delete(c *gin.Context) {
	taskId := c.Param("taskId")
	if _, err := h.tasks.Delete(c.Param("projectId"), c.Param("milestoneId"),
		taskId, middleware.CurrentUserId(c)); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Task deleted successfully.", gin.H{"taskId": taskId})
}

// List 获取里程碑及其全部任务
func (h *TaskHandler) List(c *gin.Context) {
	milestone, err := h.tasks.Fetch(c.Param("milestoneId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", milestone)
}
