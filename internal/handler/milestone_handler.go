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

// MilestoneHandler 里程碑接口
type MilestoneHandler struct {
	milestones *logic.MilestoneLogic
	uploader   uploader.Uploader
}

// NewMilestoneHandler 创建里程碑接口
func NewMilestoneHandler(milestones *logic.MilestoneLogic, up uploader.Uploader) *MilestoneHandler {
	return &MilestoneHandler{milestones: milestones, uploader: up}
}

type milestoneItemRequest struct {
	Action            string     `json:"action"`
	Id                string     `json:"id"`
	Title             *string    `json:"title"`
	ReleasePercentage *float64   `json:"releasePercentage"`
	DueDate           *time.Time `json:"dueDate"`
	ReleaseDate       *time.Time `json:"releaseDate"`
	Description       *string    `json:"description"`
}

// parseMilestoneItem 从 multipart 表单解析变更项
func parseMilestoneItem(c *gin.Context, forceCreate bool) (mutation.MilestoneItem, error) {
	var item mutation.MilestoneItem

	if forceCreate {
		item.Action = mutation.ActionCreate
	} else {
		action, ok := c.GetPostForm("action")
		if !ok {
			return item, apperr.Validation("action is required")
		}
		item.Action = mutation.Action(action)
	}
	item.Id = c.PostForm("id")
	item.Title = formString(c, "title")
	item.Description = formString(c, "description")

	var err error
	if item.ReleasePercentage, err = formFloat(c, "releasePercentage"); err != nil {
		return item, err
	}
	if item.DueDate, err = formDate(c, "dueDate"); err != nil {
		return item, err
	}
	if item.ReleaseDate, err = formDate(c, "releaseDate"); err != nil {
		return item, err
	}
	return item, nil
}

// Create 创建单条里程碑，复用同一处理器
func (h *MilestoneHandler) Create(c *gin.Context) {
	h.manage(c, true)
}

// Manage 对项目里程碑应用单个变更项，附件随请求一并上传
func (h *MilestoneHandler) Manage(c *gin.Context) {
	h.manage(c, false)
}

func (h *MilestoneHandler) manage(c *gin.Context, forceCreate bool) {
	projectId := c.Param("projectId")
	userId := middleware.CurrentUserId(c)

	var item mutation.MilestoneItem

	if isMultipart(c) {
		parsed, err := parseMilestoneItem(c, forceCreate)
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
		var req milestoneItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, apperr.Validation("invalid request body"))
			return
		}
		if !forceCreate && req.Action == "" {
			respondError(c, apperr.Validation("action is required"))
			return
		}
		item = mutation.MilestoneItem{
			Action:            mutation.Action(req.Action),
			Id:                req.Id,
			Title:             req.Title,
			ReleasePercentage: req.ReleasePercentage,
			DueDate:           req.DueDate,
			ReleaseDate:       req.ReleaseDate,
			Description:       req.Description,
		}
		if forceCreate {
			item.Action = mutation.ActionCreate
			item.Id = ""
		}
	}

	project, err := h.milestones.Manage(projectId, userId, []mutation.MilestoneItem{item})
	if err != nil {
		respondError(c, err)
		return
	}

	switch item.Action {
	case mutation.ActionCreate:
		respondOK(c, http.StatusCreated, "Milestones updated successfully.", project)
	case mutation.ActionDelete:
		c.Status(http.StatusNoContent)
	default:
		respondOK(c, http.StatusOK, "Milestones updated successfully.", project)
	}
}

// List 获取项目及其全部里程碑
func (h *MilestoneHandler) List(c *gin.Context) {
	project, err := h.milestones.Fetch(c.Param("projectId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", project)
}
