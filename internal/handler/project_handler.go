package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dootling/dcs/internal/apperr"
	"github.com/dootling/dcs/internal/logic"
	"github.com/dootling/dcs/internal/middleware"
	"github.com/dootling/dcs/internal/mutation"
	"github.com/dootling/dcs/internal/uploader"
	"github.com/gin-gonic/gin"
)

// ProjectHandler 项目接口
type ProjectHandler struct {
	projects *logic.ProjectLogic
	uploader uploader.Uploader
}

// NewProjectHandler 创建项目接口
func NewProjectHandler(projects *logic.ProjectLogic, up uploader.Uploader) *ProjectHandler {
	return &ProjectHandler{projects: projects, uploader: up}
}

type createProjectRequest struct {
	Title           string    `json:"title" binding:"required"`
	Description     string    `json:"description"`
	IsPublic        bool      `json:"isPublic"`
	ContributorIds  []string  `json:"contributorIds"`
	TotalBudget     float64   `json:"totalBudget" binding:"required"`
	StartDate       time.Time `json:"startDate" binding:"required"`
	DeliveryDate    time.Time `json:"deliveryDate" binding:"required"`
	ContractClauses string    `json:"contractClauses"`
	FundsRule       bool      `json:"fundsRule"`
}

// parseCreateProjectForm 从 multipart 表单解析创建入参
func (h *ProjectHandler) parseCreateProjectForm(c *gin.Context) (*logic.CreateProjectInput, error) {
	input := &logic.CreateProjectInput{
		Title:           c.PostForm("title"),
		Description:     c.PostForm("description"),
		ContractClauses: c.PostForm("contractClauses"),
	}

	if isPublic, err := formBool(c, "isPublic"); err != nil {
		return nil, err
	} else if isPublic != nil {
		input.IsPublic = *isPublic
	}
	if fundsRule, err := formBool(c, "fundsRule"); err != nil {
		return nil, err
	} else if fundsRule != nil {
		input.FundsRule = *fundsRule
	}
	if budget, err := formFloat(c, "totalBudget"); err != nil {
		return nil, err
	} else if budget != nil {
		input.TotalBudget = *budget
	}
	if start, err := formDate(c, "startDate"); err != nil {
		return nil, err
	} else if start != nil {
		input.StartDate = *start
	}
	if delivery, err := formDate(c, "deliveryDate"); err != nil {
		return nil, err
	} else if delivery != nil {
		input.DeliveryDate = *delivery
	}

	// 成员列表以 JSON 数组字符串提交
	if raw, ok := c.GetPostForm("contributorIds"); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &input.ContributorIds); err != nil {
			return nil, apperr.Validation("contributorIds must be a JSON array of user ids")
		}
	}

	if file, err := c.FormFile("image"); err == nil {
		url, err := h.uploader.Upload(file)
		if err != nil {
			return nil, err
		}
		input.ProjectImageUrl = &url
	}

	return input, nil
}

// Create 创建项目，可附带封面图与初始成员
func (h *ProjectHandler) Create(c *gin.Context) {
	var input *logic.CreateProjectInput

	if isMultipart(c) {
		parsed, err := h.parseCreateProjectForm(c)
		if err != nil {
			respondError(c, err)
			return
		}
		input = parsed
	} else {
		var req createProjectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, apperr.Validation("title, totalBudget, startDate and deliveryDate are required"))
			return
		}
		input = &logic.CreateProjectInput{
			Title:           req.Title,
			Description:     req.Description,
			IsPublic:        req.IsPublic,
			ContributorIds:  req.ContributorIds,
			TotalBudget:     req.TotalBudget,
			StartDate:       req.StartDate,
			DeliveryDate:    req.DeliveryDate,
			ContractClauses: req.ContractClauses,
			FundsRule:       req.FundsRule,
		}
	}

	input.OwnerId = middleware.CurrentUserId(c)

	project, err := h.projects.Create(*input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "Project created successfully.", project)
}

type contributorItemRequest struct {
	Action            string   `json:"action" binding:"required"`
	Id                string   `json:"id"`
	UserId            *string  `json:"userId"`
	Role              *string  `json:"role"`
	BudgetPercentage  *float64 `json:"budgetPercentage"`
	ReleasePercentage *float64 `json:"releasePercentage"`
}

type updateProjectRequest struct {
	Title                     *string                  `json:"title"`
	Description               *string                  `json:"description"`
	IsPublic                  *bool                    `json:"isPublic"`
	TotalBudget               *float64                 `json:"totalBudget"`
	StartDate                 *time.Time               `json:"startDate"`
	DeliveryDate              *time.Time               `json:"deliveryDate"`
	ContractClauses           *string                  `json:"contractClauses"`
	FundsRule                 *bool                    `json:"fundsRule"`
	ReceiveEmailNotifications *bool                    `json:"receiveEmailNotifications"`
	IsDeleted                 *bool                    `json:"isDeleted"`
	Contributors              []contributorItemRequest `json:"contributors"`
}

// toContributorItems 把请求体里的成员变更项转换为处理器入参
func toContributorItems(reqs []contributorItemRequest) []mutation.ContributorItem {
	items := make([]mutation.ContributorItem, 0, len(reqs))
	for _, item := range reqs {
		items = append(items, mutation.ContributorItem{
			Action:            mutation.Action(item.Action),
			Id:                item.Id,
			UserId:            item.UserId,
			Role:              item.Role,
			BudgetPercentage:  item.BudgetPercentage,
			ReleasePercentage: item.ReleasePercentage,
		})
	}
	return items
}

// parseUpdateProjectForm 从 multipart 表单解析更新入参。
// 成员变更项以 JSON 数组字符串提交。
func parseUpdateProjectForm(c *gin.Context) (logic.ProjectUpdate, []mutation.ContributorItem, error) {
	update := logic.ProjectUpdate{
		Title:           formString(c, "title"),
		Description:     formString(c, "description"),
		ContractClauses: formString(c, "contractClauses"),
	}

	var err error
	if update.IsPublic, err = formBool(c, "isPublic"); err != nil {
		return update, nil, err
	}
	if update.TotalBudget, err = formFloat(c, "totalBudget"); err != nil {
		return update, nil, err
	}
	if update.StartDate, err = formDate(c, "startDate"); err != nil {
		return update, nil, err
	}
	if update.DeliveryDate, err = formDate(c, "deliveryDate"); err != nil {
		return update, nil, err
	}
	if update.FundsRule, err = formBool(c, "fundsRule"); err != nil {
		return update, nil, err
	}
	if update.ReceiveEmailNotifications, err = formBool(c, "receiveEmailNotifications"); err != nil {
		return update, nil, err
	}
	if update.IsDeleted, err = formBool(c, "isDeleted"); err != nil {
		return update, nil, err
	}

	var contributors []mutation.ContributorItem
	if raw, ok := c.GetPostForm("contributors"); ok && raw != "" {
		var reqs []contributorItemRequest
		if err := json.Unmarshal([]byte(raw), &reqs); err != nil {
			return update, nil, apperr.Validation("contributors must be a JSON array of change items")
		}
		contributors = toContributorItems(reqs)
	}
	return update, contributors, nil
}

// Update 更新托管项目字段并应用成员变更项
func (h *ProjectHandler) Update(c *gin.Context) {
	var update logic.ProjectUpdate
	var contributors []mutation.ContributorItem

	if isMultipart(c) {
		parsed, items, err := parseUpdateProjectForm(c)
		if err != nil {
			respondError(c, err)
			return
		}
		update, contributors = parsed, items
	} else {
		var req updateProjectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, apperr.Validation("invalid request body"))
			return
		}
		update = logic.ProjectUpdate{
			Title:                     req.Title,
			Description:               req.Description,
			IsPublic:                  req.IsPublic,
			TotalBudget:               req.TotalBudget,
			StartDate:                 req.StartDate,
			DeliveryDate:              req.DeliveryDate,
			ContractClauses:           req.ContractClauses,
			FundsRule:                 req.FundsRule,
			ReceiveEmailNotifications: req.ReceiveEmailNotifications,
			IsDeleted:                 req.IsDeleted,
		}
		contributors = toContributorItems(req.Contributors)
	}

	project, err := h.projects.ManageEscrow(c.Param("projectId"), update, contributors)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Project updated successfully.", project)
}

// ActivateEscrow 把项目置为托管状态
func (h *ProjectHandler) ActivateEscrow(c *gin.Context) {
	project, err := h.projects.ActivateEscrow(c.Param("projectId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Project marked as escrowed.", project)
}

// GetDetails 获取项目详情
func (h *ProjectHandler) GetDetails(c *gin.Context) {
	project, err := h.projects.GetDetails(c.Param("projectId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", project)
}

// Owned 获取当前用户拥有的项目
func (h *ProjectHandler) Owned(c *gin.Context) {
	projects, err := h.projects.FetchOwnedProjects(middleware.CurrentUserId(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", projects)
}

// Contributing 获取当前用户参与的项目
func (h *ProjectHandler) Contributing(c *gin.Context) {
	projects, err := h.projects.FetchContributingProjects(middleware.CurrentUserId(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", projects)
}

// Contributors 获取项目全部成员
func (h *ProjectHandler) Contributors(c *gin.Context) {
	contributors, err := h.projects.FetchContributors(c.Param("projectId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", contributors)
}

// RecentContributors 获取项目最近加入的成员
func (h *ProjectHandler) RecentContributors(c *gin.Context) {
	contributors, err := h.projects.FetchRecentContributors(c.Param("projectId"), queryInt(c, "limit", 5))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", contributors)
}

// GeneralContributors 获取当前用户全部项目下的成员
func (h *ProjectHandler) GeneralContributors(c *gin.Context) {
	contributors, err := h.projects.FetchGeneralContributors(middleware.CurrentUserId(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", contributors)
}

// RecentGeneralContributors 获取当前用户全部项目下最近加入的成员
func (h *ProjectHandler) RecentGeneralContributors(c *gin.Context) {
	contributors, err := h.projects.FetchRecentGeneralContributors(middleware.CurrentUserId(c), queryInt(c, "limit", 5))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", contributors)
}
