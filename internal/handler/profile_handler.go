package handler

import (
	"net/http"
	"time"

	"github.com/dootling/dcs/internal/apperr"
	"github.com/dootling/dcs/internal/logic"
	"github.com/dootling/dcs/internal/middleware"
	"github.com/dootling/dcs/internal/uploader"
	"github.com/gin-gonic/gin"
)

// ProfileHandler 个人资料接口
type ProfileHandler struct {
	profiles *logic.ProfileLogic
	uploader uploader.Uploader
}

// NewProfileHandler 创建个人资料接口
func NewProfileHandler(profiles *logic.ProfileLogic, up uploader.Uploader) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, uploader: up}
}

// GetBiodata 获取当前用户资料
func (h *ProfileHandler) GetBiodata(c *gin.Context) {
	biodata, err := h.profiles.FetchBiodata(middleware.CurrentUserId(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", biodata)
}

type biodataRequest struct {
	DateOfBirth *time.Time `json:"dateOfBirth"`
	Age         *int       `json:"age"`
	Country     *string    `json:"country"`
	State       *string    `json:"state"`
	City        *string    `json:"city"`
	Pronouns    *string    `json:"pronouns"`
	Phone       *string    `json:"phone"`
	Role        *string    `json:"role"`
	Industry    *string    `json:"industry"`
	Tags        *string    `json:"tags"`
	Headline    *string    `json:"headline"`
	Languages   *string    `json:"languages"`
}

// UpdateBiodata 更新当前用户资料
func (h *ProfileHandler) UpdateBiodata(c *gin.Context) {
	var req biodataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation("invalid request body"))
		return
	}

	update := logic.BiodataUpdate{
		DateOfBirth: req.DateOfBirth,
		Age:         req.Age,
		Country:     req.Country,
		State:       req.State,
		City:        req.City,
		Pronouns:    req.Pronouns,
		Phone:       req.Phone,
		Role:        req.Role,
		Industry:    req.Industry,
		Tags:        req.Tags,
		Headline:    req.Headline,
		Languages:   req.Languages,
	}

	biodata, err := h.profiles.UpdateBiodata(middleware.CurrentUserId(c), update)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Biodata updated successfully.", biodata)
}

// UpdatePhoto 上传并设置头像
func (h *ProfileHandler) UpdatePhoto(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		respondError(c, apperr.Validation("an image file is required"))
		return
	}

	url, err := h.uploader.Upload(file)
	if err != nil {
		respondError(c, err)
		return
	}

	user, err := h.profiles.UpdateProfilePhoto(middleware.CurrentUserId(c), url)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Profile photo updated successfully.", userView(user))
}

// RemovePhoto 移除头像
func (h *ProfileHandler) RemovePhoto(c *gin.Context) {
	if err := h.profiles.RemoveProfilePhoto(middleware.CurrentUserId(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
