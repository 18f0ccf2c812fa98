package handler

import (
	"net/http"

	"github.com/dootling/dcs/internal/logic"
	"github.com/dootling/dcs/internal/middleware"
	"github.com/gin-gonic/gin"
)

// UserHandler 用户查询接口
type UserHandler struct {
	users *logic.UserLogic
}

// NewUserHandler 创建用户查询接口
func NewUserHandler(users *logic.UserLogic) *UserHandler {
	return &UserHandler{users: users}
}

// Me 获取当前登录用户
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.users.GetById(middleware.CurrentUserId(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", userView(user))
}

// GetById 按 ID 获取用户
func (h *UserHandler) GetById(c *gin.Context) {
	user, err := h.users.GetById(c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", userView(user))
}

// GetByUsername 按用户名获取公开主页
func (h *UserHandler) GetByUsername(c *gin.Context) {
	user, err := h.users.GetByUsername(c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", userView(user))
}
