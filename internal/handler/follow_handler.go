package handler

import (
	"net/http"
	"strconv"

	"github.com/dootling/dcs/internal/apperr"
	"github.com/dootling/dcs/internal/logic"
	"github.com/dootling/dcs/internal/middleware"
	"github.com/gin-gonic/gin"
)

// FollowHandler 关注关系接口
type FollowHandler struct {
	follows *logic.FollowLogic
}

// NewFollowHandler 创建关注关系接口
func NewFollowHandler(follows *logic.FollowLogic) *FollowHandler {
	return &FollowHandler{follows: follows}
}

// queryInt 读取查询参数中的整数，缺失或非法时取默认值
func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}

// Follow 关注用户
func (h *FollowHandler) Follow(c *gin.Context) {
	followingId := c.Param("followingId")
	if followingId == "" {
		respondError(c, apperr.Validation("followingId is required"))
		return
	}

	follow, err := h.follows.Follow(middleware.CurrentUserId(c), followingId)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "User followed successfully.", follow)
}

// Unfollow 取消关注
func (h *FollowHandler) Unfollow(c *gin.Context) {
	if err := h.follows.Unfollow(middleware.CurrentUserId(c), c.Param("followingId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Followers 获取关注者列表
func (h *FollowHandler) Followers(c *gin.Context) {
	followers, err := h.follows.ListFollowers(middleware.CurrentUserId(c),
		queryInt(c, "limit", 0), queryInt(c, "skip", 0))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", followers)
}

// Following 获取关注中列表
func (h *FollowHandler) Following(c *gin.Context) {
	following, err := h.follows.ListFollowing(middleware.CurrentUserId(c),
		queryInt(c, "limit", 0), queryInt(c, "skip", 0))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", following)
}

// FindUsers 搜索可关注的用户
func (h *FollowHandler) FindUsers(c *gin.Context) {
	users, err := h.follows.FindUsers(middleware.CurrentUserId(c), c.Query("search"),
		queryInt(c, "limit", 10), queryInt(c, "skip", 0))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", users)
}
