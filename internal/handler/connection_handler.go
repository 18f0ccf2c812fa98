package handler

import (
	"net/http"

	"github.com/dootling/dcs/internal/apperr"
	"github.com/dootling/dcs/internal/logic"
	"github.com/dootling/dcs/internal/middleware"
	"github.com/dootling/dcs/internal/oauth"
	"github.com/gin-gonic/gin"
)

// ConnectionHandler 第三方服务连接接口
type ConnectionHandler struct {
	connections *logic.ConnectionLogic
	github      *oauth.GitHubClient
}

// NewConnectionHandler 创建服务连接接口
func NewConnectionHandler(connections *logic.ConnectionLogic, github *oauth.GitHubClient) *ConnectionHandler {
	return &ConnectionHandler{connections: connections, github: github}
}

// GitHubAuthorize 返回 GitHub 授权跳转地址
func (h *ConnectionHandler) GitHubAuthorize(c *gin.Context) {
	respondOK(c, http.StatusOK, "", gin.H{"url": h.github.AuthorizeURL()})
}

// GitHubCallback 用回调携带的授权码完成连接
func (h *ConnectionHandler) GitHubCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		respondError(c, apperr.Validation("authorization code is required"))
		return
	}

	conn, err := h.connections.ConnectGitHub(middleware.CurrentUserId(c), code)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "GitHub account connected successfully.", conn)
}

// List 列出当前用户的有效连接
func (h *ConnectionHandler) List(c *gin.Context) {
	conns, err := h.connections.List(middleware.CurrentUserId(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", conns)
}

// Delete 删除连接
func (h *ConnectionHandler) Delete(c *gin.Context) {
	if err := h.connections.Delete(middleware.CurrentUserId(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
