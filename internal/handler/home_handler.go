package handler

import (
	"net/http"

	"github.com/dootling/dcs/internal/logic"
	"github.com/gin-gonic/gin"
)

// HomeHandler 首页信息流接口
type HomeHandler struct {
	home *logic.HomeLogic
}

// NewHomeHandler 创建首页接口
func NewHomeHandler(home *logic.HomeLogic) *HomeHandler {
	return &HomeHandler{home: home}
}

// Feed 获取公开项目信息流
func (h *HomeHandler) Feed(c *gin.Context) {
	projects, err := h.home.FetchFeed(queryInt(c, "limit", 10), queryInt(c, "skip", 0))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", projects)
}
