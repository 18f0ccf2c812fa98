package handler

import (
	"net/http"

	"github.com/dootling/dcs/internal/apperr"
	"github.com/dootling/dcs/internal/logger"
	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// respondOK 成功响应
func respondOK(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{Success: true, Message: message, Data: data})
}

// respondError 按错误类别映射 HTTP 状态码
func respondError(c *gin.Context, err error) {
	message := apperr.MessageOf(err)

	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		c.JSON(http.StatusBadRequest, Response{Success: false, Message: message})
	case apperr.KindNotFound, apperr.KindConcurrency:
		c.JSON(http.StatusNotFound, Response{Success: false, Message: message})
	case apperr.KindAuthentication:
		c.JSON(http.StatusUnauthorized, Response{Success: false, Message: message})
	case apperr.KindUpload:
		logger.Error("Upload error: %v", err)
		c.JSON(http.StatusInternalServerError, Response{Success: false, Message: "Upload error: " + message})
	default:
		logger.Error("Unhandled error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, Response{Success: false, Message: "An unexpected server error occurred."})
	}
}
