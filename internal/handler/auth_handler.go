package handler

import (
	"net/http"

	"github.com/dootling/dcs/internal/apperr"
	"github.com/dootling/dcs/internal/logic"
	"github.com/dootling/dcs/internal/model"
	"github.com/gin-gonic/gin"
)

// AuthHandler 账号认证接口
type AuthHandler struct {
	auth *logic.AuthLogic
}

// NewAuthHandler 创建认证接口
func NewAuthHandler(auth *logic.AuthLogic) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// userView 对客户端暴露的用户摘要
func userView(user *model.User) gin.H {
	return gin.H{
		"id":              user.Id,
		"fullName":        user.FullName,
		"email":           user.Email,
		"username":        user.Username,
		"isVerified":      user.IsVerified,
		"userType":        user.UserType,
		"profilePhotoUrl": user.ProfilePhotoUrl,
		"biodata":         user.Biodata,
	}
}

type registerRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// Register 注册新用户
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation("fullName, email, username and password are required"))
		return
	}

	user, token, err := h.auth.Register(req.FullName, req.Email, req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, "Registration successful. Please check your email for a verification code.", gin.H{
		"user":  userView(user),
		"token": token,
	})
}

type verifyEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

// VerifyEmail 验证邮箱
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req verifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation("email and code are required"))
		return
	}

	user, token, err := h.auth.VerifyEmail(req.Email, req.Code)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Email verified successfully.", gin.H{
		"user":  userView(user),
		"token": token,
	})
}

type emailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResendCode 重发验证码
func (h *AuthHandler) ResendCode(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation("email is required"))
		return
	}

	if err := h.auth.ResendCode(req.Email); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "A new verification code has been sent to your email.", nil)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login 登录
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation("email and password are required"))
		return
	}

	user, token, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Login successful.", gin.H{
		"user":  userView(user),
		"token": token,
	})
}

// ForgotPassword 请求密码重置码
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation("email is required"))
		return
	}

	if err := h.auth.ForgotPassword(req.Email); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "If an account exists for this email, a reset code has been sent.", nil)
}

type resetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// ResetPassword 用重置码设置新密码
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation("email, code and newPassword are required"))
		return
	}

	if _, err := h.auth.ResetPassword(req.Email, req.Code, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Password has been reset successfully. Please log in.", nil)
}
