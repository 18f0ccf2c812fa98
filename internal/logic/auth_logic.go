package logic

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/dootling/dcs/internal/apperr"
	"github.com/dootling/dcs/internal/config"
	"github.com/dootling/dcs/internal/logger"
	"github.com/dootling/dcs/internal/mailer"
	"github.com/dootling/dcs/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// codeExpiry 验证码有效期
const codeExpiry = 15 * time.Minute

// AuthLogic 账号认证业务逻辑
type AuthLogic struct {
	db     *gorm.DB
	mailer mailer.Mailer
	cfg    config.JWTConfig
}

// NewAuthLogic 创建认证业务逻辑
func NewAuthLogic(db *gorm.DB, m mailer.Mailer, cfg config.JWTConfig) *AuthLogic {
	return &AuthLogic{db: db, mailer: m, cfg: cfg}
}

// Register 注册新用户并下发验证码邮件。
// 在验证完成之前账号不可登录，但会立即返回会话令牌。
func (a *AuthLogic) Register(fullName, email, username, password string) (*model.User, string, error) {
	var count int64
	if err := a.db.Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, "", apperr.Unknown("failed to register user", err)
	}
	if count > 0 {
		return nil, "", apperr.Validation("user with this email already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", apperr.Unknown("failed to register user", err)
	}

	code := sixDigitCode()
	expires := time.Now().Add(codeExpiry)

	user := model.User{
		FullName:                fullName,
		Email:                   email,
		Username:                username,
		Password:                string(hashed),
		UserType:                "user",
		VerificationCode:        &code,
		VerificationCodeExpires: &expires,
	}

	headline := fmt.Sprintf("A new member, %s, has joined!", fullName)
	user.Biodata = &model.Biodata{
		DateOfBirth: time.Now(),
		Headline:    &headline,
	}

	if err := a.db.Create(&user).Error; err != nil {
		return nil, "", apperr.Unknown("failed to register user", err)
	}

	token, err := a.generateToken(&user)
	if err != nil {
		return nil, "", apperr.Unknown("failed to register user", err)
	}

	// 邮件发送失败不阻塞注册
	go func() {
		if err := a.mailer.SendVerificationCode(user.Email, code, user.FullName); err != nil {
			logger.Error("Failed to send verification email to %s: %v", user.Email, err)
		}
	}()

	return &user, token, nil
}

// VerifyEmail 用验证码激活账号
func (a *AuthLogic) VerifyEmail(email, code string) (*model.User, string, error) {
	var user model.User
	if err := a.db.Preload("Biodata").First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperr.NotFound("user not found")
		}
		return nil, "", apperr.Unknown("failed to verify email", err)
	}

	if user.IsVerified {
		return nil, "", apperr.Validation("email is already verified")
	}

	if user.VerificationCode == nil || *user.VerificationCode != code ||
		user.VerificationCodeExpires == nil || user.VerificationCodeExpires.Before(time.Now()) {
		return nil, "", apperr.Validation("invalid or expired verification code")
	}

	updates := map[string]interface{}{
		"is_verified":               true,
		"verification_code":         nil,
		"verification_code_expires": nil,
	}
	if err := a.db.Model(&user).Updates(updates).Error; err != nil {
		return nil, "", apperr.Unknown("failed to verify email", err)
	}
	user.IsVerified = true

	token, err := a.generateToken(&user)
	if err != nil {
		return nil, "", apperr.Unknown("failed to verify email", err)
	}

	return &user, token, nil
}

// ResendCode 重发验证码
func (a *AuthLogic) ResendCode(email string) error {
	var user model.User
	if err := a.db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Resend requested for non-existent email: %s", email)
			return apperr.NotFound("user not found")
		}
		return apperr.Unknown("failed to resend verification code", err)
	}

	if user.IsVerified {
		return apperr.Validation("email is already verified, please log in")
	}

	code := sixDigitCode()
	expires := time.Now().Add(codeExpiry)

	updates := map[string]interface{}{
		"verification_code":         code,
		"verification_code_expires": expires,
	}
	if err := a.db.Model(&user).Updates(updates).Error; err != nil {
		return apperr.Unknown("failed to resend verification code", err)
	}

	go func() {
		if err := a.mailer.SendVerificationCode(user.Email, code, user.FullName); err != nil {
			logger.Error("Failed to send verification email to %s: %v", user.Email, err)
		}
	}()

	return nil
}

// Login 登录。未知邮箱与密码错误返回同一条消息，避免账号枚举。
func (a *AuthLogic) Login(email, password string) (*model.User, string, error) {
	var user model.User
	if err := a.db.Preload("Biodata").First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperr.Authentication("invalid credentials")
		}
		return nil, "", apperr.Unknown("failed to log in", err)
	}

	if !user.IsVerified {
		return nil, "", apperr.Authentication("please verify your email address first")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", apperr.Authentication("invalid credentials")
	}

	now := time.Now()
	if err := a.db.Model(&user).Update("last_active", now).Error; err != nil {
		logger.Warn("Failed to update last active for %s: %v", user.Id, err)
	}
	user.LastActive = &now

	token, err := a.generateToken(&user)
	if err != nil {
		return nil, "", apperr.Unknown("failed to log in", err)
	}

	return &user, token, nil
}

// ForgotPassword 下发密码重置码。未知邮箱静默成功，避免账号枚举。
func (a *AuthLogic) ForgotPassword(email string) error {
	var user model.User
	if err := a.db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Password reset requested for non-existent email: %s", email)
			return nil
		}
		return apperr.Unknown("failed to process password reset", err)
	}

	code := sixDigitCode()
	expires := time.Now().Add(codeExpiry)

	updates := map[string]interface{}{
		"reset_password_token":   code,
		"reset_password_expires": expires,
	}
	if err := a.db.Model(&user).Updates(updates).Error; err != nil {
		return apperr.Unknown("failed to process password reset", err)
	}

	go func() {
		if err := a.mailer.SendPasswordResetCode(user.Email, code, user.FullName); err != nil {
			logger.Error("Failed to send password reset email to %s: %v", user.Email, err)
		}
	}()

	return nil
}

// ResetPassword 用重置码设置新密码
func (a *AuthLogic) ResetPassword(email, code, newPassword string) (*model.User, error) {
	var user model.User
	if err := a.db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Unknown("failed to reset password", err)
	}

	if user.ResetPasswordToken == nil || *user.ResetPasswordToken != code ||
		user.ResetPasswordExpires == nil || user.ResetPasswordExpires.Before(time.Now()) {
		return nil, apperr.Validation("invalid or expired password reset code")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Unknown("failed to reset password", err)
	}

	updates := map[string]interface{}{
		"password":               string(hashed),
		"reset_password_token":   nil,
		"reset_password_expires": nil,
	}
	if err := a.db.Model(&user).Updates(updates).Error; err != nil {
		return nil, apperr.Unknown("failed to reset password", err)
	}

	return &user, nil
}

// generateToken 生成会话令牌
func (a *AuthLogic) generateToken(user *model.User) (string, error) {
	expireHours := a.cfg.ExpireHours
	if expireHours <= 0 {
		expireHours = 168 // 7天
	}

	claims := jwt.MapClaims{
		"id":         user.Id,
		"email":      user.Email,
		"username":   user.Username,
		"isVerified": user.IsVerified,
		"userType":   user.UserType,
		"exp":        time.Now().Add(time.Duration(expireHours) * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(a.cfg.Secret))
}

// sixDigitCode 生成六位数字验证码
func sixDigitCode() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}
