package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/dootling/dcs/internal/config"
)

// Mailer 邮件发送接口，业务层只依赖该接口
type Mailer interface {
	SendVerificationCode(to, code, fullName string) error
	SendPasswordResetCode(to, code, fullName string) error
}

// SMTPMailer 基于 net/smtp 的实现
type SMTPMailer struct {
	cfg config.MailConfig
}

// NewSMTPMailer 创建邮件发送器
func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// send 发送一封 HTML 邮件
func (m *SMTPMailer) send(to, subject, htmlBody string) error {
	if m.cfg.Password == "" {
		return fmt.Errorf("mail password is not configured")
	}

	message := []byte("Subject: " + subject + "\r\n" +
		"From: " + m.cfg.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n" +
		htmlBody + "\r\n")

	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendVerificationCode 发送注册验证码
func (m *SMTPMailer) SendVerificationCode(to, code, fullName string) error {
	subject := "Verify Your Email Address"
	htmlBody := fmt.Sprintf(`
    <h1>Hello %s,</h1>
    <p>Thank you for signing up. Please use the following 6-digit code to verify your account:</p>
    <h2 style="color: #4CAF50;">%s</h2>
    <p>This code will expire in 15 minutes.</p>
    <p>If you did not request this, please ignore this email.</p>
  `, fullName, code)
	return m.send(to, subject, htmlBody)
}

// SendPasswordResetCode 发送密码重置验证码
func (m *SMTPMailer) SendPasswordResetCode(to, code, fullName string) error {
	subject := "Password Reset Request"
	htmlBody := fmt.Sprintf(`
    <h1>Hello %s,</h1>
    <p>You requested a password reset. Please use the following 6-digit code to reset your password:</p>
    <h2 style="color: #F44336;">%s</h2>
    <p>This code will expire in 15 minutes.</p>
    <p>If you did not request a password reset, you can safely ignore this email.</p>
  `, fullName, code)
	return m.send(to, subject, htmlBody)
}
