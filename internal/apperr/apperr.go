package apperr

import (
	"errors"
	"fmt"
)

// Kind 错误类别，handler 层按类别映射 HTTP 状态码
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindConcurrency
	KindUpload
	KindAuthentication
)

// Error 带类别的业务错误
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation 输入校验失败
func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound 目标记录不存在或归属不匹配
func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Concurrency 嵌套写目标在检查与应用之间消失
func Concurrency(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConcurrency, Message: fmt.Sprintf(format, args...)}
}

// Upload 外部文件托管失败
func Upload(message string, err error) *Error {
	return &Error{Kind: KindUpload, Message: message, Err: err}
}

// Authentication 调用者身份缺失或无效
func Authentication(message string) *Error {
	return &Error{Kind: KindAuthentication, Message: message}
}

// Unknown 包装未分类错误
func Unknown(message string, err error) *Error {
	return &Error{Kind: KindUnknown, Message: message, Err: err}
}

// KindOf 取出错误类别，非业务错误一律视为 KindUnknown
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// MessageOf 取出对客户端可见的错误消息
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "An unexpected server error occurred."
}
