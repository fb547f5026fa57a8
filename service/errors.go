package service

import (
	"errors"
	"fmt"
)

// 错误类别，handler 用 errors.Is 映射为 HTTP 状态码
var (
	// ErrValidation 缺少必填字段或字段非法
	ErrValidation = errors.New("validation error")
	// ErrNotFound 记录不存在，或不属于当前用户
	ErrNotFound = errors.New("resource not found")
	// ErrDuplicate 唯一约束冲突
	ErrDuplicate = errors.New("resource already exists")
	// ErrUnavailable 依赖的外部服务未配置或不可用
	ErrUnavailable = errors.New("service unavailable")
)

// Error 带可展示消息的业务错误
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func validationError(msg string) error {
	return &Error{Kind: ErrValidation, Message: msg}
}

func notFoundError(msg string) error {
	return &Error{Kind: ErrNotFound, Message: msg}
}

func duplicateError(msg string) error {
	return &Error{Kind: ErrDuplicate, Message: msg}
}

func unavailableError(msg string) error {
	return &Error{Kind: ErrUnavailable, Message: msg}
}

// Message 取出业务错误的展示消息，非业务错误返回 fallback
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return fallback
}
