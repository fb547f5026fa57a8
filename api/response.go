package api

import (
	"errors"
	"log/slog"
	"net/http"

	"finlogix/middleware"
	"finlogix/service"

	"github.com/gin-gonic/gin"
)

// MessageResponse 通用消息响应
type MessageResponse struct {
	Message string `json:"message" example:"Transaction added"`
}

// CreatedResponse 新建资源响应
type CreatedResponse struct {
	Message string `json:"message" example:"Transaction added"`
	ID      uint   `json:"id" example:"1"`
}

// Message 带状态码的消息响应
func Message(c *gin.Context, code int, message string) {
	c.JSON(code, MessageResponse{Message: message})
}

// OK 200 消息响应
func OK(c *gin.Context, message string) {
	Message(c, http.StatusOK, message)
}

// Created 201 响应
func Created(c *gin.Context, message string, id uint) {
	c.JSON(http.StatusCreated, CreatedResponse{Message: message, ID: id})
}

// BadRequest 400 错误响应
func BadRequest(c *gin.Context, message string) {
	Message(c, http.StatusBadRequest, message)
}

// Unauthorized 401 错误响应
func Unauthorized(c *gin.Context, message string) {
	Message(c, http.StatusUnauthorized, message)
}

// NotFound 404 错误响应
func NotFound(c *gin.Context, message string) {
	Message(c, http.StatusNotFound, message)
}

// InternalError 500 错误响应
func InternalError(c *gin.Context, message string) {
	Message(c, http.StatusInternalServerError, message)
}

// RespondError 把 service 层错误映射为 HTTP 响应
// 未归类的错误记录日志并返回 500，release 模式下不暴露细节
func RespondError(c *gin.Context, err error, fallback string) {
	msg := service.Message(err, fallback)
	switch {
	case errors.Is(err, service.ErrValidation):
		BadRequest(c, msg)
	case errors.Is(err, service.ErrNotFound):
		NotFound(c, msg)
	case errors.Is(err, service.ErrDuplicate):
		Message(c, http.StatusConflict, msg)
	case errors.Is(err, service.ErrUnavailable):
		Message(c, http.StatusServiceUnavailable, msg)
	default:
		middleware.LoggerFrom(c).Error(fallback, slog.String("error", err.Error()))
		InternalError(c, SafeErrorMessage(err, fallback))
	}
}
