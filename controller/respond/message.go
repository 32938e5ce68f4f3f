package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIError 携带 HTTP 状态码的业务错误，未包装的错误一律按 500 处理，
// 原始错误文本直接回给客户端。
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

func BadRequest(message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Message: message}
}

func Unauthorized(message string) *APIError {
	return &APIError{Status: http.StatusUnauthorized, Message: message}
}

func Forbidden(message string) *APIError {
	return &APIError{Status: http.StatusForbidden, Message: message}
}

func NotFound(message string) *APIError {
	return &APIError{Status: http.StatusNotFound, Message: message}
}

// envelope 统一响应格式 {success, message?, ...payload}
func envelope(success bool, payload gin.H) gin.H {
	out := gin.H{"success": success}
	for k, v := range payload {
		out[k] = v
	}
	return out
}

// OK 200 成功响应，payload 的键展开在信封顶层
func OK(c *gin.Context, payload gin.H) {
	c.JSON(http.StatusOK, envelope(true, payload))
}

// Created 201 成功响应
func Created(c *gin.Context, payload gin.H) {
	c.JSON(http.StatusCreated, envelope(true, payload))
}

// Fail 指定状态码的失败响应
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, envelope(false, gin.H{"message": message}))
}

// Err 按错误类型映射状态码：*APIError 用自带状态，其余 500
func Err(c *gin.Context, err error) {
	if apiErr, ok := err.(*APIError); ok {
		Fail(c, apiErr.Status, apiErr.Message)
		return
	}
	Fail(c, http.StatusInternalServerError, err.Error())
}
