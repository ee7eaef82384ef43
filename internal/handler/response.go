package handler

import (
	"errors"
	"net/http"

	"github.com/blues/afs/internal/logger"
	"github.com/blues/afs/internal/logic"
	"github.com/gin-gonic/gin"
)

// SuccessResponse 成功响应
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse 错误响应
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
		Data:    nil,
	})
}

// LogicErrorResponse 按业务错误分类返回状态码，存储层错误不暴露细节
func LogicErrorResponse(c *gin.Context, err error) {
	status := StatusCode(err)
	if status == http.StatusInternalServerError {
		logger.Error("Request %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		ErrorResponse(c, status, "服务器内部错误")
		return
	}
	ErrorResponse(c, status, err.Error())
}

// StatusCode 业务错误对应的 HTTP 状态码
func StatusCode(err error) int {
	var logicErr *logic.Error
	if !errors.As(err, &logicErr) {
		return http.StatusInternalServerError
	}

	switch logicErr.Kind {
	case logic.KindValidation:
		return http.StatusBadRequest
	case logic.KindAuthorization:
		return http.StatusForbidden
	case logic.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
