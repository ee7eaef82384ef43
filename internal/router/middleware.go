package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/blues/afs/internal/auth"
	"github.com/blues/afs/internal/handler"
	"github.com/blues/afs/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

// requestID 为每个请求分配请求ID，已携带时沿用
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// requestLogger 记录请求日志
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.With(zap.String("request_id", c.GetString("request_id"))).
			Info("%s %s %d %s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// authenticate 解析 Bearer 令牌，未携带令牌时以匿名身份继续，令牌无效时返回 401
func authenticate(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokens == nil {
			handler.ErrorResponse(c, http.StatusUnauthorized, "无效的身份令牌")
			c.Abort()
			return
		}

		identity, err := tokens.Parse(strings.TrimSpace(token))
		if err != nil {
			logger.Debug("Rejected token: %v", err)
			handler.ErrorResponse(c, http.StatusUnauthorized, "无效的身份令牌")
			c.Abort()
			return
		}

		handler.SetIdentity(c, identity)
		c.Next()
	}
}
