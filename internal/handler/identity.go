package handler

import (
	"net/http"

	"github.com/blues/afs/internal/auth"
	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// SetIdentity 保存请求者身份
func SetIdentity(c *gin.Context, identity *auth.Identity) {
	c.Set(identityKey, identity)
}

// IdentityFrom 获取请求者身份，未登录时返回 nil
func IdentityFrom(c *gin.Context) *auth.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, _ := v.(*auth.Identity)
	return identity
}

// requireIdentity 获取请求者身份，未登录时写入 401
func requireIdentity(c *gin.Context) (*auth.Identity, bool) {
	identity := IdentityFrom(c)
	if identity == nil {
		ErrorResponse(c, http.StatusUnauthorized, "请先登录")
		return nil, false
	}
	return identity, true
}
