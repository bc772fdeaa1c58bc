package middleware

import (
	"context"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"

	"github.com/driveline/driveline/internal/config"
	"github.com/driveline/driveline/pkg/constant"
	"github.com/driveline/driveline/pkg/errcode"
	"github.com/driveline/driveline/pkg/jwt"
	"github.com/driveline/driveline/pkg/response"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer token
	BearerPrefix = "Bearer "
	// UserIdKey is the context key for user Id
	UserIdKey = "user_id"
	// RoleKey is the context key for the caller's role
	RoleKey = "role"
)

// JWTAuth is the JWT authentication middleware
func JWTAuth() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		authHeader := string(c.GetHeader(AuthorizationHeader))
		if authHeader == "" || !strings.HasPrefix(authHeader, BearerPrefix) {
			response.Error(ctx, c, errcode.ErrUnauthorized)
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
		claims, err := jwt.ParseToken(tokenString, config.GlobalConfig.JWT.Secret)
		if err != nil {
			response.Error(ctx, c, errcode.ErrTokenInvalid)
			c.Abort()
			return
		}

		c.Set(UserIdKey, claims.UserId)
		c.Set(RoleKey, claims.Role)

		c.Next(ctx)
	}
}

// RequireRole allows only callers whose role is in the given set
func RequireRole(roles ...string) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		role := GetRole(c)
		for _, r := range roles {
			if role == r {
				c.Next(ctx)
				return
			}
		}
		response.Error(ctx, c, errcode.ErrForbidden)
		c.Abort()
	}
}

// RequireStaff allows admin and manager callers
func RequireStaff() app.HandlerFunc {
	return RequireRole(constant.RoleAdmin, constant.RoleManager)
}

// GetUserId gets user Id from context
func GetUserId(c *app.RequestContext) int64 {
	if v, ok := c.Get(UserIdKey); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}

// GetRole gets the caller's role from context
func GetRole(c *app.RequestContext) string {
	if v, ok := c.Get(RoleKey); ok {
		if role, ok := v.(string); ok {
			return role
		}
	}
	return ""
}
