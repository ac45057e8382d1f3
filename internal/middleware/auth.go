package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"prep_admin_backend/internal/config"
	"prep_admin_backend/internal/model"
	"prep_admin_backend/internal/util"
	"prep_admin_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TokenCookie carries the session token of the server-rendered pages.
const TokenCookie = "access_token"

// ProfileLookup loads the account behind a token.
type ProfileLookup interface {
	FindByID(ctx context.Context, id uint) (*model.Profile, error)
}

// tokenFromRequest reads the bearer header, then the session cookie, then ?token=.
func tokenFromRequest(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")); token != "" {
			return token
		}
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie != "" {
		return cookie
	}
	return c.Query("token")
}

func authenticate(c *gin.Context) *util.Claims {
	token := tokenFromRequest(c)
	if token == "" {
		return nil
	}
	cfg := c.MustGet("config").(*config.Config)
	claims, err := util.ParseJWT(token, cfg.JWT.Secret)
	if err != nil {
		logger.Log.Debug("jwt rejected", zap.Error(err))
		return nil
	}
	return claims
}

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := authenticate(c)
		if claims == nil {
			util.Unauthorized(c)
			return
		}
		c.Set(util.ContextUserKey, claims)
		c.Next()
	}
}

// hasRole lets admins through every gate.
func hasRole(role model.UserRole, roles []model.UserRole) bool {
	if role == model.Admin {
		return true
	}
	for _, r := range roles {
		if role == r {
			return true
		}
	}
	return false
}

func RoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		if user == nil {
			util.Unauthorized(c)
			return
		}
		if !hasRole(user.Role, roles) {
			util.Forbidden(c)
			return
		}
		c.Next()
	}
}

// ActiveMiddleware rejects tokens of accounts that were deactivated or
// removed after the token was issued. It reads the same is_active column the
// status toggle writes.
func ActiveMiddleware(profiles ProfileLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		if user == nil {
			util.Unauthorized(c)
			return
		}
		profile, err := profiles.FindByID(c.Request.Context(), user.UserID)
		if err != nil {
			util.Unauthorized(c)
			return
		}
		if !profile.IsActive {
			util.Error(c, http.StatusForbidden, util.MsgAccountDisabled)
			return
		}
		// role changes apply without a new login
		user.Role = profile.Role
		c.Next()
	}
}

// PageAuthMiddleware guards the server-rendered pages: any failure sends the
// browser to the login page instead of answering JSON.
func PageAuthMiddleware(profiles ProfileLookup, loginPath string, roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := authenticate(c)
		if claims != nil {
			profile, err := profiles.FindByID(c.Request.Context(), claims.UserID)
			if err == nil && profile.IsActive && hasRole(profile.Role, roles) {
				claims.Role = profile.Role
				c.Set(util.ContextUserKey, claims)
				c.Next()
				return
			}
		}
		target := loginPath
		if c.Request.Method == http.MethodGet {
			target += "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
		}
		c.Redirect(http.StatusSeeOther, target)
		c.Abort()
	}
}
