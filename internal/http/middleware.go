package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"notevault/internal/domain"
)

const identityKey = "identity"

// verify extracts the session token from the Authorization header, falling
// back to the cookie, resolves it to a user and attaches the identity to the
// request context. Requests without a valid token are rejected.
func (h *Handler) verify() gin.HandlerFunc {
	return func(c *gin.Context) {
		var tok string

		if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
			tok = strings.TrimPrefix(header, "Bearer ")
		} else if cookie, err := c.Cookie(h.cookieName); err == nil {
			tok = cookie
		}

		if tok == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "No token, please login.",
			})
			return
		}

		userID, err := h.issuer.VerifySession(tok)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Not authorized to access this route.",
			})
			return
		}

		user, err := h.auth.GetByID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Not authorized to access this route.",
			})
			return
		}

		c.Set(identityKey, user)
		c.Next()
	}
}

// requireSelf only lets the authenticated user through when the path id is
// their own.
func (h *Handler) requireSelf() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := identity(c)
		if user == nil || c.Param("id") != user.ID {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "You may only access your own resources.",
			})
			return
		}
		c.Next()
	}
}

// requireRole only lets identities holding one of the given roles through.
func (h *Handler) requireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := identity(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "No token, please login.",
			})
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"message": "User role " + string(user.Role) + " is not authorized to access this route.",
		})
	}
}

// identity returns the user attached by verify, or nil.
func identity(c *gin.Context) *domain.User {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	user, _ := v.(*domain.User)
	return user
}
