package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// userCtx is the gin context key the middleware stores the operator id
// under for downstream handlers.
const userCtx = "userId"

// userIdMiddleware guards the versioned API group. It expects the JWT
// issued by sign-in as a Bearer token; the public chute-status routes and
// /ws stay outside this middleware on purpose, matching what the
// warehouse web app calls unauthenticated.
func (h *Handler) userIdMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing Authorization header",
		})
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid Authorization header format",
		})
		return
	}

	userId, err := h.services.ParseToken(parts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	c.Set(userCtx, userId)
	c.Next()
}
