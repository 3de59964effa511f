package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// CtxUserID is the gin context key the auth middleware populates.
	CtxUserID = "user_id"
)

// UserID extracts the authenticated user ID from the gin context. It is set
// by BearerAuthMiddleware; an empty result means the request never passed
// authentication.
func UserID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxUserID))
}
