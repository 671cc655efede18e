package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/danilofortes/stackhabit/internal/response"
)

// UserKey is the gin context key the middleware stores the authenticated
// user under.
const UserKey = "user"

func Middleware(provider Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			user, err := provider.Authenticate(c.Request.Context(), token)
			if err == nil {
				c.Set(UserKey, user)
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.Unauthorized("Unauthorized"))
	}
}
