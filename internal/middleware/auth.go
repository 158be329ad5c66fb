package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shiftdesk-dev/shiftdesk/internal/auth"
	"github.com/shiftdesk-dev/shiftdesk/internal/types"
)

// SessionUser is the identity decoded from the session cookie and attached
// to the request context.
type SessionUser struct {
	Username string `json:"username"`
}

// SessionGuard reads the token cookie and validates the signed session
// token. A missing cookie and a bad token fail with distinct messages.
func SessionGuard(secret []byte) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		cookie, err := ctx.Cookie("token")

		if err != nil || cookie == "" {
			ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"status":  "Failed Action",
				"message": "User Not Logged In",
				"error":   "No User Token",
			})
			return
		}

		claims, err := auth.ParseSessionToken(cookie, secret)

		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"status":  "User Cookie Not Verified",
				"message": "Failed User Verification",
			})
			return
		}

		ctx.Set(types.ContextUserKey, SessionUser{Username: claims.Username})
		ctx.Next()
	}
}
