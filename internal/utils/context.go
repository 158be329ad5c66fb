package utils

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/shiftdesk-dev/shiftdesk/internal/middleware"
	"github.com/shiftdesk-dev/shiftdesk/internal/types"
)

func GetSessionUser(ctx *gin.Context) (middleware.SessionUser, error) {
	user, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return middleware.SessionUser{}, fmt.Errorf("user not authenticated")
	}

	sessionUser, ok := user.(middleware.SessionUser)

	if !ok {
		return middleware.SessionUser{}, fmt.Errorf("invalid user type in context")
	}

	return sessionUser, nil
}
