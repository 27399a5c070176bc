package handler

import (
	"github.com/GaneshVarma1/Goodmoney/internal/util"

	"github.com/gin-gonic/gin"
)

// GetMe returns the current logged-in user (requires AuthMiddleware).
func GetMe(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	util.Success(c, util.Response{
		"user": gin.H{
			"id":           user.ID,
			"username":     user.Username,
			"display_name": user.DisplayName,
			"created_at":   user.CreatedAt,
		},
	})
}
