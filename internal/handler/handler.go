package handler

import (
	"net/http"

	"github.com/GaneshVarma1/Goodmoney/internal/models"
	"github.com/GaneshVarma1/Goodmoney/internal/util"

	"github.com/gin-gonic/gin"
)

// currentUser pulls the authenticated user set by AuthMiddleware.
// Writes the 401 envelope and returns nil when it is absent.
func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get("currentUser")
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return nil
	}
	user, ok := v.(*models.User)
	if !ok || user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return nil
	}
	return user
}
