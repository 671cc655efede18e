package api

import (
	"github.com/gin-gonic/gin"

	"github.com/danilofortes/stackhabit/internal"
	"github.com/danilofortes/stackhabit/internal/service"
)

func Register(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), internal.InvalidError(err.Error()), "Invalid JSON")
			return
		}

		result, err := service.Register(c.Request.Context(), app.Store(), app.Auth(), &req)
		if err != nil {
			HandleError(c, app.Logger(), err, "Registration failed")
			return
		}

		app.Logger().Infof("user registered: %s", result.User.Email)
		HandleCreated(c, app.Logger(), result)
	}
}

func Login(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), internal.InvalidError(err.Error()), "Invalid JSON")
			return
		}

		result, err := service.Login(c.Request.Context(), app.Store(), app.Auth(), &req)
		if err != nil {
			HandleError(c, app.Logger(), err, "Login failed")
			return
		}

		app.Logger().Infof("user logged in: %s", result.User.Email)
		HandleSuccess(c, app.Logger(), result, nil)
	}
}
