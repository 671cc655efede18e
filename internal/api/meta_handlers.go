package api

import (
	"github.com/gin-gonic/gin"

	"github.com/danilofortes/stackhabit/internal"
	"github.com/danilofortes/stackhabit/internal/service"
)

func ListMetas(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		metas, err := service.ListMetas(c.Request.Context(), app.Store(), user, c.Param("targetDate"))
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to list metas")
			return
		}
		HandleSuccess(c, app.Logger(), metas, nil)
	}
}

func CreateMeta(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var req service.CreateMetaRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), internal.InvalidError(err.Error()), "Invalid JSON")
			return
		}

		meta, err := service.CreateMeta(c.Request.Context(), app.Store(), user, &req)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to create meta")
			return
		}
		HandleCreated(c, app.Logger(), meta)
	}
}

func ToggleMeta(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		id, err := pathID(c)
		if err != nil {
			HandleError(c, app.Logger(), err, "Invalid meta id")
			return
		}

		meta, err := service.ToggleMetaDone(c.Request.Context(), app.Store(), user, id)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to toggle meta")
			return
		}
		HandleSuccess(c, app.Logger(), meta, nil)
	}
}

func DeleteMeta(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		id, err := pathID(c)
		if err != nil {
			HandleError(c, app.Logger(), err, "Invalid meta id")
			return
		}

		if err := service.DeleteMeta(c.Request.Context(), app.Store(), user, id); err != nil {
			HandleError(c, app.Logger(), err, "Failed to delete meta")
			return
		}
		HandleNoContent(c, app.Logger())
	}
}
