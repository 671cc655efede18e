package api

import (
	"github.com/gin-gonic/gin"

	"github.com/danilofortes/stackhabit/internal"
	"github.com/danilofortes/stackhabit/internal/ai"
)

// The AI endpoints never fail on upstream errors: the assistant absorbs
// them and degrades to the static fallback, and the response's source
// field says which path produced it.

func ReviewGuidance(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ai.GuidanceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), internal.InvalidError(err.Error()), "Invalid JSON")
			return
		}

		guidance := app.Assistant().ReviewGuidance(c.Request.Context(), &req)
		HandleSuccess(c, app.Logger(), guidance, nil)
	}
}

func ImproveReview(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ai.ImproveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), internal.InvalidError(err.Error()), "Invalid JSON")
			return
		}

		improved := app.Assistant().ImproveReview(c.Request.Context(), &req)
		meta := map[string]any{"aiAvailable": app.Assistant().Enabled()}
		HandleSuccess(c, app.Logger(), improved, meta)
	}
}
