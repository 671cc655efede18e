package api

import (
	"github.com/gin-gonic/gin"

	"github.com/danilofortes/stackhabit/internal"
	"github.com/danilofortes/stackhabit/internal/service"
)

func ListReviews(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		reviews, err := service.ListReviews(c.Request.Context(), app.Store(), user)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to list reviews")
			return
		}
		HandleSuccess(c, app.Logger(), reviews, nil)
	}
}

func GetReview(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		review, err := service.GetReview(c.Request.Context(), app.Store(), user, c.Param("targetDate"))
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to fetch review")
			return
		}
		HandleSuccess(c, app.Logger(), review, nil)
	}
}

func CreateReview(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var req service.CreateReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), internal.InvalidError(err.Error()), "Invalid JSON")
			return
		}

		review, err := service.CreateReview(c.Request.Context(), app.Store(), user, &req)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to create review")
			return
		}
		HandleCreated(c, app.Logger(), review)
	}
}

func UpdateReview(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var req service.UpdateReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), internal.InvalidError(err.Error()), "Invalid JSON")
			return
		}

		review, err := service.UpdateReview(c.Request.Context(), app.Store(), user, c.Param("targetDate"), &req)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to update review")
			return
		}
		HandleSuccess(c, app.Logger(), review, nil)
	}
}

func DeleteReview(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		if err := service.DeleteReview(c.Request.Context(), app.Store(), user, c.Param("targetDate")); err != nil {
			HandleError(c, app.Logger(), err, "Failed to delete review")
			return
		}
		HandleNoContent(c, app.Logger())
	}
}
