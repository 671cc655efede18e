package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/danilofortes/stackhabit/internal"
	"github.com/danilofortes/stackhabit/internal/service"
)

func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, internal.InvalidError("invalid id")
	}
	return id, nil
}

func ListHabits(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		includeArchived := c.Query("includeArchived") == "true"

		habits, err := service.ListHabits(c.Request.Context(), app.Store(), user, includeArchived)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to list habits")
			return
		}
		HandleSuccess(c, app.Logger(), habits, nil)
	}
}

func CreateHabit(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var req service.CreateHabitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), internal.InvalidError(err.Error()), "Invalid JSON")
			return
		}

		habit, err := service.CreateHabit(c.Request.Context(), app.Store(), user, &req)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to create habit")
			return
		}
		HandleCreated(c, app.Logger(), habit)
	}
}

func UpdateHabit(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		id, err := pathID(c)
		if err != nil {
			HandleError(c, app.Logger(), err, "Invalid habit id")
			return
		}

		var req service.UpdateHabitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), internal.InvalidError(err.Error()), "Invalid JSON")
			return
		}

		habit, err := service.UpdateHabit(c.Request.Context(), app.Store(), user, id, &req)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to update habit")
			return
		}
		HandleSuccess(c, app.Logger(), habit, nil)
	}
}

func DeleteHabit(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		id, err := pathID(c)
		if err != nil {
			HandleError(c, app.Logger(), err, "Invalid habit id")
			return
		}

		if err := service.DeleteHabit(c.Request.Context(), app.Store(), user, id); err != nil {
			HandleError(c, app.Logger(), err, "Failed to delete habit")
			return
		}
		HandleNoContent(c, app.Logger())
	}
}

type ToggleHabitRequest struct {
	Date string `json:"date"`
}

type ToggleHabitResponse struct {
	ID          int64  `json:"id,omitempty"`
	HabitID     int64  `json:"habitId"`
	Date        string `json:"date"`
	IsCompleted bool   `json:"isCompleted"`
}

// ToggleHabit flips one (habit, date) cell. Not idempotent by design;
// clients must not blindly retry on ambiguous network failures.
func ToggleHabit(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		id, err := pathID(c)
		if err != nil {
			HandleError(c, app.Logger(), err, "Invalid habit id")
			return
		}

		var req ToggleHabitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), internal.InvalidError(err.Error()), "Invalid JSON")
			return
		}

		state, err := service.ToggleLog(c.Request.Context(), app.Store(), app.Store(), user, id, req.Date)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to toggle habit")
			return
		}

		resp := ToggleHabitResponse{
			HabitID:     state.HabitID,
			Date:        state.Date.String(),
			IsCompleted: state.Completed,
		}
		if state.Log != nil {
			resp.ID = state.Log.ID
		}
		HandleSuccess(c, app.Logger(), resp, nil)
	}
}
