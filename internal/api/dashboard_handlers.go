package api

import (
	"github.com/gin-gonic/gin"

	"github.com/danilofortes/stackhabit/internal"
	"github.com/danilofortes/stackhabit/internal/service"
)

// GetDashboard serves the calendar view for one month. An absent or
// empty month parameter defaults to the current calendar month; that
// substitution happens here at the boundary, not in the aggregator.
func GetDashboard(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		monthParam := c.Query("month")
		var month internal.YearMonth
		if monthParam == "" {
			month = internal.YearMonthOf(app.Now())
		} else {
			parsed, err := internal.ParseYearMonth(monthParam)
			if err != nil {
				HandleError(c, app.Logger(), internal.InvalidError(err.Error()), "Invalid month")
				return
			}
			month = parsed
		}

		dashboard, err := service.Aggregate(c.Request.Context(), app.Store(), user.ID, month)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to build dashboard")
			return
		}
		HandleSuccess(c, app.Logger(), dashboard, nil)
	}
}
