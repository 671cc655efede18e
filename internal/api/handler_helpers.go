package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/danilofortes/stackhabit/internal"
	"github.com/danilofortes/stackhabit/internal/auth"
	"github.com/danilofortes/stackhabit/internal/response"
)

func currentUser(c *gin.Context) *internal.User {
	return c.MustGet(auth.UserKey).(*internal.User)
}

func HandleError(c *gin.Context, logger internal.Logger, err error, msg string) {
	requestID := c.GetString("request_id")
	app := internal.AsAppError(err)
	if app.Kind == internal.KindInternal {
		logger.Errorf("[request_id=%s] %s: %v", requestID, msg, err)
	} else {
		logger.Warnf("[request_id=%s] %s: %v", requestID, msg, err)
	}
	c.JSON(internal.HTTPStatus(app.Kind), response.APIResponse{Error: app})
}

func HandleSuccess(c *gin.Context, logger internal.Logger, data interface{}, meta map[string]any) {
	logger.Debugf("[request_id=%s] success", c.GetString("request_id"))
	c.JSON(http.StatusOK, response.Success(data, meta))
}

func HandleCreated(c *gin.Context, logger internal.Logger, data interface{}) {
	logger.Debugf("[request_id=%s] created", c.GetString("request_id"))
	c.JSON(http.StatusCreated, response.Success(data, nil))
}

func HandleNoContent(c *gin.Context, logger internal.Logger) {
	logger.Debugf("[request_id=%s] deleted", c.GetString("request_id"))
	c.Status(http.StatusNoContent)
}
