package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"devlink/feed"
	"devlink/media"
	"devlink/notify"
)

// Wiring shared across handler files, set once from main.
var (
	feedSvc  *feed.Service
	uploads  *media.LocalStore
	uploader *media.Uploader
	pusher   *notify.Pusher
)

type Deps struct {
	Feed     *feed.Service
	Uploads  *media.LocalStore
	Uploader *media.Uploader // nil disables remote uploads
	Pusher   *notify.Pusher  // nil disables push fan-out
}

func Setup(deps Deps) {
	feedSvc = deps.Feed
	uploads = deps.Uploads
	uploader = deps.Uploader
	pusher = deps.Pusher
}

// requestBase rebuilds "<scheme>://<host>" for rendering local image
// paths as URLs on the serving host.
func requestBase(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}

// writeError maps the feed error taxonomy onto the response envelope.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, feed.ErrValidation), errors.Is(err, feed.ErrInvalidArgument):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status":  http.StatusUnprocessableEntity,
			"message": err.Error(),
		})
	case errors.Is(err, feed.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"status":  http.StatusNotFound,
			"message": err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  http.StatusInternalServerError,
			"message": "Something went wrong",
		})
	}
}
