// Package api exposes the diary over HTTP for the web frontend: dish CRUD,
// order submission, the activity feed, and image upload.
package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kitchenlog/dishdiary/internal/activity"
	"github.com/kitchenlog/dishdiary/internal/dishes"
	"github.com/kitchenlog/dishdiary/internal/gitstore"
	"github.com/kitchenlog/dishdiary/internal/images"
)

// Server wires the repository, aggregator, and uploader behind a gin router.
type Server struct {
	repo     *dishes.Repository
	feed     *activity.Aggregator
	uploader *images.Uploader
	log      *slog.Logger
}

// NewServer creates the HTTP server. A nil logger disables request logging.
func NewServer(repo *dishes.Repository, feed *activity.Aggregator, uploader *images.Uploader, log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{repo: repo, feed: feed, uploader: uploader, log: log}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger(), cors())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "dishdiary"})
	})

	api := r.Group("/api")
	{
		api.GET("/dishes", s.listDishes)
		api.POST("/dishes", s.createDish)
		api.GET("/dishes/:id", s.getDish)
		api.PATCH("/dishes/:id", s.updateDish)
		api.DELETE("/dishes/:id", s.deleteDish)
		api.POST("/orders", s.recordOrder)
		api.GET("/activity", s.listActivity)
		api.POST("/images", s.uploadImage)
	}
	return r
}

// requestLogger logs one structured line per request.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

// cors allows the frontend, wherever it is served from, to call the API.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// writeError maps the error taxonomy onto HTTP statuses: validation to 400,
// unresolved ids to 404, store failures to 502, everything else to 500. A
// failed list never degrades to an empty success; the caller can always
// tell "no dishes" from "store unreachable".
func (s *Server) writeError(c *gin.Context, err error) {
	var vErr *dishes.ValidationError
	var remoteErr *gitstore.RemoteError

	switch {
	case errors.As(err, &vErr),
		errors.Is(err, images.ErrEmptyPayload),
		errors.Is(err, images.ErrNotBase64),
		errors.Is(err, images.ErrTooLarge):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, gitstore.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &remoteErr):
		s.log.Error("store call failed", "error", err, "status", remoteErr.Status)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		s.log.Error("request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
