// Package server exposes the HTTP API: routine save/fetch, today's
// classes, reminder preferences, push subscription registration, and the
// static service worker script.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Hossain-2402/class-routine-reminder/internal/scheduler"
	"github.com/Hossain-2402/class-routine-reminder/internal/store"
)

// Server holds the handler dependencies.
type Server struct {
	log         *zap.Logger
	repo        store.Repo
	sched       *scheduler.Scheduler
	vapidPublic string
}

// New creates the server and its gin engine.
func New(log *zap.Logger, repo store.Repo, sched *scheduler.Scheduler, vapidPublic string) *Server {
	return &Server{log: log, repo: repo, sched: sched, vapidPublic: vapidPublic}
}

// Router builds the route table.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.corsMiddleware())

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/sw.js", s.serviceWorker)

	api := r.Group("/api")
	{
		api.GET("/vapid-key", s.vapidKey)

		api.POST("/routines", s.saveRoutine)
		api.GET("/routines/:userID", s.getRoutine)
		api.GET("/routines/:userID/today", s.getToday)

		api.GET("/users/:userID/preferences", s.getPreference)
		api.PUT("/users/:userID/preferences", s.putPreference)
		api.POST("/users/:userID/notifications/test", s.testNotification)
		api.POST("/users/:userID/notifications/reset", s.resetNotification)

		api.POST("/users/:userID/subscriptions", s.addSubscription)
		api.DELETE("/users/:userID/subscriptions/:id", s.removeSubscription)
	}
	return r
}

// corsMiddleware allows the browser front end to call the API from any
// origin; the service has no auth layer to protect.
func (s *Server) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
