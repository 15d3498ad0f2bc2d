package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Hossain-2402/class-routine-reminder/assets"
	"github.com/Hossain-2402/class-routine-reminder/internal/domain"
	"github.com/Hossain-2402/class-routine-reminder/internal/notify"
	"github.com/Hossain-2402/class-routine-reminder/internal/store"
)

type saveRoutineRequest struct {
	UserID      string `json:"userId"`
	RoutineText string `json:"routineText"`
}

// saveRoutine parses and stores a routine, replacing the user's previous
// one. Missing fields are a client error; storage failures are a generic
// server error with detail kept in the log.
func (s *Server) saveRoutine(c *gin.Context) {
	var req saveRoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" || req.RoutineText == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	schedule := domain.Parse(req.RoutineText)
	rec, err := s.repo.UpsertRoutine(c.Request.Context(), req.UserID, req.RoutineText, schedule)
	if err != nil {
		s.log.Error("save routine failed", zap.Error(err), zap.String("userID", req.UserID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save routine"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "routine": rec})
}

// getRoutine returns the user's routine. Absence is a normal empty state.
func (s *Server) getRoutine(c *gin.Context) {
	rec, err := s.repo.GetRoutine(c.Request.Context(), c.Param("userID"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusOK, gin.H{"routine": nil})
			return
		}
		s.log.Error("get routine failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load routine"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"routine": rec})
}

// getToday returns today's weekday key and classes.
func (s *Server) getToday(c *gin.Context) {
	now := time.Now()
	day := domain.DayFor(now)

	rec, err := s.repo.GetRoutine(c.Request.Context(), c.Param("userID"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusOK, gin.H{"day": day, "classes": []domain.ClassEntry{}})
			return
		}
		s.log.Error("get routine failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load routine"})
		return
	}

	classes := rec.Schedule.Classes(day)
	if classes == nil {
		classes = []domain.ClassEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"day": day, "classes": classes})
}

// getPreference returns the user's reminder settings, or defaults if the
// user never touched them.
func (s *Server) getPreference(c *gin.Context) {
	userID := c.Param("userID")
	p, err := s.repo.GetPreference(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusOK, &domain.Preference{
				UserID:     userID,
				Enabled:    false,
				NotifyTime: domain.DefaultNotifyTime,
			})
			return
		}
		s.log.Error("get preference failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load preferences"})
		return
	}
	c.JSON(http.StatusOK, p)
}

type putPreferenceRequest struct {
	Enabled        bool   `json:"enabled"`
	Time           string `json:"time"`
	TelegramChatID int64  `json:"telegramChatId"`
}

// putPreference updates the reminder settings. Changing the target time
// clears the last-sent date so the new time can fire on the same day.
func (s *Server) putPreference(c *gin.Context) {
	userID := c.Param("userID")

	var req putPreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	notifyTime, err := domain.NormalizeClock(req.Time)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid time, expected HH:MM"})
		return
	}

	ctx := c.Request.Context()
	p, err := s.repo.GetPreference(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.log.Error("get preference failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save preferences"})
			return
		}
		p = &domain.Preference{UserID: userID, NotifyTime: domain.DefaultNotifyTime}
	}

	if p.NotifyTime != notifyTime {
		p.LastSentDate = ""
	}
	p.Enabled = req.Enabled
	p.NotifyTime = notifyTime
	p.TelegramChatID = req.TelegramChatID

	if err := s.repo.UpsertPreference(ctx, p); err != nil {
		s.log.Error("save preference failed", zap.Error(err), zap.String("userID", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save preferences"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// testNotification fires the user's reminder immediately, bypassing the
// once-per-day guard.
func (s *Server) testNotification(c *gin.Context) {
	userID := c.Param("userID")
	if err := s.sched.TestFire(c.Request.Context(), userID); err != nil {
		if errors.Is(err, notify.ErrNoChannel) {
			c.JSON(http.StatusConflict, gin.H{"error": "No delivery channel registered"})
			return
		}
		s.log.Error("test notification failed", zap.Error(err), zap.String("userID", userID))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Delivery failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// resetNotification clears the once-per-day guard without sending.
func (s *Server) resetNotification(c *gin.Context) {
	userID := c.Param("userID")
	if err := s.sched.Reset(c.Request.Context(), userID); err != nil {
		s.log.Error("reset failed", zap.Error(err), zap.String("userID", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// addSubscriptionRequest mirrors the browser's PushSubscription JSON.
type addSubscriptionRequest struct {
	Endpoint string `json:"endpoint"`
	Keys     struct {
		P256dh string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
}

// addSubscription registers a browser push endpoint for the user.
func (s *Server) addSubscription(c *gin.Context) {
	userID := c.Param("userID")

	var req addSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Endpoint == "" || req.Keys.P256dh == "" || req.Keys.Auth == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subscription"})
		return
	}

	sub := &domain.PushSubscription{
		ID:        uuid.New(),
		UserID:    userID,
		Endpoint:  req.Endpoint,
		P256dh:    req.Keys.P256dh,
		Auth:      req.Keys.Auth,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.AddSubscription(c.Request.Context(), sub); err != nil {
		s.log.Error("add subscription failed", zap.Error(err), zap.String("userID", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register subscription"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": sub.ID})
}

// removeSubscription drops one of the user's push endpoints.
func (s *Server) removeSubscription(c *gin.Context) {
	if err := s.repo.RemoveSubscription(c.Request.Context(), c.Param("userID"), c.Param("id")); err != nil {
		s.log.Error("remove subscription failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove subscription"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// vapidKey hands the browser the public key it needs for pushManager.subscribe.
func (s *Server) vapidKey(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"key": s.vapidPublic})
}

// serviceWorker serves the embedded worker script that renders pushes.
func (s *Server) serviceWorker(c *gin.Context) {
	c.Data(http.StatusOK, "application/javascript; charset=utf-8", assets.ServiceWorker)
}
