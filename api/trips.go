package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Domenick1991/skytrack/internal/domain"
	"github.com/Domenick1991/skytrack/internal/itinerary"
	"github.com/Domenick1991/skytrack/internal/service/lookup"
	"github.com/Domenick1991/skytrack/internal/service/reminders"
	"github.com/Domenick1991/skytrack/internal/service/trips"
)

// PermissionRequester asks for notification permission before a reminder
// is stored.
type PermissionRequester interface {
	RequestPermission(ctx context.Context) (reminders.Permission, error)
}

type TripsHandler struct {
	trips       trips.UseCase
	lookup      lookup.UseCase
	permissions PermissionRequester
	log         *zap.Logger
	now         func() time.Time
}

type nicknameRequest struct {
	Nickname string `json:"nickname"`
}

type reminderResponse struct {
	Trip       domain.SavedTrip     `json:"trip"`
	Permission reminders.Permission `json:"permission"`
}

func NewTripsHandler(trips trips.UseCase, lookup lookup.UseCase, permissions PermissionRequester, log *zap.Logger) *TripsHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &TripsHandler{trips: trips, lookup: lookup, permissions: permissions, log: log, now: time.Now}
}

func (h *TripsHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.POST("", h.save)
	router.POST("/current", h.saveCurrent)
	router.GET("/due", h.due)
	router.DELETE("/:id", h.remove)
	router.PUT("/:id/nickname", h.updateNickname)
	router.PUT("/:id/reminder", h.setReminder)
	router.DELETE("/:id/reminder", h.clearReminder)
}

func (h *TripsHandler) list(c *gin.Context) {
	c.JSON(http.StatusOK, h.trips.List())
}

func (h *TripsHandler) save(c *gin.Context) {
	var snapshot domain.TripSnapshot
	if !bindJSON(c, h.log, &snapshot) {
		return
	}
	if snapshot.BookingNumber == "" {
		respondError(c, h.log, domain.BookingReferenceRequired)
		return
	}
	if snapshot.Reminder != nil {
		if err := snapshot.Reminder.Validate(); err != nil {
			respondError(c, h.log, err)
			return
		}
	}

	trip, err := h.trips.SaveTrip(c.Request.Context(), snapshot)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, trip)
}

func (h *TripsHandler) saveCurrent(c *gin.Context) {
	view := h.lookup.View(sessionID(c))
	if view.State != domain.ViewResults || view.Itinerary == nil {
		respondError(c, h.log, domain.TripNotAvailable)
		return
	}

	trip, err := h.trips.SaveTrip(c.Request.Context(), itinerary.Snapshot(*view.Itinerary))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, trip)
}

func (h *TripsHandler) due(c *gin.Context) {
	c.JSON(http.StatusOK, h.trips.DueReminders(h.now()))
}

func (h *TripsHandler) remove(c *gin.Context) {
	id, ok := h.existing(c)
	if !ok {
		return
	}
	if err := h.trips.RemoveTrip(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TripsHandler) updateNickname(c *gin.Context) {
	var req nicknameRequest
	if !bindJSON(c, h.log, &req) {
		return
	}
	id, ok := h.existing(c)
	if !ok {
		return
	}
	if err := h.trips.UpdateNickname(c.Request.Context(), id, req.Nickname); err != nil {
		respondError(c, h.log, err)
		return
	}
	h.respondTrip(c, id)
}

func (h *TripsHandler) setReminder(c *gin.Context) {
	var reminder domain.Reminder
	if !bindJSON(c, h.log, &reminder) {
		return
	}
	if err := reminder.Validate(); err != nil {
		respondError(c, h.log, err)
		return
	}
	id, ok := h.existing(c)
	if !ok {
		return
	}

	permission := reminders.PermissionDefault
	if h.permissions != nil {
		p, err := h.permissions.RequestPermission(c.Request.Context())
		if err != nil {
			h.log.Warn("notification permission request failed", zap.Error(err))
		} else {
			permission = p
		}
	}

	if err := h.trips.SetReminder(c.Request.Context(), id, reminder); err != nil {
		respondError(c, h.log, err)
		return
	}
	trip, _ := h.trips.Get(id)
	c.JSON(http.StatusOK, reminderResponse{Trip: trip, Permission: permission})
}

func (h *TripsHandler) clearReminder(c *gin.Context) {
	id, ok := h.existing(c)
	if !ok {
		return
	}
	if err := h.trips.ClearReminder(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	h.respondTrip(c, id)
}

func (h *TripsHandler) existing(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, ok := h.trips.Get(id); !ok {
		respondError(c, h.log, domain.TripNotFound)
		return "", false
	}
	return id, true
}

func (h *TripsHandler) respondTrip(c *gin.Context, id string) {
	trip, ok := h.trips.Get(id)
	if !ok {
		respondError(c, h.log, domain.TripNotFound)
		return
	}
	c.JSON(http.StatusOK, trip)
}
