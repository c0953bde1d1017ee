package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Domenick1991/skytrack/internal/domain"
	"github.com/Domenick1991/skytrack/internal/itinerary"
	"github.com/Domenick1991/skytrack/internal/service/lookup"
)

// SavedChecker reports whether a booking reference is among the saved trips.
type SavedChecker interface {
	IsSaved(bookingNumber string) bool
}

type LookupHandler struct {
	lookup lookup.UseCase
	saved  SavedChecker
	log    *zap.Logger
}

type searchRequest struct {
	BookingNumber string `json:"booking_number"`
}

func NewLookupHandler(lookup lookup.UseCase, saved SavedChecker, log *zap.Logger) *LookupHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &LookupHandler{lookup: lookup, saved: saved, log: log}
}

func (h *LookupHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.view)
	router.POST("", h.search)
	router.DELETE("", h.backToSearch)
	router.GET("/itinerary.txt", h.export)
}

func (h *LookupHandler) view(c *gin.Context) {
	c.JSON(http.StatusOK, h.decorate(h.lookup.View(sessionID(c))))
}

func (h *LookupHandler) search(c *gin.Context) {
	var req searchRequest
	if !bindJSON(c, h.log, &req) {
		return
	}

	view, err := h.lookup.Search(sessionID(c), req.BookingNumber)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusAccepted, h.decorate(view))
}

func (h *LookupHandler) backToSearch(c *gin.Context) {
	c.JSON(http.StatusOK, h.decorate(h.lookup.BackToSearch(sessionID(c))))
}

func (h *LookupHandler) export(c *gin.Context) {
	view := h.lookup.View(sessionID(c))
	if view.State != domain.ViewResults || view.Itinerary == nil {
		respondError(c, h.log, domain.ItineraryNotAvailable)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+itinerary.Filename(view.Reference)+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(itinerary.RenderText(*view.Itinerary)))
}

func (h *LookupHandler) decorate(view domain.View) domain.View {
	if view.State == domain.ViewResults && h.saved != nil {
		view.Saved = h.saved.IsSaved(view.Reference)
	}
	return view
}
