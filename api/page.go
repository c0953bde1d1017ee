package api

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Domenick1991/skytrack/internal/domain"
	"github.com/Domenick1991/skytrack/internal/service/lookup"
	"github.com/Domenick1991/skytrack/internal/service/trips"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const indexTemplate = "index.html.tmpl"

// Templates parses the page templates for gin's HTML renderer.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.tmpl"))
}

type PageHandler struct {
	lookup lookup.UseCase
	trips  trips.UseCase
	log    *zap.Logger
}

type leg struct {
	Segment domain.FlightSegment
	Layover *domain.Layover
}

type pageData struct {
	View  domain.View
	Legs  []leg
	Trips []domain.SavedTrip
	Error string
}

func NewPageHandler(lookup lookup.UseCase, trips trips.UseCase, log *zap.Logger) *PageHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &PageHandler{lookup: lookup, trips: trips, log: log}
}

func (h *PageHandler) Register(router gin.IRouter) {
	router.GET("/", h.index)
}

// index renders the session view. A ?booking= query starts a search first.
func (h *PageHandler) index(c *gin.Context) {
	session := sessionID(c)

	data := pageData{Trips: h.trips.List()}
	view := h.lookup.View(session)
	if ref := c.Query("booking"); ref != "" {
		v, err := h.lookup.Search(session, ref)
		if err != nil {
			data.Error = err.Error()
		}
		view = v
	}

	if view.State == domain.ViewResults && view.Itinerary != nil {
		view.Saved = h.trips.IsSaved(view.Reference)
		data.Legs = legs(*view.Itinerary)
	}
	data.View = view

	c.HTML(http.StatusOK, indexTemplate, data)
}

func legs(it domain.Itinerary) []leg {
	out := make([]leg, 0, len(it.Segments))
	for i, s := range it.Segments {
		l := leg{Segment: s}
		if i < len(it.Layovers) && i < len(it.Segments)-1 {
			layover := it.Layovers[i]
			l.Layover = &layover
		}
		out = append(out, l)
	}
	return out
}
