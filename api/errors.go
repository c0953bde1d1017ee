package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Domenick1991/skytrack/internal/domain"
	"github.com/Domenick1991/skytrack/internal/middleware"
)

type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

const internalErrorCode = "INTERNAL_ERROR"

// respondError maps business errors to 4xx with their code. Anything else
// is logged and reported as 500.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	def, ok := domain.AsDefinition(err)
	if !ok {
		log.Error("request failed",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{
			Code:  internalErrorCode,
			Error: http.StatusText(http.StatusInternalServerError),
		})
		return
	}

	c.AbortWithStatusJSON(statusFor(def), errorResponse{Code: def.Code, Error: err.Error()})
}

func statusFor(def domain.Definition) int {
	switch {
	case errors.Is(def, domain.TripNotFound):
		return http.StatusNotFound
	case errors.Is(def, domain.TripNotAvailable), errors.Is(def, domain.ItineraryNotAvailable):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func bindJSON[T any](c *gin.Context, log *zap.Logger, dst *T) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, log, domain.InvalidRequest.With(err.Error()))
		return false
	}
	return true
}
