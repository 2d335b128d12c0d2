package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"curbside-backend/internal/budget"
	"curbside-backend/internal/evaluate"
	"curbside-backend/internal/permit"
	"curbside-backend/internal/session"
	"curbside-backend/internal/tariff"
)

// PermitResolver turns a permit reference into a snapshot.
type PermitResolver interface {
	Resolve(ctx context.Context, permitID, vehicleID string, at time.Time) (permit.Snapshot, error)
}

// Deps are the services the handlers call into.
type Deps struct {
	Evaluator         *evaluate.Evaluator
	Permits           PermitResolver
	Sessions          *session.Service
	Ledger            *budget.Ledger
	Tariffs           *tariff.Calendar
	DefaultMinParking int
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	evaluator         *evaluate.Evaluator
	permits           PermitResolver
	sessions          *session.Service
	ledger            *budget.Ledger
	tariffs           *tariff.Calendar
	defaultMinParking int
	now               func() time.Time
}

// NewHandler creates a new API handler.
func NewHandler(d Deps) *Handler {
	return &Handler{
		evaluator:         d.Evaluator,
		permits:           d.Permits,
		sessions:          d.Sessions,
		ledger:            d.Ledger,
		tariffs:           d.Tariffs,
		defaultMinParking: d.DefaultMinParking,
		now:               time.Now,
	}
}

// instant returns at when set, otherwise the current time.
func (h *Handler) instant(at *time.Time) time.Time {
	if at != nil && !at.IsZero() {
		return *at
	}
	return h.now()
}

// parseAt reads an optional RFC3339 query parameter.
func (h *Handler) parseAt(c *gin.Context) (time.Time, bool) {
	raw := c.Query("at")
	if raw == "" {
		return h.now(), true
	}
	at, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid 'at' timestamp format. Use RFC3339."})
		return time.Time{}, false
	}
	return at, true
}

// writeError maps service errors onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrActiveSessionExists), errors.Is(err, session.ErrSessionNotActive):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrSessionNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrVehicleRequired):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("Error handling %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
