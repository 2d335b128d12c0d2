package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"curbside-backend/internal/session"
)

type startSessionRequest struct {
	VehicleID      string         `json:"vehicle_id" binding:"required"`
	PermitID       string         `json:"permit_id"`
	PlannedMinutes int            `json:"planned_minutes"`
	At             *time.Time     `json:"at"`
	Segment        segmentRequest `json:"segment"`
}

type stopSessionRequest struct {
	At *time.Time `json:"at"`
}

// StartSession handles POST /api/sessions.
func (h *Handler) StartSession(c *gin.Context) {
	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	facts, err := req.Segment.facts()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, err := h.sessions.Start(c.Request.Context(), session.StartRequest{
		VehicleID:      req.VehicleID,
		PermitID:       req.PermitID,
		Segment:        facts,
		PlannedMinutes: req.PlannedMinutes,
		At:             h.instant(req.At),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sess)
}

// StopSession handles POST /api/sessions/{session_id}/stop. The body is optional.
func (h *Handler) StopSession(c *gin.Context) {
	var req stopSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	sess, calc, err := h.sessions.Stop(c.Request.Context(), c.Param("session_id"), h.instant(req.At))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": sess, "calculation": calc})
}

// GetActiveSession handles GET /api/vehicles/{vehicle_id}/session.
func (h *Handler) GetActiveSession(c *gin.Context) {
	sess, err := h.sessions.Active(c.Request.Context(), c.Param("vehicle_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}
