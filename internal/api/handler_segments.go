package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"curbside-backend/internal/availability"
	"curbside-backend/internal/evaluate"
	"curbside-backend/internal/segment"
)

type segmentRequest struct {
	ID          string          `json:"id" binding:"required"`
	ZoneCode    string          `json:"zone_code"`
	TariffID    string          `json:"tariff_id"`
	ParkingType string          `json:"parking_type" binding:"required"`
	Geometry    json.RawMessage `json:"geometry"`
}

func (r segmentRequest) facts() (segment.Facts, error) {
	pt, err := segment.ParseParkingType(r.ParkingType)
	if err != nil {
		return segment.Facts{}, err
	}
	return segment.Facts{
		ID:          r.ID,
		ZoneCode:    r.ZoneCode,
		TariffID:    r.TariffID,
		ParkingType: pt,
		Geometry:    r.Geometry,
	}, nil
}

type evaluateRequest struct {
	PermitID          string           `json:"permit_id"`
	VehicleID         string           `json:"vehicle_id"`
	At                *time.Time       `json:"at"`
	MinParkingMinutes int              `json:"min_parking_minutes"`
	Segments          []segmentRequest `json:"segments" binding:"required,min=1,dive"`
}

type evaluationResponse struct {
	SegmentID       string                    `json:"segment_id"`
	Group           string                    `json:"group"`
	Reason          string                    `json:"reason"`
	ReasonAt        *time.Time                `json:"reason_at,omitempty"`
	Message         string                    `json:"message"`
	PayNow          bool                      `json:"pay_now"`
	PayLater        bool                      `json:"pay_later"`
	Availability    availability.Availability `json:"availability"`
	TariffNextStart *time.Time                `json:"tariff_next_start,omitempty"`
	TariffNextEnd   *time.Time                `json:"tariff_next_end,omitempty"`
	Geometry        json.RawMessage           `json:"geometry,omitempty"`
}

func newEvaluationResponse(ev evaluate.Evaluation) evaluationResponse {
	return evaluationResponse{
		SegmentID:       ev.Segment.ID,
		Group:           string(ev.Result.Group),
		Reason:          string(ev.Result.Reason),
		ReasonAt:        ev.Result.At,
		Message:         ev.Result.Message(),
		PayNow:          ev.Result.PayNow,
		PayLater:        ev.Result.PayLater,
		Availability:    ev.Availability,
		TariffNextStart: ev.Calendar.NextStart,
		TariffNextEnd:   ev.Calendar.NextEnd,
		Geometry:        ev.Segment.Geometry,
	}
}

// EvaluateSegments handles POST /api/segments/evaluate.
func (h *Handler) EvaluateSegments(c *gin.Context) {
	var req evaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	facts := make([]segment.Facts, 0, len(req.Segments))
	for _, s := range req.Segments {
		f, err := s.facts()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		facts = append(facts, f)
	}

	ctx := c.Request.Context()
	now := h.instant(req.At)
	pov, err := h.permits.Resolve(ctx, req.PermitID, req.VehicleID, now)
	if err != nil {
		writeError(c, err)
		return
	}

	minParking := evaluate.NormalizeMinParking(req.MinParkingMinutes, h.defaultMinParking)
	evals, err := h.evaluator.Evaluate(ctx, evaluate.Request{
		Segments:          facts,
		Permit:            pov,
		Now:               now,
		MinParkingMinutes: minParking,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]evaluationResponse, 0, len(evals))
	for _, ev := range evals {
		out = append(out, newEvaluationResponse(ev))
	}
	c.JSON(http.StatusOK, gin.H{
		"evaluated_at":        now,
		"min_parking_minutes": minParking,
		"segments":            out,
	})
}
