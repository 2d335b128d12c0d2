package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"curbside-backend/internal/budget"
)

// BudgetResponse is the remaining free allowance of a vehicle on one anchor day.
type BudgetResponse struct {
	VehicleID        string `json:"vehicle_id"`
	AnchorDate       string `json:"anchor_date"`
	AllowanceMinutes int    `json:"allowance_minutes"`
	RemainingMinutes int    `json:"remaining_minutes"`
}

// GetBudget handles GET /api/vehicles/{vehicle_id}/budget. It never creates a ledger row.
func (h *Handler) GetBudget(c *gin.Context) {
	at, ok := h.parseAt(c)
	if !ok {
		return
	}
	vehicleID := c.Param("vehicle_id")
	anchor := h.ledger.ToAnchor(at)

	remaining, err := h.ledger.GetRemainingMinutes(c.Request.Context(), vehicleID, anchor)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, BudgetResponse{
		VehicleID:        vehicleID,
		AnchorDate:       anchor.Format("2006-01-02"),
		AllowanceMinutes: budget.DailyAllowanceMinutes,
		RemainingMinutes: remaining,
	})
}
