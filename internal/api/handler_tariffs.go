package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"curbside-backend/internal/parse"
)

type windowResponse struct {
	Weekday string `json:"weekday"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

type tariffStatusResponse struct {
	TariffID  string     `json:"tariff_id"`
	At        time.Time  `json:"at"`
	ActiveNow bool       `json:"active_now"`
	NextStart *time.Time `json:"next_start,omitempty"`
	NextEnd   *time.Time `json:"next_end,omitempty"`
}

// GetTariffWindows handles GET /api/tariffs/{tariff_id}/windows.
func (h *Handler) GetTariffWindows(c *gin.Context) {
	tariffID := c.Param("tariff_id")
	windows, err := h.tariffs.Windows(c.Request.Context(), tariffID)
	if err != nil {
		writeError(c, err)
		return
	}
	if len(windows) == 0 {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Unknown tariff"})
		return
	}

	response := make([]windowResponse, 0, len(windows))
	for _, w := range windows {
		response = append(response, windowResponse{
			Weekday: strings.ToLower(w.Weekday.String()),
			Start:   parse.FormatClock(w.StartMinute),
			End:     parse.FormatClock(w.EndMinute),
		})
	}
	c.JSON(http.StatusOK, response)
}

// GetTariffStatus handles GET /api/tariffs/{tariff_id}/status?at=.
func (h *Handler) GetTariffStatus(c *gin.Context) {
	at, ok := h.parseAt(c)
	if !ok {
		return
	}
	tariffID := c.Param("tariff_id")
	at = at.In(h.tariffs.Location())

	st, err := h.tariffs.GetStatus(c.Request.Context(), tariffID, at)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tariffStatusResponse{
		TariffID:  tariffID,
		At:        at,
		ActiveNow: st.ActiveNow,
		NextStart: st.NextStart,
		NextEnd:   st.NextEnd,
	})
}
