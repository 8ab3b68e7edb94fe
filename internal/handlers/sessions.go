package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"irrigation_controller/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid   = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// RecordSessionRequest is a finished watering.
type RecordSessionRequest struct {
	ZoneID     string    `json:"zoneId" binding:"required" example:"neskov-plastenik"`
	StartTime  time.Time `json:"startTime" binding:"required" example:"2025-03-17T06:00:00Z"`
	EndTime    time.Time `json:"endTime" binding:"required" example:"2025-03-17T06:30:00Z"`
	WaterUsage float64   `json:"waterUsage" example:"1250"`
	Automatic  bool      `json:"automatic"`
}

// isDateOnly reports whether the query string represents a date without time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

// historyFilter reads from, to and zoneId. A date-only 'to' covers the whole day.
func historyFilter(c *gin.Context) (service.HistoryFilter, string) {
	var (
		f   = service.HistoryFilter{ZoneID: strings.TrimSpace(c.Query("zoneId"))}
		err error
	)
	if qs := c.Query("from"); qs != "" {
		if f.From, err = parseQueryTime(qs); err != nil {
			return f, errFromInvalid
		}
	}
	if qs := c.Query("to"); qs != "" {
		if f.To, err = parseQueryTime(qs); err != nil {
			return f, errToInvalid
		}
		if isDateOnly(qs) {
			f.To = f.To.Add(24*time.Hour - time.Nanosecond).UTC()
		}
	}
	return f, ""
}

// @Summary      List watering sessions
// @Description  Filter by start time (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD') and zone. A date-only 'to' is end-of-day inclusive.
// @Tags         history
// @Produce      json
// @Param        from    query     string  false  "Start of range"  example(2025-03-01)
// @Param        to      query     string  false  "End of range"    example(2025-03-31)
// @Param        zoneId  query     string  false  "Zone id"
// @Success      200     {object}  map[string]interface{}  "count, sessions"
// @Failure      400     {object}  map[string]string
// @Router       /api/v1/sessions [get]
func (h *Handler) listSessions(c *gin.Context) {
	f, msg := historyFilter(c)
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	sessions, err := h.services.History.List(c.Request.Context(), f)
	if err != nil {
		h.serviceError(c, err, "sessions_list_failed", "from", f.From, "to", f.To, "zone_id", f.ZoneID)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":    len(sessions),
		"sessions": sessions,
	})
}

// @Summary      Record a watering session
// @Tags         history
// @Accept       json
// @Produce      json
// @Param        body  body      RecordSessionRequest  true  "Session"
// @Success      201   {object}  irrigation_controller.WateringSession
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/sessions [post]
func (h *Handler) recordSession(c *gin.Context) {
	var req RecordSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	sess, err := h.services.History.Record(c.Request.Context(), service.SessionParams{
		ZoneID:     req.ZoneID,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		WaterUsage: req.WaterUsage,
		Automatic:  req.Automatic,
	})
	if err != nil {
		h.serviceError(c, err, "session_record_failed")
		return
	}
	c.JSON(http.StatusCreated, sess)
}

// @Summary      Summarize watering sessions
// @Tags         history
// @Produce      json
// @Param        from    query     string  false  "Start of range"
// @Param        to      query     string  false  "End of range"
// @Param        zoneId  query     string  false  "Zone id"
// @Success      200     {object}  service.HistorySummary
// @Failure      400     {object}  map[string]string
// @Router       /api/v1/sessions/summary [get]
func (h *Handler) sessionSummary(c *gin.Context) {
	f, msg := historyFilter(c)
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	sum, err := h.services.History.Summary(c.Request.Context(), f)
	if err != nil {
		h.serviceError(c, err, "sessions_summary_failed")
		return
	}
	c.JSON(http.StatusOK, sum)
}

func parseQueryTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf(
		"invalid time format %q, expected one of: "+
			"RFC3339 (e.g. 2025-08-27T15:04:05Z), "+
			"'YYYY-MM-DD HH:MM:SS', "+
			"'YYYY-MM-DD'",
		s,
	)
}
