package handlers

import (
	"net/http"

	"irrigation_controller/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateStatusRequest is a partial status update; omitted fields are kept.
type UpdateStatusRequest struct {
	// Bars, nominally 0-5
	WaterPressure *float64 `json:"waterPressure,omitempty" example:"3.2"`
	// automatic | online
	OperationMode *string `json:"operationMode,omitempty" example:"automatic"`
}

// @Summary      Get system status
// @Tags         status
// @Produce      json
// @Success      200  {object}  irrigation_controller.SystemStatus
// @Router       /api/v1/status [get]
func (h *Handler) getStatus(c *gin.Context) {
	st, err := h.services.Monitoring.Status(c.Request.Context())
	if err != nil {
		h.serviceError(c, err, "status_get_failed")
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Update system status
// @Description  Merges the given fields and always refreshes the timestamp. Pressure drops below 2 and 0.5 bar raise notifications.
// @Tags         status
// @Accept       json
// @Produce      json
// @Param        body  body      UpdateStatusRequest  true  "Partial status"
// @Success      200   {object}  irrigation_controller.SystemStatus
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/status [put]
func (h *Handler) updateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	st, err := h.services.Monitoring.UpdateStatus(c.Request.Context(), service.StatusParams{
		WaterPressure: req.WaterPressure,
		OperationMode: req.OperationMode,
	})
	if err != nil {
		h.serviceError(c, err, "status_update_failed")
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Dashboard overview
// @Tags         status
// @Produce      json
// @Success      200  {object}  service.Overview
// @Router       /api/v1/overview [get]
func (h *Handler) getOverview(c *gin.Context) {
	ov, err := h.services.Monitoring.Overview(c.Request.Context())
	if err != nil {
		h.serviceError(c, err, "overview_get_failed")
		return
	}
	c.JSON(http.StatusOK, ov)
}
