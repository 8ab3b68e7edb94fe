package handlers

import (
	"net/http"

	"irrigation_controller/internal/service"

	"github.com/gin-gonic/gin"
)

type createZoneRequest struct {
	Name string `json:"name" binding:"required"`
}

// AddScheduleRequest is the schedule payload as documented in Swagger.
type AddScheduleRequest struct {
	// Start time, 24h "HH:MM"
	StartTime string `json:"startTime" binding:"required" example:"06:00"`
	// Minutes, 1..180
	Duration int `json:"duration" binding:"required" example:"30"`
	// 0=Sunday .. 6=Saturday
	Days   []int `json:"days" binding:"required" example:"1,3,5"`
	Active *bool `json:"active,omitempty"`
}

// @Summary      List zones
// @Description  Default zone first. Each zone carries isActive, canActivate and the next run of each schedule.
// @Tags         zones
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, zones"
// @Router       /api/v1/zones [get]
func (h *Handler) listZones(c *gin.Context) {
	zones, err := h.services.Zones.List(c.Request.Context())
	if err != nil {
		h.serviceError(c, err, "zones_list_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(zones), "zones": zones})
}

// @Summary      Create zone
// @Tags         zones
// @Accept       json
// @Produce      json
// @Param        body  body      createZoneRequest  true  "Zone name"
// @Success      201   {object}  irrigation_controller.Zone
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/zones [post]
func (h *Handler) createZone(c *gin.Context) {
	var req createZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	zone, err := h.services.Zones.Create(c.Request.Context(), req.Name)
	if err != nil {
		h.serviceError(c, err, "zone_create_failed")
		return
	}
	c.JSON(http.StatusCreated, zone)
}

// @Summary      Toggle zone
// @Description  Activation is refused with 409 while water pressure is below 0.5 bar, except for low-pressure-tolerant zones.
// @Tags         zones
// @Produce      json
// @Param        id   path      string  true  "Zone id"
// @Success      200  {object}  service.ZoneView
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/v1/zones/{id}/toggle [post]
func (h *Handler) toggleZone(c *gin.Context) {
	view, err := h.services.Zones.Toggle(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.serviceError(c, err, "zone_toggle_failed", "zone_id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary      Add schedule
// @Tags         zones
// @Accept       json
// @Produce      json
// @Param        id    path      string              true  "Zone id"
// @Param        body  body      AddScheduleRequest  true  "Schedule"
// @Success      201   {object}  irrigation_controller.Schedule
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/zones/{id}/schedules [post]
func (h *Handler) addSchedule(c *gin.Context) {
	var req AddScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	sc, err := h.services.Zones.AddSchedule(c.Request.Context(), c.Param("id"), service.ScheduleParams{
		StartTime: req.StartTime,
		Duration:  req.Duration,
		Days:      req.Days,
		Active:    req.Active,
	})
	if err != nil {
		h.serviceError(c, err, "schedule_add_failed", "zone_id", c.Param("id"))
		return
	}
	c.JSON(http.StatusCreated, sc)
}

// @Summary      Remove schedule
// @Tags         zones
// @Param        id          path  string  true  "Zone id"
// @Param        scheduleId  path  string  true  "Schedule id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/zones/{id}/schedules/{scheduleId} [delete]
func (h *Handler) removeSchedule(c *gin.Context) {
	err := h.services.Zones.RemoveSchedule(c.Request.Context(), c.Param("id"), c.Param("scheduleId"))
	if err != nil {
		h.serviceError(c, err, "schedule_remove_failed", "zone_id", c.Param("id"))
		return
	}
	c.Status(http.StatusNoContent)
}
