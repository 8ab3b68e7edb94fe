package handlers

import (
	"net/http"

	"irrigation_controller/internal/service"

	"github.com/gin-gonic/gin"
)

// NotificationSettingsRequest toggles notification kinds; omitted fields are kept.
type NotificationSettingsRequest struct {
	SystemAlerts     *bool `json:"systemAlerts,omitempty"`
	WateringEvents   *bool `json:"wateringEvents,omitempty"`
	PressureWarnings *bool `json:"pressureWarnings,omitempty"`
	DailyReport      *bool `json:"dailyReport,omitempty"`
}

// @Summary      List notifications
// @Tags         notifications
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, notifications"
// @Router       /api/v1/notifications [get]
func (h *Handler) listNotifications(c *gin.Context) {
	ns, err := h.services.Notifications.List(c.Request.Context())
	if err != nil {
		h.serviceError(c, err, "notifications_list_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(ns), "notifications": ns})
}

// @Summary      Dismiss notification
// @Description  Dismissing an unknown id is not an error.
// @Tags         notifications
// @Param        id  path  string  true  "Notification id"
// @Success      204
// @Router       /api/v1/notifications/{id} [delete]
func (h *Handler) dismissNotification(c *gin.Context) {
	if err := h.services.Notifications.Dismiss(c.Request.Context(), c.Param("id")); err != nil {
		h.serviceError(c, err, "notification_dismiss_failed", "notification_id", c.Param("id"))
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary      Get notification settings
// @Tags         settings
// @Produce      json
// @Success      200  {object}  irrigation_controller.NotificationSettings
// @Router       /api/v1/settings/notifications [get]
func (h *Handler) getNotificationSettings(c *gin.Context) {
	s, err := h.services.Notifications.Settings(c.Request.Context())
	if err != nil {
		h.serviceError(c, err, "notification_settings_get_failed")
		return
	}
	c.JSON(http.StatusOK, s)
}

// @Summary      Update notification settings
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        body  body      NotificationSettingsRequest  true  "Partial settings"
// @Success      200   {object}  irrigation_controller.NotificationSettings
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/settings/notifications [patch]
func (h *Handler) updateNotificationSettings(c *gin.Context) {
	var req NotificationSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	s, err := h.services.Notifications.UpdateSettings(c.Request.Context(), service.NotificationSettingsParams{
		SystemAlerts:     req.SystemAlerts,
		WateringEvents:   req.WateringEvents,
		PressureWarnings: req.PressureWarnings,
		DailyReport:      req.DailyReport,
	})
	if err != nil {
		h.serviceError(c, err, "notification_settings_update_failed")
		return
	}
	c.JSON(http.StatusOK, s)
}
