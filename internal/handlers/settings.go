package handlers

import (
	"net/http"

	"irrigation_controller/internal/service"

	"github.com/gin-gonic/gin"
)

type siteSettingsRequest struct {
	OGImage *string `json:"ogImage,omitempty"`
}

// @Summary      Get site settings
// @Tags         settings
// @Produce      json
// @Success      200  {object}  irrigation_controller.SiteSettings
// @Router       /api/v1/settings/site [get]
func (h *Handler) getSiteSettings(c *gin.Context) {
	s, err := h.services.Site.Get(c.Request.Context())
	if err != nil {
		h.serviceError(c, err, "site_settings_get_failed")
		return
	}
	c.JSON(http.StatusOK, s)
}

// @Summary      Update site settings
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        body  body      siteSettingsRequest  true  "Partial settings"
// @Success      200   {object}  irrigation_controller.SiteSettings
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/settings/site [patch]
func (h *Handler) updateSiteSettings(c *gin.Context) {
	var req siteSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	s, err := h.services.Site.Update(c.Request.Context(), service.SiteParams{OGImage: req.OGImage})
	if err != nil {
		h.serviceError(c, err, "site_settings_update_failed")
		return
	}
	c.JSON(http.StatusOK, s)
}
