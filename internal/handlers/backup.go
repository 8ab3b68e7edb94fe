package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"irrigation_controller/internal/backup"

	"github.com/gin-gonic/gin"
)

const backupFormField = "file"

// @Summary      Download backup
// @Tags         backup
// @Produce      json
// @Success      200  {object}  backup.Document
// @Router       /api/v1/backup [get]
func (h *Handler) exportBackup(c *gin.Context) {
	doc, name, err := h.services.Backup.Export(c.Request.Context())
	if err != nil {
		h.serviceError(c, err, "backup_export_failed")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Header("Content-Type", "application/json; charset=utf-8")
	c.Status(http.StatusOK)
	if err := backup.Encode(c.Writer, doc); err != nil && h.log != nil {
		h.log.Errorw("backup_write_failed", "err", err)
	}
}

// @Summary      Restore backup
// @Description  Multipart upload in field "file", or the document itself as an application/json body. Zones and sessions are replaced; nothing changes on failure.
// @Tags         backup
// @Accept       multipart/form-data
// @Accept       json
// @Produce      json
// @Param        file  formData  file  false  "Backup file (.json)"
// @Success      200   {object}  map[string]interface{}  "status, zones, sessions"
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/backup [post]
func (h *Handler) importBackup(c *gin.Context) {
	var body io.Reader = c.Request.Body
	if !strings.HasPrefix(c.ContentType(), "application/json") {
		fh, err := c.FormFile(backupFormField)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing backup file in form field \"file\""})
			return
		}
		f, err := fh.Open()
		if err != nil {
			h.logAndJSONError(c, http.StatusBadRequest, "cannot open uploaded file", "backup_open_failed", err)
			return
		}
		defer f.Close()
		body = f
	}

	st, err := h.services.Backup.Import(c.Request.Context(), body)
	if err != nil {
		h.serviceError(c, err, "backup_import_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "restored",
		"zones":    len(st.Zones),
		"sessions": len(st.Sessions),
	})
}
