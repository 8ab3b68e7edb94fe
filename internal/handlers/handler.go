package handlers

import (
	"net/http"
	"time"

	"irrigation_controller/internal/logger"
	"irrigation_controller/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RequestObserver records finished HTTP requests, typically into metrics.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services   *service.Service
	log        *logger.Logger
	metrics    http.Handler
	requests   RequestObserver
	wsInterval time.Duration
}

// Option customizes a Handler.
type Option func(*Handler)

// WithMetrics serves h on GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(hd *Handler) { hd.metrics = h }
}

// WithRequestObserver reports every request to obs.
func WithRequestObserver(obs RequestObserver) Option {
	return func(hd *Handler) { hd.requests = obs }
}

// WithWSInterval sets the default overview refresh period of /ws.
func WithWSInterval(d time.Duration) Option {
	return func(hd *Handler) {
		if d > 0 && d <= maxInterval {
			hd.wsInterval = d
		}
	}
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, opts ...Option) *Handler {
	h := &Handler{services: services, log: log, wsInterval: defaultInterval}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)
	if h.metrics != nil {
		router.GET("/metrics", gin.WrapH(h.metrics))
	}

	h.registerAPIRoutes(router)

	// Snapshot push on every commit; same port.
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		h.registerZoneRoutes(api)
		h.registerStatusRoutes(api)
		h.registerSessionRoutes(api)
		h.registerNotificationRoutes(api)
		h.registerSettingsRoutes(api)
		h.registerBackupRoutes(api)
	}
}

func (h *Handler) registerZoneRoutes(api *gin.RouterGroup) {
	zones := api.Group("/zones")
	{
		zones.GET("", h.listZones)
		zones.POST("", h.createZone)
		zones.POST("/:id/toggle", h.toggleZone)
		// Body example: {"startTime":"06:00","duration":30,"days":[1,3,5]}
		zones.POST("/:id/schedules", h.addSchedule)
		zones.DELETE("/:id/schedules/:scheduleId", h.removeSchedule)
	}
}

func (h *Handler) registerStatusRoutes(api *gin.RouterGroup) {
	api.GET("/status", h.getStatus)
	api.PUT("/status", h.updateStatus)
	api.GET("/overview", h.getOverview)
}

func (h *Handler) registerSessionRoutes(api *gin.RouterGroup) {
	sessions := api.Group("/sessions")
	{
		sessions.GET("", h.listSessions)
		sessions.POST("", h.recordSession)
		sessions.GET("/summary", h.sessionSummary)
	}
}

func (h *Handler) registerNotificationRoutes(api *gin.RouterGroup) {
	notifications := api.Group("/notifications")
	{
		notifications.GET("", h.listNotifications)
		notifications.DELETE("/:id", h.dismissNotification)
	}
}

func (h *Handler) registerSettingsRoutes(api *gin.RouterGroup) {
	settings := api.Group("/settings")
	{
		settings.GET("/notifications", h.getNotificationSettings)
		settings.PATCH("/notifications", h.updateNotificationSettings)
		settings.GET("/site", h.getSiteSettings)
		settings.PATCH("/site", h.updateSiteSettings)
	}
}

func (h *Handler) registerBackupRoutes(api *gin.RouterGroup) {
	api.GET("/backup", h.exportBackup)
	api.POST("/backup", h.importBackup)
}
