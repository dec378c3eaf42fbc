package handlers

import (
	"beltsense/internal/logger"
	"beltsense/internal/notify"
	"beltsense/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services, the device hub and logging.
type Handler struct {
	services *service.Service
	hub      *notify.Hub
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, hub *notify.Hub, log *logger.Logger) *Handler {
	return &Handler{services: services, hub: hub, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Chute-status endpoints consumed by the warehouse web app (public,
	// route shape matches what the app already calls)
	h.registerStatusRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	// Companion-device WebSocket (HTTP upgrade) — same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerStatusRoutes(r *gin.Engine) {
	r.GET("/status", h.listChutes)
	r.GET("/status/getByBarcode/:barcode", h.getChuteByBarcode)
	r.GET("/status/getById/:id", h.getChuteByID)
	r.PUT("/updateByBarcode/:barcode", h.updateChuteByBarcode)
	r.PUT("/update/:id", h.updateChuteByID)
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.userIdMiddleware)
	{
		h.registerAlertRoutes(api)
		h.registerChatRoutes(api)
	}
}

func (h *Handler) registerAlertRoutes(api *gin.RouterGroup) {
	alerts := api.Group("/alerts")
	{
		alerts.GET("/", h.listAlerts)
		// Body example: {"source":"Chute 3","fillLevel":92}
		alerts.POST("/readings", h.submitReading)
		alerts.DELETE("/:source", h.dismissAlert)
	}
}

func (h *Handler) registerChatRoutes(api *gin.RouterGroup) {
	chat := api.Group("/chat")
	{
		chat.POST("/open", h.openChat)
		chat.POST("/messages", h.sendChatMessage)
		chat.GET("/messages", h.getChatMessages)
		chat.POST("/close", h.closeChat)
	}
}
