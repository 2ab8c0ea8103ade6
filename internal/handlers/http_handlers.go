package handlers

import (
	"io/fs"
	"net/http"

	"lovelottery/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/logger"
)

// HTTPHandler holds the dependencies for the HTTP handlers, like the lottery service.
type HTTPHandler struct {
	service *services.LotteryService
	public  fs.FS
}

// NewHTTPHandler creates a new HTTPHandler. public holds index.html, admin.html and assets/.
func NewHTTPHandler(service *services.LotteryService, public fs.FS) *HTTPHandler {
	return &HTTPHandler{
		service: service,
		public:  public,
	}
}

// RegisterRoutes registers all the application routes.
func (h *HTTPHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/", h.page("index.html"))
	router.GET("/admin.html", h.page("admin.html"))
	if assets, err := fs.Sub(h.public, "assets"); err == nil {
		router.StaticFS("/assets", http.FS(assets))
	}
	router.GET("/healthz", h.Healthz)

	api := router.Group("/api")
	api.GET("/status", h.GetStatus)
	api.POST("/draw", h.PerformDraw)
	api.POST("/reset", h.Reset)
	api.GET("/admin/info", h.GetAdminInfo)
}

// page serves one of the embedded HTML pages.
func (h *HTTPHandler) page(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := fs.ReadFile(h.public, name)
		if err != nil {
			logger.Errorf("Error reading page %s: %v", name, err)
			c.String(http.StatusNotFound, "Page not found")
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", body)
	}
}

// Healthz reports that the process is serving.
func (h *HTTPHandler) Healthz(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// GetStatus returns the draw progress.
func (h *HTTPHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Status(c.Request.Context()))
}

// PerformDraw consumes the next draw.
func (h *HTTPHandler) PerformDraw(c *gin.Context) {
	result, err := h.service.Draw(c.Request.Context())
	if err != nil {
		logger.Errorf("Error performing draw: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "抽奖失败",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"type":    result.Type,
		"result":  result.Result,
		"message": result.Message,
	})
}

// Reset reshuffles the sequence and rewinds progress.
func (h *HTTPHandler) Reset(c *gin.Context) {
	if err := h.service.Reset(c.Request.Context()); err != nil {
		logger.Errorf("Error resetting lottery: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "重置失败",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "抽奖状态已重置",
	})
}

// GetAdminInfo returns the whole draw sequence. It is not protected.
func (h *HTTPHandler) GetAdminInfo(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.AdminInfo(c.Request.Context()))
}
