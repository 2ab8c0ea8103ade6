package handlers

import (
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"

	"lovelottery/internal/services"
)

// NewRouter wires middleware, the lottery routes and /metrics, then wraps
// the engine in CORS handling for the given origins.
func NewRouter(service *services.LotteryService, public fs.FS, allowedOrigins []string) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggingMiddleware())

	metrics := NewMetrics()
	r.Use(metrics.Middleware())
	metrics.Register(r)

	NewHTTPHandler(service, public).RegisterRoutes(r)

	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", headerRequestID},
		ExposedHeaders:   []string{headerRequestID},
		AllowCredentials: false,
		MaxAge:           60 * 15,
	})(r)
}
