package main

import (
	"context"
	"embed"
	"errors"
	"io"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/logger"

	"lovelottery/internal/catalog"
	"lovelottery/internal/config"
	"lovelottery/internal/handlers"
	"lovelottery/internal/services"
	"lovelottery/internal/storage"
)

//go:embed all:public
var publicFS embed.FS

func main() {
	// 1. Load configuration
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Initialize logging
	var logFile io.Writer = io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o660)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer f.Close()
		logFile = f
	}
	defer logger.Init("lovelottery", cfg.Verbose || cfg.LogFile == "", false, logFile).Close()

	// 3. Load the prize catalog
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		logger.Fatalf("Failed to load catalog: %v", err)
	}

	// 4. Initialize the Lottery Service and make sure a state file exists
	lotteryService := services.NewLotteryService(storage.NewFileStore(cfg.StatePath), cat, services.NewRandomSource())
	state := lotteryService.Load(context.Background())
	logger.Infof("Lottery state at %s: %d/%d draws used", cfg.StatePath, state.CurrentDrawIndex, state.TotalDraws)

	// 5. Build the router
	public, err := fs.Sub(publicFS, "public")
	if err != nil {
		logger.Fatalf("Failed to create public sub-filesystem: %v", err)
	}
	gin.SetMode(cfg.GinMode)
	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handlers.NewRouter(lotteryService, public, cfg.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 6. Run the server until interrupted
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Infof("🎉 Lottery server starting")
		logger.Infof("📱 Front page: http://localhost%s", cfg.Addr())
		logger.Infof("🔧 Admin page: http://localhost%s/admin.html", cfg.Addr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Failed to run server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Shutdown error: %v", err)
	}
}
