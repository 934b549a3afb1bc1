package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/plantops/yield-rewind/internal/config"
	"github.com/plantops/yield-rewind/internal/database"
	"github.com/plantops/yield-rewind/internal/entities"
	http_controllers "github.com/plantops/yield-rewind/internal/http"
	"github.com/plantops/yield-rewind/internal/remote"
	"github.com/plantops/yield-rewind/internal/scheduler"
	"github.com/plantops/yield-rewind/internal/syncer"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt before shutting down with a deadline. SIGKILL cannot
	// be caught, so only SIGINT and SIGTERM are handled.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background work (scheduler) before closing the listener.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Yield-Rewind v%s", version)

	epoch, err := time.Parse(entities.DateLayout, cfg.Sync.Epoch)
	if err != nil {
		log.Fatalf("Invalid sync epoch %q: %v", cfg.Sync.Epoch, err)
	}

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	if cfg.Remote.Server == "" {
		log.Printf("WARNING: remote database host is not set. Syncs will fail until 'DB_SERVER' is configured.")
	}

	client, err := remote.NewClient(cfg.Remote)
	if err != nil {
		log.Fatalf("Failed to initialize remote client: %v", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			log.Printf("Error closing remote client: %v", err)
		}
	}()

	engine := syncer.NewEngine(db.DB, client, epoch)

	sched := scheduler.New(engine, cfg.Scheduler)
	if err := sched.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start sync scheduler: %v", err)
	}

	router := http_controllers.SetupRouter(db, sched, version)

	onShutdown := func(ctx context.Context) {
		sched.Stop()
	}

	Serve(router, cfg, onShutdown)
}
