// Package server assembles the application: configuration, database,
// cache, storage, queue workers, scheduler, event listeners, routes and
// the HTTP listener with graceful shutdown.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/gorm"

	"github.com/gfmachado/autorevenda/app/controllers"
	"github.com/gfmachado/autorevenda/app/jobs"
	"github.com/gfmachado/autorevenda/app/repositories"
	"github.com/gfmachado/autorevenda/app/routes"
	"github.com/gfmachado/autorevenda/app/services"
	"github.com/gfmachado/autorevenda/config"
	"github.com/gfmachado/autorevenda/pkg/cache"
	"github.com/gfmachado/autorevenda/pkg/database"
	"github.com/gfmachado/autorevenda/pkg/logger"
	"github.com/gfmachado/autorevenda/pkg/metrics"
	"github.com/gfmachado/autorevenda/pkg/middleware"
	"github.com/gfmachado/autorevenda/pkg/queue"
	"github.com/gfmachado/autorevenda/pkg/reqid"
	"github.com/gfmachado/autorevenda/pkg/router"
	"github.com/gfmachado/autorevenda/pkg/schedule"
	"github.com/gfmachado/autorevenda/pkg/storage"
	"github.com/gfmachado/autorevenda/pkg/workerpool"
	"github.com/gfmachado/autorevenda/pkg/ws"
)

// Start boots everything and blocks until SIGINT/SIGTERM, then drains
// in-flight requests and background work before returning.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	if uri := config.LogMongoURI(); uri != "" {
		if h, err := logger.AttachMongo(uri, config.LogMongoDatabase(), config.LogMongoCollection()); err != nil {
			logger.Warn("mongo log sink unavailable", "error", err)
		} else {
			defer h.Close()
		}
	}

	db, err := database.Connect(config.DatabaseDriver(), config.DatabaseDSN())
	if err != nil {
		return err
	}
	queue.UseDB(db)

	store, err := cache.Connect(config.RedisAddr(), config.RedisPassword())
	if err != nil {
		// The cache is an accelerator, not a dependency: repositories
		// no-op on a nil store.
		logger.Warn("redis unavailable, running without cache", "error", err)
		store = nil
	} else {
		defer store.Close()
	}

	disk, err := storage.New(config.StorageDisk())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startQueue(ctx, store)
	unlinks := workerpool.New(4)
	defer unlinks.Shutdown()

	r := buildRouter(ctx, db, store, disk, unlinks)

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server started", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// startQueue picks the queue driver, registers the job types and spawns
// the workers.
func startQueue(ctx context.Context, store *cache.Store) {
	jobs.Register()

	if config.QueueDriver() == "redis" && store != nil {
		queue.SetDriver(queue.NewRedisDriver(store.Client()))
	} else {
		queue.SetDriver(queue.NewMemoryDriver())
	}
	queue.StartWorkers(ctx, config.QueueWorkers())
}

// buildRouter wires repositories, services, event listeners and routes.
func buildRouter(ctx context.Context, db *gorm.DB, store *cache.Store, disk storage.Disk, unlinks *workerpool.Pool) *router.Router {
	admins := repositories.NewAdminRepository(db)
	customers := repositories.NewCustomerRepository(db)
	categories := repositories.NewCategoryRepository(db, store)
	vehicles := repositories.NewVehicleRepository(db)
	sales := repositories.NewSaleRepository(db)
	dashboard := repositories.NewDashboardRepository(db, store)

	authenticator := services.NewAuthenticator(admins, customers)

	hub := ws.NewHub()
	go hub.Run()
	services.NewDashboardFeed(hub, dashboard).Listen()

	// Orphaned uploads only make sense to sweep on the local disk; on S3
	// the bucket's own lifecycle rules apply.
	if config.StorageDisk() == "local" {
		services.NewImageReconciler(disk, vehicles).Register()
	}
	schedule.Start(ctx)

	r := router.New()
	r.Use(
		metrics.Middleware(),
		reqid.Middleware(),
		middleware.Recovery,
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
	)

	routes.RegisterAPI(r, routes.Controllers{
		Admins:     controllers.NewAdminsController(authenticator),
		Auth:       controllers.NewAuthController(customers, authenticator),
		Customers:  controllers.NewCustomersController(customers),
		Vehicles:   controllers.NewVehiclesController(vehicles, disk, unlinks),
		Categories: controllers.NewCategoriesController(categories),
		Sales:      controllers.NewSalesController(sales),
		Dashboard:  controllers.NewDashboardController(dashboard, hub),
		Contact:    controllers.NewContactController(),
		Purchase:   controllers.NewPurchaseController(customers, vehicles),
		Files:      controllers.NewFilesController(disk),
	})

	return r
}
