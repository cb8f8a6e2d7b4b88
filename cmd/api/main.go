package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/scoop-dispatch/internal/audit"
	"github.com/BruksfildServices01/scoop-dispatch/internal/config"
	dbpkg "github.com/BruksfildServices01/scoop-dispatch/internal/db"
	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/coverage"
	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/payment"
	"github.com/BruksfildServices01/scoop-dispatch/internal/infra/geo"
	"github.com/BruksfildServices01/scoop-dispatch/internal/infra/mercadopago"
	"github.com/BruksfildServices01/scoop-dispatch/internal/infra/storage"
	"github.com/BruksfildServices01/scoop-dispatch/internal/logger"
	"github.com/BruksfildServices01/scoop-dispatch/internal/notify"
	"github.com/BruksfildServices01/scoop-dispatch/internal/routes"
	"github.com/BruksfildServices01/scoop-dispatch/internal/timezone"
	ucJobpool "github.com/BruksfildServices01/scoop-dispatch/internal/usecase/jobpool"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.AppEnv, cfg.AppName)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := dbpkg.NewDB(cfg, log)
	if err != nil {
		log.Fatal("failed to connect database", zap.Error(err))
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	auditDispatcher := audit.NewDispatcher(audit.New(db))
	notifier := notify.NewDispatcher(notify.NewPublisher(cfg.RabbitMQURL, cfg.NotifyExchange))

	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, routes.Deps{
		DB:        db,
		Config:    cfg,
		Clock:     timezone.SystemClock(timezone.Location(cfg.BusinessTimezone)),
		Geocoder:  newGeocoder(cfg, db, log),
		Processor: newProcessor(cfg, log),
		Photos:    newPhotoStore(cfg, log),
		Audit:     auditDispatcher,
		Notify:    notifier,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server running", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}

	notifier.Close()
	auditDispatcher.Close()
	log.Info("server stopped")
}

// newGeocoder puts redis in front of the zip table when REDIS_URL is set.
func newGeocoder(cfg *config.Config, db *gorm.DB, log *zap.Logger) coverage.Geocoder {
	store := geo.NewStoreGeocoder(db)
	if cfg.RedisURL == "" {
		return store
	}
	rdb, err := geo.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Warn("redis disabled", zap.Error(err))
		return store
	}
	return geo.NewCachedGeocoder(store, rdb, cfg.GeocodeCacheTTL)
}

func newProcessor(cfg *config.Config, log *zap.Logger) payment.Processor {
	p, err := mercadopago.New(cfg.MercadoPagoAccessToken, cfg.PaymentCurrency)
	if err != nil {
		log.Warn("payment processor disabled", zap.Error(err))
		return mercadopago.Disabled{}
	}
	return p
}

// newPhotoStore returns nil when no bucket is configured.
func newPhotoStore(cfg *config.Config, log *zap.Logger) ucJobpool.PhotoStore {
	if cfg.S3Bucket == "" {
		log.Info("photo storage disabled")
		return nil
	}
	store, err := storage.NewS3PhotoStore(storage.S3Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		Bucket:    cfg.S3Bucket,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
	})
	if err != nil {
		log.Warn("photo storage disabled", zap.Error(err))
		return nil
	}
	return store
}
