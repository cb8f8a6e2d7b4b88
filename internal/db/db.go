package db

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/scoop-dispatch/internal/config"
	"github.com/BruksfildServices01/scoop-dispatch/internal/models"
)

// Models lists every table owned by the service, in migration order.
func Models() []any {
	return []any{
		&models.Customer{},
		&models.Referral{},
		&models.Employee{},
		&models.ServiceArea{},
		&models.ZipCoordinate{},
		&models.Subscription{},
		&models.Service{},
		&models.ServiceClaim{},
		&models.Payment{},
		&models.PaymentRetry{},
		&models.Earning{},
		&models.EarningAdjustment{},
		&models.AuditLog{},
	}
}

func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	level := logger.Warn
	if !cfg.IsProduction() {
		level = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
		Logger:         NewZapGormLogger(log.Named("gorm"), level),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(Models()...); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}
