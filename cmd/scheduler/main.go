package main

import (
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/scoop-dispatch/internal/audit"
	"github.com/BruksfildServices01/scoop-dispatch/internal/config"
	dbpkg "github.com/BruksfildServices01/scoop-dispatch/internal/db"
	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/coverage"
	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/payment"
	"github.com/BruksfildServices01/scoop-dispatch/internal/infra/mercadopago"
	infraRepo "github.com/BruksfildServices01/scoop-dispatch/internal/infra/repository"
	"github.com/BruksfildServices01/scoop-dispatch/internal/jobs"
	"github.com/BruksfildServices01/scoop-dispatch/internal/logger"
	"github.com/BruksfildServices01/scoop-dispatch/internal/notify"
	"github.com/BruksfildServices01/scoop-dispatch/internal/routes"
	"github.com/BruksfildServices01/scoop-dispatch/internal/timezone"
	ucJobpool "github.com/BruksfildServices01/scoop-dispatch/internal/usecase/jobpool"
	ucPayment "github.com/BruksfildServices01/scoop-dispatch/internal/usecase/payment"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.AppEnv, cfg.AppName+"-scheduler")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := dbpkg.NewDB(cfg, log)
	if err != nil {
		log.Fatal("failed to connect database", zap.Error(err))
	}

	window, _ := routes.Policies(cfg)
	clock := timezone.SystemClock(window.Location)

	auditDispatcher := audit.NewDispatcher(audit.New(db))
	notifier := notify.NewDispatcher(notify.NewPublisher(cfg.RabbitMQURL, cfg.NotifyExchange))

	jobDeps := ucJobpool.Deps{
		Repo:    infraRepo.NewServiceGormRepository(db),
		Policy:  window,
		Matcher: coverage.NewMatcher(nil),
		Clock:   clock,
		Audit:   auditDispatcher,
		Notify:  notifier,
	}

	var processor payment.Processor = mercadopago.Disabled{}
	if p, err := mercadopago.New(cfg.MercadoPagoAccessToken, cfg.PaymentCurrency); err == nil {
		processor = p
	} else {
		log.Warn("payment processor disabled, reconciliation will report failures", zap.Error(err))
	}

	runner := jobs.NewJobs(
		ucJobpool.NewExpireStaleClaims(jobDeps),
		ucJobpool.NewExpireMissedServices(jobDeps),
		ucPayment.NewReconcile(infraRepo.NewPaymentGormRepository(db), processor, clock),
		window,
		clock,
		log,
	)

	scheduler := jobs.NewScheduler(runner, log, cfg)
	if err := scheduler.Start(); err != nil {
		log.Fatal("failed to start scheduler", zap.Error(err))
	}
	log.Info("scheduler started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, stopping scheduler")
	<-scheduler.Stop().Done()

	notifier.Close()
	auditDispatcher.Close()
	log.Info("scheduler stopped gracefully")
}
