package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/scoop-dispatch/internal/audit"
	"github.com/BruksfildServices01/scoop-dispatch/internal/config"
	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/claiming"
	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/coverage"
	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/earnings"
	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/identity"
	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/payment"
	"github.com/BruksfildServices01/scoop-dispatch/internal/handlers"
	infraRepo "github.com/BruksfildServices01/scoop-dispatch/internal/infra/repository"
	"github.com/BruksfildServices01/scoop-dispatch/internal/metrics"
	"github.com/BruksfildServices01/scoop-dispatch/internal/middleware"
	"github.com/BruksfildServices01/scoop-dispatch/internal/notify"
	"github.com/BruksfildServices01/scoop-dispatch/internal/timezone"
	ucEarnings "github.com/BruksfildServices01/scoop-dispatch/internal/usecase/earnings"
	ucJobpool "github.com/BruksfildServices01/scoop-dispatch/internal/usecase/jobpool"
	ucPayment "github.com/BruksfildServices01/scoop-dispatch/internal/usecase/payment"
)

// Deps are the process-wide singletons the API is built from. Photos may
// be nil, in which case completion photos are rejected.
type Deps struct {
	DB        *gorm.DB
	Config    *config.Config
	Clock     timezone.Clock
	Geocoder  coverage.Geocoder
	Processor payment.Processor
	Photos    ucJobpool.PhotoStore
	Audit     *audit.Dispatcher
	Notify    *notify.Dispatcher
}

// Policies derives the window and payout rules from configuration.
func Policies(cfg *config.Config) (claiming.Policy, earnings.Policy) {
	window := claiming.NewPolicy(
		timezone.Location(cfg.BusinessTimezone),
		cfg.ClaimGrace(),
		cfg.ClaimExtension(),
	)
	payout := earnings.Policy{
		WorkerSharePercent: cfg.WorkerSharePercent,
		ServicesPerCycle:   cfg.ServicesPerCycle,
		ReferralPayout:     cfg.ReferralPayoutCents,
	}
	return window, payout
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.CORSMiddleware())
	r.Use(metrics.Middleware())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	window, payout := Policies(d.Config)

	serviceRepo := infraRepo.NewServiceGormRepository(d.DB)
	earningsRepo := infraRepo.NewEarningsGormRepository(d.DB)
	paymentRepo := infraRepo.NewPaymentGormRepository(d.DB)

	jobDeps := ucJobpool.Deps{
		Repo:    serviceRepo,
		Policy:  window,
		Matcher: coverage.NewMatcher(d.Geocoder),
		Clock:   d.Clock,
		Audit:   d.Audit,
		Notify:  d.Notify,
	}

	earningDeps := ucEarnings.Deps{
		Repo:   earningsRepo,
		Policy: payout,
		Clock:  d.Clock,
		Audit:  d.Audit,
	}

	// ======================================================
	// HANDLERS
	// ======================================================
	meHandler := handlers.NewMeHandler(d.DB)

	jobsHandler := handlers.NewJobsHandler(
		window,
		ucJobpool.NewListAvailable(jobDeps),
		ucJobpool.NewListAssigned(jobDeps),
		ucJobpool.NewClaimService(jobDeps),
		ucJobpool.NewArrive(jobDeps),
		ucJobpool.NewExtendClaim(jobDeps),
		ucJobpool.NewStartWork(jobDeps),
		ucJobpool.NewCompleteService(jobDeps, d.Photos),
		ucJobpool.NewCancelService(jobDeps),
	)

	serviceAreasHandler := handlers.NewServiceAreasHandler(ucJobpool.NewServiceAreas(jobDeps))

	earningsHandler := handlers.NewEarningsHandler(
		window.Location,
		ucEarnings.NewApproveServicePayment(earningDeps),
		ucEarnings.NewMarkEarningPaid(earningDeps),
		ucEarnings.NewAdjustEarning(earningDeps),
		ucEarnings.NewListEarnings(earningDeps),
		ucEarnings.NewComputeServiceEarnings(earningDeps),
		ucEarnings.NewGenerateCycle(earningDeps, serviceRepo, window),
	)

	paymentsHandler := handlers.NewPaymentsHandler(
		window.Location,
		ucPayment.NewRetryPayment(paymentRepo, d.Processor, d.Clock, d.Audit),
		ucPayment.NewReconcile(paymentRepo, d.Processor, d.Clock),
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB, window.Location)

	claimLimiter := middleware.NewPerUserLimiter(d.Config.ClaimRatePerMinute)

	// ======================================================
	// OPS
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	secured := api.Group("/")
	secured.Use(middleware.AuthMiddleware(d.Config.JWTSecret))
	{
		secured.GET("/me", meHandler.GetMe)

		// ------------------------------
		// WORKERS
		// ------------------------------
		worker := secured.Group("/", middleware.RequireRole(identity.RoleEmployee))
		{
			worker.GET("/jobs/available", jobsHandler.Available)
			worker.GET("/jobs/mine", jobsHandler.Mine)

			worker.POST("/jobs/:id/claim", claimLimiter.Middleware(), jobsHandler.Claim)
			worker.POST("/jobs/:id/check-in", jobsHandler.CheckIn)
			worker.POST("/jobs/:id/extend", jobsHandler.Extend)
			worker.POST("/jobs/:id/start", jobsHandler.Start)
			worker.POST("/jobs/:id/complete", jobsHandler.Complete)

			worker.GET("/me/service-areas", serviceAreasHandler.Get)
			worker.PUT("/me/service-areas", serviceAreasHandler.Update)

			worker.GET("/me/earnings", earningsHandler.List)
		}

		// ------------------------------
		// CUSTOMERS
		// ------------------------------
		customer := secured.Group("/", middleware.RequireRole(identity.RoleCustomer))
		{
			customer.POST("/services/:id/cancel", jobsHandler.Cancel)
			customer.POST("/payments/:id/retry", paymentsHandler.Retry)
		}

		// ------------------------------
		// ADMIN
		// ------------------------------
		admin := secured.Group("/admin", middleware.RequireRole())
		{
			admin.POST("/services/:id/approve-payment", earningsHandler.Approve)
			admin.POST("/services/:id/mark-paid", earningsHandler.MarkPaid)
			admin.POST("/earnings/:id/adjustments", earningsHandler.Adjust)

			admin.GET("/subscriptions/:id/earnings-preview", earningsHandler.Preview)
			admin.POST("/subscriptions/:id/cycles", earningsHandler.GenerateCycle)

			admin.POST("/payments/reconcile", paymentsHandler.Reconcile)

			admin.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
