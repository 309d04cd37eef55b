package checkout

import (
	"database/sql"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"eventcheckout/internal/checkout/controller"
	checkoutrepo "eventcheckout/internal/checkout/repository"
	"eventcheckout/internal/checkout/service"
	"eventcheckout/internal/checkout/usecase"
	"eventcheckout/internal/checkout/validator"
	companyrepo "eventcheckout/internal/company/repository"
	"eventcheckout/internal/config"
	employeerepo "eventcheckout/internal/employee/repository"
	employeeservice "eventcheckout/internal/employee/service"
)

// NewModule wires the checkout module. redisClient and publisher may be
// nil; the invoice guard and completion events are then disabled.
func NewModule(db *sql.DB, cfg *config.Config, redisClient *goredis.Client, publisher service.MessagePublisher, logger *zap.Logger) *controller.CheckoutController {
	clock := time.Now
	timeout := cfg.Checkout.StorageTimeout

	checkoutRepo := checkoutrepo.NewMySQLCheckoutSessionRepository(db, timeout)
	eventSessionRepo := checkoutrepo.NewMySQLEventSessionRepository(db, timeout)
	enrollmentRepo := checkoutrepo.NewMySQLEnrollmentRepository(db, timeout)
	waitlistRepo := checkoutrepo.NewMySQLWaitlistRepository(db, timeout)
	discountRepo := checkoutrepo.NewMySQLDiscountCodeRepository(db, timeout)
	voucherRepo := checkoutrepo.NewMySQLVoucherRepository(db, timeout)
	lineItemRepo := checkoutrepo.NewMySQLInvoiceLineItemRepository(db)
	companyRepo := companyrepo.NewMySQLCompanyRepository(db, timeout)
	employeeRepo := employeerepo.NewMySQLEmployeeRepository(db, timeout)

	permissions := employeeservice.NewPermissionService(employeeRepo, logger)

	pipeline := validator.NewCheckoutPipeline(validator.Stores{
		Employees:   employeeRepo,
		Enrollments: enrollmentRepo,
		Waitlist:    waitlistRepo,
		Checkouts:   checkoutRepo,
		Discounts:   discountRepo,
		Vouchers:    voucherRepo,
		Permissions: permissions,
	}, clock, logger)

	finalizer := service.NewFinalizeService(
		db,
		[]service.PostProcessor{
			service.NewEnrollmentProcessor(employeeRepo, enrollmentRepo),
			service.NewWaitlistProcessor(employeeRepo, waitlistRepo),
			service.NewMetadataProcessor(checkoutRepo, cfg.Checkout.ConfirmationNumberTries),
			service.NewRedemptionProcessor(lineItemRepo),
		},
		cfg.Checkout.FinalizeTxTimeout,
		clock,
		logger,
	)

	seating := service.NewSeatingService(employeeRepo, enrollmentRepo, waitlistRepo, checkoutRepo, cfg.Checkout.ReservationTTL, logger)
	sessionSvc := service.NewSessionService(checkoutRepo, eventSessionRepo, seating, cfg.Checkout.ReservationTTL, clock, logger)
	detailsSvc := service.NewDetailsService(checkoutRepo, enrollmentRepo, checkoutRepo, voucherRepo, clock, logger)

	paymentUseCase := usecase.NewCheckoutUseCase(usecase.Dependencies{
		Checkouts: checkoutRepo,
		Companies: companyRepo,
		Employees: employeeRepo,
		Validator: pipeline,
		Quoter:    validator.NewPaymentAmountValidator(discountRepo),
		Lock:      service.NewInvoiceGuard(redisClient, cfg.Checkout.InvoiceLockTTL, logger),
		Gateway:   service.NewManualGateway(logger),
		Finalizer: finalizer,
		Notifier:  service.NewCompletionPublisher(publisher, logger),
	}, clock, logger, cfg.Checkout.MaxRetryAttempts)

	return controller.NewCheckoutController(sessionSvc, detailsSvc, paymentUseCase, clock, logger)
}
