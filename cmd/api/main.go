package main

import (
	"context"
	_ "legacy_portal/docs"
	"legacy_portal/internal/adapter/http/handlers"
	"legacy_portal/internal/adapter/http/routes"
	"legacy_portal/internal/adapter/persistence/memory"
	"legacy_portal/internal/adapter/persistence/repository"
	"legacy_portal/internal/config"
	"legacy_portal/internal/infrastructure/database"
	"legacy_portal/internal/infrastructure/notification"
	"legacy_portal/internal/infrastructure/payments"
	"legacy_portal/internal/infrastructure/retry"
	"legacy_portal/internal/usecase"
	"legacy_portal/internal/usecase/interfaces"
	"legacy_portal/internal/worker"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
)

// @title           Translation Portal API
// @version         1.0
// @description     Quotes, coupons, checkout, orders and certifications for the translation back office.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080

// @BasePath  /v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

type repositories struct {
	quotes         interfaces.IQuoteRepository
	coupons        interfaces.ICouponRepository
	orders         interfaces.IOrderRepository
	transactions   interfaces.IPaymentTransactionRepository
	certifications interfaces.ICertificationRepository
	outbox         interfaces.IOutboxRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos := newRepositories(ctx, cfg)
	policy := retry.Policy{
		MaxAttempts:     cfg.Retry.MaxAttempts,
		InitialInterval: cfg.Retry.InitialInterval,
		MaxInterval:     cfg.Retry.MaxInterval,
		BreakerFailures: cfg.Retry.BreakerFailures,
		BreakerTimeout:  cfg.Retry.BreakerTimeout,
	}

	var paymentGateway interfaces.IPaymentGateway
	mpGateway, err := payments.NewMercadoPagoGateway(payments.Options{
		AccessToken:     cfg.MercadoPago.AccessToken,
		WebhookSecret:   cfg.MercadoPago.WebhookSecret,
		NotificationURL: cfg.WebhookURL(),
		Mock:            cfg.MercadoPago.Mock,
		Retry:           policy,
	})
	if err != nil {
		log.Printf("Mercado Pago gateway not configured: %v", err)
	} else {
		paymentGateway = mpGateway
	}

	couponUseCase := usecase.NewCouponUseCase(repos.coupons, repos.orders)
	quoteUseCase := usecase.NewQuoteUseCase(repos.quotes, couponUseCase, cfg.Pricing.PhysicalCopyFee)
	orderUseCase := usecase.NewOrderUseCase(repos.orders, repos.quotes, repos.transactions, cfg.Pricing.InvoiceDueDays)
	checkoutUseCase := usecase.NewCheckoutUseCase(repos.transactions, repos.quotes, repos.orders, couponUseCase, paymentGateway, cfg.MercadoPago.Currency, cfg.Worker.CheckoutTTL)
	certificationUseCase := usecase.NewCertificationUseCase(repos.certifications, repos.orders)

	if cfg.Worker.Enabled {
		email := notification.NewEmailClient(cfg.Email.APIURL, cfg.Email.APIKey, cfg.Email.From, cfg.Email.Timeout, policy)
		tms := notification.NewTMSClient(cfg.TMS.BaseURL, cfg.TMS.APIKey, cfg.TMS.Timeout, policy)
		dispatcher := worker.NewOutboxDispatcher(worker.DispatcherConfig{
			Interval:    cfg.Worker.OutboxInterval,
			Batch:       cfg.Worker.OutboxBatch,
			MaxAttempts: cfg.Worker.OutboxMaxTries,
			AdminEmail:  cfg.App.AdminEmail,
			ResponseURL: cfg.AssignmentResponseURL,
		}, repos.outbox, orderUseCase, email, tms)
		go dispatcher.Run(ctx)
		go worker.NewScheduler(cfg.Worker.OverdueInterval, orderUseCase, checkoutUseCase).Run(ctx)
	}

	router := routes.NewRouter(routes.Handlers{
		Quote:         handlers.NewQuoteHandler(quoteUseCase),
		Coupon:        handlers.NewCouponHandler(couponUseCase),
		Checkout:      handlers.NewCheckoutHandler(checkoutUseCase),
		Order:         handlers.NewOrderHandler(orderUseCase),
		Certification: handlers.NewCertificationHandler(certificationUseCase),
	}, cfg.Auth.JWTSecret)

	routes.Run(router, cfg.App.Port)
}

func newRepositories(ctx context.Context, cfg *config.Config) repositories {
	if cfg.Storage.Driver == "memory" {
		log.Printf("[main] using in-memory storage, data is lost on restart")
		store := memory.NewStore()
		return repositories{
			quotes:         store.Quotes(),
			coupons:        store.Coupons(),
			orders:         store.Orders(),
			transactions:   store.Transactions(),
			certifications: store.Certifications(),
			outbox:         store.Outbox(),
		}
	}

	ddb := database.ConnectDynamoDB(ctx, cfg)
	t := cfg.Tables
	return repositories{
		quotes:         repository.NewQuoteDynamoRepository(ddb, t.Quotes),
		coupons:        repository.NewCouponDynamoRepository(ddb, t.Coupons),
		orders:         repository.NewOrderDynamoRepository(ddb, t.Orders, t.Outbox),
		transactions:   repository.NewPaymentTransactionDynamoRepository(ddb, t.Transactions, t.Orders, t.Outbox),
		certifications: repository.NewCertificationDynamoRepository(ddb, t.Certifications),
		outbox:         repository.NewOutboxDynamoRepository(ddb, t.Outbox),
	}
}
