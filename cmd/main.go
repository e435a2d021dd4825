package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/hanamise/storefront/internal/adapter/email"
	"github.com/hanamise/storefront/internal/adapter/logger"
	"github.com/hanamise/storefront/internal/adapter/payments"
	"github.com/hanamise/storefront/internal/adapter/postgres"
	"github.com/hanamise/storefront/internal/adapter/rabbitmq"
	"github.com/hanamise/storefront/internal/app/analytics"
	"github.com/hanamise/storefront/internal/app/catalog"
	"github.com/hanamise/storefront/internal/app/checkout"
	"github.com/hanamise/storefront/internal/app/fulfillment"
	"github.com/hanamise/storefront/internal/app/notification"
	"github.com/hanamise/storefront/internal/config"

	amqpAdapter "github.com/hanamise/storefront/internal/adapter/amqp"
	httpAdapter "github.com/hanamise/storefront/internal/adapter/http"
)

func main() {
	mode := flag.String("mode", "", "Service mode: api-server, shipping-sweeper, notification-subscriber")
	port := flag.Int("port", 3000, "HTTP port")
	configPath := flag.String("config", "config.yaml", "Path to config file")
	flag.Parse()

	if *mode == "" {
		log.Fatal("--mode flag is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	lgr := logger.New(*mode)

	db, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()

	lgr.Info("db_connected", "Connected to PostgreSQL database", "startup", map[string]interface{}{
		"host": cfg.Database.Host,
		"db":   cfg.Database.Database,
	})

	mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer mqConn.Close()

	lgr.Info("rabbitmq_connected", "Connected to RabbitMQ", "startup", map[string]interface{}{
		"host": cfg.RabbitMQ.Host,
	})

	switch *mode {
	case "api-server":
		runAPIServer(db, mqConn, cfg, lgr, *port)

	case "shipping-sweeper":
		runShippingSweeper(ctx, db, mqConn, cfg, lgr)

	case "notification-subscriber":
		runNotificationSubscriber(ctx, mqConn, lgr)

	default:
		log.Fatalf("Invalid mode: %s", *mode)
	}
}

func runAPIServer(db postgres.DB, mqConn rabbitmq.Connection, cfg *config.Config, lgr logger.Logger, port int) {
	orderRepo := postgres.NewOrderRepository(db)
	productRepo := postgres.NewProductRepository(db)
	couponRepo := postgres.NewCouponRepository(db)
	customerRepo := postgres.NewCustomerRepository(db)

	publisher := rabbitmq.NewPublisher(mqConn)
	gateway := payments.NewStripeGateway(cfg.Stripe)

	fulfillmentService := fulfillment.NewService(orderRepo, publisher, lgr)
	sweeper := fulfillment.NewSweeper(fulfillmentService, orderRepo, lgr)
	checkoutService := checkout.NewService(orderRepo, productRepo, customerRepo, couponRepo, gateway, lgr)
	catalogService := catalog.NewService(productRepo, lgr)
	analyticsService := analytics.NewService(orderRepo, productRepo, lgr)

	handler := httpAdapter.NewRouter(httpAdapter.Handlers{
		Fulfillment: httpAdapter.NewFulfillmentHandler(fulfillmentService, sweeper, lgr),
		Checkout:    httpAdapter.NewCheckoutHandler(checkoutService, gateway, lgr),
		Catalog:     httpAdapter.NewCatalogHandler(catalogService, lgr),
		Admin:       httpAdapter.NewAdminHandler(checkoutService, checkoutService, analyticsService, lgr),
	}, cfg.Admin.Token, lgr)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	lgr.Info("service_started", fmt.Sprintf("API server started on port %d", port), "startup", map[string]interface{}{
		"port": port,
	})

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		lgr.Info("shutdown_initiated", "Shutting down API server", "shutdown", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			lgr.Error("shutdown_error", "Error during shutdown", "shutdown", nil, err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		lgr.Error("server_error", "Server error", "runtime", nil, err)
	}
}

func runShippingSweeper(ctx context.Context, db postgres.DB, mqConn rabbitmq.Connection, cfg *config.Config, lgr logger.Logger) {
	orderRepo := postgres.NewOrderRepository(db)
	publisher := rabbitmq.NewPublisher(mqConn)

	engine := fulfillment.NewService(orderRepo, publisher, lgr)
	sweeper := fulfillment.NewSweeper(engine, orderRepo, lgr)

	scheduler := cron.New()
	_, err := scheduler.AddFunc(cfg.Sweeper.Schedule, func() {
		sweeper.RunSweep(ctx)
	})
	if err != nil {
		log.Fatalf("Invalid sweeper schedule %q: %v", cfg.Sweeper.Schedule, err)
	}
	scheduler.Start()

	lgr.Info("service_started", "Shipping sweeper started", "startup", map[string]interface{}{
		"schedule": cfg.Sweeper.Schedule,
	})

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
	<-sigint

	lgr.Info("shutdown_initiated", "Shutting down shipping sweeper", "shutdown", nil)

	stopCtx := scheduler.Stop()
	<-stopCtx.Done()
}

func runNotificationSubscriber(ctx context.Context, mqConn rabbitmq.Connection, lgr logger.Logger) {
	consumer := rabbitmq.NewConsumer(mqConn, lgr)

	mailer := email.NewDemoMailer(lgr)
	notificationService := notification.NewService(mailer, lgr)
	shippingHandler := amqpAdapter.NewShippingHandler(notificationService, lgr)

	lgr.Info("service_started", "Notification subscriber started", "startup", nil)

	go func() {
		if err := consumer.ConsumeShippingUpdates(ctx, shippingHandler.HandleShippingUpdate); err != nil {
			lgr.Error("consumer_error", "Error consuming shipping updates", "runtime", nil, err)
		}
	}()

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
	<-sigint

	lgr.Info("shutdown_initiated", "Shutting down notification subscriber", "shutdown", nil)
}
