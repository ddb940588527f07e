package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hashicorp/go-hclog"
	"github.com/streadway/amqp"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handlers"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/internal/storage"
	"storefront/pkg/rabbitmq"
)

const driverMemory = "memory"

func main() {
	os.Exit(run())
}

func run() int {
	log := hclog.New(&hclog.LoggerOptions{
		Name:  "storefront",
		Level: hclog.LevelFromString(os.Getenv("LOG_LEVEL")),
	})

	// --- Configuration ---
	cfg := config.Load(log)
	log.SetLevel(hclog.LevelFromString(cfg.LogLevel))

	application, err := newApp(cfg, log)
	if err != nil {
		log.Error("failed to initialize application", "error", err)
		return 1
	}
	defer application.Close()

	if cfg.SeedDemo {
		seedDemoData(application.services, log.Named("seed"))
	}

	// --- Start HTTP Server ---
	log.Info("starting server", "addr", cfg.AppPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	if err := application.serve(cfg.AppPort, quit, log); err != nil {
		log.Error("server failed to start", "error", err)
		return 1
	}
	log.Info("server gracefully stopped")
	return 0
}

// app is the wired API with the resources it must release on exit.
type app struct {
	fiber    *fiber.App
	services handlers.Services
	mq       *rabbitmq.Client
}

// Close releases the message broker connection, if any.
func (a *app) Close() {
	if a.mq != nil {
		a.mq.Close()
	}
}

// serve listens on addr until the server fails or a signal arrives on quit,
// then shuts the server down.
func (a *app) serve(addr string, quit <-chan os.Signal, log hclog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.fiber.Listen(addr)
	}()

	// Wait for interrupt signal to gracefully shut down the server
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	log.Info("shutting down server")
	if err := a.fiber.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("error during Fiber shutdown", "error", err)
	}
	return nil
}

type stores struct {
	products repositories.ProductRepository
	reviews  repositories.ReviewRepository
	users    repositories.UserRepository
}

func openStores(cfg config.Config) (stores, error) {
	if cfg.DBDriver == driverMemory {
		return stores{
			products: repositories.NewMemoryProductRepository(),
			reviews:  repositories.NewMemoryReviewRepository(),
			users:    repositories.NewMemoryUserRepository(),
		}, nil
	}

	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		return stores{}, err
	}
	return stores{
		products: repositories.NewGORMProductRepository(db),
		reviews:  repositories.NewGORMReviewRepository(db),
		users:    repositories.NewGORMUserRepository(db),
	}, nil
}

// newApp wires storage, the optional image store and event broker, the
// services and the HTTP routes.
func newApp(cfg config.Config, log hclog.Logger) (*app, error) {
	st, err := openStores(cfg)
	if err != nil {
		return nil, err
	}
	log.Info("storage ready", "driver", cfg.DBDriver)

	// Nil interfaces disable image deletion and events.
	var images services.ImageStore
	if cfg.Minio.Endpoint != "" {
		store, err := storage.NewMinioImageStore(storage.MinioConfig{
			Endpoint:  cfg.Minio.Endpoint,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			Bucket:    cfg.Minio.Bucket,
			UseSSL:    cfg.Minio.UseSSL,
		}, log.Named("minio"))
		if err != nil {
			return nil, err
		}
		images = store
	}

	a := &app{}
	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Exchange: cfg.Exchange}, log.Named("rabbitmq"))
		if err != nil {
			return nil, err
		}
		a.mq = mq
		publisher = mq
		startEventLog(mq, log.Named("events"))
	}

	a.services = handlers.Services{
		Auth:     services.NewAuthService(st.users, cfg.JWTSecret, cfg.TokenTTL, log.Named("auth-service")),
		Products: services.NewProductService(st.products, st.reviews, images, publisher, log.Named("product-service")),
		Reviews:  services.NewReviewService(st.reviews, st.products, publisher, log.Named("review-service")),
	}

	// --- Initialize Fiber App ---
	a.fiber = fiber.New(fiber.Config{
		AppName:      "storefront",
		ErrorHandler: handlers.ErrorHandler(log.Named("http")),
	})

	// --- Middleware ---
	a.fiber.Use(recover.New())
	a.fiber.Use(logger.New())
	a.fiber.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// --- Health Check Endpoint ---
	a.fiber.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success":  true,
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"storage":  cfg.DBDriver,
			"events":   a.mq != nil,
			"imageCDN": images != nil,
		})
	})

	// --- API Routes ---
	handlers.SetupRoutes(a.fiber, a.services, log)
	return a, nil
}

// startEventLog consumes every catalog event and logs it.
func startEventLog(mq *rabbitmq.Client, log hclog.Logger) {
	handler := func(msg amqp.Delivery) error {
		log.Info("catalog event", "routing_key", msg.RoutingKey, "body", strings.TrimSpace(string(msg.Body)))
		return nil
	}
	if err := mq.ConsumeEvents("storefront.catalog-log", []string{"product.*", "review.*"}, handler); err != nil {
		log.Error("failed to start catalog event consumer", "error", err)
	}
}
