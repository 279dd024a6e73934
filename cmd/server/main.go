package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/emregurs3s/karakus-tech-website/internal/payment"
	"github.com/emregurs3s/karakus-tech-website/internal/repository"
	"github.com/emregurs3s/karakus-tech-website/internal/service"
	transport "github.com/emregurs3s/karakus-tech-website/internal/transport/http"
	"github.com/emregurs3s/karakus-tech-website/internal/transport/http/handler"
	"github.com/emregurs3s/karakus-tech-website/internal/transport/http/middleware"
	"github.com/emregurs3s/karakus-tech-website/pkg/config"
	"github.com/emregurs3s/karakus-tech-website/pkg/db"
	"github.com/emregurs3s/karakus-tech-website/pkg/kafka"
	outboxRepository "github.com/emregurs3s/karakus-tech-website/pkg/outbox/repository"
	"github.com/emregurs3s/karakus-tech-website/pkg/outbox/worker"
	"github.com/emregurs3s/karakus-tech-website/pkg/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf(".env not found: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	tp, err := utils.InitTracer(ctx, "storefront")
	if err != nil {
		log.Fatalf("Failed to init trace: %v", err)
	}

	logger, err := config.NewLogger(config.LoggerConfig{
		Level: "info",
		Env:   cfg.Env,
	})
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	pool, err := db.NewPostgresDB(cfg.Postgres.URL)
	if err != nil {
		log.Fatalf("Failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Printf("Error closing redis client: %v\n", err)
		}
	}()

	producer, err := kafka.NewProducer(cfg.Kafka.Brokers)
	if err != nil {
		log.Fatalf("Failed to create kafka producer: %v", err)
	}
	defer func() {
		if err := producer.Close(); err != nil {
			log.Printf("Error closing kafka producer: %v\n", err)
		}
	}()

	productRepo := repository.NewProductRepository(pool, logger)
	categoryRepo := repository.NewCategoryRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	cartRepo := repository.NewCartRepository(redisClient)
	outboxRepo := outboxRepository.NewOutboxRepository(pool, logger)

	outboxProcessor := worker.NewOutboxProcessor(pool, outboxRepo, producer, logger)
	go outboxProcessor.Start(ctx)

	catalogService := service.NewCachedCatalogService(
		service.NewCatalogService(productRepo, categoryRepo, logger),
		redisClient,
	)
	cartService := service.NewCartService(cartRepo, cfg.Cart.FreeShippingThreshold, cfg.Cart.ShippingFee, logger)
	authService := service.NewAuthService(userRepo, logger)
	userService := service.NewUserService(userRepo, logger)
	orderService := service.NewOrderService(orderRepo, outboxRepo, pool, logger)
	shopier := payment.NewShopierClient(cfg.Shopier)
	checkoutService := service.NewCheckoutService(cartService, orderService, shopier, logger)

	app := fiber.New(fiber.Config{
		ReadTimeout: cfg.HTTP.Timeout,
	})

	app.Use(otelfiber.Middleware())
	app.Use(middleware.NewPrometheusMiddleware())

	app.Use(limiter.New(limiter.Config{
		Max:        cfg.Limiter.Max,
		Expiration: cfg.Limiter.Expiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"message": "Too many requests. Try again later.",
			})
		},
	}))

	handlers := &transport.Handlers{
		Auth:     handler.NewAuthHandler(authService, logger),
		Catalog:  handler.NewCatalogHandler(catalogService, logger),
		Cart:     handler.NewCartHandler(cartService, logger),
		Checkout: handler.NewCheckoutHandler(checkoutService, logger),
		Order:    handler.NewOrderHandler(orderService, logger),
		User:     handler.NewUserHandler(userService, logger),
	}

	transport.RegisterRoutes(app, handlers)

	logger.Info("Storefront service started!")

	go func() {
		log.Println("HTTP Service listening on: " + cfg.HTTP.Port)
		if err := app.Listen(cfg.HTTP.Port); err != nil {
			log.Fatalf("Error listening on HTTP port %v: %v\n", cfg.HTTP.Port, err)
		}
	}()

	<-ctx.Done()

	log.Println("Shutting down gracefully...")
	shutdownContext, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownContext); err != nil {
		log.Printf("Error shutting down HTTP app: %v\n", err)
	} else {
		log.Println("HTTP App stopped gracefully")
	}

	if err := tp.Shutdown(shutdownContext); err != nil {
		log.Printf("Error shutting down telemetry: %v\n", err)
	} else {
		log.Println("Telemetry stopped correctly")
	}
}
