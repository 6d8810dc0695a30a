package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kkarimsherif/iron-forge/configs"
	cartController "github.com/kkarimsherif/iron-forge/controllers/cart"
	notificationController "github.com/kkarimsherif/iron-forge/controllers/notifications"
	orderController "github.com/kkarimsherif/iron-forge/controllers/orders"
	productController "github.com/kkarimsherif/iron-forge/controllers/products"
	userController "github.com/kkarimsherif/iron-forge/controllers/user"
	"github.com/kkarimsherif/iron-forge/jobs"
	"github.com/kkarimsherif/iron-forge/middlewares"
	"github.com/kkarimsherif/iron-forge/responses"
	"github.com/kkarimsherif/iron-forge/routes"
	"github.com/kkarimsherif/iron-forge/services"
)

func main() {
	config, err := configs.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	if err := configs.InitLogger(config); err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	log := configs.GetLogger()
	defer log.Sync()

	log.Info("Starting iron-forge",
		zap.String("environment", config.Server.Env),
		zap.String("port", config.Server.Port))

	client, err := configs.ConnectDB(config)
	if err != nil {
		log.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	}()

	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 30*time.Second)
	if err := configs.EnsureIndexes(indexCtx, client, config); err != nil {
		cancelIndex()
		log.Fatal("failed to create indexes", zap.Error(err))
	}
	cancelIndex()

	// Services
	catalog := services.NewCatalogService(configs.GetCollection(client, config, "products"))
	notifications := services.NewNotificationService(configs.GetCollection(client, config, "notifications"))
	carts := services.NewCartService(configs.GetCollection(client, config, "carts"), catalog)
	orders := services.NewOrderService(configs.GetCollection(client, config, "orders"), catalog, notifications, log)
	users := services.NewUserService(configs.GetCollection(client, config, "users"), config.JWT)

	// HTTP
	app := fiber.New(fiber.Config{
		AppName:      "iron-forge",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})

	app.Use(recover.New())
	app.Use(middlewares.RequestID())
	app.Use(middlewares.RequestLogger(log))
	app.Use(middlewares.Metrics())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(responses.OK(fiber.Map{"status": "ok"}))
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	protect := middlewares.Protect(users, config.JWT.Secret)
	adminOnly := middlewares.AdminOnly()

	routes.UserRoutes(app, userController.NewController(users), protect)
	routes.ProductRoutes(app, productController.NewController(catalog), protect, adminOnly)
	routes.CartRoutes(app, cartController.NewController(carts), protect)
	routes.OrderRoutes(app, orderController.NewController(orders), protect, adminOnly)
	routes.NotificationRoutes(app, notificationController.NewController(notifications, users), protect, adminOnly)

	// Scheduled jobs
	scheduler := jobs.NewScheduler(users, notifications, log)
	if err := scheduler.Register(); err != nil {
		log.Fatal("failed to register scheduled jobs", zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	go func() {
		if err := app.Listen(":" + config.Server.Port); err != nil {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}
}
