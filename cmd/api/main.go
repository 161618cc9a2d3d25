package main

import (
	"os"
	"os/signal"
	"syscall"

	"go-vendsync/internal/gateway"
	"go-vendsync/internal/handler"
	"go-vendsync/internal/middleware"
	"go-vendsync/internal/model"
	"go-vendsync/internal/repository"
	"go-vendsync/internal/service"
	"go-vendsync/internal/ws"
	"go-vendsync/pkg/database"
	"go-vendsync/pkg/keylock"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(level)
	}

	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Warn(".env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	if err := db.AutoMigrate(&model.Product{}, &model.Slot{}, &model.Stock{}, &model.Transaction{}); err != nil {
		log.WithError(err).Fatal("auto-migration failed")
	}

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub(log)
	go wsHub.Run()

	// 4. Dependency Injection (Wiring Layers)
	gwClient := gateway.NewClient(gateway.Config{
		BaseURL: envOr("VEND_API_URL", "https://cloud-test.vendolite.com"),
		Token:   os.Getenv("VEND_API_TOKEN"),
	}, log)

	productRepo := repository.NewProductRepo(db)
	slotRepo := repository.NewSlotRepo(db)
	txRepo := repository.NewTransactionRepo(db)

	machineLocks := keylock.New()

	syncService := service.NewSyncService(gwClient, productRepo, slotRepo, txRepo, db, machineLocks, wsHub, log)
	catalogService := service.NewCatalogService(productRepo, slotRepo, db)
	authService := service.NewAuthService(
		envOr("ADMIN_USERNAME", "admin"),
		envOr("ADMIN_PASSWORD", "password"),
	)

	syncHandler := handler.NewSyncHandler(syncService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	authHandler := handler.NewAuthHandler(authService)

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "VendSync v1.0",
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	// 6. Routes
	api := app.Group("/api")
	api.Get("/login", authHandler.Login)

	// The client contract is open by default; bearer enforcement is an
	// opt-in for deployments that want it.
	synced := api.Group("")
	if os.Getenv("AUTH_ENFORCED") == "true" {
		synced = api.Group("", middleware.RequireAuth())
	}
	synced.Get("/getSlotDetails", syncHandler.GetSlotDetails)
	synced.Get("/getSalesData", syncHandler.GetSalesData)
	synced.Get("/getProducts", catalogHandler.GetProducts)
	synced.Post("/updateSlot", catalogHandler.UpdateSlot)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 7. Graceful Shutdown
	go func() {
		port := envOr("PORT", "5000")
		if err := app.Listen(":" + port); err != nil {
			log.WithError(err).Panic("listen failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		log.WithError(err).Fatal("server forced to shutdown")
	}

	log.Info("server exited")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
