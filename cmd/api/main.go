package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/internal/handler"
	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/internal/repository"
	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/internal/service"
	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/internal/ws"
	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/pkg/cache"
	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

const reportKeySet = "reconciliation:keys"

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database: ", err)
	}

	// 3. Report cache (optional)
	reportCache := connectCache()

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Wiring
	repos := service.Repositories{
		Materials:      repository.NewRawMaterialRepo(db),
		Recipes:        repository.NewRecipeRepo(db),
		Sales:          repository.NewSalesRepo(db),
		Counts:         repository.NewInventoryCountRepo(db),
		Replenishments: repository.NewReplenishmentRepo(db),
		Waste:          repository.NewWasteRepo(db),
	}
	reconService := service.NewReconciliationService(repos, reportCache, database.Location())
	countService := service.NewInventoryCountService(repos.Counts, repos.Materials, reportCache, wsHub)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Operations Hub Reconciliation v1.0",
	})
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	// 7. Routes
	handler.RegisterRoutes(app, handler.NewReconciliationHandler(reconService), handler.NewInventoryCountHandler(countService))

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
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// connectCache returns a disabled cache when REDIS_ADDRESS is empty or Redis
// does not answer; reports are then computed on every request.
func connectCache() *cache.Cache {
	addr := os.Getenv("REDIS_ADDRESS")
	if addr == "" {
		log.Println("REDIS_ADDRESS not set; report cache disabled")
		return nil
	}

	ttl := 5 * time.Minute
	if raw := os.Getenv("REPORT_CACHE_TTL"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			log.Printf("Warning: invalid REPORT_CACHE_TTL %q, using %s", raw, ttl)
		} else {
			ttl = parsed
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rdb, err := cache.Connect(ctx, addr)
	if err != nil {
		log.Printf("Warning: redis at %s unavailable, report cache disabled: %v", addr, err)
		return nil
	}
	log.Printf("connected to redis (addr=%s ttl=%s)", addr, ttl)
	return cache.New(rdb, reportKeySet, ttl)
}
