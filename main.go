package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"community-level-system/handlers"
	"community-level-system/middleware"
	"community-level-system/models"
	"community-level-system/services"
	"community-level-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{})

	// 🔐 GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-User-ID, X-User-Roles, X-Service-Token",
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.UserProgress{},
		&models.ActiveBoost{},
		&models.RoleMultiplier{},
		&models.ChannelMultiplier{},
		&models.LevelRole{},
		&models.SalaryRole{},
		&models.VoiceRole{},
		&models.GuildSettings{},
		&models.MemberMirror{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	// --- Gateway collaborator (announcements + role changes) ---
	gatewayURL := os.Getenv("GATEWAY_SERVICE_URL")
	if gatewayURL == "" {
		log.Fatal("GATEWAY_SERVICE_URL environment variable not set")
	}
	serviceToken := os.Getenv("LEVEL_SERVICE_TOKEN")
	if serviceToken == "" {
		log.Fatal("LEVEL_SERVICE_TOKEN environment variable not set")
	}
	gateway := services.NewGatewayClient(gatewayURL, serviceToken)

	// --- Redis leaderboards (optional; degrade to no-op when unset) ---
	var redisClient *redis.Client
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
	} else {
		log.Println("⚠️  REDIS_ADDR not set — leaderboards disabled")
	}

	boostService := services.NewBoostService(db)
	resolver := services.NewMultiplierResolver(db, boostService)
	reconciler := services.NewRoleReconciler(db, gateway)
	leaderboardService := services.NewLeaderboardService(redisClient)
	auditObserver := services.NewAuditObserver(db, gateway)
	settingsService := services.NewSettingsService(db)
	progressionService := services.NewProgressionService(
		db, resolver, boostService, reconciler, auditObserver, gateway, leaderboardService,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	syncWorker := workers.NewMemberSyncWorker(db, gatewayURL, "/api/v1/members/changes", serviceToken)
	syncWorker.Start(ctx)

	sched := progressionService.StartAccrualScheduler()

	handlers.SetupEventRoutes(app, progressionService)
	handlers.SetupUserRoutes(app, progressionService, leaderboardService)
	handlers.SetupAdminRoutes(app, progressionService, settingsService)

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5300")
	log.Println("✅ Member Sync Worker running")
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")

	<-ctx.Done()
	log.Println("Shutting down server...")

	if err := sched.Shutdown(); err != nil {
		log.Printf("Scheduler shutdown error: %v", err)
	}
	if err := app.Shutdown(); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
