package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"karate-entry-system/handlers"
	"karate-entry-system/models"
	"karate-entry-system/services"
	"karate-entry-system/store"
	"karate-entry-system/utils"
	"karate-entry-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // entry submissions are small JSON bodies
	})

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		log.Println("⚠️  ALLOWED_ORIGINS not set, using default: http://localhost:3000")
		allowedOrigins = "http://localhost:3000"
	}
	origins := strings.Split(allowedOrigins, ",")
	for i, o := range origins {
		origins[i] = strings.TrimSpace(o)
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		ExposeHeaders:    "Content-Length, Content-Type, Content-Disposition",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	utils.InitJWT()
	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.SchoolAccount{},
		&models.Advisor{},
		&models.Athlete{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	redisClient := store.InitializeRedisClient()
	blobs := store.NewBlobStore(redisClient)
	settingsStore := store.NewSettingsStore(blobs)
	entryStore := store.NewEntryStore(blobs)

	archiveWorker := workers.NewArchiveWorker()

	authService := services.NewAuthService(db)
	schoolService := services.NewSchoolService(db)
	rosterService := services.NewRosterService(db)
	reportService := services.NewReportService(db, settingsStore, entryStore)
	entryService := services.NewEntryService(db, settingsStore, entryStore, reportService, archiveWorker)
	adminService := services.NewAdminService(db, settingsStore, entryStore, reportService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go archiveWorker.Start(ctx)
	reportService.StartSnapshotScheduler(archiveWorker)

	handlers.SetupSchoolRoutes(app, authService, schoolService, rosterService, entryService)
	handlers.SetupAdminRoutes(app, adminService, reportService)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5300"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Println("✅ Artifact archive worker running")
	log.Println("✅ Nightly snapshot scheduler running (03:00)")
	log.Printf("✅ CORS configured for origins: %s", strings.Join(origins, ","))

	<-ctx.Done()
	log.Println("Shutting down server...")
}
