package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"curio/internal/handlers"
	"curio/internal/middleware"
	"curio/internal/repositories"
	"curio/internal/services"
	"curio/pkg/filestore"
	"curio/pkg/imaging"
	"curio/pkg/mailer"
	"curio/pkg/rabbitmq"
	"curio/pkg/ratelimit"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_URL", "sqlite://curio.db")
	viper.SetDefault("JWT_SECRET", "change-me")
	viper.SetDefault("ACCESS_TOKEN_TTL_MIN", 30)
	viper.SetDefault("REFRESH_TOKEN_TTL_MIN", 60*24*7)
	viper.SetDefault("UPLOAD_DIR", "./uploads")
	viper.SetDefault("UPLOAD_URL_PREFIX", "/uploads")
	viper.SetDefault("MAX_FILE_SIZE", 5*1024*1024)
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("SMTP_HOST", "")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_USERNAME", "")
	viper.SetDefault("SMTP_PASSWORD", "")
	viper.SetDefault("SMTP_FROM", "noreply@curio.local")
	viper.SetDefault("CONTACT_TO", "")
	viper.SetDefault("RATE_LIMIT_MAX", 5)
	viper.SetDefault("RATE_LIMIT_WINDOW_MIN", 60)
	viper.SetDefault("TAG_CLEANUP_INTERVAL_MIN", 0)
	viper.AutomaticEnv()

	// --- Database ---
	db, err := openDatabase(viper.GetString("DATABASE_URL"))
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	store := repositories.NewGORMStore(db)
	if err := store.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// --- File storage and image processing ---
	uploadDir := viper.GetString("UPLOAD_DIR")
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		log.Fatalf("Failed to create upload directory: %v", err)
	}
	files := filestore.NewDiskStore(uploadDir, viper.GetString("UPLOAD_URL_PREFIX"))
	processor := imaging.NewProcessor(viper.GetInt("MAX_FILE_SIZE"))

	// --- RabbitMQ (optional) ---
	var mqClient *rabbitmq.Client
	if rabbitMQURL := viper.GetString("RABBITMQ_URL"); rabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: rabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
	} else {
		log.Println("RABBITMQ_URL not set, contact submissions will be logged only")
	}

	// --- Services ---
	authService := services.NewAuthService(
		store.Users(),
		viper.GetString("JWT_SECRET"),
		time.Duration(viper.GetInt("ACCESS_TOKEN_TTL_MIN"))*time.Minute,
		time.Duration(viper.GetInt("REFRESH_TOKEN_TTL_MIN"))*time.Minute,
	)
	userService := services.NewUserService(store, files)
	collectionService := services.NewCollectionService(store, files)
	itemService := services.NewItemService(store, files)
	imageService := services.NewImageService(store, files, processor)
	shareService := services.NewShareService(store)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	collectionHandler := handlers.NewCollectionHandler(collectionService)
	itemHandler := handlers.NewItemHandler(itemService)
	imageHandler := handlers.NewImageHandler(imageService)
	shareHandler := handlers.NewShareHandler(shareService)
	contactLimiter := ratelimit.New(
		viper.GetInt("RATE_LIMIT_MAX"),
		time.Duration(viper.GetInt("RATE_LIMIT_WINDOW_MIN"))*time.Minute,
	)
	contactHandler := handlers.NewContactHandler(mqClient, contactLimiter)

	// --- Fiber App ---
	app := fiber.New(fiber.Config{
		BodyLimit: viper.GetInt("MAX_FILE_SIZE") * 12,
	})
	app.Use(logger.New())

	app.Static(viper.GetString("UPLOAD_URL_PREFIX"), uploadDir)

	apiV1 := app.Group("/api/v1")

	// Public routes
	authHandler.RegisterRoutes(apiV1)
	shareHandler.RegisterPublicRoutes(apiV1)
	contactHandler.RegisterRoutes(apiV1)

	// Authenticated routes
	protected := apiV1.Group("", middleware.AuthRequired(authService))
	userHandler.RegisterRoutes(protected)
	collectionHandler.RegisterRoutes(protected)
	itemHandler.RegisterRoutes(protected)
	imageHandler.RegisterRoutes(protected)
	shareHandler.RegisterManagementRoutes(protected)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Contact Consumer ---
	if mqClient != nil {
		smtpMailer := mailer.NewSMTPMailer(
			viper.GetString("SMTP_HOST"),
			viper.GetInt("SMTP_PORT"),
			viper.GetString("SMTP_USERNAME"),
			viper.GetString("SMTP_PASSWORD"),
			viper.GetString("SMTP_FROM"),
		)
		contactTo := viper.GetString("CONTACT_TO")
		go func() {
			log.Println("Starting RabbitMQ consumer for contact messages...")
			consumerErr := mqClient.ConsumeContactMessages(func(msg rabbitmq.ContactMessage) error {
				if viper.GetString("SMTP_HOST") == "" || contactTo == "" {
					log.Printf("Contact message from %s <%s>: %s", msg.Name, msg.Email, msg.Subject)
					return nil
				}
				body := fmt.Sprintf("From: %s <%s>\n\n%s", msg.Name, msg.Email, msg.Message)
				return smtpMailer.Send(contactTo, msg.Subject, body)
			})
			if consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

	// --- Tag Cleanup Ticker ---
	cleanupDone := make(chan struct{})
	if interval := viper.GetInt("TAG_CLEANUP_INTERVAL_MIN"); interval > 0 {
		go func() {
			ticker := time.NewTicker(time.Duration(interval) * time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					removed, err := itemService.CleanupUnusedTags()
					if err != nil {
						log.Printf("Tag cleanup failed: %v", err)
					} else if removed > 0 {
						log.Printf("Tag cleanup removed %d unused tags", removed)
					}
				case <-cleanupDone:
					return
				}
			}
		}()
	}

	// --- Start HTTP Server ---
	appPort := viper.GetString("APP_PORT")
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")
	close(cleanupDone)

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// openDatabase opens the configured database. Postgres URLs are passed
// through; sqlite://path opens a local file for development.
func openDatabase(dsn string) (*gorm.DB, error) {
	switch {
	case strings.HasPrefix(dsn, "sqlite://"):
		return gorm.Open(sqlite.Open(strings.TrimPrefix(dsn, "sqlite://")), &gorm.Config{})
	case strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://"):
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported database url %q", dsn)
	}
}
