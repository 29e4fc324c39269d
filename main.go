package main

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"shortly/internal/handlers"
	"shortly/internal/middleware"
	"shortly/internal/models"
	"shortly/internal/repositories"
	"shortly/internal/security"
	"shortly/internal/services"
	"shortly/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":3000")
	viper.SetDefault("DATABASE_DSN", "shortly.db")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")
	databaseDSN := viper.GetString("DATABASE_DSN")
	rabbitMQURL := viper.GetString("RABBITMQ_URL")

	// The signing secret has no default on purpose: running without one
	// would silently issue forgeable tokens.
	jwtSecret := viper.GetString("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	// --- Database ---
	db, err := openDatabase(databaseDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Link{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- RabbitMQ (optional) ---
	var mqClient *rabbitmq.Client
	if rabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: rabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
	} else {
		log.Println("RABBITMQ_URL not set, event publishing disabled")
	}

	app := NewApp(db, jwtSecret, mqClient)

	// --- Event Consumer ---
	// An in-process consumer logs lifecycle events. Real deployments
	// would run dedicated consumers instead.
	if mqClient != nil {
		if consumerErr := mqClient.ConsumeEvents(func(msg amqp.Delivery) error {
			log.Printf("Received %s event (Tag: %d): %s", msg.Type, msg.DeliveryTag, string(msg.Body))
			return nil
		}); consumerErr != nil {
			log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
		}
	}

	// --- Start HTTP Server ---
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

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// NewApp wires repositories, services, handlers and routes into a Fiber
// app. The RabbitMQ client may be nil.
func NewApp(db *gorm.DB, jwtSecret string, mqClient *rabbitmq.Client) *fiber.App {
	// Repositories
	userRepo := repositories.NewGORMUserRepository(db)
	linkRepo := repositories.NewGORMLinkRepository(db)

	// Security primitives
	hasher := security.NewPasswordHasher()
	tokens := security.NewTokenIssuer(jwtSecret)

	// Services
	accountService := services.NewAccountService(userRepo, linkRepo, hasher, tokens, mqClient)
	linkService := services.NewLinkService(linkRepo, mqClient)

	// Handlers
	userHandler := handlers.NewUserHandler(accountService)
	linkHandler := handlers.NewLinkHandler(linkService)

	app := fiber.New()

	// Request logging, then token parsing on every request. Routes that
	// need an identity add the AuthRequired guard themselves.
	app.Use(logger.New())
	app.Use(middleware.Authenticate(tokens))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	userHandler.RegisterRoutes(app)
	// Link routes include the catch-all /:shortCode resolver and must
	// come after every fixed path.
	linkHandler.RegisterRoutes(app)

	return app
}

// openDatabase connects to PostgreSQL when the DSN looks like one and
// falls back to SQLite otherwise. TranslateError makes constraint
// violations surface as gorm.ErrDuplicatedKey on both drivers.
func openDatabase(dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{TranslateError: true}
	if strings.HasPrefix(dsn, "postgres://") || strings.Contains(dsn, "host=") {
		return gorm.Open(postgres.Open(dsn), cfg)
	}
	return gorm.Open(sqlite.Open(dsn), cfg)
}
