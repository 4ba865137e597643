package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/tradewind-gg/tradewind/backend/config"
	"github.com/tradewind-gg/tradewind/backend/handlers"
	"github.com/tradewind-gg/tradewind/backend/middleware"
	webmodels "github.com/tradewind-gg/tradewind/backend/models"
	webservices "github.com/tradewind-gg/tradewind/backend/services"
	"github.com/tradewind-gg/tradewind/tradewind"
	tradewindconfig "github.com/tradewind-gg/tradewind/tradewind/config"
	"github.com/tradewind-gg/tradewind/tradewind/database"
	"github.com/tradewind-gg/tradewind/tradewind/database/repositories"
	"github.com/tradewind-gg/tradewind/tradewind/logger"
	"github.com/tradewind-gg/tradewind/tradewind/moderation"
	"github.com/tradewind-gg/tradewind/tradewind/services"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	customHandler := logger.NewHandler("TradeWind-Backend")
	slog.SetDefault(slog.New(customHandler))

	slog.Info("Starting TradeWind backend API",
		slog.String("version", version),
		slog.String("commit", commit),
		slog.String("type", "backend"))

	debug := flag.Bool("debug", false, "run in development mode")
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := tradewind.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	webCfg := config.NewWebAppConfig(cfg, *debug)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	slog.Info("Connecting to database...")
	dbConfig := database.DBConfig{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Database,
		PoolSize: cfg.DB.PoolSize,
	}
	db, err := database.New(ctx, dbConfig)
	if err != nil {
		slog.Error("Failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slog.Info("Database connected successfully")

	if err := db.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize database schema", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos := webmodels.NewRepositories(
		repositories.NewUserRepository(db.BunDB()),
		repositories.NewItemRepository(db.BunDB()),
		repositories.NewListingRepository(db.BunDB(), cfg.Web.ListingRetention()),
		repositories.NewInteractionRepository(db.BunDB()),
		repositories.NewConversationRepository(db.BunDB()),
		repositories.NewMessageRepository(db.BunDB()),
		repositories.NewSessionRepository(db.BunDB()),
	)

	moderationService := moderation.NewService(
		moderation.NewFilter(cfg.Moderation.BlockedTerms),
		moderation.NewEscalator(cfg.Moderation.Endpoint, cfg.Moderation.EscalationTimeout()),
	)

	listingService := services.NewListingService(repos.Listing, repos.Item, repos.User, moderationService)
	interactionService := services.NewInteractionService(repos.Interaction, repos.Listing, repos.User, moderationService)
	messagingService := services.NewMessagingService(repos.Conversation, repos.Message, repos.User, moderationService)
	catalogService := services.NewCatalogService(repos.Item)
	imageCache := services.NewImageCache(tradewindconfig.ImageCacheSize, tradewindconfig.ImageCacheExpiration)

	var spacesService *services.SpacesService
	if cfg.Spaces.Key != "" {
		spacesService, err = services.NewSpacesService(
			cfg.Spaces.Key,
			cfg.Spaces.Secret,
			cfg.Spaces.Region,
			cfg.Spaces.Bucket,
			cfg.Spaces.ItemRoot,
		)
		if err != nil {
			slog.Error("Failed to initialize Spaces", slog.Any("error", err))
			os.Exit(1)
		}
	}

	oauthService := webservices.NewOAuthService(webCfg)
	sessionService := webservices.NewSessionService(webCfg, repos.Session)

	app := fiber.New(fiber.Config{
		AppName:      "TradeWind Backend API",
		ServerHeader: "TradeWind-Backend",
		ErrorHandler: middleware.CustomErrorHandler,
		// Leave room for the multipart envelope around a max-size image.
		BodyLimit: tradewindconfig.MaxImageSize + 1024*1024,
	})

	app.Use(recover.New())
	app.Use(middleware.SecurityHeaders())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000,http://localhost:8080",
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,X-Requested-With,Cookie",
		AllowCredentials: true,
	}))
	app.Use(middleware.LoggingMiddleware())

	webApp := &handlers.WebApp{
		Config:             webCfg,
		DB:                 db,
		Repos:              repos,
		ListingService:     listingService,
		InteractionService: interactionService,
		MessagingService:   messagingService,
		CatalogService:     catalogService,
		SpacesService:      spacesService,
		ImageCache:         imageCache,
		OAuthService:       oauthService,
		SessionService:     sessionService,
		Version:            version,
		Commit:             commit,
	}

	setupRoutes(app, webApp)

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go runSweeps(sweepCtx, repos.Listing, sessionService, cfg.Web.ListingRetention())

	address := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	slog.Info("Starting backend server", slog.String("address", address))

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := app.Listen(address); err != nil {
			slog.Error("Failed to start server", slog.String("error", err.Error()))
		}
	}()

	<-c
	slog.Info("Shutting down backend server...")
	stopSweep()

	ctx, cancel = context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		slog.Error("Server shutdown error", slog.String("error", err.Error()))
	}

	db.Close()
	slog.Info("Backend server shutdown complete")
}

// runSweeps periodically drops listings past the retention window and
// expired session rows.
func runSweeps(ctx context.Context, listings repositories.ListingRepository, sessions *webservices.SessionService, retention time.Duration) {
	ticker := time.NewTicker(tradewindconfig.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweepCtx, cancel := context.WithTimeout(ctx, tradewindconfig.DefaultQueryTimeout)

			if removed, err := listings.DeleteExpired(sweepCtx, retention); err != nil {
				slog.Error("Listing sweep failed",
					slog.String("type", "db"),
					slog.Any("error", err))
			} else if removed > 0 {
				slog.Info("Swept expired listings",
					slog.String("type", "db"),
					slog.Int64("removed", removed))
			}

			if removed, err := sessions.SweepExpired(sweepCtx); err != nil {
				slog.Error("Session sweep failed",
					slog.String("type", "db"),
					slog.Any("error", err))
			} else if removed > 0 {
				slog.Info("Swept expired sessions",
					slog.String("type", "db"),
					slog.Int64("removed", removed))
			}

			cancel()
		}
	}
}

// setupRoutes configures all application routes
func setupRoutes(app *fiber.App, webApp *handlers.WebApp) {
	app.Get("/health", handlers.HealthCheck(webApp))

	// Authentication routes
	auth := app.Group("/auth")
	auth.Use(middleware.RateLimit(tradewindconfig.AuthRateLimit, tradewindconfig.RateLimitWindow))
	auth.Get("/discord", handlers.DiscordOAuth(webApp))
	auth.Get("/callback", handlers.OAuthCallback(webApp))
	auth.Post("/logout", handlers.Logout(webApp))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "TradeWind Backend API",
			"version": webApp.Version,
			"status":  "running",
		})
	})

	api := app.Group("/api")
	api.Use(middleware.RateLimit(tradewindconfig.APIRateLimit, tradewindconfig.RateLimitWindow))

	api.Get("/auth/validate", handlers.ValidateSession(webApp))

	// Listings: browsing is public, everything else needs a session.
	listings := api.Group("/listings")
	listings.Get("/", handlers.ListingsIndex(webApp))
	listings.Get("/mine", middleware.AuthRequired(webApp), handlers.ListingsMine(webApp))
	listings.Get("/:id", handlers.ListingsDetail(webApp))
	listings.Post("/", middleware.AuthRequired(webApp), handlers.ListingsCreate(webApp))
	listings.Put("/:id", middleware.AuthRequired(webApp), handlers.ListingsUpdate(webApp))
	listings.Delete("/:id", middleware.AuthRequired(webApp), handlers.ListingsDelete(webApp))
	listings.Get("/:id/interactions", middleware.AuthRequired(webApp), handlers.InteractionsForListing(webApp))
	listings.Post("/:id/interactions", middleware.AuthRequired(webApp), handlers.InteractionsCreate(webApp))

	interactions := api.Group("/interactions")
	interactions.Use(middleware.AuthRequired(webApp))
	interactions.Post("/:id/accept", handlers.InteractionsAccept(webApp))
	interactions.Post("/:id/decline", handlers.InteractionsDecline(webApp))
	interactions.Post("/:id/withdraw", handlers.InteractionsWithdraw(webApp))

	conversations := api.Group("/conversations")
	conversations.Use(middleware.AuthRequired(webApp))
	conversations.Get("/", handlers.ConversationsIndex(webApp))
	conversations.Post("/", handlers.ConversationsCreate(webApp))
	conversations.Put("/:id/pin", handlers.ConversationsPin(webApp))
	conversations.Delete("/:id", handlers.ConversationsDelete(webApp))
	conversations.Get("/:id/messages", handlers.MessagesIndex(webApp))
	conversations.Post("/:id/messages", handlers.MessagesCreate(webApp))
	conversations.Post("/:id/read", handlers.MessagesMarkRead(webApp))

	messages := api.Group("/messages")
	messages.Use(middleware.AuthRequired(webApp))
	messages.Put("/:id", handlers.MessagesEdit(webApp))
	messages.Delete("/:id", handlers.MessagesDelete(webApp))
	messages.Put("/:id/reactions", handlers.MessagesReactions(webApp))

	// Catalog: reads are public, writes are admin only.
	catalog := api.Group("/catalog")
	catalog.Get("/", handlers.CatalogIndex(webApp))
	catalog.Get("/:id", handlers.CatalogDetail(webApp))

	authed := middleware.AuthRequired(webApp)
	adminOnly := middleware.AdminRequired()
	catalog.Post("/", authed, adminOnly, handlers.CatalogCreate(webApp))
	catalog.Put("/:id", authed, adminOnly, handlers.CatalogUpdate(webApp))
	catalog.Delete("/:id", authed, adminOnly, handlers.CatalogDelete(webApp))
	catalog.Post("/:id/image", authed, adminOnly, handlers.ItemImageUpload(webApp))

	app.Get("/images/items/:id", handlers.ItemImage(webApp))

	app.Use(func(c *fiber.Ctx) error {
		slog.Warn("No route matched for request",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("ip", c.IP()),
		)
		return c.Status(404).JSON(fiber.Map{
			"error":   "Not Found",
			"message": "The requested endpoint does not exist",
		})
	})
}
