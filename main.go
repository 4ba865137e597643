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

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/handler"
	"github.com/tradewind-gg/tradewind/tradewind"
	"github.com/tradewind-gg/tradewind/tradewind/commands"
	"github.com/tradewind-gg/tradewind/tradewind/database"
	"github.com/tradewind-gg/tradewind/tradewind/database/repositories"
	"github.com/tradewind-gg/tradewind/tradewind/handlers"
	"github.com/tradewind-gg/tradewind/tradewind/logger"
	"github.com/tradewind-gg/tradewind/tradewind/migration"
	"github.com/tradewind-gg/tradewind/tradewind/moderation"
	"github.com/tradewind-gg/tradewind/tradewind/services"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	customHandler := logger.NewHandler("TradeWind")
	slog.SetDefault(slog.New(customHandler))

	slog.Info("Starting TradeWind catalog bot",
		slog.String("version", version),
		slog.String("commit", commit))

	shouldSyncCommands := flag.Bool("sync-commands", false, "Whether to sync commands to discord")
	shouldImportCatalog := flag.Bool("import-catalog", false, "Import the legacy Mongo catalog and exit")
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := tradewind.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}
	slog.Info("Configuration loaded successfully")

	slog.Info("Initializing database connection...")
	dbStartTime := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

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
		slog.Error("Database connection failed",
			slog.String("error", err.Error()),
			slog.Duration("attempted_for", time.Since(dbStartTime)))
		os.Exit(-1)
	}
	defer db.Close()

	slog.Info("Database connected successfully",
		slog.String("database", cfg.DB.Database),
		slog.Duration("took", time.Since(dbStartTime)))

	if err := db.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize database schema",
			slog.String("error", err.Error()))
		os.Exit(-1)
	}
	slog.Info("Database schema initialized successfully")

	if *shouldImportCatalog {
		slog.Info("Importing legacy catalog",
			slog.String("type", "db"),
			slog.String("database", cfg.Import.MongoDatabase))
		importer := migration.NewImporter(db.BunDB(), cfg.Import.MongoURI, cfg.Import.MongoDatabase, cfg.Import.BatchSize)
		if err := importer.Run(ctx); err != nil {
			slog.Error("Catalog import failed", slog.Any("error", err))
			os.Exit(-1)
		}
		return
	}

	b := tradewind.New(*cfg, version, commit)
	b.DB = db

	b.ItemRepository = repositories.NewItemRepository(db.BunDB())
	b.ListingRepository = repositories.NewListingRepository(db.BunDB(), cfg.Web.ListingRetention())
	b.UserRepository = repositories.NewUserRepository(db.BunDB())

	moderationService := moderation.NewService(
		moderation.NewFilter(cfg.Moderation.BlockedTerms),
		moderation.NewEscalator(cfg.Moderation.Endpoint, cfg.Moderation.EscalationTimeout()),
	)

	b.CatalogService = services.NewCatalogService(b.ItemRepository)
	b.ListingService = services.NewListingService(b.ListingRepository, b.ItemRepository, b.UserRepository, moderationService)
	b.PreviewService = services.NewPreviewImageService()

	if cfg.Spaces.Key != "" {
		spacesService, err := services.NewSpacesService(
			cfg.Spaces.Key,
			cfg.Spaces.Secret,
			cfg.Spaces.Region,
			cfg.Spaces.Bucket,
			cfg.Spaces.ItemRoot,
		)
		if err != nil {
			slog.Error("Failed to initialize Spaces", slog.Any("error", err))
			os.Exit(-1)
		}
		b.SpacesService = spacesService
	}

	h := handler.New()
	h.Command("/version", commands.VersionHandler(b))
	h.Command("/additem", handlers.WrapWithLogging("additem", commands.AddItemHandler(b)))
	h.Command("/edititem", handlers.WrapWithLogging("edititem", commands.EditItemHandler(b)))
	h.Command("/removeitem", handlers.WrapWithLogging("removeitem", commands.RemoveItemHandler(b)))
	h.Command("/finditem", handlers.WrapWithLogging("finditem", commands.FindItemHandler(b)))
	h.Command("/listingcard", handlers.WrapWithLogging("listingcard", commands.ListingCardHandler(b)))

	if err = b.SetupBot(h, bot.NewListenerFunc(b.OnReady)); err != nil {
		slog.Error("Failed to setup bot",
			slog.String("type", "sys"),
			slog.Any("error", err),
		)
		os.Exit(-1)
	}

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		b.Client.Close(ctx)
	}()

	if *shouldSyncCommands {
		slog.Info("Syncing commands",
			slog.String("type", "sys"),
			slog.Any("guild_ids", cfg.Bot.DevGuilds))
		if err = handler.SyncCommands(b.Client, commands.Commands, cfg.Bot.DevGuilds); err != nil {
			slog.Error("Failed to sync commands",
				slog.String("type", "sys"),
				slog.Any("error", err),
				slog.String("error_details", fmt.Sprintf("%+v", err)),
			)
		}
	}

	gatewayCtx, gatewayCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer gatewayCancel()
	if err = b.Client.OpenGateway(gatewayCtx); err != nil {
		slog.Error("Failed to open gateway",
			slog.String("type", "sys"),
			slog.Any("error", err),
		)
		os.Exit(-1)
	}

	slog.Info("Bot is running. Press CTRL-C to exit.")
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s
	slog.Info("Shutting down bot...")
}
