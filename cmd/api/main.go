package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/router"
	"github.com/pageza/foodgram/backend/internal/server"
	"github.com/pageza/foodgram/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	db, err := database.New(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := database.RunMigrations(db.DB, cfg.MigrationsDir); err != nil {
		logging.Fatal().Err(err).Msg("Failed to run migrations")
	}

	var (
		tokenStore service.TokenStore
		limiter    *middleware.RateLimiter
		redisConn  *redis.Client
	)
	if cfg.RedisEnabled() {
		redisConn, err = database.NewRedisClient(cfg)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer redisConn.Close()
		tokenStore = service.NewRedisTokenStore(redisConn)
		if cfg.RecipeCreateLimit > 0 {
			limiter = middleware.NewRecipeCreationRateLimiter(redisConn, cfg.RecipeCreateLimit)
		}
	} else {
		logging.Warn().Msg("Redis not configured: logout revocation and recipe rate limiting are disabled")
	}

	favorites := service.NewFavoriteService(db.DB)
	cart := service.NewShoppingCartService(db.DB)
	subscriptions := service.NewSubscriptionService(db.DB)

	deps := api.Deps{
		DB:            db.DB,
		Auth:          service.NewAuthService(db.DB, cfg.JWTSecret, cfg.TokenTTL, tokenStore),
		Users:         service.NewUserService(db.DB),
		Catalog:       service.NewCatalogService(db.DB),
		Recipes:       service.NewRecipeService(db.DB),
		Favorites:     favorites,
		ShoppingCart:  cart,
		Subscriptions: subscriptions,
		ShoppingList:  service.NewShoppingListService(db.DB),
		Presenter:     service.NewPresenter(favorites, cart, subscriptions),
		RecipeLimiter: limiter,
		Paging: api.Paging{
			DefaultLimit: cfg.PageSize,
			MaxLimit:     cfg.MaxPageSize,
		},
		ShoppingListFilename: cfg.ShoppingListFilename,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg.Addr(), router.SetupRouter(deps, db, cfg.CORSOrigins))
	if err := srv.Start(ctx); err != nil {
		logging.Error().Err(err).Msg("Server stopped with error")
		os.Exit(1)
	}
	logging.Info().Msg("Server stopped")
}
