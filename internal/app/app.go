package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/storefront/catalog/internal/auth"
	"github.com/storefront/catalog/internal/cache"
	"github.com/storefront/catalog/internal/config"
	"github.com/storefront/catalog/internal/handlers"
	"github.com/storefront/catalog/internal/imageprocessor"
	"github.com/storefront/catalog/internal/logger"
	"github.com/storefront/catalog/internal/mail"
	"github.com/storefront/catalog/internal/media"
	"github.com/storefront/catalog/internal/middleware"
	"github.com/storefront/catalog/internal/models"
	"github.com/storefront/catalog/internal/repositories"
	"github.com/storefront/catalog/internal/routes"
	"github.com/storefront/catalog/internal/services"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	// TranslateError maps driver unique-violation errors onto
	// gorm.ErrDuplicatedKey, which the repositories rely on.
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{TranslateError: true})
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := gormDB.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.ProductColor{},
		&models.ProductImage{},
	); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	router := SetupRouter(cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := router.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter wires repositories, services and handlers onto a gin engine.
// Split from Run so tests can mount the full route table on their own
// database handle.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	store, err := media.NewStore(media.Config{
		Type:      cfg.Storage.Type,
		BasePath:  cfg.Storage.BasePath,
		BaseURL:   cfg.Storage.BaseURL,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Endpoint:  cfg.Storage.Endpoint,
	})
	if err != nil {
		logger.Fatal("Failed to initialize media store", "error", err)
	}
	logger.Info("Media store initialized", "type", cfg.Storage.Type)

	redisClient := connectRedis(cfg)

	tokens := auth.NewTokenManager(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		time.Duration(cfg.JWT.AccessTTLMinutes)*time.Minute,
		time.Duration(cfg.JWT.RefreshTTLHours)*time.Hour,
	)

	var mailer *mail.Mailer
	if cfg.Mail.SMTPHost != "" {
		mailer = mail.NewMailer(cfg.Mail.SMTPHost, cfg.Mail.SMTPPort,
			cfg.Mail.SMTPUsername, cfg.Mail.SMTPPassword, cfg.Mail.FromEmail)
	}

	userRepo := repositories.NewUserRepository(gormDB)
	categoryRepo := repositories.NewCategoryRepository(gormDB)
	productRepo := repositories.NewProductRepository(gormDB)

	optimizer := imageprocessor.NewProcessor(cfg.Upload.MaxWidth, cfg.Upload.ImageQuality)

	authService := services.NewAuthService(userRepo, tokens, mailer)
	categoryService := services.NewCategoryService(categoryRepo)
	productService := services.NewProductService(productRepo, store, optimizer)

	base := handlers.NewBaseHandler()
	appHandlers := &handlers.AppHandlers{
		AuthHandler:     handlers.NewAuthHandler(base, authService),
		CategoryHandler: handlers.NewCategoryHandler(base, categoryService),
		ProductHandler:  handlers.NewProductHandler(base, productService, cache.NewProductCache(redisClient)),
	}

	if cfg.Server.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.MaxMultipartMemory = cfg.Upload.MaxSize

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.BasePath)
	}

	routes.RegisterRoutes(router, appHandlers,
		middleware.AuthMiddleware(tokens),
		middleware.RateLimiter(redisClient),
	)

	return router
}

// connectRedis returns nil when redis is not configured or unreachable;
// caching and rate limiting then switch themselves off.
func connectRedis(cfg *config.Config) *redis.Client {
	if cfg.Redis.Addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unavailable, caching and rate limiting disabled", "addr", cfg.Redis.Addr, "error", err)
		return nil
	}

	logger.Info("Redis connected", "addr", cfg.Redis.Addr)
	return client
}
