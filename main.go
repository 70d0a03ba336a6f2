package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/aishwaryacollections/storefront/common/logger"
	"github.com/aishwaryacollections/storefront/config"
	"github.com/aishwaryacollections/storefront/controllers"
	"github.com/aishwaryacollections/storefront/database"
	"github.com/aishwaryacollections/storefront/models"
	"github.com/aishwaryacollections/storefront/providers"
	"github.com/aishwaryacollections/storefront/repository"
	"github.com/aishwaryacollections/storefront/routes"
	"github.com/aishwaryacollections/storefront/services"
)

func main() {
	// .env is optional outside local development
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	logger.Initialize(cfg.Env)
	defer logger.Log.Sync()

	db, err := database.ConnectPostgres(cfg, logger.Log,
		&models.Category{}, &models.Product{}, &models.ProductReview{},
		&models.WishlistItem{}, &models.NewsletterSubscriber{},
		&models.User{}, &models.Admin{}, &models.Profile{}, &models.Address{},
		&models.Order{}, &models.OrderItem{}, &models.Payment{},
	)
	if err != nil {
		logger.Log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}

	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		logger.Log.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	jwtSecret := []byte(cfg.JWTSecret)

	// Repositories
	userRepo := repository.NewGormUserRepository(db)
	productRepo := repository.NewGormProductRepository(db)
	orderRepo := repository.NewGormOrderRepository(db)
	addressRepo := repository.NewGormAddressRepository(db)
	wishlistRepo := repository.NewGormWishlistRepository(db)
	reviewRepo := repository.NewGormReviewRepository(db)
	newsletterRepo := repository.NewGormNewsletterRepository(db)
	paymentRepo := repository.NewGormPaymentRepository(db)
	cartRepo := repository.NewRedisCartRepository(redisClient, cfg.CartTTL)

	// Providers
	emailSender := services.NewSMTPSender(cfg.SMTPEmail, cfg.SMTPPassword, cfg.SMTPHost, cfg.SMTPPort)
	gateway := providers.NewRazorpayProvider(cfg.GatewayKeyID, cfg.GatewayKeySecret)

	// Services
	authService := services.NewAuthService(userRepo, emailSender, jwtSecret, logger.Log)
	authzService := services.NewAuthzService(userRepo, logger.Log)
	productService := services.NewProductService(productRepo, logger.Log)
	orderService := services.NewOrderService(orderRepo, addressRepo, cartRepo, logger.Log)
	customerService := services.NewCustomerService(userRepo, logger.Log)
	paymentService := services.NewPaymentService(paymentRepo, gateway, logger.Log)
	dispatchService := services.NewDispatchService(orderRepo, logger.Log)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), logger.RequestLogger())

	routes.Register(r, routes.Controllers{
		Auth:       controllers.NewAuthController(authService),
		Product:    controllers.NewProductController(productService),
		Cart:       controllers.NewCartController(cartRepo, productRepo, logger.Log),
		Order:      controllers.NewOrderController(orderService),
		Address:    controllers.NewAddressController(addressRepo, logger.Log),
		Wishlist:   controllers.NewWishlistController(wishlistRepo, logger.Log),
		Review:     controllers.NewReviewController(reviewRepo, logger.Log),
		Newsletter: controllers.NewNewsletterController(newsletterRepo, logger.Log),
		Customer:   controllers.NewCustomerController(customerService),
		Payment:    controllers.NewPaymentController(paymentService),
		Dispatch:   controllers.NewDispatchController(dispatchService),
	}, jwtSecret, authzService)

	logger.Log.Info("Starting server", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Log.Fatal("Server exited", zap.Error(err))
	}
}
