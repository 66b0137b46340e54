package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"hungryHub/app/echo-server/metrics"
	"hungryHub/app/echo-server/router"
	restaurantService "hungryHub/business/restaurant"
	shippingService "hungryHub/business/shipping"
	userService "hungryHub/business/user"
	"hungryHub/internal/middleware"
	"hungryHub/internal/repository/geocoding"
	"hungryHub/internal/repository/notification"
	psqlRepo "hungryHub/internal/repository/postgres"
	"hungryHub/internal/repository/storage"
	"hungryHub/internal/rest"
	"hungryHub/pkg/config"
	"hungryHub/pkg/database"
	"hungryHub/pkg/logger"

	jsonres "hungryHub/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting HungryHub", "version", cfg.App.Version)

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	if err := database.SeedRoles(db); err != nil {
		logger.Fatal("Failed to seed roles", "error", err)
	}

	logger.Info("Database connected successfully")

	// Init outbound collaborators
	mailjetEmail := notification.NewMailjetRepository(
		notification.MailjetConfig{
			MailjetBaseURL:           cfg.Mailjet.MailjetBaseUrl,
			MailjetBasicAuthUsername: cfg.Mailjet.MailjetBasicAuthUsername,
			MailjetBasicAuthPassword: cfg.Mailjet.MailjetBasicAuthPassword,
			MailjetSenderEmail:       cfg.Mailjet.MailjetSenderEmail,
			MailjetSenderName:        cfg.Mailjet.MailjetSenderName,
		},
	)

	supabaseStorage := storage.NewSupabaseRepository(
		storage.SupabaseConfig{
			ProjectUrl: cfg.Supabase.ProjectUrl,
			ServiceKey: cfg.Supabase.ServiceKey,
			Bucket:     cfg.Supabase.Bucket,
		},
	)

	geocoder := geocoding.NewGeocodingRepository(
		geocoding.GeocodingConfig{
			BaseUrl:   cfg.Geocoding.BaseUrl,
			UserAgent: cfg.Geocoding.UserAgent,
		},
	)

	// Init validate
	validate := validator.New()

	// Init repo
	userRepo := psqlRepo.NewUserRepository(db)
	roleRepo := psqlRepo.NewRoleRepository(db)
	addressRepo := psqlRepo.NewAddressRepository(db)
	restaurantRepo := psqlRepo.NewRestaurantRepository(db)
	orderRepo := psqlRepo.NewOrderRepository(db)
	shippingRepo := psqlRepo.NewShippingRepository(db)

	// Init service
	users := userService.NewUserService(userRepo, roleRepo, mailjetEmail, validate, cfg.App.AppEmailVerificationKey, cfg.App.AppDeploymentUrl)
	restaurants := restaurantService.NewRestaurantService(restaurantRepo, addressRepo, userRepo, orderRepo, supabaseStorage, geocoder)
	shippings := shippingService.NewShippingService(shippingRepo, orderRepo, userRepo)

	// Init handler
	userHandler := rest.NewUserHandler(users)
	restaurantHandler := rest.NewRestaurantHandler(restaurants)
	shippingHandler := rest.NewShippingHandler(shippings)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// Metrics
	metrics.Init()
	e.Use(timingMiddleware)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, jsonres.Success("ok", map[string]string{
			"name":    cfg.App.Name,
			"version": cfg.App.Version,
		}))
	})

	// Auth middleware
	authRequired := middleware.AuthMiddleware()
	perm := func(permission string) echo.MiddlewareFunc {
		return middleware.RequirePermission(roleRepo, permission)
	}

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupUserRoutes(api, userHandler, authRequired, perm)
	router.SetupRestaurantRoutes(api, restaurantHandler, authRequired, perm)
	router.SetupShippingRoutes(api, shippingHandler, authRequired, perm)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}

func timingMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)

		path := c.Path()
		if path == "" {
			path = c.Request().URL.Path
		}

		metrics.RequestDuration.WithLabelValues(c.Request().Method, path).Observe(time.Since(start).Seconds())
		metrics.RequestsTotal.WithLabelValues(c.Request().Method, path, strconv.Itoa(c.Response().Status)).Inc()

		return err
	}
}
