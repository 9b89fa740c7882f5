package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"estatehub/internal/config"
	"estatehub/internal/database"
	"estatehub/internal/domain/auth"
	"estatehub/internal/domain/lead"
	"estatehub/internal/domain/listing"
	"estatehub/internal/domain/notification"
	"estatehub/internal/domain/upload"
	"estatehub/internal/domain/verification"
	"estatehub/internal/middleware"
	jwtsvc "estatehub/internal/pkg/jwt"
)

func main() {
	// .env is optional; real deployments set env vars directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	if err := db.AutoMigrate(
		&auth.User{},
		&verification.Request{},
		&listing.Listing{},
		&lead.Lead{},
		&notification.Notification{},
	); err != nil {
		log.Fatal(err)
	}

	jwtService := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)
	storage := upload.NewLocalStorage(cfg.UploadDir, cfg.StaticURLBase)

	userRepo := auth.NewUserRepository(db)
	requestRepo := verification.NewRequestRepository(db)
	listingRepo := listing.NewListingRepository(db)
	leadRepo := lead.NewLeadRepository(db)
	notifRepo := notification.NewRepository(db)

	hub := notification.NewHub()
	notifService := notification.NewService(notifRepo, hub)

	authService := auth.NewService(userRepo, jwtService)
	verifService := verification.NewService(userRepo, requestRepo, verification.Config{
		PageSize:        cfg.PageSize,
		MaxPageSize:     cfg.MaxPageSize,
		MaxReasonLength: cfg.MaxReasonLength,
	}, notifService)
	listingService := listing.NewService(listingRepo, storage, listing.Config{
		PageSize:        cfg.PageSize,
		MaxPageSize:     cfg.MaxPageSize,
		MaxReasonLength: cfg.MaxReasonLength,
		MaxImages:       cfg.MaxListImages,
	}, notifService)
	leadService := lead.NewService(leadRepo, userRepo, lead.Config{
		PageSize:    cfg.PageSize,
		MaxPageSize: cfg.MaxPageSize,
		Weights:     lead.DefaultScoreWeights(),
	}, notifService)

	authHandler := auth.NewHandler(authService)
	verifHandler := verification.NewHandler(verifService)
	listingHandler := listing.NewHandler(listingService)
	leadHandler := lead.NewHandler(leadService)
	notifHandler := notification.NewHandler(notifService, hub, jwtService)

	if cfg.AppEnv == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	// Uploaded images are served straight from disk
	r.Static(cfg.StaticURLBase, cfg.UploadDir)

	notification.RegisterWSRoutes(r, notifHandler)

	v1 := r.Group("/api/v1")
	{
		// public, with optional identity for listing visibility
		public := v1.Group("/")
		public.Use(middleware.OptionalJWTAuth(jwtService))
		{
			auth.RegisterPublicRoutes(public, authHandler)
			verification.RegisterPublicRoutes(public, verifHandler)
			listing.RegisterPublicRoutes(public, listingHandler)
			lead.RegisterPublicRoutes(public, leadHandler)
		}

		// authenticated
		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(jwtService))
		{
			auth.RegisterProtectedRoutes(protected, authHandler)
			listing.RegisterProtectedRoutes(protected, listingHandler)
			notification.RegisterProtectedRoutes(protected, notifHandler)
		}

		// admin and above
		admin := v1.Group("/admin")
		admin.Use(middleware.JWTAuth(jwtService), middleware.AdminOnly())
		{
			verification.RegisterAdminRoutes(admin, verifHandler)
			listing.RegisterAdminRoutes(admin, listingHandler)
		}

		// lead routes declare their own role checks so assignees can
		// reach their leads without the admin role
		leadAdmin := v1.Group("/admin")
		leadAdmin.Use(middleware.JWTAuth(jwtService))
		lead.RegisterAdminRoutes(leadAdmin, leadHandler)
	}

	log.Printf("server starting addr=%s env=%s", cfg.HTTPAddr, cfg.AppEnv)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}
