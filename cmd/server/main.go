package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/aidostt/wanderstay/internal/cache"
	"github.com/aidostt/wanderstay/internal/config"
	"github.com/aidostt/wanderstay/internal/database"
	"github.com/aidostt/wanderstay/internal/handlers"
	"github.com/aidostt/wanderstay/internal/realtime"
	"github.com/aidostt/wanderstay/internal/repository"
	"github.com/aidostt/wanderstay/internal/scheduler"
	"github.com/aidostt/wanderstay/internal/services"
	"github.com/aidostt/wanderstay/pkg/logger"
	"github.com/aidostt/wanderstay/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger()
	logger.Log.Info("Logger initialized")

	// Connect to MongoDB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}
	if err := database.EnsureIndexes(context.Background(), db); err != nil {
		log.Fatalf("Index creation error: %v", err)
	}

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	listingRepo := repository.NewListingRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	wishlistRepo := repository.NewWishlistRepository(db)
	chatRepo := repository.NewChatRepository(db)
	followRepo := repository.NewFollowRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Followee lookups go through Redis when configured. Without Redis the
	// feed reads the graph straight from Mongo.
	var followGraph repository.FollowGraph = followRepo
	var invalidator services.FollowCacheInvalidator
	if cfg.RedisAddr != "" {
		rdb, err := cache.NewRedisClient(context.Background(), cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Fatalf("Redis connection error: %v", err)
		}
		followCache := cache.NewFollowGraphCache(followRepo, rdb)
		followGraph = followCache
		invalidator = followCache
		logger.Log.Info("Follow graph cache enabled")
	}

	hub := realtime.NewHub()

	// --- Services ---
	activityService := services.NewActivityService(activityRepo)
	notificationService := services.NewNotificationService(notificationRepo, hub)
	userService := services.NewUserService(userRepo)
	listingService := services.NewListingService(listingRepo, activityService)
	bookingService := services.NewBookingService(bookingRepo, listingRepo, userRepo, activityService, notificationService)
	reviewService := services.NewReviewService(reviewRepo, bookingRepo, listingRepo, activityService, notificationService)
	wishlistService := services.NewWishlistService(wishlistRepo, listingRepo, activityService)
	chatService := services.NewChatService(chatRepo, userRepo, listingRepo, activityService, notificationService)
	followService := services.NewFollowService(followRepo, userRepo, activityService, notificationService, invalidator)
	targetResolver := services.NewTargetResolver(listingRepo, bookingRepo, reviewRepo, userRepo, wishlistRepo, chatRepo, cfg.FeedResolveTimeout)
	feedService := services.NewFeedService(activityRepo, followGraph, userRepo, targetResolver, cfg.FeedAllowAnonymous)

	// --- Handlers ---
	userHandler := handlers.NewUserHandler(userService, cfg)
	listingHandler := handlers.NewListingHandler(listingService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	wishlistHandler := handlers.NewWishlistHandler(wishlistService)
	chatHandler := handlers.NewChatHandler(chatService)
	followHandler := handlers.NewFollowHandler(followService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	activityHandler := handlers.NewActivityHandler(feedService, userService)
	wsHandler := handlers.NewWSNotificationHandler(hub, cfg.JWTSecret)

	// Initialize Gorilla Mux router
	router := mux.NewRouter()

	// Public user routes
	router.HandleFunc("/users/register", userHandler.RegisterUserHandler).Methods("POST")
	router.HandleFunc("/users/login", userHandler.LoginUserHandler).Methods("POST")

	// Protected user routes
	protectedUserRoutes := router.PathPrefix("/users").Subrouter()
	protectedUserRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedUserRoutes.HandleFunc("/{id}", userHandler.GetUserHandler).Methods("GET")
	protectedUserRoutes.HandleFunc("/{id}", userHandler.UpdateUserHandler).Methods("PATCH")
	protectedUserRoutes.HandleFunc("/{id}/follow", followHandler.FollowUserHandler).Methods("POST")
	protectedUserRoutes.HandleFunc("/{id}/follow", followHandler.UnfollowUserHandler).Methods("DELETE")
	protectedUserRoutes.HandleFunc("/me/following", followHandler.GetFollowingHandler).Methods("GET")
	protectedUserRoutes.HandleFunc("/me/followers", followHandler.GetFollowersHandler).Methods("GET")

	// Listing routes
	protectedListingRoutes := router.PathPrefix("/listings").Subrouter()
	protectedListingRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedListingRoutes.HandleFunc("", listingHandler.CreateListingHandler).Methods("POST")
	protectedListingRoutes.HandleFunc("/mine", listingHandler.GetMyListingsHandler).Methods("GET")
	protectedListingRoutes.HandleFunc("/{id}", listingHandler.GetListingHandler).Methods("GET")

	// Booking routes
	protectedBookingRoutes := router.PathPrefix("/bookings").Subrouter()
	protectedBookingRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedBookingRoutes.HandleFunc("", bookingHandler.CreateBookingHandler).Methods("POST")
	protectedBookingRoutes.HandleFunc("", bookingHandler.GetMyBookingsHandler).Methods("GET")
	protectedBookingRoutes.HandleFunc("/{id}/status", bookingHandler.UpdateBookingStatusHandler).Methods("PATCH")

	// Review routes
	protectedReviewRoutes := router.PathPrefix("/reviews").Subrouter()
	protectedReviewRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedReviewRoutes.HandleFunc("", reviewHandler.CreateReviewHandler).Methods("POST")
	protectedReviewRoutes.HandleFunc("/{id}/response", reviewHandler.RespondToReviewHandler).Methods("POST")

	// Wishlist routes
	protectedWishlistRoutes := router.PathPrefix("/wishlists").Subrouter()
	protectedWishlistRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedWishlistRoutes.HandleFunc("", wishlistHandler.CreateWishlistHandler).Methods("POST")
	protectedWishlistRoutes.HandleFunc("", wishlistHandler.GetMyWishlistsHandler).Methods("GET")
	protectedWishlistRoutes.HandleFunc("/{id}", wishlistHandler.GetWishlistHandler).Methods("GET")
	protectedWishlistRoutes.HandleFunc("/{id}/listings/{listingID}", wishlistHandler.AddListingHandler).Methods("POST")
	protectedWishlistRoutes.HandleFunc("/{id}/listings/{listingID}", wishlistHandler.RemoveListingHandler).Methods("DELETE")

	// Messaging routes
	protectedMessageRoutes := router.PathPrefix("/messages").Subrouter()
	protectedMessageRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedMessageRoutes.HandleFunc("", chatHandler.SendMessageHandler).Methods("POST")
	protectedMessageRoutes.HandleFunc("/conversations", chatHandler.GetConversationsHandler).Methods("GET")
	protectedMessageRoutes.HandleFunc("/conversations/{id}", chatHandler.GetMessagesHandler).Methods("GET")

	// Notification routes
	protectedNotificationRoutes := router.PathPrefix("/notifications").Subrouter()
	protectedNotificationRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedNotificationRoutes.HandleFunc("", notificationHandler.GetNotificationsHandler).Methods("GET")
	protectedNotificationRoutes.HandleFunc("/{id}/read", notificationHandler.MarkAsReadHandler).Methods("PATCH")
	protectedNotificationRoutes.HandleFunc("/{id}", notificationHandler.DeleteNotificationHandler).Methods("DELETE")

	// Feed routes. The per-user activity page allows anonymous callers; the
	// handler applies the profile privacy rules itself.
	protectedFeedRoutes := router.PathPrefix("/activities/feed").Subrouter()
	protectedFeedRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedFeedRoutes.HandleFunc("", activityHandler.GetFeedHandler).Methods("GET")

	activityRoutes := router.PathPrefix("/activities").Subrouter()
	activityRoutes.Use(middleware.OptionalAuthMiddleware(cfg.JWTSecret))
	activityRoutes.HandleFunc("/user/{id}", activityHandler.GetUserActivitiesHandler).Methods("GET")

	// Admin routes
	adminRoutes := router.PathPrefix("/admin").Subrouter()
	adminRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	adminRoutes.Use(middleware.RequireRole("admin"))
	adminRoutes.HandleFunc("/notifications/purge", notificationHandler.PurgeExpiredHandler).Methods("POST")

	// Websocket endpoint for live notification pushes
	router.HandleFunc("/ws/notifications", wsHandler.ConnectHandler)

	// Apply middleware for logging
	router.Use(middleware.LoggingMiddleware)

	// Hourly cleanup of expired notifications
	scheduler.StartNotificationCronJobs(notificationService)

	// Start the HTTP server
	port := cfg.Port
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(router)

	fmt.Printf("Server running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
