package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/mindwell-app/mindwell/internal/config"
	"github.com/mindwell-app/mindwell/internal/database"
	"github.com/mindwell-app/mindwell/internal/handlers"
	"github.com/mindwell-app/mindwell/internal/jobs"
	"github.com/mindwell-app/mindwell/internal/repository"
	cronjobs "github.com/mindwell-app/mindwell/internal/scheduler"
	"github.com/mindwell-app/mindwell/internal/services"
	"github.com/mindwell-app/mindwell/pkg/logger"
	"github.com/mindwell-app/mindwell/pkg/middleware"
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
		log.Fatalf("Index bootstrap error: %v", err)
	}

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	entryRepo := repository.NewMoodEntryRepository(db)
	statsRepo := repository.NewStatsRepository(db)
	achievementRepo := repository.NewAchievementRepository(db)
	alertRepo := repository.NewAlertRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	friendRepo := repository.NewFriendRepository(db)
	chatRepo := repository.NewChatRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	postRepo := repository.NewPostRepository(db)

	// --- Services ---
	notificationService := services.NewNotificationService(notificationRepo, userRepo)
	achievementService := services.NewAchievementService(achievementRepo, notificationService, services.DefaultCatalog())
	activityService := services.NewActivityService(activityRepo)
	supportCircleService := services.NewSupportCircleService(alertRepo, statsRepo, userRepo, userRepo, notificationService, activityService, cfg.FanoutLimit)
	checkInService := services.NewCheckInService(entryRepo, statsRepo, userRepo, chatRepo, postRepo, activityService, achievementService, supportCircleService)
	userService := services.NewUserService(userRepo, cfg.BaseURL)
	friendService := services.NewFriendService(friendRepo, userRepo, notificationService)
	chatService := services.NewChatService(chatRepo, userRepo, notificationService)

	// --- Handlers ---
	userHandler := handlers.NewUserHandler(userService, cfg)
	checkInHandler := handlers.NewCheckInHandler(checkInService)
	achievementHandler := handlers.NewAchievementHandler(achievementService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	friendHandler := handlers.NewFriendHandler(friendService)
	chatHandler := handlers.NewChatHandler(chatService)
	activityHandler := handlers.NewActivityHandler(activityService)

	// Initialize Gorilla Mux router
	router := mux.NewRouter()

	// Check-in routes
	protectedCheckInRoutes := router.PathPrefix("/checkins").Subrouter()
	protectedCheckInRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedCheckInRoutes.HandleFunc("", checkInHandler.CheckInHandler).Methods("POST")
	protectedCheckInRoutes.HandleFunc("", checkInHandler.GetHistoryHandler).Methods("GET")
	protectedCheckInRoutes.HandleFunc("/today", checkInHandler.UpdateTodayHandler).Methods("PUT")
	protectedCheckInRoutes.HandleFunc("/today", checkInHandler.GetTodayHandler).Methods("GET")

	// Stats summary
	statsRoutes := router.PathPrefix("/stats").Subrouter()
	statsRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	statsRoutes.HandleFunc("", checkInHandler.GetStatsHandler).Methods("GET")

	// Achievement routes
	achievementRoutes := router.PathPrefix("/achievements").Subrouter()
	achievementRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	achievementRoutes.HandleFunc("", achievementHandler.GetUserAchievementsHandler).Methods("GET")
	achievementRoutes.HandleFunc("/catalog", achievementHandler.GetCatalogHandler).Methods("GET")

	// Notification routes
	notificationRoutes := router.PathPrefix("/notifications").Subrouter()
	notificationRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	notificationRoutes.HandleFunc("", notificationHandler.GetUserNotificationsHandler).Methods("GET")
	notificationRoutes.HandleFunc("/unread-count", notificationHandler.GetUnreadCountHandler).Methods("GET")
	notificationRoutes.HandleFunc("/read-all", notificationHandler.MarkAllAsReadHandler).Methods("PUT")
	notificationRoutes.HandleFunc("/{id}/read", notificationHandler.MarkAsReadHandler).Methods("PUT")
	notificationRoutes.HandleFunc("/{id}", notificationHandler.DeleteNotificationHandler).Methods("DELETE")

	// Register User routes
	router.HandleFunc("/users/register", userHandler.RegisterUserHandler).Methods("POST")
	router.HandleFunc("/users/login", userHandler.LoginUserHandler).Methods("POST")
	router.HandleFunc("/users/verify", userHandler.VerifyEmailHandler).Methods("GET")

	// Protected user routes (only authenticated users can access)
	protectedUserRoutes := router.PathPrefix("/users").Subrouter()
	protectedUserRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedUserRoutes.HandleFunc("/{id}", userHandler.GetUserHandler).Methods("GET")
	protectedUserRoutes.HandleFunc("/{id}", userHandler.UpdateUserHandler).Methods("PATCH")

	// Friend routes
	protectedFriendRoutes := router.PathPrefix("/friends").Subrouter()
	protectedFriendRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedFriendRoutes.HandleFunc("/{id}/request", friendHandler.SendFriendRequestHandler).Methods("POST")
	protectedFriendRoutes.HandleFunc("/requests", friendHandler.GetPendingRequestsHandler).Methods("GET")
	protectedFriendRoutes.HandleFunc("/requests/{id}/respond", friendHandler.RespondToFriendRequestHandler).Methods("POST")
	protectedFriendRoutes.HandleFunc("", friendHandler.GetFriendsHandler).Methods("GET")
	protectedFriendRoutes.HandleFunc("/{id}", friendHandler.RemoveFriendHandler).Methods("DELETE")

	// Message routes
	protectedMessageRoutes := router.PathPrefix("/messages").Subrouter()
	protectedMessageRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedMessageRoutes.HandleFunc("/{id}", chatHandler.SendMessageHandler).Methods("POST")
	protectedMessageRoutes.HandleFunc("/{id}", chatHandler.GetChatHandler).Methods("GET")

	// Activity feed
	activityRoutes := router.PathPrefix("/activity").Subrouter()
	activityRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	activityRoutes.HandleFunc("", activityHandler.GetUserActivitiesHandler).Methods("GET")

	// Admin routes
	adminRoutes := router.PathPrefix("/admin").Subrouter()
	adminRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	adminRoutes.Use(middleware.RequireRole("admin"))
	adminRoutes.HandleFunc("/users", userHandler.AdminGetAllUsersHandler).Methods("GET")

	// Apply middleware for logging
	router.Use(middleware.LoggingMiddleware)

	// Background jobs
	reminder := jobs.NewCheckInReminder(userRepo, entryRepo, notificationService)
	cronjobs.StartNotificationCronJobs(notificationService, reminder)

	// Start the HTTP server
	port := cfg.Port
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // adjust to frontend origin
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(router)

	fmt.Printf("Server running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
