package router

import (
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/amandajiang259/Yapp/internal/handlers"
	"github.com/amandajiang259/Yapp/internal/middleware"
	"github.com/amandajiang259/Yapp/internal/repositories"
	"github.com/amandajiang259/Yapp/internal/services"
	"github.com/amandajiang259/Yapp/pkg/docstore"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, store docstore.CollectionStore, mgClient *mongo.Client, firebaseAuthClient *auth.Client, logger *zap.Logger) {
	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize repositories and services ---
	userRepo := repositories.NewDocstoreUserRepository(store)
	postRepo := repositories.NewDocstorePostRepository(store)
	affirmationRepo := repositories.NewDocstoreAffirmationRepository(store)
	messageRepo := repositories.NewDocstoreMessageRepository(store)
	mediaRepo, err := repositories.NewGridFSMediaRepository(mgClient.Database("yapp"))
	if err != nil {
		log.Fatalf("Failed to initialize GridFS media repository: %v", err)
	}
	followGraph := services.NewFollowGraphService(store, logger)

	// --- Protected routes (require a Firebase ID token) ---
	api := e.Group("/api/v1")
	api.Use(middleware.FirebaseAuthMiddleware(firebaseAuthClient))

	userHandler := handlers.NewUserHandler(userRepo, logger)
	userHandler.RegisterUserRoutes(api)

	followHandler := handlers.NewFollowHandler(followGraph, logger)
	followHandler.RegisterFollowRoutes(api)

	postHandler := handlers.NewPostHandler(postRepo, logger)
	postHandler.RegisterPostRoutes(api)

	affirmationHandler := handlers.NewAffirmationHandler(affirmationRepo, logger)
	affirmationHandler.RegisterAffirmationRoutes(api)

	messageHandler := handlers.NewMessageHandler(messageRepo, userRepo, logger)
	messageHandler.RegisterMessageRoutes(api)

	mediaHandler := handlers.NewMediaHandler(mediaRepo, logger)
	mediaHandler.RegisterMediaRoutes(api)

	logger.Info("all routes configured")
}
