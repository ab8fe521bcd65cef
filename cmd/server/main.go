package main

import (
	"context"
	"log"

	"github.com/amandajiang259/Yapp/internal/router"
	"github.com/amandajiang259/Yapp/pkg/config"
	"github.com/amandajiang259/Yapp/pkg/docstore"
	"github.com/amandajiang259/Yapp/pkg/firebase"
	"github.com/amandajiang259/Yapp/validators"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Firebase (auth + Firestore)
	ctx := context.Background()
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}
	defer firebaseApp.Close()

	// Initialize MongoDB (GridFS media storage)
	mongoClient, err := config.InitMongo(cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to initialize MongoDB: %v", err)
	}
	defer config.CloseMongo(mongoClient)

	store := docstore.NewFirestoreStore(firebaseApp.FirestoreClient)

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, store, mongoClient, firebaseApp.AuthClient, logger)

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
