package main

import (
	"context"
	"log"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	"pasarloak/internal/adapter/api"
	"pasarloak/internal/adapter/api/handler"
	apimiddleware "pasarloak/internal/adapter/api/middleware"
	"pasarloak/internal/adapter/api/router"
	"pasarloak/internal/adapter/repository"
	"pasarloak/internal/infrastructure/secondme"
	"pasarloak/internal/usecase"
	"pasarloak/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opts []option.ClientOption
	if credentialsJSON := os.Getenv("FIRESTORE_CREDENTIALS_JSON"); credentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	} else if credentialsPath := os.Getenv("FIRESTORE_CREDENTIALS_PATH"); credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	productRepo := repository.NewFirestoreProductRepository(firestoreClient)
	offerRepo := repository.NewFirestoreOfferRepository(firestoreClient)

	secondmeClient := secondme.NewClient(secondme.Config{
		APIBase:       cfg.SecondMeAPIBase,
		OAuthURL:      cfg.SecondMeOAuthURL,
		TokenEndpoint: cfg.SecondMeTokenEndpoint,
		ClientID:      cfg.SecondMeClientID,
		ClientSecret:  cfg.SecondMeClientSecret,
		RedirectURI:   cfg.SecondMeRedirectURI,
		Timeout:       time.Duration(cfg.AgentTimeoutSeconds) * time.Second,
	})

	authUseCase := usecase.NewAuthUseCase(userRepo, secondmeClient)
	productUseCase := usecase.NewProductUseCase(productRepo, userRepo)
	offerUseCase := usecase.NewOfferUseCase(offerRepo, productRepo, userRepo)
	negotiationUseCase := usecase.NewNegotiationUseCase(secondmeClient, productRepo, offerRepo, userRepo)

	handler.Setup(authUseCase, productUseCase, offerUseCase, negotiationUseCase)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(userRepo)

	router.Setup(e, authMiddleware)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
