package main

import (
	"context"
	"os"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/tahmid-rahman/inkwell-backend/internal/router"
	"github.com/tahmid-rahman/inkwell-backend/pkg/config"
	"github.com/tahmid-rahman/inkwell-backend/pkg/firebase"
	"github.com/tahmid-rahman/inkwell-backend/validators"
)

func newLogger(env string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	if env == "development" {
		log.SetLevel(logrus.DebugLevel)
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetLevel(logrus.InfoLevel)
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return log
}

func main() {
	cfg := config.Load()
	log := newLogger(cfg.Env)

	db, err := config.InitDB(log)
	if err != nil {
		log.Fatalf("failed to initialize databases: %v", err)
	}
	defer db.CloseDB()

	// Firebase sign-in is optional; without credentials only local auth is offered.
	var firebaseAuthClient *firebaseauth.Client
	if cfg.FirebaseCredentialsPath != "" {
		firebaseApp, err := firebase.InitFirebase(context.Background(), cfg.FirebaseCredentialsPath)
		if err != nil {
			log.Fatalf("failed to initialize Firebase: %v", err)
		}
		firebaseAuthClient = firebaseApp.AuthClient
		log.Info("Firebase auth client initialized")
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	router.SetupMiddleware(e, log)
	if err := router.SetupRoutes(e, db.Mongo, cfg.MongoDatabase, db.Postgres, firebaseAuthClient, log); err != nil {
		log.Fatalf("failed to set up routes: %v", err)
	}

	log.WithField("port", cfg.Port).Info("starting server")
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
