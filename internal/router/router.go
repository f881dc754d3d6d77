package router

import (
	"net/http"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/tahmid-rahman/inkwell-backend/internal/apperrors"
	"github.com/tahmid-rahman/inkwell-backend/internal/engagement"
	"github.com/tahmid-rahman/inkwell-backend/internal/handlers"
	"github.com/tahmid-rahman/inkwell-backend/internal/live"
	"github.com/tahmid-rahman/inkwell-backend/internal/middleware"
	"github.com/tahmid-rahman/inkwell-backend/internal/models"
	"github.com/tahmid-rahman/inkwell-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware and the error handler
func SetupMiddleware(e *echo.Echo, log *logrus.Logger) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.HTTPErrorHandler = errorHandler(log)
}

// errorHandler maps every fault onto the taxonomy and renders the
// {success:false, message} envelope. No opaque transport error escapes.
func errorHandler(log *logrus.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "internal error"

		if httpErr, ok := err.(*echo.HTTPError); ok {
			status = httpErr.Code
			if msg, ok := httpErr.Message.(string); ok {
				message = msg
			}
		} else {
			appErr := apperrors.From(err)
			status = appErr.HTTPCode
			message = appErr.Message
			if appErr.Code == apperrors.CodeStorageFailure {
				log.WithFields(logrus.Fields{
					"path":  c.Path(),
					"error": appErr.Error(),
				}).Error("request failed")
			}
		}

		if err := c.JSON(status, echo.Map{"success": false, "message": message}); err != nil {
			log.WithField("error", err.Error()).Error("failed to render error response")
		}
	}
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, mgClient *mongo.Client, mongoDatabase string, pgdb *gorm.DB, firebaseAuthClient *firebaseauth.Client, log *logrus.Logger) error {
	if err := pgdb.AutoMigrate(&models.Notification{}); err != nil {
		return err
	}

	e.GET("/health", handlers.HealthCheck)

	db := mgClient.Database(mongoDatabase)

	// --- Repositories ---
	userRepo := repositories.NewMongoUserRepository(db)
	postRepo := repositories.NewMongoPostRepository(db)
	commentRepo := repositories.NewMongoCommentRepository(db)
	relRepo := repositories.NewMongoRelationshipRepository(mgClient, db)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)

	// --- Engagement core ---
	hub := live.NewHub(log)
	fanout := engagement.NewFanout(notificationRepo, userRepo, hub, log)
	engine := engagement.NewEngine(userRepo, postRepo, relRepo, fanout, log)
	inbox := engagement.NewInbox(notificationRepo, userRepo, postRepo)

	// --- Unprotected auth routes ---
	authHandler := handlers.NewAuthHandler(userRepo, firebaseAuthClient)
	authGroup := e.Group("/api/auth")
	authHandler.RegisterAuthRoutes(authGroup)

	// --- Protected routes under /api/auth (session required) ---
	authProtected := e.Group("/api/auth")
	authProtected.Use(middleware.JWTAuthMiddleware())
	authHandler.RegisterProfileRoutes(authProtected)

	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterUserRoutes(authProtected)

	// --- Protected routes under /api ---
	api := e.Group("/api")
	api.Use(middleware.JWTAuthMiddleware())

	postHandler := handlers.NewPostHandler(postRepo, userRepo)
	postHandler.RegisterPostRoutes(api)

	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo, engine)
	commentHandler.RegisterCommentRoutes(api)

	engagementHandler := handlers.NewEngagementHandler(engine)
	engagementHandler.RegisterEngagementRoutes(authProtected, api)

	notificationHandler := handlers.NewNotificationHandler(inbox)
	notificationHandler.RegisterNotificationRoutes(authProtected)

	liveHandler := handlers.NewLiveHandler(hub)
	liveHandler.RegisterLiveRoutes(api)

	log.Info("all routes configured")
	return nil
}
