package handlers

import (
	"net/http"
	"time"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/tahmid-rahman/inkwell-backend/internal/apperrors"
	"github.com/tahmid-rahman/inkwell-backend/internal/middleware"
	"github.com/tahmid-rahman/inkwell-backend/internal/models"
	"github.com/tahmid-rahman/inkwell-backend/internal/repositories"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler handles registration, login and session issuance
type AuthHandler struct {
	userRepository repositories.UserRepository
	firebaseAuth   *firebaseauth.Client // nil when Firebase sign-in is not configured
	jwtSecret      string
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository, firebaseAuthClient *firebaseauth.Client) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		firebaseAuth:   firebaseAuthClient,
		jwtSecret:      middleware.JWTSecret(),
	}
}

// RegisterAuthRoutes registers the unauthenticated auth routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/logout", h.Logout)
	if h.firebaseAuth != nil {
		g.POST("/firebase-login", h.FirebaseLogin)
	}
}

// RegisterProfileRoutes registers the authenticated profile route
func (h *AuthHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.Profile)
}

// Register creates a local account and issues a session token
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.InvalidOperation("invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	exists, err := h.userRepository.ExistsByUsernameOrEmail(c.Request().Context(), req.Username, req.Email)
	if err != nil {
		return err
	}
	if exists {
		return apperrors.Conflict("user already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Storage("failed to hash password", err)
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashed),
	}
	if err := h.userRepository.CreateUser(c.Request().Context(), user); err != nil {
		return err
	}

	token, err := h.generateJWT(user)
	if err != nil {
		return apperrors.Storage("failed to generate token", err)
	}
	h.setTokenCookie(c, token)

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "user registered successfully",
		"token":   token,
	})
}

// Login authenticates by username or email plus password
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.InvalidOperation("invalid request payload")
	}
	if req.Username == "" && req.Email == "" {
		return apperrors.InvalidOperation("username or email is required")
	}
	if req.Password == "" {
		return apperrors.InvalidOperation("password is required")
	}

	user, err := h.userRepository.GetUserByLogin(c.Request().Context(), req.Username, req.Email)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return apperrors.Unauthorized("invalid credentials")
	}

	token, err := h.generateJWT(user)
	if err != nil {
		return apperrors.Storage("failed to generate token", err)
	}
	h.setTokenCookie(c, token)

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "login successful",
		"token":   token,
	})
}

// Logout clears the session cookie
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		MaxAge:   -1,
	})
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "logged out successfully"})
}

// Profile returns the authenticated user's own record
func (h *AuthHandler) Profile(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return apperrors.Unauthorized("user not authenticated")
	}

	user, err := h.userRepository.GetUserByID(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": user})
}

// FirebaseLoginRequest defines the request body for Firebase sign-in
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// FirebaseLogin exchanges a verified Firebase ID token for a local session.
// First sign-in provisions an account keyed by the token's email.
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	var req FirebaseLoginRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.InvalidOperation("invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, err := h.firebaseAuth.VerifyIDToken(c.Request().Context(), req.IDToken)
	if err != nil {
		return apperrors.Unauthorized("invalid Firebase ID token")
	}

	email, _ := token.Claims["email"].(string)
	if email == "" {
		return apperrors.Unauthorized("Firebase token carries no email")
	}
	name, _ := token.Claims["name"].(string)

	user, err := h.userRepository.GetUserByEmail(c.Request().Context(), email)
	if err != nil {
		if !apperrors.Is(err, apperrors.CodeNotFound) {
			return err
		}
		user = &models.User{
			Username: token.UID,
			Email:    email,
			Name:     name,
			Password: "-", // no local credential for Firebase accounts
		}
		if err := h.userRepository.CreateUser(c.Request().Context(), user); err != nil {
			return err
		}
	}

	localJWT, err := h.generateJWT(user)
	if err != nil {
		return apperrors.Storage("failed to generate token", err)
	}
	h.setTokenCookie(c, localJWT)

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "login successful",
		"token":   localJWT,
	})
}

func (h *AuthHandler) setTokenCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
	})
}

// generateJWT generates a JWT token for a given user
func (h *AuthHandler) generateJWT(user *models.User) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID:   user.ID.Hex(),
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 72)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}
