package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/school-transit/internal/auth"
	"github.com/ukydev/school-transit/internal/db"
	"github.com/ukydev/school-transit/internal/middleware"
	"github.com/ukydev/school-transit/internal/models"
	"github.com/ukydev/school-transit/internal/response"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	authService    *auth.Service
	userCollection db.UserCollection
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService *auth.Service, userCollection db.UserCollection) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		userCollection: userCollection,
	}
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		response.BadRequest(w, "Invalid JSON")
		return
	}

	if loginReq.Username == "" || loginReq.Password == "" {
		response.BadRequest(w, "Username and password are required")
		return
	}

	user, err := h.userCollection.FindUserByUsername(r.Context(), loginReq.Username)
	if err != nil {
		response.WriteJSON(w, http.StatusUnauthorized, response.Envelope{Success: false, Message: "Invalid credentials"})
		return
	}

	if !user.IsActive {
		response.WriteJSON(w, http.StatusUnauthorized, response.Envelope{Success: false, Message: "Account is deactivated"})
		return
	}

	if !h.authService.CheckPassword(loginReq.Password, user.PasswordHash) {
		response.WriteJSON(w, http.StatusUnauthorized, response.Envelope{Success: false, Message: "Invalid credentials"})
		return
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		response.InternalServerError(w, "Failed to generate token")
		return
	}

	refreshToken, err := h.authService.GenerateRefreshToken()
	if err != nil {
		response.InternalServerError(w, "Failed to generate refresh token")
		return
	}

	if err := h.userCollection.UpdateLastLogin(r.Context(), user.ID.Hex()); err != nil {
		log.WithFields(log.Fields{
			"user_id": user.ID.Hex(),
			"error":   err,
		}).Warn("Failed to update last login")
	}

	response.OK(w, "Login successful", models.LoginResponse{
		Token:        token,
		RefreshToken: refreshToken,
		User:         *user,
	})
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var registerReq models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&registerReq); err != nil {
		response.BadRequest(w, "Invalid JSON")
		return
	}

	if err := h.authService.ValidateUsername(registerReq.Username); err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	if err := h.authService.ValidateEmail(registerReq.Email); err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	if err := h.authService.ValidatePassword(registerReq.Password); err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	if !models.IsValidRole(registerReq.Role) {
		response.BadRequest(w, "Invalid role")
		return
	}

	// School staff and parents must declare their tenant.
	if registerReq.SchoolID == "" &&
		(registerReq.Role == models.RoleSchoolAdmin || registerReq.Role == models.RoleGateStaff || registerReq.Role == models.RoleParent) {
		response.BadRequest(w, "School id is required for this role")
		return
	}

	if _, err := h.userCollection.FindUserByUsername(r.Context(), registerReq.Username); err == nil {
		response.Conflict(w, "Username already exists")
		return
	}
	if _, err := h.userCollection.FindUserByEmail(r.Context(), registerReq.Email); err == nil {
		response.Conflict(w, "Email already exists")
		return
	}

	passwordHash, err := h.authService.HashPassword(registerReq.Password)
	if err != nil {
		response.InternalServerError(w, "Failed to hash password")
		return
	}

	user := models.User{
		ID:           primitive.NewObjectID(),
		Username:     registerReq.Username,
		Email:        registerReq.Email,
		PasswordHash: passwordHash,
		Role:         registerReq.Role,
		SchoolID:     registerReq.SchoolID,
		FirstName:    registerReq.FirstName,
		LastName:     registerReq.LastName,
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := h.userCollection.InsertUser(r.Context(), user); err != nil {
		response.InternalServerError(w, "Failed to create user")
		return
	}

	token, err := h.authService.GenerateToken(&user)
	if err != nil {
		response.InternalServerError(w, "Failed to generate token")
		return
	}
	refreshToken, err := h.authService.GenerateRefreshToken()
	if err != nil {
		response.InternalServerError(w, "Failed to generate refresh token")
		return
	}

	response.Created(w, "User registered", models.LoginResponse{
		Token:        token,
		RefreshToken: refreshToken,
		User:         user,
	})
}

// GetProfile handles GET /api/auth/profile
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		response.WriteJSON(w, http.StatusUnauthorized, response.Envelope{Success: false, Message: "User context not found"})
		return
	}

	user, err := h.userCollection.FindUserByID(r.Context(), claims.UserID)
	if err != nil {
		response.NotFound(w, "User not found")
		return
	}
	response.OK(w, "Profile retrieved", user)
}
