package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/amandajiang259/Yapp/internal/models"
	"github.com/amandajiang259/Yapp/internal/repositories"
	"github.com/amandajiang259/Yapp/pkg/docstore"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// UserHandler handles HTTP requests related to user profiles
type UserHandler struct {
	userRepository repositories.UserRepository
	logger         *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, logger *zap.Logger) *UserHandler {
	return &UserHandler{userRepository: userRepo, logger: logger}
}

// RegisterUserRoutes registers profile-related routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.POST("/users", h.CreateProfile)    // Profile setup after first sign-in
	g.GET("/users/me", h.GetOwnProfile)  // Own profile
	g.PUT("/users/me", h.UpdateProfile)  // Edit own profile
	g.GET("/users/search", h.SearchUsers)
	g.GET("/users/:id", h.GetUser)
}

// CreateProfile creates the profile document for the authenticated user
func (h *UserHandler) CreateProfile(c echo.Context) error {
	uid := currentUserID(c)
	if uid == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	profile := &models.UserProfile{
		ID:        uid,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Birthday:  req.Birthday,
		Gender:    req.Gender,
		Interests: req.Interests,
		Email:     req.Email,
	}
	if err := h.userRepository.CreateProfile(c.Request().Context(), profile); err != nil {
		if errors.Is(err, repositories.ErrUsernameTaken) {
			return echo.NewHTTPError(http.StatusConflict, "This username is already taken. Please choose a different one.")
		}
		h.logger.Error("profile creation failed", zap.String("user_id", uid), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to save profile")
	}
	return c.JSON(http.StatusCreated, profile)
}

// GetOwnProfile retrieves the authenticated user's profile
func (h *UserHandler) GetOwnProfile(c echo.Context) error {
	uid := currentUserID(c)
	if uid == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	return h.getProfile(c, uid)
}

// GetUser retrieves another user's profile by id
func (h *UserHandler) GetUser(c echo.Context) error {
	return h.getProfile(c, c.Param("id"))
}

func (h *UserHandler) getProfile(c echo.Context, id string) error {
	profile, err := h.userRepository.GetProfileByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User profile not found")
		}
		h.logger.Error("profile read failed", zap.String("user_id", id), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load profile")
	}
	return c.JSON(http.StatusOK, profile)
}

// UpdateProfile updates the authenticated user's editable profile fields
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	uid := currentUserID(c)
	if uid == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.userRepository.UpdateProfile(c.Request().Context(), uid, &req); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User profile not found")
		}
		h.logger.Error("profile update failed", zap.String("user_id", uid), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update profile")
	}
	return h.getProfile(c, uid)
}

// SearchUsers searches profiles by username prefix
func (h *UserHandler) SearchUsers(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": []models.UserProfileSummary{}})
	}
	limit := 20
	if l, err := strconv.Atoi(c.QueryParam("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}

	results, err := h.userRepository.SearchByUsername(c.Request().Context(), query, limit)
	if err != nil {
		h.logger.Error("user search failed", zap.String("query", query), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Search failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": results})
}
