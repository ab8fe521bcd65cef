package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/amandajiang259/Yapp/internal/models"
	"github.com/amandajiang259/Yapp/internal/services"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	followGraph services.FollowGraphService
	logger      *zap.Logger
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(followGraph services.FollowGraphService, logger *zap.Logger) *FollowHandler {
	return &FollowHandler{followGraph: followGraph, logger: logger}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:id/follow", h.FollowUser)
	g.DELETE("/users/:id/follow", h.UnfollowUser)
	g.GET("/users/:id/follow", h.IsFollowing)
	g.GET("/users/:id/followers", h.ListFollowers)
	g.GET("/users/:id/following", h.ListFollowing)
}

// FollowUser follows a user
func (h *FollowHandler) FollowUser(c echo.Context) error {
	return h.mutate(c, h.followGraph.Follow, true)
}

// UnfollowUser unfollows a user
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	return h.mutate(c, h.followGraph.Unfollow, false)
}

func (h *FollowHandler) mutate(c echo.Context, op func(ctx context.Context, actorID, targetID string) error, following bool) error {
	actorID := currentUserID(c)
	if actorID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	targetID := c.Param("id")
	if targetID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	err := op(c.Request().Context(), actorID, targetID)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": following}})
	case errors.Is(err, services.ErrSelfFollow):
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot follow yourself")
	case errors.Is(err, services.ErrUserNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "User profile not found")
	case errors.Is(err, services.ErrFollowConflict):
		return echo.NewHTTPError(http.StatusConflict, "Couldn't update follow status, try again")
	default:
		h.logger.Error("follow mutation failed",
			zap.String("actor_id", actorID),
			zap.String("target_id", targetID),
			zap.Error(err),
		)
		return echo.NewHTTPError(http.StatusInternalServerError, "Couldn't update follow status, try again")
	}
}

// IsFollowing reports whether the authenticated user follows the target
func (h *FollowHandler) IsFollowing(c echo.Context) error {
	actorID := currentUserID(c)
	if actorID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	following := h.followGraph.IsFollowing(c.Request().Context(), actorID, c.Param("id"))
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": following}})
}

// ListFollowers lists a user's followers as profile summaries
func (h *FollowHandler) ListFollowers(c echo.Context) error {
	return h.list(c, h.followGraph.ListFollowers)
}

// ListFollowing lists the profiles a user follows as profile summaries
func (h *FollowHandler) ListFollowing(c echo.Context) error {
	return h.list(c, h.followGraph.ListFollowing)
}

func (h *FollowHandler) list(c echo.Context, op func(ctx context.Context, userID string) ([]models.UserProfileSummary, error)) error {
	userID := c.Param("id")
	summaries, err := op(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User profile not found")
		}
		// Degrade to an empty list rather than blocking the page render.
		h.logger.Error("follow list read failed", zap.String("user_id", userID), zap.Error(err))
		summaries = []models.UserProfileSummary{}
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": summaries})
}
