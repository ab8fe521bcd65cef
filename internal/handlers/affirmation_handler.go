package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/amandajiang259/Yapp/internal/models"
	"github.com/amandajiang259/Yapp/internal/prompts"
	"github.com/amandajiang259/Yapp/internal/repositories"
	"github.com/amandajiang259/Yapp/pkg/docstore"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AffirmationHandler handles weekly-prompt, prompt-response, and personal
// affirmation HTTP requests
type AffirmationHandler struct {
	affirmationRepository repositories.AffirmationRepository
	logger                *zap.Logger
}

// NewAffirmationHandler creates a new AffirmationHandler
func NewAffirmationHandler(affRepo repositories.AffirmationRepository, logger *zap.Logger) *AffirmationHandler {
	return &AffirmationHandler{affirmationRepository: affRepo, logger: logger}
}

// RegisterAffirmationRoutes registers affirmation-related routes
func (h *AffirmationHandler) RegisterAffirmationRoutes(g *echo.Group) {
	g.GET("/prompts/weekly", h.GetWeeklyPrompt)
	g.POST("/prompt-responses", h.CreatePromptResponse)
	g.GET("/prompt-responses", h.GetPromptResponses)
	g.DELETE("/prompt-responses/:id", h.DeletePromptResponse)
	g.POST("/affirmations", h.CreateAffirmation)
	g.GET("/affirmations", h.GetAffirmations)
	g.DELETE("/affirmations/:id", h.DeleteAffirmation)
}

// GetWeeklyPrompt returns the current week's prompt
func (h *AffirmationHandler) GetWeeklyPrompt(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{
		"prompt": prompts.WeeklyPrompt(time.Now()),
	}})
}

// CreatePromptResponse records the authenticated user's answer to a prompt
func (h *AffirmationHandler) CreatePromptResponse(c echo.Context) error {
	uid := currentUserID(c)
	if uid == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreatePromptResponseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	resp := &models.PromptResponse{UserID: uid, Prompt: req.Prompt, Response: req.Response}
	if err := h.affirmationRepository.CreatePromptResponse(c.Request().Context(), resp); err != nil {
		h.logger.Error("prompt response creation failed", zap.String("user_id", uid), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to save response")
	}
	return c.JSON(http.StatusCreated, resp)
}

// GetPromptResponses lists the authenticated user's prompt responses
func (h *AffirmationHandler) GetPromptResponses(c echo.Context) error {
	uid := currentUserID(c)
	if uid == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	responses, err := h.affirmationRepository.GetPromptResponsesByUserID(c.Request().Context(), uid)
	if err != nil {
		h.logger.Error("prompt responses read failed", zap.String("user_id", uid), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load responses")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": responses})
}

// DeletePromptResponse deletes one of the authenticated user's responses
func (h *AffirmationHandler) DeletePromptResponse(c echo.Context) error {
	uid := currentUserID(c)
	if uid == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	resp, err := h.affirmationRepository.GetPromptResponse(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Response not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load response")
	}
	if resp.UserID != uid {
		return echo.NewHTTPError(http.StatusForbidden, "You can only delete your own responses")
	}
	if err := h.affirmationRepository.DeletePromptResponse(c.Request().Context(), resp.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete response")
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateAffirmation saves a personal affirmation for the authenticated user
func (h *AffirmationHandler) CreateAffirmation(c echo.Context) error {
	uid := currentUserID(c)
	if uid == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateAffirmationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	aff := &models.PersonalAffirmation{UserID: uid, Text: req.Text}
	if err := h.affirmationRepository.CreateAffirmation(c.Request().Context(), aff); err != nil {
		h.logger.Error("affirmation creation failed", zap.String("user_id", uid), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to save affirmation")
	}
	return c.JSON(http.StatusCreated, aff)
}

// GetAffirmations lists the authenticated user's personal affirmations
func (h *AffirmationHandler) GetAffirmations(c echo.Context) error {
	uid := currentUserID(c)
	if uid == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	affirmations, err := h.affirmationRepository.GetAffirmationsByUserID(c.Request().Context(), uid)
	if err != nil {
		h.logger.Error("affirmations read failed", zap.String("user_id", uid), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load affirmations")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": affirmations})
}

// DeleteAffirmation deletes one of the authenticated user's affirmations
func (h *AffirmationHandler) DeleteAffirmation(c echo.Context) error {
	uid := currentUserID(c)
	if uid == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	aff, err := h.affirmationRepository.GetAffirmation(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Affirmation not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load affirmation")
	}
	if aff.UserID != uid {
		return echo.NewHTTPError(http.StatusForbidden, "You can only delete your own affirmations")
	}
	if err := h.affirmationRepository.DeleteAffirmation(c.Request().Context(), aff.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete affirmation")
	}
	return c.NoContent(http.StatusNoContent)
}
