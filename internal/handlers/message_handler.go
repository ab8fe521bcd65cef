package handlers

import (
	"errors"
	"net/http"

	"github.com/amandajiang259/Yapp/internal/models"
	"github.com/amandajiang259/Yapp/internal/repositories"
	"github.com/amandajiang259/Yapp/pkg/docstore"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// MessageHandler handles conversation and message HTTP requests
type MessageHandler struct {
	messageRepository repositories.MessageRepository
	userRepository    repositories.UserRepository
	logger            *zap.Logger
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(msgRepo repositories.MessageRepository, userRepo repositories.UserRepository, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{messageRepository: msgRepo, userRepository: userRepo, logger: logger}
}

// RegisterMessageRoutes registers messaging-related routes
func (h *MessageHandler) RegisterMessageRoutes(g *echo.Group) {
	g.POST("/conversations", h.CreateConversation)
	g.GET("/conversations", h.GetConversations)
	g.GET("/conversations/:id/messages", h.GetMessages)
	g.POST("/conversations/:id/messages", h.SendMessage)
}

// CreateConversation starts a thread with another user, or returns the
// existing one if the pair already has a thread.
func (h *MessageHandler) CreateConversation(c echo.Context) error {
	uid := currentUserID(c)
	if uid == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateConversationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.ParticipantID == uid {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot start a conversation with yourself")
	}
	if _, err := h.userRepository.GetProfileByID(c.Request().Context(), req.ParticipantID); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to start conversation")
	}

	existing, err := h.messageRepository.FindConversationByParticipants(c.Request().Context(), uid, req.ParticipantID)
	if err == nil {
		return c.JSON(http.StatusOK, existing)
	}
	if !errors.Is(err, docstore.ErrNotFound) {
		h.logger.Error("conversation lookup failed", zap.String("user_id", uid), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to start conversation")
	}

	conv := &models.Conversation{Participants: []string{uid, req.ParticipantID}}
	if err := h.messageRepository.CreateConversation(c.Request().Context(), conv); err != nil {
		h.logger.Error("conversation creation failed", zap.String("user_id", uid), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to start conversation")
	}
	return c.JSON(http.StatusCreated, conv)
}

// GetConversations lists the authenticated user's inbox
func (h *MessageHandler) GetConversations(c echo.Context) error {
	uid := currentUserID(c)
	if uid == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	conversations, err := h.messageRepository.GetConversationsByParticipant(c.Request().Context(), uid)
	if err != nil {
		h.logger.Error("inbox read failed", zap.String("user_id", uid), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load conversations")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": conversations})
}

// GetMessages lists a conversation's messages, oldest first
func (h *MessageHandler) GetMessages(c echo.Context) error {
	uid := currentUserID(c)
	if uid == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	conv, err := h.conversationForParticipant(c, uid)
	if err != nil {
		return err
	}
	messages, err := h.messageRepository.GetMessagesByConversation(c.Request().Context(), conv.ID)
	if err != nil {
		h.logger.Error("messages read failed", zap.String("conversation_id", conv.ID), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load messages")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": messages})
}

// SendMessage appends a message to a conversation the user participates in
func (h *MessageHandler) SendMessage(c echo.Context) error {
	uid := currentUserID(c)
	if uid == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	conv, err := h.conversationForParticipant(c, uid)
	if err != nil {
		return err
	}
	msg := &models.Message{ConversationID: conv.ID, SenderID: uid, Text: req.Text}
	if err := h.messageRepository.CreateMessage(c.Request().Context(), msg); err != nil {
		h.logger.Error("message send failed", zap.String("conversation_id", conv.ID), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to send message")
	}
	return c.JSON(http.StatusCreated, msg)
}

func (h *MessageHandler) conversationForParticipant(c echo.Context, uid string) (*models.Conversation, error) {
	conv, err := h.messageRepository.GetConversation(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Conversation not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "Failed to load conversation")
	}
	for _, p := range conv.Participants {
		if p == uid {
			return conv, nil
		}
	}
	return nil, echo.NewHTTPError(http.StatusForbidden, "Not a participant in this conversation")
}
