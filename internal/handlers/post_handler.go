package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/amandajiang259/Yapp/internal/models"
	"github.com/amandajiang259/Yapp/internal/repositories"
	"github.com/amandajiang259/Yapp/pkg/docstore"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// PostHandler handles post and feed HTTP requests
type PostHandler struct {
	postRepository repositories.PostRepository
	logger         *zap.Logger
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, logger *zap.Logger) *PostHandler {
	return &PostHandler{postRepository: postRepo, logger: logger}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts", h.GetFeed)
	g.GET("/posts/:id", h.GetPost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.GET("/users/:id/posts", h.GetUserPosts)
}

// CreatePost creates a new post for the authenticated user
func (h *PostHandler) CreatePost(c echo.Context) error {
	uid := currentUserID(c)
	if uid == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Type == models.PostTypeStory && strings.TrimSpace(req.Content) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Please write your story before posting")
	}

	post := &models.Post{
		UserID:   uid,
		Type:     req.Type,
		Content:  strings.TrimSpace(req.Content),
		Tags:     req.Tags,
		ImageURL: req.ImageURL,
		VideoURL: req.VideoURL,
	}
	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		h.logger.Error("post creation failed", zap.String("user_id", uid), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create post")
	}
	return c.JSON(http.StatusCreated, post)
}

// GetFeed returns the global feed, newest first
func (h *PostHandler) GetFeed(c echo.Context) error {
	offset, limit := pagination(c)
	posts, err := h.postRepository.GetFeed(c.Request().Context(), offset, limit)
	if err != nil {
		h.logger.Error("feed read failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load feed")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": posts})
}

// GetPost returns a single post by id
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.postRepository.GetPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load post")
	}
	return c.JSON(http.StatusOK, post)
}

// DeletePost deletes the authenticated user's own post
func (h *PostHandler) DeletePost(c echo.Context) error {
	uid := currentUserID(c)
	if uid == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	post, err := h.postRepository.GetPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load post")
	}
	if post.UserID != uid {
		return echo.NewHTTPError(http.StatusForbidden, "You can only delete your own posts")
	}
	if err := h.postRepository.DeletePost(c.Request().Context(), post.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete post")
	}
	return c.NoContent(http.StatusNoContent)
}

// GetUserPosts returns a user's posts, newest first
func (h *PostHandler) GetUserPosts(c echo.Context) error {
	offset, limit := pagination(c)
	posts, err := h.postRepository.GetPostsByUserID(c.Request().Context(), c.Param("id"), offset, limit)
	if err != nil {
		h.logger.Error("user posts read failed", zap.String("user_id", c.Param("id")), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load posts")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": posts})
}

func pagination(c echo.Context) (offset, limit int) {
	limit = 20
	if l, err := strconv.Atoi(c.QueryParam("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}
	if o, err := strconv.Atoi(c.QueryParam("offset")); err == nil && o > 0 {
		offset = o
	}
	return offset, limit
}
