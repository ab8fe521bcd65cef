package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/amandajiang259/Yapp/internal/models"
	"github.com/amandajiang259/Yapp/pkg/docstore"
)

const postsCollection = "posts"

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	GetPostsByUserID(ctx context.Context, userID string, offset, limit int) ([]models.Post, error)
	GetFeed(ctx context.Context, offset, limit int) ([]models.Post, error)
	DeletePost(ctx context.Context, id string) error
}

// DocstorePostRepository implements PostRepository on a docstore.CollectionStore
type DocstorePostRepository struct {
	store docstore.CollectionStore
}

// NewDocstorePostRepository creates a new DocstorePostRepository
func NewDocstorePostRepository(store docstore.CollectionStore) *DocstorePostRepository {
	return &DocstorePostRepository{store: store}
}

// CreatePost creates a new post and fills in its generated id and timestamps
func (r *DocstorePostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now

	tags := make([]string, 0, len(post.Tags))
	for _, tag := range post.Tags {
		tags = append(tags, strings.ToLower(tag))
	}
	post.Tags = tags

	id, err := r.store.Create(ctx, postsCollection, map[string]interface{}{
		"userId":    post.UserID,
		"type":      post.Type,
		"content":   post.Content,
		"tags":      tags,
		"imageUrl":  post.ImageURL,
		"videoUrl":  post.VideoURL,
		"createdAt": post.CreatedAt,
		"updatedAt": post.UpdatedAt,
	})
	if err != nil {
		return err
	}
	post.ID = id
	return nil
}

// GetPostByID retrieves a post by its id
func (r *DocstorePostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	doc, err := r.store.Get(ctx, postsCollection, id)
	if err != nil {
		return nil, err
	}
	return postFromDocument(*doc), nil
}

// GetPostsByUserID retrieves a user's posts, newest first
func (r *DocstorePostRepository) GetPostsByUserID(ctx context.Context, userID string, offset, limit int) ([]models.Post, error) {
	return r.query(ctx, docstore.QuerySpec{
		Filters:    []docstore.Filter{{Field: "userId", Op: "==", Value: userID}},
		OrderBy:    "createdAt",
		Descending: true,
		Offset:     offset,
		Limit:      limit,
	})
}

// GetFeed retrieves the global feed, newest first
func (r *DocstorePostRepository) GetFeed(ctx context.Context, offset, limit int) ([]models.Post, error) {
	return r.query(ctx, docstore.QuerySpec{
		OrderBy:    "createdAt",
		Descending: true,
		Offset:     offset,
		Limit:      limit,
	})
}

// DeletePost removes a post
func (r *DocstorePostRepository) DeletePost(ctx context.Context, id string) error {
	return r.store.Delete(ctx, postsCollection, id)
}

func (r *DocstorePostRepository) query(ctx context.Context, q docstore.QuerySpec) ([]models.Post, error) {
	docs, err := r.store.Query(ctx, postsCollection, q)
	if err != nil {
		return nil, err
	}
	posts := make([]models.Post, 0, len(docs))
	for _, doc := range docs {
		posts = append(posts, *postFromDocument(doc))
	}
	return posts, nil
}

func postFromDocument(doc docstore.Document) *models.Post {
	return &models.Post{
		ID:        doc.ID,
		UserID:    strField(doc.Fields, "userId"),
		Type:      strField(doc.Fields, "type"),
		Content:   strField(doc.Fields, "content"),
		Tags:      strSliceField(doc.Fields, "tags"),
		ImageURL:  strField(doc.Fields, "imageUrl"),
		VideoURL:  strField(doc.Fields, "videoUrl"),
		CreatedAt: timeField(doc.Fields, "createdAt"),
		UpdatedAt: timeField(doc.Fields, "updatedAt"),
	}
}
