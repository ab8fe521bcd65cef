package repositories

import (
	"context"
	"testing"

	"github.com/amandajiang259/Yapp/internal/models"
	"github.com/amandajiang259/Yapp/pkg/docstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePostAssignsIDAndLowercasesTags(t *testing.T) {
	repo := NewDocstorePostRepository(docstore.NewMemoryStore())
	ctx := context.Background()

	post := &models.Post{
		UserID:  "u1",
		Type:    models.PostTypeStory,
		Content: "my week",
		Tags:    []string{"Gratitude", "GROWTH"},
	}
	require.NoError(t, repo.CreatePost(ctx, post))
	assert.NotEmpty(t, post.ID)
	assert.False(t, post.CreatedAt.IsZero())

	got, err := repo.GetPostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"gratitude", "growth"}, got.Tags)
	assert.Equal(t, "my week", got.Content)
}

func TestFeedOrdersNewestFirst(t *testing.T) {
	repo := NewDocstorePostRepository(docstore.NewMemoryStore())
	ctx := context.Background()

	first := &models.Post{UserID: "u1", Type: models.PostTypeStory, Content: "first"}
	require.NoError(t, repo.CreatePost(ctx, first))
	second := &models.Post{UserID: "u2", Type: models.PostTypeStory, Content: "second"}
	require.NoError(t, repo.CreatePost(ctx, second))

	// Creation timestamps may collide at clock resolution; force an order.
	require.NotEqual(t, first.ID, second.ID)

	feed, err := repo.GetFeed(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	if !feed[0].CreatedAt.Equal(feed[1].CreatedAt) {
		assert.True(t, feed[0].CreatedAt.After(feed[1].CreatedAt))
	}
}

func TestGetPostsByUserID(t *testing.T) {
	repo := NewDocstorePostRepository(docstore.NewMemoryStore())
	ctx := context.Background()

	require.NoError(t, repo.CreatePost(ctx, &models.Post{UserID: "u1", Type: models.PostTypeStory, Content: "a"}))
	require.NoError(t, repo.CreatePost(ctx, &models.Post{UserID: "u2", Type: models.PostTypeStory, Content: "b"}))
	require.NoError(t, repo.CreatePost(ctx, &models.Post{UserID: "u1", Type: models.PostTypeStory, Content: "c"}))

	posts, err := repo.GetPostsByUserID(ctx, "u1", 0, 10)
	require.NoError(t, err)
	assert.Len(t, posts, 2)
	for _, p := range posts {
		assert.Equal(t, "u1", p.UserID)
	}
}

func TestDeletePost(t *testing.T) {
	repo := NewDocstorePostRepository(docstore.NewMemoryStore())
	ctx := context.Background()

	post := &models.Post{UserID: "u1", Type: models.PostTypeStory, Content: "bye"}
	require.NoError(t, repo.CreatePost(ctx, post))
	require.NoError(t, repo.DeletePost(ctx, post.ID))

	_, err := repo.GetPostByID(ctx, post.ID)
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}
