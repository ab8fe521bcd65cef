package models

import "time"

const (
	PostTypeStory = "story"
	PostTypeImage = "image"
	PostTypeVideo = "video"
)

// Post is a shared story, image, or video post in the global feed.
type Post struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	VideoURL  string    `json:"videoUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CreatePostRequest struct {
	Type     string   `json:"type" validate:"required,oneof=story image video"`
	Content  string   `json:"content" validate:"max=5000"`
	Tags     []string `json:"tags" validate:"max=10"`
	ImageURL string   `json:"imageUrl,omitempty" validate:"omitempty,uri"`
	VideoURL string   `json:"videoUrl,omitempty" validate:"omitempty,uri"`
}
