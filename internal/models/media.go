package models

import "time"

// MediaFile describes one uploaded file stored in GridFS.
type MediaFile struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	UserID      string    `json:"userId"`
	ContentType string    `json:"contentType"`
	Tags        []string  `json:"tags,omitempty"`
	Length      int64     `json:"length"`
	CreatedAt   time.Time `json:"createdAt"`
}

type UploadImageRequest struct {
	ImageData string   `json:"imageData" validate:"required"`
	Tags      []string `json:"tags" validate:"max=10"`
}
