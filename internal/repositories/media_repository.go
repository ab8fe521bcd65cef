package repositories

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/amandajiang259/Yapp/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	imagesBucketName = "images"
	videosBucketName = "videos"
)

// MediaRepository defines the interface for file storage operations
type MediaRepository interface {
	UploadImage(ctx context.Context, filename string, data []byte, userID, contentType string, tags []string) (*models.MediaFile, error)
	UploadVideo(ctx context.Context, filename string, r io.Reader, userID, contentType string) (*models.MediaFile, error)
	Download(ctx context.Context, filename string) ([]byte, string, error)
	FileExists(ctx context.Context, filename string) (bool, error)
}

// GridFSMediaRepository implements MediaRepository on MongoDB GridFS
type GridFSMediaRepository struct {
	db     *mongo.Database
	images *gridfs.Bucket
	videos *gridfs.Bucket
}

// NewGridFSMediaRepository creates a new GridFSMediaRepository
func NewGridFSMediaRepository(db *mongo.Database) (*GridFSMediaRepository, error) {
	images, err := gridfs.NewBucket(db, options.GridFSBucket().SetName(imagesBucketName))
	if err != nil {
		return nil, fmt.Errorf("creating images bucket: %w", err)
	}
	videos, err := gridfs.NewBucket(db, options.GridFSBucket().SetName(videosBucketName))
	if err != nil {
		return nil, fmt.Errorf("creating videos bucket: %w", err)
	}
	return &GridFSMediaRepository{db: db, images: images, videos: videos}, nil
}

// UploadImage stores a decoded image payload in the images bucket with
// owner and tag metadata.
func (r *GridFSMediaRepository) UploadImage(ctx context.Context, filename string, data []byte, userID, contentType string, tags []string) (*models.MediaFile, error) {
	opts := options.GridFSUpload().SetMetadata(bson.M{
		"userId":      userID,
		"contentType": contentType,
		"tags":        tags,
	})
	id, err := r.images.UploadFromStream(filename, bytes.NewReader(data), opts)
	if err != nil {
		return nil, fmt.Errorf("uploading image %s: %w", filename, err)
	}
	return &models.MediaFile{
		ID:          id.Hex(),
		Filename:    filename,
		UserID:      userID,
		ContentType: contentType,
		Tags:        tags,
		Length:      int64(len(data)),
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// UploadVideo streams a video payload into the videos bucket.
func (r *GridFSMediaRepository) UploadVideo(ctx context.Context, filename string, src io.Reader, userID, contentType string) (*models.MediaFile, error) {
	opts := options.GridFSUpload().SetMetadata(bson.M{
		"userId":      userID,
		"contentType": contentType,
	})
	uploadStream, err := r.videos.OpenUploadStream(filename, opts)
	if err != nil {
		return nil, fmt.Errorf("opening video upload stream for %s: %w", filename, err)
	}
	n, err := io.Copy(uploadStream, src)
	if cerr := uploadStream.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("uploading video %s: %w", filename, err)
	}
	id, _ := uploadStream.FileID.(primitive.ObjectID)
	return &models.MediaFile{
		ID:          id.Hex(),
		Filename:    filename,
		UserID:      userID,
		ContentType: contentType,
		Length:      n,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// Download returns the file bytes and stored content type for a filename,
// checking the images bucket first and falling back to videos.
func (r *GridFSMediaRepository) Download(ctx context.Context, filename string) ([]byte, string, error) {
	for _, bucket := range []*gridfs.Bucket{r.images, r.videos} {
		var buf bytes.Buffer
		if _, err := bucket.DownloadToStreamByName(filename, &buf); err != nil {
			if err == gridfs.ErrFileNotFound {
				continue
			}
			return nil, "", fmt.Errorf("downloading %s: %w", filename, err)
		}
		contentType, err := r.contentTypeFor(ctx, bucket, filename)
		if err != nil {
			return nil, "", err
		}
		return buf.Bytes(), contentType, nil
	}
	return nil, "", gridfs.ErrFileNotFound
}

// FileExists reports whether a file with the given name is present in the
// images bucket.
func (r *GridFSMediaRepository) FileExists(ctx context.Context, filename string) (bool, error) {
	count, err := r.db.Collection(imagesBucketName+".files").CountDocuments(ctx, bson.M{"filename": filename})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GridFSMediaRepository) contentTypeFor(ctx context.Context, bucket *gridfs.Bucket, filename string) (string, error) {
	cursor, err := bucket.Find(bson.M{"filename": filename}, options.GridFSFind().SetLimit(1))
	if err != nil {
		return "", err
	}
	defer cursor.Close(ctx)

	var file struct {
		Metadata struct {
			ContentType string `bson:"contentType"`
		} `bson:"metadata"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&file); err != nil {
			return "", err
		}
	}
	if file.Metadata.ContentType == "" {
		return "application/octet-stream", nil
	}
	return file.Metadata.ContentType, nil
}
