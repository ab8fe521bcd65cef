package repositories

import (
	"context"
	"time"

	"github.com/amandajiang259/Yapp/internal/models"
	"github.com/amandajiang259/Yapp/pkg/docstore"
)

const (
	promptResponsesCollection      = "promptResponses"
	personalAffirmationsCollection = "personalAffirmations"
)

// AffirmationRepository defines the interface for prompt-response and
// personal-affirmation data operations
type AffirmationRepository interface {
	CreatePromptResponse(ctx context.Context, resp *models.PromptResponse) error
	GetPromptResponsesByUserID(ctx context.Context, userID string) ([]models.PromptResponse, error)
	GetPromptResponse(ctx context.Context, id string) (*models.PromptResponse, error)
	DeletePromptResponse(ctx context.Context, id string) error

	CreateAffirmation(ctx context.Context, aff *models.PersonalAffirmation) error
	GetAffirmationsByUserID(ctx context.Context, userID string) ([]models.PersonalAffirmation, error)
	GetAffirmation(ctx context.Context, id string) (*models.PersonalAffirmation, error)
	DeleteAffirmation(ctx context.Context, id string) error
}

// DocstoreAffirmationRepository implements AffirmationRepository on a
// docstore.CollectionStore
type DocstoreAffirmationRepository struct {
	store docstore.CollectionStore
}

// NewDocstoreAffirmationRepository creates a new DocstoreAffirmationRepository
func NewDocstoreAffirmationRepository(store docstore.CollectionStore) *DocstoreAffirmationRepository {
	return &DocstoreAffirmationRepository{store: store}
}

func (r *DocstoreAffirmationRepository) CreatePromptResponse(ctx context.Context, resp *models.PromptResponse) error {
	resp.CreatedAt = time.Now().UTC()
	id, err := r.store.Create(ctx, promptResponsesCollection, map[string]interface{}{
		"userId":    resp.UserID,
		"prompt":    resp.Prompt,
		"response":  resp.Response,
		"createdAt": resp.CreatedAt,
	})
	if err != nil {
		return err
	}
	resp.ID = id
	return nil
}

func (r *DocstoreAffirmationRepository) GetPromptResponsesByUserID(ctx context.Context, userID string) ([]models.PromptResponse, error) {
	docs, err := r.store.Query(ctx, promptResponsesCollection, docstore.QuerySpec{
		Filters:    []docstore.Filter{{Field: "userId", Op: "==", Value: userID}},
		OrderBy:    "createdAt",
		Descending: true,
	})
	if err != nil {
		return nil, err
	}
	responses := make([]models.PromptResponse, 0, len(docs))
	for _, doc := range docs {
		responses = append(responses, models.PromptResponse{
			ID:        doc.ID,
			UserID:    strField(doc.Fields, "userId"),
			Prompt:    strField(doc.Fields, "prompt"),
			Response:  strField(doc.Fields, "response"),
			CreatedAt: timeField(doc.Fields, "createdAt"),
		})
	}
	return responses, nil
}

func (r *DocstoreAffirmationRepository) GetPromptResponse(ctx context.Context, id string) (*models.PromptResponse, error) {
	doc, err := r.store.Get(ctx, promptResponsesCollection, id)
	if err != nil {
		return nil, err
	}
	return &models.PromptResponse{
		ID:        doc.ID,
		UserID:    strField(doc.Fields, "userId"),
		Prompt:    strField(doc.Fields, "prompt"),
		Response:  strField(doc.Fields, "response"),
		CreatedAt: timeField(doc.Fields, "createdAt"),
	}, nil
}

func (r *DocstoreAffirmationRepository) DeletePromptResponse(ctx context.Context, id string) error {
	return r.store.Delete(ctx, promptResponsesCollection, id)
}

func (r *DocstoreAffirmationRepository) CreateAffirmation(ctx context.Context, aff *models.PersonalAffirmation) error {
	aff.CreatedAt = time.Now().UTC()
	id, err := r.store.Create(ctx, personalAffirmationsCollection, map[string]interface{}{
		"userId":    aff.UserID,
		"text":      aff.Text,
		"createdAt": aff.CreatedAt,
	})
	if err != nil {
		return err
	}
	aff.ID = id
	return nil
}

func (r *DocstoreAffirmationRepository) GetAffirmationsByUserID(ctx context.Context, userID string) ([]models.PersonalAffirmation, error) {
	docs, err := r.store.Query(ctx, personalAffirmationsCollection, docstore.QuerySpec{
		Filters:    []docstore.Filter{{Field: "userId", Op: "==", Value: userID}},
		OrderBy:    "createdAt",
		Descending: true,
	})
	if err != nil {
		return nil, err
	}
	affirmations := make([]models.PersonalAffirmation, 0, len(docs))
	for _, doc := range docs {
		affirmations = append(affirmations, models.PersonalAffirmation{
			ID:        doc.ID,
			UserID:    strField(doc.Fields, "userId"),
			Text:      strField(doc.Fields, "text"),
			CreatedAt: timeField(doc.Fields, "createdAt"),
		})
	}
	return affirmations, nil
}

func (r *DocstoreAffirmationRepository) GetAffirmation(ctx context.Context, id string) (*models.PersonalAffirmation, error) {
	doc, err := r.store.Get(ctx, personalAffirmationsCollection, id)
	if err != nil {
		return nil, err
	}
	return &models.PersonalAffirmation{
		ID:        doc.ID,
		UserID:    strField(doc.Fields, "userId"),
		Text:      strField(doc.Fields, "text"),
		CreatedAt: timeField(doc.Fields, "createdAt"),
	}, nil
}

func (r *DocstoreAffirmationRepository) DeleteAffirmation(ctx context.Context, id string) error {
	return r.store.Delete(ctx, personalAffirmationsCollection, id)
}
