package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/amandajiang259/Yapp/internal/models"
	"github.com/amandajiang259/Yapp/pkg/docstore"
)

const usersCollection = "users"

// searchScanLimit caps how many profiles a username search scans. The
// username filter itself runs in-process because prefix matching is
// case-insensitive, which the store cannot express.
const searchScanLimit = 500

// ErrUsernameTaken is returned when profile setup picks a username that
// another profile already holds.
var ErrUsernameTaken = errors.New("username already taken")

// UserRepository defines the interface for profile data operations. The
// followers/following fields are owned by the follow graph service and are
// deliberately absent from every write this repository performs.
type UserRepository interface {
	CreateProfile(ctx context.Context, profile *models.UserProfile) error
	GetProfileByID(ctx context.Context, id string) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, id string, req *models.UpdateProfileRequest) error
	SearchByUsername(ctx context.Context, prefix string, limit int) ([]models.UserProfileSummary, error)
}

// DocstoreUserRepository implements UserRepository on a docstore.CollectionStore
type DocstoreUserRepository struct {
	store docstore.CollectionStore
}

// NewDocstoreUserRepository creates a new DocstoreUserRepository
func NewDocstoreUserRepository(store docstore.CollectionStore) *DocstoreUserRepository {
	return &DocstoreUserRepository{store: store}
}

// CreateProfile creates the profile document keyed by the user's id with
// empty follow lists. It fails with ErrUsernameTaken if the username is held
// by another profile.
func (r *DocstoreUserRepository) CreateProfile(ctx context.Context, profile *models.UserProfile) error {
	taken, err := r.usernameTaken(ctx, profile.Username, profile.ID)
	if err != nil {
		return err
	}
	if taken {
		return ErrUsernameTaken
	}

	if profile.CreatedAt == "" {
		profile.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	return r.store.Set(ctx, usersCollection, profile.ID, map[string]interface{}{
		"firstName": profile.FirstName,
		"lastName":  profile.LastName,
		"username":  profile.Username,
		"birthday":  profile.Birthday,
		"gender":    profile.Gender,
		"interests": profile.Interests,
		"email":     profile.Email,
		"followers": []string{},
		"following": []string{},
		"createdAt": profile.CreatedAt,
	})
}

// GetProfileByID retrieves a profile by its id
func (r *DocstoreUserRepository) GetProfileByID(ctx context.Context, id string) (*models.UserProfile, error) {
	doc, err := r.store.Get(ctx, usersCollection, id)
	if err != nil {
		return nil, err
	}
	return profileFromDocument(*doc), nil
}

// UpdateProfile applies the editable profile fields. Empty request fields
// are left unchanged.
func (r *DocstoreUserRepository) UpdateProfile(ctx context.Context, id string, req *models.UpdateProfileRequest) error {
	if _, err := r.store.Get(ctx, usersCollection, id); err != nil {
		return err
	}
	fields := make(map[string]interface{})
	if req.FirstName != "" {
		fields["firstName"] = req.FirstName
	}
	if req.LastName != "" {
		fields["lastName"] = req.LastName
	}
	if req.Bio != "" {
		fields["bio"] = req.Bio
	}
	if req.PhotoURL != "" {
		fields["photoURL"] = req.PhotoURL
	}
	if len(fields) == 0 {
		return nil
	}
	return r.store.Set(ctx, usersCollection, id, fields)
}

// SearchByUsername returns profiles whose username starts with the given
// prefix, case-insensitively.
func (r *DocstoreUserRepository) SearchByUsername(ctx context.Context, prefix string, limit int) ([]models.UserProfileSummary, error) {
	docs, err := r.store.Query(ctx, usersCollection, docstore.QuerySpec{Limit: searchScanLimit})
	if err != nil {
		return nil, err
	}
	prefix = strings.ToLower(prefix)
	results := make([]models.UserProfileSummary, 0)
	for _, doc := range docs {
		username := strField(doc.Fields, "username")
		if username == "" || !strings.HasPrefix(strings.ToLower(username), prefix) {
			continue
		}
		p := profileFromDocument(doc)
		results = append(results, p.Summary())
		if limit > 0 && len(results) >= limit {
			break
		}
	}
	return results, nil
}

func (r *DocstoreUserRepository) usernameTaken(ctx context.Context, username, selfID string) (bool, error) {
	docs, err := r.store.Query(ctx, usersCollection, docstore.QuerySpec{
		Filters: []docstore.Filter{{Field: "username", Op: "==", Value: username}},
		Limit:   2,
	})
	if err != nil {
		return false, err
	}
	for _, doc := range docs {
		if doc.ID != selfID {
			return true, nil
		}
	}
	return false, nil
}

func profileFromDocument(doc docstore.Document) *models.UserProfile {
	return &models.UserProfile{
		ID:        doc.ID,
		FirstName: strField(doc.Fields, "firstName"),
		LastName:  strField(doc.Fields, "lastName"),
		Username:  strField(doc.Fields, "username"),
		Birthday:  strField(doc.Fields, "birthday"),
		Gender:    strField(doc.Fields, "gender"),
		Interests: strSliceField(doc.Fields, "interests"),
		Email:     strField(doc.Fields, "email"),
		Bio:       strField(doc.Fields, "bio"),
		PhotoURL:  strField(doc.Fields, "photoURL"),
		Followers: strSliceField(doc.Fields, "followers"),
		Following: strSliceField(doc.Fields, "following"),
		CreatedAt: strField(doc.Fields, "createdAt"),
	}
}
