package models

// UserProfile is the stored profile document, keyed by the Firebase UID.
// Followers and Following carry set semantics: no duplicates, never the
// profile's own id. They are written only by the follow graph service.
type UserProfile struct {
	ID        string   `json:"id"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Username  string   `json:"username"`
	Birthday  string   `json:"birthday,omitempty"`
	Gender    string   `json:"gender,omitempty"`
	Interests []string `json:"interests,omitempty"`
	Email     string   `json:"email"`
	Bio       string   `json:"bio,omitempty"`
	PhotoURL  string   `json:"photoURL,omitempty"`
	Followers []string `json:"followers"`
	Following []string `json:"following"`
	CreatedAt string   `json:"createdAt"`
}

// UserProfileSummary is the slim shape returned by follower/following lists
// and search results.
type UserProfileSummary struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	PhotoURL  string `json:"photoURL,omitempty"`
}

// Summary projects a full profile down to its list shape.
func (u *UserProfile) Summary() UserProfileSummary {
	return UserProfileSummary{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		PhotoURL:  u.PhotoURL,
	}
}

type CreateProfileRequest struct {
	FirstName string   `json:"firstName" validate:"required,min=1,max=50"`
	LastName  string   `json:"lastName" validate:"required,min=1,max=50"`
	Username  string   `json:"username" validate:"required,min=3,max=30,alphanum"`
	Birthday  string   `json:"birthday" validate:"required"`
	Gender    string   `json:"gender" validate:"required"`
	Interests []string `json:"interests" validate:"required,min=2"`
	Email     string   `json:"email" validate:"required,email"`
}

type UpdateProfileRequest struct {
	FirstName string `json:"firstName,omitempty" validate:"omitempty,min=1,max=50"`
	LastName  string `json:"lastName,omitempty" validate:"omitempty,min=1,max=50"`
	Bio       string `json:"bio,omitempty" validate:"omitempty,max=500"`
	PhotoURL  string `json:"photoURL,omitempty" validate:"omitempty,url"`
}
