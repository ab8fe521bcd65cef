package models

import "time"

// PromptResponse is a user's answer to the weekly reflection/affirmation
// prompt.
type PromptResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Prompt    string    `json:"prompt"`
	Response  string    `json:"response"`
	CreatedAt time.Time `json:"createdAt"`
}

// PersonalAffirmation is a short self-authored affirmation kept on the
// affirmations page.
type PersonalAffirmation struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreatePromptResponseRequest struct {
	Prompt   string `json:"prompt" validate:"required,max=500"`
	Response string `json:"response" validate:"required,max=2000"`
}

type CreateAffirmationRequest struct {
	Text string `json:"text" validate:"required,max=500"`
}
