package models

import "time"

// LastMessage is the denormalized preview stored on a conversation so the
// inbox can sort and render without loading the messages collection.
type LastMessage struct {
	Text      string    `json:"text"`
	SenderID  string    `json:"senderId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Conversation is a two-party message thread.
type Conversation struct {
	ID           string      `json:"id"`
	Participants []string    `json:"participants"`
	LastMessage  LastMessage `json:"lastMessage"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// Message is one message inside a conversation. Delivery is client-side via
// store subscriptions; the server only persists.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	SenderID       string    `json:"senderId"`
	Text           string    `json:"text"`
	Read           bool      `json:"read"`
	CreatedAt      time.Time `json:"createdAt"`
}

type CreateConversationRequest struct {
	ParticipantID string `json:"participantId" validate:"required"`
}

type SendMessageRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}
