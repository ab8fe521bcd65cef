package repositories

import (
	"context"
	"time"

	"github.com/amandajiang259/Yapp/internal/models"
	"github.com/amandajiang259/Yapp/pkg/docstore"
)

const (
	conversationsCollection = "conversations"
	messagesCollection      = "messages"
)

// MessageRepository defines the interface for conversation and message data
// operations. Real-time delivery rides on client-side store subscriptions;
// this layer only persists.
type MessageRepository interface {
	CreateConversation(ctx context.Context, conv *models.Conversation) error
	GetConversation(ctx context.Context, id string) (*models.Conversation, error)
	GetConversationsByParticipant(ctx context.Context, userID string) ([]models.Conversation, error)
	FindConversationByParticipants(ctx context.Context, userA, userB string) (*models.Conversation, error)
	CreateMessage(ctx context.Context, msg *models.Message) error
	GetMessagesByConversation(ctx context.Context, conversationID string) ([]models.Message, error)
}

// DocstoreMessageRepository implements MessageRepository on a
// docstore.CollectionStore
type DocstoreMessageRepository struct {
	store docstore.CollectionStore
}

// NewDocstoreMessageRepository creates a new DocstoreMessageRepository
func NewDocstoreMessageRepository(store docstore.CollectionStore) *DocstoreMessageRepository {
	return &DocstoreMessageRepository{store: store}
}

func (r *DocstoreMessageRepository) CreateConversation(ctx context.Context, conv *models.Conversation) error {
	conv.CreatedAt = time.Now().UTC()
	conv.LastMessage.CreatedAt = conv.CreatedAt
	id, err := r.store.Create(ctx, conversationsCollection, map[string]interface{}{
		"participants": conv.Participants,
		"lastMessage": map[string]interface{}{
			"text":      conv.LastMessage.Text,
			"senderId":  conv.LastMessage.SenderID,
			"createdAt": conv.LastMessage.CreatedAt,
		},
		"createdAt": conv.CreatedAt,
	})
	if err != nil {
		return err
	}
	conv.ID = id
	return nil
}

func (r *DocstoreMessageRepository) GetConversation(ctx context.Context, id string) (*models.Conversation, error) {
	doc, err := r.store.Get(ctx, conversationsCollection, id)
	if err != nil {
		return nil, err
	}
	return conversationFromDocument(*doc), nil
}

// GetConversationsByParticipant lists the user's inbox, most recently
// active first.
func (r *DocstoreMessageRepository) GetConversationsByParticipant(ctx context.Context, userID string) ([]models.Conversation, error) {
	docs, err := r.store.Query(ctx, conversationsCollection, docstore.QuerySpec{
		Filters:    []docstore.Filter{{Field: "participants", Op: "array-contains", Value: userID}},
		OrderBy:    "lastMessage.createdAt",
		Descending: true,
	})
	if err != nil {
		return nil, err
	}
	conversations := make([]models.Conversation, 0, len(docs))
	for _, doc := range docs {
		conversations = append(conversations, *conversationFromDocument(doc))
	}
	return conversations, nil
}

// FindConversationByParticipants returns the existing thread between two
// users, or docstore.ErrNotFound.
func (r *DocstoreMessageRepository) FindConversationByParticipants(ctx context.Context, userA, userB string) (*models.Conversation, error) {
	docs, err := r.store.Query(ctx, conversationsCollection, docstore.QuerySpec{
		Filters: []docstore.Filter{{Field: "participants", Op: "array-contains", Value: userA}},
	})
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		conv := conversationFromDocument(doc)
		for _, p := range conv.Participants {
			if p == userB {
				return conv, nil
			}
		}
	}
	return nil, docstore.ErrNotFound
}

// CreateMessage appends a message and refreshes the conversation's
// denormalized lastMessage preview.
func (r *DocstoreMessageRepository) CreateMessage(ctx context.Context, msg *models.Message) error {
	msg.CreatedAt = time.Now().UTC()
	id, err := r.store.Create(ctx, messagesCollection, map[string]interface{}{
		"conversationId": msg.ConversationID,
		"senderId":       msg.SenderID,
		"text":           msg.Text,
		"read":           false,
		"createdAt":      msg.CreatedAt,
	})
	if err != nil {
		return err
	}
	msg.ID = id

	return r.store.Set(ctx, conversationsCollection, msg.ConversationID, map[string]interface{}{
		"lastMessage": map[string]interface{}{
			"text":      msg.Text,
			"senderId":  msg.SenderID,
			"createdAt": msg.CreatedAt,
		},
	})
}

// GetMessagesByConversation lists a thread's messages oldest first.
func (r *DocstoreMessageRepository) GetMessagesByConversation(ctx context.Context, conversationID string) ([]models.Message, error) {
	docs, err := r.store.Query(ctx, messagesCollection, docstore.QuerySpec{
		Filters: []docstore.Filter{{Field: "conversationId", Op: "==", Value: conversationID}},
		OrderBy: "createdAt",
	})
	if err != nil {
		return nil, err
	}
	messages := make([]models.Message, 0, len(docs))
	for _, doc := range docs {
		messages = append(messages, models.Message{
			ID:             doc.ID,
			ConversationID: strField(doc.Fields, "conversationId"),
			SenderID:       strField(doc.Fields, "senderId"),
			Text:           strField(doc.Fields, "text"),
			Read:           boolField(doc.Fields, "read"),
			CreatedAt:      timeField(doc.Fields, "createdAt"),
		})
	}
	return messages, nil
}

func conversationFromDocument(doc docstore.Document) *models.Conversation {
	last := mapField(doc.Fields, "lastMessage")
	return &models.Conversation{
		ID:           doc.ID,
		Participants: strSliceField(doc.Fields, "participants"),
		LastMessage: models.LastMessage{
			Text:      strField(last, "text"),
			SenderID:  strField(last, "senderId"),
			CreatedAt: timeField(last, "createdAt"),
		},
		CreatedAt: timeField(doc.Fields, "createdAt"),
	}
}
