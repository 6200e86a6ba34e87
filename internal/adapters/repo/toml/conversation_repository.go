package toml

import (
	"context"
	"fmt"
	"sync"

	"github.com/bnema/parent-portal/internal/domain"
	"github.com/bnema/parent-portal/internal/ports"
	"github.com/spf13/viper"
)

const (
	inboxFileName = "inbox.toml"
	inboxLabel    = "inbox"
)

type ConversationRepository struct {
	path string
	mu   *sync.RWMutex
}

var _ ports.ConversationRepository = (*ConversationRepository)(nil)

func NewConversationRepository(cfg *viper.Viper) (*ConversationRepository, error) {
	path, err := resolvePath(cfg, InboxPathKey, inboxFileName)
	if err != nil {
		return nil, err
	}

	return &ConversationRepository{path: path, mu: lockForPath(path)}, nil
}

func (r *ConversationRepository) List(ctx context.Context) ([]domain.Conversation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var file inboxFileSchema
	found, err := readTOMLFile(r.path, inboxLabel, &file)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrInboxNotFound
	}
	if err := checkVersion(inboxLabel, file.Version); err != nil {
		return nil, err
	}

	conversations := make([]domain.Conversation, 0, len(file.Conversations))
	for _, entry := range file.Conversations {
		conversation, err := fromConversationSchema(entry)
		if err != nil {
			return nil, fmt.Errorf("decode conversation %q: %w", entry.ID, err)
		}
		conversations = append(conversations, conversation)
	}

	return conversations, nil
}

func (r *ConversationRepository) ReplaceAll(ctx context.Context, conversations []domain.Conversation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	file := inboxFileSchema{
		Version:       currentSchemaVersion,
		Conversations: make([]conversationSchema, 0, len(conversations)),
	}
	for _, c := range conversations {
		file.Conversations = append(file.Conversations, toConversationSchema(c))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return writeTOMLFile(r.path, inboxLabel, file)
}

func toConversationSchema(c domain.Conversation) conversationSchema {
	utterances := make([]utteranceSchema, 0, len(c.Utterances))
	for _, u := range c.Utterances {
		utterances = append(utterances, utteranceSchema{
			ID:         string(u.ID),
			Content:    u.Content,
			Timestamp:  formatTime(u.Timestamp),
			FromSender: u.FromSender,
			AuthorID:   string(u.AuthorID),
		})
	}

	return conversationSchema{
		ID:           string(c.ID),
		Subject:      c.Subject,
		Preview:      c.Preview,
		LastActivity: formatTime(c.LastActivity),
		Unread:       c.Unread,
		Sender: senderSchema{
			ID:     c.Sender.ID,
			Name:   c.Sender.Name,
			Role:   string(c.Sender.Role),
			Avatar: c.Sender.Avatar,
		},
		Utterances: utterances,
	}
}

func fromConversationSchema(entry conversationSchema) (domain.Conversation, error) {
	lastActivity, err := parseTime(entry.LastActivity)
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("last activity: %w", err)
	}

	var utterances []domain.Utterance
	for _, u := range entry.Utterances {
		timestamp, err := parseTime(u.Timestamp)
		if err != nil {
			return domain.Conversation{}, fmt.Errorf("utterance %q timestamp: %w", u.ID, err)
		}
		utterances = append(utterances, domain.Utterance{
			ID:         domain.UtteranceID(u.ID),
			Content:    u.Content,
			Timestamp:  timestamp,
			FromSender: u.FromSender,
			AuthorID:   domain.UserID(u.AuthorID),
		})
	}

	conversation := domain.Conversation{
		ID: domain.ConversationID(entry.ID),
		Sender: domain.Sender{
			ID:     entry.Sender.ID,
			Name:   entry.Sender.Name,
			Role:   domain.SenderRole(entry.Sender.Role),
			Avatar: entry.Sender.Avatar,
		},
		Subject:      entry.Subject,
		Preview:      entry.Preview,
		LastActivity: lastActivity,
		Unread:       entry.Unread,
		Utterances:   utterances,
	}
	if err := conversation.Validate(); err != nil {
		return domain.Conversation{}, err
	}

	return conversation, nil
}
