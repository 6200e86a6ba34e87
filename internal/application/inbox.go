package application

import (
	"fmt"
	"strings"
	"sync"

	"github.com/bnema/parent-portal/internal/domain"
	"github.com/bnema/parent-portal/internal/ports"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const previewLength = 60

// Inbox is the messaging thread view-model: the conversation collection, the
// selected thread, and the reply draft for that thread. Every operation is
// applied atomically under one lock.
type Inbox struct {
	clock ports.Clock
	log   zerolog.Logger
	newID func() string
	local func() domain.UserID

	mu            sync.Mutex
	conversations []domain.Conversation
	selected      *domain.ConversationID
	draft         string
	subscribers   map[int]func()
	nextSubID     int
}

type InboxOption func(*Inbox)

// WithLocalParticipant attributes outbound replies to the given user.
func WithLocalParticipant(fn func() domain.UserID) InboxOption {
	return func(i *Inbox) {
		i.local = fn
	}
}

func WithInboxLogger(log zerolog.Logger) InboxOption {
	return func(i *Inbox) {
		i.log = log.With().Str("component", "inbox").Logger()
	}
}

// SessionParticipant resolves the local participant from the session.
func SessionParticipant(session *SessionStore) func() domain.UserID {
	return func() domain.UserID {
		state := session.State()
		if state.User == nil {
			return ""
		}
		return state.User.ID
	}
}

func NewInbox(seed []domain.Conversation, clock ports.Clock, opts ...InboxOption) (*Inbox, error) {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	conversations := make([]domain.Conversation, 0, len(seed))
	seen := make(map[domain.ConversationID]struct{}, len(seed))
	for _, c := range seed {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("seed conversation: %w", err)
		}
		if _, ok := seen[c.ID]; ok {
			return nil, fmt.Errorf("seed conversation: duplicate id %q", c.ID)
		}
		seen[c.ID] = struct{}{}
		conversations = append(conversations, c.Clone())
	}

	inbox := &Inbox{
		clock:         clock,
		log:           zerolog.Nop(),
		newID:         uuid.NewString,
		local:         func() domain.UserID { return "" },
		conversations: conversations,
		subscribers:   map[int]func(){},
	}
	for _, opt := range opts {
		opt(inbox)
	}

	return inbox, nil
}

func (i *Inbox) Subscribe(fn func()) func() {
	i.mu.Lock()
	defer i.mu.Unlock()

	id := i.nextSubID
	i.nextSubID++
	i.subscribers[id] = fn

	return func() {
		i.mu.Lock()
		defer i.mu.Unlock()
		delete(i.subscribers, id)
	}
}

// List returns the conversations newest first, sorted afresh on every call.
func (i *Inbox) List() []domain.Conversation {
	i.mu.Lock()
	defer i.mu.Unlock()

	return i.sortedLocked("")
}

func (i *Inbox) Search(query string) []domain.Conversation {
	i.mu.Lock()
	defer i.mu.Unlock()

	return i.sortedLocked(query)
}

func (i *Inbox) Snapshot() []domain.Conversation {
	return i.List()
}

func (i *Inbox) UnreadCount() int {
	i.mu.Lock()
	defer i.mu.Unlock()

	count := 0
	for _, c := range i.conversations {
		if c.Unread {
			count++
		}
	}
	return count
}

func (i *Inbox) Selected() (domain.Conversation, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.selected == nil {
		return domain.Conversation{}, false
	}
	idx := i.indexLocked(*i.selected)
	if idx < 0 {
		return domain.Conversation{}, false
	}
	return i.conversations[idx].Clone(), true
}

func (i *Inbox) Draft() string {
	i.mu.Lock()
	defer i.mu.Unlock()

	return i.draft
}

// Select makes id the current thread. Selecting an unread thread marks it
// read; there is no separate acknowledgement.
func (i *Inbox) Select(id domain.ConversationID) error {
	i.mu.Lock()
	idx := i.indexLocked(id)
	if idx < 0 {
		i.mu.Unlock()
		return fmt.Errorf("select %q: %w", id, domain.ErrConversationNotFound)
	}

	if i.selected == nil || *i.selected != id {
		i.draft = ""
	}
	selected := id
	i.selected = &selected
	if i.conversations[idx].Unread {
		i.conversations[idx].Unread = false
		i.log.Debug().Str("conversation", string(id)).Msg("marked read")
	}
	subs := i.subscribersLocked()
	i.mu.Unlock()

	notifyAll(subs)
	return nil
}

func (i *Inbox) Deselect() {
	i.mu.Lock()
	if i.selected == nil && i.draft == "" {
		i.mu.Unlock()
		return
	}
	i.selected = nil
	i.draft = ""
	subs := i.subscribersLocked()
	i.mu.Unlock()

	notifyAll(subs)
}

// UpdateDraft stores text verbatim; emptiness is only checked on send.
func (i *Inbox) UpdateDraft(text string) {
	i.mu.Lock()
	i.draft = text
	subs := i.subscribersLocked()
	i.mu.Unlock()

	notifyAll(subs)
}

// SendReply appends the draft to the selected thread as a local utterance.
// Delivery to the school is not modelled here.
func (i *Inbox) SendReply() (domain.Utterance, error) {
	i.mu.Lock()
	if i.selected == nil {
		i.mu.Unlock()
		return domain.Utterance{}, fmt.Errorf("send reply: %w", domain.ErrNoSelection)
	}
	idx := i.indexLocked(*i.selected)
	if idx < 0 {
		i.selected = nil
		i.draft = ""
		i.mu.Unlock()
		return domain.Utterance{}, fmt.Errorf("send reply: %w", domain.ErrNoSelection)
	}
	if strings.TrimSpace(i.draft) == "" {
		i.mu.Unlock()
		return domain.Utterance{}, fmt.Errorf("send reply: %w", domain.ErrEmptyDraft)
	}

	utterance := domain.Utterance{
		ID:         domain.UtteranceID(i.newID()),
		Content:    i.draft,
		Timestamp:  i.clock.Now(),
		FromSender: false,
		AuthorID:   i.local(),
	}

	conversation := &i.conversations[idx]
	conversation.Utterances = append(conversation.Utterances, utterance)
	conversation.LastActivity = utterance.Timestamp
	conversation.Preview = previewOf(utterance.Content)
	conversationID := conversation.ID
	i.draft = ""
	subs := i.subscribersLocked()
	i.mu.Unlock()

	i.log.Debug().Str("conversation", string(conversationID)).Str("utterance", string(utterance.ID)).Msg("reply appended")
	notifyAll(subs)
	return utterance, nil
}

func (i *Inbox) DeleteConversation(id domain.ConversationID) error {
	i.mu.Lock()
	idx := i.indexLocked(id)
	if idx < 0 {
		i.mu.Unlock()
		return fmt.Errorf("delete %q: %w", id, domain.ErrConversationNotFound)
	}

	i.conversations = append(i.conversations[:idx], i.conversations[idx+1:]...)
	if i.selected != nil && *i.selected == id {
		i.selected = nil
		i.draft = ""
	}
	subs := i.subscribersLocked()
	i.mu.Unlock()

	notifyAll(subs)
	return nil
}

func (i *Inbox) sortedLocked(query string) []domain.Conversation {
	out := make([]domain.Conversation, 0, len(i.conversations))
	for _, c := range i.conversations {
		if !c.Matches(query) {
			continue
		}
		out = append(out, c.Clone())
	}
	domain.SortByRecent(out)

	return out
}

func (i *Inbox) indexLocked(id domain.ConversationID) int {
	for idx := range i.conversations {
		if i.conversations[idx].ID == id {
			return idx
		}
	}
	return -1
}

func (i *Inbox) subscribersLocked() []func() {
	subs := make([]func(), 0, len(i.subscribers))
	for id := 0; id < i.nextSubID; id++ {
		if fn, ok := i.subscribers[id]; ok {
			subs = append(subs, fn)
		}
	}
	return subs
}

func notifyAll(subs []func()) {
	for _, fn := range subs {
		fn()
	}
}

func previewOf(content string) string {
	flat := strings.Join(strings.Fields(content), " ")
	runes := []rune(flat)
	if len(runes) <= previewLength {
		return flat
	}
	return string(runes[:previewLength]) + "..."
}
