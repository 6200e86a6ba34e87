package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

type ConversationID string
type UtteranceID string

type SenderRole string

const (
	SenderRoleTeacher SenderRole = "teacher"
	SenderRoleAdmin   SenderRole = "admin"
)

func (r SenderRole) Valid() bool {
	switch r {
	case SenderRoleTeacher, SenderRoleAdmin:
		return true
	default:
		return false
	}
}

func (r SenderRole) Label() string {
	switch r {
	case SenderRoleTeacher:
		return "Teacher"
	case SenderRoleAdmin:
		return "Administration"
	default:
		return string(r)
	}
}

type Sender struct {
	ID     string
	Name   string
	Avatar string
	Role   SenderRole
}

type Utterance struct {
	ID        UtteranceID
	Content   string
	Timestamp time.Time
	// FromSender is true when the thread's school-side sender wrote it, false
	// for replies written by the local parent.
	FromSender bool
	AuthorID   UserID
}

type Conversation struct {
	ID           ConversationID
	Sender       Sender
	Subject      string
	Preview      string
	LastActivity time.Time
	Unread       bool
	Utterances   []Utterance
}

func (c Conversation) Validate() error {
	if strings.TrimSpace(string(c.ID)) == "" {
		return fmt.Errorf("conversation id is required")
	}
	if !c.Sender.Role.Valid() {
		return fmt.Errorf("conversation %s: unsupported sender role %q", c.ID, c.Sender.Role)
	}

	return nil
}

func (c Conversation) Clone() Conversation {
	cp := c
	if c.Utterances != nil {
		cp.Utterances = append([]Utterance(nil), c.Utterances...)
	}
	return cp
}

// Matches reports whether query occurs, case-insensitively, in the sender
// name, subject, preview or any utterance.
func (c Conversation) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}

	for _, field := range []string{c.Sender.Name, c.Subject, c.Preview} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	for _, u := range c.Utterances {
		if strings.Contains(strings.ToLower(u.Content), q) {
			return true
		}
	}

	return false
}

// SortByRecent orders conversations by LastActivity, newest first. Ties keep
// a deterministic order by id.
func SortByRecent(conversations []Conversation) {
	sort.SliceStable(conversations, func(i, j int) bool {
		a, b := conversations[i], conversations[j]
		if !a.LastActivity.Equal(b.LastActivity) {
			return a.LastActivity.After(b.LastActivity)
		}
		return a.ID < b.ID
	})
}
