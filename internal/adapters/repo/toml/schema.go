package toml

import (
	"errors"
	"fmt"
)

const currentSchemaVersion = 1

var errUnsupportedVersion = errors.New("unsupported schema version")

func checkVersion(label string, version int) error {
	if version > currentSchemaVersion {
		return fmt.Errorf("%w: %s schema version %d (current %d)", errUnsupportedVersion, label, version, currentSchemaVersion)
	}

	return nil
}

type sessionFileSchema struct {
	Version  int          `toml:"version"`
	SavedAt  string       `toml:"saved_at"`
	TokenRef string       `toml:"token_ref,omitempty"`
	User     userSchema   `toml:"user"`
	Child    *childSchema `toml:"child,omitempty"`
}

type userSchema struct {
	ID     string `toml:"id"`
	Name   string `toml:"name"`
	Email  string `toml:"email"`
	Avatar string `toml:"avatar,omitempty"`
	Phone  string `toml:"phone,omitempty"`
}

type childSchema struct {
	ID     string `toml:"id"`
	Name   string `toml:"name"`
	Grade  string `toml:"grade"`
	School string `toml:"school"`
	Avatar string `toml:"avatar,omitempty"`
}

type inboxFileSchema struct {
	Version       int                  `toml:"version"`
	Conversations []conversationSchema `toml:"conversations"`
}

type conversationSchema struct {
	ID           string            `toml:"id"`
	Subject      string            `toml:"subject"`
	Preview      string            `toml:"preview"`
	LastActivity string            `toml:"last_activity"`
	Unread       bool              `toml:"unread"`
	Sender       senderSchema      `toml:"sender"`
	Utterances   []utteranceSchema `toml:"utterances"`
}

type senderSchema struct {
	ID     string `toml:"id"`
	Name   string `toml:"name"`
	Role   string `toml:"role"`
	Avatar string `toml:"avatar,omitempty"`
}

type utteranceSchema struct {
	ID         string `toml:"id"`
	Content    string `toml:"content"`
	Timestamp  string `toml:"timestamp"`
	FromSender bool   `toml:"from_sender"`
	AuthorID   string `toml:"author_id,omitempty"`
}

type usersFileSchema struct {
	Version int                `toml:"version"`
	Users   []userRecordSchema `toml:"users"`
}

type userRecordSchema struct {
	ID           string `toml:"id"`
	Name         string `toml:"name"`
	Email        string `toml:"email"`
	Avatar       string `toml:"avatar,omitempty"`
	Phone        string `toml:"phone,omitempty"`
	PasswordHash string `toml:"password_hash"`
	CreatedAt    string `toml:"created_at"`
}

type preferencesFileSchema struct {
	Version int                 `toml:"version"`
	Users   []preferencesSchema `toml:"users"`
}

type preferencesSchema struct {
	UserID             string `toml:"user_id"`
	EmailNotifications bool   `toml:"email_notifications"`
	PushNotifications  bool   `toml:"push_notifications"`
	GradeAlerts        bool   `toml:"grade_alerts"`
	AttendanceAlerts   bool   `toml:"attendance_alerts"`
	MessageAlerts      bool   `toml:"message_alerts"`
	Term               string `toml:"term,omitempty"`
}
