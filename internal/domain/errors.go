package domain

import "errors"

var (
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrRegistration         = errors.New("registration failed")
	ErrConcurrentAuth       = errors.New("an authentication attempt is already in progress")
	ErrAuthAborted          = errors.New("authentication aborted by logout")
	ErrPrecondition         = errors.New("operation requires an authenticated session")
	ErrValidation           = errors.New("validation failed")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrNoSelection          = errors.New("no conversation selected")
	ErrEmptyDraft           = errors.New("reply is empty")
	ErrSessionNotFound      = errors.New("session not found")
	ErrUserExists           = errors.New("user already exists")
	ErrUserNotFound         = errors.New("user not found")
	ErrInboxNotFound        = errors.New("inbox not found")
	ErrSecretNotFound       = errors.New("secret not found")
	ErrUnsupported          = errors.New("not supported by the identity backend")
	ErrTermNotFound         = errors.New("term not found")
	ErrPreferencesNotFound  = errors.New("preferences not found")
)
