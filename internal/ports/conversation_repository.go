package ports

import (
	"context"

	"github.com/bnema/parent-portal/internal/domain"
)

// ConversationRepository persists the inbox between runs. List fails with
// domain.ErrInboxNotFound until the first ReplaceAll, so an inbox emptied by
// the user is not confused with one that was never seeded.
type ConversationRepository interface {
	List(ctx context.Context) ([]domain.Conversation, error)
	ReplaceAll(ctx context.Context, conversations []domain.Conversation) error
}

// SeedProvider serves the demo fixtures shown before a real school backend
// exists.
type SeedProvider interface {
	Conversations(ctx context.Context) ([]domain.Conversation, error)
	Assignments(ctx context.Context) ([]domain.Assignment, error)
	Grades(ctx context.Context) ([]domain.SubjectGrade, error)
}

// TermCatalog serves graded performance per school term.
type TermCatalog interface {
	Terms(ctx context.Context) (terms []domain.Term, current domain.Term, err error)
	TermReport(ctx context.Context, term domain.Term) (domain.TermReport, error)
}
