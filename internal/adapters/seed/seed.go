// Package seed serves the demo school data bundled into the binary.
package seed

import (
	"context"
	"embed"
	"fmt"
	"time"

	"github.com/bnema/parent-portal/internal/domain"
	"github.com/bnema/parent-portal/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
)

//go:embed fixtures/*.toml
var fixtures embed.FS

type conversationsFile struct {
	Conversations []conversationFixture `toml:"conversations"`
}

type conversationFixture struct {
	ID           string             `toml:"id"`
	Subject      string             `toml:"subject"`
	Preview      string             `toml:"preview"`
	LastActivity time.Time          `toml:"last_activity"`
	Unread       bool               `toml:"unread"`
	Sender       senderFixture      `toml:"sender"`
	Utterances   []utteranceFixture `toml:"utterances"`
}

type senderFixture struct {
	ID     string `toml:"id"`
	Name   string `toml:"name"`
	Role   string `toml:"role"`
	Avatar string `toml:"avatar"`
}

type utteranceFixture struct {
	ID         string    `toml:"id"`
	Content    string    `toml:"content"`
	Timestamp  time.Time `toml:"timestamp"`
	FromSender bool      `toml:"from_sender"`
}

type performanceFile struct {
	CurrentTerm string        `toml:"current_term"`
	Terms       []termFixture `toml:"terms"`
}

type termFixture struct {
	Name        string              `toml:"name"`
	Grades      []gradeFixture      `toml:"grades"`
	Assignments []assignmentFixture `toml:"assignments"`
}

type gradeFixture struct {
	Subject string  `toml:"subject"`
	Grade   string  `toml:"grade"`
	Percent float64 `toml:"percent"`
	Teacher string  `toml:"teacher"`
}

type assignmentFixture struct {
	Title   string         `toml:"title"`
	Subject string         `toml:"subject"`
	Due     toml.LocalDate `toml:"due"`
	Status  string         `toml:"status"`
	Score   *int           `toml:"score"`
}

// Provider decodes the embedded fixtures on every call and hands out fresh
// copies.
type Provider struct{}

var (
	_ ports.SeedProvider = Provider{}
	_ ports.TermCatalog  = Provider{}
)

func New() Provider {
	return Provider{}
}

func (Provider) Conversations(ctx context.Context) ([]domain.Conversation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var file conversationsFile
	if err := decode("fixtures/conversations.toml", &file); err != nil {
		return nil, err
	}

	conversations := make([]domain.Conversation, 0, len(file.Conversations))
	for _, entry := range file.Conversations {
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
			LastActivity: entry.LastActivity,
			Unread:       entry.Unread,
		}
		for _, u := range entry.Utterances {
			conversation.Utterances = append(conversation.Utterances, domain.Utterance{
				ID:         domain.UtteranceID(u.ID),
				Content:    u.Content,
				Timestamp:  u.Timestamp,
				FromSender: u.FromSender,
			})
		}
		if err := conversation.Validate(); err != nil {
			return nil, fmt.Errorf("seed conversations: %w", err)
		}
		conversations = append(conversations, conversation)
	}

	return conversations, nil
}

// Assignments returns the current term's assignments.
func (p Provider) Assignments(ctx context.Context) ([]domain.Assignment, error) {
	report, err := p.currentReport(ctx)
	if err != nil {
		return nil, err
	}
	return report.Assignments, nil
}

// Grades returns the current term's grades.
func (p Provider) Grades(ctx context.Context) ([]domain.SubjectGrade, error) {
	report, err := p.currentReport(ctx)
	if err != nil {
		return nil, err
	}
	return report.Grades, nil
}

// Terms lists the terms in fixture order along with the current one.
func (Provider) Terms(ctx context.Context) ([]domain.Term, domain.Term, error) {
	file, err := loadPerformance(ctx)
	if err != nil {
		return nil, "", err
	}

	terms := make([]domain.Term, 0, len(file.Terms))
	for _, entry := range file.Terms {
		terms = append(terms, domain.Term(entry.Name))
	}
	return terms, domain.Term(file.CurrentTerm), nil
}

func (Provider) TermReport(ctx context.Context, term domain.Term) (domain.TermReport, error) {
	file, err := loadPerformance(ctx)
	if err != nil {
		return domain.TermReport{}, err
	}
	return file.report(term)
}

func (p Provider) currentReport(ctx context.Context) (domain.TermReport, error) {
	file, err := loadPerformance(ctx)
	if err != nil {
		return domain.TermReport{}, err
	}
	return file.report(domain.Term(file.CurrentTerm))
}

func loadPerformance(ctx context.Context) (performanceFile, error) {
	if err := ctx.Err(); err != nil {
		return performanceFile{}, err
	}

	var file performanceFile
	if err := decode("fixtures/performance.toml", &file); err != nil {
		return performanceFile{}, err
	}
	return file, nil
}

func (f performanceFile) report(term domain.Term) (domain.TermReport, error) {
	for _, entry := range f.Terms {
		if domain.Term(entry.Name) != term {
			continue
		}
		return entry.toDomain()
	}
	return domain.TermReport{}, fmt.Errorf("seed performance %q: %w", term, domain.ErrTermNotFound)
}

func (t termFixture) toDomain() (domain.TermReport, error) {
	report := domain.TermReport{
		Term:        domain.Term(t.Name),
		Grades:      make([]domain.SubjectGrade, 0, len(t.Grades)),
		Assignments: make([]domain.Assignment, 0, len(t.Assignments)),
	}

	for _, entry := range t.Grades {
		report.Grades = append(report.Grades, domain.SubjectGrade{
			Subject: entry.Subject,
			Grade:   entry.Grade,
			Percent: entry.Percent,
			Teacher: entry.Teacher,
		})
	}

	for _, entry := range t.Assignments {
		status := domain.AssignmentStatus(entry.Status)
		if !status.Valid() {
			return domain.TermReport{}, fmt.Errorf("seed assignment %q: unsupported status %q", entry.Title, entry.Status)
		}
		report.Assignments = append(report.Assignments, domain.Assignment{
			Title:   entry.Title,
			Subject: entry.Subject,
			DueDate: entry.Due.AsTime(time.UTC),
			Status:  status,
			Score:   entry.Score,
		})
	}

	return report, nil
}

func decode(name string, out any) error {
	data, err := fixtures.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read fixture %s: %w", name, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode fixture %s: %w", name, err)
	}

	return nil
}
