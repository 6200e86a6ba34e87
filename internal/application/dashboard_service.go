package application

import (
	"context"
	"fmt"

	"github.com/bnema/parent-portal/internal/domain"
	"github.com/bnema/parent-portal/internal/ports"
)

type DashboardSummary struct {
	User        domain.User
	Child       *domain.ChildProfile
	Grades      []domain.SubjectGrade
	Upcoming    []domain.Assignment
	ByStatus    map[domain.AssignmentStatus]int
	UnreadCount int
}

type DashboardService struct {
	session *SessionStore
	seed    ports.SeedProvider
}

func NewDashboardService(session *SessionStore, seed ports.SeedProvider) *DashboardService {
	return &DashboardService{session: session, seed: seed}
}

// Summary builds the dashboard for the signed-in parent. unread is supplied by
// the caller's inbox so the dashboard never owns messaging state.
func (s *DashboardService) Summary(ctx context.Context, unread int) (DashboardSummary, error) {
	state := s.session.State()
	if !state.IsAuthenticated() {
		return DashboardSummary{}, fmt.Errorf("dashboard: %w", domain.ErrPrecondition)
	}

	assignments, err := s.seed.Assignments(ctx)
	if err != nil {
		return DashboardSummary{}, fmt.Errorf("load assignments: %w", err)
	}
	grades, err := s.seed.Grades(ctx)
	if err != nil {
		return DashboardSummary{}, fmt.Errorf("load grades: %w", err)
	}

	summary := DashboardSummary{
		User:        *state.User,
		Child:       state.Child.Clone(),
		Grades:      grades,
		ByStatus:    map[domain.AssignmentStatus]int{},
		UnreadCount: unread,
	}
	for _, a := range assignments {
		if !a.Status.Valid() {
			return DashboardSummary{}, fmt.Errorf("assignment %q: unsupported status %q", a.Title, a.Status)
		}
		summary.ByStatus[a.Status]++
		if a.Status == domain.AssignmentPending {
			summary.Upcoming = append(summary.Upcoming, a)
		}
	}
	domain.SortByDueDate(summary.Upcoming)

	return summary, nil
}
