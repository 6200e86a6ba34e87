package dashboard

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bnema/parent-portal/internal/adapters/render/program"
	"github.com/bnema/parent-portal/internal/application"
	"github.com/bnema/parent-portal/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const barWidth = 20

type RenderOptions struct {
	Now time.Time
}

func Render(summary application.DashboardSummary, opts RenderOptions) (string, error) {
	s := newStyles()
	return program.Render(func() string {
		return renderView(summary, opts, s)
	})
}

func renderView(summary application.DashboardSummary, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render(fmt.Sprintf("Welcome back, %s", firstName(summary.User.Name))),
		s.header.Render(childLine(summary.Child)),
		s.section.Render(renderGrades(summary.Grades, s)),
		s.section.Render(renderAssignments(summary, opts, s)),
		s.section.Render(renderMessages(summary.UnreadCount, s)),
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func childLine(child *domain.ChildProfile) string {
	if child == nil {
		return "No child profile yet. Add one with `pp child set`."
	}

	return fmt.Sprintf("%s, %s at %s", child.Name, child.Grade, child.School)
}

func firstName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "there"
	}
	return fields[0]
}

func renderGrades(grades []domain.SubjectGrade, s styles) string {
	parts := []string{s.heading.Render("Grades")}
	if len(grades) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, append(parts, s.empty.Render("No grades recorded."))...)
	}

	nameWidth := 0
	total := 0.0
	for _, g := range grades {
		nameWidth = max(nameWidth, lipgloss.Width(g.Subject))
		total += g.Percent
	}

	for _, g := range grades {
		parts = append(parts, lipgloss.JoinHorizontal(
			lipgloss.Top,
			s.subject.Render(padRight(g.Subject, nameWidth)),
			" ",
			renderProgressBar(g.Percent, barWidth, s),
			" ",
			s.grade.Render(padRight(g.Grade, 2)),
			" ",
			s.detail.Render(fmt.Sprintf("%3.0f%%", clampPercent(g.Percent))),
		))
	}
	parts = append(parts, s.header.Render(fmt.Sprintf("average: %.1f%%", total/float64(len(grades)))))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderAssignments(summary application.DashboardSummary, opts RenderOptions, s styles) string {
	counts := lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.completed.Render(fmt.Sprintf("%d %s", summary.ByStatus[domain.AssignmentCompleted], strings.ToLower(domain.AssignmentCompleted.Label()))),
		", ",
		s.pending.Render(fmt.Sprintf("%d %s", summary.ByStatus[domain.AssignmentPending], strings.ToLower(domain.AssignmentPending.Label()))),
		", ",
		s.late.Render(fmt.Sprintf("%d %s", summary.ByStatus[domain.AssignmentLate], strings.ToLower(domain.AssignmentLate.Label()))),
	)
	parts := []string{s.heading.Render("Upcoming Assignments"), counts}

	if len(summary.Upcoming) == 0 {
		parts = append(parts, s.empty.Render("Nothing due."))
		return lipgloss.JoinVertical(lipgloss.Left, parts...)
	}

	for _, a := range summary.Upcoming {
		due := "Due " + a.DueDate.Format("Jan 2")
		style := s.detail
		if !opts.Now.IsZero() && a.DueDate.Before(opts.Now) {
			due += " (overdue)"
			style = s.late
		}
		parts = append(parts, lipgloss.JoinHorizontal(
			lipgloss.Top,
			style.Render(a.Title),
			" ",
			s.subject.Render("("+a.Subject+")"),
			" ",
			s.header.Render(due),
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderMessages(unread int, s styles) string {
	parts := []string{s.heading.Render("Messages")}
	switch unread {
	case 0:
		parts = append(parts, s.empty.Render("No unread messages."))
	case 1:
		parts = append(parts, s.notice.Render("1 unread message"))
	default:
		parts = append(parts, s.notice.Render(fmt.Sprintf("%d unread messages", unread)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderProgressBar(percent float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	filled := int(math.Round(float64(width) * clampPercent(percent) / 100))
	fillSegment := s.barFill.Render(strings.Repeat("=", filled))
	emptySegment := s.barEmpty.Render(strings.Repeat("-", width-filled))

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		fillSegment,
		emptySegment,
		s.barBracket.Render("]"),
	)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func padRight(value string, width int) string {
	if gap := width - lipgloss.Width(value); gap > 0 {
		return value + strings.Repeat(" ", gap)
	}
	return value
}
