package dashboard

import (
	"fmt"
	"strings"

	"github.com/bnema/parent-portal/internal/adapters/render/program"
	"github.com/bnema/parent-portal/internal/application"
	"github.com/bnema/parent-portal/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderPerformance draws one term's grades and assignments under a term
// switcher with the selected term bracketed.
func RenderPerformance(report application.PerformanceReport) (string, error) {
	s := newStyles()
	return program.Render(func() string {
		return renderPerformance(report, s)
	})
}

func renderPerformance(report application.PerformanceReport, s styles) string {
	title := "Academic Performance: " + string(report.Term)
	if report.Term == report.Current {
		title += " (current)"
	}

	lines := []string{
		s.title.Render(title),
		s.header.Render(termSwitcher(report.Terms, report.Term)),
		s.section.Render(renderGrades(report.Grades, s)),
		s.section.Render(renderTermAssignments(report.Assignments, s)),
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func termSwitcher(terms []domain.Term, selected domain.Term) string {
	labels := make([]string, 0, len(terms))
	for _, t := range terms {
		if t == selected {
			labels = append(labels, "["+string(t)+"]")
			continue
		}
		labels = append(labels, string(t))
	}
	return "Terms: " + strings.Join(labels, " | ")
}

func renderTermAssignments(assignments []domain.Assignment, s styles) string {
	parts := []string{s.heading.Render("Assignments")}
	if len(assignments) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, append(parts, s.empty.Render("No assignments this term."))...)
	}

	for _, a := range assignments {
		status := a.Status.Label()
		if a.Score != nil {
			status = fmt.Sprintf("%s %d%%", status, *a.Score)
		}
		parts = append(parts, lipgloss.JoinHorizontal(
			lipgloss.Top,
			s.detail.Render(a.Title),
			" ",
			s.subject.Render("("+a.Subject+")"),
			" ",
			s.header.Render("Due "+a.DueDate.Format("Jan 2")),
			" ",
			statusStyle(a.Status, s).Render(status),
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func statusStyle(status domain.AssignmentStatus, s styles) lipgloss.Style {
	switch status {
	case domain.AssignmentCompleted:
		return s.completed
	case domain.AssignmentLate:
		return s.late
	default:
		return s.pending
	}
}
