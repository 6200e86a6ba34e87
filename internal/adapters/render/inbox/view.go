package inbox

import (
	"fmt"
	"strings"
	"time"

	"github.com/bnema/parent-portal/internal/adapters/render/program"
	"github.com/bnema/parent-portal/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const unreadMarker = "*"

type RenderOptions struct {
	Now   time.Time
	Query string
	// Width wraps utterance bodies when positive.
	Width int
}

// RenderList draws the conversation list in the order given.
func RenderList(conversations []domain.Conversation, opts RenderOptions) (string, error) {
	s := newStyles()
	return program.Render(func() string {
		return renderList(conversations, opts, s)
	})
}

// RenderThread draws one conversation and the pending draft, if any.
func RenderThread(conversation domain.Conversation, draft string, opts RenderOptions) (string, error) {
	s := newStyles()
	return program.Render(func() string {
		return renderThread(conversation, draft, opts, s)
	})
}

func renderList(conversations []domain.Conversation, opts RenderOptions, s styles) string {
	unread := 0
	for _, c := range conversations {
		if c.Unread {
			unread++
		}
	}

	header := fmt.Sprintf("conversations: %d, unread: %d", len(conversations), unread)
	if q := strings.TrimSpace(opts.Query); q != "" {
		header += fmt.Sprintf(", matching %q", q)
	}
	lines := []string{
		s.title.Render("Messages"),
		s.header.Render(header),
	}

	if len(conversations) == 0 {
		lines = append(lines, s.empty.Render("No messages."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, c := range conversations {
		lines = append(lines, s.section.Render(renderRow(c, opts, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderRow(c domain.Conversation, opts RenderOptions, s styles) string {
	marker := " "
	nameStyle := s.sender
	if c.Unread {
		marker = unreadMarker
		nameStyle = s.unread
	}

	top := lipgloss.JoinHorizontal(
		lipgloss.Top,
		marker,
		" ",
		s.header.Render("["+string(c.ID)+"]"),
		" ",
		nameStyle.Render(c.Sender.Name),
		" ",
		s.role.Render("("+c.Sender.Role.Label()+")"),
		"  ",
		s.when.Render(formatWhen(c.LastActivity, opts.Now)),
	)

	parts := []string{top, "  " + s.subject.Render(c.Subject)}
	if preview := strings.TrimSpace(c.Preview); preview != "" {
		parts = append(parts, "  "+s.preview.Render(preview))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderThread(c domain.Conversation, draft string, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render(c.Subject),
		s.header.Render(fmt.Sprintf("%s (%s)", c.Sender.Name, c.Sender.Role.Label())),
	}

	if len(c.Utterances) == 0 {
		lines = append(lines, s.empty.Render("No messages in this conversation yet."))
	}

	body := s.body
	if opts.Width > 0 {
		body = body.Width(opts.Width)
	}
	for _, u := range c.Utterances {
		author, style := "You", s.outgoing
		if u.FromSender {
			author, style = c.Sender.Name, s.incoming
		}
		heading := lipgloss.JoinHorizontal(
			lipgloss.Top,
			style.Bold(true).Render(author),
			" ",
			s.when.Render(formatStamp(u.Timestamp, opts.Now)),
		)
		lines = append(lines, s.section.Render(lipgloss.JoinVertical(
			lipgloss.Left,
			heading,
			body.Render(style.Render(u.Content)),
		)))
	}

	if strings.TrimSpace(draft) != "" {
		lines = append(lines, s.section.Render(s.draft.Render("Draft: "+draft)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// formatWhen shows a clock time for today, a weekday within the last week
// and a short date otherwise.
func formatWhen(at, now time.Time) string {
	if at.IsZero() {
		return ""
	}
	if now.IsZero() {
		return at.Format("Jan 2")
	}

	if sameDay(at, now) {
		return at.Format("15:04")
	}
	if now.Sub(at) < 7*24*time.Hour && !at.After(now) {
		return at.Format("Mon")
	}

	return at.Format("Jan 2")
}

func formatStamp(at, now time.Time) string {
	if at.IsZero() {
		return ""
	}
	if !now.IsZero() && sameDay(at, now) {
		return at.Format("15:04")
	}

	return at.Format("Jan 2 15:04")
}

func sameDay(a, b time.Time) bool {
	yearA, monthA, dayA := a.Date()
	yearB, monthB, dayB := b.In(a.Location()).Date()
	return yearA == yearB && monthA == monthB && dayA == dayB
}
