package domain

import (
	"fmt"
	"strings"
)

type Notification string

const (
	NotifyEmail      Notification = "email"
	NotifyPush       Notification = "push"
	NotifyGrades     Notification = "grades"
	NotifyAttendance Notification = "attendance"
	NotifyMessages   Notification = "messages"
)

var notifications = []Notification{NotifyEmail, NotifyPush, NotifyGrades, NotifyAttendance, NotifyMessages}

// Notifications lists every toggle in display order.
func Notifications() []Notification {
	return append([]Notification(nil), notifications...)
}

func (n Notification) Label() string {
	switch n {
	case NotifyEmail:
		return "Email notifications"
	case NotifyPush:
		return "Push notifications"
	case NotifyGrades:
		return "Grade alerts"
	case NotifyAttendance:
		return "Attendance alerts"
	case NotifyMessages:
		return "Message alerts"
	default:
		return string(n)
	}
}

func ParseNotification(raw string) (Notification, error) {
	n := Notification(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range notifications {
		if n == known {
			return n, nil
		}
	}
	return "", fmt.Errorf("%w (want one of %s)", fieldErr("notification", CodeInvalidFormat), joinNotifications())
}

func joinNotifications() string {
	names := make([]string, 0, len(notifications))
	for _, n := range notifications {
		names = append(names, string(n))
	}
	return strings.Join(names, ", ")
}

// Preferences are the per-parent settings: notification toggles and the term
// the performance view last showed. An empty Term means the current term.
type Preferences struct {
	EmailNotifications bool
	PushNotifications  bool
	GradeAlerts        bool
	AttendanceAlerts   bool
	MessageAlerts      bool
	Term               Term
}

// DefaultPreferences has every notification switched on.
func DefaultPreferences() Preferences {
	return Preferences{
		EmailNotifications: true,
		PushNotifications:  true,
		GradeAlerts:        true,
		AttendanceAlerts:   true,
		MessageAlerts:      true,
	}
}

func (p Preferences) Enabled(n Notification) bool {
	if field := p.field(n); field != nil {
		return *field
	}
	return false
}

// With returns a copy of p with n switched on or off.
func (p Preferences) With(n Notification, on bool) Preferences {
	if field := p.field(n); field != nil {
		*field = on
	}
	return p
}

func (p *Preferences) field(n Notification) *bool {
	switch n {
	case NotifyEmail:
		return &p.EmailNotifications
	case NotifyPush:
		return &p.PushNotifications
	case NotifyGrades:
		return &p.GradeAlerts
	case NotifyAttendance:
		return &p.AttendanceAlerts
	case NotifyMessages:
		return &p.MessageAlerts
	default:
		return nil
	}
}
