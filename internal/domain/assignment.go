package domain

import "time"

type AssignmentStatus string

const (
	AssignmentCompleted AssignmentStatus = "completed"
	AssignmentPending   AssignmentStatus = "pending"
	AssignmentLate      AssignmentStatus = "late"
)

func (s AssignmentStatus) Valid() bool {
	switch s {
	case AssignmentCompleted, AssignmentPending, AssignmentLate:
		return true
	default:
		return false
	}
}

func (s AssignmentStatus) Label() string {
	switch s {
	case AssignmentCompleted:
		return "Completed"
	case AssignmentPending:
		return "Pending"
	case AssignmentLate:
		return "Late"
	default:
		return string(s)
	}
}

type Assignment struct {
	Title   string
	Subject string
	DueDate time.Time
	Status  AssignmentStatus
	Score   *int
}

type SubjectGrade struct {
	Subject string
	Grade   string
	Percent float64
	Teacher string
}
