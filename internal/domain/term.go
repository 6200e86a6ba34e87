package domain

import (
	"sort"
	"strings"
)

// Term names a grading period, e.g. "Spring 2025".
type Term string

// TermReport is one term's grades and assignments.
type TermReport struct {
	Term        Term
	Grades      []SubjectGrade
	Assignments []Assignment
}

// Average is the mean grade percentage, zero without grades.
func (r TermReport) Average() float64 {
	if len(r.Grades) == 0 {
		return 0
	}
	total := 0.0
	for _, g := range r.Grades {
		total += g.Percent
	}
	return total / float64(len(r.Grades))
}

// MatchTerm resolves raw against terms ignoring case and surrounding space.
func MatchTerm(terms []Term, raw string) (Term, bool) {
	want := strings.TrimSpace(raw)
	for _, t := range terms {
		if strings.EqualFold(string(t), want) {
			return t, true
		}
	}
	return "", false
}

// SortByDueDate orders assignments soonest first, keeping input order for
// equal dates.
func SortByDueDate(assignments []Assignment) {
	sort.SliceStable(assignments, func(i, j int) bool {
		return assignments[i].DueDate.Before(assignments[j].DueDate)
	})
}
