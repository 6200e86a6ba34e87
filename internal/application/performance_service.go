package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/bnema/parent-portal/internal/domain"
	"github.com/bnema/parent-portal/internal/ports"
)

// PerformanceReport is one term's results together with the terms the
// parent can switch to.
type PerformanceReport struct {
	Terms   []domain.Term
	Current domain.Term
	domain.TermReport
}

type PerformanceService struct {
	session *SessionStore
	catalog ports.TermCatalog
	prefs   *PreferencesService
}

// NewPerformanceService wires the term catalog. prefs may be nil, in which
// case the selected term is not remembered between calls.
func NewPerformanceService(session *SessionStore, catalog ports.TermCatalog, prefs *PreferencesService) *PerformanceService {
	return &PerformanceService{session: session, catalog: catalog, prefs: prefs}
}

// Report shows the requested term. An empty term falls back to the saved
// selection, then to the catalog's current term. A named term is saved as
// the new selection.
func (s *PerformanceService) Report(ctx context.Context, term string) (PerformanceReport, error) {
	if !s.session.State().IsAuthenticated() {
		return PerformanceReport{}, fmt.Errorf("performance: %w", domain.ErrPrecondition)
	}

	terms, current, err := s.catalog.Terms(ctx)
	if err != nil {
		return PerformanceReport{}, fmt.Errorf("load terms: %w", err)
	}

	selected, err := s.resolveTerm(ctx, terms, current, term)
	if err != nil {
		return PerformanceReport{}, err
	}

	report, err := s.catalog.TermReport(ctx, selected)
	if err != nil {
		return PerformanceReport{}, fmt.Errorf("load term %q: %w", selected, err)
	}
	domain.SortByDueDate(report.Assignments)

	return PerformanceReport{Terms: terms, Current: current, TermReport: report}, nil
}

func (s *PerformanceService) resolveTerm(ctx context.Context, terms []domain.Term, current domain.Term, raw string) (domain.Term, error) {
	if strings.TrimSpace(raw) != "" {
		selected, ok := domain.MatchTerm(terms, raw)
		if !ok {
			return "", fmt.Errorf("%w: %q (available: %s)", domain.ErrTermNotFound, raw, joinTerms(terms))
		}
		if s.prefs != nil {
			if _, err := s.prefs.SelectTerm(ctx, selected); err != nil {
				return "", err
			}
		}
		return selected, nil
	}

	if s.prefs != nil {
		prefs, err := s.prefs.Current(ctx)
		if err != nil {
			return "", err
		}
		if saved, ok := domain.MatchTerm(terms, string(prefs.Term)); ok {
			return saved, nil
		}
	}
	return current, nil
}

func joinTerms(terms []domain.Term) string {
	names := make([]string, 0, len(terms))
	for _, t := range terms {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}
