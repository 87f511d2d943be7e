package report

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrMissingPeriod is returned when either end of the report period
	// is unset.
	ErrMissingPeriod = errors.New("report period is not set")
	// ErrNoPatient is returned when a patient report is requested with
	// no patient chosen.
	ErrNoPatient = errors.New("no patient selected")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// AccountsByCategories fetches paid accounts for the chosen categories.
// An empty category set is a valid, certain answer: nothing can match,
// so the store is never asked.
func (s *Service) AccountsByCategories(ctx context.Context, branchID int, start, end time.Time, categories []string) ([]Account, error) {
	if start.IsZero() || end.IsZero() {
		return nil, ErrMissingPeriod
	}
	if len(categories) == 0 {
		return []Account{}, nil
	}
	return s.repo.FindByCategories(ctx, branchID, start, end, categories)
}

// AccountsByPatient fetches the paid accounts addressed to one patient.
func (s *Service) AccountsByPatient(ctx context.Context, branchID int, start, end time.Time, patientID int) ([]Account, error) {
	if start.IsZero() || end.IsZero() {
		return nil, ErrMissingPeriod
	}
	if patientID <= 0 {
		return nil, ErrNoPatient
	}
	return s.repo.FindByPatient(ctx, branchID, start, end, patientID)
}
