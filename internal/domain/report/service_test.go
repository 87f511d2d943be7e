package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type mockRepo struct {
	accounts []Account
	calls    int
	lastCats []string
	err      error
}

func (m *mockRepo) FindByCategories(ctx context.Context, branchID int, start, end time.Time, categories []string) ([]Account, error) {
	m.calls++
	m.lastCats = categories
	if m.err != nil {
		return nil, m.err
	}
	return m.accounts, nil
}

func (m *mockRepo) FindByPatient(ctx context.Context, branchID int, start, end time.Time, patientID int) ([]Account, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.accounts, nil
}

var (
	periodStart = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	periodEnd   = time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
)

func TestAccountsByCategories_EmptySetSkipsStore(t *testing.T) {
	repo := &mockRepo{err: errors.New("store must not be called")}
	svc := NewService(repo)

	got, err := svc.AccountsByCategories(context.Background(), 0, periodStart, periodEnd, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", got)
	}
	if repo.calls != 0 {
		t.Errorf("expected no store round-trip, got %d calls", repo.calls)
	}
}

func TestAccountsByCategories_MissingPeriod(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo)

	cases := []struct {
		name       string
		start, end time.Time
	}{
		{"no start", time.Time{}, periodEnd},
		{"no end", periodStart, time.Time{}},
		{"neither", time.Time{}, time.Time{}},
	}
	for _, tc := range cases {
		_, err := svc.AccountsByCategories(context.Background(), 0, tc.start, tc.end, []string{"Surgery"})
		if !errors.Is(err, ErrMissingPeriod) {
			t.Errorf("%s: expected ErrMissingPeriod, got %v", tc.name, err)
		}
	}
	if repo.calls != 0 {
		t.Errorf("expected no store round-trip, got %d calls", repo.calls)
	}
}

func TestAccountsByCategories_PassesCategoriesThrough(t *testing.T) {
	created := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	repo := &mockRepo{accounts: []Account{{
		ID:          1,
		DateCreated: &created,
		AmountPaid:  decimal.NewFromInt(150),
		Category:    "Surgery",
		Included:    true,
	}}}
	svc := NewService(repo)

	got, err := svc.AccountsByCategories(context.Background(), 2, periodStart, periodEnd, []string{"Surgery", "Hygiene"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || !got[0].Included {
		t.Errorf("unexpected result: %+v", got)
	}
	if len(repo.lastCats) != 2 {
		t.Errorf("expected 2 categories passed, got %v", repo.lastCats)
	}
}

func TestAccountsByPatient_RequiresPatient(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo)

	_, err := svc.AccountsByPatient(context.Background(), 0, periodStart, periodEnd, 0)
	if !errors.Is(err, ErrNoPatient) {
		t.Errorf("expected ErrNoPatient, got %v", err)
	}
	if repo.calls != 0 {
		t.Errorf("expected no store round-trip, got %d calls", repo.calls)
	}
}

func TestAccountsByPatient_MissingPeriod(t *testing.T) {
	svc := NewService(&mockRepo{})
	_, err := svc.AccountsByPatient(context.Background(), 0, time.Time{}, periodEnd, 7)
	if !errors.Is(err, ErrMissingPeriod) {
		t.Errorf("expected ErrMissingPeriod, got %v", err)
	}
}

func TestAccountsByPatient_PropagatesStoreError(t *testing.T) {
	cause := errors.New("connection refused")
	svc := NewService(&mockRepo{err: cause})
	_, err := svc.AccountsByPatient(context.Background(), 0, periodStart, periodEnd, 7)
	if !errors.Is(err, cause) {
		t.Errorf("expected cause preserved, got %v", err)
	}
}
