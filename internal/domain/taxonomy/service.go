package taxonomy

import (
	"context"
	"sort"
	"strings"

	"github.com/dentaltax/dentaltax/internal/domain/settings"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListCategories returns the live taxonomy: trimmed, deduplicated,
// reserved labels dropped, sorted. Any store failure returns an error
// and no partial result.
func (s *Service) ListCategories(ctx context.Context) ([]string, error) {
	raw, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(raw))
	cats := make([]string, 0, len(raw))
	for _, c := range raw {
		c = strings.TrimSpace(c)
		if c == "" || isReserved(c) {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		cats = append(cats, c)
	}
	sort.Strings(cats)
	return cats, nil
}

// ListBranches returns patient-facing branches sorted by name.
// Laboratory locations are dropped.
func (s *Service) ListBranches(ctx context.Context) ([]Branch, error) {
	raw, err := s.repo.ListBranches(ctx)
	if err != nil {
		return nil, err
	}
	branches := make([]Branch, 0, len(raw))
	for _, b := range raw {
		if strings.Contains(b.Name, LaboratoryMarker) {
			continue
		}
		branches = append(branches, b)
	}
	sort.Slice(branches, func(i, j int) bool {
		if branches[i].Name != branches[j].Name {
			return branches[i].Name < branches[j].Name
		}
		return branches[i].ID < branches[j].ID
	})
	return branches, nil
}

// Reconcile folds the live taxonomy into the known category list.
// It only ever adds: labels that disappeared upstream stay known so an
// operator's historical selection keeps working. Returns how many new
// labels were discovered.
func (s *Service) Reconcile(ctx context.Context, store *settings.Store) (int, error) {
	cats, err := s.ListCategories(ctx)
	if err != nil {
		return 0, err
	}
	added := 0
	store.Update(func(st *settings.Settings) {
		for _, c := range cats {
			if st.AddProcedureCategory(c) {
				added++
			}
		}
	})
	return added, nil
}

// SelectAll replaces the current selection with the full live taxonomy.
func (s *Service) SelectAll(ctx context.Context, store *settings.Store) ([]string, error) {
	cats, err := s.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	store.Update(func(st *settings.Settings) {
		st.SetSelectedCategories(cats)
	})
	return cats, nil
}

// SaveSelection replaces the selection wholesale. A nil slice means an
// empty selection, not an error.
func (s *Service) SaveSelection(store *settings.Store, chosen []string) {
	store.Update(func(st *settings.Settings) {
		st.SetSelectedCategories(chosen)
	})
}
