package patient

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrEmptyQuery is returned when a search query is blank after trimming.
	ErrEmptyQuery = errors.New("search query is empty")
	ErrNotFound   = errors.New("patient not found")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Search finds patients with paid accounts matching query. The query is
// trimmed first; a blank query never reaches the store.
func (s *Service) Search(ctx context.Context, branchID int, query string) ([]Patient, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	return s.repo.FindByQuery(ctx, branchID, query)
}

func (s *Service) Get(ctx context.Context, id int) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}
