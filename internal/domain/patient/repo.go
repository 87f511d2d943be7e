package patient

import "context"

// Repository looks up patients that have at least one paid account.
type Repository interface {
	// FindByQuery returns patients matching query within the given branch.
	// A branch of 0 searches every branch. A match is either an exact card
	// number or a substring of one of the name fields.
	FindByQuery(ctx context.Context, branchID int, query string) ([]Patient, error)
	GetByID(ctx context.Context, id int) (*Patient, error)
}
