package taxonomy

import "context"

// Repository reads the live procedure taxonomy and branch list from the
// clinic's practice management database.
type Repository interface {
	ListCategories(ctx context.Context) ([]string, error)
	ListBranches(ctx context.Context) ([]Branch, error)
}
