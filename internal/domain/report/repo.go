package report

import (
	"context"
	"time"
)

// Repository fetches paid account rows from the clinic database.
// Results are all-or-nothing: any failure returns an error and no
// partial slice.
type Repository interface {
	// FindByCategories returns paid accounts whose procedures fall into
	// one of the given categories, created within [start, end],
	// ascending by creation date. Branch 0 means every branch.
	FindByCategories(ctx context.Context, branchID int, start, end time.Time, categories []string) ([]Account, error)

	// FindByPatient returns the paid accounts addressed to one patient,
	// descending by creation date. No taxonomy join takes place.
	FindByPatient(ctx context.Context, branchID int, start, end time.Time, patientID int) ([]Account, error)
}
