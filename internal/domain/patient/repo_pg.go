package patient

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dentaltax/dentaltax/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type patientRepoPG struct{ pool *pgxpool.Pool }

func NewPatientRepoPG(pool *pgxpool.Pool) Repository {
	return &patientRepoPG{pool: pool}
}

func (r *patientRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const patientCols = `p.patient_id, p.surname, p.first_name, p.middle_name, p.birth_date,
	p.tax_file_number, p.card_number`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.Surname, &p.FirstName, &p.MiddleName, &p.BirthDate,
		&p.TaxFileNumber, &p.CardNumber)
	return &p, err
}

// searchSQL matches a patient when the trimmed query equals the card
// number exactly or appears as a substring of a name field. Substring
// case rules are the store collation's call, so plain LIKE. Only
// patients addressed by at least one paid account are candidates.
func searchSQL(branchID int) (string, bool) {
	sql := `SELECT DISTINCT ` + patientCols + `
		FROM patients p
		WHERE EXISTS (
			SELECT 1 FROM patients_accounts pa
			WHERE pa.send_acc_to_pat_id = p.patient_id AND pa.amount_paid > 0`
	withBranch := branchID != 0
	if withBranch {
		sql += ` AND pa.practice_id = $2`
	}
	sql += `)
		AND (p.card_number = $1
			OR p.surname LIKE '%' || $1 || '%'
			OR p.first_name LIKE '%' || $1 || '%'
			OR p.middle_name LIKE '%' || $1 || '%')
		ORDER BY p.surname, p.first_name, p.patient_id`
	return sql, withBranch
}

func (r *patientRepoPG) FindByQuery(ctx context.Context, branchID int, query string) ([]Patient, error) {
	sql, withBranch := searchSQL(branchID)
	args := []interface{}{query}
	if withBranch {
		args = append(args, branchID)
	}

	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, db.AccessErr("patient.find", err)
	}
	defer rows.Close()

	var items []Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, db.AccessErr("patient.find", err)
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, db.AccessErr("patient.find", err)
	}
	return items, nil
}

func (r *patientRepoPG) GetByID(ctx context.Context, id int) (*Patient, error) {
	p, err := scanPatient(r.conn(ctx).QueryRow(ctx,
		`SELECT `+patientCols+` FROM patients p WHERE p.patient_id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, db.AccessErr("patient.get", err)
	}
	return p, nil
}
