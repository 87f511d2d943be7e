package report

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/dentaltax/dentaltax/internal/domain/patient"
	"github.com/dentaltax/dentaltax/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type reportRepoPG struct{ pool *pgxpool.Pool }

func NewReportRepoPG(pool *pgxpool.Pool) Repository {
	return &reportRepoPG{pool: pool}
}

func (r *reportRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

// categoryReportSQL builds the category-mode statement. DISTINCT ON the
// account identity keeps one row per account even when its treatments
// span several selected categories; the inner ordering makes the kept
// category deterministic and the outer wrapper restores date order.
// The date bounds compare calendar days so an account created any time
// on the end date is still inside the period.
func categoryReportSQL(branchID int, start, end time.Time, categories []string) (string, []interface{}) {
	q := NewQuery(`SELECT DISTINCT ON (pa.account_id)
	pa.account_id, pa.number, p.patient_id,
	p.surname, p.first_name, p.middle_name, p.birth_date, p.tax_file_number,
	pa.date_created, pa.date_paid, pa.total, pa.rebate, pa.amount_paid,
	pa.paid_amount, pa.doctor_name, gpl2.description AS category
FROM patients_accounts pa
JOIN patients p ON p.patient_id = pa.send_acc_to_pat_id
JOIN treat t ON t.account_id = pa.account_id
JOIN procedures prc ON prc.procedure_id = t.procedure_id
JOIN general_procedures_lev_2 gpl2 ON gpl2.id = prc.category_id`)
	q.Where("pa.amount_paid > 0")
	q.Between("pa.date_created::date", start, end)
	if branchID > 0 {
		q.Where("pa.practice_id = ?", branchID)
	}
	q.In("gpl2.description", categories)
	q.OrderBy("pa.account_id, gpl2.description")

	return "SELECT * FROM (\n" + q.SQL() + "\n) acc\nORDER BY date_created, account_id", q.Args()
}

// patientReportSQL builds the patient-mode statement: no taxonomy join,
// the addressee filter on the account, rebate coalesced to zero.
func patientReportSQL(branchID int, start, end time.Time, patientID int) (string, []interface{}) {
	q := NewQuery(`SELECT pa.account_id, pa.number, p.patient_id,
	p.surname, p.first_name, p.middle_name, p.birth_date, p.tax_file_number,
	pa.date_created, pa.date_paid, pa.total, COALESCE(pa.rebate, 0),
	pa.amount_paid, pa.paid_amount, pa.doctor_name
FROM patients_accounts pa
JOIN patients p ON p.patient_id = pa.send_acc_to_pat_id`)
	q.Where("pa.amount_paid > 0")
	q.Between("pa.date_created::date", start, end)
	if branchID > 0 {
		q.Where("pa.practice_id = ?", branchID)
	}
	q.Where("pa.send_acc_to_pat_id = ?", patientID)
	q.OrderBy("pa.date_created DESC, pa.account_id DESC")

	return q.SQL(), q.Args()
}

func displayName(surname, firstName, middleName string) string {
	return (&patient.Patient{
		Surname:    surname,
		FirstName:  firstName,
		MiddleName: middleName,
	}).DisplayName()
}

func (r *reportRepoPG) FindByCategories(ctx context.Context, branchID int, start, end time.Time, categories []string) ([]Account, error) {
	sql, args := categoryReportSQL(branchID, start, end, categories)

	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, db.AccessErr("report.categories", err)
	}
	defer rows.Close()

	var items []Account
	for rows.Next() {
		var (
			a      Account
			rebate decimal.NullDecimal
		)
		err := rows.Scan(&a.ID, &a.Number, &a.PatientID,
			&a.Surname, &a.FirstName, &a.MiddleName, &a.PatientBirthDate, &a.PatientTaxID,
			&a.DateCreated, &a.DatePaid, &a.Total, &rebate, &a.AmountPaid,
			&a.PaidAmount, &a.DoctorName, &a.Category)
		if err != nil {
			return nil, db.AccessErr("report.categories", err)
		}
		if rebate.Valid {
			a.Rebate = rebate.Decimal
		}
		a.PatientName = displayName(a.Surname, a.FirstName, a.MiddleName)
		a.Included = true
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, db.AccessErr("report.categories", err)
	}
	return items, nil
}

func (r *reportRepoPG) FindByPatient(ctx context.Context, branchID int, start, end time.Time, patientID int) ([]Account, error) {
	sql, args := patientReportSQL(branchID, start, end, patientID)

	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, db.AccessErr("report.patient", err)
	}
	defer rows.Close()

	var items []Account
	for rows.Next() {
		var a Account
		err := rows.Scan(&a.ID, &a.Number, &a.PatientID,
			&a.Surname, &a.FirstName, &a.MiddleName, &a.PatientBirthDate, &a.PatientTaxID,
			&a.DateCreated, &a.DatePaid, &a.Total, &a.Rebate,
			&a.AmountPaid, &a.PaidAmount, &a.DoctorName)
		if err != nil {
			return nil, db.AccessErr("report.patient", err)
		}
		if a.DateCreated == nil {
			return nil, db.AccessErr("report.patient",
				fmt.Errorf("account %d has no creation date", a.ID))
		}
		a.PatientName = displayName(a.Surname, a.FirstName, a.MiddleName)
		a.Category = UncategorizedLabel
		a.Included = true
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, db.AccessErr("report.patient", err)
	}
	return items, nil
}
