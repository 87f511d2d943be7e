package report

import (
	"time"

	"github.com/shopspring/decimal"
)

// UncategorizedLabel is reported for accounts fetched by patient, where
// no taxonomy join takes place.
const UncategorizedLabel = "Uncategorized"

// Account is one paid account row of the report result set. Patient
// identity fields describe the account addressee, the person the tax
// certificate is issued for.
type Account struct {
	ID     int    `json:"id"`
	Number string `json:"number"`

	PatientID        int        `json:"patient_id"`
	Surname          string     `json:"surname"`
	FirstName        string     `json:"first_name"`
	MiddleName       string     `json:"middle_name,omitempty"`
	PatientName      string     `json:"patient_name,omitempty"`
	PatientBirthDate *time.Time `json:"patient_birth_date,omitempty"`
	PatientTaxID     string     `json:"patient_tax_id,omitempty"`

	DateCreated *time.Time          `json:"date_created,omitempty"`
	DatePaid    *time.Time          `json:"date_paid,omitempty"`
	Total       decimal.Decimal     `json:"total"`
	Rebate      decimal.Decimal     `json:"rebate"`
	AmountPaid  decimal.Decimal     `json:"amount_paid"`
	PaidAmount  decimal.NullDecimal `json:"paid_amount"`
	DoctorName  string              `json:"doctor_name,omitempty"`
	Category    string              `json:"category"`

	// Included marks whether the operator kept the row for export.
	// Every fetched row starts included.
	Included bool `json:"included"`
}
