package patient

import (
	"strings"
	"time"
)

// Patient mirrors a row of the clinic's patient registry.
type Patient struct {
	ID            int        `json:"id"`
	Surname       string     `json:"surname"`
	FirstName     string     `json:"first_name"`
	MiddleName    string     `json:"middle_name,omitempty"`
	BirthDate     *time.Time `json:"birth_date,omitempty"`
	TaxFileNumber string     `json:"tax_file_number,omitempty"`
	CardNumber    string     `json:"card_number,omitempty"`
}

// DisplayName renders the patient as surname plus initials, the form
// used on printed documents.
func (p *Patient) DisplayName() string {
	var b strings.Builder
	b.WriteString(p.Surname)
	for _, name := range []string{p.FirstName, p.MiddleName} {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		b.WriteString(" ")
		b.WriteString(string([]rune(name)[:1]))
		b.WriteString(".")
	}
	return b.String()
}
