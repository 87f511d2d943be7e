package settings

import (
	"sort"
	"strings"

	"github.com/dentaltax/dentaltax/internal/domain/patient"
)

// Settings holds everything the report form needs: clinic requisites,
// document options, the known procedure taxonomy and the operator's
// current category selection.
type Settings struct {
	ClinicName             string
	TaxID                  string
	RegistrationCode       string
	PreparerName           string
	CopiesCount            int
	TaxOfficeCode          string
	OrgType                int
	SignerType             int
	RepresentativeDocument string
	DigitalSignerName      string
	ExportPath             string
	ProcedureType          int

	SelectedPatient *patient.Patient

	// procedureCategories preserves insertion order; the report form
	// shows categories in the order they were first discovered.
	procedureCategories []string
	procedureIndex      map[string]struct{}
	selectedCategories  map[string]struct{}
}

const (
	OrgTypeOrganization   = 1
	OrgTypeSoleProprietor = 2

	SignerTypeHead           = 1
	SignerTypeRepresentative = 2
)

func New() *Settings {
	return &Settings{
		CopiesCount:        2,
		OrgType:            OrgTypeOrganization,
		SignerType:         SignerTypeHead,
		ProcedureType:      1,
		procedureIndex:     make(map[string]struct{}),
		selectedCategories: make(map[string]struct{}),
	}
}

// ProcedureCategories returns the known taxonomy in insertion order.
// The returned slice is a copy.
func (s *Settings) ProcedureCategories() []string {
	out := make([]string, len(s.procedureCategories))
	copy(out, s.procedureCategories)
	return out
}

func (s *Settings) HasProcedureCategory(name string) bool {
	_, ok := s.procedureIndex[strings.TrimSpace(name)]
	return ok
}

// AddProcedureCategory records a category label if it is non-blank and
// not already known. Reports whether the label was added.
func (s *Settings) AddProcedureCategory(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	if _, ok := s.procedureIndex[name]; ok {
		return false
	}
	s.procedureCategories = append(s.procedureCategories, name)
	s.procedureIndex[name] = struct{}{}
	return true
}

func (s *Settings) SetProcedureCategories(names []string) {
	s.procedureCategories = nil
	s.procedureIndex = make(map[string]struct{})
	for _, n := range names {
		s.AddProcedureCategory(n)
	}
}

func (s *Settings) ClearProcedureCategories() {
	s.procedureCategories = nil
	s.procedureIndex = make(map[string]struct{})
}

// SelectedCategories returns the current selection sorted for stable
// output. The returned slice is a copy.
func (s *Settings) SelectedCategories() []string {
	out := make([]string, 0, len(s.selectedCategories))
	for c := range s.selectedCategories {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// SetSelectedCategories replaces the selection wholesale. A nil slice
// clears the selection.
func (s *Settings) SetSelectedCategories(names []string) {
	s.selectedCategories = make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		s.selectedCategories[n] = struct{}{}
	}
}

func (s *Settings) AddCategory(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	s.selectedCategories[name] = struct{}{}
}

func (s *Settings) RemoveCategory(name string) {
	delete(s.selectedCategories, strings.TrimSpace(name))
}

func (s *Settings) IsSelected(name string) bool {
	_, ok := s.selectedCategories[name]
	return ok
}

func (s *Settings) clone() *Settings {
	c := *s
	c.procedureCategories = make([]string, len(s.procedureCategories))
	copy(c.procedureCategories, s.procedureCategories)
	c.procedureIndex = make(map[string]struct{}, len(s.procedureIndex))
	for k := range s.procedureIndex {
		c.procedureIndex[k] = struct{}{}
	}
	c.selectedCategories = make(map[string]struct{}, len(s.selectedCategories))
	for k := range s.selectedCategories {
		c.selectedCategories[k] = struct{}{}
	}
	if s.SelectedPatient != nil {
		p := *s.SelectedPatient
		c.SelectedPatient = &p
	}
	return &c
}
