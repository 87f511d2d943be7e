package settings

import (
	"reflect"
	"sync"
	"testing"

	"github.com/dentaltax/dentaltax/internal/domain/patient"
)

func TestNew_Defaults(t *testing.T) {
	s := New()
	if s.CopiesCount != 2 {
		t.Errorf("expected 2 copies by default, got %d", s.CopiesCount)
	}
	if s.OrgType != OrgTypeOrganization {
		t.Errorf("expected org type %d, got %d", OrgTypeOrganization, s.OrgType)
	}
	if s.SignerType != SignerTypeHead {
		t.Errorf("expected signer type %d, got %d", SignerTypeHead, s.SignerType)
	}
	if s.ProcedureType != 1 {
		t.Errorf("expected procedure type 1, got %d", s.ProcedureType)
	}
}

func TestAddProcedureCategory(t *testing.T) {
	s := New()
	if !s.AddProcedureCategory("  Orthodontics ") {
		t.Error("expected first add to report true")
	}
	if s.AddProcedureCategory("Orthodontics") {
		t.Error("expected duplicate add to report false")
	}
	if s.AddProcedureCategory("   ") {
		t.Error("expected blank add to report false")
	}
	if got := s.ProcedureCategories(); !reflect.DeepEqual(got, []string{"Orthodontics"}) {
		t.Errorf("unexpected categories: %v", got)
	}
}

func TestProcedureCategories_PreservesInsertionOrder(t *testing.T) {
	s := New()
	for _, c := range []string{"Surgery", "Hygiene", "Endodontics"} {
		s.AddProcedureCategory(c)
	}
	want := []string{"Surgery", "Hygiene", "Endodontics"}
	if got := s.ProcedureCategories(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected insertion order %v, got %v", want, got)
	}
}

func TestProcedureCategories_ReturnsCopy(t *testing.T) {
	s := New()
	s.AddProcedureCategory("Surgery")
	got := s.ProcedureCategories()
	got[0] = "mutated"
	if s.ProcedureCategories()[0] != "Surgery" {
		t.Error("caller mutation leaked into settings")
	}
}

func TestSetSelectedCategories_NilClearsSelection(t *testing.T) {
	s := New()
	s.SetSelectedCategories([]string{"Surgery", "Hygiene"})
	if len(s.SelectedCategories()) != 2 {
		t.Fatalf("expected 2 selected, got %v", s.SelectedCategories())
	}
	s.SetSelectedCategories(nil)
	if got := s.SelectedCategories(); len(got) != 0 {
		t.Errorf("expected empty selection, got %v", got)
	}
}

func TestSelectedCategories_Sorted(t *testing.T) {
	s := New()
	s.SetSelectedCategories([]string{"Surgery", "Endodontics", "Hygiene"})
	want := []string{"Endodontics", "Hygiene", "Surgery"}
	if got := s.SelectedCategories(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestAddRemoveCategory(t *testing.T) {
	s := New()
	s.AddCategory("Surgery")
	if !s.IsSelected("Surgery") {
		t.Error("expected Surgery selected")
	}
	s.RemoveCategory("Surgery")
	if s.IsSelected("Surgery") {
		t.Error("expected Surgery deselected")
	}
}

func TestStore_SnapshotIsDeepCopy(t *testing.T) {
	st := NewStore(nil)
	st.Update(func(s *Settings) {
		s.ClinicName = "Bright Smile"
		s.AddProcedureCategory("Surgery")
		s.SelectedPatient = &patient.Patient{ID: 7, Surname: "Smith"}
	})

	snap := st.Snapshot()
	snap.ClinicName = "Other"
	snap.AddProcedureCategory("Hygiene")
	snap.SelectedPatient.Surname = "Jones"

	fresh := st.Snapshot()
	if fresh.ClinicName != "Bright Smile" {
		t.Error("scalar mutation leaked through snapshot")
	}
	if len(fresh.ProcedureCategories()) != 1 {
		t.Error("category mutation leaked through snapshot")
	}
	if fresh.SelectedPatient.Surname != "Smith" {
		t.Error("patient mutation leaked through snapshot")
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	st := NewStore(nil)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			st.Update(func(s *Settings) { s.AddProcedureCategory("Surgery") })
		}()
		go func() {
			defer wg.Done()
			_ = st.Snapshot().ProcedureCategories()
		}()
	}
	wg.Wait()
	if got := st.Snapshot().ProcedureCategories(); len(got) != 1 {
		t.Errorf("expected 1 category after concurrent adds, got %v", got)
	}
}
