package taxonomy

// Branch is a practice location of the clinic. ID 0 is reserved by
// callers as the "all branches" sentinel and never appears in listings.
type Branch struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Reserved category labels used internally by the practice management
// system. They are bookkeeping buckets, not procedure categories, and
// never appear in listings.
var ReservedCategories = []string{"Finance", "Legacy", "Certificates"}

// LaboratoryMarker flags practice locations that are dental labs rather
// than patient-facing branches.
const LaboratoryMarker = "Laboratory"

func isReserved(name string) bool {
	for _, r := range ReservedCategories {
		if name == r {
			return true
		}
	}
	return false
}
