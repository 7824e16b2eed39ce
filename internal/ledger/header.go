package ledger

import "strings"

// Canonical column names and the aliases accepted for each. The live sheet
// decides column order and presence, so every lookup goes through the index
// with an explicit fallback list.
const (
	colID          = "ID"
	colAmount      = "Amount"
	colStatus      = "Status"
	colNotes       = "Notes"
	colJobID       = "Job ID"
	colCostCode    = "Cost Code"
	colDivision    = "Division"
	colGLAccount   = "GL Account"
	colUserName    = "User Name"
	colApprover    = "Approver"
	colDescription = "Transaction Description"

	// Old sheets carry this misspelling in the header row. It normalizes
	// differently from the correct spelling, so it stays an explicit alias.
	colDescriptionLegacy = "Transcation Description"
)

// Transaction lifecycle states, compared case-insensitively wherever they
// are read back from the sheet.
const (
	StatusNew       = "New"
	StatusSubmitted = "Submitted"
	StatusApproved  = "Approved"
	StatusSplit     = "Split"
)

// Index maps normalized header names to zero-based column positions for one
// read of a ledger tab. It is rebuilt per request and never persisted.
type Index struct {
	headers []string
	cols    map[string]int
}

// NewIndex builds an index over a header row. Duplicate normalized names
// resolve last-wins; that ambiguity is inherited from the sheet itself.
func NewIndex(headers []string) *Index {
	idx := &Index{
		headers: headers,
		cols:    make(map[string]int, len(headers)),
	}
	for i, h := range headers {
		idx.cols[Normalize(h)] = i
	}
	return idx
}

// Headers returns the raw header row the index was built from.
func (x *Index) Headers() []string { return x.headers }

// Col resolves a column by name, trying each alias in order.
func (x *Index) Col(name string, alts ...string) (int, bool) {
	if i, ok := x.cols[Normalize(name)]; ok {
		return i, true
	}
	for _, a := range alts {
		if i, ok := x.cols[Normalize(a)]; ok {
			return i, true
		}
	}
	return -1, false
}

func (x *Index) id() (int, bool)     { return x.Col(colID) }
func (x *Index) status() (int, bool) { return x.Col(colStatus) }
func (x *Index) amount() (int, bool) { return x.Col(colAmount, "Total") }
func (x *Index) user() (int, bool) {
	return x.Col(colUserName, "Username", "User", "UserID")
}
func (x *Index) approver() (int, bool) {
	return x.Col(colApprover, "ApprovedBy", "Manager")
}
func (x *Index) description() (int, bool) {
	return x.Col(colDescription, colDescriptionLegacy, "Description", "Vendor", "Merchant")
}

// Normalize lower-cases a header name and strips every non-alphanumeric
// rune, so "Job ID", "job_id" and "JobID" share one lookup key.
func Normalize(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
