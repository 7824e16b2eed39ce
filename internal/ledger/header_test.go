package ledger

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Job ID", "jobid"},
		{"job_id", "jobid"},
		{"JobID", "jobid"},
		{"GL Account", "glaccount"},
		{"  User Name  ", "username"},
		{"Transaction Description", "transactiondescription"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIndexCol(t *testing.T) {
	idx := NewIndex([]string{"ID", "Total", "Status", "Transcation Description", "Memo"})

	tests := []struct {
		name    string
		lookup  string
		alts    []string
		wantCol int
		wantOK  bool
	}{
		{name: "direct hit", lookup: "ID", wantCol: 0, wantOK: true},
		{name: "first alias", lookup: "Amount", alts: []string{"Total"}, wantCol: 1, wantOK: true},
		{name: "case and punctuation ignored", lookup: "status", wantCol: 2, wantOK: true},
		{name: "legacy misspelled header", lookup: "Transaction Description", alts: []string{"Transcation Description"}, wantCol: 3, wantOK: true},
		{name: "notes falls back to memo", lookup: "Notes", alts: []string{"Memo"}, wantCol: 4, wantOK: true},
		{name: "missing column", lookup: "Approver", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col, ok := idx.Col(tt.lookup, tt.alts...)
			if ok != tt.wantOK {
				t.Fatalf("Col(%q) ok = %v, want %v", tt.lookup, ok, tt.wantOK)
			}
			if ok && col != tt.wantCol {
				t.Errorf("Col(%q) = %d, want %d", tt.lookup, col, tt.wantCol)
			}
		})
	}
}

func TestIndexDuplicateHeadersLastWins(t *testing.T) {
	idx := NewIndex([]string{"Amount", "amount"})
	col, ok := idx.Col("Amount")
	if !ok || col != 1 {
		t.Errorf("Col(Amount) = %d, %v; want 1, true", col, ok)
	}
}
