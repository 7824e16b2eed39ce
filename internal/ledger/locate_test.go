package ledger

import (
	"errors"
	"testing"
)

func logTable() [][]string {
	return [][]string{
		{"ID", "Amount", "Status", "User Name"},
		{"1", "$25.00", "New", "alice"},
		{"5", "$100.00", "New", "bob"},
		{"5", "$999.00", "Approved", "carol"},
		{"9", "$12.50", "Submitted", "alice"},
	}
}

func TestFindByID(t *testing.T) {
	tests := []struct {
		name        string
		id          string
		wantRowNum1 int
		wantAmount  string
		wantErr     bool
	}{
		{name: "found", id: "1", wantRowNum1: 2, wantAmount: "$25.00"},
		{name: "trims whitespace", id: "  9 ", wantRowNum1: 5, wantAmount: "$12.50"},
		{name: "duplicate id first wins", id: "5", wantRowNum1: 3, wantAmount: "$100.00"},
		{name: "not found", id: "404", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := FindByID(logTable(), tt.id)
			if tt.wantErr {
				var nf *NotFoundError
				if !errors.As(err, &nf) {
					t.Fatalf("FindByID(%q) err = %v, want NotFoundError", tt.id, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("FindByID(%q) err = %v", tt.id, err)
			}
			if rec.RowNum1 != tt.wantRowNum1 {
				t.Errorf("RowNum1 = %d, want %d", rec.RowNum1, tt.wantRowNum1)
			}
			if got := rec.Cell("Amount"); got != tt.wantAmount {
				t.Errorf("Amount = %q, want %q", got, tt.wantAmount)
			}
		})
	}
}

func TestFindByIDNoIDColumn(t *testing.T) {
	rows := [][]string{
		{"Amount", "Status"},
		{"$10.00", "New"},
	}
	_, err := FindByID(rows, "1")
	if !errors.Is(err, ErrNoIDColumn) {
		t.Errorf("FindByID err = %v, want ErrNoIDColumn", err)
	}
}

func TestRecordSummaryPadsShortRows(t *testing.T) {
	rows := [][]string{
		{"ID", "Amount", "Status"},
		{"3", "$5.00"},
	}
	rec, err := FindByID(rows, "3")
	if err != nil {
		t.Fatalf("FindByID err = %v", err)
	}
	summary := rec.Summary()
	if summary["Status"] != "" {
		t.Errorf("Status = %q, want empty", summary["Status"])
	}
	if summary["Amount"] != "$5.00" {
		t.Errorf("Amount = %q, want $5.00", summary["Amount"])
	}
}

func TestNextID(t *testing.T) {
	tests := []struct {
		name    string
		rows    [][]string
		want    int
		wantErr error
	}{
		{name: "max plus one", rows: logTable(), want: 10},
		{
			name: "empty table",
			rows: [][]string{{"ID", "Amount"}},
			want: 1,
		},
		{
			name: "non numeric ids skipped",
			rows: [][]string{
				{"ID"},
				{"TX-7"},
				{"3"},
				{""},
			},
			want: 4,
		},
		{
			name: "fractional id floors",
			rows: [][]string{
				{"ID"},
				{"7.9"},
			},
			want: 8,
		},
		{
			name:    "no id column",
			rows:    [][]string{{"Amount"}, {"$1.00"}},
			wantErr: ErrNoIDColumn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextID(tt.rows)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NextID err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NextID err = %v", err)
			}
			if got != tt.want {
				t.Errorf("NextID = %d, want %d", got, tt.want)
			}
		})
	}
}
