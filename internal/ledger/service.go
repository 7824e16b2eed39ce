package ledger

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

// Tabs names the tables the service reads and writes. The log tab is the
// ledger of record; the rest feed lookups.
type Tabs struct {
	Log        string
	JobMaster  string
	CostCodes  string
	GLAccounts string
	Users      string
}

// Service is the expense-coding workflow over one tabular store. All row
// access is header-indexed per request; nothing about the table layout is
// assumed at compile time.
type Service struct {
	store Store
	tabs  Tabs
	log   zerolog.Logger
}

// NewService creates a ledger service over the given store.
func NewService(store Store, tabs Tabs, log zerolog.Logger) *Service {
	return &Service{store: store, tabs: tabs, log: log}
}

// HeaderRow returns the live header row of the log tab. Diagnostic only.
func (s *Service) HeaderRow(ctx context.Context) ([]string, error) {
	rows, err := s.store.ReadAllRows(ctx, s.tabs.Log)
	if err != nil {
		return nil, upstream("HeaderRow: read ledger", err)
	}
	if len(rows) == 0 {
		return []string{}, nil
	}
	return rows[0], nil
}

// SampleParent is a trimmed row echo used by the sample-parents diagnostic.
type SampleParent struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	User        string `json:"user"`
}

// SampleParents returns up to limit rows with non-empty IDs from the log
// tab, for picking test parents without opening the sheet.
func (s *Service) SampleParents(ctx context.Context, limit int) ([]SampleParent, error) {
	rows, err := s.store.ReadAllRows(ctx, s.tabs.Log)
	if err != nil {
		return nil, upstream("SampleParents: read ledger", err)
	}
	if len(rows) < 2 {
		return []SampleParent{}, nil
	}
	idx := NewIndex(rows[0])
	idCol, ok := idx.id()
	if !ok {
		return nil, &NotFoundError{Msg: "Missing ID column in sheet"}
	}

	items := make([]SampleParent, 0, limit)
	for i := 1; i < len(rows) && len(items) < limit; i++ {
		rec := Record{Index: idx, Row: rows[i], RowNum1: i + 1}
		id := ""
		if idCol < len(rows[i]) {
			id = strings.TrimSpace(rows[i][idCol])
		}
		if id == "" {
			continue
		}
		items = append(items, SampleParent{
			ID:          id,
			Status:      rec.Cell(colStatus),
			Amount:      rec.Cell(colAmount, "Total"),
			Description: rec.Cell(colDescription, colDescriptionLegacy, "Description", "Vendor", "Merchant"),
			User:        rec.Cell(colUserName, "Username", "User", "UserID"),
		})
	}
	return items, nil
}
