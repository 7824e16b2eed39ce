package ledger

import "context"

// Store is the external tabular store the ledger lives in. Rows are
// positional string slices; row 0 of ReadAllRows is the header row.
// Implementations: Google Sheets (internal/infra/sheets) and a local
// workbook (internal/infra/workbook).
//
// The store offers no locking and no transactional guarantee across a
// read-modify-write sequence; concurrent writers race last-write-wins at
// row granularity. Callers own that risk.
type Store interface {
	// ReadAllRows returns every populated row of the named table.
	ReadAllRows(ctx context.Context, table string) ([][]string, error)

	// UpdateRow overwrites one whole row. rowNum1 is 1-based, counting the
	// header row as row 1.
	UpdateRow(ctx context.Context, table string, rowNum1 int, values []string) error

	// AppendRows appends whole rows after the last populated row.
	AppendRows(ctx context.Context, table string, rows [][]string) error
}
