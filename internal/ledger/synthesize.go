package ledger

import "strings"

// JobGLCode is written to the GL Account column whenever a line carries a
// non-blank Job ID. Job-coded spend always books against account 1300;
// any glAccount supplied on the same line is ignored.
const JobGLCode = "1300"

// BuildChildren synthesizes one child record per split line. Each child is
// a positional copy of the parent row with only the recognized columns
// overlaid; unrecognized columns inherit the parent's value unchanged.
// Output order matches split-line order. Children are returned keyed by the
// raw header names, padded with "" where the parent row is short.
func BuildChildren(idx *Index, parentRow []string, splits []SplitLine) []map[string]string {
	headers := idx.Headers()

	amountCol, hasAmount := idx.amount()
	notesCol, hasNotes := idx.Col(colNotes, "Memo")
	jobCol, hasJob := idx.Col(colJobID, "Job")
	costCol, hasCost := idx.Col(colCostCode, "CostCode")
	divCol, hasDiv := idx.Col(colDivision, "Dept")
	glCol, hasGL := idx.Col(colGLAccount, "GL", "Account")

	children := make([]map[string]string, 0, len(splits))
	for _, s := range splits {
		row := make([]string, len(headers))
		copy(row, parentRow)

		set := func(col int, ok bool, val string) {
			if ok && col < len(row) {
				row[col] = val
			}
		}

		// Amount is always rewritten with the parsed numeric value, never
		// left as the parent's original string.
		set(amountCol, hasAmount, formatCell(s.Amount))
		if s.Notes.Set {
			set(notesCol, hasNotes, s.Notes.Value)
		}
		if s.JobID.Set {
			set(jobCol, hasJob, s.JobID.Value)
		}
		if s.CostCode.Set {
			set(costCol, hasCost, s.CostCode.Value)
		}
		if s.Division.Set {
			set(divCol, hasDiv, s.Division.Value)
		}

		if s.JobID.Set && strings.TrimSpace(s.JobID.Value) != "" {
			set(glCol, hasGL, JobGLCode)
		} else if s.GLAccount.Set {
			set(glCol, hasGL, s.GLAccount.Value)
		}

		child := make(map[string]string, len(headers))
		for i, h := range headers {
			child[h] = row[i]
		}
		children = append(children, child)
	}
	return children
}

// RowValues converts a header-keyed record back into a positional row
// aligned to headers. Missing keys become "" so the row length always
// matches the header length.
func RowValues(headers []string, obj map[string]string) []string {
	row := make([]string, len(headers))
	for i, h := range headers {
		row[i] = obj[h]
	}
	return row
}
