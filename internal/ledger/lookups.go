package ledger

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"
)

// jobMasterDateCol is the column of the job-master tab holding the job's
// last-activity date (column M of the feed).
const jobMasterDateCol = 12

// LookupCode is one selectable cost code or GL account.
type LookupCode struct {
	Code  string `json:"code"`
	Desc  string `json:"desc"`
	Label string `json:"label"`
}

// User is one row of the users tab, split into name parts.
type User struct {
	Username string `json:"username"`
	First    string `json:"first"`
	Last     string `json:"last"`
	Full     string `json:"full"`
	Email    string `json:"email"`
}

// LookupsResult bundles every dropdown the coding UI needs.
type LookupsResult struct {
	JobIDs          []string        `json:"jobIds"`
	CostCodes       []LookupCode    `json:"costCodes"`
	GLAccounts      []LookupCode    `json:"glAccounts"`
	UsersByEmail    map[string]User `json:"usersByEmail"`
	UsersByUsername map[string]User `json:"usersByUsername"`
}

// Lookups reads the job-master, cost-code, GL-account and user tabs in one
// pass. Jobs inactive for more than two years are dropped.
func (s *Service) Lookups(ctx context.Context) (*LookupsResult, error) {
	out := &LookupsResult{
		JobIDs:          []string{},
		CostCodes:       []LookupCode{},
		GLAccounts:      []LookupCode{},
		UsersByEmail:    map[string]User{},
		UsersByUsername: map[string]User{},
	}

	cutoff := time.Now().AddDate(-2, 0, 0)
	jobs, err := s.readTab(ctx, s.tabs.JobMaster, "Lookups: read job master")
	if err != nil {
		return nil, err
	}
	for _, r := range jobs {
		d := ParseSheetDate(cellAt(r, jobMasterDateCol))
		if d.IsZero() || d.Before(cutoff) {
			continue
		}
		if id := strings.TrimSpace(cellAt(r, 0)); id != "" {
			out.JobIDs = append(out.JobIDs, id)
		}
	}
	sortFold(out.JobIDs)

	costs, err := s.readTab(ctx, s.tabs.CostCodes, "Lookups: read cost codes")
	if err != nil {
		return nil, err
	}
	out.CostCodes = codeRows(costs)

	gls, err := s.readTab(ctx, s.tabs.GLAccounts, "Lookups: read gl accounts")
	if err != nil {
		return nil, err
	}
	out.GLAccounts = codeRows(gls)

	users, err := s.store.ReadAllRows(ctx, s.tabs.Users)
	if err != nil {
		return nil, upstream("Lookups: read users", err)
	}
	byEmail, byUsername := userMaps(users)
	out.UsersByEmail = byEmail
	out.UsersByUsername = byUsername

	return out, nil
}

// readTab returns a tab's body rows (header row dropped).
func (s *Service) readTab(ctx context.Context, tab, op string) ([][]string, error) {
	rows, err := s.store.ReadAllRows(ctx, tab)
	if err != nil {
		return nil, upstream(op, err)
	}
	if len(rows) < 2 {
		return nil, nil
	}
	return rows[1:], nil
}

// codeRows maps two-column code/description rows into sorted lookup codes.
func codeRows(body [][]string) []LookupCode {
	out := make([]LookupCode, 0, len(body))
	for _, r := range body {
		code := strings.TrimSpace(cellAt(r, 0))
		if code == "" {
			continue
		}
		desc := strings.TrimSpace(cellAt(r, 1))
		label := desc
		if label == "" {
			label = code
		}
		out = append(out, LookupCode{Code: code, Desc: desc, Label: label})
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Code) < strings.ToLower(out[j].Code)
	})
	return out
}

// userMaps indexes the users tab by email and username with flexible
// header matching: the tab may carry first/last columns or one full-name
// column.
func userMaps(rows [][]string) (map[string]User, map[string]User) {
	byEmail := map[string]User{}
	byUsername := map[string]User{}
	if len(rows) < 2 {
		return byEmail, byUsername
	}
	idx := NewIndex(rows[0])
	usernameCol, hasUsername := idx.Col("Username", "User", "UserID")
	firstCol, hasFirst := idx.Col("First Name", "First")
	lastCol, hasLast := idx.Col("Last Name", "Last")
	fullCol, hasFull := idx.Col("Full Name", "Name", "Employee")
	emailCol, hasEmail := idx.Col("Email", "Mail")

	for _, r := range rows[1:] {
		username, email := "", ""
		if hasUsername {
			username = foldCell(cellAt(r, usernameCol))
		}
		if hasEmail {
			email = foldCell(cellAt(r, emailCol))
		}

		var first, last, full string
		if hasFirst || hasLast {
			if hasFirst {
				first = strings.TrimSpace(cellAt(r, firstCol))
			}
			if hasLast {
				last = strings.TrimSpace(cellAt(r, lastCol))
			}
			full = strings.TrimSpace(strings.Join(nonEmpty(first, last), " "))
		} else if hasFull {
			full = strings.TrimSpace(cellAt(r, fullCol))
			parts := strings.Fields(full)
			if len(parts) > 0 {
				first = parts[0]
				last = strings.Join(parts[1:], " ")
			}
		}

		if username == "" && email == "" {
			continue
		}
		u := User{Username: username, First: first, Last: last, Full: full, Email: email}
		if username != "" {
			byUsername[username] = u
		}
		if email != "" {
			byEmail[email] = u
		}
	}
	return byEmail, byUsername
}

// ParseSheetDate reads a cell that may hold a textual date or a spreadsheet
// serial number (days since 1899-12-30). Returns the zero time when the
// cell parses as neither.
func ParseSheetDate(s string) time.Time {
	t := strings.TrimSpace(s)
	if t == "" {
		return time.Time{}
	}
	slashed := strings.ReplaceAll(t, "-", "/")
	for _, layout := range []string{"2006/01/02", "2006/1/2", "01/02/2006", "1/2/2006"} {
		if d, err := time.Parse(layout, slashed); err == nil {
			return d
		}
	}
	if n := ParseMoney(t); !math.IsNaN(n) {
		epoch := time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
		return epoch.Add(time.Duration(n * 24 * float64(time.Hour)))
	}
	return time.Time{}
}

func sortFold(ss []string) {
	sort.Slice(ss, func(i, j int) bool {
		return strings.ToLower(ss[i]) < strings.ToLower(ss[j])
	})
}

func nonEmpty(ss ...string) []string {
	out := ss[:0:0]
	for _, s := range ss {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
