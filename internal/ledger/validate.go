package ledger

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// Field is an optional request field. Set distinguishes "supplied" (even as
// null, which lands as an empty string) from "absent"; only supplied fields
// overlay the parent's value during synthesis.
type Field struct {
	Set   bool
	Value string
}

// SplitLine is one validated line of a split request.
type SplitLine struct {
	Amount    float64
	Notes     Field
	JobID     Field
	CostCode  Field
	Division  Field
	GLAccount Field
}

// SplitRequest is a fully validated split payload with its mode flags
// resolved. DryRun defaults to true and AssignIDs to false unless the body
// said otherwise; query parameters may still override both.
type SplitRequest struct {
	ParentID  string
	Splits    []SplitLine
	DryRun    bool
	AssignIDs bool
}

var optionalLineFields = []string{"notes", "jobId", "costCode", "division", "glAccount"}

// ParseSplitPayload validates a decoded JSON body and builds a
// SplitRequest. Every violation is collected so the caller can report all
// of them in one response.
func ParseSplitPayload(body any) (*SplitRequest, *ValidationError) {
	obj, ok := body.(map[string]any)
	if !ok || obj == nil {
		return nil, &ValidationError{Errors: []string{"Request body must be a JSON object."}}
	}

	var errs []string

	parentID, ok := parentIDString(obj["parentId"])
	if !ok {
		errs = append(errs, "parentId is required (string or number).")
	}

	req := &SplitRequest{
		ParentID:  parentID,
		DryRun:    true,
		AssignIDs: false,
	}
	if v, present := obj["dryRun"]; present {
		req.DryRun = truthy(v)
	}
	if v, present := obj["assignIds"]; present {
		req.AssignIDs = truthy(v)
	}

	rawSplits, ok := obj["splits"].([]any)
	if !ok || len(rawSplits) == 0 {
		errs = append(errs, "splits must be a non-empty array.")
	} else {
		for i, raw := range rawSplits {
			line, ok := raw.(map[string]any)
			if !ok || line == nil {
				errs = append(errs, fmt.Sprintf("splits[%d] must be an object.", i))
				continue
			}

			s := SplitLine{Amount: ParseMoney(scalarOrNil(line["amount"]))}
			if math.IsNaN(s.Amount) {
				errs = append(errs, fmt.Sprintf("splits[%d].amount is required and must be a number or money string.", i))
			}

			for _, k := range optionalLineFields {
				v, present := line[k]
				if !present {
					continue
				}
				f, ok := optionalField(v)
				if !ok {
					errs = append(errs, fmt.Sprintf("splits[%d].%s must be string/number if provided.", i, k))
					continue
				}
				switch k {
				case "notes":
					s.Notes = f
				case "jobId":
					s.JobID = f
				case "costCode":
					s.CostCode = f
				case "division":
					s.Division = f
				case "glAccount":
					s.GLAccount = f
				}
			}
			req.Splits = append(req.Splits, s)
		}
	}

	if len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}
	return req, nil
}

// parentIDString accepts a non-empty string or a non-zero number.
func parentIDString(v any) (string, bool) {
	switch id := v.(type) {
	case string:
		return id, id != ""
	case float64:
		return formatCell(id), id != 0
	default:
		return "", false
	}
}

// optionalField accepts string or number; null counts as supplied-empty.
func optionalField(v any) (Field, bool) {
	switch x := v.(type) {
	case nil:
		return Field{Set: true}, true
	case string:
		return Field{Set: true, Value: x}, true
	case float64:
		return Field{Set: true, Value: formatCell(x)}, true
	default:
		return Field{}, false
	}
}

// scalarOrNil keeps strings and numbers for the money parser and collapses
// everything else to nil so it parses to NaN.
func scalarOrNil(v any) any {
	switch v.(type) {
	case string, float64:
		return v
	default:
		return nil
	}
}

func truthy(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0
	default:
		return false
	}
}

var (
	falseParam = regexp.MustCompile(`^(?i)(0|false|no)$`)
	trueParam  = regexp.MustCompile(`^(?i)(1|true|yes)$`)
)

// DryRunParam interprets a ?dryRun= query value; anything but an explicit
// negative keeps dry-run on.
func DryRunParam(s string) bool {
	return !falseParam.MatchString(strings.TrimSpace(s))
}

// AssignIDsParam interprets an ?assignIds= query value; only an explicit
// affirmative turns assignment on.
func AssignIDsParam(s string) bool {
	return trueParam.MatchString(strings.TrimSpace(s))
}
