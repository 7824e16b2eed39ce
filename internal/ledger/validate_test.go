package ledger

import (
	"encoding/json"
	"strings"
	"testing"
)

func decodeBody(t *testing.T, raw string) any {
	t.Helper()
	var body any
	if err := json.Unmarshal([]byte(raw), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	return body
}

func TestParseSplitPayloadValid(t *testing.T) {
	body := decodeBody(t, `{
		"parentId": 5,
		"splits": [
			{"amount": "$60.00", "notes": "materials", "jobId": "J-100"},
			{"amount": 40, "glAccount": "6050"}
		]
	}`)

	req, verr := ParseSplitPayload(body)
	if verr != nil {
		t.Fatalf("unexpected errors: %v", verr.Errors)
	}
	if req.ParentID != "5" {
		t.Errorf("ParentID = %q, want %q", req.ParentID, "5")
	}
	if !req.DryRun || req.AssignIDs {
		t.Errorf("flags = dryRun %v assignIds %v, want true false", req.DryRun, req.AssignIDs)
	}
	if len(req.Splits) != 2 {
		t.Fatalf("len(Splits) = %d, want 2", len(req.Splits))
	}
	if req.Splits[0].Amount != 60 {
		t.Errorf("Splits[0].Amount = %v, want 60", req.Splits[0].Amount)
	}
	if !req.Splits[0].JobID.Set || req.Splits[0].JobID.Value != "J-100" {
		t.Errorf("Splits[0].JobID = %+v, want set J-100", req.Splits[0].JobID)
	}
	if req.Splits[1].Notes.Set {
		t.Errorf("Splits[1].Notes should be absent, got %+v", req.Splits[1].Notes)
	}
	if !req.Splits[1].GLAccount.Set || req.Splits[1].GLAccount.Value != "6050" {
		t.Errorf("Splits[1].GLAccount = %+v, want set 6050", req.Splits[1].GLAccount)
	}
}

func TestParseSplitPayloadCollectsAllErrors(t *testing.T) {
	body := decodeBody(t, `{
		"splits": [
			{"amount": "sixty"},
			42,
			{"amount": 10, "notes": {"bad": true}}
		]
	}`)

	_, verr := ParseSplitPayload(body)
	if verr == nil {
		t.Fatal("expected validation errors")
	}
	want := []string{
		"parentId is required (string or number).",
		"splits[0].amount is required and must be a number or money string.",
		"splits[1] must be an object.",
		"splits[2].notes must be string/number if provided.",
	}
	if len(verr.Errors) != len(want) {
		t.Fatalf("got %d errors %v, want %d", len(verr.Errors), verr.Errors, len(want))
	}
	for i, w := range want {
		if verr.Errors[i] != w {
			t.Errorf("errors[%d] = %q, want %q", i, verr.Errors[i], w)
		}
	}
}

func TestParseSplitPayloadShape(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantErrs []string
	}{
		{
			name:     "non object body",
			raw:      `[1, 2]`,
			wantErrs: []string{"Request body must be a JSON object."},
		},
		{
			name:     "splits not an array",
			raw:      `{"parentId": "5", "splits": "nope"}`,
			wantErrs: []string{"splits must be a non-empty array."},
		},
		{
			name:     "splits empty",
			raw:      `{"parentId": "5", "splits": []}`,
			wantErrs: []string{"splits must be a non-empty array."},
		},
		{
			name: "null optional field is allowed",
			raw:  `{"parentId": "5", "splits": [{"amount": 10, "notes": null}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, verr := ParseSplitPayload(decodeBody(t, tt.raw))
			if len(tt.wantErrs) == 0 {
				if verr != nil {
					t.Fatalf("unexpected errors: %v", verr.Errors)
				}
				return
			}
			if verr == nil {
				t.Fatal("expected validation errors")
			}
			if strings.Join(verr.Errors, "|") != strings.Join(tt.wantErrs, "|") {
				t.Errorf("errors = %v, want %v", verr.Errors, tt.wantErrs)
			}
		})
	}
}

func TestParseSplitPayloadFlags(t *testing.T) {
	body := decodeBody(t, `{
		"parentId": "5",
		"dryRun": false,
		"assignIds": true,
		"splits": [{"amount": 10}]
	}`)
	req, verr := ParseSplitPayload(body)
	if verr != nil {
		t.Fatalf("unexpected errors: %v", verr.Errors)
	}
	if req.DryRun {
		t.Error("DryRun = true, want false")
	}
	if !req.AssignIDs {
		t.Error("AssignIDs = false, want true")
	}
}

func TestFlagParams(t *testing.T) {
	tests := []struct {
		param string
		dry   bool
		asg   bool
	}{
		{"0", false, false},
		{"false", false, false},
		{"No", false, false},
		{"1", true, true},
		{"TRUE", true, true},
		{"yes", true, true},
		{"", true, false},
		{"maybe", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.param, func(t *testing.T) {
			if got := DryRunParam(tt.param); got != tt.dry {
				t.Errorf("DryRunParam(%q) = %v, want %v", tt.param, got, tt.dry)
			}
			if got := AssignIDsParam(tt.param); got != tt.asg {
				t.Errorf("AssignIDsParam(%q) = %v, want %v", tt.param, got, tt.asg)
			}
		})
	}
}
