package anomaly

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/tessfin/paylater/internal/risk"
)

func sampleReport() *Report {
	return &Report{
		Summary: Summary{
			TotalUsers:        2,
			UsersWithIssues:   1,
			UsersWithWarnings: 1,
			Issues:            2,
			Warnings:          1,
		},
		Results: []Result{
			{
				Name:       "alice",
				Issues:     []string{"Non-positive credit limit: 0", "Over-repayment: repaid 50, purchased 0"},
				Warnings:   []string{"Inactive user: no transactions in last 90 days"},
				Scores:     risk.Scores{Champion: 60, Challenger: 50},
				Compliance: "Compliant",
			},
			{
				Name:       "bob",
				Issues:     []string{},
				Warnings:   []string{},
				Scores:     risk.Scores{Champion: 100, Challenger: 100},
				Compliance: "Compliant",
			},
		},
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := sampleReport().WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var decoded Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if decoded.Summary.TotalUsers != 2 {
		t.Errorf("expected total_users 2, got %d", decoded.Summary.TotalUsers)
	}
	if len(decoded.Results) != 2 || decoded.Results[0].Name != "alice" {
		t.Errorf("unexpected results: %+v", decoded.Results)
	}
	// Empty finding lists serialize as [], not null.
	if !strings.Contains(buf.String(), `"issues": []`) {
		t.Error("expected empty issues list in output")
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := sampleReport().WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV output: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "name" || rows[0][4] != "compliance" {
		t.Errorf("unexpected header: %v", rows[0])
	}

	alice := rows[1]
	if alice[0] != "alice" {
		t.Errorf("expected alice row, got %v", alice)
	}
	if !strings.Contains(alice[1], "; ") {
		t.Errorf("expected issues joined with semicolons, got %q", alice[1])
	}
	var scores risk.Scores
	if err := json.Unmarshal([]byte(alice[3]), &scores); err != nil {
		t.Fatalf("scores column not JSON: %v", err)
	}
	if scores.Champion != 60 {
		t.Errorf("expected champion 60 in scores column, got %v", scores)
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	if err := sampleReport().WriteText(&buf, false); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "=== RISK MODEL VALIDATION REPORT ===") {
		t.Error("missing report header")
	}
	if !strings.Contains(out, "User: alice") {
		t.Error("missing flagged user section")
	}
	if strings.Contains(out, "User: bob") {
		t.Error("clean users should be omitted from the detail section")
	}
	if !strings.Contains(out, "  ISSUE: Non-positive credit limit") {
		t.Error("missing issue line")
	}
	if !strings.Contains(out, "  WARNING: Inactive user") {
		t.Error("missing warning line")
	}
}

func TestWriteText_SummaryOnly(t *testing.T) {
	var buf bytes.Buffer
	if err := sampleReport().WriteText(&buf, true); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "=== RISK MODEL VALIDATION SUMMARY ===") {
		t.Error("missing summary header")
	}
	if strings.Contains(out, "User: alice") {
		t.Error("summary-only output should omit per-user detail")
	}
}
