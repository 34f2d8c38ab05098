package anomaly

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// WriteJSON writes the report as an indented JSON document.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteCSV writes the report in flattened tabular form: one row per
// user, list fields joined with "; ", scores as a JSON object.
func (r *Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"name", "issues", "warnings", "scores", "compliance"}); err != nil {
		return err
	}
	for _, res := range r.Results {
		scores, err := json.Marshal(res.Scores)
		if err != nil {
			return err
		}
		row := []string{
			res.Name,
			strings.Join(res.Issues, "; "),
			strings.Join(res.Warnings, "; "),
			string(scores),
			res.Compliance,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteText writes the report in the console layout: the summary block
// first, then per-user findings for users with any.
func (r *Report) WriteText(w io.Writer, summaryOnly bool) error {
	header := "=== RISK MODEL VALIDATION REPORT ==="
	if summaryOnly {
		header = "=== RISK MODEL VALIDATION SUMMARY ==="
	}
	if _, err := fmt.Fprintf(w, "%s\nTotal users: %d\nUsers with issues: %d\nUsers with warnings: %d\nTotal issues: %d\nTotal warnings: %d\n",
		header,
		r.Summary.TotalUsers,
		r.Summary.UsersWithIssues,
		r.Summary.UsersWithWarnings,
		r.Summary.Issues,
		r.Summary.Warnings,
	); err != nil {
		return err
	}
	if summaryOnly {
		return nil
	}

	for _, res := range r.Results {
		if len(res.Issues) == 0 && len(res.Warnings) == 0 {
			continue
		}
		fmt.Fprintf(w, "\nUser: %s\n", res.Name)
		for _, issue := range res.Issues {
			fmt.Fprintf(w, "  ISSUE: %s\n", issue)
		}
		for _, warning := range res.Warnings {
			fmt.Fprintf(w, "  WARNING: %s\n", warning)
		}
		fmt.Fprintf(w, "  Scores: champion=%g challenger=%g\n", res.Scores.Champion, res.Scores.Challenger)
		fmt.Fprintf(w, "  Compliance: %s\n", res.Compliance)
	}
	return nil
}
