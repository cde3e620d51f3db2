package services

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/soaringjerry/TalentFlow/internal/models"
)

func seedExportStore() *stubAssessmentStore {
	store := newStubAssessmentStore()
	store.schemas["J1"] = twoQuestionSchema()
	store.responses = []*models.Response{
		{ID: "r2", AssessmentID: "A1", CandidateID: "c2", SubmittedAt: fixedNow().Add(time.Hour),
			Answers: map[string]models.Value{"Q1": models.TextValue("No")}},
		{ID: "r1", AssessmentID: "A1", CandidateID: "c1", SubmittedAt: fixedNow(),
			Answers: map[string]models.Value{"Q1": models.TextValue("Yes"), "Q2": models.TextValue("Led, \"shipped\"")}},
		{ID: "rx", AssessmentID: "other", CandidateID: "c3", SubmittedAt: fixedNow()},
	}
	return store
}

func parseCSV(t *testing.T, b []byte) [][]string {
	t.Helper()
	recs, err := csv.NewReader(strings.NewReader(string(b))).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	return recs
}

func TestExportLongCSV(t *testing.T) {
	svc := NewExportService(seedExportStore())
	res, err := svc.ExportCSV(context.Background(), ExportParams{JobID: "J1"})
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	recs := parseCSV(t, res.Data)
	if len(recs) != 4 {
		t.Fatalf("expected header + 3 rows, got %d", len(recs))
	}
	if recs[0][0] != "response_id" || recs[1][0] != "r1" || recs[3][0] != "r2" {
		t.Fatalf("rows not ordered by submission: %v", recs)
	}
	if recs[2][4] != "Led, \"shipped\"" {
		t.Fatalf("value not round-tripped: %q", recs[2][4])
	}
}

func TestExportWideCSV(t *testing.T) {
	svc := NewExportService(seedExportStore())
	res, err := svc.ExportCSV(context.Background(), ExportParams{JobID: "J1", Format: "wide"})
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	recs := parseCSV(t, res.Data)
	want := []string{"response_id", "candidate_id", "submitted_at", "Q1", "Q2"}
	if strings.Join(recs[0], ",") != strings.Join(want, ",") {
		t.Fatalf("header = %v", recs[0])
	}
	if len(recs) != 3 || recs[2][3] != "No" || recs[2][4] != "" {
		t.Fatalf("unexpected rows: %v", recs)
	}
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	svc := NewExportService(seedExportStore())
	if _, err := svc.ExportCSV(context.Background(), ExportParams{JobID: "J1", Format: "xlsx"}); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
	if _, err := svc.ExportCSV(context.Background(), ExportParams{JobID: "missing"}); err != ErrAssessmentNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCellValueJoinsLists(t *testing.T) {
	if got := cellValue(models.ListValue("Go", "SQL")); got != "Go | SQL" {
		t.Fatalf("cellValue = %q", got)
	}
	if got := cellValue(models.NumberValue("7.50")); got != "7.5" {
		t.Fatalf("cellValue number = %q", got)
	}
}
