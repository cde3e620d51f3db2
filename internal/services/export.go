package services

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"
	"time"

	"github.com/soaringjerry/TalentFlow/internal/models"
)

type LongRow struct {
	ResponseID  string
	CandidateID string
	QuestionID  string
	Question    string
	Value       string
	SubmittedAt string // RFC3339
}

// ExportLongCSV renders one row per captured answer.
func ExportLongCSV(rows []LongRow) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	_ = w.Write([]string{"response_id", "candidate_id", "question_id", "question", "value", "submitted_at"})
	for _, r := range rows {
		rec := []string{r.ResponseID, r.CandidateID, r.QuestionID, r.Question, r.Value, r.SubmittedAt}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// ExportWideCSV renders one row per response and one column per question,
// in schema order. Answers to questions no longer in the schema are left out.
func ExportWideCSV(a *models.Assessment, rs []*models.Response) ([]byte, error) {
	questions := a.Questions()
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"response_id", "candidate_id", "submitted_at"}
	for _, q := range questions {
		header = append(header, q.ID)
	}
	_ = w.Write(header)
	for _, r := range rs {
		row := make([]string, 0, len(header))
		row = append(row, r.ID, r.CandidateID, r.SubmittedAt.UTC().Format(time.RFC3339))
		for _, q := range questions {
			row = append(row, cellValue(r.Answers[q.ID]))
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func buildLongRows(a *models.Assessment, rs []*models.Response) []LongRow {
	rows := make([]LongRow, 0, len(rs))
	questions := a.Questions()
	for _, r := range rs {
		for _, q := range questions {
			v, ok := r.Answers[q.ID]
			if !ok {
				continue
			}
			rows = append(rows, LongRow{
				ResponseID:  r.ID,
				CandidateID: r.CandidateID,
				QuestionID:  q.ID,
				Question:    q.Prompt,
				Value:       cellValue(v),
				SubmittedAt: r.SubmittedAt.UTC().Format(time.RFC3339),
			})
		}
	}
	return rows
}

// Multi-choice answers use a pipe separator; csv.Writer quotes as needed.
func cellValue(v models.Value) string {
	switch v.Kind {
	case models.KindList:
		return strings.Join(v.List, " | ")
	case models.KindNumber:
		if f, ok := v.Float(); ok {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
	}
	return v.String()
}
