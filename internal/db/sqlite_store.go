package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/soaringjerry/TalentFlow/internal/models"
)

// Fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore persists assessments and responses in SQLite. Sections and
// answers are stored as JSON documents; the schema is always read and
// written whole.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

func logErr(prefix string, err error) {
	if err != nil {
		slog.Warn("sqlite store: "+prefix, "error", err)
	}
}

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func parseTime(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, nil
	}
	return time.Parse(timeLayout, s)
}

func (s *SQLiteStore) GetSchema(ctx context.Context, jobID string) (*models.Assessment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, sections_json, created_at, updated_at FROM assessments WHERE job_id = ?`, jobID)
	a := &models.Assessment{JobID: jobID}
	var sections, created, updated string
	if err := row.Scan(&a.ID, &a.Title, &sections, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get assessment %s: %w", jobID, err)
	}
	if err := json.Unmarshal([]byte(sections), &a.Sections); err != nil {
		return nil, fmt.Errorf("decode sections for %s: %w", jobID, err)
	}
	if a.Sections == nil {
		a.Sections = []*models.Section{}
	}
	var err error
	if a.CreatedAt, err = parseTime(created); err != nil {
		return nil, fmt.Errorf("decode created_at for %s: %w", jobID, err)
	}
	if a.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, fmt.Errorf("decode updated_at for %s: %w", jobID, err)
	}
	return a, nil
}

func (s *SQLiteStore) PutSchema(ctx context.Context, jobID string, a *models.Assessment) error {
	if a == nil {
		return errors.New("nil assessment")
	}
	sections := a.Sections
	if sections == nil {
		sections = []*models.Section{}
	}
	raw, err := json.Marshal(sections)
	if err != nil {
		return fmt.Errorf("encode sections: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO assessments (job_id, id, title, sections_json, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(job_id) DO UPDATE SET
    id = excluded.id,
    title = excluded.title,
    sections_json = excluded.sections_json,
    created_at = excluded.created_at,
    updated_at = excluded.updated_at`,
		jobID, a.ID, a.Title, string(raw), formatTime(a.CreatedAt), formatTime(a.UpdatedAt))
	if err != nil {
		return fmt.Errorf("put assessment %s: %w", jobID, err)
	}
	return nil
}

func (s *SQLiteStore) AppendResponse(ctx context.Context, r *models.Response) error {
	if r == nil {
		return errors.New("nil response")
	}
	raw, err := json.Marshal(r.Answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO assessment_responses (id, assessment_id, candidate_id, answers_json, submitted_at) VALUES (?, ?, ?, ?, ?)`,
		r.ID, r.AssessmentID, r.CandidateID, string(raw), formatTime(r.SubmittedAt))
	if err != nil {
		return fmt.Errorf("append response %s: %w", r.ID, err)
	}
	return nil
}

func (s *SQLiteStore) ListResponses(ctx context.Context, candidateID string) ([]*models.Response, error) {
	return s.listResponses(ctx, "candidate_id", candidateID)
}

func (s *SQLiteStore) ListResponsesByAssessment(ctx context.Context, assessmentID string) ([]*models.Response, error) {
	return s.listResponses(ctx, "assessment_id", assessmentID)
}

// column is one of two fixed names, never caller input.
func (s *SQLiteStore) listResponses(ctx context.Context, column, value string) ([]*models.Response, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, assessment_id, candidate_id, answers_json, submitted_at FROM assessment_responses WHERE `+column+` = ? ORDER BY submitted_at, id`,
		value)
	if err != nil {
		return nil, fmt.Errorf("list responses by %s: %w", column, err)
	}
	defer func() { logErr("close rows", rows.Close()) }()

	out := []*models.Response{}
	for rows.Next() {
		var (
			r         models.Response
			answers   string
			submitted string
		)
		if err := rows.Scan(&r.ID, &r.AssessmentID, &r.CandidateID, &answers, &submitted); err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		if err := json.Unmarshal([]byte(answers), &r.Answers); err != nil {
			return nil, fmt.Errorf("decode answers for %s: %w", r.ID, err)
		}
		if r.SubmittedAt, err = parseTime(submitted); err != nil {
			return nil, fmt.Errorf("decode submitted_at for %s: %w", r.ID, err)
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
