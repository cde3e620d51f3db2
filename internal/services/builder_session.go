package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/soaringjerry/TalentFlow/internal/assessment"
	"github.com/soaringjerry/TalentFlow/internal/metrics"
	"github.com/soaringjerry/TalentFlow/internal/models"
)

type BuilderState int

const (
	StateDraft BuilderState = iota + 1
	StateCommitted
)

func (s BuilderState) String() string {
	switch s {
	case StateDraft:
		return "draft"
	case StateCommitted:
		return "committed"
	default:
		return "unknown"
	}
}

// BuilderSession owns the single mutable reference to a job's draft
// schema. Every edit threads the draft through a pure reducer. A session is
// meant for one author and is not safe for concurrent use.
type BuilderSession struct {
	store     AssessmentStore
	now       func() time.Time
	jobID     string
	committed *models.Assessment
	draft     *models.Assessment
	state     BuilderState
}

// OpenBuilder loads the committed schema for jobID, or starts a default
// draft when the job has none yet.
func OpenBuilder(ctx context.Context, store AssessmentStore, jobID string) (*BuilderSession, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return nil, NewInvalidError("job id required")
	}
	s := &BuilderSession{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		jobID: jobID,
	}
	existing, err := store.GetSchema(ctx, jobID)
	if err != nil {
		return nil, NewUnavailableError("load assessment: "+err.Error(), err)
	}
	if existing == nil {
		s.draft = assessment.NewAssessment(jobID, s.now())
		s.state = StateDraft
		return s, nil
	}
	s.committed = existing.Clone()
	s.draft = existing.Clone()
	s.state = StateCommitted
	return s, nil
}

func (s *BuilderSession) JobID() string       { return s.jobID }
func (s *BuilderSession) State() BuilderState { return s.state }

// Draft returns a copy of the current draft.
func (s *BuilderSession) Draft() *models.Assessment { return s.draft.Clone() }

// Committed returns a copy of the last saved schema, or nil if the job has
// never been saved.
func (s *BuilderSession) Committed() *models.Assessment { return s.committed.Clone() }

// Dirty reports whether the draft has edits that are not yet committed.
func (s *BuilderSession) Dirty() bool { return s.state == StateDraft }

func (s *BuilderSession) setDraft(next *models.Assessment) {
	s.draft = next
	s.state = StateDraft
}

func (s *BuilderSession) apply(next *models.Assessment, err error) error {
	if err != nil {
		return &ServiceError{Code: ErrorInvalid, Message: err.Error(), Err: err}
	}
	s.setDraft(next)
	return nil
}

func (s *BuilderSession) SetTitle(title string) {
	next := s.draft.Clone()
	next.Title = title
	s.setDraft(next)
}

func (s *BuilderSession) AddSection() *models.Section {
	sec := assessment.NewSection()
	s.setDraft(assessment.AddSection(s.draft, sec))
	return sec.Clone()
}

func (s *BuilderSession) UpdateSection(sectionID string, patch assessment.SectionPatch) error {
	return s.apply(assessment.UpdateSection(s.draft, sectionID, patch))
}

func (s *BuilderSession) RemoveSection(sectionID string) error {
	return s.apply(assessment.RemoveSection(s.draft, sectionID))
}

func (s *BuilderSession) AddQuestion(sectionID string) (*models.Question, error) {
	q := assessment.NewQuestion()
	if err := s.apply(assessment.AddQuestion(s.draft, sectionID, q)); err != nil {
		return nil, err
	}
	return q.Clone(), nil
}

func (s *BuilderSession) UpdateQuestion(sectionID, questionID string, patch assessment.QuestionPatch) error {
	return s.apply(assessment.UpdateQuestion(s.draft, sectionID, questionID, patch))
}

func (s *BuilderSession) RemoveQuestion(sectionID, questionID string) error {
	return s.apply(assessment.RemoveQuestion(s.draft, sectionID, questionID))
}

func (s *BuilderSession) SetRule(sectionID, questionID string, rule models.ConditionalRule) error {
	return s.apply(assessment.SetRule(s.draft, sectionID, questionID, rule))
}

func (s *BuilderSession) ClearRule(sectionID, questionID string) error {
	return s.apply(assessment.ClearRule(s.draft, sectionID, questionID))
}

func (s *BuilderSession) MoveSection(from, to int) {
	s.setDraft(assessment.MoveSection(s.draft, from, to))
}

func (s *BuilderSession) MoveQuestion(sectionID string, from, to int) {
	s.setDraft(assessment.MoveQuestion(s.draft, sectionID, from, to))
}

func (s *BuilderSession) MoveSectionByID(activeID, overID string) {
	s.setDraft(assessment.MoveSectionByID(s.draft, activeID, overID))
}

func (s *BuilderSession) MoveQuestionByID(sectionID, activeID, overID string) {
	s.setDraft(assessment.MoveQuestionByID(s.draft, sectionID, activeID, overID))
}

// Replace swaps in a whole authored schema (title and sections) while the
// draft keeps its own identity, job and creation time.
func (s *BuilderSession) Replace(in *models.Assessment) error {
	if in == nil {
		return NewInvalidError("assessment required")
	}
	next := s.draft.Clone()
	if strings.TrimSpace(in.Title) != "" {
		next.Title = in.Title
	}
	next.Sections = in.Clone().Sections
	if next.Sections == nil {
		next.Sections = []*models.Section{}
	}
	s.setDraft(next)
	return nil
}

// Discard drops uncommitted edits. Nothing is written.
func (s *BuilderSession) Discard() {
	if s.committed == nil {
		s.draft = assessment.NewAssessment(s.jobID, s.now())
		s.state = StateDraft
		return
	}
	s.draft = s.committed.Clone()
	s.state = StateCommitted
}

// Commit checks the draft and upserts it by job id. On failure the draft is
// kept as it was and the session stays in the draft state; no retry is made.
func (s *BuilderSession) Commit(ctx context.Context) (*models.Assessment, error) {
	candidate := s.draft.Clone()
	candidate.JobID = s.jobID
	now := s.now()
	if candidate.CreatedAt.IsZero() {
		candidate.CreatedAt = now
	}
	candidate.UpdatedAt = now

	if err := assessment.Check(candidate); err != nil {
		metrics.SchemaSaves.WithLabelValues(metrics.ResultInvalid).Inc()
		return nil, &ServiceError{Code: ErrorInvalid, Message: err.Error(), Err: err}
	}
	if err := s.store.PutSchema(ctx, s.jobID, candidate); err != nil {
		metrics.SchemaSaves.WithLabelValues(metrics.ResultError).Inc()
		slog.Warn("assessment save failed", "job_id", s.jobID, "error", err)
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, NewUnavailableError("save assessment: "+err.Error(), err)
	}
	metrics.SchemaSaves.WithLabelValues(metrics.ResultOK).Inc()
	s.committed = candidate
	s.draft = candidate.Clone()
	s.state = StateCommitted
	return candidate.Clone(), nil
}
