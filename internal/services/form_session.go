package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/soaringjerry/TalentFlow/internal/assessment"
	"github.com/soaringjerry/TalentFlow/internal/metrics"
	"github.com/soaringjerry/TalentFlow/internal/models"
)

type FormState int

const (
	StateInProgress FormState = iota + 1
	StateSubmitted
)

func (s FormState) String() string {
	switch s {
	case StateInProgress:
		return "in_progress"
	case StateSubmitted:
		return "submitted"
	default:
		return "unknown"
	}
}

// FormSession is one candidate taking a committed assessment. It owns the
// in-progress answer map; visibility is recomputed after every change.
type FormSession struct {
	schema    *models.Assessment
	responses *ResponseService
	answers   assessment.Answers
	live      map[string]bool
	state     FormState
	submitted *models.Response
}

// BeginForm loads the committed schema for jobID.
func BeginForm(ctx context.Context, store AssessmentStore, jobID string) (*FormSession, error) {
	if strings.TrimSpace(jobID) == "" {
		return nil, NewInvalidError("job id required")
	}
	a, err := store.GetSchema(ctx, jobID)
	if err != nil {
		return nil, NewUnavailableError("load assessment: "+err.Error(), err)
	}
	if a == nil {
		return nil, ErrAssessmentNotFound
	}
	return NewFormSession(a, NewResponseService(store)), nil
}

func NewFormSession(a *models.Assessment, responses *ResponseService) *FormSession {
	f := &FormSession{
		schema:    a.Clone(),
		responses: responses,
		answers:   assessment.Answers{},
		state:     StateInProgress,
	}
	f.refresh()
	return f
}

func (f *FormSession) refresh() {
	f.live = assessment.Live(f.schema, f.answers)
}

func (f *FormSession) State() FormState            { return f.state }
func (f *FormSession) Schema() *models.Assessment  { return f.schema.Clone() }
func (f *FormSession) Answers() assessment.Answers { return f.answers.Clone() }

// Visible reports whether a question is live given the current answers.
func (f *FormSession) Visible(questionID string) bool { return f.live[questionID] }

// Live returns the visibility of every question.
func (f *FormSession) Live() map[string]bool {
	out := make(map[string]bool, len(f.live))
	for k, v := range f.live {
		out[k] = v
	}
	return out
}

// SetAnswer records an answer for a question of the schema. Hiding other
// questions as a result does not clear their answers.
func (f *FormSession) SetAnswer(questionID string, v models.Value) error {
	if f.state == StateSubmitted {
		return ErrAlreadySubmitted
	}
	if f.schema.FindQuestion(questionID) == nil {
		return NewNotFoundError("question not found: " + questionID)
	}
	f.answers[questionID] = v.Clone()
	f.refresh()
	return nil
}

// SetRawAnswer decodes a JSON answer into the shape the question's type
// expects and records it.
func (f *FormSession) SetRawAnswer(questionID string, raw json.RawMessage) error {
	q := f.schema.FindQuestion(questionID)
	if q == nil {
		return NewNotFoundError("question not found: " + questionID)
	}
	v, err := models.DecodeAnswer(q.Type, raw)
	if err != nil {
		return NewInvalidError(questionID + ": " + err.Error())
	}
	if !v.Present() {
		return f.ClearAnswer(questionID)
	}
	return f.SetAnswer(questionID, v)
}

// SetRawAnswers records a batch of raw answers; ids that are not in the
// schema are ignored.
func (f *FormSession) SetRawAnswers(raw map[string]json.RawMessage) error {
	for id, r := range raw {
		if f.schema.FindQuestion(id) == nil {
			continue
		}
		if err := f.SetRawAnswer(id, r); err != nil {
			return err
		}
	}
	return nil
}

func (f *FormSession) ClearAnswer(questionID string) error {
	if f.state == StateSubmitted {
		return ErrAlreadySubmitted
	}
	delete(f.answers, questionID)
	f.refresh()
	return nil
}

// Errors validates the live questions against the current answers.
func (f *FormSession) Errors() assessment.ValidationErrors {
	return assessment.ValidateAll(f.schema, f.answers)
}

// Submit validates and, when nothing fails, captures the response. Failed
// validation is returned as a map with a nil error and leaves the session in
// progress. A persistence failure keeps the answers so the caller can retry.
func (f *FormSession) Submit(ctx context.Context, candidateID string) (*models.Response, assessment.ValidationErrors, error) {
	if f.state == StateSubmitted {
		return nil, nil, ErrAlreadySubmitted
	}
	f.refresh()
	if errs := f.Errors(); !errs.OK() {
		metrics.Submissions.WithLabelValues(metrics.ResultInvalid).Inc()
		return nil, errs, nil
	}
	resp, err := f.responses.Capture(ctx, f.schema, candidateID, f.answers)
	if err != nil {
		metrics.Submissions.WithLabelValues(metrics.ResultError).Inc()
		slog.Warn("assessment submit failed", "assessment_id", f.schema.ID, "error", err)
		return nil, nil, err
	}
	metrics.Submissions.WithLabelValues(metrics.ResultOK).Inc()
	f.state = StateSubmitted
	f.submitted = resp
	return resp, nil, nil
}

// Response returns the captured response once the form is submitted.
func (f *FormSession) Response() *models.Response { return f.submitted }
