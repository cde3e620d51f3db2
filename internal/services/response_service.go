package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/soaringjerry/TalentFlow/internal/assessment"
	"github.com/soaringjerry/TalentFlow/internal/models"
)

// ResponseService turns a validated answer set into a persisted Response.
type ResponseService struct {
	store       AssessmentStore
	now         func() time.Time
	idGenerator func() string
}

// NewResponseService constructs a service bound to the provided persistence interface.
func NewResponseService(store AssessmentStore) *ResponseService {
	return &ResponseService{
		store:       store,
		now:         func() time.Time { return time.Now().UTC() },
		idGenerator: uuid.NewString,
	}
}

// Capture builds the Response and appends it in a single write. Only the
// answers of live questions are kept; a hidden question's stale answer is
// left out of the record. There is no check for earlier submissions by the
// same candidate, so re-takes produce additional records.
func (s *ResponseService) Capture(ctx context.Context, a *models.Assessment, candidateID string, answers assessment.Answers) (*models.Response, error) {
	if s.store == nil {
		return nil, errors.New("response service store is nil")
	}
	if a == nil {
		return nil, ErrAssessmentNotFound
	}
	candidateID = strings.TrimSpace(candidateID)
	if candidateID == "" {
		candidateID = models.AnonymousCandidate
	}
	resp := &models.Response{
		ID:           s.idGenerator(),
		AssessmentID: a.ID,
		CandidateID:  candidateID,
		Answers:      assessment.LiveAnswers(a, answers),
		SubmittedAt:  s.now(),
	}
	if err := s.store.AppendResponse(ctx, resp); err != nil {
		return nil, NewUnavailableError("submit assessment: "+err.Error(), err)
	}
	return resp, nil
}

// ListByCandidate returns every response recorded for a candidate.
func (s *ResponseService) ListByCandidate(ctx context.Context, candidateID string) ([]*models.Response, error) {
	if strings.TrimSpace(candidateID) == "" {
		return nil, NewInvalidError("candidate id required")
	}
	rs, err := s.store.ListResponses(ctx, candidateID)
	if err != nil {
		return nil, NewUnavailableError("list responses: "+err.Error(), err)
	}
	return rs, nil
}

// ListByAssessment returns every response recorded against an assessment.
func (s *ResponseService) ListByAssessment(ctx context.Context, assessmentID string) ([]*models.Response, error) {
	rs, err := s.store.ListResponsesByAssessment(ctx, assessmentID)
	if err != nil {
		return nil, NewUnavailableError("list responses: "+err.Error(), err)
	}
	return rs, nil
}
