package services

import (
	"context"
	"errors"
	"sync"

	"github.com/soaringjerry/TalentFlow/internal/models"
)

var errStoreDown = errors.New("store unavailable")

type stubAssessmentStore struct {
	mu        sync.Mutex
	schemas   map[string]*models.Assessment
	responses []*models.Response

	getErr    error
	putErr    error
	appendErr error
	puts      int
	appends   int
}

func newStubAssessmentStore() *stubAssessmentStore {
	return &stubAssessmentStore{schemas: map[string]*models.Assessment{}}
}

func (s *stubAssessmentStore) GetSchema(_ context.Context, jobID string) (*models.Assessment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.schemas[jobID].Clone(), nil
}

func (s *stubAssessmentStore) PutSchema(_ context.Context, jobID string, a *models.Assessment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts++
	if s.putErr != nil {
		return s.putErr
	}
	s.schemas[jobID] = a.Clone()
	return nil
}

func (s *stubAssessmentStore) AppendResponse(_ context.Context, r *models.Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appends++
	if s.appendErr != nil {
		return s.appendErr
	}
	cp := *r
	s.responses = append(s.responses, &cp)
	return nil
}

func (s *stubAssessmentStore) ListResponses(_ context.Context, candidateID string) ([]*models.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*models.Response{}
	for _, r := range s.responses {
		if r.CandidateID == candidateID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubAssessmentStore) ListResponsesByAssessment(_ context.Context, assessmentID string) ([]*models.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*models.Response{}
	for _, r := range s.responses {
		if r.AssessmentID == assessmentID {
			out = append(out, r)
		}
	}
	return out, nil
}

// twoQuestionSchema has Q2 required and shown only when Q1 is "Yes".
func twoQuestionSchema() *models.Assessment {
	return &models.Assessment{
		ID:    "A1",
		JobID: "J1",
		Title: "Screening",
		Sections: []*models.Section{{ID: "S1", Title: "Basics", Questions: []*models.Question{
			{ID: "Q1", Type: models.SingleChoice, Required: true, Prompt: "Have you led a team?", Options: []string{"Yes", "No"}},
			{ID: "Q2", Type: models.LongText, Required: true, Prompt: "Describe it",
				Conditional: &models.ConditionalRule{DependsOn: "Q1", Condition: models.Equals, Value: "Yes"}},
		}}},
	}
}
