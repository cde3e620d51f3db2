package api

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/soaringjerry/TalentFlow/internal/models"
)

// MemoryStore keeps everything in process memory. It backs tests and the
// "memory" storage driver.
type MemoryStore struct {
	mu        sync.RWMutex
	schemas   map[string]*models.Assessment
	responses []*models.Response
	ids       map[string]struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		schemas:   map[string]*models.Assessment{},
		responses: []*models.Response{},
		ids:       map[string]struct{}{},
	}
}

func (s *MemoryStore) GetSchema(_ context.Context, jobID string) (*models.Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.schemas[jobID].Clone(), nil
}

func (s *MemoryStore) PutSchema(_ context.Context, jobID string, a *models.Assessment) error {
	if a == nil {
		return fmt.Errorf("nil assessment")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schemas[jobID] = a.Clone()
	return nil
}

func (s *MemoryStore) AppendResponse(_ context.Context, r *models.Response) error {
	if r == nil {
		return fmt.Errorf("nil response")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.ids[r.ID]; dup {
		return fmt.Errorf("response %s already exists", r.ID)
	}
	s.ids[r.ID] = struct{}{}
	s.responses = append(s.responses, cloneResponse(r))
	return nil
}

func (s *MemoryStore) ListResponses(_ context.Context, candidateID string) ([]*models.Response, error) {
	return s.filter(func(r *models.Response) bool { return r.CandidateID == candidateID }), nil
}

func (s *MemoryStore) ListResponsesByAssessment(_ context.Context, assessmentID string) ([]*models.Response, error) {
	return s.filter(func(r *models.Response) bool { return r.AssessmentID == assessmentID }), nil
}

func (s *MemoryStore) filter(keep func(*models.Response) bool) []*models.Response {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*models.Response{}
	for _, r := range s.responses {
		if keep(r) {
			out = append(out, cloneResponse(r))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SubmittedAt.Before(out[j].SubmittedAt) })
	return out
}

func cloneResponse(r *models.Response) *models.Response {
	cp := *r
	cp.Answers = make(map[string]models.Value, len(r.Answers))
	for k, v := range r.Answers {
		cp.Answers[k] = v.Clone()
	}
	return &cp
}
