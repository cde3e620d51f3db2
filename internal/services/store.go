package services

import (
	"context"

	"github.com/soaringjerry/TalentFlow/internal/models"
)

// AssessmentStore is the persistence collaborator. Every call may fail and
// none is assumed idempotent on retry.
type AssessmentStore interface {
	// GetSchema returns nil, nil when the job has no assessment.
	GetSchema(ctx context.Context, jobID string) (*models.Assessment, error)
	// PutSchema upserts the whole schema by job id.
	PutSchema(ctx context.Context, jobID string, a *models.Assessment) error
	AppendResponse(ctx context.Context, r *models.Response) error
	ListResponses(ctx context.Context, candidateID string) ([]*models.Response, error)
	ListResponsesByAssessment(ctx context.Context, assessmentID string) ([]*models.Response, error)
}
