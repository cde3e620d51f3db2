package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soaringjerry/TalentFlow/internal/models"
	"github.com/soaringjerry/TalentFlow/internal/services"
)

func f64(v float64) *float64 { return &v }

func contractSchema(now time.Time) *models.Assessment {
	return &models.Assessment{
		ID:        "A1",
		JobID:     "job-1",
		Title:     "Backend",
		CreatedAt: now,
		UpdatedAt: now,
		Sections: []*models.Section{{ID: "S1", Title: "Basics", Questions: []*models.Question{
			{ID: "Q1", Type: models.SingleChoice, Prompt: "Lead?", Required: true, Options: []string{"Yes", "No"}},
			{ID: "Q2", Type: models.Numeric, Prompt: "Size", Min: f64(1), Max: f64(10),
				Conditional: &models.ConditionalRule{DependsOn: "Q1", Condition: models.Equals, Value: "Yes"}},
			{ID: "Q3", Type: models.MultiChoice, Prompt: "Stack", Options: []string{"Go", "SQL"}},
		}}},
	}
}

// runStoreContract exercises every AssessmentStore method against a store.
func runStoreContract(t *testing.T, store services.AssessmentStore) {
	t.Helper()
	ctx := context.Background()
	now := time.Date(2025, 5, 4, 10, 30, 0, 123456789, time.UTC)

	got, err := store.GetSchema(ctx, "job-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	in := contractSchema(now)
	require.NoError(t, store.PutSchema(ctx, "job-1", in))
	got, err = store.GetSchema(ctx, "job-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, in.ID, got.ID)
	assert.Equal(t, in.Title, got.Title)
	assert.True(t, in.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, in.Sections, got.Sections)

	in.Title = "Backend v2"
	in.Sections = []*models.Section{}
	require.NoError(t, store.PutSchema(ctx, "job-1", in))
	got, err = store.GetSchema(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, "Backend v2", got.Title)
	assert.Empty(t, got.Sections)

	responses := []*models.Response{
		{ID: "r2", AssessmentID: "A1", CandidateID: "c1", SubmittedAt: now.Add(time.Minute),
			Answers: map[string]models.Value{"Q1": models.TextValue("No")}},
		{ID: "r1", AssessmentID: "A1", CandidateID: "c1", SubmittedAt: now,
			Answers: map[string]models.Value{"Q1": models.TextValue("Yes"), "Q2": models.NumberValue("4"), "Q3": models.ListValue("Go")}},
		{ID: "r3", AssessmentID: "A2", CandidateID: "c1/x", SubmittedAt: now},
	}
	for _, r := range responses {
		require.NoError(t, store.AppendResponse(ctx, r))
	}
	assert.Error(t, store.AppendResponse(ctx, responses[0]), "duplicate id")

	byCand, err := store.ListResponses(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, byCand, 2)
	assert.Equal(t, "r1", byCand[0].ID)
	assert.Equal(t, "r2", byCand[1].ID)
	assert.Equal(t, models.KindList, byCand[0].Answers["Q3"].Kind)
	assert.Equal(t, "4", byCand[0].Answers["Q2"].String())
	assert.True(t, now.Equal(byCand[0].SubmittedAt))

	byAsmt, err := store.ListResponsesByAssessment(ctx, "A1")
	require.NoError(t, err)
	assert.Len(t, byAsmt, 2)

	none, err := store.ListResponses(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}
