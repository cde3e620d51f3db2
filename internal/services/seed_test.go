package services

import (
	"context"
	"testing"

	"github.com/soaringjerry/TalentFlow/internal/assessment"
	"github.com/soaringjerry/TalentFlow/internal/models"
)

func TestSeedSampleAssessment(t *testing.T) {
	ctx := context.Background()
	store := newStubAssessmentStore()
	a, ids, err := SeedSampleAssessment(ctx, store, "job-eng", "Senior Engineer Screening")
	if err != nil {
		t.Fatalf("SeedSampleAssessment: %v", err)
	}
	if a.Title != "Senior Engineer Screening" || len(a.Sections) != 2 || len(a.Questions()) != 12 {
		t.Fatalf("unexpected seeded schema: %s with %d sections", a.Title, len(a.Sections))
	}
	if store.schemas["job-eng"] == nil {
		t.Fatalf("seed not committed")
	}
	if err := assessment.Check(a); err != nil {
		t.Fatalf("seeded schema fails check: %v", err)
	}

	senior := a.FindQuestion(ids["senior-exp"])
	if senior.Conditional == nil || senior.Conditional.DependsOn != ids["exp-years"] || senior.Conditional.Value != "6+ years" {
		t.Fatalf("senior-exp rule = %+v", senior.Conditional)
	}
	rating := a.FindQuestion(ids["self-rating"])
	if rating.Type != models.Numeric || *rating.Min != 1 || *rating.Max != 10 {
		t.Fatalf("self-rating = %+v", rating)
	}
	if a.FindQuestion(ids["resume-upload"]).Required {
		t.Fatalf("resume upload should be optional")
	}

	live := assessment.Live(a, assessment.Answers{ids["exp-years"]: models.TextValue("6+ years")})
	if !live[ids["senior-exp"]] || live[ids["team-size"]] {
		t.Fatalf("unexpected visibility: %v", live)
	}
}
