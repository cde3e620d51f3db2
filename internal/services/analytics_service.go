package services

import (
	"context"
	"sort"
	"strings"

	"github.com/soaringjerry/TalentFlow/internal/models"
)

type AnalyticsService struct {
	store AssessmentStore
}

// QuestionSummary aggregates the captured answers to one question.
// Options counts choice picks in option order; Mean is set for numeric
// questions with at least one parsable answer.
type QuestionSummary struct {
	ID       string         `json:"id"`
	Question string         `json:"question"`
	Type     string         `json:"type"`
	Answered int            `json:"answered"`
	Options  []OptionCount  `json:"options,omitempty"`
	Mean     *float64       `json:"mean,omitempty"`
	Other    map[string]int `json:"other,omitempty"`
}

type OptionCount struct {
	Option string `json:"option"`
	Count  int    `json:"count"`
}

type AnalyticsTimeseries struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type AnalyticsSummary struct {
	JobID          string                `json:"jobId"`
	AssessmentID   string                `json:"assessmentId"`
	TotalResponses int                   `json:"totalResponses"`
	Candidates     int                   `json:"candidates"`
	Questions      []QuestionSummary     `json:"questions"`
	Timeseries     []AnalyticsTimeseries `json:"timeseries"`
}

func NewAnalyticsService(store AssessmentStore) *AnalyticsService {
	return &AnalyticsService{store: store}
}

// Summary counts responses per day and answers per question for a job's
// assessment. Choice answers that are not among the current options (the
// schema changed after capture) land in Other.
func (s *AnalyticsService) Summary(ctx context.Context, jobID string) (*AnalyticsSummary, error) {
	if strings.TrimSpace(jobID) == "" {
		return nil, NewInvalidError("job id required")
	}
	a, err := s.store.GetSchema(ctx, jobID)
	if err != nil {
		return nil, NewUnavailableError("load assessment: "+err.Error(), err)
	}
	if a == nil {
		return nil, ErrAssessmentNotFound
	}
	responses, err := s.store.ListResponsesByAssessment(ctx, a.ID)
	if err != nil {
		return nil, NewUnavailableError("list responses: "+err.Error(), err)
	}

	days := map[string]int{}
	candidates := map[string]struct{}{}
	for _, r := range responses {
		days[r.SubmittedAt.UTC().Format("2006-01-02")]++
		candidates[r.CandidateID] = struct{}{}
	}

	questions := a.Questions()
	out := make([]QuestionSummary, 0, len(questions))
	for _, q := range questions {
		qs := QuestionSummary{ID: q.ID, Question: q.Prompt, Type: string(q.Type)}
		picks := map[string]int{}
		var sum float64
		var numeric int
		for _, r := range responses {
			v, ok := r.Answers[q.ID]
			if !ok || v.Blank() {
				continue
			}
			qs.Answered++
			switch {
			case q.Type.IsChoice():
				items := v.List
				if len(items) == 0 {
					items = []string{v.Text}
				}
				for _, it := range items {
					picks[it]++
				}
			case q.Type == models.Numeric:
				if f, ok := v.Float(); ok {
					sum += f
					numeric++
				}
			}
		}
		if q.Type.IsChoice() {
			qs.Options = make([]OptionCount, 0, len(q.Options))
			for _, opt := range q.Options {
				qs.Options = append(qs.Options, OptionCount{Option: opt, Count: picks[opt]})
				delete(picks, opt)
			}
			if len(picks) > 0 {
				qs.Other = picks
			}
		}
		if numeric > 0 {
			mean := sum / float64(numeric)
			qs.Mean = &mean
		}
		out = append(out, qs)
	}

	return &AnalyticsSummary{
		JobID:          jobID,
		AssessmentID:   a.ID,
		TotalResponses: len(responses),
		Candidates:     len(candidates),
		Questions:      out,
		Timeseries:     buildTimeseries(days),
	}, nil
}

func buildTimeseries(counts map[string]int) []AnalyticsTimeseries {
	days := make([]string, 0, len(counts))
	for d := range counts {
		days = append(days, d)
	}
	sort.Strings(days)
	out := make([]AnalyticsTimeseries, 0, len(days))
	for _, d := range days {
		out = append(out, AnalyticsTimeseries{Date: d, Count: counts[d]})
	}
	return out
}
