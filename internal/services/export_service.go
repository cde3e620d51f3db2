package services

import (
	"context"
	"sort"
)

type ExportParams struct {
	JobID  string
	Format string
}

type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

type ExportService struct {
	store AssessmentStore
}

func NewExportService(store AssessmentStore) *ExportService {
	return &ExportService{store: store}
}

// ExportCSV renders every response to a job's assessment as long or wide CSV.
func (s *ExportService) ExportCSV(ctx context.Context, params ExportParams) (*ExportResult, error) {
	if params.JobID == "" {
		return nil, NewInvalidError("job id required")
	}
	format := params.Format
	if format == "" {
		format = "long"
	}
	if format != "long" && format != "wide" {
		return nil, NewInvalidError("unsupported format")
	}
	a, err := s.store.GetSchema(ctx, params.JobID)
	if err != nil {
		return nil, NewUnavailableError("load assessment: "+err.Error(), err)
	}
	if a == nil {
		return nil, ErrAssessmentNotFound
	}
	rs, err := s.store.ListResponsesByAssessment(ctx, a.ID)
	if err != nil {
		return nil, NewUnavailableError("list responses: "+err.Error(), err)
	}
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].SubmittedAt.Before(rs[j].SubmittedAt) })

	switch format {
	case "wide":
		b, err := ExportWideCSV(a, rs)
		if err != nil {
			return nil, err
		}
		return &ExportResult{Filename: "wide.csv", ContentType: "text/csv; charset=utf-8", Data: b}, nil
	default:
		b, err := ExportLongCSV(buildLongRows(a, rs))
		if err != nil {
			return nil, err
		}
		return &ExportResult{Filename: "long.csv", ContentType: "text/csv; charset=utf-8", Data: b}, nil
	}
}
