package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/soaringjerry/TalentFlow/internal/assessment"
	"github.com/soaringjerry/TalentFlow/internal/middleware"
	"github.com/soaringjerry/TalentFlow/internal/models"
	"github.com/soaringjerry/TalentFlow/internal/services"
)

const maxBodyBytes = 1 << 20

var validate = validator.New()

type Router struct {
	store     Store
	auth      *middleware.Authenticator
	exports   *services.ExportService
	analytics *services.AnalyticsService
	now       func() time.Time
}

func NewRouter(store Store, auth *middleware.Authenticator) *Router {
	return &Router{
		store:     store,
		auth:      auth,
		exports:   services.NewExportService(store),
		analytics: services.NewAnalyticsService(store),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (rt *Router) protect(h http.HandlerFunc) http.Handler {
	return rt.auth.WithAuth(middleware.RequireAuth(h))
}

func (rt *Router) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", rt.handleHealth)
	mux.HandleFunc("GET /api/assessments/{jobId}", rt.handleGetAssessment)
	mux.Handle("PUT /api/assessments/{jobId}", rt.protect(rt.handlePutAssessment))
	mux.HandleFunc("POST /api/assessments/{jobId}/evaluate", rt.handleEvaluate)
	mux.HandleFunc("POST /api/assessments/{jobId}/submit", rt.handleSubmit)
	mux.Handle("GET /api/assessments/{jobId}/responses/export", rt.protect(rt.handleExport))
	mux.Handle("GET /api/assessments/{jobId}/responses/summary", rt.protect(rt.handleSummary))
	mux.Handle("GET /api/candidates/{candidateId}/responses", rt.protect(rt.handleCandidateResponses))
}

func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "name": "TalentFlow API"})
}

// GET /api/assessments/{jobId}
// A job without a saved assessment gets an unsaved default schema.
func (rt *Router) handleGetAssessment(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("jobId")
	a, err := rt.store.GetSchema(r.Context(), jobID)
	if err != nil {
		writeError(w, services.NewUnavailableError("load assessment", err))
		return
	}
	if a == nil {
		a = assessment.NewAssessment(jobID, rt.now())
	}
	writeJSON(w, http.StatusOK, a)
}

// PUT /api/assessments/{jobId}
// Upserts the whole schema. An existing record keeps its id and createdAt.
func (rt *Router) handlePutAssessment(w http.ResponseWriter, r *http.Request) {
	var in models.Assessment
	if !decodeBody(w, r, &in) {
		return
	}
	b, err := services.OpenBuilder(r.Context(), rt.store, r.PathValue("jobId"))
	if err != nil {
		writeError(w, err)
		return
	}
	if err := b.Replace(&in); err != nil {
		writeError(w, err)
		return
	}
	saved, err := b.Commit(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

type answersRequest struct {
	CandidateID string                     `json:"candidateId" validate:"omitempty,max=256"`
	Responses   map[string]json.RawMessage `json:"responses" validate:"max=2000"`
}

type evaluateResponse struct {
	Visible map[string]bool             `json:"visible"`
	Errors  assessment.ValidationErrors `json:"errors"`
	Valid   bool                        `json:"valid"`
}

// POST /api/assessments/{jobId}/evaluate
// Reports visibility and validation for a set of answers without saving.
func (rt *Router) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	form, req, ok := rt.beginForm(w, r)
	if !ok {
		return
	}
	if err := form.SetRawAnswers(req.Responses); err != nil {
		writeError(w, err)
		return
	}
	errs := form.Errors()
	writeJSON(w, http.StatusOK, evaluateResponse{Visible: form.Live(), Errors: errs, Valid: errs.OK()})
}

// POST /api/assessments/{jobId}/submit
func (rt *Router) handleSubmit(w http.ResponseWriter, r *http.Request) {
	form, req, ok := rt.beginForm(w, r)
	if !ok {
		return
	}
	if err := form.SetRawAnswers(req.Responses); err != nil {
		writeError(w, err)
		return
	}
	resp, errs, err := form.Submit(r.Context(), req.CandidateID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !errs.OK() {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": errs})
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (rt *Router) beginForm(w http.ResponseWriter, r *http.Request) (*services.FormSession, *answersRequest, bool) {
	var req answersRequest
	if !decodeBody(w, r, &req) {
		return nil, nil, false
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, services.NewInvalidError(err.Error()))
		return nil, nil, false
	}
	form, err := services.BeginForm(r.Context(), rt.store, r.PathValue("jobId"))
	if err != nil {
		writeError(w, err)
		return nil, nil, false
	}
	return form, &req, true
}

// GET /api/candidates/{candidateId}/responses
func (rt *Router) handleCandidateResponses(w http.ResponseWriter, r *http.Request) {
	candidateID := r.PathValue("candidateId")
	rs, err := services.NewResponseService(rt.store).ListByCandidate(r.Context(), candidateID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"candidateId": candidateID, "responses": rs})
}

// GET /api/assessments/{jobId}/responses/export?format=long|wide
func (rt *Router) handleExport(w http.ResponseWriter, r *http.Request) {
	res, err := rt.exports.ExportCSV(r.Context(), services.ExportParams{
		JobID:  r.PathValue("jobId"),
		Format: r.URL.Query().Get("format"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+res.Filename)
	_, _ = w.Write(res.Data)
}

// GET /api/assessments/{jobId}/responses/summary
func (rt *Router) handleSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := rt.analytics.Summary(r.Context(), r.PathValue("jobId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, services.NewInvalidError("invalid JSON: "+err.Error()))
		return false
	}
	return true
}
