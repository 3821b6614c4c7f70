package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"ats-backend/internal/storage"
	"ats-backend/pkg/errs"
)

type createCandidateRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Phone    string  `json:"phone"`
	Location string  `json:"location"`
	JobID    *string `json:"job_id"`
}

// CreateCandidateHandler registers a new applicant
// @Summary Create a candidate
// @Tags candidates
// @Accept json
// @Produce json
// @Param candidate body createCandidateRequest true "Candidate"
// @Success 201 {object} storage.Candidate
// @Failure 400 {object} map[string]string
// @Router /candidates [post]
func (a *API) CreateCandidateHandler(w http.ResponseWriter, r *http.Request) {
	var req createCandidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.respondError(w, errs.Validationf("invalid request body"))
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
		a.respondError(w, errs.Validationf("name and email are required"))
		return
	}

	c := &storage.Candidate{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:    req.Phone,
		Location: req.Location,
		Status:   storage.CandidateStatusNew,
		JobID:    req.JobID,
	}
	if err := a.db.CreateCandidate(r.Context(), c); err != nil {
		a.respondError(w, err)
		return
	}
	a.respond(w, http.StatusCreated, c)
}

// GetCandidateHandler returns one candidate
// @Summary Get a candidate
// @Tags candidates
// @Produce json
// @Param id path string true "Candidate ID"
// @Success 200 {object} storage.Candidate
// @Failure 404 {object} map[string]string
// @Router /candidates/{id} [get]
func (a *API) GetCandidateHandler(w http.ResponseWriter, r *http.Request) {
	c, err := a.db.GetCandidateByID(r.Context(), r.PathValue("id"))
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respond(w, http.StatusOK, c)
}

// ListCandidatesHandler lists candidates ordered by match score
// @Summary List candidates
// @Tags candidates
// @Produce json
// @Param job_id query string false "Filter by job"
// @Param status query string false "Filter by status"
// @Param search query string false "Match name, email or skills"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {array} storage.Candidate
// @Router /candidates [get]
func (a *API) ListCandidatesHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := storage.CandidateFilter{
		JobID:  q.Get("job_id"),
		Status: q.Get("status"),
		Search: q.Get("search"),
		Page:   queryInt(q.Get("page"), 1),
		Limit:  queryInt(q.Get("limit"), 10),
	}

	candidates, pagination, err := a.db.ListCandidates(r.Context(), filter)
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respondPage(w, http.StatusOK, candidates, pagination)
}

// UpdateCandidateStatusHandler moves a candidate through the pipeline manually
// @Summary Update candidate status
// @Tags candidates
// @Accept json
// @Produce json
// @Param id path string true "Candidate ID"
// @Param status body object true "New status"
// @Success 200 {object} storage.Candidate
// @Failure 400 {object} map[string]string
// @Router /candidates/{id}/status [patch]
func (a *API) UpdateCandidateStatusHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.respondError(w, errs.Validationf("invalid request body"))
		return
	}
	if !storage.ValidCandidateStatus(req.Status) {
		a.respondError(w, errs.Validationf(
			"invalid status %q, must be one of NEW, SHORTLISTED, INTERVIEWED, OFFERED, HIRED, REJECTED", req.Status))
		return
	}

	id := r.PathValue("id")
	if err := a.db.UpdateCandidateStatus(r.Context(), id, storage.CandidateStatus(req.Status)); err != nil {
		a.respondError(w, err)
		return
	}

	c, err := a.db.GetCandidateByID(r.Context(), id)
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respond(w, http.StatusOK, c)
}

// DeleteCandidateHandler removes a candidate
// @Summary Delete a candidate
// @Tags candidates
// @Produce json
// @Param id path string true "Candidate ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /candidates/{id} [delete]
func (a *API) DeleteCandidateHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := a.db.DeleteCandidate(r.Context(), id); err != nil {
		a.respondError(w, err)
		return
	}
	a.respond(w, http.StatusOK, map[string]string{"id": id})
}
