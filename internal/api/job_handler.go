package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"ats-backend/internal/storage"
	"ats-backend/pkg/errs"
)

type createJobRequest struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Description string `json:"description"`
}

// CreateJobHandler registers a job posting
// @Summary Create a job
// @Tags jobs
// @Accept json
// @Produce json
// @Param job body createJobRequest true "Job"
// @Success 201 {object} storage.Job
// @Failure 400 {object} map[string]string
// @Router /jobs [post]
func (a *API) CreateJobHandler(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.respondError(w, errs.Validationf("invalid request body"))
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		a.respondError(w, errs.Validationf("title is required"))
		return
	}

	j := &storage.Job{
		Title:       strings.TrimSpace(req.Title),
		Company:     req.Company,
		Description: req.Description,
	}
	if err := a.db.CreateJob(r.Context(), j); err != nil {
		a.respondError(w, err)
		return
	}
	a.respond(w, http.StatusCreated, j)
}

// GetJobHandler returns one job posting
// @Summary Get a job
// @Tags jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} storage.Job
// @Failure 404 {object} map[string]string
// @Router /jobs/{id} [get]
func (a *API) GetJobHandler(w http.ResponseWriter, r *http.Request) {
	j, err := a.db.GetJobByID(r.Context(), r.PathValue("id"))
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respond(w, http.StatusOK, j)
}

// ListJobsHandler lists job postings
// @Summary List jobs
// @Tags jobs
// @Produce json
// @Success 200 {array} storage.Job
// @Router /jobs [get]
func (a *API) ListJobsHandler(w http.ResponseWriter, r *http.Request) {
	jobs, err := a.db.ListJobs(r.Context())
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respond(w, http.StatusOK, jobs)
}
