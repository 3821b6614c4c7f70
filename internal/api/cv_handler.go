package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"ats-backend/internal/extract"
	"ats-backend/internal/storage"
	"ats-backend/pkg/errs"
)

// UploadCVHandler handles CV uploads
// @Summary Upload a CV
// @Description Store a CV document (PDF/DOC/DOCX) for a candidate, optionally against a job
// @Tags cvs
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CV document"
// @Param candidate_id formData string true "Candidate ID"
// @Param job_id formData string false "Job ID"
// @Success 201 {object} storage.CV
// @Failure 400 {object} map[string]string
// @Router /cvs [post]
func (a *API) UploadCVHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(a.maxUpload); err != nil {
		a.respondError(w, errs.Validationf("file too large or invalid multipart form"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		a.respondError(w, errs.Validationf("no file uploaded"))
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	if !extract.Supported(mimeType) {
		a.respondError(w, errs.UnsupportedFormatf("mime type %q", mimeType))
		return
	}

	candidateID := r.FormValue("candidate_id")
	if candidateID == "" {
		a.respondError(w, errs.Validationf("candidate_id is required"))
		return
	}
	if _, err := a.db.GetCandidateByID(r.Context(), candidateID); err != nil {
		a.respondError(w, err)
		return
	}

	var jobID *string
	if id := r.FormValue("job_id"); id != "" {
		if _, err := a.db.GetJobByID(r.Context(), id); err != nil {
			a.respondError(w, err)
			return
		}
		jobID = &id
	}

	path, size, err := a.files.Save(header.Filename, file)
	if err != nil {
		a.respondError(w, fmt.Errorf("store upload: %w", err))
		return
	}

	cv := &storage.CV{
		FileName:    header.Filename,
		FilePath:    path,
		FileSize:    size,
		MimeType:    mimeType,
		Status:      storage.CVStatusUploaded,
		JobID:       jobID,
		CandidateID: candidateID,
	}
	if err := a.db.CreateCV(r.Context(), cv); err != nil {
		// Keep disk and records consistent when the insert fails.
		_ = a.files.Remove(path)
		a.respondError(w, fmt.Errorf("create cv record: %w", err))
		return
	}

	a.respond(w, http.StatusCreated, cv)
}

// AnalyzeCVHandler runs the analysis pipeline for one CV
// @Summary Analyze a CV
// @Description Extract text, score the CV against its job description and update the candidate
// @Tags cvs
// @Produce json
// @Param id path string true "CV ID"
// @Success 200 {object} storage.CV
// @Failure 404 {object} map[string]string
// @Router /cvs/{id}/analyze [post]
func (a *API) AnalyzeCVHandler(w http.ResponseWriter, r *http.Request) {
	cv, err := a.analysis.Analyze(r.Context(), r.PathValue("id"))
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respond(w, http.StatusOK, cv)
}

// GetCVHandler returns one CV record
// @Summary Get a CV
// @Tags cvs
// @Produce json
// @Param id path string true "CV ID"
// @Success 200 {object} storage.CV
// @Failure 404 {object} map[string]string
// @Router /cvs/{id} [get]
func (a *API) GetCVHandler(w http.ResponseWriter, r *http.Request) {
	cv, err := a.db.GetCVByID(r.Context(), r.PathValue("id"))
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respond(w, http.StatusOK, cv)
}

// ListCVsHandler lists CV records
// @Summary List CVs
// @Tags cvs
// @Produce json
// @Param candidate_id query string false "Filter by candidate"
// @Param job_id query string false "Filter by job"
// @Param status query string false "Filter by status"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {array} storage.CV
// @Router /cvs [get]
func (a *API) ListCVsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := storage.CVFilter{
		CandidateID: q.Get("candidate_id"),
		JobID:       q.Get("job_id"),
		Status:      q.Get("status"),
		Page:        queryInt(q.Get("page"), 1),
		Limit:       queryInt(q.Get("limit"), 10),
	}

	cvs, pagination, err := a.db.ListCVs(r.Context(), filter)
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respondPage(w, http.StatusOK, cvs, pagination)
}

// DownloadCVHandler streams the stored document
// @Summary Download a CV file
// @Tags cvs
// @Produce application/octet-stream
// @Param id path string true "CV ID"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string
// @Router /cvs/{id}/download [get]
func (a *API) DownloadCVHandler(w http.ResponseWriter, r *http.Request) {
	cv, err := a.db.GetCVByID(r.Context(), r.PathValue("id"))
	if err != nil {
		a.respondError(w, err)
		return
	}
	if !a.files.Exists(cv.FilePath) {
		a.respondError(w, errs.NotFoundf("cv file %s", cv.FileName))
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", cv.FileName))
	w.Header().Set("Content-Type", cv.MimeType)
	http.ServeFile(w, r, cv.FilePath)
}

// DeleteCVHandler removes a CV record and its backing file
// @Summary Delete a CV
// @Tags cvs
// @Produce json
// @Param id path string true "CV ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /cvs/{id} [delete]
func (a *API) DeleteCVHandler(w http.ResponseWriter, r *http.Request) {
	cv, err := a.db.GetCVByID(r.Context(), r.PathValue("id"))
	if err != nil {
		a.respondError(w, err)
		return
	}

	if err := a.files.Remove(cv.FilePath); err != nil {
		a.respondError(w, fmt.Errorf("remove cv file: %w", err))
		return
	}
	if err := a.db.DeleteCV(r.Context(), cv.ID); err != nil && !errors.Is(err, errs.ErrNotFound) {
		a.respondError(w, err)
		return
	}
	a.respond(w, http.StatusOK, map[string]string{"id": cv.ID})
}

func queryInt(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
