package api

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

func NewRouter(a *API) http.Handler {
	mux := http.NewServeMux()

	// Swagger documentation
	mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Health check (for load balancers, k8s, etc.)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// CV endpoints
	mux.HandleFunc("POST /api/cvs", a.UploadCVHandler)
	mux.HandleFunc("GET /api/cvs", a.ListCVsHandler)
	mux.HandleFunc("GET /api/cvs/{id}", a.GetCVHandler)
	mux.HandleFunc("POST /api/cvs/{id}/analyze", a.AnalyzeCVHandler)
	mux.HandleFunc("GET /api/cvs/{id}/download", a.DownloadCVHandler)
	mux.HandleFunc("DELETE /api/cvs/{id}", a.DeleteCVHandler)

	// Candidate endpoints
	mux.HandleFunc("POST /api/candidates", a.CreateCandidateHandler)
	mux.HandleFunc("GET /api/candidates", a.ListCandidatesHandler)
	mux.HandleFunc("GET /api/candidates/{id}", a.GetCandidateHandler)
	mux.HandleFunc("PATCH /api/candidates/{id}/status", a.UpdateCandidateStatusHandler)
	mux.HandleFunc("DELETE /api/candidates/{id}", a.DeleteCandidateHandler)

	// Job endpoints
	mux.HandleFunc("POST /api/jobs", a.CreateJobHandler)
	mux.HandleFunc("GET /api/jobs", a.ListJobsHandler)
	mux.HandleFunc("GET /api/jobs/{id}", a.GetJobHandler)

	return mux
}
