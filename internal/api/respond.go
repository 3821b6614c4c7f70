package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"ats-backend/pkg/errs"
)

// envelope is the uniform JSON response body.
type envelope struct {
	Success    bool   `json:"success"`
	Message    string `json:"message,omitempty"`
	Data       any    `json:"data,omitempty"`
	Pagination any    `json:"pagination,omitempty"`
}

func (a *API) respond(w http.ResponseWriter, status int, data any) {
	a.respondPage(w, status, data, nil)
}

func (a *API) respondPage(w http.ResponseWriter, status int, data, pagination any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Success: true, Data: data, Pagination: pagination}); err != nil {
		a.logger.Error("encode response", zap.Error(err))
	}
}

// respondError maps the error taxonomy onto HTTP status codes.
func (a *API) respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errs.ErrValidation), errors.Is(err, errs.ErrUnsupportedFormat):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		a.logger.Error("request failed", zap.Error(err))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: false, Message: err.Error()})
}
