// Package api exposes the applicant-tracking backend over HTTP. Handlers are
// thin plumbing around the storage and analysis layers.
package api

import (
	"go.uber.org/zap"

	"ats-backend/internal/analysis"
	"ats-backend/internal/storage"
)

type API struct {
	db        *storage.DB
	files     *storage.FileStore
	analysis  *analysis.Service
	maxUpload int64
	logger    *zap.Logger
}

func NewAPI(db *storage.DB, files *storage.FileStore, analysisSvc *analysis.Service, maxUpload int64, logger *zap.Logger) *API {
	return &API{
		db:        db,
		files:     files,
		analysis:  analysisSvc,
		maxUpload: maxUpload,
		logger:    logger,
	}
}
