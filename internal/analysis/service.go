package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"ats-backend/internal/storage"
	"ats-backend/pkg/errs"
)

// Candidate auto-transition thresholds.
const (
	shortlistThreshold = 70 // score >= 70 moves a NEW candidate to SHORTLISTED
	rejectThreshold    = 45 // score < 45 moves a NEW candidate to REJECTED
	// Scores in [45,70) stay NEW for manual review.
)

// Store is the slice of the record store the orchestrator uses.
type Store interface {
	GetCVByID(ctx context.Context, id string) (*storage.CV, error)
	UpdateCV(ctx context.Context, cv *storage.CV) error
	GetCandidateByID(ctx context.Context, id string) (*storage.Candidate, error)
	UpdateCandidate(ctx context.Context, c *storage.Candidate) error
	GetJobByID(ctx context.Context, id string) (*storage.Job, error)
}

// TextExtractor produces raw text from a stored document.
type TextExtractor interface {
	ExtractText(path, mimeType string) (string, error)
}

// Service orchestrates CV analysis: text extraction, analyzer selection,
// the UPLOADED → ANALYZING → ANALYZED|FAILED state machine, and the
// candidate side effects.
type Service struct {
	store     Store
	extractor TextExtractor
	heuristic *HeuristicAnalyzer
	ai        Analyzer // nil when no model credential is configured
	logger    *zap.Logger
}

func NewService(store Store, extractor TextExtractor, ai Analyzer, logger *zap.Logger) *Service {
	return &Service{
		store:     store,
		extractor: extractor,
		heuristic: NewHeuristicAnalyzer(),
		ai:        ai,
		logger:    logger,
	}
}

// analyzerFor picks the AI path only when a client is configured and a
// job description exists; otherwise the heuristic runs unconditionally.
func (s *Service) analyzerFor(jobDescription string) Analyzer {
	if s.ai != nil && jobDescription != "" {
		return s.ai
	}
	return s.heuristic
}

// Analyze runs the full pipeline for one CV and returns the updated record.
// Re-invoking on an ANALYZED or FAILED record restarts from ANALYZING and
// fully recomputes. The CV and candidate writes are not transactional; a
// reader may briefly observe an ANALYZED CV with a stale candidate.
func (s *Service) Analyze(ctx context.Context, cvID string) (*storage.CV, error) {
	cv, err := s.store.GetCVByID(ctx, cvID)
	if err != nil {
		return nil, err
	}

	// Persist ANALYZING immediately so concurrent readers observe progress.
	// Stale results from a previous run are cleared with it.
	cv.Status = storage.CVStatusAnalyzing
	cv.MatchScore = nil
	cv.AnalysisData = nil
	cv.AnalyzedAt = nil
	if err := s.store.UpdateCV(ctx, cv); err != nil {
		return nil, fmt.Errorf("mark cv analyzing: %w", err)
	}

	s.logger.Info("cv analysis started", zap.String("cv_id", cv.ID))

	text, err := s.extractor.ExtractText(cv.FilePath, cv.MimeType)
	if err != nil {
		return nil, s.fail(ctx, cv, fmt.Errorf("extract text: %w", err))
	}

	jobDescription, err := s.jobDescription(ctx, cv)
	if err != nil {
		return nil, s.fail(ctx, cv, err)
	}

	result, err := s.analyzerFor(jobDescription).Analyze(ctx, text, jobDescription)
	if err != nil {
		return nil, s.fail(ctx, cv, fmt.Errorf("analyze cv text: %w", err))
	}

	data, err := json.Marshal(result.Extracted)
	if err != nil {
		return nil, s.fail(ctx, cv, fmt.Errorf("encode analysis data: %w", err))
	}

	now := time.Now()
	cv.Status = storage.CVStatusAnalyzed
	cv.MatchScore = &result.MatchScore
	cv.AnalysisData = data
	cv.AnalyzedAt = &now
	if err := s.store.UpdateCV(ctx, cv); err != nil {
		return nil, s.fail(ctx, cv, fmt.Errorf("persist analysis result: %w", err))
	}

	if err := s.applyToCandidate(ctx, cv.CandidateID, result); err != nil {
		return nil, s.fail(ctx, cv, err)
	}

	s.logger.Info("cv analysis finished",
		zap.String("cv_id", cv.ID),
		zap.Int("match_score", result.MatchScore),
		zap.Int("skills", len(result.Skills)),
	)

	return cv, nil
}

// jobDescription resolves the comparison text for the CV's job reference.
// A missing job or unset description yields an empty string, not an error.
func (s *Service) jobDescription(ctx context.Context, cv *storage.CV) (string, error) {
	if cv.JobID == nil || *cv.JobID == "" {
		return "", nil
	}
	job, err := s.store.GetJobByID(ctx, *cv.JobID)
	if errors.Is(err, errs.ErrNotFound) {
		s.logger.Warn("cv references missing job",
			zap.String("cv_id", cv.ID), zap.String("job_id", *cv.JobID))
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load job: %w", err)
	}
	return job.Description, nil
}

// applyToCandidate overwrites the candidate's extracted fields and, for a
// candidate still in NEW with a positive score, applies the auto-transition.
// Manual status changes are never overridden.
func (s *Service) applyToCandidate(ctx context.Context, candidateID string, result *Result) error {
	candidate, err := s.store.GetCandidateByID(ctx, candidateID)
	if errors.Is(err, errs.ErrNotFound) {
		s.logger.Warn("cv has no resolvable candidate", zap.String("candidate_id", candidateID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("load candidate: %w", err)
	}

	candidate.Skills = result.Skills
	candidate.Experience = result.Experience
	score := result.MatchScore
	candidate.MatchScore = &score

	if candidate.Status == storage.CandidateStatusNew && score > 0 {
		switch {
		case score >= shortlistThreshold:
			candidate.Status = storage.CandidateStatusShortlisted
		case score < rejectThreshold:
			candidate.Status = storage.CandidateStatusRejected
		}
		// Otherwise the candidate stays NEW for manual review.
	}

	if err := s.store.UpdateCandidate(ctx, candidate); err != nil {
		return fmt.Errorf("persist candidate: %w", err)
	}

	s.logger.Debug("candidate updated from analysis",
		zap.String("candidate_id", candidate.ID),
		zap.Int("match_score", score),
		zap.String("status", string(candidate.Status)),
	)
	return nil
}

// fail persists the FAILED state before returning the original error, so
// the failure stays observable even if the caller's handling is cut short.
func (s *Service) fail(ctx context.Context, cv *storage.CV, cause error) error {
	cv.Status = storage.CVStatusFailed
	cv.MatchScore = nil
	cv.AnalysisData = nil
	cv.AnalyzedAt = nil
	if err := s.store.UpdateCV(ctx, cv); err != nil {
		s.logger.Error("persist FAILED status",
			zap.String("cv_id", cv.ID), zap.Error(err))
	}
	s.logger.Warn("cv analysis failed", zap.String("cv_id", cv.ID), zap.Error(cause))
	return cause
}
