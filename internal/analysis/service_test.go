package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"ats-backend/internal/storage"
	"ats-backend/pkg/errs"
)

// memStore is an in-memory Store recording every CV status written.
type memStore struct {
	cvs        map[string]*storage.CV
	candidates map[string]*storage.Candidate
	jobs       map[string]*storage.Job

	cvStatusLog        []storage.CVStatus
	updateCVErr        error
	updateCandidateErr error
}

func newMemStore() *memStore {
	return &memStore{
		cvs:        map[string]*storage.CV{},
		candidates: map[string]*storage.Candidate{},
		jobs:       map[string]*storage.Job{},
	}
}

func (m *memStore) GetCVByID(_ context.Context, id string) (*storage.CV, error) {
	cv, ok := m.cvs[id]
	if !ok {
		return nil, errs.NotFoundf("cv %s", id)
	}
	cp := *cv
	return &cp, nil
}

func (m *memStore) UpdateCV(_ context.Context, cv *storage.CV) error {
	if m.updateCVErr != nil {
		return m.updateCVErr
	}
	if _, ok := m.cvs[cv.ID]; !ok {
		return errs.NotFoundf("cv %s", cv.ID)
	}
	cp := *cv
	m.cvs[cv.ID] = &cp
	m.cvStatusLog = append(m.cvStatusLog, cv.Status)
	return nil
}

func (m *memStore) GetCandidateByID(_ context.Context, id string) (*storage.Candidate, error) {
	c, ok := m.candidates[id]
	if !ok {
		return nil, errs.NotFoundf("candidate %s", id)
	}
	cp := *c
	return &cp, nil
}

func (m *memStore) UpdateCandidate(_ context.Context, c *storage.Candidate) error {
	if m.updateCandidateErr != nil {
		return m.updateCandidateErr
	}
	if _, ok := m.candidates[c.ID]; !ok {
		return errs.NotFoundf("candidate %s", c.ID)
	}
	cp := *c
	m.candidates[c.ID] = &cp
	return nil
}

func (m *memStore) GetJobByID(_ context.Context, id string) (*storage.Job, error) {
	j, ok := m.jobs[id]
	if !ok {
		return nil, errs.NotFoundf("job %s", id)
	}
	cp := *j
	return &cp, nil
}

type stubExtractor struct {
	text string
	err  error
}

func (s *stubExtractor) ExtractText(_, _ string) (string, error) {
	return s.text, s.err
}

// fixedAnalyzer stands in for the AI path and returns a fixed score.
type fixedAnalyzer struct {
	score  int
	called bool
}

func (f *fixedAnalyzer) Analyze(_ context.Context, cvText, _ string) (*Result, error) {
	f.called = true
	return &Result{
		MatchScore: f.score,
		Skills:     []string{"Go", "Docker"},
		Experience: "4 years",
		Extracted:  ExtractedData{Text: cvText, Skills: []string{"Go", "Docker"}, Experience: "4 years"},
	}, nil
}

func seedStore(jobDescription string) (*memStore, *storage.CV) {
	store := newMemStore()
	store.jobs["job-1"] = &storage.Job{ID: "job-1", Title: "Backend Engineer", Description: jobDescription}
	store.candidates["cand-1"] = &storage.Candidate{
		ID:     "cand-1",
		Name:   "Jane Doe",
		Email:  "jane@example.com",
		Status: storage.CandidateStatusNew,
	}
	jobID := "job-1"
	cv := &storage.CV{
		ID:          "cv-1",
		FileName:    "jane.pdf",
		FilePath:    "/uploads/jane.pdf",
		MimeType:    "application/pdf",
		Status:      storage.CVStatusUploaded,
		JobID:       &jobID,
		CandidateID: "cand-1",
		UploadedAt:  time.Now().Add(-time.Hour),
	}
	store.cvs[cv.ID] = cv
	return store, cv
}

func newTestService(store Store, extractor TextExtractor, ai Analyzer) *Service {
	return NewService(store, extractor, ai, zap.NewNop())
}

func TestAnalyzeSuccess(t *testing.T) {
	store, _ := seedStore("React engineer with Docker and 5 years of experience")
	extractor := &stubExtractor{text: "React and Docker developer, 5 years of experience"}
	svc := newTestService(store, extractor, nil)

	cv, err := svc.Analyze(context.Background(), "cv-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cv.Status != storage.CVStatusAnalyzed {
		t.Errorf("status = %s, want ANALYZED", cv.Status)
	}
	if cv.MatchScore == nil || *cv.MatchScore < 0 || *cv.MatchScore > 100 {
		t.Errorf("match score = %v, want 0..100", cv.MatchScore)
	}
	if cv.AnalyzedAt == nil || cv.AnalyzedAt.Before(cv.UploadedAt) {
		t.Errorf("analyzedAt = %v, want >= uploadedAt %v", cv.AnalyzedAt, cv.UploadedAt)
	}
	if len(cv.AnalysisData) == 0 {
		t.Error("analysis data must be persisted")
	}

	// The ANALYZING transition must have been persisted before the result.
	if len(store.cvStatusLog) < 2 || store.cvStatusLog[0] != storage.CVStatusAnalyzing {
		t.Errorf("status log = %v, want ANALYZING first", store.cvStatusLog)
	}

	cand := store.candidates["cand-1"]
	if len(cand.Skills) == 0 || cand.Experience != "5 years" {
		t.Errorf("candidate not updated: skills=%v experience=%q", cand.Skills, cand.Experience)
	}
	if cand.MatchScore == nil || *cand.MatchScore != *cv.MatchScore {
		t.Errorf("candidate match score = %v, want %v", cand.MatchScore, cv.MatchScore)
	}
}

func TestAnalyzeUnknownCV(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, &stubExtractor{}, nil)

	_, err := svc.Analyze(context.Background(), "missing")
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if len(store.cvStatusLog) != 0 {
		t.Errorf("no status must be written for an unresolvable CV, got %v", store.cvStatusLog)
	}
}

func TestAnalyzeExtractionFailure(t *testing.T) {
	store, _ := seedStore("job description")
	cause := errors.New("no such file or directory")
	svc := newTestService(store, &stubExtractor{err: cause}, nil)

	_, err := svc.Analyze(context.Background(), "cv-1")
	if err == nil || !errors.Is(err, cause) {
		t.Fatalf("err = %v, want original cause re-raised", err)
	}

	cv := store.cvs["cv-1"]
	if cv.Status != storage.CVStatusFailed {
		t.Errorf("status = %s, want FAILED", cv.Status)
	}
	if cv.MatchScore != nil || cv.AnalysisData != nil || cv.AnalyzedAt != nil {
		t.Error("failed analysis must leave no match score or analysis data")
	}
}

func TestAnalyzeUnsupportedFormatFailure(t *testing.T) {
	store, _ := seedStore("job description")
	svc := newTestService(store, &stubExtractor{err: errs.UnsupportedFormatf("mime type %q", "text/csv")}, nil)

	_, err := svc.Analyze(context.Background(), "cv-1")
	if !errors.Is(err, errs.ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
	if store.cvs["cv-1"].Status != storage.CVStatusFailed {
		t.Errorf("status = %s, want FAILED", store.cvs["cv-1"].Status)
	}
}

func TestCandidateAutoTransitionBoundaries(t *testing.T) {
	tests := []struct {
		score int
		want  storage.CandidateStatus
	}{
		{100, storage.CandidateStatusShortlisted},
		{70, storage.CandidateStatusShortlisted},
		{69, storage.CandidateStatusNew},
		{45, storage.CandidateStatusNew},
		{44, storage.CandidateStatusRejected},
		{1, storage.CandidateStatusRejected},
		{0, storage.CandidateStatusNew}, // zero score never transitions
	}
	for _, tt := range tests {
		store, _ := seedStore("job description")
		ai := &fixedAnalyzer{score: tt.score}
		svc := newTestService(store, &stubExtractor{text: "cv text"}, ai)

		if _, err := svc.Analyze(context.Background(), "cv-1"); err != nil {
			t.Fatalf("score %d: unexpected error: %v", tt.score, err)
		}
		if got := store.candidates["cand-1"].Status; got != tt.want {
			t.Errorf("score %d: candidate status = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestManualCandidateStatusPreserved(t *testing.T) {
	for _, status := range []storage.CandidateStatus{
		storage.CandidateStatusShortlisted,
		storage.CandidateStatusInterviewed,
		storage.CandidateStatusOffered,
		storage.CandidateStatusHired,
		storage.CandidateStatusRejected,
	} {
		store, _ := seedStore("job description")
		store.candidates["cand-1"].Status = status
		svc := newTestService(store, &stubExtractor{text: "cv"}, &fixedAnalyzer{score: 95})

		if _, err := svc.Analyze(context.Background(), "cv-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cand := store.candidates["cand-1"]
		if cand.Status != status {
			t.Errorf("candidate status %s was overridden to %s", status, cand.Status)
		}
		// Extracted fields are still overwritten.
		if cand.MatchScore == nil || *cand.MatchScore != 95 {
			t.Errorf("candidate match score = %v, want 95", cand.MatchScore)
		}
	}
}

func TestAnalyzeWithoutJobReference(t *testing.T) {
	store, cv := seedStore("unused")
	cv.JobID = nil
	store.cvs[cv.ID] = cv
	ai := &fixedAnalyzer{score: 90}
	svc := newTestService(store, &stubExtractor{text: "React developer"}, ai)

	got, err := svc.Analyze(context.Background(), "cv-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Without a job description the AI path must not run and the score is 0.
	if ai.called {
		t.Error("AI analyzer must not be selected without a job description")
	}
	if got.MatchScore == nil || *got.MatchScore != 0 {
		t.Errorf("match score = %v, want 0 without job description", got.MatchScore)
	}
}

func TestAnalyzeMissingJobTreatedAsEmptyDescription(t *testing.T) {
	store, _ := seedStore("unused")
	delete(store.jobs, "job-1")
	svc := newTestService(store, &stubExtractor{text: "React developer"}, nil)

	got, err := svc.Analyze(context.Background(), "cv-1")
	if err != nil {
		t.Fatalf("missing job must not fail the analysis: %v", err)
	}
	if got.Status != storage.CVStatusAnalyzed {
		t.Errorf("status = %s, want ANALYZED", got.Status)
	}
	if *got.MatchScore != 0 {
		t.Errorf("match score = %d, want 0 for empty comparison text", *got.MatchScore)
	}
}

func TestAISelectedWithJobDescription(t *testing.T) {
	store, _ := seedStore("Go backend role")
	ai := &fixedAnalyzer{score: 75}
	svc := newTestService(store, &stubExtractor{text: "Go developer"}, ai)

	if _, err := svc.Analyze(context.Background(), "cv-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ai.called {
		t.Error("AI analyzer must be selected when configured and a job description exists")
	}
}

func TestAnalyzeMissingCandidateSkipped(t *testing.T) {
	store, _ := seedStore("job description")
	delete(store.candidates, "cand-1")
	svc := newTestService(store, &stubExtractor{text: "cv"}, &fixedAnalyzer{score: 80})

	got, err := svc.Analyze(context.Background(), "cv-1")
	if err != nil {
		t.Fatalf("missing candidate must not fail the analysis: %v", err)
	}
	if got.Status != storage.CVStatusAnalyzed {
		t.Errorf("status = %s, want ANALYZED", got.Status)
	}
}

func TestAnalyzeCandidatePersistFailure(t *testing.T) {
	store, _ := seedStore("job description")
	store.updateCandidateErr = errors.New("connection reset")
	svc := newTestService(store, &stubExtractor{text: "cv"}, &fixedAnalyzer{score: 80})

	_, err := svc.Analyze(context.Background(), "cv-1")
	if err == nil || !strings.Contains(err.Error(), "connection reset") {
		t.Fatalf("err = %v, want candidate persist failure", err)
	}
	if store.cvs["cv-1"].Status != storage.CVStatusFailed {
		t.Errorf("status = %s, want FAILED after candidate write failure", store.cvs["cv-1"].Status)
	}
}

func TestReanalysisRestartsStateMachine(t *testing.T) {
	store, _ := seedStore("job description")

	// First run fails on extraction.
	svc := newTestService(store, &stubExtractor{err: errors.New("unreadable")}, nil)
	if _, err := svc.Analyze(context.Background(), "cv-1"); err == nil {
		t.Fatal("expected first analysis to fail")
	}
	if store.cvs["cv-1"].Status != storage.CVStatusFailed {
		t.Fatalf("status = %s, want FAILED", store.cvs["cv-1"].Status)
	}

	// Second run succeeds and fully overwrites the failed state.
	svc = newTestService(store, &stubExtractor{text: "React, 2 years of experience"}, nil)
	cv, err := svc.Analyze(context.Background(), "cv-1")
	if err != nil {
		t.Fatalf("re-analysis must succeed: %v", err)
	}
	if cv.Status != storage.CVStatusAnalyzed {
		t.Errorf("status = %s, want ANALYZED", cv.Status)
	}
	if cv.MatchScore == nil || len(cv.AnalysisData) == 0 || cv.AnalyzedAt == nil {
		t.Error("re-analysis must repopulate all result fields")
	}

	// FAILED → ANALYZING → ANALYZED plus the initial ANALYZING write.
	log := store.cvStatusLog
	if len(log) != 4 || log[2] != storage.CVStatusAnalyzing || log[3] != storage.CVStatusAnalyzed {
		t.Errorf("status log = %v", log)
	}
}
