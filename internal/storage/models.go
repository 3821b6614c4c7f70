package storage

import (
	"encoding/json"
	"time"
)

// CVStatus tracks a CV document through the analysis state machine.
type CVStatus string

const (
	CVStatusUploaded  CVStatus = "UPLOADED"
	CVStatusAnalyzing CVStatus = "ANALYZING"
	CVStatusAnalyzed  CVStatus = "ANALYZED"
	CVStatusFailed    CVStatus = "FAILED"
)

// CandidateStatus is the hiring pipeline stage of a candidate.
type CandidateStatus string

const (
	CandidateStatusNew         CandidateStatus = "NEW"
	CandidateStatusShortlisted CandidateStatus = "SHORTLISTED"
	CandidateStatusInterviewed CandidateStatus = "INTERVIEWED"
	CandidateStatusOffered     CandidateStatus = "OFFERED"
	CandidateStatusHired       CandidateStatus = "HIRED"
	CandidateStatusRejected    CandidateStatus = "REJECTED"
)

// ValidCandidateStatus reports whether s is one of the known pipeline stages.
func ValidCandidateStatus(s string) bool {
	switch CandidateStatus(s) {
	case CandidateStatusNew, CandidateStatusShortlisted, CandidateStatusInterviewed,
		CandidateStatusOffered, CandidateStatusHired, CandidateStatusRejected:
		return true
	}
	return false
}

// CV represents one uploaded candidate document and its analysis state.
// MatchScore, AnalysisData and AnalyzedAt are set only once the CV reaches
// ANALYZED; a FAILED analysis leaves them empty.
type CV struct {
	ID           string          `json:"id"`
	FileName     string          `json:"file_name"`
	FilePath     string          `json:"file_path"`
	FileSize     int64           `json:"file_size"`
	MimeType     string          `json:"mime_type"`
	Status       CVStatus        `json:"status"`
	MatchScore   *int            `json:"match_score,omitempty"`
	JobID        *string         `json:"job_id,omitempty"`
	CandidateID  string          `json:"candidate_id"`
	AnalysisData json.RawMessage `json:"analysis_data,omitempty"`
	UploadedAt   time.Time       `json:"uploaded_at"`
	AnalyzedAt   *time.Time      `json:"analyzed_at,omitempty"`
}

// Candidate represents a job applicant. Skills, Experience, MatchScore and
// (from NEW only) Status are overwritten by the analysis orchestrator.
type Candidate struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Phone      string          `json:"phone,omitempty"`
	Location   string          `json:"location,omitempty"`
	Experience string          `json:"experience,omitempty"`
	Skills     []string        `json:"skills"`
	MatchScore *int            `json:"match_score,omitempty"`
	Status     CandidateStatus `json:"status"`
	JobID      *string         `json:"job_id,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// Job is a posting whose description the scorer compares CVs against.
type Job struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company,omitempty"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// CVFilter narrows ListCVs; zero values mean "no constraint".
type CVFilter struct {
	CandidateID string
	JobID       string
	Status      string
	Page        int
	Limit       int
}

// CandidateFilter narrows ListCandidates.
type CandidateFilter struct {
	JobID  string
	Status string
	Search string // matches name, email or skills
	Page   int
	Limit  int
}

// Pagination describes one page of a list response.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}
