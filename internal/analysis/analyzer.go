// Package analysis holds the CV scoring engine: the heuristic and AI-assisted
// analyzers plus the orchestrator driving the CV status state machine.
package analysis

import "context"

// Analyzer computes structured signals and a 0-100 match score from raw CV
// text and an optional job description.
type Analyzer interface {
	Analyze(ctx context.Context, cvText, jobDescription string) (*Result, error)
}

// Result is the outcome of analyzing one CV.
type Result struct {
	MatchScore int
	Skills     []string
	Experience string
	Extracted  ExtractedData
}

// ExtractedData is persisted verbatim on the CV record. The heuristic path
// fills only Text, Skills and Experience; the AI path adds the rest.
type ExtractedData struct {
	Text            string   `json:"text"`
	Skills          []string `json:"skills"`
	Experience      string   `json:"experience"`
	Education       string   `json:"education,omitempty"`
	Summary         string   `json:"summary,omitempty"`
	Strengths       []string `json:"strengths,omitempty"`
	Recommendations string   `json:"recommendations,omitempty"`
	MatchScore      *int     `json:"matchScore,omitempty"`
}
