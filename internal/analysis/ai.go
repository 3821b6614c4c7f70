package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"
)

// Token-budget limits applied before prompting the model.
const (
	maxCVChars  = 8000
	maxJobChars = 4000
)

const systemPrompt = "You are an expert HR analyst. Extract structured data from CVs " +
	"and calculate match scores. Always return valid JSON."

// completionClient is the slice of the LLM client the analyzer needs.
type completionClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// AIAnalyzer delegates extraction and scoring to a chat completion model.
// Any failure — transport, provider, malformed JSON — falls back to the
// heuristic analyzer with the same inputs, so callers never see an error
// from the AI path alone.
type AIAnalyzer struct {
	client   completionClient
	fallback *HeuristicAnalyzer
	logger   *zap.Logger
}

func NewAIAnalyzer(client completionClient, fallback *HeuristicAnalyzer, logger *zap.Logger) *AIAnalyzer {
	return &AIAnalyzer{
		client:   client,
		fallback: fallback,
		logger:   logger,
	}
}

func (a *AIAnalyzer) Analyze(ctx context.Context, cvText, jobDescription string) (*Result, error) {
	raw, err := a.client.Complete(ctx, systemPrompt, buildPrompt(cvText, jobDescription))
	if err != nil {
		a.logger.Warn("ai analysis failed, falling back to heuristic", zap.Error(err))
		return a.fallback.Analyze(ctx, cvText, jobDescription)
	}

	parsed, err := parseResponse(raw)
	if err != nil {
		a.logger.Warn("ai response unparseable, falling back to heuristic", zap.Error(err))
		return a.fallback.Analyze(ctx, cvText, jobDescription)
	}

	score := clampScore(parsed.MatchScore)
	return &Result{
		MatchScore: score,
		Skills:     parsed.Skills,
		Experience: parsed.Experience,
		Extracted: ExtractedData{
			Text:            cvText,
			Skills:          parsed.Skills,
			Experience:      parsed.Experience,
			Education:       parsed.Education,
			Summary:         parsed.Summary,
			Strengths:       parsed.Strengths,
			Recommendations: parsed.Recommendations,
			MatchScore:      &score,
		},
	}, nil
}

func buildPrompt(cvText, jobDescription string) string {
	return fmt.Sprintf(`Analyze this CV and job description. Extract the following information in JSON format:
{
  "skills": ["skill1", "skill2", ...],
  "experience": "X years" or "Not specified",
  "education": "degree information",
  "matchScore": 0-100,
  "summary": "brief candidate summary",
  "strengths": ["strength1", "strength2", ...],
  "recommendations": "recommendation text"
}

CV Text:
%s

Job Description:
%s

Return ONLY valid JSON, no additional text.`,
		truncate(cvText, maxCVChars), truncate(jobDescription, maxJobChars))
}

// parsedAnalysis mirrors the JSON object the prompt demands. matchScore is
// decoded as float64 because models occasionally emit fractional scores.
type parsedAnalysis struct {
	Skills          []string
	Experience      string
	Education       string
	MatchScore      int
	Summary         string
	Strengths       []string
	Recommendations string
}

func parseResponse(raw string) (*parsedAnalysis, error) {
	var resp struct {
		Skills          []string `json:"skills"`
		Experience      string   `json:"experience"`
		Education       string   `json:"education"`
		MatchScore      float64  `json:"matchScore"`
		Summary         string   `json:"summary"`
		Strengths       []string `json:"strengths"`
		Recommendations string   `json:"recommendations"`
	}
	if err := json.Unmarshal([]byte(stripFences(raw)), &resp); err != nil {
		return nil, fmt.Errorf("parse model response: %w", err)
	}

	p := &parsedAnalysis{
		Skills:          resp.Skills,
		Experience:      resp.Experience,
		Education:       resp.Education,
		MatchScore:      int(math.Round(resp.MatchScore)),
		Summary:         resp.Summary,
		Strengths:       resp.Strengths,
		Recommendations: resp.Recommendations,
	}

	// Field defaults for a well-formed but incomplete object.
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Strengths == nil {
		p.Strengths = []string{}
	}
	if p.Experience == "" {
		p.Experience = "Not specified"
	}
	if p.Education == "" {
		p.Education = "Not specified"
	}
	return p, nil
}

// stripFences removes markdown code fences some models wrap around JSON
// despite the response-format instruction.
func stripFences(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	return strings.TrimSpace(raw)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
