package analysis

import (
	"context"
	"math"
	"regexp"
	"strings"
)

// skillVocabulary is the fixed reference vocabulary for keyword-based skill
// extraction. Output preserves this casing and order.
var skillVocabulary = []string{
	"React", "Node.js", "TypeScript", "Python", "Java",
	"JavaScript", "AWS", "Docker", "Kubernetes", "MongoDB",
	"PostgreSQL", "Express", "Next.js", "Angular", "Vue",
	"Git", "CI/CD", "REST API", "GraphQL", "Microservices",
	"SQL", "NoSQL", "Redis", "Elasticsearch", "Linux",
}

var experienceRe = regexp.MustCompile(`(?i)(\d+)\+?\s*(years?|yrs?)\s*(of\s*)?experience`)

// HeuristicAnalyzer scores CVs with keyword dictionaries and a regex. It is
// fully deterministic and needs no external service.
type HeuristicAnalyzer struct{}

func NewHeuristicAnalyzer() *HeuristicAnalyzer {
	return &HeuristicAnalyzer{}
}

// Analyze never fails; with no job description the match score is 0.
func (a *HeuristicAnalyzer) Analyze(_ context.Context, cvText, jobDescription string) (*Result, error) {
	skills := ExtractSkills(cvText)
	experience := ExtractExperience(cvText)

	matchScore := 0
	if jobDescription != "" {
		matchScore = CalculateMatchScore(cvText, jobDescription, skills)
	}

	return &Result{
		MatchScore: matchScore,
		Skills:     skills,
		Experience: experience,
		Extracted: ExtractedData{
			Text:       cvText,
			Skills:     skills,
			Experience: experience,
		},
	}, nil
}

// ExtractSkills returns the vocabulary entries contained (case-insensitively)
// in text, in vocabulary order.
func ExtractSkills(text string) []string {
	lower := strings.ToLower(text)
	found := []string{}
	for _, skill := range skillVocabulary {
		if strings.Contains(lower, strings.ToLower(skill)) {
			found = append(found, skill)
		}
	}
	return found
}

// ExtractExperience pulls a years-of-experience phrase like "5 years of
// experience" or "3+ yrs experience" from text. Only the first match counts.
func ExtractExperience(text string) string {
	m := experienceRe.FindStringSubmatch(text)
	if m == nil {
		return "Not specified"
	}
	return m[1] + " years"
}

// CalculateMatchScore combines skill overlap (40), keyword overlap (30) and a
// fixed experience contribution (30), rounded and clamped to 100.
func CalculateMatchScore(cvText, jobDescription string, skills []string) int {
	score := 0.0

	// Skill matching (40 points)
	jobSkills := ExtractSkills(jobDescription)
	if len(jobSkills) > 0 {
		matched := 0
		for _, skill := range skills {
			for _, js := range jobSkills {
				if strings.EqualFold(js, skill) {
					matched++
					break
				}
			}
		}
		score += float64(matched) / float64(len(jobSkills)) * 40
	}

	// Keyword matching (30 points). Duplicate job tokens count on both sides
	// of the ratio; CV tokens act as a set.
	jobKeywords := tokenize(jobDescription)
	if len(jobKeywords) > 0 {
		cvKeywords := make(map[string]bool)
		for _, kw := range tokenize(cvText) {
			cvKeywords[kw] = true
		}
		matched := 0
		for _, kw := range jobKeywords {
			if cvKeywords[kw] {
				matched++
			}
		}
		score += float64(matched) / float64(len(jobKeywords)) * 30
	}

	// Experience matching (30 points)
	score += 30 // Placeholder

	return int(math.Round(math.Min(score, 100)))
}

// tokenize lowercases and splits on whitespace, keeping tokens longer than
// three characters.
func tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) > 3 {
			out = append(out, f)
		}
	}
	return out
}
