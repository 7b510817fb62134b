// internal/workers/catalog/search-majors/models.go
package searchmajors

import "career-guidance-workers/internal/catalog"

type Input struct {
	Query string `json:"query,omitempty"`
	// Pathways and Difficulty filter with OR semantics inside each list.
	Pathways    []string `json:"pathways,omitempty"`
	Difficulty  []string `json:"difficulty,omitempty"`
	MaxDuration int      `json:"maxDuration,omitempty"`
	// StudentGPA hides majors whose required GPA is above it.
	StudentGPA float64 `json:"studentGpa,omitempty"`
	University string  `json:"university,omitempty"`
	SortBy     string  `json:"sortBy,omitempty"`
	Page       int     `json:"page,omitempty"`
	PageSize   int     `json:"pageSize,omitempty"`
}

type MajorHit struct {
	catalog.MajorDocument
	Score float64 `json:"score"`
}

type Output struct {
	Majors    []MajorHit `json:"majors"`
	TotalHits int        `json:"totalHits"`
	Page      int        `json:"page"`
	PageSize  int        `json:"pageSize"`
	Took      int        `json:"took"`
}

const (
	SortRelevance = "relevance"
	SortSalary    = "salary"
	SortGPA       = "requiredGpa"
	SortDuration  = "duration"
)
