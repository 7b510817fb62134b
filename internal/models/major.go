// internal/models/major.go
package models

type SalaryBands struct {
	Entry  int `json:"entry" yaml:"entry" validate:"gte=0"`
	Mid    int `json:"mid" yaml:"mid" validate:"gtefield=Entry"`
	Senior int `json:"senior" yaml:"senior" validate:"gtefield=Mid"`
}

type Major struct {
	ID                  string      `json:"id" yaml:"id" validate:"required"`
	Name                string      `json:"name" yaml:"name" validate:"required"`
	Description         string      `json:"description" yaml:"description"`
	RequiredGPA         float64     `json:"requiredGPA" yaml:"requiredGPA" validate:"gte=0,lte=4"`
	RequiredSubjects    []string    `json:"requiredSubjects" yaml:"requiredSubjects"`
	RelatedCareers      []string    `json:"relatedCareers" yaml:"relatedCareers" validate:"min=1"`
	Pathway             Pathway     `json:"rebPathway" yaml:"rebPathway" validate:"required"`
	Difficulty          Difficulty  `json:"difficulty" yaml:"difficulty" validate:"required,oneof=Easy Medium Hard 'Very Hard'"`
	Duration            int         `json:"duration" yaml:"duration" validate:"gte=1,lte=8"`
	AverageSalary       SalaryBands `json:"averageSalary" yaml:"averageSalary"`
	RwandanUniversities []string    `json:"rwandanUniversities" yaml:"rwandanUniversities"`
}

// CareerRecommendation is derived on every run and never updated in place.
type CareerRecommendation struct {
	ID               string   `json:"id"`
	Major            Major    `json:"major"`
	MatchPercentage  int      `json:"matchPercentage"`
	AcademicMatch    int      `json:"academicMatch"`
	PersonalityMatch int      `json:"personalityMatch"`
	PathwayAlignment int      `json:"pathwayAlignment"`
	Explanation      string   `json:"explanation"`
	Strengths        []string `json:"strengths"`
	Considerations   []string `json:"considerations"`
	NextSteps        []string `json:"nextSteps"`
}
