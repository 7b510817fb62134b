// internal/workers/recommendation/generate-recommendations/models.go
package generaterecommendations

import "career-guidance-workers/internal/models"

type Input struct {
	Transcript models.Transcript         `json:"transcript"`
	Profile    models.PersonalityProfile `json:"profile"`
	// Limit trims the list written back to the process; 0 keeps every major.
	Limit int `json:"limit,omitempty"`
}

type Output struct {
	Recommendations []models.CareerRecommendation `json:"recommendations"`
	TopMatch        *models.CareerRecommendation  `json:"topMatch,omitempty"`
	TotalMajors     int                           `json:"totalMajors"`
	Pathway         models.Pathway                `json:"pathway"`
	Cached          bool                          `json:"cached"`
}
