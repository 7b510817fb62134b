// internal/workers/assessment/record-assessment/models.go
package recordassessment

import "career-guidance-workers/internal/models"

type Input struct {
	AssessmentID    string                        `json:"assessmentId,omitempty"`
	SessionID       string                        `json:"sessionId,omitempty"`
	Transcript      models.Transcript             `json:"transcript"`
	Profile         models.PersonalityProfile     `json:"profile"`
	Recommendations []models.CareerRecommendation `json:"recommendations"`
	ContactEmail    string                        `json:"contactEmail,omitempty"`
	ContactPhone    string                        `json:"contactPhone,omitempty"`
}

type Output struct {
	AssessmentID string   `json:"assessmentId"`
	RecordedAt   string   `json:"recordedAt"`
	TopMajorIDs  []string `json:"topMajorIds"`
}
