// internal/workers/assessment/manage-assessment-session/models.go
package manageassessmentsession

import "career-guidance-workers/internal/models"

type Input struct {
	SessionID   string                       `json:"sessionId,omitempty"`
	Action      string                       `json:"action"`
	Institution string                       `json:"institution,omitempty"`
	StudentID   string                       `json:"studentId,omitempty"`
	Subjects    []models.Subject             `json:"subjects,omitempty"`
	Responses   []models.PersonalityResponse `json:"responses,omitempty"`
}

type Output struct {
	SessionID       string                        `json:"sessionId"`
	Step            string                        `json:"step"`
	Complete        bool                          `json:"complete"`
	Transcript      *models.Transcript            `json:"transcript,omitempty"`
	Profile         *models.PersonalityProfile    `json:"profile,omitempty"`
	Recommendations []models.CareerRecommendation `json:"recommendations,omitempty"`
}
