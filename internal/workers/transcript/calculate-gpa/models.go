// internal/workers/transcript/calculate-gpa/models.go
package calculategpa

import "career-guidance-workers/internal/models"

type Input struct {
	TranscriptID string           `json:"transcriptId,omitempty"`
	Institution  string           `json:"institution"`
	StudentID    string           `json:"studentId"`
	Subjects     []models.Subject `json:"subjects"`
}

type Output struct {
	Transcript   models.Transcript `json:"transcript"`
	GPA          float64           `json:"gpa"`
	TotalCredits int               `json:"totalCredits"`
	Pathway      models.Pathway    `json:"pathway"`
}
