// internal/workers/transcript/validate-transcript/models.go
package validatetranscript

import "career-guidance-workers/internal/models"

type Input struct {
	Institution string           `json:"institution"`
	StudentID   string           `json:"studentId"`
	Subjects    []models.Subject `json:"subjects"`
}

type Output struct {
	IsValid      bool     `json:"isValid"`
	Errors       []string `json:"errors"`
	SubjectCount int      `json:"subjectCount"`
}
