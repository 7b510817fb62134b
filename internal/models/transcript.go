// internal/models/transcript.go
package models

import "time"

type Subject struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Grade       string `json:"grade" yaml:"grade"`
	CreditHours int    `json:"creditHours" yaml:"creditHours"`
	Semester    string `json:"semester" yaml:"semester"`
	Year        int    `json:"year" yaml:"year"`
}

// Transcript is immutable once built; a modified transcript is a new value.
// GPA only counts subjects with a name and a known grade, while TotalCredits
// is the raw sum of credit hours.
type Transcript struct {
	ID           string    `json:"id"`
	Subjects     []Subject `json:"subjects"`
	GPA          float64   `json:"gpa"`
	TotalCredits int       `json:"totalCredits"`
	Institution  string    `json:"institution"`
	StudentID    string    `json:"studentId"`
	Pathway      Pathway   `json:"pathway,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

type TranscriptValidation struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}
