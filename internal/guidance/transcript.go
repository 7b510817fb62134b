package guidance

import (
	"fmt"
	"math"
	"strings"

	"career-guidance-workers/internal/models"
)

const (
	MinCreditHours = 1
	MaxCreditHours = 6
	MinYear        = 2020
)

// CalculateGPA is the credit-weighted mean grade of the subjects that have a
// name and a known grade, rounded to 2 decimals. Other subjects are skipped;
// callers that need strictness run ValidateTranscript first.
func (e *Engine) CalculateGPA(subjects []models.Subject) float64 {
	var points, credits float64
	for _, s := range subjects {
		if strings.TrimSpace(s.Name) == "" {
			continue
		}
		p, ok := e.catalog.GradePoint(s.Grade)
		if !ok {
			continue
		}
		points += p * float64(s.CreditHours)
		credits += float64(s.CreditHours)
	}
	if credits <= 0 {
		return 0
	}
	return round2(points / credits)
}

// TotalCredits is the raw sum of credit hours, valid or not.
func (e *Engine) TotalCredits(subjects []models.Subject) int {
	total := 0
	for _, s := range subjects {
		total += s.CreditHours
	}
	return total
}

// ValidateTranscript reports every violated rule at once.
func (e *Engine) ValidateTranscript(subjects []models.Subject) models.TranscriptValidation {
	errs := []string{}
	if len(subjects) == 0 {
		errs = append(errs, "At least one subject is required")
	}

	currentYear := e.now().Year()
	for i, s := range subjects {
		label := subjectLabel(i, s)
		if strings.TrimSpace(s.Name) == "" {
			errs = append(errs, fmt.Sprintf("%s: name is required", label))
		}
		if _, ok := e.catalog.GradePoint(s.Grade); !ok {
			errs = append(errs, fmt.Sprintf("%s: grade %q is not a recognised letter grade", label, s.Grade))
		}
		if s.CreditHours < MinCreditHours || s.CreditHours > MaxCreditHours {
			errs = append(errs, fmt.Sprintf("%s: credit hours must be between %d and %d, got %d",
				label, MinCreditHours, MaxCreditHours, s.CreditHours))
		}
		if strings.TrimSpace(s.Semester) == "" {
			errs = append(errs, fmt.Sprintf("%s: semester is required", label))
		}
		if s.Year < MinYear || s.Year > currentYear {
			errs = append(errs, fmt.Sprintf("%s: year must be between %d and %d, got %d",
				label, MinYear, currentYear, s.Year))
		}
	}

	return models.TranscriptValidation{
		IsValid: len(errs) == 0,
		Errors:  errs,
	}
}

// ValidateSubmission is ValidateTranscript plus the institution and student
// ID a transcript needs before it can be submitted.
func (e *Engine) ValidateSubmission(institution, studentID string, subjects []models.Subject) models.TranscriptValidation {
	var errs []string
	if strings.TrimSpace(institution) == "" {
		errs = append(errs, "Institution name is required")
	}
	if strings.TrimSpace(studentID) == "" {
		errs = append(errs, "Student ID is required")
	}
	v := e.ValidateTranscript(subjects)
	errs = append(errs, v.Errors...)
	return models.TranscriptValidation{
		IsValid: len(errs) == 0,
		Errors:  errs,
	}
}

// BuildTranscript validates the submission and derives GPA, total credits and
// pathway. GPA is only ever computed over validated subjects.
func (e *Engine) BuildTranscript(id, institution, studentID string, subjects []models.Subject) (models.Transcript, error) {
	if v := e.ValidateSubmission(institution, studentID, subjects); !v.IsValid {
		return models.Transcript{}, &ProblemsError{Kind: ErrInvalidTranscript, Problems: v.Errors}
	}

	kept := make([]models.Subject, len(subjects))
	for i, s := range subjects {
		s.Name = strings.TrimSpace(s.Name)
		kept[i] = s
	}

	return models.Transcript{
		ID:           id,
		Subjects:     kept,
		GPA:          e.CalculateGPA(kept),
		TotalCredits: e.TotalCredits(kept),
		Institution:  strings.TrimSpace(institution),
		StudentID:    strings.TrimSpace(studentID),
		Pathway:      e.ClassifyPathway(kept),
		CreatedAt:    e.now().UTC(),
	}, nil
}

func subjectLabel(i int, s models.Subject) string {
	if name := strings.TrimSpace(s.Name); name != "" {
		return fmt.Sprintf("Subject %d (%s)", i+1, name)
	}
	return fmt.Sprintf("Subject %d", i+1)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
