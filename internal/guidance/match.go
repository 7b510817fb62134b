package guidance

import (
	"math"
	"strings"

	"career-guidance-workers/internal/models"
)

const (
	gpaWeight     = 40.0
	subjectWeight = 40.0
	creditWeight  = 20.0

	// FullCredits earns the whole credit component.
	FullCredits = 30

	academicShare    = 0.4
	personalityShare = 0.3
	alignmentShare   = 0.3
)

// AcademicMatch scores a transcript against a major on 0..100: up to 40 for
// GPA relative to the requirement, 40 for required subject coverage and 20
// for credit volume.
func (e *Engine) AcademicMatch(t models.Transcript, m models.Major) int {
	gpaPart := gpaWeight
	if m.RequiredGPA > 0 {
		gpaPart = math.Min(t.GPA/m.RequiredGPA*gpaWeight, gpaWeight)
	}

	subjectPart := subjectWeight
	if n := len(m.RequiredSubjects); n > 0 {
		subjectPart = float64(n-len(missingSubjects(t.Subjects, m.RequiredSubjects))) / float64(n) * subjectWeight
	}

	creditPart := math.Min(float64(t.TotalCredits)/FullCredits*creditWeight, creditWeight)

	return clampPercent(math.Round(gpaPart + subjectPart + creditPart))
}

// PersonalityMatch is the profile's score for the major's pathway.
func (e *Engine) PersonalityMatch(p models.PersonalityProfile, m models.Major) int {
	return clampPercent(float64(p.Scores[m.Pathway]))
}

func overallMatch(academic, personality, alignment int) int {
	return clampPercent(math.Round(
		float64(academic)*academicShare +
			float64(personality)*personalityShare +
			float64(alignment)*alignmentShare))
}

// missingSubjects lists the required subjects no transcript subject matches,
// in requirement order.
func missingSubjects(subjects []models.Subject, required []string) []string {
	var missing []string
	for _, req := range required {
		found := false
		for _, s := range subjects {
			if subjectMatches(s.Name, req) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, req)
		}
	}
	return missing
}

// unrelatedSubjects lists the transcript subjects that match none of the
// required subjects, in transcript order.
func unrelatedSubjects(subjects []models.Subject, required []string) []string {
	var out []string
	for _, s := range subjects {
		related := false
		for _, req := range required {
			if subjectMatches(s.Name, req) {
				related = true
				break
			}
		}
		if !related {
			out = append(out, s.Name)
		}
	}
	return out
}

// subjectMatches is a case-insensitive substring test in either direction, so
// "Advanced Mathematics" satisfies "Mathematics".
func subjectMatches(taken, required string) bool {
	a := strings.ToLower(strings.TrimSpace(taken))
	b := strings.ToLower(strings.TrimSpace(required))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
