// internal/workers/personality/score-personality/models.go
package scorepersonality

import "career-guidance-workers/internal/models"

type Input struct {
	ProfileID string                       `json:"profileId,omitempty"`
	Responses []models.PersonalityResponse `json:"responses"`
}

type Output struct {
	Profile        models.PersonalityProfile `json:"profile"`
	Scores         map[models.Pathway]int    `json:"scores"`
	DominantTraits []models.Pathway          `json:"dominantTraits"`
}
