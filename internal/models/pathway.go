// internal/models/pathway.go
package models

import "fmt"

// Pathway is one of the four REB academic tracks used to classify both
// transcripts and majors.
type Pathway string

const (
	PathwayMathScience1   Pathway = "mathematics_science_1"
	PathwayMathScience2   Pathway = "mathematics_science_2"
	PathwayArtsHumanities Pathway = "arts_humanities"
	PathwayLanguages      Pathway = "languages"
)

// PathwayPriority is the fixed order used whenever pathways must be ranked
// and their scores are equal.
var PathwayPriority = []Pathway{
	PathwayMathScience1,
	PathwayMathScience2,
	PathwayArtsHumanities,
	PathwayLanguages,
}

func (p Pathway) Valid() bool {
	switch p {
	case PathwayMathScience1, PathwayMathScience2, PathwayArtsHumanities, PathwayLanguages:
		return true
	}
	return false
}

func ParsePathway(s string) (Pathway, error) {
	p := Pathway(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown pathway %q", s)
	}
	return p, nil
}

// Difficulty of a major's programme.
type Difficulty string

const (
	DifficultyEasy     Difficulty = "Easy"
	DifficultyMedium   Difficulty = "Medium"
	DifficultyHard     Difficulty = "Hard"
	DifficultyVeryHard Difficulty = "Very Hard"
)

func (d Difficulty) Demanding() bool {
	return d == DifficultyHard || d == DifficultyVeryHard
}
