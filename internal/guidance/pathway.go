package guidance

import (
	"strings"

	"career-guidance-workers/internal/models"
)

// ClassifyPathway counts, per pathway, the subjects whose name contains one of
// the pathway's keywords. A subject can count for several pathways. Ties go
// to mathematics_science_1, then mathematics_science_2, then languages; a
// pathway needs at least one hit to win, so arts_humanities is the fallback.
func (e *Engine) ClassifyPathway(subjects []models.Subject) models.Pathway {
	counts := e.pathwayCounts(subjects)
	ms1 := counts[models.PathwayMathScience1]
	ms2 := counts[models.PathwayMathScience2]
	arts := counts[models.PathwayArtsHumanities]
	lang := counts[models.PathwayLanguages]

	switch {
	case ms1 > 0 && ms1 >= ms2 && ms1 >= arts && ms1 >= lang:
		return models.PathwayMathScience1
	case ms2 > 0 && ms2 >= arts && ms2 >= lang:
		return models.PathwayMathScience2
	case lang > 0 && lang >= arts:
		return models.PathwayLanguages
	default:
		return models.PathwayArtsHumanities
	}
}

func (e *Engine) pathwayCounts(subjects []models.Subject) map[models.Pathway]int {
	counts := make(map[models.Pathway]int, len(models.PathwayPriority))
	for _, s := range subjects {
		name := strings.ToLower(s.Name)
		if strings.TrimSpace(name) == "" {
			continue
		}
		for _, p := range models.PathwayPriority {
			for _, kw := range e.catalog.Keywords(p) {
				if strings.Contains(name, strings.ToLower(kw)) {
					counts[p]++
					break
				}
			}
		}
	}
	return counts
}

// PathwayAlignment is 100 for the same pathway; otherwise the catalog's
// compatibility matrix decides.
func (e *Engine) PathwayAlignment(transcriptPathway, majorPathway models.Pathway) int {
	if transcriptPathway == majorPathway {
		return 100
	}
	return e.catalog.CompatibilityScore(transcriptPathway, majorPathway)
}
