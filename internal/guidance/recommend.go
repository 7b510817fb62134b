package guidance

import (
	"sort"

	"career-guidance-workers/internal/models"

	"github.com/google/uuid"
)

var recommendationNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:career-guidance:recommendation"))

// GenerateRecommendations scores every catalog major and returns them sorted
// by match percentage, best first. Equal matches keep catalog order. The
// transcript's pathway is always re-derived from its subjects.
func (e *Engine) GenerateRecommendations(t models.Transcript, p models.PersonalityProfile) ([]models.CareerRecommendation, error) {
	if err := e.checkResponses(p.Responses); err != nil {
		return nil, err
	}

	pathway := e.ClassifyPathway(t.Subjects)
	recs := make([]models.CareerRecommendation, 0, len(e.catalog.Majors))
	for _, m := range e.catalog.Majors {
		recs = append(recs, e.recommend(t, p, pathway, m))
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].MatchPercentage > recs[j].MatchPercentage
	})
	return recs, nil
}

func (e *Engine) recommend(t models.Transcript, p models.PersonalityProfile, pathway models.Pathway, m models.Major) models.CareerRecommendation {
	academic := e.AcademicMatch(t, m)
	personality := e.PersonalityMatch(p, m)
	alignment := e.PathwayAlignment(pathway, m.Pathway)

	s := scored{
		transcript:  t,
		pathway:     pathway,
		major:       m,
		academic:    academic,
		personality: personality,
		alignment:   alignment,
	}

	return models.CareerRecommendation{
		ID:               recommendationID(t.ID, p.ID, m.ID),
		Major:            m,
		MatchPercentage:  overallMatch(academic, personality, alignment),
		AcademicMatch:    academic,
		PersonalityMatch: personality,
		PathwayAlignment: alignment,
		Explanation:      e.explanation(s),
		Strengths:        e.strengths(s),
		Considerations:   e.considerations(s),
		NextSteps:        nextSteps(s),
	}
}

// recommendationID is stable for the same transcript, profile and major so
// retried jobs produce identical output.
func recommendationID(transcriptID, profileID, majorID string) string {
	return uuid.NewSHA1(recommendationNamespace, []byte(transcriptID+"/"+profileID+"/"+majorID)).String()
}
