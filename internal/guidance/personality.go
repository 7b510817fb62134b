package guidance

import (
	"fmt"
	"math"
	"sort"

	"career-guidance-workers/internal/models"
)

// checkResponses returns nil when every catalog question has exactly one
// answer of the right kind. Unknown, duplicate or out-of-range answers make
// the error an ErrInvalidResponse; missing answers alone an ErrIncompleteProfile.
func (e *Engine) checkResponses(responses []models.PersonalityResponse) error {
	var invalid, missing []string
	seen := make(map[string]bool, len(responses))

	for _, r := range responses {
		q, ok := e.catalog.Question(r.QuestionID)
		if !ok {
			invalid = append(invalid, fmt.Sprintf("unknown question %q", r.QuestionID))
			continue
		}
		if seen[q.ID] {
			invalid = append(invalid, fmt.Sprintf("question %s answered more than once", q.ID))
			continue
		}
		seen[q.ID] = true

		if r.Answer.Kind == "" {
			missing = append(missing, fmt.Sprintf("question %s is unanswered", q.ID))
			continue
		}
		if r.Answer.Kind != q.Type {
			invalid = append(invalid, fmt.Sprintf("question %s expects a %s answer, got %s", q.ID, q.Type, r.Answer.Kind))
			continue
		}
		if v, ok := r.Answer.Numeric(); ok && (v < models.ScaleMin || v > models.ScaleMax) {
			invalid = append(invalid, fmt.Sprintf("question %s answer must be between %d and %d, got %v",
				q.ID, models.ScaleMin, models.ScaleMax, v))
		}
	}

	for _, q := range e.catalog.Questions {
		if !seen[q.ID] {
			missing = append(missing, fmt.Sprintf("question %s is unanswered", q.ID))
		}
	}

	switch {
	case len(invalid) > 0:
		return &ProblemsError{Kind: ErrInvalidResponse, Problems: append(invalid, missing...)}
	case len(missing) > 0:
		return &ProblemsError{Kind: ErrIncompleteProfile, Problems: missing}
	}
	return nil
}

// ScorePersonality sums the weighted scale answers of each pathway's
// questions, divides by the number of answers rather than the total weight,
// maps the result onto 0..100 and picks the two strongest pathways as
// dominant traits.
func (e *Engine) ScorePersonality(id string, responses []models.PersonalityResponse) (models.PersonalityProfile, error) {
	if err := e.checkResponses(responses); err != nil {
		return models.PersonalityProfile{}, err
	}

	sums := make(map[models.Pathway]float64, len(models.PathwayPriority))
	counts := make(map[models.Pathway]int, len(models.PathwayPriority))
	for _, r := range responses {
		q, _ := e.catalog.Question(r.QuestionID)
		v, ok := r.Answer.Numeric()
		if !ok {
			continue
		}
		sums[q.Category] += v * q.Weight
		counts[q.Category]++
	}

	scores := make(map[models.Pathway]int, len(models.PathwayPriority))
	for _, p := range models.PathwayPriority {
		if counts[p] == 0 {
			scores[p] = 0
			continue
		}
		scores[p] = clampPercent(math.Round(sums[p] / float64(counts[p]) * 20))
	}

	kept := make([]models.PersonalityResponse, len(responses))
	copy(kept, responses)

	return models.PersonalityProfile{
		ID:             id,
		Responses:      kept,
		Scores:         scores,
		DominantTraits: DominantTraits(scores),
		CompletedAt:    e.now().UTC(),
	}, nil
}

// DominantTraits returns the two highest-scoring pathways, ties broken by
// PathwayPriority.
func DominantTraits(scores map[models.Pathway]int) []models.Pathway {
	ranked := make([]models.Pathway, len(models.PathwayPriority))
	copy(ranked, models.PathwayPriority)
	sort.SliceStable(ranked, func(i, j int) bool {
		return scores[ranked[i]] > scores[ranked[j]]
	})
	return ranked[:2]
}

func clampPercent(v float64) int {
	return int(math.Max(0, math.Min(100, v)))
}
