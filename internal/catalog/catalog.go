// internal/catalog/catalog.go
package catalog

import (
	"career-guidance-workers/internal/models"
)

// GradeEntry maps a letter grade to its GPA points.
type GradeEntry struct {
	Letter string  `json:"letter" yaml:"letter" validate:"required"`
	Points float64 `json:"points" yaml:"points" validate:"gte=0,lte=4"`
}

type PathwayDefinition struct {
	ID       models.Pathway `json:"id" yaml:"id" validate:"required"`
	Name     string         `json:"name" yaml:"name" validate:"required"`
	Keywords []string       `json:"keywords" yaml:"keywords" validate:"min=1,dive,required"`
}

// Catalog is the versioned reference data the engine scores against: the
// grade table, pathway definitions, the pathway compatibility matrix, the
// personality questionnaire and the majors. It is read-only after Parse.
type Catalog struct {
	Version       string                                    `json:"version" yaml:"version" validate:"required"`
	GradeScale    []GradeEntry                              `json:"gradeScale" yaml:"gradeScale" validate:"min=1,dive"`
	Pathways      []PathwayDefinition                       `json:"pathways" yaml:"pathways" validate:"len=4,dive"`
	Compatibility map[models.Pathway]map[models.Pathway]int `json:"compatibility" yaml:"compatibility" validate:"len=4"`
	Questions     []models.PersonalityQuestion              `json:"questions" yaml:"questions" validate:"min=1,dive"`
	Majors        []models.Major                            `json:"majors" yaml:"majors" validate:"min=1,dive"`

	points    map[string]float64
	pathways  map[models.Pathway]PathwayDefinition
	questions map[string]models.PersonalityQuestion
	majors    map[string]int
}

func (c *Catalog) index() {
	c.points = make(map[string]float64, len(c.GradeScale))
	for _, g := range c.GradeScale {
		c.points[g.Letter] = g.Points
	}
	c.pathways = make(map[models.Pathway]PathwayDefinition, len(c.Pathways))
	for _, p := range c.Pathways {
		c.pathways[p.ID] = p
	}
	c.questions = make(map[string]models.PersonalityQuestion, len(c.Questions))
	for _, q := range c.Questions {
		c.questions[q.ID] = q
	}
	c.majors = make(map[string]int, len(c.Majors))
	for i, m := range c.Majors {
		c.majors[m.ID] = i
	}
}

// GradePoint looks up a letter grade. Letters are matched exactly ("B+" not "b+").
func (c *Catalog) GradePoint(letter string) (float64, bool) {
	p, ok := c.points[letter]
	return p, ok
}

func (c *Catalog) GradeLetters() []string {
	out := make([]string, len(c.GradeScale))
	for i, g := range c.GradeScale {
		out[i] = g.Letter
	}
	return out
}

func (c *Catalog) Pathway(id models.Pathway) (PathwayDefinition, bool) {
	p, ok := c.pathways[id]
	return p, ok
}

// PathwayName returns the display name, falling back to the identifier.
func (c *Catalog) PathwayName(id models.Pathway) string {
	if p, ok := c.pathways[id]; ok {
		return p.Name
	}
	return string(id)
}

func (c *Catalog) Keywords(id models.Pathway) []string {
	return c.pathways[id].Keywords
}

func (c *Catalog) Question(id string) (models.PersonalityQuestion, bool) {
	q, ok := c.questions[id]
	return q, ok
}

func (c *Catalog) Major(id string) (models.Major, bool) {
	i, ok := c.majors[id]
	if !ok {
		return models.Major{}, false
	}
	return c.Majors[i], true
}

// CompatibilityScore is the raw matrix lookup; it does not special-case from == to.
func (c *Catalog) CompatibilityScore(from, to models.Pathway) int {
	return c.Compatibility[from][to]
}
