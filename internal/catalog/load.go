// internal/catalog/load.go
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"career-guidance-workers/internal/common/validation"
	"career-guidance-workers/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultDocument []byte

var ErrInvalidCatalog = errors.New("CATALOG_INVALID")

// Default returns the catalog shipped with the binary.
func Default() (*Catalog, error) {
	return Parse(defaultDocument)
}

// DefaultDocument returns a copy of the embedded YAML document.
func DefaultDocument() []byte {
	return bytes.Clone(defaultDocument)
}

func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML (or JSON, which is valid YAML) catalog document and
// validates it. Unknown keys are rejected so typos in field names surface.
func Parse(data []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var c Catalog
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidCatalog, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.index()
	return &c, nil
}

// Validate checks struct tags and the cross-field rules the engine relies on.
func (c *Catalog) Validate() error {
	var problems []string
	if res := validation.ValidateStruct(c); res != nil {
		problems = append(problems, res.GetErrorMessages()...)
	}

	seenLetters := map[string]bool{}
	for _, g := range c.GradeScale {
		if seenLetters[g.Letter] {
			problems = append(problems, fmt.Sprintf("gradeScale: duplicate letter %q", g.Letter))
		}
		seenLetters[g.Letter] = true
	}

	declared := map[models.Pathway]bool{}
	for _, p := range c.Pathways {
		if !p.ID.Valid() {
			problems = append(problems, fmt.Sprintf("pathways: unknown pathway %q", p.ID))
		}
		declared[p.ID] = true
	}

	for _, from := range models.PathwayPriority {
		if !declared[from] {
			problems = append(problems, fmt.Sprintf("pathways: %s is not defined", from))
		}
		row, ok := c.Compatibility[from]
		if !ok {
			problems = append(problems, fmt.Sprintf("compatibility: missing row %s", from))
			continue
		}
		for _, to := range models.PathwayPriority {
			v, ok := row[to]
			switch {
			case !ok:
				problems = append(problems, fmt.Sprintf("compatibility: missing %s -> %s", from, to))
			case v < 0 || v > 100:
				problems = append(problems, fmt.Sprintf("compatibility: %s -> %s must be within [0,100], got %d", from, to, v))
			case from == to && v != 100:
				problems = append(problems, fmt.Sprintf("compatibility: %s -> %s must be 100", from, to))
			}
		}
	}

	perCategory := map[models.Pathway]int{}
	seenQuestions := map[string]bool{}
	for _, q := range c.Questions {
		if seenQuestions[q.ID] {
			problems = append(problems, fmt.Sprintf("questions: duplicate id %q", q.ID))
		}
		seenQuestions[q.ID] = true
		if !q.Category.Valid() {
			problems = append(problems, fmt.Sprintf("questions: %s has unknown category %q", q.ID, q.Category))
		}
		perCategory[q.Category]++
	}
	for _, p := range models.PathwayPriority {
		if perCategory[p] == 0 {
			problems = append(problems, fmt.Sprintf("questions: no question for pathway %s", p))
		}
	}

	seenMajors := map[string]bool{}
	for _, m := range c.Majors {
		if seenMajors[m.ID] {
			problems = append(problems, fmt.Sprintf("majors: duplicate id %q", m.ID))
		}
		seenMajors[m.ID] = true
		if !m.Pathway.Valid() {
			problems = append(problems, fmt.Sprintf("majors: %s has unknown pathway %q", m.ID, m.Pathway))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidCatalog, strings.Join(problems, "; "))
	}
	return nil
}

// Marshal renders the catalog back to YAML, as stored by Store.Publish.
func (c *Catalog) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
