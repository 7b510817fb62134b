package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"career-guidance-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "2024.1", c.Version)
	assert.Len(t, c.GradeScale, 12)
	assert.Len(t, c.Pathways, 4)
	assert.Len(t, c.Questions, 14)
	assert.Len(t, c.Majors, 11)

	assert.Equal(t, []string{"A+", "A", "A-", "B+", "B", "B-", "C+", "C", "C-", "D+", "D", "F"}, c.GradeLetters())

	for _, p := range models.PathwayPriority {
		assert.Equal(t, 100, c.CompatibilityScore(p, p), "diagonal for %s", p)
	}
	assert.Equal(t, 70, c.CompatibilityScore(models.PathwayMathScience1, models.PathwayMathScience2))
	assert.Equal(t, 80, c.CompatibilityScore(models.PathwayArtsHumanities, models.PathwayLanguages))
	assert.Equal(t, 80, c.CompatibilityScore(models.PathwayLanguages, models.PathwayArtsHumanities))
	assert.Equal(t, 30, c.CompatibilityScore(models.PathwayMathScience1, models.PathwayLanguages))
}

func TestCatalog_Lookups(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	tests := []struct {
		letter string
		points float64
		ok     bool
	}{
		{"A+", 4.0, true},
		{"A", 4.0, true},
		{"B+", 3.3, true},
		{"C-", 1.7, true},
		{"F", 0.0, true},
		{"b+", 0, false},
		{"E", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		p, ok := c.GradePoint(tt.letter)
		assert.Equal(t, tt.ok, ok, tt.letter)
		assert.InDelta(t, tt.points, p, 1e-9, tt.letter)
	}

	q, ok := c.Question("q13")
	require.True(t, ok)
	assert.Equal(t, models.PathwayLanguages, q.Category)
	assert.Equal(t, models.QuestionTypeScale, q.Type)

	m, ok := c.Major("computer-science")
	require.True(t, ok)
	assert.Equal(t, models.PathwayMathScience1, m.Pathway)
	assert.Equal(t, models.DifficultyHard, m.Difficulty)
	assert.Equal(t, 72000, m.AverageSalary.Entry)

	_, ok = c.Major("astrology")
	assert.False(t, ok)

	assert.Equal(t, "Languages", c.PathwayName(models.PathwayLanguages))
	assert.Equal(t, "unknown", c.PathwayName("unknown"))
	assert.Contains(t, c.Keywords(models.PathwayMathScience2), "agriculture")
}

func TestParse_Invalid(t *testing.T) {
	base := string(DefaultDocument())

	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name:    "not yaml",
			doc:     "version: [",
			wantErr: "decode",
		},
		{
			name:    "unknown field",
			doc:     base + "\nextra: true\n",
			wantErr: "decode",
		},
		{
			name:    "missing version",
			doc:     strings.Replace(base, `version: "2024.1"`, `version: ""`, 1),
			wantErr: "Version: is required",
		},
		{
			name:    "diagonal not 100",
			doc:     strings.Replace(base, "    languages: 100", "    languages: 90", 1),
			wantErr: "languages -> languages must be 100",
		},
		{
			name:    "duplicate grade letter",
			doc:     strings.Replace(base, `{ letter: "A-", points: 3.7 }`, `{ letter: "A", points: 3.7 }`, 1),
			wantErr: `duplicate letter "A"`,
		},
		{
			name:    "grade points above 4",
			doc:     strings.Replace(base, `{ letter: "A+", points: 4.0 }`, `{ letter: "A+", points: 4.3 }`, 1),
			wantErr: "GradeScale[0].Points",
		},
		{
			name:    "unknown major pathway",
			doc:     strings.Replace(base, "rebPathway: languages", "rebPathway: music", 1),
			wantErr: `unknown pathway "music"`,
		},
		{
			name:    "bad difficulty",
			doc:     strings.Replace(base, "difficulty: Easy", "difficulty: Trivial", 1),
			wantErr: "Difficulty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse([]byte(tt.doc))
			assert.Nil(t, c)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidCatalog)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	doc := strings.Replace(string(DefaultDocument()), `version: "2024.1"`, `version: "2025.2"`, 1)
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "2025.2", c.Version)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestCatalog_MarshalRoundTrip(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	data, err := c.Marshal()
	require.NoError(t, err)

	again, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, c.Majors, again.Majors)
	assert.Equal(t, c.Compatibility, again.Compatibility)
}
