package assessment

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"career-guidance-workers/internal/catalog"
	"career-guidance-workers/internal/guidance"
	"career-guidance-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

func newTestWizard(t *testing.T) *Wizard {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	w := NewWizard(guidance.NewEngine(c, guidance.WithClock(func() time.Time { return fixedNow })))
	w.now = func() time.Time { return fixedNow }
	n := 0
	w.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return w
}

func transcriptCmd() Command {
	return Command{
		Action:      ActionSubmitTranscript,
		Institution: "Lycée de Kigali",
		StudentID:   "S-001",
		Subjects: []models.Subject{
			{Name: "Mathematics", Grade: "A", CreditHours: 4, Semester: "Term 1", Year: 2024},
			{Name: "Physics", Grade: "B+", CreditHours: 3, Semester: "Term 1", Year: 2024},
		},
	}
}

func personalityCmd(w *Wizard) Command {
	var responses []models.PersonalityResponse
	for _, q := range w.engine.Catalog().Questions {
		responses = append(responses, models.PersonalityResponse{QuestionID: q.ID, Answer: models.ScaleAnswer(4)})
	}
	return Command{Action: ActionSubmitPersonality, Responses: responses}
}

func TestWizard_HappyPath(t *testing.T) {
	w := newTestWizard(t)
	s := NewSession("s-1", fixedNow)

	require.NoError(t, w.Apply(s, Command{Action: ActionStart}))
	assert.Equal(t, StepTranscript, s.Step)

	require.NoError(t, w.Apply(s, transcriptCmd()))
	assert.Equal(t, StepPersonality, s.Step)
	require.NotNil(t, s.Transcript)
	assert.Equal(t, models.PathwayMathScience1, s.Transcript.Pathway)
	assert.Empty(t, s.Recommendations)

	require.NoError(t, w.Apply(s, personalityCmd(w)))
	assert.Equal(t, StepRecommendations, s.Step)
	assert.True(t, s.Complete())
	assert.Len(t, s.Recommendations, len(w.engine.Catalog().Majors))
}

func TestWizard_InvalidTransitions(t *testing.T) {
	w := newTestWizard(t)

	tests := []struct {
		name  string
		setup []Command
		cmd   Command
	}{
		{name: "transcript before start", cmd: transcriptCmd()},
		{name: "personality before transcript", setup: []Command{{Action: ActionStart}}, cmd: personalityCmd(w)},
		{name: "start twice", setup: []Command{{Action: ActionStart}}, cmd: Command{Action: ActionStart}},
		{name: "modify at welcome", cmd: Command{Action: ActionModifyTranscript}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession("s", fixedNow)
			for _, c := range tt.setup {
				require.NoError(t, w.Apply(s, c))
			}
			err := w.Apply(s, tt.cmd)
			assert.True(t, errors.Is(err, ErrInvalidTransition), "got %v", err)
		})
	}
}

func TestWizard_UnknownAction(t *testing.T) {
	w := newTestWizard(t)
	err := w.Apply(NewSession("s", fixedNow), Command{Action: "jump"})
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestWizard_InvalidTranscriptKeepsStep(t *testing.T) {
	w := newTestWizard(t)
	s := NewSession("s", fixedNow)
	require.NoError(t, w.Apply(s, Command{Action: ActionStart}))

	cmd := transcriptCmd()
	cmd.Subjects[0].Grade = "Z"
	err := w.Apply(s, cmd)

	assert.ErrorIs(t, err, guidance.ErrInvalidTranscript)
	assert.Equal(t, StepTranscript, s.Step)
	assert.Nil(t, s.Transcript)
}

func TestWizard_ModifyTranscriptReusesProfile(t *testing.T) {
	w := newTestWizard(t)
	s := NewSession("s", fixedNow)
	require.NoError(t, w.Apply(s, Command{Action: ActionStart}))
	require.NoError(t, w.Apply(s, transcriptCmd()))
	require.NoError(t, w.Apply(s, personalityCmd(w)))
	profileID := s.Profile.ID

	require.NoError(t, w.Apply(s, Command{Action: ActionModifyTranscript}))
	assert.Equal(t, StepTranscript, s.Step)
	assert.Nil(t, s.Transcript)
	assert.Empty(t, s.Recommendations)
	require.NotNil(t, s.Profile)

	cmd := transcriptCmd()
	cmd.Subjects = []models.Subject{{Name: "English", Grade: "A", CreditHours: 3, Semester: "Term 2", Year: 2024}}
	require.NoError(t, w.Apply(s, cmd))

	assert.Equal(t, StepRecommendations, s.Step)
	assert.Equal(t, profileID, s.Profile.ID)
	assert.Equal(t, models.PathwayLanguages, s.Transcript.Pathway)
	assert.NotEmpty(t, s.Recommendations)
}

func TestWizard_Retake(t *testing.T) {
	w := newTestWizard(t)
	s := NewSession("s", fixedNow)
	require.NoError(t, w.Apply(s, Command{Action: ActionStart}))
	require.NoError(t, w.Apply(s, transcriptCmd()))

	require.NoError(t, w.Apply(s, Command{Action: ActionRetake}))
	assert.Equal(t, StepWelcome, s.Step)
	assert.Nil(t, s.Transcript)
	assert.Nil(t, s.Profile)
	assert.Nil(t, s.Recommendations)
}
