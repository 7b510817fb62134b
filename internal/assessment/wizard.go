package assessment

import (
	"fmt"
	"time"

	"career-guidance-workers/internal/guidance"
	"career-guidance-workers/internal/models"

	"github.com/google/uuid"
)

// Command carries the payload of one wizard action. Only the fields the
// action needs are read.
type Command struct {
	Action      Action
	Institution string
	StudentID   string
	Subjects    []models.Subject
	Responses   []models.PersonalityResponse
}

// Wizard applies actions to sessions. It is a linear state machine with two
// ways back: modify_transcript returns to the transcript step and retake
// resets everything.
type Wizard struct {
	engine *guidance.Engine
	now    func() time.Time
	newID  func() string
}

func NewWizard(engine *guidance.Engine) *Wizard {
	return &Wizard{
		engine: engine,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

func (w *Wizard) Apply(s *Session, cmd Command) error {
	var err error
	switch cmd.Action {
	case ActionStart:
		err = w.start(s)
	case ActionSubmitTranscript:
		err = w.submitTranscript(s, cmd)
	case ActionSubmitPersonality:
		err = w.submitPersonality(s, cmd)
	case ActionModifyTranscript:
		err = w.modifyTranscript(s)
	case ActionRetake:
		s.reset()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, cmd.Action)
	}
	if err != nil {
		return err
	}
	s.UpdatedAt = w.now().UTC()
	return nil
}

func (w *Wizard) start(s *Session) error {
	if s.Step != StepWelcome {
		return transitionError(s.Step, ActionStart)
	}
	s.Step = StepTranscript
	return nil
}

func (w *Wizard) submitTranscript(s *Session, cmd Command) error {
	if s.Step != StepTranscript {
		return transitionError(s.Step, ActionSubmitTranscript)
	}
	t, err := w.engine.BuildTranscript(w.newID(), cmd.Institution, cmd.StudentID, cmd.Subjects)
	if err != nil {
		return err
	}
	s.Transcript = &t
	s.Step = StepPersonality
	// A profile kept across modify_transcript is reused straight away.
	return w.recommendIfReady(s)
}

func (w *Wizard) submitPersonality(s *Session, cmd Command) error {
	if s.Step != StepPersonality || s.Transcript == nil {
		return transitionError(s.Step, ActionSubmitPersonality)
	}
	p, err := w.engine.ScorePersonality(w.newID(), cmd.Responses)
	if err != nil {
		return err
	}
	s.Profile = &p
	return w.recommendIfReady(s)
}

func (w *Wizard) modifyTranscript(s *Session) error {
	if s.Step != StepPersonality && s.Step != StepRecommendations {
		return transitionError(s.Step, ActionModifyTranscript)
	}
	s.Transcript = nil
	s.Recommendations = nil
	s.Step = StepTranscript
	return nil
}

func (w *Wizard) recommendIfReady(s *Session) error {
	if s.Transcript == nil || s.Profile == nil {
		return nil
	}
	recs, err := w.engine.GenerateRecommendations(*s.Transcript, *s.Profile)
	if err != nil {
		return err
	}
	s.Recommendations = recs
	s.Step = StepRecommendations
	return nil
}

func transitionError(step Step, action Action) error {
	return fmt.Errorf("%w: cannot %s at step %s", ErrInvalidTransition, action, step)
}
