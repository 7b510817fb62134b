// Package assessment drives the four-step assessment wizard and keeps its
// state between worker invocations.
package assessment

import (
	"errors"
	"time"

	"career-guidance-workers/internal/models"
)

type Step string

const (
	StepWelcome         Step = "welcome"
	StepTranscript      Step = "transcript"
	StepPersonality     Step = "personality"
	StepRecommendations Step = "recommendations"
)

type Action string

const (
	ActionStart             Action = "start"
	ActionSubmitTranscript  Action = "submit_transcript"
	ActionSubmitPersonality Action = "submit_personality"
	ActionModifyTranscript  Action = "modify_transcript"
	ActionRetake            Action = "retake"
)

var (
	ErrInvalidTransition = errors.New("INVALID_SESSION_TRANSITION")
	ErrSessionNotFound   = errors.New("SESSION_NOT_FOUND")
	ErrUnknownAction     = errors.New("UNKNOWN_ACTION")
)

// Session is the wizard state of one student's assessment run.
type Session struct {
	ID              string                        `json:"id"`
	Step            Step                          `json:"step"`
	Transcript      *models.Transcript            `json:"transcript,omitempty"`
	Profile         *models.PersonalityProfile    `json:"profile,omitempty"`
	Recommendations []models.CareerRecommendation `json:"recommendations,omitempty"`
	CreatedAt       time.Time                     `json:"createdAt"`
	UpdatedAt       time.Time                     `json:"updatedAt"`
}

func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		Step:      StepWelcome,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Complete reports whether recommendations have been produced.
func (s *Session) Complete() bool {
	return s.Step == StepRecommendations && s.Transcript != nil && s.Profile != nil
}

func (s *Session) reset() {
	s.Step = StepWelcome
	s.Transcript = nil
	s.Profile = nil
	s.Recommendations = nil
}
