// internal/models/personality.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

type QuestionType string

const (
	QuestionTypeScale   QuestionType = "scale"
	QuestionTypeText    QuestionType = "text"
	QuestionTypeBoolean QuestionType = "boolean"
)

const (
	ScaleMin = 1
	ScaleMax = 5
)

type PersonalityQuestion struct {
	ID       string       `json:"id" yaml:"id" validate:"required"`
	Question string       `json:"question" yaml:"question" validate:"required"`
	Type     QuestionType `json:"type" yaml:"type" validate:"required,oneof=scale text boolean"`
	Category Pathway      `json:"category" yaml:"category" validate:"required"`
	Weight   float64      `json:"weight" yaml:"weight" validate:"gt=0,lte=1"`
}

// Answer is a tagged variant: Kind says which of the value fields is set.
// On the wire it is the bare value (4, "text", true) so that clients can send
// {"questionId": "q1", "answer": 4}.
type Answer struct {
	Kind  QuestionType
	Scale int
	Text  string
	Flag  bool
}

func ScaleAnswer(v int) Answer    { return Answer{Kind: QuestionTypeScale, Scale: v} }
func TextAnswer(v string) Answer  { return Answer{Kind: QuestionTypeText, Text: v} }
func BooleanAnswer(v bool) Answer { return Answer{Kind: QuestionTypeBoolean, Flag: v} }

// Numeric returns the scoreable value of a scale answer.
func (a Answer) Numeric() (float64, bool) {
	if a.Kind != QuestionTypeScale {
		return 0, false
	}
	return float64(a.Scale), true
}

func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.Kind {
	case QuestionTypeScale:
		return json.Marshal(a.Scale)
	case QuestionTypeText:
		return json.Marshal(a.Text)
	case QuestionTypeBoolean:
		return json.Marshal(a.Flag)
	}
	return []byte("null"), nil
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = Answer{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = TextAnswer(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*a = BooleanAnswer(b)
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("answer must be a number, string or boolean: %w", err)
		}
		if f != float64(int(f)) {
			return fmt.Errorf("scale answer must be a whole number, got %v", f)
		}
		*a = ScaleAnswer(int(f))
	}
	return nil
}

type PersonalityResponse struct {
	QuestionID string `json:"questionId"`
	Answer     Answer `json:"answer"`
}

type PersonalityProfile struct {
	ID             string                `json:"id"`
	Responses      []PersonalityResponse `json:"responses"`
	Scores         map[Pathway]int       `json:"scores"`
	DominantTraits []Pathway             `json:"dominantTraits"`
	CompletedAt    time.Time             `json:"completedAt"`
}
