// Package guidance scores a student's transcript and personality profile
// against the majors of a catalog and produces ranked, explained
// recommendations. Every function is pure: results depend only on the
// arguments, the catalog and (for transcript validation) the clock.
package guidance

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"career-guidance-workers/internal/catalog"
)

var (
	ErrInvalidTranscript = errors.New("TRANSCRIPT_INVALID")
	ErrIncompleteProfile = errors.New("PROFILE_INCOMPLETE")
	ErrInvalidResponse   = errors.New("INVALID_RESPONSE")
)

// ProblemsError carries every rule a submission violated. errors.Is matches
// the sentinel it wraps.
type ProblemsError struct {
	Kind     error
	Problems []string
}

func (e *ProblemsError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, strings.Join(e.Problems, "; "))
}

func (e *ProblemsError) Unwrap() error {
	return e.Kind
}

type Engine struct {
	catalog *catalog.Catalog
	now     func() time.Time
}

type Option func(*Engine)

// WithClock replaces time.Now, which decides the latest acceptable transcript
// year and the timestamps of built transcripts and profiles.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func NewEngine(c *catalog.Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog: c,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}
