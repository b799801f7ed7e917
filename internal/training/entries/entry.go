package entries

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrUnknownSource = errors.New("unknown entries source")

// Source tells which store an entry comes from: the workout plan
// (user_selection) or the workout log.
type Source string

const (
	SourcePlan Source = "plan"
	SourceLog  Source = "log"
)

// ParseSource maps the user facing source name. Empty means the plan.
func ParseSource(s string) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "plan", "workout_plan":
		return SourcePlan, nil
	case "log", "workout_log":
		return SourceLog, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSource, s)
	}
}

// Entry is a single planned or logged exercise. Sets is nil when the stored
// set count is missing or not a number.
type Entry struct {
	ID       int     `json:"id"`
	Source   Source  `json:"source"`
	Routine  string  `json:"routine"`
	Exercise string  `json:"exercise"`
	Sets     *int    `json:"sets"`
	MinReps  int     `json:"minReps,omitempty"`
	MaxReps  int     `json:"maxReps,omitempty"`
	RIR      int     `json:"rir,omitempty"`
	Weight   float64 `json:"weight,omitempty"`

	// Session identifies one performed training session. Log entries get
	// the day they were performed. Plan entries have none, each plan row
	// counts on its own.
	Session     string     `json:"session,omitempty"`
	PerformedAt *time.Time `json:"performedAt,omitempty"`
}

// SetCount returns the set count of a well formed entry.
func (e Entry) SetCount() (int, bool) {
	if e.Sets == nil || *e.Sets < 0 {
		return 0, false
	}
	return *e.Sets, true
}

// SessionKey is the session an entry performed at t belongs to.
func SessionKey(t time.Time) string {
	return t.UTC().Truncate(24 * time.Hour).Format(time.DateOnly)
}

func IntPtr(i int) *int {
	return &i
}
