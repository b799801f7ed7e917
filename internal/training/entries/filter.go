package entries

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	ErrUnknownFilterKey   = errors.New("unknown filter key")
	ErrInvalidFilterValue = errors.New("invalid filter value")
)

// FilterKey is the closed set of keys entries can be filtered by.
type FilterKey string

const (
	FilterRoutine  FilterKey = "routine"
	FilterExercise FilterKey = "exercise"
	FilterFrom     FilterKey = "from"
	FilterTo       FilterKey = "to"
)

// filterColumns maps every key to the column it filters in each source.
// A missing source entry means the key does not apply to that source.
var filterColumns = map[FilterKey]map[Source]string{
	FilterRoutine:  {SourcePlan: "routine", SourceLog: "routine"},
	FilterExercise: {SourcePlan: "exercise", SourceLog: "exercise"},
	FilterFrom:     {SourceLog: "created_at"},
	FilterTo:       {SourceLog: "created_at"},
}

func FilterKeys() []FilterKey {
	keys := make([]FilterKey, 0, len(filterColumns))
	for k := range filterColumns {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func IsFilterKey(key string) bool {
	_, ok := filterColumns[FilterKey(key)]
	return ok
}

// Filter narrows the entries read from a store. From is inclusive, To is
// exclusive. A date-only "to" value covers that whole day.
type Filter struct {
	Routine  string
	Exercise string
	From     *time.Time
	To       *time.Time
}

func (f Filter) IsEmpty() bool {
	return f.Routine == "" && f.Exercise == "" && f.From == nil && f.To == nil
}

// ParseFilter validates raw key/value pairs (e.g. query params) against the
// known filter keys. Empty values are ignored.
func ParseFilter(raw map[string]string) (Filter, error) {
	var f Filter
	for key, value := range raw {
		value = strings.TrimSpace(value)
		switch FilterKey(key) {
		case FilterRoutine:
			f.Routine = value
		case FilterExercise:
			f.Exercise = value
		case FilterFrom:
			if value == "" {
				continue
			}
			from, _, err := parseFilterTime(value)
			if err != nil {
				return Filter{}, fmt.Errorf("%w: from: %s", ErrInvalidFilterValue, err)
			}
			f.From = &from
		case FilterTo:
			if value == "" {
				continue
			}
			to, dateOnly, err := parseFilterTime(value)
			if err != nil {
				return Filter{}, fmt.Errorf("%w: to: %s", ErrInvalidFilterValue, err)
			}
			if dateOnly {
				to = to.Add(24 * time.Hour)
			}
			f.To = &to
		default:
			return Filter{}, fmt.Errorf("%w: %q", ErrUnknownFilterKey, key)
		}
	}

	if f.From != nil && f.To != nil && !f.From.Before(*f.To) {
		return Filter{}, fmt.Errorf("%w: from must be before to", ErrInvalidFilterValue)
	}

	return f, nil
}

// ValidFor rejects filters using keys that have no column in the source.
func (f Filter) ValidFor(source Source) error {
	var used []FilterKey
	if f.Routine != "" {
		used = append(used, FilterRoutine)
	}
	if f.Exercise != "" {
		used = append(used, FilterExercise)
	}
	if f.From != nil {
		used = append(used, FilterFrom)
	}
	if f.To != nil {
		used = append(used, FilterTo)
	}

	for _, key := range used {
		if _, ok := filterColumns[key][source]; !ok {
			return fmt.Errorf("%w: %q does not apply to source %q", ErrUnknownFilterKey, key, source)
		}
	}
	return nil
}

// Matches is the in-memory equivalent of the store side filtering.
func (f Filter) Matches(e Entry) bool {
	if f.Routine != "" && e.Routine != f.Routine {
		return false
	}
	if f.Exercise != "" && e.Exercise != f.Exercise {
		return false
	}
	if f.From != nil || f.To != nil {
		if e.PerformedAt == nil {
			return false
		}
		if f.From != nil && e.PerformedAt.Before(*f.From) {
			return false
		}
		if f.To != nil && !e.PerformedAt.Before(*f.To) {
			return false
		}
	}
	return true
}

func parseFilterTime(value string) (_ time.Time, dateOnly bool, _ error) {
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("expected %s or RFC3339, got %q", time.DateOnly, value)
	}
	return t, false, nil
}
