package volume

import (
	"fmt"
	"sort"
	"strings"
)

// Diagnostics describe what was left out of a computation and why.
// A degraded result is still a valid result for the entries that were used.
type Diagnostics struct {
	TotalEntries        int      `json:"totalEntries"`
	UsedEntries         int      `json:"usedEntries"`
	UnresolvedEntries   int      `json:"unresolvedEntries"`
	UnresolvedExercises []string `json:"unresolvedExercises,omitempty"`
	MalformedEntries    int      `json:"malformedEntries"`
	InvalidMethod       string   `json:"invalidMethod,omitempty"`
	Warnings            []string `json:"warnings,omitempty"`
}

func (d Diagnostics) Degraded() bool {
	return d.UnresolvedEntries > 0 || d.MalformedEntries > 0 || d.InvalidMethod != ""
}

func (d *Diagnostics) warnf(format string, args ...any) {
	d.Warnings = append(d.Warnings, fmt.Sprintf(format, args...))
}

// markInvalidMethod records an unknown method that was replaced by Total.
func (d *Diagnostics) markInvalidMethod(raw string) {
	d.InvalidMethod = raw
	d.warnf("unknown aggregation method %q, using %s", raw, MethodTotal)
}

func (d *Diagnostics) finish(unresolved map[string]bool) {
	d.UsedEntries = d.TotalEntries - d.UnresolvedEntries - d.MalformedEntries

	if len(unresolved) > 0 {
		d.UnresolvedExercises = make([]string, 0, len(unresolved))
		for name := range unresolved {
			d.UnresolvedExercises = append(d.UnresolvedExercises, name)
		}
		sort.Strings(d.UnresolvedExercises)
		d.warnf(
			"%d entries skipped, exercises not in catalog: %s",
			d.UnresolvedEntries, strings.Join(d.UnresolvedExercises, ", "),
		)
	}
	if d.MalformedEntries > 0 {
		d.warnf("%d entries skipped, missing or invalid set count", d.MalformedEntries)
	}
}
