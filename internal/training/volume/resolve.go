package volume

import (
	"sort"
	"strconv"

	"github.com/2beens/hypertrophytoolbox/internal/training/catalog"
	"github.com/2beens/hypertrophytoolbox/internal/training/entries"
)

type resolvedEntry struct {
	entry entries.Entry
	def   catalog.ExerciseDefinition
	sets  int
}

// resolve pairs every entry with its exercise definition. Entries with an
// unknown exercise or an unusable set count are dropped and counted.
func resolve(list []entries.Entry, defs map[string]catalog.ExerciseDefinition) ([]resolvedEntry, Diagnostics) {
	diag := Diagnostics{TotalEntries: len(list)}
	unresolved := make(map[string]bool)

	resolved := make([]resolvedEntry, 0, len(list))
	for _, e := range list {
		def, ok := defs[e.Exercise]
		if !ok {
			diag.UnresolvedEntries++
			unresolved[e.Exercise] = true
			continue
		}
		sets, ok := e.SetCount()
		if !ok {
			diag.MalformedEntries++
			continue
		}
		resolved = append(resolved, resolvedEntry{entry: e, def: def, sets: sets})
	}

	diag.finish(unresolved)
	return resolved, diag
}

// exerciseGroup holds all entries of one routine/exercise pair. Every plan
// row is an occurrence of its own, log entries are summed per session.
type exerciseGroup struct {
	routine     string
	exercise    string
	def         catalog.ExerciseDefinition
	occurrences map[string]int
	// largest single entry
	largest int
}

// sets combines the occurrences with the given method. Max keeps the
// largest single entry.
func (g exerciseGroup) sets(method Method) float64 {
	if len(g.occurrences) == 0 {
		return 0
	}

	var total int
	for _, s := range g.occurrences {
		total += s
	}

	switch method {
	case MethodAverage:
		return float64(total) / float64(len(g.occurrences))
	case MethodMax:
		return float64(g.largest)
	default:
		return float64(total)
	}
}

func occurrenceKey(e entries.Entry, i int) string {
	if e.Session != "" {
		return "session:" + e.Session
	}
	return "row:" + strconv.Itoa(i)
}

// groupResolved groups entries by routine and exercise. Groups come back
// sorted, so float sums over them do not depend on the input order.
func groupResolved(resolved []resolvedEntry) []exerciseGroup {
	type groupKey struct {
		routine  string
		exercise string
	}

	byKey := make(map[groupKey]*exerciseGroup)
	for i, r := range resolved {
		key := groupKey{routine: r.entry.Routine, exercise: r.entry.Exercise}
		g, ok := byKey[key]
		if !ok {
			g = &exerciseGroup{
				routine:     key.routine,
				exercise:    key.exercise,
				def:         r.def,
				occurrences: make(map[string]int),
			}
			byKey[key] = g
		}
		g.occurrences[occurrenceKey(r.entry, i)] += r.sets
		if r.sets > g.largest {
			g.largest = r.sets
		}
	}

	groups := make([]exerciseGroup, 0, len(byKey))
	for _, g := range byKey {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].routine != groups[j].routine {
			return groups[i].routine < groups[j].routine
		}
		return groups[i].exercise < groups[j].exercise
	})

	return groups
}
