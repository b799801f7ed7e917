package volume

import (
	"github.com/2beens/hypertrophytoolbox/internal/training/catalog"
	"github.com/2beens/hypertrophytoolbox/internal/training/entries"
)

type AggregateOptions struct {
	// Method defaults to Total.
	Method Method
	// Weights default to DefaultWeights when left at the zero value.
	// An Isolated weight of 0 turns the isolated muscles ledger off.
	Weights Weights
	// MuscleGroups, when not nil, is the universe every result is zero
	// filled against.
	MuscleGroups []catalog.MuscleGroup
}

// VolumeSummary holds weighted set counts per muscle group and role, plus
// the isolated muscles ledger.
type VolumeSummary struct {
	Method      Method                          `json:"method"`
	Direct      map[catalog.MuscleGroup]float64 `json:"direct"`
	Indirect    map[catalog.MuscleGroup]float64 `json:"indirect"`
	Isolated    map[string]float64              `json:"isolated"`
	Diagnostics Diagnostics                     `json:"diagnostics"`
}

func (o AggregateOptions) withDefaults() AggregateOptions {
	if o.Method == "" {
		o.Method = MethodTotal
	}
	if o.Weights.IsZero() {
		o.Weights = DefaultWeights()
	}
	return o
}

func newVolumeSummary(method Method) VolumeSummary {
	return VolumeSummary{
		Method:   method,
		Direct:   make(map[catalog.MuscleGroup]float64),
		Indirect: make(map[catalog.MuscleGroup]float64),
		Isolated: make(map[string]float64),
	}
}

func (s *VolumeSummary) addGroup(g exerciseGroup, method Method, w Weights) {
	sets := g.sets(method)
	if sets <= 0 {
		return
	}

	addMuscle(s.Direct, g.def.Primary, sets*w.Primary)
	addMuscle(s.Indirect, g.def.Secondary, sets*w.Secondary)
	addMuscle(s.Indirect, g.def.Tertiary, sets*w.Tertiary)

	if w.Isolated > 0 {
		for _, tag := range g.def.IsolatedMuscles {
			if tag == "" {
				continue
			}
			s.Isolated[tag] += sets * w.Isolated
		}
	}
}

func addMuscle(ledger map[catalog.MuscleGroup]float64, mg catalog.MuscleGroup, value float64) {
	if mg == "" || value <= 0 {
		return
	}
	ledger[mg] += value
}

func (s *VolumeSummary) zeroFill(universe []catalog.MuscleGroup) {
	for _, mg := range universe {
		if _, ok := s.Direct[mg]; !ok {
			s.Direct[mg] = 0
		}
		if _, ok := s.Indirect[mg]; !ok {
			s.Indirect[mg] = 0
		}
	}
}

// Aggregate turns entries into weighted set counts. Entries whose exercise
// is missing from defs, and entries with an unusable set count, are skipped
// and reported in the diagnostics. The result only depends on the inputs.
func Aggregate(list []entries.Entry, defs map[string]catalog.ExerciseDefinition, opts AggregateOptions) VolumeSummary {
	opts = opts.withDefaults()
	method := opts.Method

	resolved, diag := resolve(list, defs)

	summary := newVolumeSummary(method)
	for _, g := range groupResolved(resolved) {
		summary.addGroup(g, method, opts.Weights)
	}
	if opts.MuscleGroups != nil {
		summary.zeroFill(opts.MuscleGroups)
	}
	summary.Diagnostics = diag

	return summary
}

// RoutineSummary is the volume of a single routine (session of the plan).
type RoutineSummary struct {
	Routine string `json:"routine"`
	VolumeSummary
}

// AggregateByRoutine runs the same aggregation once per routine. Routines
// are returned sorted by name; diagnostics cover the whole input.
func AggregateByRoutine(list []entries.Entry, defs map[string]catalog.ExerciseDefinition, opts AggregateOptions) ([]RoutineSummary, Diagnostics) {
	opts = opts.withDefaults()
	method := opts.Method

	resolved, diag := resolve(list, defs)

	var summaries []RoutineSummary
	for _, g := range groupResolved(resolved) {
		if len(summaries) == 0 || summaries[len(summaries)-1].Routine != g.routine {
			summaries = append(summaries, RoutineSummary{
				Routine:       g.routine,
				VolumeSummary: newVolumeSummary(method),
			})
		}
		summaries[len(summaries)-1].addGroup(g, method, opts.Weights)
	}

	for i := range summaries {
		if opts.MuscleGroups != nil {
			summaries[i].zeroFill(opts.MuscleGroups)
		}
	}

	return summaries, diag
}
