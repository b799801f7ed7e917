package volume

import (
	"sort"

	"github.com/2beens/hypertrophytoolbox/internal/training/catalog"
)

type MuscleVolume struct {
	Muscle catalog.MuscleGroup `json:"muscle"`
	Sets   float64             `json:"sets"`
	Classification
}

type IsolatedVolume struct {
	Muscle string  `json:"muscle"`
	Sets   float64 `json:"sets"`
}

// ClassifiedSummary is a VolumeSummary with every muscle group value
// classified, as ordered lists instead of maps.
type ClassifiedSummary struct {
	Method      Method           `json:"method"`
	Direct      []MuscleVolume   `json:"direct"`
	Indirect    []MuscleVolume   `json:"indirect"`
	Isolated    []IsolatedVolume `json:"isolated"`
	Diagnostics Diagnostics      `json:"diagnostics"`
}

type RoutineVolume struct {
	Routine  string           `json:"routine"`
	Direct   []MuscleVolume   `json:"direct"`
	Indirect []MuscleVolume   `json:"indirect"`
	Isolated []IsolatedVolume `json:"isolated"`
}

type SessionSummary struct {
	Method      Method          `json:"method"`
	Routines    []RoutineVolume `json:"routines"`
	Diagnostics Diagnostics     `json:"diagnostics"`
}

func (c *Classifier) ClassifySummary(s VolumeSummary, order []catalog.MuscleGroup) ClassifiedSummary {
	return ClassifiedSummary{
		Method:      s.Method,
		Direct:      c.classifyLedger(s.Direct, RoleDirect, order),
		Indirect:    c.classifyLedger(s.Indirect, RoleIndirect, order),
		Isolated:    isolatedList(s.Isolated),
		Diagnostics: s.Diagnostics,
	}
}

func (c *Classifier) ClassifyRoutines(method Method, routines []RoutineSummary, diag Diagnostics, order []catalog.MuscleGroup) SessionSummary {
	if method == "" {
		method = MethodTotal
	}
	summary := SessionSummary{
		Method:      method,
		Routines:    make([]RoutineVolume, 0, len(routines)),
		Diagnostics: diag,
	}
	for _, r := range routines {
		summary.Routines = append(summary.Routines, RoutineVolume{
			Routine:  r.Routine,
			Direct:   c.classifyLedger(r.Direct, RoleDirect, order),
			Indirect: c.classifyLedger(r.Indirect, RoleIndirect, order),
			Isolated: isolatedList(r.Isolated),
		})
	}
	return summary
}

func (c *Classifier) classifyLedger(ledger map[catalog.MuscleGroup]float64, role Role, order []catalog.MuscleGroup) []MuscleVolume {
	list := make([]MuscleVolume, 0, len(ledger))
	for _, mg := range sortMuscleGroups(ledger, order) {
		sets := ledger[mg]
		list = append(list, MuscleVolume{
			Muscle:         mg,
			Sets:           sets,
			Classification: c.Classify(sets, role),
		})
	}
	return list
}

// sortMuscleGroups orders the ledger keys by their position in order, the
// groups not in order go last, alphabetically.
func sortMuscleGroups(ledger map[catalog.MuscleGroup]float64, order []catalog.MuscleGroup) []catalog.MuscleGroup {
	position := make(map[catalog.MuscleGroup]int, len(order))
	for i, mg := range order {
		if _, ok := position[mg]; !ok {
			position[mg] = i
		}
	}

	keys := make([]catalog.MuscleGroup, 0, len(ledger))
	for mg := range ledger {
		keys = append(keys, mg)
	}
	sort.Slice(keys, func(i, j int) bool {
		pi, iKnown := position[keys[i]]
		pj, jKnown := position[keys[j]]
		switch {
		case iKnown && jKnown:
			return pi < pj
		case iKnown != jKnown:
			return iKnown
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}

func isolatedList(ledger map[string]float64) []IsolatedVolume {
	list := make([]IsolatedVolume, 0, len(ledger))
	for muscle, sets := range ledger {
		list = append(list, IsolatedVolume{Muscle: muscle, Sets: sets})
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Muscle < list[j].Muscle
	})
	return list
}
