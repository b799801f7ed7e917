package volume

import (
	"sort"
	"strings"

	"github.com/2beens/hypertrophytoolbox/internal/training/catalog"
	"github.com/2beens/hypertrophytoolbox/internal/training/entries"
)

const unspecifiedCategory = "Unspecified"

type CategoryDimension string

const (
	DimensionMechanic   CategoryDimension = "mechanic"
	DimensionForce      CategoryDimension = "force"
	DimensionEquipment  CategoryDimension = "equipment"
	DimensionDifficulty CategoryDimension = "difficulty"
	DimensionUtility    CategoryDimension = "utility"
)

var CategoryDimensions = []CategoryDimension{
	DimensionMechanic,
	DimensionForce,
	DimensionEquipment,
	DimensionDifficulty,
	DimensionUtility,
}

func (d CategoryDimension) value(def catalog.ExerciseDefinition) string {
	var v string
	switch d {
	case DimensionMechanic:
		v = def.Mechanic
	case DimensionForce:
		v = def.Force
	case DimensionEquipment:
		v = def.Equipment
	case DimensionDifficulty:
		v = def.Difficulty
	case DimensionUtility:
		v = def.Utility
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return unspecifiedCategory
	}
	return v
}

var categoryTooltips = map[string]string{
	"Compound":     "Multi-joint movement that trains several muscle groups at once.",
	"Isolated":     "Single-joint movement that targets one muscle group.",
	"Push":         "Moves the load away from the body.",
	"Pull":         "Moves the load towards the body.",
	"Hold":         "Static contraction against a load.",
	"Basic":        "Main lift that can carry most of the training load.",
	"Auxiliary":    "Accessory lift supporting the main lifts.",
	"Beginner":     "Low technical demand.",
	"Intermediate": "Needs some lifting experience.",
	"Advanced":     "High technical demand, for experienced lifters.",
	"Barbell":      "Free weight with a long bar.",
	"Dumbbell":     "Free weight held in each hand.",
	"Cable":        "Constant tension through a pulley.",
	"Machine":      "Guided path of motion.",
	"Bodyweight":   "Body mass is the load.",
}

func categoryTooltip(value string) string {
	if value == unspecifiedCategory {
		return "Not specified in the exercise catalog."
	}
	return categoryTooltips[value]
}

// subcategoryTooltip describes a combined Mechanic/Force key.
func subcategoryTooltip(mechanic, force string) string {
	var parts []string
	for _, v := range []string{mechanic, force} {
		if t := categoryTooltip(v); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

type CategoryBucket struct {
	Key     string `json:"key"`
	Entries int    `json:"entries"`
	Sets    int    `json:"sets"`
	Tooltip string `json:"tooltip,omitempty"`
}

type DimensionSummary struct {
	Dimension CategoryDimension `json:"dimension"`
	Buckets   []CategoryBucket  `json:"buckets"`
}

type CategorySummary struct {
	// Combined is keyed by "Mechanic/Force", e.g. "Compound/Push".
	Combined    []CategoryBucket   `json:"combined"`
	Dimensions  []DimensionSummary `json:"dimensions"`
	Diagnostics Diagnostics        `json:"diagnostics"`
}

// Counts returns the number of entries per combined category key.
func (s CategorySummary) Counts() map[string]int {
	counts := make(map[string]int, len(s.Combined))
	for _, b := range s.Combined {
		counts[b.Key] = b.Entries
	}
	return counts
}

type bucketAccumulator map[string]*CategoryBucket

func (acc bucketAccumulator) add(key, tooltip string, sets int) {
	b, ok := acc[key]
	if !ok {
		b = &CategoryBucket{Key: key, Tooltip: tooltip}
		acc[key] = b
	}
	b.Entries++
	b.Sets += sets
}

func (acc bucketAccumulator) sorted() []CategoryBucket {
	buckets := make([]CategoryBucket, 0, len(acc))
	for _, b := range acc {
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Key < buckets[j].Key
	})
	return buckets
}

// SummarizeCategories counts resolved entries and their raw sets per exercise
// category. Unresolved and malformed entries are skipped the same way
// Aggregate skips them.
func SummarizeCategories(list []entries.Entry, defs map[string]catalog.ExerciseDefinition) CategorySummary {
	resolved, diag := resolve(list, defs)

	combined := make(bucketAccumulator)
	perDimension := make(map[CategoryDimension]bucketAccumulator, len(CategoryDimensions))
	for _, d := range CategoryDimensions {
		perDimension[d] = make(bucketAccumulator)
	}

	for _, r := range resolved {
		mechanic := DimensionMechanic.value(r.def)
		force := DimensionForce.value(r.def)
		combined.add(mechanic+"/"+force, subcategoryTooltip(mechanic, force), r.sets)

		for _, d := range CategoryDimensions {
			v := d.value(r.def)
			perDimension[d].add(v, categoryTooltip(v), r.sets)
		}
	}

	summary := CategorySummary{
		Combined:    combined.sorted(),
		Dimensions:  make([]DimensionSummary, 0, len(CategoryDimensions)),
		Diagnostics: diag,
	}
	for _, d := range CategoryDimensions {
		summary.Dimensions = append(summary.Dimensions, DimensionSummary{
			Dimension: d,
			Buckets:   perDimension[d].sorted(),
		})
	}

	return summary
}

type IsolatedMuscle struct {
	Muscle    string   `json:"muscle"`
	Exercises []string `json:"exercises"`
	Sets      float64  `json:"sets"`
}

type IsolatedSummary struct {
	Method      Method           `json:"method"`
	Muscles     []IsolatedMuscle `json:"muscles"`
	Diagnostics Diagnostics      `json:"diagnostics"`
}

// Counts returns the number of distinct exercises per isolated muscle.
func (s IsolatedSummary) Counts() map[string]int {
	counts := make(map[string]int, len(s.Muscles))
	for _, m := range s.Muscles {
		counts[m.Muscle] = len(m.Exercises)
	}
	return counts
}

// SummarizeIsolated breaks down the advanced isolated muscle tags: the
// distinct exercises hitting each tag and their weighted sets, combined with
// the same method as Aggregate. Like the isolated ledger of Aggregate, the
// breakdown is empty when the isolated weight is 0.
func SummarizeIsolated(list []entries.Entry, defs map[string]catalog.ExerciseDefinition, opts AggregateOptions) IsolatedSummary {
	opts = opts.withDefaults()
	method := opts.Method

	resolved, diag := resolve(list, defs)

	byMuscle := make(map[string]*IsolatedMuscle)
	seen := make(map[string]map[string]bool)
	var groups []exerciseGroup
	if opts.Weights.Isolated > 0 {
		groups = groupResolved(resolved)
	}
	for _, g := range groups {
		sets := g.sets(method) * opts.Weights.Isolated
		for _, tag := range g.def.IsolatedMuscles {
			if tag == "" {
				continue
			}
			m, ok := byMuscle[tag]
			if !ok {
				m = &IsolatedMuscle{Muscle: tag}
				byMuscle[tag] = m
				seen[tag] = make(map[string]bool)
			}
			if sets > 0 {
				m.Sets += sets
			}
			if !seen[tag][g.exercise] {
				seen[tag][g.exercise] = true
				m.Exercises = append(m.Exercises, g.exercise)
			}
		}
	}

	summary := IsolatedSummary{
		Method:      method,
		Muscles:     make([]IsolatedMuscle, 0, len(byMuscle)),
		Diagnostics: diag,
	}
	for _, m := range byMuscle {
		sort.Strings(m.Exercises)
		summary.Muscles = append(summary.Muscles, *m)
	}
	sort.Slice(summary.Muscles, func(i, j int) bool {
		return summary.Muscles[i].Muscle < summary.Muscles[j].Muscle
	})

	return summary
}
