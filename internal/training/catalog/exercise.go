package catalog

import (
	"strings"
)

type MuscleGroup string

// KnownMuscleGroups is the fixed muscle group universe used when a volume
// summary has to render every group, including the ones with zero sets.
var KnownMuscleGroups = []MuscleGroup{
	"Chest",
	"Front-Shoulder",
	"Middle-Shoulder",
	"Rear-Shoulder",
	"Biceps",
	"Triceps",
	"Forearms",
	"Latissimus Dorsi",
	"Upper Back",
	"Trapezius",
	"Lower Back",
	"Rectus Abdominis",
	"External Obliques",
	"Quadriceps",
	"Hamstrings",
	"Gluteus Maximus",
	"Hip-Adductors",
	"Calves",
}

// ExerciseDefinition is the catalog (reference) data of a single exercise,
// identified by its unique name.
type ExerciseDefinition struct {
	Name            string      `json:"name" yaml:"name"`
	Primary         MuscleGroup `json:"primaryMuscleGroup,omitempty" yaml:"primary"`
	Secondary       MuscleGroup `json:"secondaryMuscleGroup,omitempty" yaml:"secondary"`
	Tertiary        MuscleGroup `json:"tertiaryMuscleGroup,omitempty" yaml:"tertiary"`
	IsolatedMuscles []string    `json:"advancedIsolatedMuscles,omitempty" yaml:"isolated"`

	Utility    string `json:"utility,omitempty" yaml:"utility"`
	Force      string `json:"force,omitempty" yaml:"force"`
	Equipment  string `json:"equipment,omitempty" yaml:"equipment"`
	Mechanic   string `json:"mechanic,omitempty" yaml:"mechanic"`
	Difficulty string `json:"difficulty,omitempty" yaml:"difficulty"`
}

// ParseIsolatedMuscles converts the stored comma separated list of advanced
// isolated muscles into tags. Empty items and duplicates are dropped, the
// order of the first occurrence is kept.
func ParseIsolatedMuscles(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	seen := make(map[string]bool)
	var tags []string
	for _, part := range strings.Split(raw, ",") {
		tag := strings.TrimSpace(part)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}

// normalize trims the muscle group slots and cleans up the isolated tags,
// so the rest of the code can treat an empty string as "absent".
func (d ExerciseDefinition) normalize() ExerciseDefinition {
	d.Primary = MuscleGroup(strings.TrimSpace(string(d.Primary)))
	d.Secondary = MuscleGroup(strings.TrimSpace(string(d.Secondary)))
	d.Tertiary = MuscleGroup(strings.TrimSpace(string(d.Tertiary)))
	if len(d.IsolatedMuscles) > 0 {
		d.IsolatedMuscles = ParseIsolatedMuscles(strings.Join(d.IsolatedMuscles, ","))
	}
	return d
}

// DistinctNames returns the distinct, non-empty names in the order they
// first appear.
func DistinctNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	distinct := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		distinct = append(distinct, n)
	}
	return distinct
}
