package volume

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

type VolumeRow struct {
	Muscle string  `json:"muscle"`
	Role   string  `json:"role"`
	Sets   float64 `json:"sets"`
	Class  Class   `json:"class,omitempty"`
	Label  string  `json:"label,omitempty"`
}

type CategoryRow struct {
	Dimension string `json:"dimension"`
	Key       string `json:"key"`
	Entries   int    `json:"entries"`
	Sets      int    `json:"sets"`
	Tooltip   string `json:"tooltip,omitempty"`
}

type IsolatedRow struct {
	Muscle    string  `json:"muscle"`
	Exercises int     `json:"exercises"`
	Sets      float64 `json:"sets"`
}

// isolatedRole marks isolated muscle rows in the volume table.
const isolatedRole = "isolated"

func (s ClassifiedSummary) Rows() []VolumeRow {
	rows := make([]VolumeRow, 0, len(s.Direct)+len(s.Indirect)+len(s.Isolated))
	rows = appendMuscleRows(rows, s.Direct, RoleDirect)
	rows = appendMuscleRows(rows, s.Indirect, RoleIndirect)
	for _, iso := range s.Isolated {
		rows = append(rows, VolumeRow{Muscle: iso.Muscle, Role: isolatedRole, Sets: iso.Sets})
	}
	return rows
}

func appendMuscleRows(rows []VolumeRow, list []MuscleVolume, role Role) []VolumeRow {
	for _, mv := range list {
		rows = append(rows, VolumeRow{
			Muscle: string(mv.Muscle),
			Role:   string(role),
			Sets:   mv.Sets,
			Class:  mv.Class,
			Label:  mv.Label,
		})
	}
	return rows
}

// Rows flattens the combined buckets first, then every dimension.
func (s CategorySummary) Rows() []CategoryRow {
	var rows []CategoryRow
	for _, b := range s.Combined {
		rows = append(rows, categoryRow("mechanic/force", b))
	}
	for _, d := range s.Dimensions {
		for _, b := range d.Buckets {
			rows = append(rows, categoryRow(string(d.Dimension), b))
		}
	}
	return rows
}

func categoryRow(dimension string, b CategoryBucket) CategoryRow {
	return CategoryRow{
		Dimension: dimension,
		Key:       b.Key,
		Entries:   b.Entries,
		Sets:      b.Sets,
		Tooltip:   b.Tooltip,
	}
}

func (s IsolatedSummary) Rows() []IsolatedRow {
	rows := make([]IsolatedRow, 0, len(s.Muscles))
	for _, m := range s.Muscles {
		rows = append(rows, IsolatedRow{
			Muscle:    m.Muscle,
			Exercises: len(m.Exercises),
			Sets:      m.Sets,
		})
	}
	return rows
}

// Export is the flat form of a full report: volume, categories and isolated
// muscles of the same entries.
type Export struct {
	Volume     []VolumeRow
	Categories []CategoryRow
	Isolated   []IsolatedRow
}

func formatSets(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteCSV writes the three tables one after another, each with its own
// header line, separated by an empty record.
func (e Export) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	records := [][]string{{"muscle", "role", "sets", "class", "label"}}
	for _, r := range e.Volume {
		records = append(records, []string{r.Muscle, r.Role, formatSets(r.Sets), string(r.Class), r.Label})
	}

	records = append(records, []string{""}, []string{"dimension", "category", "entries", "sets", "tooltip"})
	for _, r := range e.Categories {
		records = append(records, []string{r.Dimension, r.Key, strconv.Itoa(r.Entries), strconv.Itoa(r.Sets), r.Tooltip})
	}

	records = append(records, []string{""}, []string{"isolated_muscle", "exercises", "sets"})
	for _, r := range e.Isolated {
		records = append(records, []string{r.Muscle, strconv.Itoa(r.Exercises), formatSets(r.Sets)})
	}

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
