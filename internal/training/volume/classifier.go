package volume

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrUnknownRole  = errors.New("unknown volume role")
	ErrUnknownClass = errors.New("unknown volume class")
)

// Role tells whether sets hit a muscle group directly (primary) or
// indirectly (secondary, tertiary).
type Role string

const (
	RoleDirect   Role = "direct"
	RoleIndirect Role = "indirect"
)

func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleDirect:
		return RoleDirect, nil
	case RoleIndirect:
		return RoleIndirect, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

type Class string

const (
	ClassNone      Class = "none"
	ClassLow       Class = "low"
	ClassOptimal   Class = "optimal"
	ClassHigh      Class = "high"
	ClassExcessive Class = "excessive"
)

type classText struct {
	label   string
	tooltip string
}

var classDictionary = map[Class]classText{
	ClassNone: {
		label:   "No volume",
		tooltip: "No meaningful training volume for this muscle group.",
	},
	ClassLow: {
		label:   "Low volume",
		tooltip: "Below the range that drives noticeable hypertrophy. Consider adding sets.",
	},
	ClassOptimal: {
		label:   "Optimal volume",
		tooltip: "Within the range that works well for most lifters.",
	},
	ClassHigh: {
		label:   "High volume",
		tooltip: "Upper end of the productive range. Watch recovery.",
	},
	ClassExcessive: {
		label:   "Excessive volume",
		tooltip: "Likely more than can be recovered from. Consider removing sets.",
	},
}

func (c Class) Valid() bool {
	_, ok := classDictionary[c]
	return ok
}

// Threshold is the inclusive lower bound of a class.
type Threshold struct {
	Bound float64 `json:"bound"`
	Class Class   `json:"class"`
}

type Thresholds struct {
	Direct   []Threshold `json:"direct"`
	Indirect []Threshold `json:"indirect"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		Direct: []Threshold{
			{Bound: 1, Class: ClassLow},
			{Bound: 10, Class: ClassOptimal},
			{Bound: 20, Class: ClassHigh},
			{Bound: 30, Class: ClassExcessive},
		},
		Indirect: []Threshold{
			{Bound: 1, Class: ClassLow},
			{Bound: 5, Class: ClassOptimal},
			{Bound: 10, Class: ClassHigh},
			{Bound: 15, Class: ClassExcessive},
		},
	}
}

type Classification struct {
	Class   Class  `json:"class"`
	Label   string `json:"label"`
	Tooltip string `json:"tooltip"`
}

func newClassification(c Class) Classification {
	text := classDictionary[c]
	return Classification{
		Class:   c,
		Label:   text.label,
		Tooltip: text.tooltip,
	}
}

// Classifier maps aggregated set counts to volume classes. It is immutable
// after construction and safe for concurrent use.
type Classifier struct {
	direct   []Threshold
	indirect []Threshold
}

// NewClassifier validates the tables. An empty table for a role falls back
// to the default one of that role.
func NewClassifier(t Thresholds) (*Classifier, error) {
	defaults := DefaultThresholds()
	if len(t.Direct) == 0 {
		t.Direct = defaults.Direct
	}
	if len(t.Indirect) == 0 {
		t.Indirect = defaults.Indirect
	}

	if err := validateThresholds(RoleDirect, t.Direct); err != nil {
		return nil, err
	}
	if err := validateThresholds(RoleIndirect, t.Indirect); err != nil {
		return nil, err
	}

	return &Classifier{
		direct:   append([]Threshold(nil), t.Direct...),
		indirect: append([]Threshold(nil), t.Indirect...),
	}, nil
}

func validateThresholds(role Role, table []Threshold) error {
	for i, th := range table {
		if !th.Class.Valid() {
			return fmt.Errorf("%s thresholds[%d]: %w: %q", role, i, ErrUnknownClass, th.Class)
		}
		if math.IsNaN(th.Bound) || math.IsInf(th.Bound, 0) {
			return fmt.Errorf("%s thresholds[%d]: bound must be finite", role, i)
		}
		if i > 0 && th.Bound <= table[i-1].Bound {
			return fmt.Errorf("%s thresholds[%d]: bounds must be strictly ascending", role, i)
		}
	}
	return nil
}

// Classify evaluates the table of the role from the highest bound down and
// returns the first class whose bound is reached. Values below the lowest
// bound, negative values and NaN are classified as none.
func (c *Classifier) Classify(value float64, role Role) Classification {
	table := c.direct
	if role == RoleIndirect {
		table = c.indirect
	}

	if math.IsNaN(value) || value < 0 {
		return newClassification(ClassNone)
	}

	for i := len(table) - 1; i >= 0; i-- {
		if value >= table[i].Bound {
			return newClassification(table[i].Class)
		}
	}
	return newClassification(ClassNone)
}
