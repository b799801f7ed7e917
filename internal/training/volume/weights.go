package volume

import (
	"fmt"
	"math"
)

// Weights are the set multipliers per muscle group slot of an exercise.
type Weights struct {
	Primary   float64 `json:"primary"`
	Secondary float64 `json:"secondary"`
	Tertiary  float64 `json:"tertiary"`
	Isolated  float64 `json:"isolated"`
}

func DefaultWeights() Weights {
	return Weights{
		Primary:   1.0,
		Secondary: 0.5,
		Tertiary:  0.25,
		Isolated:  1.0,
	}
}

// IsZero reports whether no weight was set at all.
func (w Weights) IsZero() bool {
	return w == Weights{}
}

func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"primary":   w.Primary,
		"secondary": w.Secondary,
		"tertiary":  w.Tertiary,
		"isolated":  w.Isolated,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("invalid %s weight: %v", name, v)
		}
	}
	return nil
}
