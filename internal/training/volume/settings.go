package volume

import (
	"errors"
	"fmt"

	"github.com/2beens/hypertrophytoolbox/internal/config"
)

// FromConfig builds the weights and the classifier of the volume section.
// Weights missing from the section keep their DefaultWeights value.
func FromConfig(cfg config.Volume) (Weights, *Classifier, error) {
	weights := DefaultWeights()
	for _, w := range []struct {
		from *float64
		to   *float64
	}{
		{from: cfg.WeightPrimary, to: &weights.Primary},
		{from: cfg.WeightSecondary, to: &weights.Secondary},
		{from: cfg.WeightTertiary, to: &weights.Tertiary},
		{from: cfg.WeightIsolated, to: &weights.Isolated},
	} {
		if w.from != nil {
			*w.to = *w.from
		}
	}
	if err := weights.Validate(); err != nil {
		return Weights{}, nil, err
	}
	if weights.IsZero() {
		return Weights{}, nil, errors.New("volume weights are all 0")
	}

	classifier, err := NewClassifier(Thresholds{
		Direct:   toThresholds(cfg.DirectThresholds),
		Indirect: toThresholds(cfg.IndirectThresholds),
	})
	if err != nil {
		return Weights{}, nil, fmt.Errorf("volume thresholds: %w", err)
	}

	return weights, classifier, nil
}

func toThresholds(list []config.Threshold) []Threshold {
	if len(list) == 0 {
		return nil
	}
	thresholds := make([]Threshold, 0, len(list))
	for _, th := range list {
		thresholds = append(thresholds, Threshold{Bound: th.Bound, Class: Class(th.Class)})
	}
	return thresholds
}
