package volume_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/hypertrophytoolbox/internal/config"
	"github.com/2beens/hypertrophytoolbox/internal/training/catalog"
	"github.com/2beens/hypertrophytoolbox/internal/training/volume"
)

func defaultClassifier(t *testing.T) *volume.Classifier {
	t.Helper()
	c, err := volume.NewClassifier(volume.DefaultThresholds())
	require.NoError(t, err)
	return c
}

func TestClassifier_Classify_Boundaries(t *testing.T) {
	c := defaultClassifier(t)

	for _, tc := range []struct {
		value float64
		role  volume.Role
		want  volume.Class
	}{
		{value: 0, role: volume.RoleDirect, want: volume.ClassNone},
		{value: 0.99, role: volume.RoleDirect, want: volume.ClassNone},
		{value: 1, role: volume.RoleDirect, want: volume.ClassLow},
		{value: 9.999, role: volume.RoleDirect, want: volume.ClassLow},
		{value: 10, role: volume.RoleDirect, want: volume.ClassOptimal},
		{value: 20, role: volume.RoleDirect, want: volume.ClassHigh},
		{value: 29.5, role: volume.RoleDirect, want: volume.ClassHigh},
		{value: 30, role: volume.RoleDirect, want: volume.ClassExcessive},
		{value: 1e9, role: volume.RoleDirect, want: volume.ClassExcessive},
		{value: math.Inf(1), role: volume.RoleDirect, want: volume.ClassExcessive},
		{value: 5, role: volume.RoleIndirect, want: volume.ClassOptimal},
		{value: 4.75, role: volume.RoleIndirect, want: volume.ClassLow},
		{value: 10, role: volume.RoleIndirect, want: volume.ClassHigh},
		{value: 15, role: volume.RoleIndirect, want: volume.ClassExcessive},
		{value: -1, role: volume.RoleIndirect, want: volume.ClassNone},
		{value: math.NaN(), role: volume.RoleDirect, want: volume.ClassNone},
	} {
		got := c.Classify(tc.value, tc.role)
		assert.Equal(t, tc.want, got.Class, "%v %s", tc.value, tc.role)
		assert.NotEmpty(t, got.Label)
		assert.NotEmpty(t, got.Tooltip)
	}
}

func TestClassifier_Classify_DictionaryIsFixed(t *testing.T) {
	c := defaultClassifier(t)
	a := c.Classify(12, volume.RoleDirect)
	b := c.Classify(25, volume.RoleIndirect)
	assert.Equal(t, volume.ClassOptimal, a.Class)
	assert.Equal(t, "Optimal volume", a.Label)
	assert.Equal(t, volume.ClassExcessive, b.Class)
	assert.Equal(t, "Excessive volume", b.Label)
}

func TestNewClassifier_EmptyTablesFallBackToDefaults(t *testing.T) {
	c, err := volume.NewClassifier(volume.Thresholds{
		Direct: []volume.Threshold{{Bound: 2, Class: volume.ClassLow}, {Bound: 12, Class: volume.ClassOptimal}},
	})
	require.NoError(t, err)

	assert.Equal(t, volume.ClassNone, c.Classify(1, volume.RoleDirect).Class)
	assert.Equal(t, volume.ClassOptimal, c.Classify(100, volume.RoleDirect).Class)
	assert.Equal(t, volume.ClassExcessive, c.Classify(15, volume.RoleIndirect).Class)
}

func TestNewClassifier_Invalid(t *testing.T) {
	_, err := volume.NewClassifier(volume.Thresholds{
		Direct: []volume.Threshold{{Bound: 1, Class: "meh"}},
	})
	assert.ErrorIs(t, err, volume.ErrUnknownClass)

	_, err = volume.NewClassifier(volume.Thresholds{
		Indirect: []volume.Threshold{{Bound: 5, Class: volume.ClassLow}, {Bound: 5, Class: volume.ClassHigh}},
	})
	assert.ErrorContains(t, err, "strictly ascending")

	_, err = volume.NewClassifier(volume.Thresholds{
		Direct: []volume.Threshold{{Bound: math.NaN(), Class: volume.ClassLow}},
	})
	assert.ErrorContains(t, err, "finite")
}

func TestParseRole(t *testing.T) {
	r, err := volume.ParseRole("Direct")
	require.NoError(t, err)
	assert.Equal(t, volume.RoleDirect, r)

	r, err = volume.ParseRole(" indirect")
	require.NoError(t, err)
	assert.Equal(t, volume.RoleIndirect, r)

	_, err = volume.ParseRole("isolated")
	assert.ErrorIs(t, err, volume.ErrUnknownRole)
}

func TestClassifier_ClassifySummary_Order(t *testing.T) {
	c := defaultClassifier(t)
	summary := volume.VolumeSummary{
		Method: volume.MethodTotal,
		Direct: map[catalog.MuscleGroup]float64{
			"Neck":    3,
			"Calves":  12,
			"Chest":   4,
			"Abducto": 1,
		},
		Indirect: map[catalog.MuscleGroup]float64{"Triceps": 2},
		Isolated: map[string]float64{"long head": 2, "clavicular head": 4},
	}

	classified := c.ClassifySummary(summary, catalog.KnownMuscleGroups)

	var order []catalog.MuscleGroup
	for _, mv := range classified.Direct {
		order = append(order, mv.Muscle)
	}
	assert.Equal(t, []catalog.MuscleGroup{"Chest", "Calves", "Abducto", "Neck"}, order)
	assert.Equal(t, volume.ClassOptimal, classified.Direct[1].Class)

	require.Len(t, classified.Indirect, 1)
	assert.Equal(t, volume.ClassLow, classified.Indirect[0].Class)

	require.Len(t, classified.Isolated, 2)
	assert.Equal(t, "clavicular head", classified.Isolated[0].Muscle)
}

func TestFromConfig(t *testing.T) {
	weights, classifier, err := volume.FromConfig(config.Volume{
		WeightIsolated: config.Weight(0.5),
		IndirectThresholds: []config.Threshold{
			{Bound: 2, Class: "low"},
			{Bound: 6, Class: "optimal"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 0.5, weights.Isolated)
	assert.Equal(t, 1.0, weights.Primary)
	assert.Equal(t, 0.5, weights.Secondary)
	assert.Equal(t, 0.25, weights.Tertiary)
	assert.Equal(t, volume.ClassLow, classifier.Classify(5, volume.RoleIndirect).Class)
	assert.Equal(t, volume.ClassHigh, classifier.Classify(25, volume.RoleDirect).Class)

	_, _, err = volume.FromConfig(config.Volume{
		DirectThresholds: []config.Threshold{{Bound: 1, Class: "plenty"}},
	})
	assert.ErrorIs(t, err, volume.ErrUnknownClass)

	_, _, err = volume.FromConfig(config.Volume{WeightSecondary: config.Weight(-1)})
	assert.Error(t, err)

	weights, _, err = volume.FromConfig(config.Volume{WeightIsolated: config.Weight(0)})
	require.NoError(t, err)
	assert.Equal(t, 0.0, weights.Isolated)
	assert.Equal(t, 1.0, weights.Primary)

	zero := config.Weight(0)
	_, _, err = volume.FromConfig(config.Volume{
		WeightPrimary:   zero,
		WeightSecondary: zero,
		WeightTertiary:  zero,
		WeightIsolated:  zero,
	})
	assert.ErrorContains(t, err, "all 0")
}
