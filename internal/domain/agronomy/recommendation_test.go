package agronomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cropadvisor/internal/domain/entities"
)

func TestDefaultBuilder_AlwaysLowNitrogen(t *testing.T) {
	b := DefaultBuilder()

	inputs := []entities.FeatureSet{
		{Crop: "rice"},
		{Crop: "rice", N: ptr(0.1)},
		{Crop: "wheat", N: ptr(2.0), P: ptr(1), K: ptr(1), PH: ptr(6.5)},
	}
	for _, f := range inputs {
		raw := b.Build(f)
		assert.Equal(t, "rec.low_n_title", raw.TitleKey)
		assert.Equal(t, map[string]any{"kg": 20}, raw.TitleParams)
		assert.Equal(t, "rec.low_n_summary", raw.SummaryKey)
		require.Len(t, raw.Steps, 2)
		assert.Equal(t, "rec.step_apply_urea", raw.Steps[0].Key)
		assert.Equal(t, map[string]any{"kg_per_ha": 20}, raw.Steps[0].Params)
		assert.Equal(t, "rec.step_irrigate_if_no_rain", raw.Steps[1].Key)
		assert.Equal(t, map[string]any{"days": 7}, raw.Steps[1].Params)
		require.NotNil(t, raw.CostEstimate)
		assert.Equal(t, 150.0, *raw.CostEstimate)
		assert.Equal(t, "Apply 20 kg/ha urea now; irrigate if no rainfall in 7 days.", raw.FallbackText)
	}
}

func TestBuilder_FirstMatchWins(t *testing.T) {
	templates := map[string]Template{
		"low":    {TitleKey: "t.low"},
		"ok":     {TitleKey: "t.ok"},
		"acidic": {TitleKey: "t.acidic"},
	}
	rules := []Rule{
		{Name: "low n", Template: "low", Match: NitrogenBelow(0.2)},
		{Name: "acidic", Template: "acidic", Match: func(f entities.FeatureSet) bool { return f.PH != nil && *f.PH < 5.5 }},
		{Name: "default", Template: "ok", Match: Always},
	}
	b := NewBuilder(templates, rules, "ok")

	assert.Equal(t, "low", b.Select(entities.FeatureSet{N: ptr(0.1), PH: ptr(4.0)}))
	assert.Equal(t, "acidic", b.Select(entities.FeatureSet{N: ptr(0.3), PH: ptr(4.0)}))
	assert.Equal(t, "ok", b.Select(entities.FeatureSet{}))
	assert.Equal(t, "t.acidic", b.Build(entities.FeatureSet{PH: ptr(5.0)}).TitleKey)
}

func TestBuilder_FallbackWhenNothingMatches(t *testing.T) {
	templates := map[string]Template{"a": {TitleKey: "t.a"}, "b": {TitleKey: "t.b"}}
	rules := []Rule{
		{Name: "never", Template: "a", Match: func(entities.FeatureSet) bool { return false }},
		{Name: "unregistered", Template: "missing", Match: Always},
		{Name: "nil predicate", Template: "a"},
	}
	b := NewBuilder(templates, rules, "b")

	assert.Equal(t, "b", b.Select(entities.FeatureSet{Crop: "rice"}))
}

func TestBuilder_BuildReturnsIndependentCopies(t *testing.T) {
	b := DefaultBuilder()

	first := b.Build(entities.FeatureSet{})
	first.TitleParams["kg"] = 999
	first.Steps[0].Params["kg_per_ha"] = 999
	*first.CostEstimate = 1

	second := b.Build(entities.FeatureSet{})
	assert.Equal(t, 20, second.TitleParams["kg"])
	assert.Equal(t, 20, second.Steps[0].Params["kg_per_ha"])
	assert.Equal(t, 150.0, *second.CostEstimate)
}

func TestBuilder_Keys(t *testing.T) {
	assert.Equal(t, []string{
		"rec.low_n_summary",
		"rec.low_n_title",
		"rec.step_apply_urea",
		"rec.step_irrigate_if_no_rain",
	}, DefaultBuilder().Keys())
}
