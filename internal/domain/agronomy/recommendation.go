package agronomy

import (
	"maps"
	"slices"

	"cropadvisor/internal/domain/entities"
)

// Template is a recommendation expressed as data: message keys and their
// default parameters.
type Template struct {
	TitleKey     string
	TitleParams  map[string]any
	SummaryKey   string
	Steps        []entities.RawStep
	CostEstimate *float64
	FallbackText string
}

// Predicate selects the feature sets a Rule applies to.
type Predicate func(entities.FeatureSet) bool

// Rule maps a feature signal to a template name.
type Rule struct {
	Name     string
	Template string
	Match    Predicate
}

// Always matches every feature set.
func Always(entities.FeatureSet) bool { return true }

// NitrogenBelow matches feature sets whose N is present and below threshold.
func NitrogenBelow(threshold float64) Predicate {
	return func(f entities.FeatureSet) bool {
		return f.N != nil && *f.N < threshold
	}
}

// Template names.
const (
	TemplateLowNitrogen = "low_nitrogen"
)

// Builder selects a recommendation template by evaluating its rules in order;
// the first match wins.
type Builder struct {
	rules     []Rule
	templates map[string]Template
	fallback  string
}

// NewBuilder creates a Builder. fallback names the template used when no rule
// matches or a rule names an unregistered template.
func NewBuilder(templates map[string]Template, rules []Rule, fallback string) *Builder {
	return &Builder{
		rules:     slices.Clone(rules),
		templates: maps.Clone(templates),
		fallback:  fallback,
	}
}

// DefaultBuilder returns the production registry: a single rule that always
// selects the low nitrogen template, whatever the measured N.
func DefaultBuilder() *Builder {
	return NewBuilder(
		DefaultTemplates(),
		[]Rule{{Name: "always_low_nitrogen", Template: TemplateLowNitrogen, Match: Always}},
		TemplateLowNitrogen,
	)
}

// DefaultTemplates returns the shipped template registry.
func DefaultTemplates() map[string]Template {
	cost := 150.0
	return map[string]Template{
		TemplateLowNitrogen: {
			TitleKey:    "rec.low_n_title",
			TitleParams: map[string]any{"kg": 20},
			SummaryKey:  "rec.low_n_summary",
			Steps: []entities.RawStep{
				{Key: "rec.step_apply_urea", Params: map[string]any{"kg_per_ha": 20}},
				{Key: "rec.step_irrigate_if_no_rain", Params: map[string]any{"days": 7}},
			},
			CostEstimate: &cost,
			FallbackText: "Apply 20 kg/ha urea now; irrigate if no rainfall in 7 days.",
		},
	}
}

// Build returns the raw recommendation for features. The returned value owns
// its maps and slices.
func (b *Builder) Build(features entities.FeatureSet) entities.RawRecommendation {
	return b.templates[b.Select(features)].instantiate()
}

// Select returns the name of the template chosen for features.
func (b *Builder) Select(features entities.FeatureSet) string {
	for _, r := range b.rules {
		if r.Match == nil || !r.Match(features) {
			continue
		}
		if _, ok := b.templates[r.Template]; ok {
			return r.Template
		}
	}
	return b.fallback
}

// Keys lists every message key referenced by the registered templates, sorted.
func (b *Builder) Keys() []string {
	seen := make(map[string]struct{})
	for _, t := range b.templates {
		for _, k := range t.keys() {
			if k != "" {
				seen[k] = struct{}{}
			}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

func (t Template) keys() []string {
	keys := []string{t.TitleKey, t.SummaryKey}
	for _, s := range t.Steps {
		keys = append(keys, s.Key)
	}
	return keys
}

func (t Template) instantiate() entities.RawRecommendation {
	steps := make([]entities.RawStep, len(t.Steps))
	for i, s := range t.Steps {
		steps[i] = entities.RawStep{Key: s.Key, Params: maps.Clone(s.Params)}
	}
	var cost *float64
	if t.CostEstimate != nil {
		c := *t.CostEstimate
		cost = &c
	}
	return entities.RawRecommendation{
		TitleKey:     t.TitleKey,
		TitleParams:  maps.Clone(t.TitleParams),
		SummaryKey:   t.SummaryKey,
		Steps:        steps,
		CostEstimate: cost,
		FallbackText: t.FallbackText,
	}
}
