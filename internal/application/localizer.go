package application

import (
	"strings"

	"cropadvisor/internal/domain/entities"
	"cropadvisor/internal/ports/output"
)

// Localizer renders key-based recommendations through the translation port.
// Keys and params are kept next to the text so clients can re-render.
type Localizer struct {
	translator    output.T
	defaultLocale string
}

func NewLocalizer(translator output.T, defaultLocale string) *Localizer {
	return &Localizer{
		translator:    translator,
		defaultLocale: strings.ToLower(strings.TrimSpace(defaultLocale)),
	}
}

// ResolveLocale lower-cases language and substitutes the default when empty.
func (l *Localizer) ResolveLocale(language string) string {
	lang := strings.ToLower(strings.TrimSpace(language))
	if lang == "" {
		return l.defaultLocale
	}
	return lang
}

// Localize never fails; catalog misses degrade to placeholder text.
func (l *Localizer) Localize(raw entities.RawRecommendation, language string) entities.LocalizedRecommendation {
	lang := l.ResolveLocale(language)

	titleParams := raw.TitleParams
	if titleParams == nil {
		titleParams = map[string]any{}
	}

	steps := make([]entities.LocalizedStep, 0, len(raw.Steps))
	for _, s := range raw.Steps {
		params := s.Params
		if params == nil {
			params = map[string]any{}
		}
		steps = append(steps, entities.LocalizedStep{
			Key:    s.Key,
			Params: params,
			Text:   l.translator.T(lang, s.Key, params),
		})
	}

	return entities.LocalizedRecommendation{
		TitleKey:     raw.TitleKey,
		TitleParams:  titleParams,
		TitleText:    l.translator.T(lang, raw.TitleKey, titleParams),
		SummaryKey:   raw.SummaryKey,
		SummaryText:  l.translator.T(lang, raw.SummaryKey, nil),
		Steps:        steps,
		CostEstimate: raw.CostEstimate,
		FallbackText: raw.FallbackText,
	}
}
