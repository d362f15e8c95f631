package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"cropadvisor/internal/domain/entities"
	"cropadvisor/internal/ports/output"
)

const (
	embedColor = 0x3BA55C

	// Discord rejects field values longer than this.
	maxFieldValue = 1024
)

// BuildPredictionEmbed renders a prediction result as an embed. The
// recommendation text is already localized; tr is used for the surrounding
// labels in the same locale.
func BuildPredictionEmbed(tr output.T, locale, crop string, result *entities.PredictionResult) *discordgo.MessageEmbed {
	rec := result.Recommendation

	var desc strings.Builder
	desc.WriteString(tr.T(locale, "prediction.yield", map[string]any{
		"yield":      formatNumber(result.PredictedYield),
		"confidence": formatNumber(result.Confidence),
	}))
	if rec.TitleText != "" {
		desc.WriteString(fmt.Sprintf("\n\n**%s**", rec.TitleText))
	}
	if rec.SummaryText != "" {
		desc.WriteString("\n" + rec.SummaryText)
	}

	embed := &discordgo.MessageEmbed{
		Title:       tr.T(locale, "prediction.title", map[string]any{"crop": crop}),
		Description: desc.String(),
		Color:       embedColor,
	}

	if steps := formatSteps(rec); steps != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  tr.T(locale, "prediction.steps", nil),
			Value: steps,
		})
	}
	if rec.CostEstimate != nil {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: tr.T(locale, "prediction.cost", map[string]any{"cost": formatNumber(*rec.CostEstimate)}),
		}
	}
	return embed
}

// formatSteps numbers the rendered steps, falling back to the plain
// recommendation text when there are none.
func formatSteps(rec entities.LocalizedRecommendation) string {
	if len(rec.Steps) == 0 {
		return truncate(rec.FallbackText, maxFieldValue)
	}
	lines := make([]string, 0, len(rec.Steps))
	for i, step := range rec.Steps {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, step.Text))
	}
	return truncate(strings.Join(lines, "\n"), maxFieldValue)
}

func formatNumber(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
