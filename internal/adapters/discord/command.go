package discord

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"cropadvisor/internal/domain"
	pkgdiscord "cropadvisor/pkg/discord"
)

const (
	predictionCommandName = "prediction"
	optionFarm            = "farm"
	optionCrop            = "crop"
)

var minFarmID = 1.0

// Commands returns the slash commands the bot registers.
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        predictionCommandName,
			Description: "Forecast yield and get a fertilizer recommendation for one of your farms",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        optionFarm,
					Description: "Farm id",
					Required:    true,
					MinValue:    &minFarmID,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        optionCrop,
					Description: "Crop, e.g. rice, wheat, maize",
					Required:    true,
				},
			},
		},
	}
}

type predictionOptions struct {
	FarmID int64
	Crop   string
}

func parsePredictionOptions(options []*discordgo.ApplicationCommandInteractionDataOption) predictionOptions {
	var opts predictionOptions
	for _, o := range options {
		switch o.Name {
		case optionFarm:
			if o.Type == discordgo.ApplicationCommandOptionInteger {
				opts.FarmID = o.IntValue()
			}
		case optionCrop:
			if o.Type == discordgo.ApplicationCommandOptionString {
				opts.Crop = strings.TrimSpace(o.StringValue())
			}
		}
	}
	return opts
}

// HandlePredictionCommand answers /prediction with an ephemeral embed.
func (h *Handler) HandlePredictionCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := parsePredictionOptions(i.ApplicationCommandData().Options)
	data := h.predictionReply(context.Background(), interactionUserID(i.Interaction), opts)
	if err := respondEphemeralData(s, i.Interaction, data); err != nil {
		h.logger.Error("Failed to respond to interaction", zap.Error(err))
	}
}

// predictionReply runs the prediction for the Discord user and renders either
// the result or a localized error message.
func (h *Handler) predictionReply(ctx context.Context, discordID string, opts predictionOptions) *discordgo.InteractionResponseData {
	if discordID == "" {
		return h.errorReply("", domain.ErrUserNotFound)
	}
	user, err := h.users.GetUserByDiscordID(ctx, discordID)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			h.logger.Error("Failed to resolve user", zap.String("discord_id", discordID), zap.Error(err))
		}
		return h.errorReply("", err)
	}

	result, err := h.predictions.Predict(ctx, user, opts.FarmID, opts.Crop)
	if err != nil {
		if pkgdiscord.ErrorMessageKey(err) == "error.generic" {
			h.logger.Error("Prediction failed",
				zap.Int64("user_id", user.ID),
				zap.Int64("farm_id", opts.FarmID),
				zap.Error(err))
		}
		return h.errorReply(user.LanguagePreference, err)
	}

	embed := pkgdiscord.BuildPredictionEmbed(h.translator, user.LanguagePreference, opts.Crop, result)
	return &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{embed},
		Flags:  discordgo.MessageFlagsEphemeral,
	}
}

func (h *Handler) errorReply(locale string, err error) *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		Content: h.translator.T(locale, pkgdiscord.ErrorMessageKey(err), nil),
		Flags:   discordgo.MessageFlagsEphemeral,
	}
}
