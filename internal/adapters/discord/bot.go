package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"cropadvisor/internal/ports/input"
	"cropadvisor/internal/ports/output"
)

// Bot is the Discord adapter.
type Bot struct {
	session *discordgo.Session
	handler *Handler
	logger  *zap.Logger
}

// NewBot creates a Bot whose handler calls the given use cases.
func NewBot(
	token string,
	predictions input.PredictionUseCase,
	users input.UserUseCase,
	translator output.T,
	logger *zap.Logger,
) (*Bot, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}

	logger = logger.Named("discord")
	bot := &Bot{
		session: s,
		handler: NewHandler(predictions, users, translator, logger),
		logger:  logger,
	}
	bot.setupHandlers()
	return bot, nil
}

func (b *Bot) setupHandlers() {
	b.session.AddHandler(b.handleInteraction)
}

func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	if i.ApplicationCommandData().Name == predictionCommandName {
		b.handler.HandlePredictionCommand(s, i)
	}
}

// Start opens the session, registers the slash commands and blocks until ctx
// is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	defer b.session.Close()

	for _, cmd := range Commands() {
		if _, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, "", cmd); err != nil {
			b.logger.Warn("Failed to register command", zap.String("command", cmd.Name), zap.Error(err))
		}
	}

	b.logger.Info("Bot online", zap.String("user", b.session.State.User.Username))
	<-ctx.Done()
	return nil
}
