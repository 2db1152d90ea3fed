package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

// API is the part of *tgbotapi.BotAPI the bot uses.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

var commands = []tgbotapi.BotCommand{
	{Command: "start", Description: "Show help"},
	{Command: "addcategory", Description: "Track a category url"},
	{Command: "list", Description: "List tracked categories"},
	{Command: "remove", Description: "Stop tracking a category by number"},
	{Command: "status", Description: "Last known stock per category"},
}

// Bot receives commands over Telegram and sends messages to the operator.
type Bot struct {
	api      API
	handler  *Handler
	operator int64
	limiter  *rate.Limiter
	logger   *slog.Logger
}

func New(api API, handler *Handler, operator int64, logger *slog.Logger) *Bot {
	return &Bot{
		api:      api,
		handler:  handler,
		operator: operator,
		limiter:  rate.NewLimiter(rate.Every(time.Second), 1),
		logger:   logger,
	}
}

// Run long polls for updates until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	if _, err := b.api.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		b.logger.Warn("could not register commands", "error", err)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)
	b.logger.Info("bot listening for commands")
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.logger.Info("bot stopped")
			return nil
		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			b.handle(ctx, upd)
		}
	}
}

func (b *Bot) handle(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message
	if msg == nil || msg.From == nil || msg.Chat == nil || !msg.IsCommand() {
		return
	}
	cmd := Command{
		From: msg.From.ID,
		Name: msg.Command(),
		Args: msg.CommandArguments(),
	}
	reply, ok := b.handler.Handle(cmd)
	if !ok {
		if cmd.From != b.operator {
			b.logger.Debug("ignored command", "from", cmd.From, "command", cmd.Name)
		}
		return
	}
	if err := b.send(ctx, msg.Chat.ID, reply); err != nil {
		b.logger.Error("could not reply", "command", cmd.Name, "error", err)
	}
}

// Notify sends text to the operator.
func (b *Bot) Notify(ctx context.Context, text string) error {
	return b.send(ctx, b.operator, text)
}

func (b *Bot) send(ctx context.Context, chatID int64, text string) error {
	if err := b.limiter.Wait(ctx); err != nil {
		return err
	}
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("could not send telegram message: %w", err)
	}
	return nil
}
