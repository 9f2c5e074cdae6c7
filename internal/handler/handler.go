package handler

import (
	"context"

	"bankbot/internal/domain"
	"bankbot/internal/engine"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Handler adapts Telegram updates to engine events and renders the
// engine's replies as messages with inline keyboards
type Handler struct {
	bot    *tele.Bot
	engine *engine.Engine
	logger *zap.Logger
}

// NewHandler creates a new handler instance
func NewHandler(bot *tele.Bot, eng *engine.Engine, logger *zap.Logger) *Handler {
	return &Handler{
		bot:    bot,
		engine: eng,
		logger: logger,
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle(tele.OnText, h.handleText)
	h.bot.Handle(tele.OnCallback, h.handleCallback)
}

// send renders an engine reply as a message, attaching the options as
// an inline keyboard when present
func (h *Handler) send(c tele.Context, reply domain.Reply) error {
	if len(reply.Options) == 0 {
		return c.Send(reply.Text)
	}

	markup := &tele.ReplyMarkup{}
	rows := make([]tele.Row, 0, len(reply.Options))
	for _, opt := range reply.Options {
		rows = append(rows, markup.Row(markup.Data(opt.Label, opt.Token)))
	}
	markup.Inline(rows...)

	return c.Send(reply.Text, markup)
}

// handleStart handles the /start command
func (h *Handler) handleStart(c tele.Context) error {
	userID := c.Sender().ID

	h.logger.Info("user started bot",
		zap.Int64("user_id", userID),
		zap.String("username", c.Sender().Username),
	)

	reply := h.engine.StartSession(context.Background(), userID)
	return h.send(c, reply)
}
