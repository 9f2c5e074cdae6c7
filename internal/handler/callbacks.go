package handler

import (
	"context"
	"strings"
	"unicode"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// callbackToken extracts the option token from a callback query.
// Buttons are built with the token as their unique id, but some
// clients deliver it only in the raw data field.
func callbackToken(callback *tele.Callback) string {
	if callback.Unique != "" {
		return cleanCallbackData(callback.Unique)
	}
	return cleanCallbackData(callback.Data)
}

// handleCallback handles ALL callback queries
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	userID := c.Sender().ID
	token := callbackToken(callback)

	h.logger.Debug("processing callback",
		zap.Int64("user_id", userID),
		zap.String("token", token),
		zap.String("callback_id", callback.ID),
	)

	reply := h.engine.SelectOption(context.Background(), userID, token)

	if err := c.Respond(); err != nil {
		h.logger.Warn("failed to acknowledge callback",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}
	return h.send(c, reply)
}
