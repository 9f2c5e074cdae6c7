package handler

import (
	"context"
	"strings"

	tele "gopkg.in/telebot.v3"
)

// handleText handles all free-text messages
func (h *Handler) handleText(c tele.Context) error {
	text := c.Text()

	// Ignore commands (starting with /)
	if strings.HasPrefix(text, "/") {
		return nil
	}

	reply := h.engine.SubmitText(context.Background(), c.Sender().ID, text)
	return h.send(c, reply)
}
