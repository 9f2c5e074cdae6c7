package middleware

import (
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Logging creates middleware that logs every inbound update and any
// error a handler returns; handler errors are swallowed after logging
// so they never crash the poller loop
func Logging(logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Sender() == nil {
				return next(c)
			}

			kind := "message"
			if c.Callback() != nil {
				kind = "callback"
			}

			logger.Debug("update received",
				zap.Int64("user_id", c.Sender().ID),
				zap.String("kind", kind),
			)

			if err := next(c); err != nil {
				logger.Error("handler failed",
					zap.Int64("user_id", c.Sender().ID),
					zap.String("kind", kind),
					zap.Error(err),
				)
			}
			return nil
		}
	}
}
