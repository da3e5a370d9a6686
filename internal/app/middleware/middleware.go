package middleware

import (
	"go.uber.org/zap"
	"gopkg.in/telebot.v4"
)

// Logger возвращает middleware, которое логирует входящие обновления Telegram:
// кто прислал, что именно и чем закончилась обработка.
func Logger(log *zap.Logger) telebot.MiddlewareFunc {
	return func(next telebot.HandlerFunc) telebot.HandlerFunc {
		return func(c telebot.Context) error {
			fields := []zap.Field{}
			if sender := c.Sender(); sender != nil {
				fields = append(fields, zap.Int64("user_id", sender.ID), zap.String("username", sender.Username))
			}
			if msg := c.Message(); msg != nil && msg.Text != "" {
				fields = append(fields, zap.String("text", msg.Text))
			}
			if cb := c.Callback(); cb != nil {
				fields = append(fields, zap.String("callback", cb.Unique), zap.String("data", cb.Data))
			}

			err := next(c)
			if err != nil {
				log.Error("update failed", append(fields, zap.Error(err))...)
				return err
			}
			log.Debug("update handled", fields...)
			return nil
		}
	}
}

// Recover возвращает middleware, которое перехватывает панику в обработчике,
// чтобы один сломавшийся апдейт не ронял бота целиком.
func Recover(log *zap.Logger) telebot.MiddlewareFunc {
	return func(next telebot.HandlerFunc) telebot.HandlerFunc {
		return func(c telebot.Context) error {
			defer func() {
				if r := recover(); r != nil {
					log.Error("handler panicked", zap.Any("panic", r))
				}
			}()
			return next(c)
		}
	}
}
