package poller

import (
	"fmt"

	"gopkg.in/telebot.v4"

	"github.com/IT-Nick/quizbot/internal/infra/config"
)

// New создаёт Poller в зависимости от режима бота.
func New(cfg *config.Config) (telebot.Poller, error) {
	if cfg.TelegramBot.Mode == "webhook" {
		if cfg.TelegramBot.WebhookURL == "" {
			return nil, fmt.Errorf("webhook_url is required in webhook mode")
		}
		return &telebot.Webhook{
			Listen: cfg.TelegramBot.ListenAddr,
			Endpoint: &telebot.WebhookEndpoint{
				PublicURL: cfg.TelegramBot.WebhookURL,
			},
		}, nil
	}
	return &telebot.LongPoller{Timeout: cfg.TelegramBot.PollInterval}, nil
}
