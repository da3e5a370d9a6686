package leaderboard_handler

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/telebot.v4"

	messageService "github.com/IT-Nick/quizbot/internal/domain/messages/service"
	"github.com/IT-Nick/quizbot/internal/domain/model"
	statsService "github.com/IT-Nick/quizbot/internal/domain/stats/service"
)

var medals = []string{"🥇", "🥈", "🥉"}

// LeaderboardHandler показывает лучших игроков по общему MMR
type LeaderboardHandler struct {
	statsService   *statsService.StatsService
	messageService *messageService.MessageService
	limit          int
}

// NewLeaderboardHandler возвращает структуру обработчика
func NewLeaderboardHandler(
	statsService *statsService.StatsService,
	messageService *messageService.MessageService,
	limit int,
) *LeaderboardHandler {
	return &LeaderboardHandler{
		statsService:   statsService,
		messageService: messageService,
		limit:          limit,
	}
}

// Handle отправляет таблицу лидеров
func (h *LeaderboardHandler) Handle(c telebot.Context) error {
	ctx := context.Background()

	ratings, err := h.statsService.Leaderboard(ctx, h.limit)
	if err != nil {
		return c.Send(fmt.Sprintf("Failed to retrieve leaderboard: %v", err))
	}

	if len(ratings) == 0 {
		message, mErr := h.messageService.GetMessageByKey(ctx, model.LeaderboardEmptyKey)
		if mErr != nil {
			return c.Send(fmt.Sprintf("Failed to retrieve message: %v", mErr))
		}
		return c.Edit(message, backMarkup())
	}

	header, err := h.messageService.GetMessageByKey(ctx, model.LeaderboardHeaderKey)
	if err != nil {
		return c.Send(fmt.Sprintf("Failed to retrieve message: %v", err))
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")
	for i, r := range ratings {
		rank := fmt.Sprintf("%d.", i+1)
		if i < len(medals) {
			rank = medals[i]
		}
		b.WriteString(fmt.Sprintf("%s @%s — ⭐ %d MMR (тестов: %d)\n", rank, r.Username, r.MMR, r.TotalTests))
	}

	return c.Edit(b.String(), backMarkup())
}

func backMarkup() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.Inline(markup.Row(markup.Data("📋 В главное меню", "main_menu")))
	return markup
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *LeaderboardHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
