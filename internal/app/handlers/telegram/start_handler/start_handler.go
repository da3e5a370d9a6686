package start_handler

import (
	"context"
	"fmt"

	"gopkg.in/telebot.v4"

	messageService "github.com/IT-Nick/quizbot/internal/domain/messages/service"
	"github.com/IT-Nick/quizbot/internal/domain/model"
	statsService "github.com/IT-Nick/quizbot/internal/domain/stats/service"
)

// StartHandler структура для обработки команды /start и возврата в главное меню
type StartHandler struct {
	statsService   *statsService.StatsService
	messageService *messageService.MessageService
}

// NewStartHandler возвращает структуру обработчика
func NewStartHandler(
	statsService *statsService.StatsService,
	messageService *messageService.MessageService,
) *StartHandler {
	return &StartHandler{
		statsService:   statsService,
		messageService: messageService,
	}
}

// Handle метод, который будет использоваться для обработки команды /start
func (h *StartHandler) Handle(c telebot.Context) error {
	sender := c.Sender()
	username := sender.Username
	if username == "" {
		username = sender.FirstName
	}

	ctx := context.Background()

	// Регистрируем пользователя при первом обращении
	rating, err := h.statsService.GetOrCreate(ctx, sender.ID, username)
	if err != nil {
		return c.Send(fmt.Sprintf("Failed to process user: %v", err))
	}

	// Получаем мапу с кнопками главного меню
	buttonsMessages, err := h.messageService.GetButtons(ctx)
	if err != nil {
		return c.Send(fmt.Sprintf("Failed to retrieve buttons: %v", err))
	}

	markup := &telebot.ReplyMarkup{}
	markup.Inline(
		markup.Row(markup.Data(buttonsMessages[model.StartTestKey], "start_test")),
		markup.Row(markup.Data(buttonsMessages[model.CreateTestKey], "create_test")),
		markup.Row(markup.Data(buttonsMessages[model.TestCatalogKey], "test_catalog", "0")),
		markup.Row(markup.Data(buttonsMessages[model.LeaderboardKey], "leaderboard")),
		markup.Row(markup.Data(buttonsMessages[model.HelpKey], "help")),
	)

	welcomeMessage, err := h.messageService.GetMessageByKey(ctx, model.WelcomeMessageKey)
	if err != nil {
		return c.Send(fmt.Sprintf("Failed to retrieve welcome message: %v", err))
	}
	welcomeMessage = fmt.Sprintf(welcomeMessage, sender.FirstName, rating.MMR)

	return c.Send(welcomeMessage, &telebot.SendOptions{
		ParseMode:   telebot.ModeHTML,
		ReplyMarkup: markup,
	})
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *StartHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
