package help_handler

import (
	"context"
	"fmt"

	"gopkg.in/telebot.v4"

	messageService "github.com/IT-Nick/quizbot/internal/domain/messages/service"
	"github.com/IT-Nick/quizbot/internal/domain/model"
)

// HelpHandler показывает справку по возможностям бота
type HelpHandler struct {
	messageService *messageService.MessageService
}

// NewHelpHandler возвращает структуру обработчика
func NewHelpHandler(messageService *messageService.MessageService) *HelpHandler {
	return &HelpHandler{messageService: messageService}
}

// Handle отправляет текст справки
func (h *HelpHandler) Handle(c telebot.Context) error {
	ctx := context.Background()

	message, err := h.messageService.GetMessageByKey(ctx, model.HelpMessageKey)
	if err != nil {
		return c.Send(fmt.Sprintf("Failed to retrieve help message: %v", err))
	}

	markup := &telebot.ReplyMarkup{}
	markup.Inline(markup.Row(markup.Data("📋 В главное меню", "main_menu")))

	if c.Callback() != nil {
		return c.Edit(message, &telebot.SendOptions{
			ParseMode:   telebot.ModeHTML,
			ReplyMarkup: markup,
		})
	}
	return c.Send(message, &telebot.SendOptions{
		ParseMode:   telebot.ModeHTML,
		ReplyMarkup: markup,
	})
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *HelpHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
