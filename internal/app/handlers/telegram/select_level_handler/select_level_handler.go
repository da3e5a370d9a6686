package select_level_handler

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/telebot.v4"

	messageService "github.com/IT-Nick/quizbot/internal/domain/messages/service"
	"github.com/IT-Nick/quizbot/internal/domain/model"
)

// SelectLevelHandler предлагает выбрать уровень сложности после направления
type SelectLevelHandler struct {
	messageService *messageService.MessageService
}

// NewSelectLevelHandler возвращает структуру обработчика
func NewSelectLevelHandler(messageService *messageService.MessageService) *SelectLevelHandler {
	return &SelectLevelHandler{messageService: messageService}
}

// Handle отправляет клавиатуру с уровнями выбранного направления
func (h *SelectLevelHandler) Handle(c telebot.Context) error {
	track := model.Track(strings.TrimSpace(c.Data()))
	if !track.Valid() {
		return c.Send("Неизвестное направление, начните заново через /start.")
	}

	ctx := context.Background()

	message, err := h.messageService.GetMessageByKey(ctx, model.ChooseLevelKey)
	if err != nil {
		return c.Send(fmt.Sprintf("Failed to retrieve message: %v", err))
	}
	message = fmt.Sprintf(message, track.DisplayName())

	markup := &telebot.ReplyMarkup{}
	rows := make([]telebot.Row, 0, len(model.Levels()))
	for _, level := range model.Levels() {
		// В данные кнопки уходит готовый ключ уровня вида "junior_python".
		rows = append(rows, markup.Row(markup.Data(level.DisplayName(), "level", model.LevelKey(track, level))))
	}
	markup.Inline(rows...)

	return c.Edit(message, markup)
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *SelectLevelHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
