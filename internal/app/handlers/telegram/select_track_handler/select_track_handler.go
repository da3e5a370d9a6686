package select_track_handler

import (
	"context"
	"fmt"

	"gopkg.in/telebot.v4"

	messageService "github.com/IT-Nick/quizbot/internal/domain/messages/service"
	"github.com/IT-Nick/quizbot/internal/domain/model"
)

// SelectTrackHandler предлагает выбрать направление теста
type SelectTrackHandler struct {
	messageService *messageService.MessageService
}

// NewSelectTrackHandler возвращает структуру обработчика
func NewSelectTrackHandler(messageService *messageService.MessageService) *SelectTrackHandler {
	return &SelectTrackHandler{messageService: messageService}
}

// Handle отправляет клавиатуру с направлениями
func (h *SelectTrackHandler) Handle(c telebot.Context) error {
	ctx := context.Background()

	message, err := h.messageService.GetMessageByKey(ctx, model.ChooseTrackKey)
	if err != nil {
		return c.Send(fmt.Sprintf("Failed to retrieve message: %v", err))
	}

	markup := &telebot.ReplyMarkup{}
	rows := make([]telebot.Row, 0, len(model.Tracks()))
	for _, track := range model.Tracks() {
		rows = append(rows, markup.Row(markup.Data(track.DisplayName(), "track", string(track))))
	}
	markup.Inline(rows...)

	return c.Edit(message, markup)
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *SelectTrackHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
