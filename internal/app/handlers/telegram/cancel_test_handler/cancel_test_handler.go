package cancel_test_handler

import (
	"context"
	"errors"
	"fmt"

	"gopkg.in/telebot.v4"

	"github.com/IT-Nick/quizbot/internal/app/handlers/telegram/render"
	messageService "github.com/IT-Nick/quizbot/internal/domain/messages/service"
	"github.com/IT-Nick/quizbot/internal/domain/model"
	sessionsService "github.com/IT-Nick/quizbot/internal/domain/sessions/service"
)

// CancelTestHandler прерывает активный тест без расчета рейтинга
type CancelTestHandler struct {
	sessionService *sessionsService.SessionService
	messageService *messageService.MessageService
}

// NewCancelTestHandler возвращает структуру обработчика
func NewCancelTestHandler(
	sessionService *sessionsService.SessionService,
	messageService *messageService.MessageService,
) *CancelTestHandler {
	return &CancelTestHandler{
		sessionService: sessionService,
		messageService: messageService,
	}
}

// Handle прерывает сессию и возвращает пользователя к выбору действия
func (h *CancelTestHandler) Handle(c telebot.Context) error {
	ctx := context.Background()

	if _, err := h.sessionService.Cancel(ctx, c.Sender().ID); err != nil {
		if errors.Is(err, sessionsService.ErrNoActiveSession) {
			return c.Respond(&telebot.CallbackResponse{Text: "Активного теста нет."})
		}
		return c.Send(fmt.Sprintf("Failed to cancel test: %v", err))
	}

	message, err := h.messageService.GetMessageByKey(ctx, model.TestCancelledKey)
	if err != nil {
		return c.Send(fmt.Sprintf("Failed to retrieve message: %v", err))
	}

	return c.Edit(message, render.NextActions())
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *CancelTestHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
