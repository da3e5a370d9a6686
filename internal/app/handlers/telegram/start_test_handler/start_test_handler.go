package start_test_handler

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/telebot.v4"

	"github.com/IT-Nick/quizbot/internal/app/handlers/telegram/render"
	messageService "github.com/IT-Nick/quizbot/internal/domain/messages/service"
	"github.com/IT-Nick/quizbot/internal/domain/model"
	sessionsService "github.com/IT-Nick/quizbot/internal/domain/sessions/service"
)

// StartTestHandler запускает стандартный тест по выбранному ключу уровня
type StartTestHandler struct {
	sessionService *sessionsService.SessionService
	messageService *messageService.MessageService
}

// NewStartTestHandler возвращает структуру обработчика
func NewStartTestHandler(
	sessionService *sessionsService.SessionService,
	messageService *messageService.MessageService,
) *StartTestHandler {
	return &StartTestHandler{
		sessionService: sessionService,
		messageService: messageService,
	}
}

// Handle запускает сессию и отправляет первый вопрос
func (h *StartTestHandler) Handle(c telebot.Context) error {
	sender := c.Sender()
	username := sender.Username
	if username == "" {
		username = sender.FirstName
	}

	level, track, err := model.ParseLevelKey(strings.TrimSpace(c.Data()))
	if err != nil {
		return c.Send("Неизвестный уровень, начните заново через /start.")
	}

	ctx := context.Background()

	res, err := h.sessionService.Start(ctx, sender.ID, username, track, level)
	if err != nil {
		return c.Send(fmt.Sprintf("Failed to start test: %v", err))
	}

	// Пул вопросов пуст: тест завершается сразу, рейтинг не меняется.
	if res.First == nil {
		message, err := h.messageService.GetMessageByKey(ctx, model.EmptyPoolResultKey)
		if err != nil {
			return c.Send(fmt.Sprintf("Failed to retrieve message: %v", err))
		}
		message = fmt.Sprintf(message, track.DisplayName(), level.DisplayName())
		return c.Edit(message, render.NextActions())
	}

	intro, err := h.messageService.GetMessageByKey(ctx, model.TestIntroKey)
	if err != nil {
		return c.Send(fmt.Sprintf("Failed to retrieve message: %v", err))
	}
	intro = fmt.Sprintf(intro, track.DisplayName(), level.DisplayName(), res.First.Total)
	if err := c.Edit(intro); err != nil {
		return err
	}

	text, markup := render.Question(res.First)
	return c.Send(text, &telebot.SendOptions{
		ParseMode:   telebot.ModeMarkdown,
		ReplyMarkup: markup,
	})
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *StartTestHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
