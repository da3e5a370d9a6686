package answer_handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/telebot.v4"

	"github.com/IT-Nick/quizbot/internal/app/handlers/telegram/render"
	messageService "github.com/IT-Nick/quizbot/internal/domain/messages/service"
	"github.com/IT-Nick/quizbot/internal/domain/model"
	sessionsService "github.com/IT-Nick/quizbot/internal/domain/sessions/service"
)

// AnswerHandler обрабатывает нажатия на варианты ответа. Один обработчик
// обслуживает и стандартные, и пользовательские тесты: вся разница скрыта
// в состоянии сессии.
type AnswerHandler struct {
	sessionService *sessionsService.SessionService
	messageService *messageService.MessageService
}

// NewAnswerHandler возвращает структуру обработчика
func NewAnswerHandler(
	sessionService *sessionsService.SessionService,
	messageService *messageService.MessageService,
) *AnswerHandler {
	return &AnswerHandler{
		sessionService: sessionService,
		messageService: messageService,
	}
}

// Handle засчитывает ответ и отправляет следующий вопрос либо итог теста
func (h *AnswerHandler) Handle(c telebot.Context) error {
	sender := c.Sender()
	username := sender.Username
	if username == "" {
		username = sender.FirstName
	}

	// В данные кнопки уходит только номер варианта.
	cleanedData := strings.TrimSpace(c.Data())
	selected, err := strconv.Atoi(cleanedData)
	if err != nil {
		return c.Respond(&telebot.CallbackResponse{Text: "Некорректный вариант ответа."})
	}

	ctx := context.Background()

	res, err := h.sessionService.Answer(ctx, sender.ID, username, selected)
	if err != nil {
		return h.handleAnswerError(c, ctx, err)
	}

	// Убираем клавиатуру с отвеченного вопроса и показываем отклик.
	feedback := fmt.Sprintf("❓ *Вопрос %d из %d:*\n%s\n\n%s",
		res.Question.Number, res.Question.Total, res.Question.Text, render.Feedback(res))
	if err := c.Edit(feedback, &telebot.SendOptions{ParseMode: telebot.ModeMarkdown}); err != nil {
		return err
	}

	if res.Next != nil {
		text, markup := render.Question(res.Next)
		return c.Send(text, &telebot.SendOptions{
			ParseMode:   telebot.ModeMarkdown,
			ReplyMarkup: markup,
		})
	}

	return c.Send(render.Settlement(res.Settlement), &telebot.SendOptions{
		ParseMode:   telebot.ModeMarkdown,
		ReplyMarkup: render.NextActions(),
	})
}

// handleAnswerError переводит штатные ошибки машины состояний в ответы
// пользователю. Любая из них означает, что ответ не засчитан.
func (h *AnswerHandler) handleAnswerError(c telebot.Context, ctx context.Context, err error) error {
	switch {
	case errors.Is(err, sessionsService.ErrInvalidOption):
		return c.Respond(&telebot.CallbackResponse{Text: "Некорректный вариант ответа."})
	case errors.Is(err, sessionsService.ErrStaleSession):
		message, mErr := h.messageService.GetMessageByKey(ctx, model.SessionExpiredKey)
		if mErr != nil {
			return c.Respond(&telebot.CallbackResponse{Text: "Эта сессия устарела."})
		}
		return c.Respond(&telebot.CallbackResponse{Text: message})
	case errors.Is(err, sessionsService.ErrNoActiveSession):
		message, mErr := h.messageService.GetMessageByKey(ctx, model.SessionExpiredKey)
		if mErr != nil {
			return c.Respond(&telebot.CallbackResponse{Text: "Активного теста нет."})
		}
		return c.Respond(&telebot.CallbackResponse{Text: message})
	default:
		return c.Send(fmt.Sprintf("Failed to process answer: %v", err))
	}
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *AnswerHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
