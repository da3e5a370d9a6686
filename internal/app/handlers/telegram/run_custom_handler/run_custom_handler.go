package run_custom_handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/telebot.v4"

	"github.com/IT-Nick/quizbot/internal/app/handlers/telegram/render"
	customtestsService "github.com/IT-Nick/quizbot/internal/domain/customtests/service"
	messageService "github.com/IT-Nick/quizbot/internal/domain/messages/service"
	"github.com/IT-Nick/quizbot/internal/domain/model"
	sessionsService "github.com/IT-Nick/quizbot/internal/domain/sessions/service"
)

// RunCustomHandler запускает прохождение пользовательского теста из каталога
type RunCustomHandler struct {
	sessionService    *sessionsService.SessionService
	customTestService *customtestsService.CustomTestService
	messageService    *messageService.MessageService
}

// NewRunCustomHandler возвращает структуру обработчика
func NewRunCustomHandler(
	sessionService *sessionsService.SessionService,
	customTestService *customtestsService.CustomTestService,
	messageService *messageService.MessageService,
) *RunCustomHandler {
	return &RunCustomHandler{
		sessionService:    sessionService,
		customTestService: customTestService,
		messageService:    messageService,
	}
}

// Handle запускает сессию по тесту из данных кнопки
func (h *RunCustomHandler) Handle(c telebot.Context) error {
	sender := c.Sender()
	username := sender.Username
	if username == "" {
		username = sender.FirstName
	}

	testID, err := strconv.Atoi(strings.TrimSpace(c.Data()))
	if err != nil {
		return c.Respond(&telebot.CallbackResponse{Text: "Некорректный тест."})
	}

	ctx := context.Background()

	test, err := h.customTestService.GetByID(ctx, testID)
	if err != nil {
		return c.Send(fmt.Sprintf("Failed to load test: %v", err))
	}
	if test == nil {
		return c.Respond(&telebot.CallbackResponse{Text: "Тест уже удален."})
	}

	res, err := h.sessionService.StartCustom(ctx, sender.ID, username, test)
	if err != nil {
		if errors.Is(err, sessionsService.ErrNoQuestions) {
			return c.Respond(&telebot.CallbackResponse{Text: "В этом тесте нет вопросов."})
		}
		return c.Send(fmt.Sprintf("Failed to start test: %v", err))
	}

	intro, err := h.messageService.GetMessageByKey(ctx, model.CustomIntroKey)
	if err != nil {
		return c.Send(fmt.Sprintf("Failed to retrieve message: %v", err))
	}
	intro = fmt.Sprintf(intro, test.Name, res.First.Total)
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
func (h *RunCustomHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
