package create_test_handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/telebot.v4"

	customtestsService "github.com/IT-Nick/quizbot/internal/domain/customtests/service"
	messageService "github.com/IT-Nick/quizbot/internal/domain/messages/service"
	"github.com/IT-Nick/quizbot/internal/domain/model"
)

// CreateTestHandler ведет пошаговый диалог создания пользовательского теста:
// название, затем для каждого вопроса текст, четыре варианта и номер
// правильного. Черновик живет в памяти до сохранения или отмены.
type CreateTestHandler struct {
	customTestService *customtestsService.CustomTestService
	drafts            *customtestsService.DraftManager
	messageService    *messageService.MessageService
}

// NewCreateTestHandler возвращает структуру обработчика
func NewCreateTestHandler(
	customTestService *customtestsService.CustomTestService,
	drafts *customtestsService.DraftManager,
	messageService *messageService.MessageService,
) *CreateTestHandler {
	return &CreateTestHandler{
		customTestService: customTestService,
		drafts:            drafts,
		messageService:    messageService,
	}
}

// Handle начинает новый черновик теста
func (h *CreateTestHandler) Handle(c telebot.Context) error {
	h.drafts.Begin(c.Sender().ID)

	message, err := h.messageService.GetMessageByKey(context.Background(), model.CreationAskNameKey)
	if err != nil {
		return c.Send(fmt.Sprintf("Failed to retrieve message: %v", err))
	}
	return c.Edit(message, cancelMarkup())
}

// HandleText обрабатывает текстовые сообщения в рамках диалога создания.
// Вне диалога текстовые сообщения игнорируются.
func (h *CreateTestHandler) HandleText(c telebot.Context) error {
	userID := c.Sender().ID
	draft := h.drafts.Get(userID)
	if draft == nil {
		return nil
	}

	ctx := context.Background()
	text := strings.TrimSpace(c.Text())

	switch {
	case draft.State == customtestsService.DraftAwaitName:
		if err := customtestsService.ValidateName(text); err != nil {
			return h.sendValidation(c, err)
		}
		draft.Name = text
		draft.State = customtestsService.DraftAwaitQuestion
		return h.sendKeyed(c, model.CreationAskTextKey, len(draft.Questions)+1)

	case draft.State == customtestsService.DraftAwaitQuestion:
		if err := customtestsService.ValidatePrompt(text); err != nil {
			return h.sendValidation(c, err)
		}
		draft.Current.Text = text
		draft.State = customtestsService.DraftAwaitOption1
		return h.sendKeyed(c, model.CreationAskOptionKey, 1)

	case draft.State.OptionIndex() >= 0:
		if err := customtestsService.ValidateOption(text); err != nil {
			return h.sendValidation(c, err)
		}
		idx := draft.State.OptionIndex()
		draft.Current.Options[idx] = text
		if idx+1 < model.OptionCount {
			draft.State++
			return h.sendKeyed(c, model.CreationAskOptionKey, idx+2)
		}
		draft.State = customtestsService.DraftAwaitCorrect
		message, err := h.messageService.GetMessageByKey(ctx, model.CreationAskCorrectKey)
		if err != nil {
			return c.Send(fmt.Sprintf("Failed to retrieve message: %v", err))
		}
		return c.Send(message, cancelMarkup())

	case draft.State == customtestsService.DraftAwaitCorrect:
		n, convErr := strconv.Atoi(text)
		if convErr != nil {
			n = 0
		}
		if err := customtestsService.ValidateCorrect(n); err != nil {
			return h.sendValidation(c, err)
		}
		draft.Current.Correct = n
		draft.CommitQuestion()
		draft.State = customtestsService.DraftConfirm

		message, err := h.messageService.GetMessageByKey(ctx, model.CreationConfirmKey)
		if err != nil {
			return c.Send(fmt.Sprintf("Failed to retrieve message: %v", err))
		}
		message = fmt.Sprintf(message, len(draft.Questions))

		markup := &telebot.ReplyMarkup{}
		markup.Inline(
			markup.Row(markup.Data("➕ Еще вопрос", "add_another_q")),
			markup.Row(markup.Data("💾 Сохранить тест", "finish_creation")),
			markup.Row(markup.Data("❌ Отменить", "cancel_creation")),
		)
		return c.Send(message, markup)
	}

	return nil
}

// HandleAddQuestion продолжает диалог с очередным вопросом
func (h *CreateTestHandler) HandleAddQuestion(c telebot.Context) error {
	draft := h.drafts.Get(c.Sender().ID)
	if draft == nil || draft.State != customtestsService.DraftConfirm {
		return c.Respond(&telebot.CallbackResponse{Text: "Диалог создания уже завершен."})
	}
	draft.State = customtestsService.DraftAwaitQuestion
	return h.sendKeyed(c, model.CreationAskTextKey, len(draft.Questions)+1)
}

// HandleFinish сохраняет собранный тест
func (h *CreateTestHandler) HandleFinish(c telebot.Context) error {
	sender := c.Sender()
	draft := h.drafts.Get(sender.ID)
	if draft == nil || draft.State != customtestsService.DraftConfirm {
		return c.Respond(&telebot.CallbackResponse{Text: "Диалог создания уже завершен."})
	}

	ctx := context.Background()

	username := sender.Username
	if username == "" {
		username = sender.FirstName
	}
	test := &model.CustomTest{
		Name:           draft.Name,
		AuthorID:       sender.ID,
		AuthorUsername: username,
		Questions:      draft.Questions,
	}
	if err := h.customTestService.CreateOrUpdate(ctx, test); err != nil {
		var vErr *customtestsService.ValidationError
		if errors.As(err, &vErr) {
			return c.Send(vErr.Message)
		}
		return c.Send(fmt.Sprintf("Failed to save test: %v", err))
	}
	h.drafts.Discard(sender.ID)

	message, err := h.messageService.GetMessageByKey(ctx, model.CreationDoneKey)
	if err != nil {
		return c.Send(fmt.Sprintf("Failed to retrieve message: %v", err))
	}
	message = fmt.Sprintf(message, test.Name, len(test.Questions))

	markup := &telebot.ReplyMarkup{}
	markup.Inline(
		markup.Row(markup.Data("▶️ Пройти свой тест", "run_custom", strconv.Itoa(test.ID))),
		markup.Row(markup.Data("📋 В главное меню", "main_menu")),
	)
	return c.Edit(message, markup)
}

// HandleCancel отменяет диалог создания и отбрасывает черновик
func (h *CreateTestHandler) HandleCancel(c telebot.Context) error {
	h.drafts.Discard(c.Sender().ID)

	message, err := h.messageService.GetMessageByKey(context.Background(), model.CreationCancelledKey)
	if err != nil {
		return c.Send(fmt.Sprintf("Failed to retrieve message: %v", err))
	}

	markup := &telebot.ReplyMarkup{}
	markup.Inline(markup.Row(markup.Data("📋 В главное меню", "main_menu")))
	return c.Edit(message, markup)
}

// sendValidation показывает пользователю текст нарушенного ограничения,
// оставляя диалог на том же шаге.
func (h *CreateTestHandler) sendValidation(c telebot.Context, err error) error {
	var vErr *customtestsService.ValidationError
	if errors.As(err, &vErr) {
		return c.Send(vErr.Message)
	}
	return c.Send(fmt.Sprintf("Validation failed: %v", err))
}

func (h *CreateTestHandler) sendKeyed(c telebot.Context, key string, arg int) error {
	message, err := h.messageService.GetMessageByKey(context.Background(), key)
	if err != nil {
		return c.Send(fmt.Sprintf("Failed to retrieve message: %v", err))
	}
	return c.Send(fmt.Sprintf(message, arg), cancelMarkup())
}

func cancelMarkup() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.Inline(markup.Row(markup.Data("❌ Отменить создание", "cancel_creation")))
	return markup
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *CreateTestHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
