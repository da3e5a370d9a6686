package catalog_handler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/telebot.v4"

	customtestsService "github.com/IT-Nick/quizbot/internal/domain/customtests/service"
	messageService "github.com/IT-Nick/quizbot/internal/domain/messages/service"
	"github.com/IT-Nick/quizbot/internal/domain/model"
)

// CatalogHandler показывает каталог пользовательских тестов с пагинацией.
// Номер страницы передается в данных кнопки; значения вне диапазона
// приводятся к ближайшей существующей странице.
type CatalogHandler struct {
	customTestService *customtestsService.CustomTestService
	messageService    *messageService.MessageService
}

// NewCatalogHandler возвращает структуру обработчика
func NewCatalogHandler(
	customTestService *customtestsService.CustomTestService,
	messageService *messageService.MessageService,
) *CatalogHandler {
	return &CatalogHandler{
		customTestService: customTestService,
		messageService:    messageService,
	}
}

// Handle отправляет страницу каталога
func (h *CatalogHandler) Handle(c telebot.Context) error {
	page := 0
	if n, err := strconv.Atoi(strings.TrimSpace(c.Data())); err == nil {
		page = n
	}

	ctx := context.Background()

	catalog, err := h.customTestService.Catalog(ctx, page)
	if err != nil {
		return c.Send(fmt.Sprintf("Failed to retrieve catalog: %v", err))
	}

	if catalog.Total == 0 {
		message, mErr := h.messageService.GetMessageByKey(ctx, model.CatalogEmptyKey)
		if mErr != nil {
			return c.Send(fmt.Sprintf("Failed to retrieve message: %v", mErr))
		}
		markup := &telebot.ReplyMarkup{}
		markup.Inline(
			markup.Row(markup.Data("✍️ Создать тест", "create_test")),
			markup.Row(markup.Data("📋 В главное меню", "main_menu")),
		)
		return c.Edit(message, markup)
	}

	header, err := h.messageService.GetMessageByKey(ctx, model.CatalogHeaderKey)
	if err != nil {
		return c.Send(fmt.Sprintf("Failed to retrieve message: %v", err))
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf(header, catalog.Page+1, catalog.Pages))
	b.WriteString("\n\n")

	markup := &telebot.ReplyMarkup{}
	rows := make([]telebot.Row, 0, len(catalog.Tests)+2)
	for i, test := range catalog.Tests {
		author := test.AuthorUsername
		if author == "" {
			author = fmt.Sprintf("id%d", test.AuthorID)
		}
		b.WriteString(fmt.Sprintf("%d. «%s» от @%s (вопросов: %d)\n",
			catalog.From+i+1, test.Name, author, test.QuestionCount))
		rows = append(rows, markup.Row(
			markup.Data(fmt.Sprintf("▶️ %s", test.Name), "run_custom", strconv.Itoa(test.ID)),
		))
	}

	// Кнопки пагинации показываем только там, где есть куда листать.
	var nav []telebot.Btn
	if catalog.Page > 0 {
		nav = append(nav, markup.Data("⬅️ Назад", "test_catalog", strconv.Itoa(catalog.Page-1)))
	}
	if catalog.Page < catalog.Pages-1 {
		nav = append(nav, markup.Data("Вперед ➡️", "test_catalog", strconv.Itoa(catalog.Page+1)))
	}
	if len(nav) > 0 {
		rows = append(rows, markup.Row(nav...))
	}
	rows = append(rows, markup.Row(markup.Data("📋 В главное меню", "main_menu")))
	markup.Inline(rows...)

	return c.Edit(b.String(), markup)
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *CatalogHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
