package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/IT-Nick/quizbot/internal/domain/model"
)

// Ограничения на содержимое пользовательского теста.
const (
	MinNameLen   = 3
	MinPromptLen = 5
)

// ValidationError описывает нарушение ограничений на содержимое теста.
// Message предназначено для показа пользователю.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// CustomTestStore — контракт хранилища пользовательских тестов.
type CustomTestStore interface {
	Upsert(ctx context.Context, test *model.CustomTest) error
	ListAll(ctx context.Context) ([]model.CustomTest, error)
	ListByAuthor(ctx context.Context, authorID int64) ([]model.CustomTest, error)
	GetByID(ctx context.Context, id int) (*model.CustomTest, error)
	QuestionsByTestID(ctx context.Context, testID int) ([]model.CustomQuestion, error)
}

// CatalogPage — страница каталога пользовательских тестов.
type CatalogPage struct {
	Tests []model.CustomTest
	Page  int // 0-based, после приведения к допустимому диапазону
	Pages int
	Total int
	From  int // глобальный индекс первого теста на странице
}

// CustomTestService управляет созданием и каталогом пользовательских тестов.
type CustomTestService struct {
	store    CustomTestStore
	pageSize int
	log      *zap.Logger
}

// NewCustomTestService создает новый экземпляр CustomTestService
func NewCustomTestService(store CustomTestStore, pageSize int, log *zap.Logger) *CustomTestService {
	return &CustomTestService{store: store, pageSize: pageSize, log: log}
}

// ValidateName проверяет название теста.
func ValidateName(name string) error {
	if len([]rune(strings.TrimSpace(name))) < MinNameLen {
		return &ValidationError{Field: "name", Message: fmt.Sprintf("Название теста должно быть не короче %d символов.", MinNameLen)}
	}
	return nil
}

// ValidatePrompt проверяет текст вопроса.
func ValidatePrompt(text string) error {
	if len([]rune(strings.TrimSpace(text))) < MinPromptLen {
		return &ValidationError{Field: "question", Message: fmt.Sprintf("Текст вопроса должен быть не короче %d символов.", MinPromptLen)}
	}
	return nil
}

// ValidateOption проверяет вариант ответа.
func ValidateOption(text string) error {
	if strings.TrimSpace(text) == "" {
		return &ValidationError{Field: "option", Message: "Вариант ответа не может быть пустым."}
	}
	return nil
}

// ValidateCorrect проверяет номер правильного варианта.
func ValidateCorrect(n int) error {
	if n < 1 || n > model.OptionCount {
		return &ValidationError{Field: "correct", Message: fmt.Sprintf("Номер правильного ответа должен быть от 1 до %d.", model.OptionCount)}
	}
	return nil
}

// CreateOrUpdate проверяет и сохраняет тест. Тест автора с тем же именем
// заменяется целиком.
func (s *CustomTestService) CreateOrUpdate(ctx context.Context, test *model.CustomTest) error {
	test.Name = strings.TrimSpace(test.Name)
	if err := ValidateName(test.Name); err != nil {
		return err
	}
	if len(test.Questions) == 0 {
		return &ValidationError{Field: "questions", Message: "В тесте должен быть хотя бы один вопрос."}
	}
	for i := range test.Questions {
		q := &test.Questions[i]
		q.Text = strings.TrimSpace(q.Text)
		if err := ValidatePrompt(q.Text); err != nil {
			return err
		}
		for j, opt := range q.Options {
			q.Options[j] = strings.TrimSpace(opt)
			if err := ValidateOption(q.Options[j]); err != nil {
				return err
			}
		}
		if err := ValidateCorrect(q.Correct); err != nil {
			return err
		}
	}

	if err := s.store.Upsert(ctx, test); err != nil {
		return fmt.Errorf("failed to save custom test: %w", err)
	}
	s.log.Info("custom test saved",
		zap.Int("test_id", test.ID),
		zap.Int64("author_id", test.AuthorID),
		zap.String("name", test.Name),
		zap.Int("questions", len(test.Questions)))
	return nil
}

// Catalog возвращает страницу каталога. Номер страницы вне диапазона
// приводится к ближайшей существующей странице.
func (s *CustomTestService) Catalog(ctx context.Context, page int) (*CatalogPage, error) {
	tests, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list custom tests: %w", err)
	}

	total := len(tests)
	pages := (total + s.pageSize - 1) / s.pageSize
	if pages == 0 {
		return &CatalogPage{Pages: 0, Total: 0}, nil
	}
	if page < 0 {
		page = 0
	}
	if page >= pages {
		page = pages - 1
	}
	from := page * s.pageSize
	to := from + s.pageSize
	if to > total {
		to = total
	}
	return &CatalogPage{Tests: tests[from:to], Page: page, Pages: pages, Total: total, From: from}, nil
}

// GetByAuthorIndex возвращает i-й (0-based) тест автора в порядке создания,
// вместе с вопросами. Возвращает nil, если такого теста нет.
func (s *CustomTestService) GetByAuthorIndex(ctx context.Context, authorID int64, index int) (*model.CustomTest, error) {
	tests, err := s.store.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list author tests: %w", err)
	}
	if index < 0 || index >= len(tests) {
		return nil, nil
	}
	test, err := s.store.GetByID(ctx, tests[index].ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load custom test: %w", err)
	}
	return test, nil
}

// GetByID возвращает тест вместе с вопросами или nil, если теста нет.
func (s *CustomTestService) GetByID(ctx context.Context, id int) (*model.CustomTest, error) {
	test, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load custom test: %w", err)
	}
	return test, nil
}

// QuestionsByTestID возвращает вопросы теста в порядке вставки.
func (s *CustomTestService) QuestionsByTestID(ctx context.Context, testID int) ([]model.CustomQuestion, error) {
	questions, err := s.store.QuestionsByTestID(ctx, testID)
	if err != nil {
		return nil, fmt.Errorf("failed to load custom questions: %w", err)
	}
	return questions, nil
}
