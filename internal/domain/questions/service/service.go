package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"

	"go.uber.org/zap"

	"github.com/IT-Nick/quizbot/internal/domain/model"
)

// QuestionStore — контракт хранилища банка вопросов.
type QuestionStore interface {
	IDsByLevelKey(ctx context.Context, levelKey string) ([]int, error)
	ByIDs(ctx context.Context, ids []int) ([]model.Question, error)
	Count(ctx context.Context) (int, error)
	InsertBatch(ctx context.Context, questions []model.Question) error
}

// QuestionService отвечает за выборку вопросов из банка и его начальное наполнение.
type QuestionService struct {
	store QuestionStore
	log   *zap.Logger
}

// NewQuestionService создает новый экземпляр QuestionService
func NewQuestionService(store QuestionStore, log *zap.Logger) *QuestionService {
	return &QuestionService{store: store, log: log}
}

// Sample выбирает не более n случайных вопросов пула (track, level) без повторов.
// Если пул меньше n, возвращается весь пул в случайном порядке.
// Пустой пул — не ошибка: вызывающая сторона завершает такую сессию сразу.
func (s *QuestionService) Sample(ctx context.Context, track model.Track, level model.Level, n int) ([]model.Question, error) {
	levelKey := model.LevelKey(track, level)

	ids, err := s.store.IDsByLevelKey(ctx, levelKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get question pool %s: %w", levelKey, err)
	}
	if len(ids) == 0 {
		s.log.Warn("question pool is empty", zap.String("level_key", levelKey))
		return nil, nil
	}

	selected := randomIDs(ids, n)
	questions, err := s.store.ByIDs(ctx, selected)
	if err != nil {
		return nil, fmt.Errorf("failed to load sampled questions: %w", err)
	}
	return questions, nil
}

// ByIDs возвращает вопросы по идентификаторам, сохраняя порядок сессии.
func (s *QuestionService) ByIDs(ctx context.Context, ids []int) ([]model.Question, error) {
	questions, err := s.store.ByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}
	return questions, nil
}

// seedQuestion — формат записи в файле начального наполнения банка.
type seedQuestion struct {
	Level   string   `json:"level"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
	Correct int      `json:"correct_option"`
}

// EnsureSeeded наполняет банк вопросами из JSON-файла, если банк пуст.
// Повторный запуск с непустым банком ничего не делает.
func (s *QuestionService) EnsureSeeded(ctx context.Context, filename string) error {
	count, err := s.store.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count questions: %w", err)
	}
	if count > 0 {
		s.log.Debug("question bank already seeded", zap.Int("count", count))
		return nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("не удалось прочитать файл с вопросами: %w", err)
	}
	var seeds []seedQuestion
	if err := json.Unmarshal(data, &seeds); err != nil {
		return fmt.Errorf("не удалось разобрать JSON: %w", err)
	}

	questions := make([]model.Question, 0, len(seeds))
	for i, seed := range seeds {
		if len(seed.Options) != model.OptionCount {
			return fmt.Errorf("seed question %d: expected %d options, got %d", i, model.OptionCount, len(seed.Options))
		}
		var options [model.OptionCount]string
		copy(options[:], seed.Options)
		q, err := model.NewQuestion(seed.Level, seed.Text, options, seed.Correct)
		if err != nil {
			return fmt.Errorf("seed question %d: %w", i, err)
		}
		questions = append(questions, q)
	}

	if err := s.store.InsertBatch(ctx, questions); err != nil {
		return fmt.Errorf("failed to seed question bank: %w", err)
	}
	s.log.Info("question bank seeded", zap.Int("count", len(questions)), zap.String("file", filename))
	return nil
}

// randomIDs выбирает count случайных идентификаторов без повторов.
func randomIDs(ids []int, count int) []int {
	cpy := make([]int, len(ids))
	copy(cpy, ids)
	rand.Shuffle(len(cpy), func(i, j int) {
		cpy[i], cpy[j] = cpy[j], cpy[i]
	})
	if count > len(cpy) {
		count = len(cpy)
	}
	return cpy[:count]
}
