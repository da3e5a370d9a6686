package service

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/IT-Nick/quizbot/internal/domain/model"
)

// fakeStore — in-memory хранилище банка вопросов для тестов.
type fakeStore struct {
	questions []model.Question
}

func (f *fakeStore) IDsByLevelKey(_ context.Context, levelKey string) ([]int, error) {
	var ids []int
	for _, q := range f.questions {
		if q.LevelKey == levelKey {
			ids = append(ids, q.ID)
		}
	}
	return ids, nil
}

func (f *fakeStore) ByIDs(_ context.Context, ids []int) ([]model.Question, error) {
	byID := make(map[int]model.Question)
	for _, q := range f.questions {
		byID[q.ID] = q
	}
	var out []model.Question
	for _, id := range ids {
		if q, ok := byID[id]; ok {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeStore) Count(_ context.Context) (int, error) {
	return len(f.questions), nil
}

func (f *fakeStore) InsertBatch(_ context.Context, questions []model.Question) error {
	for i, q := range questions {
		q.ID = len(f.questions) + i + 1
		f.questions = append(f.questions, q)
	}
	return nil
}

// newTestBank создает банк с n вопросами пула junior_python.
func newTestBank(n int) *fakeStore {
	store := &fakeStore{}
	for i := 1; i <= n; i++ {
		store.questions = append(store.questions, model.Question{
			ID:       i,
			LevelKey: "junior_python",
			Text:     "Вопрос",
			Options:  [4]string{"a", "b", "c", "d"},
			Correct:  1,
		})
	}
	return store
}

// TestSample_Unique проверяет, что выборка возвращает ровно n уникальных вопросов.
func TestSample_Unique(t *testing.T) {
	svc := NewQuestionService(newTestBank(30), zap.NewNop())

	questions, err := svc.Sample(context.Background(), model.TrackPython, model.LevelJunior, 10)
	if err != nil {
		t.Fatalf("Sample вернул ошибку: %v", err)
	}
	if len(questions) != 10 {
		t.Errorf("Ожидалось 10 вопросов, получено %d", len(questions))
	}

	ids := make(map[int]bool)
	for _, q := range questions {
		if ids[q.ID] {
			t.Errorf("Вопрос с ID %d повторяется в выборке", q.ID)
		}
		ids[q.ID] = true
	}
}

// TestSample_SmallPool проверяет, что при пуле меньше запрошенного
// возвращается весь пул без повторов.
func TestSample_SmallPool(t *testing.T) {
	svc := NewQuestionService(newTestBank(4), zap.NewNop())

	questions, err := svc.Sample(context.Background(), model.TrackPython, model.LevelJunior, 10)
	if err != nil {
		t.Fatalf("Sample вернул ошибку: %v", err)
	}
	if len(questions) != 4 {
		t.Errorf("Ожидалось 4 вопроса, получено %d", len(questions))
	}
}

// TestSample_EmptyPool проверяет, что пустой пул не является ошибкой.
func TestSample_EmptyPool(t *testing.T) {
	svc := NewQuestionService(newTestBank(5), zap.NewNop())

	questions, err := svc.Sample(context.Background(), model.TrackSQL, model.LevelSenior, 10)
	if err != nil {
		t.Fatalf("Sample вернул ошибку: %v", err)
	}
	if len(questions) != 0 {
		t.Errorf("Ожидался пустой результат, получено %d вопросов", len(questions))
	}
}

// TestEnsureSeeded_FileLoad проверяет загрузку вопросов из JSON-файла в пустой банк.
func TestEnsureSeeded_FileLoad(t *testing.T) {
	seeds := []seedQuestion{
		{Level: "junior_java", Text: "Что такое JVM?", Options: []string{"a", "b", "c", "d"}, Correct: 1},
		{Level: "middle_sql", Text: "Что делает JOIN?", Options: []string{"a", "b", "c", "d"}, Correct: 2},
	}
	data, err := json.Marshal(seeds)
	if err != nil {
		t.Fatalf("Ошибка маршалинга JSON: %v", err)
	}
	filename := filepath.Join(t.TempDir(), "questions.json")
	if err := os.WriteFile(filename, data, 0644); err != nil {
		t.Fatalf("Ошибка записи временного файла: %v", err)
	}

	store := &fakeStore{}
	svc := NewQuestionService(store, zap.NewNop())

	if err := svc.EnsureSeeded(context.Background(), filename); err != nil {
		t.Fatalf("EnsureSeeded вернул ошибку: %v", err)
	}
	if len(store.questions) != len(seeds) {
		t.Errorf("Ожидалось %d вопросов, получено %d", len(seeds), len(store.questions))
	}

	// Повторный запуск не должен дублировать банк.
	if err := svc.EnsureSeeded(context.Background(), filename); err != nil {
		t.Fatalf("Повторный EnsureSeeded вернул ошибку: %v", err)
	}
	if len(store.questions) != len(seeds) {
		t.Errorf("Повторное наполнение продублировало банк: %d вопросов", len(store.questions))
	}
}

// TestEnsureSeeded_Invalid проверяет, что некорректная запись отклоняется целиком.
func TestEnsureSeeded_Invalid(t *testing.T) {
	seeds := []seedQuestion{
		{Level: "junior_java", Text: "Ок", Options: []string{"a", "b", "c", "d"}, Correct: 5},
	}
	data, _ := json.Marshal(seeds)
	filename := filepath.Join(t.TempDir(), "questions.json")
	if err := os.WriteFile(filename, data, 0644); err != nil {
		t.Fatalf("Ошибка записи временного файла: %v", err)
	}

	store := &fakeStore{}
	svc := NewQuestionService(store, zap.NewNop())

	if err := svc.EnsureSeeded(context.Background(), filename); err == nil {
		t.Fatal("Ожидалась ошибка валидации, получен nil")
	}
	if len(store.questions) != 0 {
		t.Errorf("Некорректное наполнение частично сохранилось: %d вопросов", len(store.questions))
	}
}
