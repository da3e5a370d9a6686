package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"github.com/IT-Nick/quizbot/internal/domain/model"
)

// fakeSessionStore — хранилище сессий в памяти, повторяющее контракт
// SessionStore, включая оптимистическую блокировку Advance.
type fakeSessionStore struct {
	sessions map[int64]*model.Session
	settled  map[int64]*model.UserRating
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		sessions: make(map[int64]*model.Session),
		settled:  make(map[int64]*model.UserRating),
	}
}

func (f *fakeSessionStore) GetActive(_ context.Context, userID int64) (*model.Session, error) {
	s, ok := f.sessions[userID]
	if !ok || !s.Active {
		return nil, nil
	}
	cp := *s
	cp.QuestionIDs = append([]int(nil), s.QuestionIDs...)
	return &cp, nil
}

func (f *fakeSessionStore) Replace(_ context.Context, s *model.Session) error {
	cp := *s
	f.sessions[s.UserID] = &cp
	return nil
}

func (f *fakeSessionStore) Advance(_ context.Context, userID int64, fromIndex int, correct bool) (bool, error) {
	s, ok := f.sessions[userID]
	if !ok || !s.Active || s.CurrentIndex != fromIndex {
		return false, nil
	}
	s.CurrentIndex++
	if correct {
		s.CorrectCount++
	}
	return true, nil
}

func (f *fakeSessionStore) Deactivate(_ context.Context, userID int64) error {
	if s, ok := f.sessions[userID]; ok {
		s.Active = false
	}
	return nil
}

func (f *fakeSessionStore) FinishAndSettle(_ context.Context, userID int64, r *model.UserRating) error {
	if s, ok := f.sessions[userID]; ok {
		s.Active = false
	}
	cp := *r
	f.settled[userID] = &cp
	return nil
}

// fakeQuestionSource отдает фиксированный банк вопросов.
type fakeQuestionSource struct {
	questions []model.Question
}

func (f *fakeQuestionSource) Sample(_ context.Context, _ model.Track, _ model.Level, n int) ([]model.Question, error) {
	if n > len(f.questions) {
		n = len(f.questions)
	}
	return append([]model.Question(nil), f.questions[:n]...), nil
}

func (f *fakeQuestionSource) ByIDs(_ context.Context, ids []int) ([]model.Question, error) {
	byID := make(map[int]model.Question, len(f.questions))
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

type fakeCustomSource struct {
	byTest map[int][]model.CustomQuestion
}

func (f *fakeCustomSource) QuestionsByTestID(_ context.Context, testID int) ([]model.CustomQuestion, error) {
	return f.byTest[testID], nil
}

type fakeRatingStore struct {
	ratings map[int64]*model.UserRating
}

func (f *fakeRatingStore) GetOrCreate(_ context.Context, userID int64, username string) (*model.UserRating, error) {
	if r, ok := f.ratings[userID]; ok {
		cp := *r
		return &cp, nil
	}
	r := model.NewUserRating(userID, username)
	f.ratings[userID] = r
	cp := *r
	return &cp, nil
}

// bank возвращает n вопросов, у каждого правильный вариант первый.
func bank(n int) []model.Question {
	questions := make([]model.Question, n)
	for i := range questions {
		questions[i] = model.Question{
			ID:       i + 1,
			LevelKey: "junior_python",
			Text:     fmt.Sprintf("Вопрос %d", i+1),
			Options:  [model.OptionCount]string{"верно", "нет", "нет", "нет"},
			Correct:  1,
		}
	}
	return questions
}

func newTestService(questions []model.Question) (*SessionService, *fakeSessionStore, *fakeRatingStore) {
	sessions := newFakeSessionStore()
	ratings := &fakeRatingStore{ratings: make(map[int64]*model.UserRating)}
	custom := &fakeCustomSource{byTest: make(map[int][]model.CustomQuestion)}
	svc := NewSessionService(sessions, &fakeQuestionSource{questions: questions}, custom, ratings, 10, zap.NewNop())
	return svc, sessions, ratings
}

func TestStart_FullPool(t *testing.T) {
	svc, _, _ := newTestService(bank(30))

	res, err := svc.Start(context.Background(), 1, "alice", model.TrackPython, model.LevelJunior)
	if err != nil {
		t.Fatalf("Start вернул ошибку: %v", err)
	}
	if res.Settlement != nil {
		t.Fatal("сессия с вопросами не должна завершаться мгновенно")
	}
	if res.First == nil || res.First.Number != 1 || res.First.Total != 10 {
		t.Fatalf("ожидался первый вопрос 1/10, получено %+v", res.First)
	}
	if res.Session.CurrentIndex != 0 || res.Session.CorrectCount != 0 {
		t.Fatalf("новая сессия должна начинаться с нулевых счетчиков: %+v", res.Session)
	}
}

func TestStart_EmptyPool(t *testing.T) {
	svc, sessions, _ := newTestService(nil)

	res, err := svc.Start(context.Background(), 1, "alice", model.TrackSQL, model.LevelSenior)
	if err != nil {
		t.Fatalf("Start вернул ошибку: %v", err)
	}
	if res.First != nil {
		t.Fatal("при пустом пуле вопросов быть не должно")
	}
	if res.Settlement == nil || res.Settlement.Delta != 0 {
		t.Fatalf("пустой пул завершается с нулевой дельтой, получено %+v", res.Settlement)
	}
	if res.Settlement.OldMMR != res.Settlement.NewMMR {
		t.Fatal("рейтинг при пустом пуле меняться не должен")
	}
	// Активной сессии не остается, следующий ответ отклоняется.
	if _, err := svc.Answer(context.Background(), 1, "alice", 1); !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("ожидалась ErrNoActiveSession, получено %v", err)
	}
	if len(sessions.settled) != 0 {
		t.Fatal("рейтинг при пустом пуле фиксироваться не должен")
	}
}

func TestAnswer_Invariants(t *testing.T) {
	svc, sessions, _ := newTestService(bank(10))
	ctx := context.Background()

	if _, err := svc.Start(ctx, 1, "alice", model.TrackPython, model.LevelJunior); err != nil {
		t.Fatalf("Start вернул ошибку: %v", err)
	}

	// Первые три ответа правильные, четвертый нет.
	answers := []int{1, 1, 1, 2}
	for i, a := range answers {
		res, err := svc.Answer(ctx, 1, "alice", a)
		if err != nil {
			t.Fatalf("ответ %d вернул ошибку: %v", i+1, err)
		}
		wantCorrect := a == 1
		if res.Correct != wantCorrect {
			t.Fatalf("ответ %d: ожидалось correct=%v", i+1, wantCorrect)
		}
		s := sessions.sessions[1]
		if s.CurrentIndex != i+1 {
			t.Fatalf("после %d ответов индекс должен быть %d, получено %d", i+1, i+1, s.CurrentIndex)
		}
	}
	if got := sessions.sessions[1].CorrectCount; got != 3 {
		t.Fatalf("ожидалось 3 правильных ответа, получено %d", got)
	}
}

func TestAnswer_InvalidOption(t *testing.T) {
	svc, sessions, _ := newTestService(bank(10))
	ctx := context.Background()

	if _, err := svc.Start(ctx, 1, "alice", model.TrackJava, model.LevelMiddle); err != nil {
		t.Fatalf("Start вернул ошибку: %v", err)
	}

	for _, bad := range []int{0, 5, -1} {
		if _, err := svc.Answer(ctx, 1, "alice", bad); !errors.Is(err, ErrInvalidOption) {
			t.Fatalf("вариант %d: ожидалась ErrInvalidOption, получено %v", bad, err)
		}
	}
	if s := sessions.sessions[1]; s.CurrentIndex != 0 || s.CorrectCount != 0 {
		t.Fatalf("недопустимый вариант не должен менять состояние: %+v", s)
	}
}

func TestAnswer_StaleDoubleClick(t *testing.T) {
	svc, sessions, _ := newTestService(bank(10))
	ctx := context.Background()

	if _, err := svc.Start(ctx, 1, "alice", model.TrackPython, model.LevelJunior); err != nil {
		t.Fatalf("Start вернул ошибку: %v", err)
	}
	if _, err := svc.Answer(ctx, 1, "alice", 1); err != nil {
		t.Fatalf("первый клик должен пройти: %v", err)
	}

	// Двойной клик: второе событие несет тот же индекс вопроса, что и первое.
	// Advance по уже сдвинутому индексу не находит строку и ничего не меняет.
	ok, err := sessions.Advance(ctx, 1, 0, true)
	if err != nil {
		t.Fatalf("Advance вернул ошибку: %v", err)
	}
	if ok {
		t.Fatal("повторный Advance по старому индексу должен быть отклонен")
	}
	if s := sessions.sessions[1]; s.CurrentIndex != 1 || s.CorrectCount != 1 {
		t.Fatalf("двойной клик не должен менять состояние: %+v", s)
	}
}

func TestAnswer_Settlement(t *testing.T) {
	svc, sessions, _ := newTestService(bank(10))
	ctx := context.Background()

	if _, err := svc.Start(ctx, 1, "alice", model.TrackPython, model.LevelMiddle); err != nil {
		t.Fatalf("Start вернул ошибку: %v", err)
	}

	// Девять правильных ответов и один неправильный: 90%, +50 * 1.5 = +75.
	var last *AnswerResult
	for i := 0; i < 10; i++ {
		option := 1
		if i == 9 {
			option = 2
		}
		res, err := svc.Answer(ctx, 1, "alice", option)
		if err != nil {
			t.Fatalf("ответ %d вернул ошибку: %v", i+1, err)
		}
		last = res
	}

	if last.Settlement == nil {
		t.Fatal("последний ответ должен завершать сессию")
	}
	st := last.Settlement
	if st.CorrectCount != 9 || st.Delta != 75 || st.NewMMR != 1075 {
		t.Fatalf("ожидалось 9 правильных, дельта +75, рейтинг 1075; получено %+v", st)
	}
	if sessions.sessions[1].Active {
		t.Fatal("завершенная сессия должна быть деактивирована")
	}

	settled := sessions.settled[1]
	if settled == nil {
		t.Fatal("рейтинг должен быть зафиксирован вместе с завершением")
	}
	if settled.MMRPython != 1075 || settled.TotalTestsPython != 1 {
		t.Fatalf("рейтинг трека не обновлен: %+v", settled)
	}
	if settled.MMR != 1075 || settled.TotalTests != 1 {
		t.Fatalf("общий рейтинг должен сдвинуться на ту же дельту: %+v", settled)
	}
	if settled.LastTestDate == nil {
		t.Fatal("дата последнего теста должна быть заполнена")
	}

	// Ответ по завершенной сессии отклоняется.
	if _, err := svc.Answer(ctx, 1, "alice", 1); !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("ожидалась ErrNoActiveSession, получено %v", err)
	}
}

func TestStart_SupersedesActiveSession(t *testing.T) {
	svc, sessions, _ := newTestService(bank(10))
	ctx := context.Background()

	if _, err := svc.Start(ctx, 1, "alice", model.TrackPython, model.LevelJunior); err != nil {
		t.Fatalf("Start вернул ошибку: %v", err)
	}
	if _, err := svc.Answer(ctx, 1, "alice", 1); err != nil {
		t.Fatalf("ответ вернул ошибку: %v", err)
	}

	// Повторный старт вытесняет прогресс первой сессии.
	if _, err := svc.Start(ctx, 1, "alice", model.TrackJava, model.LevelSenior); err != nil {
		t.Fatalf("повторный Start вернул ошибку: %v", err)
	}
	s := sessions.sessions[1]
	if s.CurrentIndex != 0 || s.CorrectCount != 0 {
		t.Fatalf("новая сессия должна начинаться с нуля: %+v", s)
	}
	if s.LevelKey != "senior_java" {
		t.Fatalf("ожидался ключ senior_java, получено %q", s.LevelKey)
	}
	if len(sessions.settled) != 0 {
		t.Fatal("вытеснение не должно фиксировать рейтинг")
	}
}

func TestStartCustom_AndSettle(t *testing.T) {
	sessions := newFakeSessionStore()
	ratings := &fakeRatingStore{ratings: make(map[int64]*model.UserRating)}
	custom := &fakeCustomSource{byTest: map[int][]model.CustomQuestion{
		7: {
			{ID: 100, TestID: 7, Text: "Столицы: Франция?", Options: [model.OptionCount]string{"Париж", "Лион", "Ницца", "Марсель"}, Correct: 1},
			{ID: 101, TestID: 7, Text: "Столицы: Япония?", Options: [model.OptionCount]string{"Осака", "Токио", "Киото", "Нагоя"}, Correct: 2},
			{ID: 102, TestID: 7, Text: "Столицы: Канада?", Options: [model.OptionCount]string{"Торонто", "Ванкувер", "Оттава", "Монреаль"}, Correct: 3},
		},
	}}
	svc := NewSessionService(sessions, &fakeQuestionSource{}, custom, ratings, 10, zap.NewNop())
	ctx := context.Background()

	test := &model.CustomTest{ID: 7, Name: "Столицы", Questions: custom.byTest[7]}
	res, err := svc.StartCustom(ctx, 2, "bob", test)
	if err != nil {
		t.Fatalf("StartCustom вернул ошибку: %v", err)
	}
	if res.First == nil || res.First.Total != 3 {
		t.Fatalf("ожидался первый вопрос из трех, получено %+v", res.First)
	}

	// Все три ответа правильные: 100% от общего числа, +40 без множителя.
	var last *AnswerResult
	for _, option := range []int{1, 2, 3} {
		last, err = svc.Answer(ctx, 2, "bob", option)
		if err != nil {
			t.Fatalf("ответ вернул ошибку: %v", err)
		}
		if !last.Correct {
			t.Fatalf("ответ %d должен быть правильным", option)
		}
	}
	if last.Settlement == nil {
		t.Fatal("последний ответ должен завершать сессию")
	}
	st := last.Settlement
	if st.Kind != model.SessionCustom || st.Delta != 40 || st.NewMMR != 1040 {
		t.Fatalf("ожидалась дельта +40 по общему рейтингу, получено %+v", st)
	}
	settled := sessions.settled[2]
	if settled == nil || settled.MMR != 1040 {
		t.Fatalf("общий рейтинг должен стать 1040: %+v", settled)
	}
	// Пользовательский тест не трогает рейтинги треков.
	if settled.MMRJava != model.DefaultMMR || settled.MMRPython != model.DefaultMMR || settled.MMRSQL != model.DefaultMMR {
		t.Fatalf("рейтинги треков меняться не должны: %+v", settled)
	}
}

func TestStartCustom_NoQuestions(t *testing.T) {
	svc, _, _ := newTestService(nil)

	_, err := svc.StartCustom(context.Background(), 2, "bob", &model.CustomTest{ID: 9, Name: "Пустой"})
	if !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("ожидалась ErrNoQuestions, получено %v", err)
	}
}

func TestCancel(t *testing.T) {
	svc, sessions, _ := newTestService(bank(10))
	ctx := context.Background()

	if _, err := svc.Start(ctx, 1, "alice", model.TrackPython, model.LevelJunior); err != nil {
		t.Fatalf("Start вернул ошибку: %v", err)
	}
	if _, err := svc.Cancel(ctx, 1); err != nil {
		t.Fatalf("Cancel вернул ошибку: %v", err)
	}
	if sessions.sessions[1].Active {
		t.Fatal("отмененная сессия должна быть деактивирована")
	}
	if len(sessions.settled) != 0 {
		t.Fatal("отмена не должна фиксировать рейтинг")
	}
	if _, err := svc.Cancel(ctx, 1); !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("повторная отмена: ожидалась ErrNoActiveSession, получено %v", err)
	}
}
