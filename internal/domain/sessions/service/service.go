package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/IT-Nick/quizbot/internal/domain/model"
	"github.com/IT-Nick/quizbot/internal/domain/rating"
)

// Ошибки машины состояний сессии. Все они штатные: транспортный слой
// отвечает на них переспросом или сообщением об устаревшей сессии,
// состояние при этом не меняется.
var (
	// ErrInvalidOption — номер ответа вне диапазона 1..4.
	ErrInvalidOption = errors.New("answer option out of range")
	// ErrNoActiveSession — событие пришло без активной сессии.
	ErrNoActiveSession = errors.New("no active session")
	// ErrStaleSession — сессия устарела: повторный клик, пропавший вопрос
	// или ответ по вытесненной сессии.
	ErrStaleSession = errors.New("session is stale")
	// ErrNoQuestions — попытка запустить пользовательский тест без вопросов.
	ErrNoQuestions = errors.New("test has no questions")
)

// SessionStore — контракт хранилища сессий. Replace и FinishAndSettle
// атомарны; Advance использует оптимистическую блокировку по текущему
// индексу, чтобы двойной клик не засчитывал ответ дважды.
type SessionStore interface {
	GetActive(ctx context.Context, userID int64) (*model.Session, error)
	Replace(ctx context.Context, s *model.Session) error
	Advance(ctx context.Context, userID int64, fromIndex int, correct bool) (bool, error)
	Deactivate(ctx context.Context, userID int64) error
	FinishAndSettle(ctx context.Context, userID int64, r *model.UserRating) error
}

// QuestionSource — контракт банка вопросов для стандартных сессий.
type QuestionSource interface {
	Sample(ctx context.Context, track model.Track, level model.Level, n int) ([]model.Question, error)
	ByIDs(ctx context.Context, ids []int) ([]model.Question, error)
}

// CustomQuestionSource — контракт источника вопросов пользовательских тестов.
type CustomQuestionSource interface {
	QuestionsByTestID(ctx context.Context, testID int) ([]model.CustomQuestion, error)
}

// RatingStore — контракт хранилища рейтингов.
type RatingStore interface {
	GetOrCreate(ctx context.Context, userID int64, username string) (*model.UserRating, error)
}

// SessionService реализует машину состояний прохождения теста:
// Idle -> Active -> {Completed, Cancelled}. Запуск новой сессии вытесняет
// предыдущую; завершение рассчитывает рейтинг и фиксируется атомарно.
type SessionService struct {
	sessions  SessionStore
	questions QuestionSource
	custom    CustomQuestionSource
	ratings   RatingStore
	perTest   int
	log       *zap.Logger
}

// NewSessionService создает новый экземпляр SessionService
func NewSessionService(
	sessions SessionStore,
	questions QuestionSource,
	custom CustomQuestionSource,
	ratings RatingStore,
	questionsPerTest int,
	log *zap.Logger,
) *SessionService {
	return &SessionService{
		sessions:  sessions,
		questions: questions,
		custom:    custom,
		ratings:   ratings,
		perTest:   questionsPerTest,
		log:       log,
	}
}

// QuestionView — вопрос в виде, пригодном для отображения.
type QuestionView struct {
	Number  int // 1-based порядковый номер в сессии
	Total   int
	Text    string
	Options [model.OptionCount]string
}

// Settlement — итог расчета рейтинга при завершении сессии.
type Settlement struct {
	Kind         model.SessionKind
	Track        model.Track
	Level        model.Level
	TestName     string
	CorrectCount int
	Total        int
	OldMMR       int
	Delta        int
	NewMMR       int
}

// Percentage возвращает долю правильных ответов в процентах.
// Для стандартного теста процент всегда считается от десяти вопросов.
func (s *Settlement) Percentage() float64 {
	total := s.Total
	if s.Kind == model.SessionStandard {
		total = rating.StandardQuestions
	}
	if total == 0 {
		return 0
	}
	return float64(s.CorrectCount) / float64(total) * 100
}

// StartResult — итог запуска сессии: либо первый вопрос, либо мгновенное
// завершение при пустом пуле.
type StartResult struct {
	Session    *model.Session
	First      *QuestionView // nil, если вопросов нет
	Settlement *Settlement   // заполнен при мгновенном завершении
}

// AnswerResult — итог обработки одного ответа.
type AnswerResult struct {
	Kind          model.SessionKind
	Question      QuestionView
	Selected      int
	SelectedText  string
	Correct       bool
	CorrectOption int
	CorrectText   string
	Next          *QuestionView // nil, если сессия завершена
	Settlement    *Settlement   // заполнен при завершении
}

// Start запускает стандартную сессию по треку и уровню, вытесняя любую
// предыдущую сессию пользователя. Из пула выбирается не более десяти
// случайных вопросов; пустой пул завершает сессию сразу с результатом 0/0
// без изменения рейтинга.
func (s *SessionService) Start(ctx context.Context, userID int64, username string, track model.Track, level model.Level) (*StartResult, error) {
	r, err := s.ratings.GetOrCreate(ctx, userID, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user rating: %w", err)
	}

	questions, err := s.questions.Sample(ctx, track, level, s.perTest)
	if err != nil {
		return nil, fmt.Errorf("failed to sample questions: %w", err)
	}

	sess := &model.Session{
		UserID:      userID,
		Kind:        model.SessionStandard,
		LevelKey:    model.LevelKey(track, level),
		QuestionIDs: questionIDs(questions),
		Active:      true,
		StartedAt:   time.Now(),
	}

	if len(questions) == 0 {
		// Деградация при пустом пуле: сессия считается завершенной сразу,
		// рейтинг не трогаем.
		sess.Active = false
		if err := s.sessions.Replace(ctx, sess); err != nil {
			return nil, fmt.Errorf("failed to store empty session: %w", err)
		}
		s.log.Warn("started session over empty pool",
			zap.Int64("user_id", userID), zap.String("level_key", sess.LevelKey))
		return &StartResult{
			Session: sess,
			Settlement: &Settlement{
				Kind:   model.SessionStandard,
				Track:  track,
				Level:  level,
				OldMMR: r.TrackMMR(track),
				NewMMR: r.TrackMMR(track),
			},
		}, nil
	}

	if err := s.sessions.Replace(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	s.log.Info("session started",
		zap.Int64("user_id", userID),
		zap.String("level_key", sess.LevelKey),
		zap.Int("questions", len(questions)))

	return &StartResult{
		Session: sess,
		First:   view(questions[0], 0, len(questions)),
	}, nil
}

// StartCustom запускает сессию по пользовательскому тесту, вытесняя любую
// предыдущую сессию. Тест без вопросов не запускается.
func (s *SessionService) StartCustom(ctx context.Context, userID int64, username string, test *model.CustomTest) (*StartResult, error) {
	if len(test.Questions) == 0 {
		return nil, ErrNoQuestions
	}

	if _, err := s.ratings.GetOrCreate(ctx, userID, username); err != nil {
		return nil, fmt.Errorf("failed to get user rating: %w", err)
	}

	ids := make([]int, len(test.Questions))
	for i, q := range test.Questions {
		ids[i] = q.ID
	}

	sess := &model.Session{
		UserID:       userID,
		Kind:         model.SessionCustom,
		CustomTestID: test.ID,
		QuestionIDs:  ids,
		Active:       true,
		StartedAt:    time.Now(),
	}
	if err := s.sessions.Replace(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	s.log.Info("custom session started",
		zap.Int64("user_id", userID),
		zap.Int("test_id", test.ID),
		zap.Int("questions", len(ids)))

	return &StartResult{
		Session: sess,
		First:   view(test.Questions[0].AsQuestion(), 0, len(ids)),
	}, nil
}

// Answer обрабатывает выбор варианта ответа активной сессии пользователя.
// Номер варианта проверяется до любого чтения состояния; устаревшие события
// (нет сессии, пропавший вопрос, повторный клик) не меняют состояние.
// Ответ на последний вопрос завершает сессию и рассчитывает рейтинг.
func (s *SessionService) Answer(ctx context.Context, userID int64, username string, selected int) (*AnswerResult, error) {
	if selected < 1 || selected > model.OptionCount {
		return nil, ErrInvalidOption
	}

	sess, err := s.sessions.GetActive(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if sess == nil {
		return nil, ErrNoActiveSession
	}
	if sess.Finished() {
		return nil, ErrStaleSession
	}

	questions, err := s.sessionQuestions(ctx, sess)
	if err != nil {
		return nil, err
	}
	if len(questions) != len(sess.QuestionIDs) {
		// Часть вопросов исчезла из банка: сессия битая, закрываем ее.
		s.log.Warn("session references missing questions",
			zap.Int64("user_id", userID), zap.Int("expected", len(sess.QuestionIDs)), zap.Int("got", len(questions)))
		if err := s.sessions.Deactivate(ctx, userID); err != nil {
			return nil, fmt.Errorf("failed to deactivate stale session: %w", err)
		}
		return nil, ErrStaleSession
	}

	current := questions[sess.CurrentIndex]
	correct := current.Correct == selected

	ok, err := s.sessions.Advance(ctx, userID, sess.CurrentIndex, correct)
	if err != nil {
		return nil, fmt.Errorf("failed to advance session: %w", err)
	}
	if !ok {
		// Индекс уже сдвинут параллельным событием (двойной клик).
		return nil, ErrStaleSession
	}

	newIndex := sess.CurrentIndex + 1
	newCorrect := sess.CorrectCount
	if correct {
		newCorrect++
	}

	selectedText, _ := current.OptionText(selected)
	correctText, _ := current.OptionText(current.Correct)
	result := &AnswerResult{
		Kind:          sess.Kind,
		Question:      *view(current, sess.CurrentIndex, sess.Total()),
		Selected:      selected,
		SelectedText:  selectedText,
		Correct:       correct,
		CorrectOption: current.Correct,
		CorrectText:   correctText,
	}

	if newIndex < sess.Total() {
		result.Next = view(questions[newIndex], newIndex, sess.Total())
		return result, nil
	}

	settlement, err := s.settle(ctx, sess, userID, username, newCorrect)
	if err != nil {
		return nil, err
	}
	result.Settlement = settlement
	return result, nil
}

// Cancel переводит активную сессию в терминальное состояние без расчета рейтинга.
func (s *SessionService) Cancel(ctx context.Context, userID int64) (*model.Session, error) {
	sess, err := s.sessions.GetActive(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if sess == nil {
		return nil, ErrNoActiveSession
	}
	if err := s.sessions.Deactivate(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to cancel session: %w", err)
	}
	s.log.Info("session cancelled", zap.Int64("user_id", userID), zap.String("kind", string(sess.Kind)))
	return sess, nil
}

// Active возвращает активную сессию пользователя или nil.
func (s *SessionService) Active(ctx context.Context, userID int64) (*model.Session, error) {
	sess, err := s.sessions.GetActive(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return sess, nil
}

// settle рассчитывает изменение рейтинга завершенной сессии и атомарно
// фиксирует его вместе с деактивацией сессии. Частично обновленных записей
// не остается: либо применяется все, либо ничего.
func (s *SessionService) settle(ctx context.Context, sess *model.Session, userID int64, username string, correctCount int) (*Settlement, error) {
	r, err := s.ratings.GetOrCreate(ctx, userID, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user rating: %w", err)
	}

	settlement := &Settlement{
		Kind:         sess.Kind,
		CorrectCount: correctCount,
		Total:        sess.Total(),
	}

	switch sess.Kind {
	case model.SessionCustom:
		settlement.OldMMR = r.MMR
		settlement.Delta, settlement.NewMMR = rating.SettleCustom(r.MMR, correctCount, sess.Total())
		r.MMR = settlement.NewMMR
	default:
		level, track, err := model.ParseLevelKey(sess.LevelKey)
		if err != nil {
			// Сессия с битым ключом уровня: считаем как junior, но об этом стоит знать.
			s.log.Warn("settling session with malformed level key",
				zap.Int64("user_id", userID), zap.String("level_key", sess.LevelKey))
			level, track = model.LevelJunior, model.TrackJava
		}
		settlement.Track = track
		settlement.Level = level
		settlement.OldMMR = r.TrackMMR(track)
		settlement.Delta, settlement.NewMMR = rating.Settle(settlement.OldMMR, correctCount, level)
		r.SetTrackMMR(track, settlement.NewMMR)
		r.IncTrackTests(track)
		// Общий MMR двигается на ту же дельту.
		r.MMR += settlement.Delta
		if r.MMR < 0 {
			r.MMR = 0
		}
	}

	r.Username = username
	r.TotalTests++
	now := time.Now()
	r.LastTestDate = &now

	if err := s.sessions.FinishAndSettle(ctx, userID, r); err != nil {
		return nil, fmt.Errorf("failed to settle session: %w", err)
	}

	s.log.Info("session settled",
		zap.Int64("user_id", userID),
		zap.String("kind", string(sess.Kind)),
		zap.Int("correct", correctCount),
		zap.Int("total", sess.Total()),
		zap.Int("delta", settlement.Delta),
		zap.Int("mmr", settlement.NewMMR))

	return settlement, nil
}

// sessionQuestions загружает вопросы сессии из подходящего источника,
// сохраняя порядок, зафиксированный при старте.
func (s *SessionService) sessionQuestions(ctx context.Context, sess *model.Session) ([]model.Question, error) {
	if sess.Kind == model.SessionCustom {
		custom, err := s.custom.QuestionsByTestID(ctx, sess.CustomTestID)
		if err != nil {
			return nil, fmt.Errorf("failed to load custom questions: %w", err)
		}
		byID := make(map[int]model.Question, len(custom))
		for _, q := range custom {
			byID[q.ID] = q.AsQuestion()
		}
		var questions []model.Question
		for _, id := range sess.QuestionIDs {
			if q, ok := byID[id]; ok {
				questions = append(questions, q)
			}
		}
		return questions, nil
	}

	questions, err := s.questions.ByIDs(ctx, sess.QuestionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load session questions: %w", err)
	}
	return questions, nil
}

func view(q model.Question, index, total int) *QuestionView {
	return &QuestionView{
		Number:  index + 1,
		Total:   total,
		Text:    q.Text,
		Options: q.Options,
	}
}

func questionIDs(questions []model.Question) []int {
	ids := make([]int, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	return ids
}
