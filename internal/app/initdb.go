package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/IT-Nick/quizbot/internal/domain/model"
	"github.com/IT-Nick/quizbot/internal/infra/config"
)

// InitDatabase устанавливает подключение к базе данных и готовит схему
func InitDatabase(cfg *config.Config, log *zap.Logger) (*pgxpool.Pool, error) {
	const op = "app.InitDatabase"

	connConfig, err := pgxpool.ParseConfig(fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		cfg.Database.User, cfg.Database.Password, cfg.Database.Host, cfg.Database.Port, cfg.Database.Name))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse database config: %w", op, err)
	}

	db, err := pgxpool.NewWithConfig(context.Background(), connConfig)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create database pool: %w", op, err)
	}

	if err := db.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: failed to ping database: %w", op, err)
	}

	if err := ensureSchema(context.Background(), db); err != nil {
		return nil, fmt.Errorf("%s: failed to ensure schema: %w", op, err)
	}
	if err := seedMessages(context.Background(), db); err != nil {
		return nil, fmt.Errorf("%s: failed to seed messages: %w", op, err)
	}

	log.Info("database connected")
	return db, nil
}

// ensureSchema создает недостающие таблицы
func ensureSchema(ctx context.Context, db *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS questions (
			id SERIAL PRIMARY KEY,
			level_key TEXT NOT NULL,
			question_text TEXT NOT NULL,
			option1 TEXT NOT NULL,
			option2 TEXT NOT NULL,
			option3 TEXT NOT NULL,
			option4 TEXT NOT NULL,
			correct_option INT NOT NULL CHECK (correct_option BETWEEN 1 AND 4)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_questions_level_key ON questions (level_key)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			user_id BIGINT PRIMARY KEY,
			kind TEXT NOT NULL,
			level_key TEXT NOT NULL DEFAULT '',
			custom_test_id INT NOT NULL DEFAULT 0,
			question_ids BIGINT[] NOT NULL,
			current_index INT NOT NULL DEFAULT 0,
			correct_count INT NOT NULL DEFAULT 0,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			started_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			last_answer_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS user_ratings (
			user_id BIGINT PRIMARY KEY,
			username TEXT NOT NULL DEFAULT '',
			mmr INT NOT NULL DEFAULT 1000,
			total_tests INT NOT NULL DEFAULT 0,
			mmr_java INT NOT NULL DEFAULT 1000,
			mmr_python INT NOT NULL DEFAULT 1000,
			mmr_sql INT NOT NULL DEFAULT 1000,
			total_tests_java INT NOT NULL DEFAULT 0,
			total_tests_python INT NOT NULL DEFAULT 0,
			total_tests_sql INT NOT NULL DEFAULT 0,
			last_test_date TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS custom_tests (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			author_id BIGINT NOT NULL,
			author_username TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (author_id, name)
		)`,
		`CREATE TABLE IF NOT EXISTS custom_questions (
			id SERIAL PRIMARY KEY,
			test_id INT NOT NULL REFERENCES custom_tests (id) ON DELETE CASCADE,
			question_text TEXT NOT NULL,
			option1 TEXT NOT NULL,
			option2 TEXT NOT NULL,
			option3 TEXT NOT NULL,
			option4 TEXT NOT NULL,
			correct_option INT NOT NULL CHECK (correct_option BETWEEN 1 AND 4)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_custom_questions_test_id ON custom_questions (test_id)`,
		`CREATE TABLE IF NOT EXISTS messages (
			message_key TEXT PRIMARY KEY,
			message_text TEXT NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}
	return nil
}

// seedMessages наполняет таблицу сообщений начальными текстами.
// Существующие тексты не перезаписываются: их можно править прямо в базе.
func seedMessages(ctx context.Context, db *pgxpool.Pool) error {
	defaults := map[string]string{
		model.StartTestKey:   "🚀 Пройти тест",
		model.CreateTestKey:  "✍️ Создать тест",
		model.TestCatalogKey: "📚 Каталог тестов",
		model.LeaderboardKey: "🏆 Таблица лидеров",
		model.HelpKey:        "ℹ️ Помощь",

		model.WelcomeMessageKey: "👋 Привет, %s!\n\nЭто бот для проверки знаний по Java, Python и SQL. Выбирай направление, отвечай на вопросы и поднимай свой рейтинг.\n\nТвой текущий MMR: <b>%d</b>",
		model.HelpMessageKey: "ℹ️ <b>Как это работает</b>\n\n" +
			"• <b>Пройти тест</b> — выбери направление (Java, Python, SQL) и уровень (Junior, Middle, Senior). Тест состоит из 10 случайных вопросов.\n" +
			"• За результат начисляется или списывается MMR: чем выше уровень, тем больше ставка.\n" +
			"• <b>Создать тест</b> — собери собственный тест и поделись им через каталог.\n" +
			"• <b>Каталог тестов</b> — проходи тесты других участников.\n" +
			"• <b>Таблица лидеров</b> — лучшие игроки по общему MMR.",
		model.ChooseTrackKey:     "Выберите направление:",
		model.ChooseLevelKey:     "Направление: %s.\nВыберите уровень сложности:",
		model.TestIntroKey:       "🚀 Начинаем тест: %s, уровень %s.\nВопросов: %d. Таймера нет, отвечайте в своем темпе.",
		model.CustomIntroKey:     "🚀 Начинаем тест «%s».\nВопросов: %d. Таймера нет, отвечайте в своем темпе.",
		model.EmptyPoolResultKey: "😔 Для направления %s уровня %s пока нет вопросов.\nТест завершен, рейтинг не изменился.",
		model.TestCancelledKey:   "❌ Тест прерван. Результат не засчитан, рейтинг не изменился.",
		model.SessionExpiredKey:  "Эта сессия устарела. Начните новый тест через /start.",

		model.LeaderboardHeaderKey: "🏆 Таблица лидеров",
		model.LeaderboardEmptyKey:  "Пока никто не прошел ни одного теста. Станьте первым!",
		model.CatalogHeaderKey:     "📚 Каталог тестов (страница %d из %d)",
		model.CatalogEmptyKey:      "В каталоге пока нет тестов. Создайте первый!",

		model.CreationAskNameKey:    "✍️ Придумайте название теста (не короче 3 символов):",
		model.CreationAskTextKey:    "Введите текст вопроса №%d (не короче 5 символов):",
		model.CreationAskOptionKey:  "Введите вариант ответа №%d:",
		model.CreationAskCorrectKey: "Укажите номер правильного варианта (от 1 до 4):",
		model.CreationConfirmKey:    "Вопрос добавлен. Всего вопросов: %d.\nДобавить еще один или сохранить тест?",
		model.CreationDoneKey:       "✅ Тест «%s» сохранен (вопросов: %d). Он уже доступен в каталоге.",
		model.CreationCancelledKey:  "❌ Создание теста отменено, черновик удален.",
	}
	for key, text := range defaults {
		_, err := db.Exec(ctx,
			`INSERT INTO messages (message_key, message_text) VALUES ($1, $2) ON CONFLICT (message_key) DO NOTHING`,
			key, text)
		if err != nil {
			return fmt.Errorf("failed to seed message %s: %w", key, err)
		}
	}
	return nil
}
