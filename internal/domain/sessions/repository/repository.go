package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/IT-Nick/quizbot/internal/domain/model"
)

// SessionRepository предоставляет методы для работы с сессиями прохождения
// тестов. На пользователя хранится не более одной записи: user_id является
// первичным ключом таблицы.
type SessionRepository struct {
	db *pgxpool.Pool
}

// NewSessionRepository создает новый экземпляр SessionRepository
func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{db: db}
}

// GetActive возвращает активную сессию пользователя или nil, если ее нет.
func (r *SessionRepository) GetActive(ctx context.Context, userID int64) (*model.Session, error) {
	query := `
		SELECT user_id, kind, level_key, custom_test_id, question_ids,
		       current_index, correct_count, active, started_at, last_answer_at
		FROM sessions
		WHERE user_id = $1 AND active = TRUE
	`
	var (
		s    model.Session
		kind string
		ids  []int64
	)
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&s.UserID, &kind, &s.LevelKey, &s.CustomTestID, &ids,
		&s.CurrentIndex, &s.CorrectCount, &s.Active, &s.StartedAt, &s.LastAnswerAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active session: %w", err)
	}
	s.Kind = model.SessionKind(kind)
	s.QuestionIDs = make([]int, len(ids))
	for i, id := range ids {
		s.QuestionIDs[i] = int(id)
	}
	return &s, nil
}

// Replace атомарно заменяет сессию пользователя новой: старая запись
// удаляется и вставляется новая в одной транзакции.
func (r *SessionRepository) Replace(ctx context.Context, s *model.Session) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM sessions WHERE user_id = $1`, s.UserID); err != nil {
		return fmt.Errorf("failed to delete previous session: %w", err)
	}

	ids := make([]int64, len(s.QuestionIDs))
	for i, id := range s.QuestionIDs {
		ids[i] = int64(id)
	}
	query := `
		INSERT INTO sessions (user_id, kind, level_key, custom_test_id, question_ids,
		                      current_index, correct_count, active, started_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = tx.Exec(ctx, query,
		s.UserID, string(s.Kind), s.LevelKey, s.CustomTestID, ids,
		s.CurrentIndex, s.CorrectCount, s.Active, s.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Advance сдвигает сессию на следующий вопрос при условии, что текущий
// индекс совпадает с ожидаемым. Возвращает false, если условие не выполнено:
// так повторное событие по одному и тому же вопросу ничего не меняет.
func (r *SessionRepository) Advance(ctx context.Context, userID int64, fromIndex int, correct bool) (bool, error) {
	query := `
		UPDATE sessions
		SET current_index = current_index + 1,
		    correct_count = correct_count + CASE WHEN $3 THEN 1 ELSE 0 END,
		    last_answer_at = now()
		WHERE user_id = $1 AND active = TRUE AND current_index = $2
	`
	tag, err := r.db.Exec(ctx, query, userID, fromIndex, correct)
	if err != nil {
		return false, fmt.Errorf("failed to advance session: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Deactivate переводит сессию пользователя в неактивное состояние.
func (r *SessionRepository) Deactivate(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx, `UPDATE sessions SET active = FALSE WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to deactivate session: %w", err)
	}
	return nil
}

// FinishAndSettle в одной транзакции деактивирует сессию пользователя и
// сохраняет пересчитанный рейтинг. Либо применяется все, либо ничего.
func (r *SessionRepository) FinishAndSettle(ctx context.Context, userID int64, rating *model.UserRating) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE sessions SET active = FALSE WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to deactivate session: %w", err)
	}

	query := `
		INSERT INTO user_ratings (user_id, username, mmr, total_tests,
		                          mmr_java, mmr_python, mmr_sql,
		                          total_tests_java, total_tests_python, total_tests_sql,
		                          last_test_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id) DO UPDATE SET
			username = EXCLUDED.username,
			mmr = EXCLUDED.mmr,
			total_tests = EXCLUDED.total_tests,
			mmr_java = EXCLUDED.mmr_java,
			mmr_python = EXCLUDED.mmr_python,
			mmr_sql = EXCLUDED.mmr_sql,
			total_tests_java = EXCLUDED.total_tests_java,
			total_tests_python = EXCLUDED.total_tests_python,
			total_tests_sql = EXCLUDED.total_tests_sql,
			last_test_date = EXCLUDED.last_test_date
	`
	_, err = tx.Exec(ctx, query,
		rating.UserID, rating.Username, rating.MMR, rating.TotalTests,
		rating.MMRJava, rating.MMRPython, rating.MMRSQL,
		rating.TotalTestsJava, rating.TotalTestsPython, rating.TotalTestsSQL,
		rating.LastTestDate,
	)
	if err != nil {
		return fmt.Errorf("failed to save user rating: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
