package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/IT-Nick/quizbot/internal/domain/model"
)

// QuestionRepository реализация банка вопросов поверх PostgreSQL.
// После начального наполнения банк только читается.
type QuestionRepository struct {
	db *pgxpool.Pool
}

// NewQuestionRepository создает новый экземпляр QuestionRepository
func NewQuestionRepository(db *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// IDsByLevelKey возвращает идентификаторы всех вопросов пула с заданным ключом.
func (r *QuestionRepository) IDsByLevelKey(ctx context.Context, levelKey string) ([]int, error) {
	rows, err := r.db.Query(ctx, "SELECT id FROM questions WHERE level_key=$1 ORDER BY id", levelKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query question ids: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan question id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate over rows: %w", err)
	}
	return ids, nil
}

// ByID возвращает вопрос по идентификатору; nil, если вопроса больше нет в банке.
func (r *QuestionRepository) ByID(ctx context.Context, id int) (*model.Question, error) {
	var q model.Question
	err := r.db.QueryRow(ctx, `
        SELECT id, level_key, question_text, option1, option2, option3, option4, correct_option
        FROM questions
        WHERE id = $1
    `, id).Scan(&q.ID, &q.LevelKey, &q.Text, &q.Options[0], &q.Options[1], &q.Options[2], &q.Options[3], &q.Correct)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get question by id: %w", err)
	}
	return &q, nil
}

// ByIDs возвращает вопросы в том же порядке, в каком переданы идентификаторы.
// Идентификаторы, отсутствующие в банке, пропускаются.
func (r *QuestionRepository) ByIDs(ctx context.Context, ids []int) ([]model.Question, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.db.Query(ctx, `
        SELECT id, level_key, question_text, option1, option2, option3, option4, correct_option
        FROM questions
        WHERE id = ANY($1)
    `, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	byID := make(map[int]model.Question, len(ids))
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.LevelKey, &q.Text, &q.Options[0], &q.Options[1], &q.Options[2], &q.Options[3], &q.Correct); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		byID[q.ID] = q
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate over rows: %w", err)
	}

	questions := make([]model.Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := byID[id]; ok {
			questions = append(questions, q)
		}
	}
	return questions, nil
}

// Count возвращает общее количество вопросов в банке.
func (r *QuestionRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM questions").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return count, nil
}

// InsertBatch сохраняет набор вопросов одной транзакцией.
func (r *QuestionRepository) InsertBatch(ctx context.Context, questions []model.Question) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, q := range questions {
		_, err := tx.Exec(ctx, `
            INSERT INTO questions (level_key, question_text, option1, option2, option3, option4, correct_option)
            VALUES ($1, $2, $3, $4, $5, $6, $7)
        `, q.LevelKey, q.Text, q.Options[0], q.Options[1], q.Options[2], q.Options[3], q.Correct)
		if err != nil {
			return fmt.Errorf("failed to insert question: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit tx: %w", err)
	}
	return nil
}
