package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/IT-Nick/quizbot/internal/domain/model"
)

// CustomTestRepository предоставляет методы для работы с пользовательскими
// тестами и их вопросами.
type CustomTestRepository struct {
	db *pgxpool.Pool
}

// NewCustomTestRepository создает новый экземпляр CustomTestRepository
func NewCustomTestRepository(db *pgxpool.Pool) *CustomTestRepository {
	return &CustomTestRepository{db: db}
}

// Upsert сохраняет тест вместе с вопросами. Повторное сохранение теста с тем
// же именем у того же автора полностью заменяет набор вопросов.
func (r *CustomTestRepository) Upsert(ctx context.Context, test *model.CustomTest) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO custom_tests (name, author_id, author_username, created_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (author_id, name) DO UPDATE SET author_username = EXCLUDED.author_username
		RETURNING id
	`
	if err := tx.QueryRow(ctx, query, test.Name, test.AuthorID, test.AuthorUsername).Scan(&test.ID); err != nil {
		return fmt.Errorf("failed to upsert custom test: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM custom_questions WHERE test_id = $1`, test.ID); err != nil {
		return fmt.Errorf("failed to clear custom questions: %w", err)
	}

	insert := `
		INSERT INTO custom_questions (test_id, question_text, option1, option2, option3, option4, correct_option)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	for i := range test.Questions {
		q := &test.Questions[i]
		q.TestID = test.ID
		err := tx.QueryRow(ctx, insert,
			test.ID, q.Text, q.Options[0], q.Options[1], q.Options[2], q.Options[3], q.Correct,
		).Scan(&q.ID)
		if err != nil {
			return fmt.Errorf("failed to insert custom question: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListAll возвращает все тесты c числом вопросов, сгруппированные по авторам.
// Вопросы при этом не загружаются.
func (r *CustomTestRepository) ListAll(ctx context.Context) ([]model.CustomTest, error) {
	query := `
		SELECT t.id, t.name, t.author_id, t.author_username, t.created_at, COUNT(q.id)
		FROM custom_tests t
		LEFT JOIN custom_questions q ON q.test_id = t.id
		GROUP BY t.id
		ORDER BY t.author_username, t.author_id, t.created_at, t.id
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query custom tests: %w", err)
	}
	defer rows.Close()
	return scanTests(rows)
}

// ListByAuthor возвращает тесты одного автора в порядке создания.
func (r *CustomTestRepository) ListByAuthor(ctx context.Context, authorID int64) ([]model.CustomTest, error) {
	query := `
		SELECT t.id, t.name, t.author_id, t.author_username, t.created_at, COUNT(q.id)
		FROM custom_tests t
		LEFT JOIN custom_questions q ON q.test_id = t.id
		WHERE t.author_id = $1
		GROUP BY t.id
		ORDER BY t.created_at, t.id
	`
	rows, err := r.db.Query(ctx, query, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query author tests: %w", err)
	}
	defer rows.Close()
	return scanTests(rows)
}

// GetByID возвращает тест вместе с вопросами или nil, если теста нет.
func (r *CustomTestRepository) GetByID(ctx context.Context, id int) (*model.CustomTest, error) {
	query := `SELECT id, name, author_id, author_username, created_at FROM custom_tests WHERE id = $1`
	var t model.CustomTest
	err := r.db.QueryRow(ctx, query, id).Scan(&t.ID, &t.Name, &t.AuthorID, &t.AuthorUsername, &t.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get custom test: %w", err)
	}
	questions, err := r.QuestionsByTestID(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Questions = questions
	t.QuestionCount = len(questions)
	return &t, nil
}

// QuestionsByTestID возвращает вопросы теста в порядке вставки.
func (r *CustomTestRepository) QuestionsByTestID(ctx context.Context, testID int) ([]model.CustomQuestion, error) {
	query := `
		SELECT id, test_id, question_text, option1, option2, option3, option4, correct_option
		FROM custom_questions
		WHERE test_id = $1
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query, testID)
	if err != nil {
		return nil, fmt.Errorf("failed to query custom questions: %w", err)
	}
	defer rows.Close()

	var questions []model.CustomQuestion
	for rows.Next() {
		var q model.CustomQuestion
		err := rows.Scan(&q.ID, &q.TestID, &q.Text,
			&q.Options[0], &q.Options[1], &q.Options[2], &q.Options[3], &q.Correct)
		if err != nil {
			return nil, fmt.Errorf("failed to scan custom question: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate custom questions: %w", err)
	}
	return questions, nil
}

func scanTests(rows pgx.Rows) ([]model.CustomTest, error) {
	var tests []model.CustomTest
	for rows.Next() {
		var t model.CustomTest
		if err := rows.Scan(&t.ID, &t.Name, &t.AuthorID, &t.AuthorUsername, &t.CreatedAt, &t.QuestionCount); err != nil {
			return nil, fmt.Errorf("failed to scan custom test: %w", err)
		}
		tests = append(tests, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate custom tests: %w", err)
	}
	return tests, nil
}
