package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/IT-Nick/quizbot/internal/domain/model"
)

// RatingRepository предоставляет методы для работы с рейтингами пользователей
type RatingRepository struct {
	db *pgxpool.Pool
}

// NewRatingRepository создает новый экземпляр RatingRepository
func NewRatingRepository(db *pgxpool.Pool) *RatingRepository {
	return &RatingRepository{db: db}
}

const ratingColumns = `user_id, username, mmr, total_tests,
	mmr_java, mmr_python, mmr_sql,
	total_tests_java, total_tests_python, total_tests_sql,
	last_test_date`

func scanRating(row pgx.Row) (*model.UserRating, error) {
	var r model.UserRating
	err := row.Scan(
		&r.UserID, &r.Username, &r.MMR, &r.TotalTests,
		&r.MMRJava, &r.MMRPython, &r.MMRSQL,
		&r.TotalTestsJava, &r.TotalTestsPython, &r.TotalTestsSQL,
		&r.LastTestDate,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetByUserID возвращает рейтинг пользователя или nil, если записи нет.
func (r *RatingRepository) GetByUserID(ctx context.Context, userID int64) (*model.UserRating, error) {
	query := `SELECT ` + ratingColumns + ` FROM user_ratings WHERE user_id = $1`
	rating, err := scanRating(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user rating: %w", err)
	}
	return rating, nil
}

// Create вставляет начальную запись рейтинга. Существующая запись не трогается.
func (r *RatingRepository) Create(ctx context.Context, rating *model.UserRating) error {
	query := `
		INSERT INTO user_ratings (user_id, username, mmr, total_tests,
		                          mmr_java, mmr_python, mmr_sql,
		                          total_tests_java, total_tests_python, total_tests_sql)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query,
		rating.UserID, rating.Username, rating.MMR, rating.TotalTests,
		rating.MMRJava, rating.MMRPython, rating.MMRSQL,
		rating.TotalTestsJava, rating.TotalTestsPython, rating.TotalTestsSQL,
	)
	if err != nil {
		return fmt.Errorf("failed to create user rating: %w", err)
	}
	return nil
}

// UpdateUsername обновляет отображаемое имя пользователя.
func (r *RatingRepository) UpdateUsername(ctx context.Context, userID int64, username string) error {
	_, err := r.db.Exec(ctx, `UPDATE user_ratings SET username = $2 WHERE user_id = $1`, userID, username)
	if err != nil {
		return fmt.Errorf("failed to update username: %w", err)
	}
	return nil
}

// Top возвращает пользователей с наибольшим общим MMR среди прошедших
// хотя бы один тест.
func (r *RatingRepository) Top(ctx context.Context, limit int) ([]model.UserRating, error) {
	query := `SELECT ` + ratingColumns + `
		FROM user_ratings
		WHERE total_tests > 0
		ORDER BY mmr DESC, user_id
		LIMIT $1`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var ratings []model.UserRating
	for rows.Next() {
		rating, err := scanRating(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user rating: %w", err)
		}
		ratings = append(ratings, *rating)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leaderboard: %w", err)
	}
	return ratings, nil
}
