package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/IT-Nick/quizbot/internal/domain/model"
)

// RatingStore — контракт хранилища рейтингов.
type RatingStore interface {
	GetByUserID(ctx context.Context, userID int64) (*model.UserRating, error)
	Create(ctx context.Context, rating *model.UserRating) error
	UpdateUsername(ctx context.Context, userID int64, username string) error
	Top(ctx context.Context, limit int) ([]model.UserRating, error)
}

// StatsService управляет рейтингами пользователей и таблицей лидеров.
type StatsService struct {
	store RatingStore
	log   *zap.Logger
}

// NewStatsService создает новый экземпляр StatsService
func NewStatsService(store RatingStore, log *zap.Logger) *StatsService {
	return &StatsService{store: store, log: log}
}

// GetOrCreate возвращает рейтинг пользователя, создавая запись со стартовыми
// значениями при первом обращении. Сменившийся username обновляется попутно.
func (s *StatsService) GetOrCreate(ctx context.Context, userID int64, username string) (*model.UserRating, error) {
	rating, err := s.store.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user rating: %w", err)
	}
	if rating == nil {
		rating = model.NewUserRating(userID, username)
		if err := s.store.Create(ctx, rating); err != nil {
			return nil, fmt.Errorf("failed to create user rating: %w", err)
		}
		s.log.Info("new user registered", zap.Int64("user_id", userID), zap.String("username", username))
		return rating, nil
	}
	if username != "" && rating.Username != username {
		if err := s.store.UpdateUsername(ctx, userID, username); err != nil {
			return nil, fmt.Errorf("failed to refresh username: %w", err)
		}
		rating.Username = username
	}
	return rating, nil
}

// Leaderboard возвращает лучших пользователей по общему MMR.
func (s *StatsService) Leaderboard(ctx context.Context, limit int) ([]model.UserRating, error) {
	ratings, err := s.store.Top(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to build leaderboard: %w", err)
	}
	return ratings, nil
}
