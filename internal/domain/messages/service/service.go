package service

import (
	"context"
	"fmt"

	"github.com/IT-Nick/quizbot/internal/domain/messages/repository"
	"github.com/IT-Nick/quizbot/internal/domain/model"
)

// MessageService содержит логику для работы с текстами сообщений
type MessageService struct {
	messageRepo *repository.MessageRepository
}

// NewMessageService создает новый экземпляр MessageService
func NewMessageService(messageRepo *repository.MessageRepository) *MessageService {
	return &MessageService{messageRepo: messageRepo}
}

// GetMessageByKey возвращает сообщение по ключу из базы данных
func (s *MessageService) GetMessageByKey(ctx context.Context, messageKey string) (string, error) {
	message, err := s.messageRepo.GetMessageByKey(ctx, messageKey)
	if err != nil {
		return "", fmt.Errorf("failed to get message by key: %w", err)
	}
	return message, nil
}

// GetButtons возвращает мапу с подписями кнопок главного меню,
// где значения подгружаются из базы
func (s *MessageService) GetButtons(ctx context.Context) (map[string]string, error) {
	buttons := make(map[string]string)

	keys := []string{
		model.StartTestKey,
		model.CreateTestKey,
		model.TestCatalogKey,
		model.LeaderboardKey,
		model.HelpKey,
	}
	for _, key := range keys {
		text, err := s.messageRepo.GetMessageByKey(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to get button text for key %s: %w", key, err)
		}
		buttons[key] = text
	}

	return buttons, nil
}
