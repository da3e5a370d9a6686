package model

import "time"

// CustomTest представляет пользовательский тест с собственным списком вопросов.
// Пара (author_id, name) уникальна: повторное сохранение с тем же именем
// полностью заменяет список вопросов.
type CustomTest struct {
	ID             int              `json:"id"`
	Name           string           `json:"name"`
	AuthorID       int64            `json:"author_id"`
	AuthorUsername string           `json:"author_username"`
	CreatedAt      time.Time        `json:"created_at"`
	QuestionCount  int              `json:"question_count"`
	Questions      []CustomQuestion `json:"questions,omitempty"`
}

// CustomQuestion представляет вопрос пользовательского теста.
// Вопросы удаляются и пересоздаются пачкой при пересохранении теста.
type CustomQuestion struct {
	ID      int                 `json:"id"`
	TestID  int                 `json:"test_id"`
	Text    string              `json:"question_text"`
	Options [OptionCount]string `json:"options"`
	Correct int                 `json:"correct_option"` // 1..4
}

// OptionText возвращает текст варианта с номером n (1..4).
func (q CustomQuestion) OptionText(n int) (string, bool) {
	if n < 1 || n > OptionCount {
		return "", false
	}
	return q.Options[n-1], true
}

// AsQuestion приводит вопрос пользовательского теста к общему виду вопроса,
// с которым работает машина состояний сессии.
func (q CustomQuestion) AsQuestion() Question {
	return Question{
		ID:      q.ID,
		Text:    q.Text,
		Options: q.Options,
		Correct: q.Correct,
	}
}
