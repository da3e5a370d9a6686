package model

import "time"

// SessionKind различает сессии по стандартным тестам и по пользовательским.
type SessionKind string

const (
	SessionStandard SessionKind = "standard"
	SessionCustom   SessionKind = "custom"
)

// Session представляет одну попытку прохождения теста одним пользователем.
// На пользователя существует не более одной активной сессии: запуск новой
// атомарно вытесняет предыдущую.
type Session struct {
	UserID       int64       `json:"user_id"`
	Kind         SessionKind `json:"kind"`
	LevelKey     string      `json:"level_key"`      // заполнен для стандартных сессий
	CustomTestID int         `json:"custom_test_id"` // заполнен для пользовательских сессий
	QuestionIDs  []int       `json:"question_ids"`   // фиксируются при старте, без повторов
	CurrentIndex int         `json:"current_index"`  // 0-based, растет ровно на 1 за ответ
	CorrectCount int         `json:"correct_count"`
	Active       bool        `json:"active"`
	StartedAt    time.Time   `json:"started_at"`
	LastAnswerAt *time.Time  `json:"last_answer_at,omitempty"`
}

// Total возвращает количество вопросов в сессии.
func (s *Session) Total() int {
	return len(s.QuestionIDs)
}

// Finished сообщает, отвечены ли все вопросы сессии.
func (s *Session) Finished() bool {
	return s.CurrentIndex >= len(s.QuestionIDs)
}
