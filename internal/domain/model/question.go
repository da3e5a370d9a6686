package model

import "fmt"

// OptionCount — число вариантов ответа у каждого вопроса.
const OptionCount = 4

// Question представляет вопрос из банка вопросов.
// Содержимое неизменяемо после загрузки банка.
type Question struct {
	ID       int                 `json:"id"`
	LevelKey string              `json:"level"`
	Text     string              `json:"text"`
	Options  [OptionCount]string `json:"options"`
	Correct  int                 `json:"correct_option"` // номер правильного варианта, 1..4
}

// NewQuestion собирает вопрос и проверяет его инварианты:
// непустой текст, четыре непустых варианта и номер правильного ответа в диапазоне 1..4.
func NewQuestion(levelKey, text string, options [OptionCount]string, correct int) (Question, error) {
	if _, _, err := ParseLevelKey(levelKey); err != nil {
		return Question{}, err
	}
	if text == "" {
		return Question{}, fmt.Errorf("question text is empty")
	}
	for i, opt := range options {
		if opt == "" {
			return Question{}, fmt.Errorf("option %d is empty", i+1)
		}
	}
	if correct < 1 || correct > OptionCount {
		return Question{}, fmt.Errorf("correct option %d out of range 1..%d", correct, OptionCount)
	}
	return Question{LevelKey: levelKey, Text: text, Options: options, Correct: correct}, nil
}

// OptionText возвращает текст варианта с номером n (1..4).
func (q Question) OptionText(n int) (string, bool) {
	if n < 1 || n > OptionCount {
		return "", false
	}
	return q.Options[n-1], true
}
