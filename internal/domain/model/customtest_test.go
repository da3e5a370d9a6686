package model

import "testing"

func TestCustomQuestionAsQuestion(t *testing.T) {
	q := CustomQuestion{
		ID:      42,
		TestID:  7,
		Text:    "Столица Франции?",
		Options: [OptionCount]string{"Париж", "Лион", "Ницца", "Марсель"},
		Correct: 1,
	}

	converted := q.AsQuestion()
	if converted.ID != q.ID || converted.Text != q.Text || converted.Correct != q.Correct {
		t.Fatalf("вопрос потерял данные при приведении: %+v", converted)
	}
	if converted.Options != q.Options {
		t.Fatalf("варианты ответа должны сохраняться: %+v", converted.Options)
	}

	text, ok := converted.OptionText(1)
	if !ok || text != "Париж" {
		t.Fatalf("ожидался вариант «Париж», получено %q", text)
	}
}

func TestCustomTestOptionText_OutOfRange(t *testing.T) {
	q := CustomQuestion{Options: [OptionCount]string{"а", "б", "в", "г"}}
	for _, n := range []int{0, 5, -1} {
		if _, ok := q.OptionText(n); ok {
			t.Fatalf("номер %d вне диапазона должен отклоняться", n)
		}
	}
}
