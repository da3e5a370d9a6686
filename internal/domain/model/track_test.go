package model

import "testing"

func TestLevelKeyRoundTrip(t *testing.T) {
	for _, track := range Tracks() {
		for _, level := range Levels() {
			key := LevelKey(track, level)
			gotLevel, gotTrack, err := ParseLevelKey(key)
			if err != nil {
				t.Fatalf("ParseLevelKey(%q) вернул ошибку: %v", key, err)
			}
			if gotLevel != level || gotTrack != track {
				t.Fatalf("ключ %q разобран как %s/%s", key, gotLevel, gotTrack)
			}
		}
	}
}

func TestParseLevelKey_CaseInsensitive(t *testing.T) {
	// Ключи из внешних источников могут приходить в любом регистре.
	level, track, err := ParseLevelKey("Middle_SQL")
	if err != nil {
		t.Fatalf("ParseLevelKey вернул ошибку: %v", err)
	}
	if level != LevelMiddle || track != TrackSQL {
		t.Fatalf("ожидалось middle/sql, получено %s/%s", level, track)
	}
}

func TestParseLevelKey_Invalid(t *testing.T) {
	for _, key := range []string{"", "junior", "junior_rust", "guru_python", "junior-python"} {
		if _, _, err := ParseLevelKey(key); err == nil {
			t.Fatalf("ключ %q должен быть отклонен", key)
		}
	}
}

func TestNewQuestion_Validation(t *testing.T) {
	options := [OptionCount]string{"а", "б", "в", "г"}

	if _, err := NewQuestion("junior_java", "Вопрос?", options, 4); err != nil {
		t.Fatalf("корректный вопрос отклонен: %v", err)
	}
	if _, err := NewQuestion("junior_rust", "Вопрос?", options, 1); err == nil {
		t.Fatal("вопрос с неизвестным ключом уровня должен быть отклонен")
	}
	if _, err := NewQuestion("junior_java", "Вопрос?", options, 5); err == nil {
		t.Fatal("номер правильного ответа вне 1..4 должен быть отклонен")
	}
	bad := options
	bad[2] = ""
	if _, err := NewQuestion("junior_java", "Вопрос?", bad, 1); err == nil {
		t.Fatal("пустой вариант ответа должен быть отклонен")
	}
}
