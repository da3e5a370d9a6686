package model

import (
	"fmt"
	"strings"
)

// Track представляет язык программирования, по которому проходит тестирование.
type Track string

const (
	TrackJava   Track = "java"
	TrackPython Track = "python"
	TrackSQL    Track = "sql"
)

// Tracks возвращает все поддерживаемые треки в порядке отображения в меню.
func Tracks() []Track {
	return []Track{TrackJava, TrackPython, TrackSQL}
}

// Valid проверяет, поддерживается ли трек.
func (t Track) Valid() bool {
	switch t {
	case TrackJava, TrackPython, TrackSQL:
		return true
	}
	return false
}

// DisplayName возвращает отображаемое имя трека.
func (t Track) DisplayName() string {
	switch t {
	case TrackJava:
		return "Java"
	case TrackPython:
		return "Python"
	case TrackSQL:
		return "SQL"
	}
	return string(t)
}

// Level представляет уровень сложности внутри трека.
type Level string

const (
	LevelJunior Level = "junior"
	LevelMiddle Level = "middle"
	LevelSenior Level = "senior"
)

// Levels возвращает все уровни сложности в порядке возрастания.
func Levels() []Level {
	return []Level{LevelJunior, LevelMiddle, LevelSenior}
}

// Valid проверяет, поддерживается ли уровень.
func (l Level) Valid() bool {
	switch l {
	case LevelJunior, LevelMiddle, LevelSenior:
		return true
	}
	return false
}

// DisplayName возвращает отображаемое имя уровня с заглавной буквы.
func (l Level) DisplayName() string {
	if l == "" {
		return ""
	}
	s := string(l)
	return strings.ToUpper(s[:1]) + s[1:]
}

// LevelKey формирует ключ пула вопросов вида "junior_python".
// Под этим же ключом сессия хранит выбранную комбинацию трека и уровня.
func LevelKey(t Track, l Level) string {
	return string(l) + "_" + string(t)
}

// ParseLevelKey разбирает ключ пула обратно в уровень и трек.
// Регистр не учитывается.
func ParseLevelKey(key string) (Level, Track, error) {
	parts := strings.SplitN(strings.ToLower(strings.TrimSpace(key)), "_", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid level key: %q", key)
	}
	l, t := Level(parts[0]), Track(parts[1])
	if !l.Valid() || !t.Valid() {
		return "", "", fmt.Errorf("invalid level key: %q", key)
	}
	return l, t, nil
}
