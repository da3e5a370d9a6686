package model

import "time"

// DefaultMMR — стартовый рейтинг нового пользователя.
const DefaultMMR = 1000

// UserRating хранит рейтинг и счетчики пройденных тестов пользователя.
// Рейтинги по трекам авторитетны для стандартных тестов; общий MMR
// используется пользовательскими тестами и таблицей лидеров.
// Запись создается при первом старте сессии и никогда не удаляется.
type UserRating struct {
	UserID           int64      `json:"user_id"`
	Username         string     `json:"username"`
	MMR              int        `json:"mmr"`
	TotalTests       int        `json:"total_tests"`
	MMRJava          int        `json:"mmr_java"`
	MMRPython        int        `json:"mmr_python"`
	MMRSQL           int        `json:"mmr_sql"`
	TotalTestsJava   int        `json:"total_tests_java"`
	TotalTestsPython int        `json:"total_tests_python"`
	TotalTestsSQL    int        `json:"total_tests_sql"`
	LastTestDate     *time.Time `json:"last_test_date,omitempty"`
}

// NewUserRating создает запись рейтинга со стартовыми значениями.
func NewUserRating(userID int64, username string) *UserRating {
	return &UserRating{
		UserID:    userID,
		Username:  username,
		MMR:       DefaultMMR,
		MMRJava:   DefaultMMR,
		MMRPython: DefaultMMR,
		MMRSQL:    DefaultMMR,
	}
}

// TrackMMR возвращает рейтинг пользователя по треку.
func (r *UserRating) TrackMMR(t Track) int {
	switch t {
	case TrackJava:
		return r.MMRJava
	case TrackPython:
		return r.MMRPython
	case TrackSQL:
		return r.MMRSQL
	}
	return r.MMR
}

// SetTrackMMR устанавливает рейтинг пользователя по треку.
func (r *UserRating) SetTrackMMR(t Track, mmr int) {
	switch t {
	case TrackJava:
		r.MMRJava = mmr
	case TrackPython:
		r.MMRPython = mmr
	case TrackSQL:
		r.MMRSQL = mmr
	}
}

// TrackTests возвращает количество пройденных тестов по треку.
func (r *UserRating) TrackTests(t Track) int {
	switch t {
	case TrackJava:
		return r.TotalTestsJava
	case TrackPython:
		return r.TotalTestsPython
	case TrackSQL:
		return r.TotalTestsSQL
	}
	return 0
}

// IncTrackTests увеличивает счетчик пройденных тестов по треку.
func (r *UserRating) IncTrackTests(t Track) {
	switch t {
	case TrackJava:
		r.TotalTestsJava++
	case TrackPython:
		r.TotalTestsPython++
	case TrackSQL:
		r.TotalTestsSQL++
	}
}
