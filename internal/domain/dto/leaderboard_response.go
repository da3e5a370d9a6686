package dto

// LeaderboardResponse структура для отчета по таблице лидеров
type LeaderboardResponse struct {
	TotalPlayers int               `json:"total_players"`
	Leaders      []LeaderboardItem `json:"leaders"`
}

type LeaderboardItem struct {
	Rank       int    `json:"rank"`
	TelegramID int64  `json:"telegram_id"`
	Username   string `json:"username"`
	MMR        int    `json:"mmr"`
	TotalTests int    `json:"total_tests"`
	MMRJava    int    `json:"mmr_java"`
	MMRPython  int    `json:"mmr_python"`
	MMRSQL     int    `json:"mmr_sql"`
	LastTest   string `json:"last_test,omitempty"`
}
