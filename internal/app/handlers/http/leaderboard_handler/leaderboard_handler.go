package leaderboard_handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/IT-Nick/quizbot/internal/domain/dto"
	statsService "github.com/IT-Nick/quizbot/internal/domain/stats/service"
	httpError "github.com/IT-Nick/quizbot/pkg/http"
)

const defaultLimit = 10

// LeaderboardHandler структура для обработчика отчета по таблице лидеров
type LeaderboardHandler struct {
	statsService *statsService.StatsService
}

// NewLeaderboardHandler создает новый экземпляр обработчика
func NewLeaderboardHandler(statsService *statsService.StatsService) *LeaderboardHandler {
	return &LeaderboardHandler{statsService: statsService}
}

// ServeHTTP метод для обработки запроса
func (h *LeaderboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			httpError.ErrorResponse(w, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		limit = n
	}

	ratings, err := h.statsService.Leaderboard(r.Context(), limit)
	if err != nil {
		httpError.ErrorResponse(w, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve leaderboard: %v", err))
		return
	}

	response := dto.LeaderboardResponse{
		TotalPlayers: len(ratings),
		Leaders:      make([]dto.LeaderboardItem, 0, len(ratings)),
	}
	for i, rating := range ratings {
		item := dto.LeaderboardItem{
			Rank:       i + 1,
			TelegramID: rating.UserID,
			Username:   rating.Username,
			MMR:        rating.MMR,
			TotalTests: rating.TotalTests,
			MMRJava:    rating.MMRJava,
			MMRPython:  rating.MMRPython,
			MMRSQL:     rating.MMRSQL,
		}
		if rating.LastTestDate != nil {
			item.LastTest = rating.LastTestDate.Format(time.RFC3339)
		}
		response.Leaders = append(response.Leaders, item)
	}

	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		httpError.ErrorResponse(w, http.StatusInternalServerError, "Failed to encode response")
		return
	}
}
