package service

import (
	"sync"

	"github.com/IT-Nick/quizbot/internal/domain/model"
)

// DraftState — шаг диалога создания теста.
type DraftState int

const (
	// DraftAwaitName — бот ждет название теста.
	DraftAwaitName DraftState = iota
	// DraftAwaitQuestion — бот ждет текст очередного вопроса.
	DraftAwaitQuestion
	// DraftAwaitOption1 и далее — бот ждет варианты ответа по одному.
	DraftAwaitOption1
	DraftAwaitOption2
	DraftAwaitOption3
	DraftAwaitOption4
	// DraftAwaitCorrect — бот ждет номер правильного варианта.
	DraftAwaitCorrect
	// DraftConfirm — вопрос собран, бот ждет решения: еще вопрос или сохранить.
	DraftConfirm
)

// Draft — незавершенный тест в процессе пошагового создания.
type Draft struct {
	State     DraftState
	Name      string
	Questions []model.CustomQuestion
	Current   model.CustomQuestion
}

// DraftManager хранит черновики тестов в памяти по одному на пользователя.
// Черновик живет только в течение диалога и не переживает перезапуск.
type DraftManager struct {
	mu     sync.Mutex
	drafts map[int64]*Draft
}

// NewDraftManager создает новый экземпляр DraftManager
func NewDraftManager() *DraftManager {
	return &DraftManager{drafts: make(map[int64]*Draft)}
}

// Begin начинает новый черновик, отбрасывая предыдущий.
func (m *DraftManager) Begin(userID int64) *Draft {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := &Draft{State: DraftAwaitName}
	m.drafts[userID] = d
	return d
}

// Get возвращает черновик пользователя или nil.
func (m *DraftManager) Get(userID int64) *Draft {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.drafts[userID]
}

// Discard удаляет черновик пользователя.
func (m *DraftManager) Discard(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drafts, userID)
}

// OptionIndex возвращает 0-based номер варианта для состояний ожидания
// варианта ответа и -1 для остальных состояний.
func (s DraftState) OptionIndex() int {
	if s < DraftAwaitOption1 || s > DraftAwaitOption4 {
		return -1
	}
	return int(s - DraftAwaitOption1)
}

// CommitQuestion переносит собранный вопрос в список и готовит черновик
// к следующему.
func (d *Draft) CommitQuestion() {
	d.Questions = append(d.Questions, d.Current)
	d.Current = model.CustomQuestion{}
}
