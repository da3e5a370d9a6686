package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IT-Nick/quizbot/internal/domain/model"
)

func TestSettleScenarios(t *testing.T) {
	tests := []struct {
		name       string
		prior      int
		correct    int
		level      model.Level
		wantDelta  int
		wantRating int
	}{
		{
			// 9/10 на middle: база +50, множитель 1.5, стабилизатор не включается.
			name:  "middle_nine_of_ten",
			prior: 1000, correct: 9, level: model.LevelMiddle,
			wantDelta: 75, wantRating: 1075,
		},
		{
			// 2/10 на junior при рейтинге ниже 800: штраф -80 уменьшается вдвое.
			name:  "novice_protection_halves_penalty",
			prior: 750, correct: 2, level: model.LevelJunior,
			wantDelta: -40, wantRating: 710,
		},
		{
			// 4/10 на senior при рейтинге выше 2000: -50*2.0=-100, стабилизатор
			// поднимает штраф до -150, обрезка возвращает к -100.
			name:  "veteran_penalty_clamped",
			prior: 2100, correct: 4, level: model.LevelSenior,
			wantDelta: -100, wantRating: 2000,
		},
		{
			name:  "perfect_senior",
			prior: 1000, correct: 10, level: model.LevelSenior,
			wantDelta: 100, wantRating: 1100,
		},
		{
			name:  "zero_correct_junior",
			prior: 1000, correct: 0, level: model.LevelJunior,
			wantDelta: -80, wantRating: 920,
		},
		{
			// Рейтинг не уходит ниже нуля.
			name:  "rating_floor_at_zero",
			prior: 10, correct: 0, level: model.LevelSenior,
			wantDelta: -80, wantRating: 0,
		},
		{
			// Неизвестный уровень считается как junior.
			name:  "unknown_level_defaults_to_junior",
			prior: 1000, correct: 9, level: model.Level("principal"),
			wantDelta: 50, wantRating: 1050,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delta, newRating := Settle(tt.prior, tt.correct, tt.level)
			assert.Equal(t, tt.wantDelta, delta)
			assert.Equal(t, tt.wantRating, newRating)
		})
	}
}

func TestSettleCustomScenarios(t *testing.T) {
	tests := []struct {
		name       string
		prior      int
		correct    int
		total      int
		wantDelta  int
		wantRating int
	}{
		{name: "full_score", prior: 1000, correct: 5, total: 5, wantDelta: 40, wantRating: 1040},
		{name: "zero_questions", prior: 1000, correct: 0, total: 0, wantDelta: 0, wantRating: 1000},
		{name: "all_wrong", prior: 1000, correct: 0, total: 7, wantDelta: -50, wantRating: 950},
		{name: "novice_penalty_halved", prior: 500, correct: 0, total: 4, wantDelta: -25, wantRating: 475},
		{name: "veteran_penalty_raised", prior: 2500, correct: 0, total: 4, wantDelta: -75, wantRating: 2425},
		{name: "two_of_three", prior: 1000, correct: 2, total: 3, wantDelta: -15, wantRating: 985},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delta, newRating := SettleCustom(tt.prior, tt.correct, tt.total)
			assert.Equal(t, tt.wantDelta, delta)
			assert.Equal(t, tt.wantRating, newRating)
		})
	}
}

// TestSettleBounds перебирает все входы стандартного расчета и проверяет,
// что дельта остается в [-100, 150], а рейтинг неотрицателен.
func TestSettleBounds(t *testing.T) {
	priors := []int{0, 1, 500, 799, 800, 801, 1000, 1999, 2000, 2001, 3000}
	for _, prior := range priors {
		for correct := 0; correct <= StandardQuestions; correct++ {
			for _, level := range model.Levels() {
				delta, newRating := Settle(prior, correct, level)
				require.GreaterOrEqual(t, delta, standardMinDelta, "prior=%d correct=%d level=%s", prior, correct, level)
				require.LessOrEqual(t, delta, standardMaxDelta, "prior=%d correct=%d level=%s", prior, correct, level)
				require.GreaterOrEqual(t, newRating, 0, "prior=%d correct=%d level=%s", prior, correct, level)
			}
		}
	}
}

// TestSettleCustomBounds проверяет границы дельты пользовательских тестов.
func TestSettleCustomBounds(t *testing.T) {
	priors := []int{0, 500, 799, 800, 1500, 2000, 2001, 4000}
	for _, prior := range priors {
		for total := 1; total <= 12; total++ {
			for correct := 0; correct <= total; correct++ {
				delta, newRating := SettleCustom(prior, correct, total)
				require.GreaterOrEqual(t, delta, customMinDelta, "prior=%d correct=%d total=%d", prior, correct, total)
				require.LessOrEqual(t, delta, customMaxDelta, "prior=%d correct=%d total=%d", prior, correct, total)
				require.GreaterOrEqual(t, newRating, 0, "prior=%d correct=%d total=%d", prior, correct, total)
			}
		}
	}
}

// TestStabilizerPositiveDeltaUntouched проверяет, что стабилизатор меняет
// только отрицательные дельты: положительный результат одинаков для новичка,
// середняка и ветерана.
func TestStabilizerPositiveDeltaUntouched(t *testing.T) {
	for correct := 7; correct <= StandardQuestions; correct++ {
		for _, level := range model.Levels() {
			noviceDelta, _ := Settle(100, correct, level)
			midDelta, _ := Settle(1500, correct, level)
			veteranDelta, _ := Settle(2500, correct, level)
			assert.Equal(t, midDelta, noviceDelta, "correct=%d level=%s", correct, level)
			assert.Equal(t, midDelta, veteranDelta, "correct=%d level=%s", correct, level)
			assert.Positive(t, midDelta)
		}
	}
}

// TestSettleDeterministic проверяет воспроизводимость расчета.
func TestSettleDeterministic(t *testing.T) {
	for i := 0; i < 100; i++ {
		delta, newRating := Settle(1234, 6, model.LevelMiddle)
		require.Equal(t, -30, delta)
		require.Equal(t, 1204, newRating)
	}
}

// TestSettleTruncatesTowardZero фиксирует семантику усечения дробной части:
// дробная дельта усекается к нулю, -7.5 дает -7, а не -8.
func TestSettleTruncatesTowardZero(t *testing.T) {
	delta, newRating := SettleCustom(700, 3, 5) // 60% -> -15, затем *0.5 = -7.5
	assert.Equal(t, -7, delta)
	assert.Equal(t, 693, newRating)

	delta, newRating = SettleCustom(2100, 3, 5) // -15 * 1.5 = -22.5
	assert.Equal(t, -22, delta)
	assert.Equal(t, 2078, newRating)
}
