package rating

import "github.com/IT-Nick/quizbot/internal/domain/model"

// Пакет rating вычисляет изменение MMR по итогам сессии. Функции чистые:
// результат определяется только аргументами, что позволяет воспроизводить
// расчет в тестах бит-в-бит.

// StandardQuestions — количество вопросов стандартного теста, от которого
// считается процент правильных ответов независимо от фактического размера пула.
const StandardQuestions = 10

// Границы итогового изменения рейтинга.
const (
	standardMinDelta = -100
	standardMaxDelta = 150
	customMinDelta   = -75
	customMaxDelta   = 100
)

// Пороги рейтинга, при которых включается стабилизатор.
const (
	noviceThreshold  = 800  // ниже — штрафы уменьшаются вдвое
	veteranThreshold = 2000 // выше — штрафы растут в полтора раза
)

// Multiplier возвращает множитель сложности для стандартных тестов.
// Неизвестный уровень дает множитель 1.0 (как junior); решение о том,
// предупреждать ли о таком ключе, остается за вызывающей стороной.
func Multiplier(l model.Level) float64 {
	switch l {
	case model.LevelJunior:
		return 1.0
	case model.LevelMiddle:
		return 1.5
	case model.LevelSenior:
		return 2.0
	}
	return 1.0
}

// Settle вычисляет изменение рейтинга за стандартный тест и новый рейтинг.
// Базовая дельта берется из фиксированных полос по проценту правильных
// ответов, умножается на множитель сложности, проходит стабилизатор по
// текущему рейтингу и ограничивается диапазоном [-100, 150].
// Итоговый рейтинг не опускается ниже нуля.
func Settle(prior, correct int, level model.Level) (delta, newRating int) {
	pct := float64(correct) / float64(StandardQuestions) * 100

	var base int
	switch {
	case pct < 30:
		base = -80
	case pct < 50:
		base = -50
	case pct < 70:
		base = -20
	case pct < 90:
		base = 30
	default:
		base = 50
	}

	delta = int(float64(base) * Multiplier(level))
	delta = stabilize(prior, delta)
	delta = clamp(delta, standardMinDelta, standardMaxDelta)

	newRating = prior + delta
	if newRating < 0 {
		newRating = 0
	}
	return delta, newRating
}

// SettleCustom вычисляет изменение рейтинга за пользовательский тест.
// Полосы считаются от фактического числа вопросов, множитель сложности
// не применяется, диапазон ограничения уже: [-75, 100].
// Тест без вопросов не меняет рейтинг.
func SettleCustom(prior, correct, total int) (delta, newRating int) {
	if total == 0 {
		return 0, prior
	}

	pct := float64(correct) / float64(total) * 100

	switch {
	case pct < 30:
		delta = -50
	case pct < 50:
		delta = -30
	case pct < 70:
		delta = -15
	case pct < 90:
		delta = 20
	default:
		delta = 40
	}

	delta = stabilize(prior, delta)
	delta = clamp(delta, customMinDelta, customMaxDelta)

	newRating = prior + delta
	if newRating < 0 {
		newRating = 0
	}
	return delta, newRating
}

// stabilize корректирует только отрицательные дельты: новичкам штраф
// уменьшается вдвое, опытным игрокам увеличивается в полтора раза.
// Положительные дельты возвращаются как есть.
func stabilize(prior, delta int) int {
	if delta >= 0 {
		return delta
	}
	switch {
	case prior < noviceThreshold:
		return int(float64(delta) * 0.5)
	case prior > veteranThreshold:
		return int(float64(delta) * 1.5)
	}
	return delta
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
