package render

import (
	"fmt"
	"strings"

	"gopkg.in/telebot.v4"

	sessionsService "github.com/IT-Nick/quizbot/internal/domain/sessions/service"
)

// Question собирает текст вопроса с порядковым номером и инлайн-клавиатуру
// с вариантами ответа. В callback уходит только номер варианта: проверка
// правильности выполняется по состоянию сессии, а не по данным кнопки.
func Question(view *sessionsService.QuestionView) (string, *telebot.ReplyMarkup) {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("❓ *Вопрос %d из %d:*\n%s", view.Number, view.Total, view.Text))

	markup := &telebot.ReplyMarkup{}
	rows := make([]telebot.Row, 0, len(view.Options)+1)
	for i, option := range view.Options {
		btn := markup.Data(fmt.Sprintf("%d. %s", i+1, option), "answer", fmt.Sprintf("%d", i+1))
		rows = append(rows, markup.Row(btn))
	}
	rows = append(rows, markup.Row(markup.Data("❌ Прервать тест", "cancel_test")))
	markup.Inline(rows...)

	return b.String(), markup
}

// Feedback собирает короткий отклик на ответ: засчитан он или нет и какой
// вариант был правильным.
func Feedback(res *sessionsService.AnswerResult) string {
	if res.Correct {
		return fmt.Sprintf("✅ Верно! (%d. %s)", res.Selected, res.SelectedText)
	}
	return fmt.Sprintf("❌ Неверно. Правильный ответ: %d. %s", res.CorrectOption, res.CorrectText)
}

// Grade возвращает текстовую оценку по доле правильных ответов.
func Grade(percentage float64) string {
	switch {
	case percentage >= 90:
		return "🏆 Отличный результат!"
	case percentage >= 70:
		return "👍 Хороший результат!"
	case percentage >= 50:
		return "💪 Неплохо, но есть над чем поработать."
	default:
		return "📚 Стоит подтянуть теорию и попробовать снова."
	}
}

// Settlement собирает итоговое сообщение завершенного теста.
func Settlement(st *sessionsService.Settlement) string {
	pct := st.Percentage()
	var b strings.Builder
	b.WriteString("🏁 *Тест завершен!*\n\n")
	b.WriteString(fmt.Sprintf("Правильных ответов: %d из %d (%.0f%%)\n", st.CorrectCount, st.Total, pct))
	b.WriteString(Grade(pct))
	b.WriteString(fmt.Sprintf("\n\nMMR: %d → %d (%+d)", st.OldMMR, st.NewMMR, st.Delta))
	return b.String()
}

// NextActions собирает клавиатуру, предлагаемую после завершения теста.
func NextActions() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.Inline(
		markup.Row(markup.Data("🔄 Пройти еще раз", "start_test")),
		markup.Row(markup.Data("📋 В главное меню", "main_menu")),
	)
	return markup
}
