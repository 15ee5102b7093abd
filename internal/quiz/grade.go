package quiz

import (
	"math"

	"learnhub/internal/models"
)

// AnswerSheet collects selections as the student moves through a quiz.
// It is pure state keyed by 0-based question index; nothing is persisted
// until the sheet is submitted.
type AnswerSheet struct {
	answers map[int]string
}

func NewAnswerSheet() *AnswerSheet {
	return &AnswerSheet{answers: make(map[int]string)}
}

// SheetFromAnswers builds a sheet from an already collected mapping,
// e.g. the body of a submission request.
func SheetFromAnswers(answers map[int]string) *AnswerSheet {
	sheet := NewAnswerSheet()
	for i, option := range answers {
		sheet.Select(i, option)
	}
	return sheet
}

// Select records the option for a question, replacing any earlier pick so
// back-and-forth navigation keeps only the latest choice.
func (s *AnswerSheet) Select(index int, option string) {
	s.answers[index] = option
}

func (s *AnswerSheet) Answer(index int) (string, bool) {
	option, ok := s.answers[index]
	return option, ok
}

// Complete reports whether every index in [0, total) has an answer.
func (s *AnswerSheet) Complete(total int) bool {
	for i := 0; i < total; i++ {
		if _, ok := s.answers[i]; !ok {
			return false
		}
	}
	return true
}

func (s *AnswerSheet) Answers() map[int]string {
	out := make(map[int]string, len(s.answers))
	for i, option := range s.answers {
		out[i] = option
	}
	return out
}

// Score grades a sheet against the question list and returns
// round(100 * correct / total). A question counts as correct only on an
// exact, case-sensitive match with its answer key.
func Score(questions []models.Question, sheet *AnswerSheet) int {
	if len(questions) == 0 {
		return 0
	}
	correct := 0
	for i, q := range questions {
		if answer, ok := sheet.Answer(i); ok && answer == q.CorrectAnswer {
			correct++
		}
	}
	return int(math.Round(float64(correct) / float64(len(questions)) * 100))
}
