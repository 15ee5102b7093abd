package quiz

import (
	"testing"

	"learnhub/internal/models"
)

func questionsWithAnswers(answers ...string) []models.Question {
	questions := make([]models.Question, len(answers))
	for i, a := range answers {
		questions[i] = models.Question{CorrectAnswer: a, Position: i}
	}
	return questions
}

func sheetOf(answers ...string) *AnswerSheet {
	sheet := NewAnswerSheet()
	for i, a := range answers {
		sheet.Select(i, a)
	}
	return sheet
}

func TestScore(t *testing.T) {
	tests := []struct {
		name      string
		questions []models.Question
		sheet     *AnswerSheet
		want      int
	}{
		{
			name:      "all correct",
			questions: questionsWithAnswers("a", "b", "c", "d", "e"),
			sheet:     sheetOf("a", "b", "c", "d", "e"),
			want:      100,
		},
		{
			name:      "four of five",
			questions: questionsWithAnswers("a", "b", "c", "d", "e"),
			sheet:     sheetOf("a", "b", "c", "d", "x"),
			want:      80,
		},
		{
			name:      "two of five",
			questions: questionsWithAnswers("a", "b", "c", "d", "e"),
			sheet:     sheetOf("a", "b", "x", "x", "x"),
			want:      40,
		},
		{
			name:      "none correct",
			questions: questionsWithAnswers("a", "b"),
			sheet:     sheetOf("x", "y"),
			want:      0,
		},
		{
			name:      "one of three rounds to 33",
			questions: questionsWithAnswers("a", "b", "c"),
			sheet:     sheetOf("a", "x", "x"),
			want:      33,
		},
		{
			name:      "two of three rounds to 67",
			questions: questionsWithAnswers("a", "b", "c"),
			sheet:     sheetOf("a", "b", "x"),
			want:      67,
		},
		{
			name:      "comparison is case sensitive",
			questions: questionsWithAnswers("Paris"),
			sheet:     sheetOf("paris"),
			want:      0,
		},
		{
			name:      "no whitespace trimming",
			questions: questionsWithAnswers("Paris"),
			sheet:     sheetOf("Paris "),
			want:      0,
		},
		{
			name:      "no questions",
			questions: nil,
			sheet:     NewAnswerSheet(),
			want:      0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.questions, tt.sheet); got != tt.want {
				t.Errorf("Score() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestScoreRange(t *testing.T) {
	questions := questionsWithAnswers("a", "b", "c", "d", "e", "f", "g")
	for correct := 0; correct <= len(questions); correct++ {
		sheet := NewAnswerSheet()
		for i := range questions {
			if i < correct {
				sheet.Select(i, questions[i].CorrectAnswer)
			} else {
				sheet.Select(i, "wrong")
			}
		}
		got := Score(questions, sheet)
		if got < 0 || got > 100 {
			t.Errorf("Score() with %d correct = %d, out of [0,100]", correct, got)
		}
	}
}

func TestAnswerSheetComplete(t *testing.T) {
	sheet := NewAnswerSheet()
	if sheet.Complete(1) {
		t.Error("empty sheet reported complete")
	}

	sheet.Select(0, "a")
	sheet.Select(2, "c")
	if sheet.Complete(3) {
		t.Error("sheet with gap at index 1 reported complete")
	}

	sheet.Select(1, "b")
	if !sheet.Complete(3) {
		t.Error("fully answered sheet reported incomplete")
	}
}

func TestAnswerSheetReselect(t *testing.T) {
	sheet := NewAnswerSheet()
	sheet.Select(0, "first")
	sheet.Select(0, "second")

	answer, ok := sheet.Answer(0)
	if !ok || answer != "second" {
		t.Errorf("Answer(0) = %q, want %q", answer, "second")
	}
	if len(sheet.Answers()) != 1 {
		t.Errorf("Answers() has %d entries, want 1", len(sheet.Answers()))
	}
}
