package models

type QuestionDTO struct {
	ID            uint        `json:"id"`
	Text          string      `json:"text"`
	Position      int         `json:"position"`
	Options       []OptionDTO `json:"options"`
	CorrectAnswer string      `json:"correct_answer,omitempty"` // only for admins / results
	Explanation   string      `json:"explanation,omitempty"`
}

type OptionDTO struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

type QuizDTO struct {
	ID          uint          `json:"id"`
	CourseID    uint          `json:"course_id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Questions   []QuestionDTO `json:"questions"`
}

// ToDTO hides the answer key unless the caller is allowed to see it.
func (q Question) ToDTO(includeAnswer bool) QuestionDTO {
	optionDTOs := make([]OptionDTO, len(q.Options))
	for i, opt := range q.Options {
		optionDTOs[i] = OptionDTO{
			ID:   opt.ID,
			Text: opt.Text,
		}
	}

	dto := QuestionDTO{
		ID:       q.ID,
		Text:     q.Text,
		Position: q.Position,
		Options:  optionDTOs,
	}
	if includeAnswer {
		dto.CorrectAnswer = q.CorrectAnswer
		dto.Explanation = q.Explanation
	}
	return dto
}

func (q Quiz) ToDTO(includeAnswers bool) QuizDTO {
	questions := make([]QuestionDTO, len(q.Questions))
	for i, question := range q.Questions {
		questions[i] = question.ToDTO(includeAnswers)
	}
	return QuizDTO{
		ID:          q.ID,
		CourseID:    q.CourseID,
		Title:       q.Title,
		Description: q.Description,
		Questions:   questions,
	}
}
