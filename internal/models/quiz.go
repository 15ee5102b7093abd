package models

import (
	"time"

	"gorm.io/gorm"
)

type Quiz struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
	CourseID    uint           `json:"course_id" gorm:"not null;index"`
	Title       string         `json:"title" gorm:"not null"`
	Description string         `json:"description"`
	Questions   []Question     `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
}

type Question struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
	QuizID        uint           `json:"quiz_id" gorm:"not null;index"`
	Text          string         `json:"text" gorm:"not null"`
	Position      int            `json:"position" gorm:"not null;default:0"`
	Options       []Option       `json:"options,omitempty" gorm:"foreignKey:QuestionID"`
	CorrectAnswer string         `json:"correct_answer" gorm:"not null"`
	Explanation   string         `json:"explanation"`
}

type Option struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	QuestionID uint      `json:"question_id" gorm:"not null;index"`
	Text       string    `json:"text" gorm:"not null"`
	Position   int       `json:"position" gorm:"not null;default:0"`
}

// Attempt is append-only: one row per submission, never mutated.
// Answers holds the question-index -> selected-option map as JSON.
type Attempt struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	CreatedAt     time.Time `json:"created_at"`
	UserID        uint      `json:"user_id" gorm:"not null;index:idx_attempt_user_quiz"`
	QuizID        uint      `json:"quiz_id" gorm:"not null;index:idx_attempt_user_quiz"`
	Score         int       `json:"score" gorm:"not null"`
	MaxScore      int       `json:"max_score" gorm:"not null;default:100"`
	AttemptNumber int       `json:"attempt_number" gorm:"not null"`
	Answers       string    `json:"answers" gorm:"not null"`
	CompletedAt   time.Time `json:"completed_at" gorm:"not null"`
}
