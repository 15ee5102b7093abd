package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"learnhub/internal/models"

	"gorm.io/gorm"
)

var (
	ErrEmptyConversation = errors.New("conversation has no messages")
	ErrBadQuizPayload    = errors.New("generated quiz payload is invalid")
)

const chatSystemPrompt = "You are a helpful study assistant for an e-learning platform. " +
	"Answer student questions about their courses clearly and concisely."

// Service drives the two generative actions: chat and quiz generation.
type Service struct {
	client GenerativeClient
	repo   *Repository
}

func NewService(client GenerativeClient, repo *Repository) *Service {
	return &Service{client: client, repo: repo}
}

func (s *Service) Chat(ctx context.Context, messages []models.ChatMessage) (string, error) {
	if len(messages) == 0 {
		return "", ErrEmptyConversation
	}

	var b strings.Builder
	b.WriteString(chatSystemPrompt)
	b.WriteString("\n\n")
	for _, m := range messages {
		role := m.Role
		if role != "assistant" {
			role = "user"
		}
		fmt.Fprintf(&b, "%s: %s\n", role, m.Content)
	}
	b.WriteString("assistant:")

	return s.client.GenerateContent(ctx, b.String())
}

// GeneratedQuiz mirrors the wire contract of the quiz generator: title,
// description and four-option questions keyed by answer text.
type GeneratedQuiz struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Questions   []GeneratedQuestion `json:"questions"`
}

type GeneratedQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// GenerateQuiz asks the model for a quiz on the course topic, parses the
// JSON (stripping markdown code fences if present) and persists the quiz
// for the course.
func (s *Service) GenerateQuiz(ctx context.Context, courseID uint, courseTitle string) (*GeneratedQuiz, error) {
	prompt := fmt.Sprintf(
		"Generate a quiz for the course %q. Respond with only a JSON object of the form "+
			`{"title": string, "description": string, "questions": [{"question": string, `+
			`"options": [4 strings], "correctAnswer": string, "explanation": string}]} `+
			"with 5 questions. The correctAnswer must exactly match one of the options.",
		courseTitle,
	)

	raw, err := s.client.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	generated, err := ParseGeneratedQuiz(raw)
	if err != nil {
		return nil, err
	}

	if s.repo != nil {
		if err := s.repo.SaveGeneratedQuiz(courseID, generated); err != nil {
			return nil, err
		}
	}
	return generated, nil
}

var codeFenceRE = regexp.MustCompile("(?s)^\\s*```(?:json)?\\s*(.*?)\\s*```\\s*$")

// StripCodeFences removes a surrounding markdown code fence, which models
// frequently wrap JSON responses in.
func StripCodeFences(s string) string {
	if m := codeFenceRE.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return strings.TrimSpace(s)
}

// ParseGeneratedQuiz decodes a model response into a GeneratedQuiz and
// checks the minimum shape the authoring flow needs.
func ParseGeneratedQuiz(raw string) (*GeneratedQuiz, error) {
	var quiz GeneratedQuiz
	if err := json.Unmarshal([]byte(StripCodeFences(raw)), &quiz); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadQuizPayload, err)
	}
	if quiz.Title == "" || len(quiz.Questions) == 0 {
		return nil, ErrBadQuizPayload
	}
	for _, q := range quiz.Questions {
		if q.Question == "" || len(q.Options) < 2 || q.CorrectAnswer == "" {
			return nil, ErrBadQuizPayload
		}
	}
	return &quiz, nil
}

// Repository persists generated quizzes as regular quiz rows so students
// can take them like any authored quiz.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) SaveGeneratedQuiz(courseID uint, generated *GeneratedQuiz) error {
	quiz := &models.Quiz{
		CourseID:    courseID,
		Title:       generated.Title,
		Description: generated.Description,
	}
	for i, gq := range generated.Questions {
		question := models.Question{
			Text:          gq.Question,
			Position:      i,
			CorrectAnswer: gq.CorrectAnswer,
			Explanation:   gq.Explanation,
		}
		for j, opt := range gq.Options {
			question.Options = append(question.Options, models.Option{
				Text:     opt,
				Position: j,
			})
		}
		quiz.Questions = append(quiz.Questions, question)
	}
	return r.db.Create(quiz).Error
}
