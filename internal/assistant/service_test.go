package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"learnhub/internal/models"
	"learnhub/pkg/database"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type fakeClient struct {
	response string
	err      error
	prompt   string
}

func (f *fakeClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.response, f.err
}

const generatedQuizJSON = `{
	"title": "Go Basics",
	"description": "Fundamentals check",
	"questions": [
		{
			"question": "What keyword declares a variable?",
			"options": ["var", "let", "def", "dim"],
			"correctAnswer": "var",
			"explanation": "Go uses var."
		},
		{
			"question": "Which type is a slice?",
			"options": ["[]int", "int[]", "array<int>", "list"],
			"correctAnswer": "[]int",
			"explanation": "Slices use []T."
		}
	]
}`

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrating test db: %v", err)
	}
	return db
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "json fence",
			in:   "```json\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "bare fence",
			in:   "```\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "no fence",
			in:   "  {\"a\": 1}\n",
			want: `{"a": 1}`,
		},
		{
			name: "fence with surrounding whitespace",
			in:   "\n```json\n{\"a\": 1}\n```\n\n",
			want: `{"a": 1}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripCodeFences(tt.in); got != tt.want {
				t.Errorf("StripCodeFences() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGenerateQuizParsesFencedJSON(t *testing.T) {
	db := newTestDB(t)
	client := &fakeClient{response: "```json\n" + generatedQuizJSON + "\n```"}
	service := NewService(client, NewRepository(db))

	quiz, err := service.GenerateQuiz(context.Background(), 1, "Go Basics")
	if err != nil {
		t.Fatalf("GenerateQuiz: %v", err)
	}
	if quiz.Title != "Go Basics" {
		t.Errorf("title = %q, want %q", quiz.Title, "Go Basics")
	}
	if len(quiz.Questions) != 2 {
		t.Fatalf("questions = %d, want 2", len(quiz.Questions))
	}
	if quiz.Questions[0].CorrectAnswer != "var" {
		t.Errorf("correctAnswer = %q, want %q", quiz.Questions[0].CorrectAnswer, "var")
	}
	if !strings.Contains(client.prompt, "Go Basics") {
		t.Error("prompt does not mention the course title")
	}

	// The generated quiz must land in the store as a playable quiz.
	var stored models.Quiz
	if err := db.Preload("Questions.Options").First(&stored).Error; err != nil {
		t.Fatalf("loading stored quiz: %v", err)
	}
	if stored.CourseID != 1 {
		t.Errorf("stored course_id = %d, want 1", stored.CourseID)
	}
	if len(stored.Questions) != 2 {
		t.Fatalf("stored questions = %d, want 2", len(stored.Questions))
	}
	if len(stored.Questions[0].Options) != 4 {
		t.Errorf("stored options = %d, want 4", len(stored.Questions[0].Options))
	}
}

func TestGenerateQuizRejectsBadPayload(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"not json", "sorry, I cannot do that"},
		{"missing title", `{"description": "x", "questions": [{"question": "q", "options": ["a","b"], "correctAnswer": "a"}]}`},
		{"no questions", `{"title": "T", "questions": []}`},
		{"question without options", `{"title": "T", "questions": [{"question": "q", "options": ["a"], "correctAnswer": "a"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewService(&fakeClient{response: tt.response}, nil)
			_, err := service.GenerateQuiz(context.Background(), 1, "T")
			if !errors.Is(err, ErrBadQuizPayload) {
				t.Errorf("err = %v, want ErrBadQuizPayload", err)
			}
		})
	}
}

func TestChat(t *testing.T) {
	client := &fakeClient{response: "Recursion is a function calling itself."}
	service := NewService(client, nil)

	reply, err := service.Chat(context.Background(), []models.ChatMessage{
		{Role: "user", Content: "What is recursion?"},
	})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if reply != client.response {
		t.Errorf("reply = %q, want %q", reply, client.response)
	}
	if !strings.Contains(client.prompt, "What is recursion?") {
		t.Error("prompt missing user message")
	}
}

func TestChatEmptyConversation(t *testing.T) {
	service := NewService(&fakeClient{}, nil)
	if _, err := service.Chat(context.Background(), nil); !errors.Is(err, ErrEmptyConversation) {
		t.Errorf("err = %v, want ErrEmptyConversation", err)
	}
}

func TestChatPropagatesClientError(t *testing.T) {
	wantErr := errors.New("upstream down")
	service := NewService(&fakeClient{err: wantErr}, nil)
	_, err := service.Chat(context.Background(), []models.ChatMessage{{Role: "user", Content: "hi"}})
	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
}
