package quiz

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"learnhub/internal/models"
	"learnhub/pkg/cache"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrQuizNotFound         = errors.New("quiz not found")
	ErrAttemptLimitExceeded = errors.New("attempt limit exceeded")
	ErrIncompleteSheet      = errors.New("all questions must be answered")
	ErrNotEnrolled          = errors.New("not enrolled in this course")
)

// Rules are the thresholds applied on submission.
type Rules struct {
	MaxAttempts       int
	PassThreshold     int
	ProgressIncrement int
}

func DefaultRules() Rules {
	return Rules{MaxAttempts: 3, PassThreshold: 70, ProgressIncrement: 20}
}

type Service struct {
	repo  *Repository
	cache *cache.RedisCache
	rules Rules
}

// NewService builds the quiz service. cache may be nil; lookups then go
// straight to the database.
func NewService(repo *Repository, cache *cache.RedisCache, rules Rules) *Service {
	if rules.MaxAttempts <= 0 {
		rules = DefaultRules()
	}
	return &Service{repo: repo, cache: cache, rules: rules}
}

// SubmitResult describes what one submission did: the recorded attempt,
// and whether the enrollment or a certificate moved because of it.
type SubmitResult struct {
	Attempt              *models.Attempt     `json:"attempt"`
	Score                int                 `json:"score"`
	Passed               bool                `json:"passed"`
	CompletionPercentage int                 `json:"completion_percentage"`
	CertificateIssued    bool                `json:"certificate_issued"`
	Certificate          *models.Certificate `json:"certificate,omitempty"`
}

// LoadQuiz fetches the quiz with its ordered questions. A quiz that does
// not exist or has no questions is reported as not found so callers can
// redirect away from the flow.
func (s *Service) LoadQuiz(quizID uint) (*models.Quiz, error) {
	if s.cache != nil {
		if quiz, err := s.cache.GetQuiz(quizID); err == nil {
			return quiz, nil
		}
	}

	quiz, err := s.repo.GetQuizWithQuestions(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}
	if len(quiz.Questions) == 0 {
		return nil, ErrQuizNotFound
	}

	if s.cache != nil {
		if err := s.cache.SetQuiz(quiz); err != nil {
			log.Printf("Error caching quiz %d: %v", quiz.ID, err)
		}
	}
	return quiz, nil
}

func (s *Service) GetQuizzesByCourse(courseID uint) ([]models.Quiz, error) {
	return s.repo.GetQuizzesByCourse(courseID)
}

// CreateQuiz persists a quiz with its nested questions and options.
func (s *Service) CreateQuiz(quiz *models.Quiz) error {
	if err := s.repo.CreateQuiz(quiz); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.InvalidateQuiz(quiz.ID); err != nil {
			log.Printf("Error invalidating quiz cache: %v", err)
		}
	}
	return nil
}

// RemainingAttempts derives how many submissions the user has left. The
// value is advisory, read at flow entry; the binding check happens inside
// the SubmitAttempt transaction.
func (s *Service) RemainingAttempts(userID, quizID uint) (int, error) {
	used, err := s.repo.MaxAttemptNumber(userID, quizID)
	if err != nil {
		return 0, err
	}
	remaining := s.rules.MaxAttempts - used
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

func (s *Service) AttemptHistory(userID, quizID uint) ([]models.Attempt, error) {
	return s.repo.GetAttempts(userID, quizID)
}

// SubmitAttempt grades the sheet and runs the record -> progress ->
// certificate sequence in one transaction. The attempt limit is enforced
// against a fresh read inside that transaction, so a second tab cannot
// slip a fourth attempt in, and a failure at any step leaves nothing
// half-written.
func (s *Service) SubmitAttempt(userID, quizID uint, sheet *AnswerSheet) (*SubmitResult, error) {
	quiz, err := s.LoadQuiz(quizID)
	if err != nil {
		return nil, err
	}

	if !sheet.Complete(len(quiz.Questions)) {
		return nil, ErrIncompleteSheet
	}

	enrollment, err := s.repo.GetEnrollment(userID, quiz.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotEnrolled
		}
		return nil, err
	}

	score := Score(quiz.Questions, sheet)
	answersJSON, err := json.Marshal(sheet.Answers())
	if err != nil {
		return nil, err
	}

	result := &SubmitResult{
		Score:                score,
		Passed:               score >= s.rules.PassThreshold,
		CompletionPercentage: enrollment.CompletionPercentage,
	}

	err = s.repo.Transaction(func(tx *Repository) error {
		used, err := tx.MaxAttemptNumber(userID, quizID)
		if err != nil {
			return err
		}
		if used >= s.rules.MaxAttempts {
			return ErrAttemptLimitExceeded
		}

		now := time.Now()
		attempt := &models.Attempt{
			UserID:        userID,
			QuizID:        quizID,
			Score:         score,
			MaxScore:      100,
			AttemptNumber: used + 1,
			Answers:       string(answersJSON),
			CompletedAt:   now,
		}
		if err := tx.CreateAttempt(attempt); err != nil {
			return err
		}
		result.Attempt = attempt

		if !result.Passed {
			return nil
		}

		current, err := tx.GetEnrollment(userID, quiz.CourseID)
		if err != nil {
			return err
		}
		newProgress := current.CompletionPercentage + s.rules.ProgressIncrement
		if newProgress > 100 {
			newProgress = 100
		}
		current.CompletionPercentage = newProgress
		if newProgress == 100 && current.CompletedAt == nil {
			current.CompletedAt = &now
		}
		if err := tx.UpdateEnrollmentProgress(current); err != nil {
			return err
		}
		result.CompletionPercentage = newProgress

		if newProgress < 100 {
			return nil
		}

		number := uuid.NewString()
		cert := &models.Certificate{
			UserID:            userID,
			CourseID:          quiz.CourseID,
			CertificateNumber: number,
			CertificateURL:    fmt.Sprintf("/certificates/%s", number),
			IssuedAt:          now,
		}
		if err := tx.UpsertCertificate(cert); err != nil {
			return err
		}
		result.CertificateIssued = true

		issued, err := tx.GetCertificate(userID, quiz.CourseID)
		if err != nil {
			return err
		}
		result.Certificate = issued
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The attempt changed the numbers behind the dashboard rollup.
	if s.cache != nil {
		if err := s.cache.InvalidateDashboard(userID); err != nil {
			log.Printf("Error invalidating dashboard cache for user %d: %v", userID, err)
		}
	}

	log.Printf("User %d submitted quiz %d: score %d, attempt %d", userID, quizID, score, result.Attempt.AttemptNumber)
	return result, nil
}
