package quiz

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"learnhub/internal/models"

	"github.com/gorilla/mux"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetQuiz returns the quiz with its questions, answer keys stripped, plus
// how many attempts the caller has left.
func (h *Handler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	quizID, err := pathID(r, "quizID")
	if err != nil {
		http.Error(w, "Invalid quiz ID", http.StatusBadRequest)
		return
	}

	quiz, err := h.service.LoadQuiz(quizID)
	if err != nil {
		if errors.Is(err, ErrQuizNotFound) {
			http.Error(w, "Quiz not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	remaining, err := h.service.RemainingAttempts(userID, quizID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	isAdmin, _ := r.Context().Value("is_admin").(bool)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"quiz":               quiz.ToDTO(isAdmin),
		"remaining_attempts": remaining,
	})
}

func (h *Handler) GetQuizzesByCourse(w http.ResponseWriter, r *http.Request) {
	courseID, err := pathID(r, "courseID")
	if err != nil {
		http.Error(w, "Invalid course ID", http.StatusBadRequest)
		return
	}

	quizzes, err := h.service.GetQuizzesByCourse(courseID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(quizzes)
}

type SubmitRequest struct {
	Answers map[int]string `json:"answers"`
}

func (h *Handler) SubmitAttempt(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	quizID, err := pathID(r, "quizID")
	if err != nil {
		http.Error(w, "Invalid quiz ID", http.StatusBadRequest)
		return
	}

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.service.SubmitAttempt(userID, quizID, SheetFromAnswers(req.Answers))
	if err != nil {
		switch {
		case errors.Is(err, ErrQuizNotFound):
			http.Error(w, "Quiz not found", http.StatusNotFound)
		case errors.Is(err, ErrAttemptLimitExceeded):
			http.Error(w, "No attempts remaining", http.StatusConflict)
		case errors.Is(err, ErrIncompleteSheet):
			http.Error(w, "All questions must be answered", http.StatusBadRequest)
		case errors.Is(err, ErrNotEnrolled):
			http.Error(w, "Not enrolled in this course", http.StatusForbidden)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	json.NewEncoder(w).Encode(result)
}

func (h *Handler) GetAttemptHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	quizID, err := pathID(r, "quizID")
	if err != nil {
		http.Error(w, "Invalid quiz ID", http.StatusBadRequest)
		return
	}

	attempts, err := h.service.AttemptHistory(userID, quizID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(attempts)
}

// CreateQuiz is the admin authoring endpoint; nested questions and options
// are created in one shot.
func (h *Handler) CreateQuiz(w http.ResponseWriter, r *http.Request) {
	courseID, err := pathID(r, "courseID")
	if err != nil {
		http.Error(w, "Invalid course ID", http.StatusBadRequest)
		return
	}

	var quiz models.Quiz
	if err := json.NewDecoder(r.Body).Decode(&quiz); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	quiz.CourseID = courseID

	if err := h.service.CreateQuiz(&quiz); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(quiz)
}

func pathID(r *http.Request, name string) (uint, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
