package assistant

import (
	"encoding/json"
	"errors"
	"net/http"

	"learnhub/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// InvokeRequest is the single-action envelope the frontend sends:
// {action: "chat", messages: [...]} or
// {action: "generateQuiz", courseId, courseTitle}.
type InvokeRequest struct {
	Action      string               `json:"action"`
	Messages    []models.ChatMessage `json:"messages,omitempty"`
	CourseID    uint                 `json:"courseId,omitempty"`
	CourseTitle string               `json:"courseTitle,omitempty"`
}

func (h *Handler) Invoke(w http.ResponseWriter, r *http.Request) {
	var req InvokeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	switch req.Action {
	case "chat":
		reply, err := h.service.Chat(r.Context(), req.Messages)
		if err != nil {
			if errors.Is(err, ErrEmptyConversation) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"message": reply})

	case "generateQuiz":
		// Quiz generation writes to the course, so it is admin-only.
		isAdmin, _ := r.Context().Value("is_admin").(bool)
		if !isAdmin {
			http.Error(w, "Admin access required", http.StatusForbidden)
			return
		}
		if req.CourseID == 0 || req.CourseTitle == "" {
			http.Error(w, "courseId and courseTitle are required", http.StatusBadRequest)
			return
		}

		quiz, err := h.service.GenerateQuiz(r.Context(), req.CourseID, req.CourseTitle)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"quiz": quiz})

	default:
		http.Error(w, "Unknown action", http.StatusBadRequest)
	}
}
