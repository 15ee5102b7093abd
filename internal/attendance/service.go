package attendance

import (
	"errors"
	"math"
	"time"

	"learnhub/internal/models"
)

const (
	StatusPresent = "present"
	StatusAbsent  = "absent"

	dateLayout = "2006-01-02"
)

var (
	ErrInvalidStatus = errors.New("status must be present or absent")
	ErrInvalidDate   = errors.New("date must be YYYY-MM-DD")
)

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Mark records attendance for one day. Marking the same day again
// replaces the earlier status.
func (s *Service) Mark(userID, courseID uint, date, status string) (*models.Attendance, error) {
	if status != StatusPresent && status != StatusAbsent {
		return nil, ErrInvalidStatus
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, ErrInvalidDate
	}

	record := &models.Attendance{
		UserID:   userID,
		CourseID: courseID,
		Date:     date,
		Status:   status,
	}
	if err := s.repo.Upsert(record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *Service) List(userID, courseID uint) ([]models.Attendance, error) {
	return s.repo.List(userID, courseID)
}

type Summary struct {
	Total   int `json:"total"`
	Present int `json:"present"`
	Rate    int `json:"rate"` // rounded percentage present
}

func (s *Service) Summary(userID, courseID uint) (*Summary, error) {
	total, present, err := s.repo.Counts(userID, courseID)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Total: int(total), Present: int(present)}
	if total > 0 {
		summary.Rate = int(math.Round(float64(present) / float64(total) * 100))
	}
	return summary, nil
}
