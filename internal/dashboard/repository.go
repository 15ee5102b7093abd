package dashboard

import (
	"learnhub/internal/models"

	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// StudentStats is the per-student performance rollup shown on the
// dashboard.
type StudentStats struct {
	EnrolledCourses  int64   `json:"enrolled_courses"`
	CompletedCourses int64   `json:"completed_courses"`
	AttemptsTaken    int64   `json:"attempts_taken"`
	AverageScore     float64 `json:"average_score"`
	Certificates     int64   `json:"certificates"`
	AttendanceRate   int     `json:"attendance_rate"`
}

func (r *Repository) GetStudentStats(userID uint) (*StudentStats, error) {
	var stats StudentStats

	err := r.db.Model(&models.Enrollment{}).
		Where("user_id = ?", userID).
		Count(&stats.EnrolledCourses).Error
	if err != nil {
		return nil, err
	}

	err = r.db.Model(&models.Enrollment{}).
		Where("user_id = ? AND completion_percentage = 100", userID).
		Count(&stats.CompletedCourses).Error
	if err != nil {
		return nil, err
	}

	err = r.db.Model(&models.Attempt{}).
		Where("user_id = ?", userID).
		Count(&stats.AttemptsTaken).Error
	if err != nil {
		return nil, err
	}

	err = r.db.Raw(`
		SELECT COALESCE(AVG(score), 0)
		FROM attempts
		WHERE user_id = ?
	`, userID).Scan(&stats.AverageScore).Error
	if err != nil {
		return nil, err
	}

	err = r.db.Model(&models.Certificate{}).
		Where("user_id = ?", userID).
		Count(&stats.Certificates).Error
	if err != nil {
		return nil, err
	}

	var total, present int64
	err = r.db.Model(&models.Attendance{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	if err != nil {
		return nil, err
	}
	if total > 0 {
		err = r.db.Model(&models.Attendance{}).
			Where("user_id = ? AND status = ?", userID, "present").
			Count(&present).Error
		if err != nil {
			return nil, err
		}
		stats.AttendanceRate = int(float64(present)/float64(total)*100 + 0.5)
	}

	return &stats, nil
}

// RecentAttempt is a row in the dashboard's recent-activity list.
type RecentAttempt struct {
	QuizID      uint   `json:"quiz_id"`
	QuizTitle   string `json:"quiz_title"`
	Score       int    `json:"score"`
	CompletedAt string `json:"completed_at"`
}

func (r *Repository) GetRecentAttempts(userID uint, limit int) ([]RecentAttempt, error) {
	var attempts []RecentAttempt
	err := r.db.Raw(`
		SELECT a.quiz_id, q.title AS quiz_title, a.score, a.completed_at
		FROM attempts a
		JOIN quizzes q ON q.id = a.quiz_id
		WHERE a.user_id = ?
		ORDER BY a.completed_at DESC
		LIMIT ?
	`, userID, limit).Scan(&attempts).Error
	return attempts, err
}
