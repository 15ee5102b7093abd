package quiz

import (
	"learnhub/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Transaction runs fn against a repository bound to a single transaction.
// The submit flow uses this so the attempt insert, enrollment update and
// certificate upsert commit or roll back together.
func (r *Repository) Transaction(fn func(tx *Repository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

func (r *Repository) GetQuizWithQuestions(quizID uint) (*models.Quiz, error) {
	var quiz models.Quiz
	err := r.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc, id asc")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc, id asc")
		}).
		First(&quiz, quizID).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *Repository) GetQuizzesByCourse(courseID uint) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	err := r.db.Where("course_id = ?", courseID).Order("id asc").Find(&quizzes).Error
	if err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (r *Repository) CreateQuiz(quiz *models.Quiz) error {
	return r.db.Create(quiz).Error
}

// MaxAttemptNumber returns the highest attempt_number recorded for the
// user on this quiz, 0 when none exist.
func (r *Repository) MaxAttemptNumber(userID, quizID uint) (int, error) {
	var highest int
	err := r.db.Model(&models.Attempt{}).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Select("COALESCE(MAX(attempt_number), 0)").
		Scan(&highest).Error
	return highest, err
}

func (r *Repository) CreateAttempt(attempt *models.Attempt) error {
	return r.db.Create(attempt).Error
}

func (r *Repository) GetAttempts(userID, quizID uint) ([]models.Attempt, error) {
	var attempts []models.Attempt
	err := r.db.Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("attempt_number desc").
		Find(&attempts).Error
	return attempts, err
}

func (r *Repository) GetEnrollment(userID, courseID uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := r.db.Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *Repository) UpdateEnrollmentProgress(enrollment *models.Enrollment) error {
	return r.db.Model(enrollment).
		Select("completion_percentage", "completed_at").
		Updates(map[string]interface{}{
			"completion_percentage": enrollment.CompletionPercentage,
			"completed_at":          enrollment.CompletedAt,
		}).Error
}

// UpsertCertificate issues or refreshes the certificate for (user, course).
// The conflict target is the composite unique index, so repeated issuance
// never produces a second row.
func (r *Repository) UpsertCertificate(cert *models.Certificate) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"issued_at"}),
	}).Create(cert).Error
}

func (r *Repository) GetCertificate(userID, courseID uint) (*models.Certificate, error) {
	var cert models.Certificate
	err := r.db.Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&cert).Error
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

func (r *Repository) CountCertificates(userID, courseID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Certificate{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count, err
}
