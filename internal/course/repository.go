package course

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

func (r *Repository) ListCourses() ([]models.Course, error) {
	var courses []models.Course
	err := r.db.Order("id asc").Find(&courses).Error
	return courses, err
}

func (r *Repository) GetCourse(courseID uint) (*models.Course, error) {
	var course models.Course
	if err := r.db.First(&course, courseID).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *Repository) CreateCourse(course *models.Course) error {
	return r.db.Create(course).Error
}

func (r *Repository) UpdateCourse(course *models.Course) error {
	return r.db.Save(course).Error
}

func (r *Repository) DeleteCourse(courseID uint) error {
	return r.db.Delete(&models.Course{}, courseID).Error
}

func (r *Repository) CreateEnrollment(enrollment *models.Enrollment) error {
	return r.db.Create(enrollment).Error
}

func (r *Repository) EnrollmentExists(userID, courseID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count > 0, err
}

// EnrolledCourse pairs a course with the student's progress in it.
type EnrolledCourse struct {
	Course               models.Course `json:"course"`
	CompletionPercentage int           `json:"completion_percentage"`
}

func (r *Repository) GetEnrolledCourses(userID uint) ([]EnrolledCourse, error) {
	var enrollments []models.Enrollment
	err := r.db.Where("user_id = ?", userID).Order("id asc").Find(&enrollments).Error
	if err != nil {
		return nil, err
	}

	out := make([]EnrolledCourse, 0, len(enrollments))
	for _, e := range enrollments {
		var course models.Course
		if err := r.db.First(&course, e.CourseID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				continue // course deleted after enrollment
			}
			return nil, err
		}
		out = append(out, EnrolledCourse{
			Course:               course,
			CompletionPercentage: e.CompletionPercentage,
		})
	}
	return out, nil
}
