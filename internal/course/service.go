package course

import (
	"errors"
	"log"

	"learnhub/internal/models"
	"learnhub/pkg/cache"

	"gorm.io/gorm"
)

var (
	ErrCourseNotFound  = errors.New("course not found")
	ErrAlreadyEnrolled = errors.New("already enrolled in this course")
)

type Service struct {
	repo  *Repository
	cache *cache.RedisCache
}

// NewService builds the course service. cache may be nil.
func NewService(repo *Repository, cache *cache.RedisCache) *Service {
	return &Service{repo: repo, cache: cache}
}

func (s *Service) ListCourses() ([]models.Course, error) {
	if s.cache != nil {
		if courses, err := s.cache.GetCourseList(); err == nil {
			return courses, nil
		}
	}

	courses, err := s.repo.ListCourses()
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetCourseList(courses); err != nil {
			log.Printf("Error caching course list: %v", err)
		}
	}
	return courses, nil
}

func (s *Service) GetCourse(courseID uint) (*models.Course, error) {
	if s.cache != nil {
		if course, err := s.cache.GetCourse(courseID); err == nil {
			return course, nil
		}
	}

	course, err := s.repo.GetCourse(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetCourse(course); err != nil {
			log.Printf("Error caching course %d: %v", course.ID, err)
		}
	}
	return course, nil
}

// Enroll creates the enrollment row at zero completion. The quiz flow
// later raises completion_percentage on passing scores.
func (s *Service) Enroll(userID, courseID uint) (*models.Enrollment, error) {
	if _, err := s.GetCourse(courseID); err != nil {
		return nil, err
	}

	exists, err := s.repo.EnrollmentExists(userID, courseID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyEnrolled
	}

	enrollment := &models.Enrollment{
		UserID:               userID,
		CourseID:             courseID,
		CompletionPercentage: 0,
	}
	if err := s.repo.CreateEnrollment(enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

func (s *Service) MyCourses(userID uint) ([]EnrolledCourse, error) {
	return s.repo.GetEnrolledCourses(userID)
}

func (s *Service) CreateCourse(course *models.Course) error {
	if err := s.repo.CreateCourse(course); err != nil {
		return err
	}
	s.invalidate(course.ID)
	return nil
}

func (s *Service) UpdateCourse(courseID uint, patch *models.Course) (*models.Course, error) {
	course, err := s.repo.GetCourse(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	if patch.Title != "" {
		course.Title = patch.Title
	}
	if patch.Description != "" {
		course.Description = patch.Description
	}
	if patch.Category != "" {
		course.Category = patch.Category
	}
	if patch.Instructor != "" {
		course.Instructor = patch.Instructor
	}
	if patch.DurationWeeks != 0 {
		course.DurationWeeks = patch.DurationWeeks
	}

	if err := s.repo.UpdateCourse(course); err != nil {
		return nil, err
	}
	s.invalidate(courseID)
	return course, nil
}

func (s *Service) DeleteCourse(courseID uint) error {
	if _, err := s.repo.GetCourse(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}
	if err := s.repo.DeleteCourse(courseID); err != nil {
		return err
	}
	s.invalidate(courseID)
	return nil
}

func (s *Service) invalidate(courseID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCourses(courseID); err != nil {
		log.Printf("Error invalidating course cache: %v", err)
	}
}
