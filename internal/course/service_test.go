package course

import (
	"errors"
	"testing"

	"learnhub/internal/models"
	"learnhub/pkg/database"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

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

func TestEnroll(t *testing.T) {
	db := newTestDB(t)
	service := NewService(NewRepository(db), nil)

	course := &models.Course{Title: "Databases 101"}
	if err := service.CreateCourse(course); err != nil {
		t.Fatalf("creating course: %v", err)
	}

	enrollment, err := service.Enroll(1, course.ID)
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if enrollment.CompletionPercentage != 0 {
		t.Errorf("completion = %d, want 0", enrollment.CompletionPercentage)
	}

	if _, err := service.Enroll(1, course.ID); !errors.Is(err, ErrAlreadyEnrolled) {
		t.Errorf("second enroll err = %v, want ErrAlreadyEnrolled", err)
	}

	if _, err := service.Enroll(1, 9999); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("enroll in missing course err = %v, want ErrCourseNotFound", err)
	}
}

func TestMyCourses(t *testing.T) {
	db := newTestDB(t)
	service := NewService(NewRepository(db), nil)

	first := &models.Course{Title: "Networking"}
	second := &models.Course{Title: "Operating Systems"}
	for _, c := range []*models.Course{first, second} {
		if err := service.CreateCourse(c); err != nil {
			t.Fatalf("creating course: %v", err)
		}
	}

	if _, err := service.Enroll(7, first.ID); err != nil {
		t.Fatalf("enroll: %v", err)
	}
	db.Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id = ?", 7, first.ID).
		Update("completion_percentage", 40)

	mine, err := service.MyCourses(7)
	if err != nil {
		t.Fatalf("my courses: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("enrolled courses = %d, want 1", len(mine))
	}
	if mine[0].Course.Title != "Networking" {
		t.Errorf("course = %q, want %q", mine[0].Course.Title, "Networking")
	}
	if mine[0].CompletionPercentage != 40 {
		t.Errorf("completion = %d, want 40", mine[0].CompletionPercentage)
	}
}

func TestUpdateAndDeleteCourse(t *testing.T) {
	db := newTestDB(t)
	service := NewService(NewRepository(db), nil)

	course := &models.Course{Title: "Old Title", Category: "infra"}
	if err := service.CreateCourse(course); err != nil {
		t.Fatalf("creating course: %v", err)
	}

	updated, err := service.UpdateCourse(course.ID, &models.Course{Title: "New Title"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "New Title" {
		t.Errorf("title = %q, want %q", updated.Title, "New Title")
	}
	if updated.Category != "infra" {
		t.Errorf("category = %q, want unchanged %q", updated.Category, "infra")
	}

	if err := service.DeleteCourse(course.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := service.GetCourse(course.ID); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("get deleted course err = %v, want ErrCourseNotFound", err)
	}
	if err := service.DeleteCourse(course.ID); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("double delete err = %v, want ErrCourseNotFound", err)
	}
}
