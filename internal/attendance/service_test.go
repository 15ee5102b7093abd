package attendance

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

func TestMarkValidation(t *testing.T) {
	service := NewService(NewRepository(newTestDB(t)))

	if _, err := service.Mark(1, 1, "2026-03-02", "late"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("bad status err = %v, want ErrInvalidStatus", err)
	}
	if _, err := service.Mark(1, 1, "03/02/2026", StatusPresent); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("bad date err = %v, want ErrInvalidDate", err)
	}
}

func TestMarkSameDayOverwrites(t *testing.T) {
	db := newTestDB(t)
	service := NewService(NewRepository(db))

	if _, err := service.Mark(1, 1, "2026-03-02", StatusPresent); err != nil {
		t.Fatalf("first mark: %v", err)
	}
	if _, err := service.Mark(1, 1, "2026-03-02", StatusAbsent); err != nil {
		t.Fatalf("re-mark: %v", err)
	}

	var count int64
	db.Model(&models.Attendance{}).Count(&count)
	if count != 1 {
		t.Fatalf("attendance rows = %d, want 1", count)
	}

	records, err := service.List(1, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if records[0].Status != StatusAbsent {
		t.Errorf("status = %q, want %q", records[0].Status, StatusAbsent)
	}
}

func TestSummary(t *testing.T) {
	db := newTestDB(t)
	service := NewService(NewRepository(db))

	days := []struct {
		date   string
		status string
	}{
		{"2026-03-02", StatusPresent},
		{"2026-03-03", StatusPresent},
		{"2026-03-04", StatusAbsent},
	}
	for _, d := range days {
		if _, err := service.Mark(1, 1, d.date, d.status); err != nil {
			t.Fatalf("mark %s: %v", d.date, err)
		}
	}

	summary, err := service.Summary(1, 1)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.Total != 3 || summary.Present != 2 {
		t.Errorf("summary = %+v, want total 3 present 2", summary)
	}
	if summary.Rate != 67 {
		t.Errorf("rate = %d, want 67", summary.Rate)
	}

	// No records at all: zero rate, no division error.
	empty, err := service.Summary(9, 9)
	if err != nil {
		t.Fatalf("empty summary: %v", err)
	}
	if empty.Rate != 0 || empty.Total != 0 {
		t.Errorf("empty summary = %+v, want zeros", empty)
	}
}
