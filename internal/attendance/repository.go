package attendance

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

// Upsert keeps one record per (user, course, date); re-marking the same
// day overwrites the status.
func (r *Repository) Upsert(record *models.Attendance) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"status"}),
	}).Create(record).Error
}

func (r *Repository) List(userID, courseID uint) ([]models.Attendance, error) {
	var records []models.Attendance
	err := r.db.Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("date asc").
		Find(&records).Error
	return records, err
}

func (r *Repository) Counts(userID, courseID uint) (total, present int64, err error) {
	err = r.db.Model(&models.Attendance{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&total).Error
	if err != nil {
		return 0, 0, err
	}
	err = r.db.Model(&models.Attendance{}).
		Where("user_id = ? AND course_id = ? AND status = ?", userID, courseID, StatusPresent).
		Count(&present).Error
	return total, present, err
}
