package models

import (
	"time"

	"gorm.io/gorm"
)

type Course struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
	Title         string         `json:"title" gorm:"not null"`
	Description   string         `json:"description"`
	Category      string         `json:"category"`
	Instructor    string         `json:"instructor"`
	DurationWeeks int            `json:"duration_weeks"`
}

// Enrollment links a student to a course and carries their completion
// percentage, which the quiz submission flow raises on passing scores.
type Enrollment struct {
	ID                   uint           `json:"id" gorm:"primaryKey"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `json:"-" gorm:"index"`
	UserID               uint           `json:"user_id" gorm:"not null;uniqueIndex:idx_enrollment_user_course"`
	CourseID             uint           `json:"course_id" gorm:"not null;uniqueIndex:idx_enrollment_user_course"`
	CompletionPercentage int            `json:"completion_percentage" gorm:"not null;default:0"`
	CompletedAt          *time.Time     `json:"completed_at"`
}

// Attendance is one record per (user, course, day). Date is YYYY-MM-DD.
type Attendance struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_attendance_user_course_date"`
	CourseID  uint      `json:"course_id" gorm:"not null;uniqueIndex:idx_attendance_user_course_date"`
	Date      string    `json:"date" gorm:"size:10;not null;uniqueIndex:idx_attendance_user_course_date"`
	Status    string    `json:"status" gorm:"size:8;not null"` // "present" | "absent"
}

// Certificate is unique per (user, course); re-issuance is an upsert that
// refreshes issued_at and never creates a second row.
type Certificate struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	UserID            uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_certificate_user_course"`
	CourseID          uint      `json:"course_id" gorm:"not null;uniqueIndex:idx_certificate_user_course"`
	CertificateNumber string    `json:"certificate_number" gorm:"unique"`
	CertificateURL    string    `json:"certificate_url"`
	IssuedAt          time.Time `json:"issued_at"`
}
