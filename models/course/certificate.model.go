package course

import (
	"time"

	"gorm.io/gorm"
)

// Certificate represents an issued certificate for course completion.
// Student/course/instructor names are denormalized at issuance time so the
// document stays stable even if the source records change later.
// The (user, course) unique index is the duplicate-issuance guard: a
// concurrent double-create degrades into a constraint violation that the
// issuer treats as "already exists".
type Certificate struct {
	gorm.Model
	UserID            uint      `json:"user_id" gorm:"uniqueIndex:idx_cert_user_course;not null"`
	CourseID          uint      `json:"course_id" gorm:"uniqueIndex:idx_cert_user_course;not null"`
	CertificateNumber string    `json:"certificate_number" gorm:"uniqueIndex;not null"` // opaque global id (uuid)
	VerificationCode  string    `json:"verification_code" gorm:"uniqueIndex;not null"`  // short, publicly shareable
	StudentName       string    `json:"student_name"`
	CourseName        string    `json:"course_name"`
	InstructorName    string    `json:"instructor_name"`
	FinalScore        float64   `json:"final_score"`
	Grade             string    `json:"grade"` // letter grade derived from FinalScore
	TotalTimeSpent    int       `json:"total_time_spent"`
	IssuedAt          time.Time `json:"issued_at"`
	DownloadCount     int       `json:"download_count" gorm:"default:0"`
	IsDeleted         bool      `gorm:"default:false"`
}
