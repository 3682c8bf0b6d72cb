package progress

import (
	"errors"
	"log"
	"time"

	"lms/database"
	"lms/models"
	courseModels "lms/models/course"
	"lms/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GradeFromScore maps a numeric percentage to a letter grade using a fixed
// threshold table.
func GradeFromScore(score float64) string {
	switch {
	case score >= 97:
		return "A+"
	case score >= 93:
		return "A"
	case score >= 90:
		return "A-"
	case score >= 87:
		return "B+"
	case score >= 83:
		return "B"
	case score >= 80:
		return "B-"
	case score >= 77:
		return "C+"
	case score >= 73:
		return "C"
	case score >= 70:
		return "C-"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}

// IssueCertificateIfEligible issues the course certificate exactly once per
// learner/course pair. Re-requesting issuance after the first success
// returns the existing certificate unchanged.
func IssueCertificateIfEligible(userID, courseID uint) (*courseModels.Certificate, error) {
	unlock := lockProgress(userID, courseID)
	defer unlock()

	st, err := loadCourseStructure(courseID)
	if err != nil {
		return nil, err
	}
	p, err := getOrCreateProgressLocked(st, userID, courseID)
	if err != nil {
		return nil, err
	}

	if !certificateEligible(st, p) {
		return nil, ErrPrerequisitesNotMet
	}
	return issueCertificateLocked(st, p)
}

// issueCertificateLocked performs the check-then-create issuance step.
// The existence check uses the durable certificate table, not the progress
// record's own flags, so a partially failed prior issuance self-heals. The
// (user, course) unique index turns a concurrent duplicate create into a
// constraint violation handled as "already exists".
func issueCertificateLocked(st *courseStructure, p *courseModels.CourseProgress) (*courseModels.Certificate, error) {
	db := database.Database.Db

	if existing, err := findCertificate(p.UserID, p.CourseID); err == nil {
		if !p.CertificateGenerated || p.CertificateID != existing.CertificateNumber {
			p.CertificateGenerated = true
			p.CertificateID = existing.CertificateNumber
			if err := db.Transaction(func(tx *gorm.DB) error {
				return saveProgress(tx, p)
			}); err != nil {
				return nil, err
			}
		}
		return existing, nil
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	var student models.User
	if err := db.Where("id = ? AND is_deleted = ?", p.UserID, false).First(&student).Error; err != nil {
		return nil, err
	}

	finalScore := p.OverallProgress
	if st.finalTestEnabled() {
		finalScore = p.FinalTestScore
	}

	// Verification codes are short and shared publicly; regenerate on
	// collision rather than fail.
	var cert *courseModels.Certificate
	for attempt := 0; attempt < 5; attempt++ {
		candidate := &courseModels.Certificate{
			UserID:            p.UserID,
			CourseID:          p.CourseID,
			CertificateNumber: uuid.NewString(),
			VerificationCode:  utils.GenerateVerificationCode(),
			StudentName:       student.Name,
			CourseName:        st.course.Title,
			InstructorName:    st.course.Instructor,
			FinalScore:        finalScore,
			Grade:             GradeFromScore(finalScore),
			TotalTimeSpent:    p.TotalTimeSpent,
			IssuedAt:          time.Now(),
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(candidate).Error; err != nil {
				return err
			}
			p.CertificateGenerated = true
			p.CertificateID = candidate.CertificateNumber
			return saveProgress(tx, p)
		})
		if err == nil {
			cert = candidate
			break
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Another writer won the (user, course) race, or the short
			// code collided. Prefer the existing certificate; otherwise
			// regenerate the code and retry.
			if existing, ferr := findCertificate(p.UserID, p.CourseID); ferr == nil {
				p.CertificateGenerated = true
				p.CertificateID = existing.CertificateNumber
				if serr := db.Transaction(func(tx *gorm.DB) error {
					return saveProgress(tx, p)
				}); serr != nil {
					return nil, serr
				}
				return existing, nil
			}
			continue
		}
		return nil, err
	}
	if cert == nil {
		return nil, errors.New("failed to generate a unique verification code")
	}

	log.Printf("[CERTIFICATE] Issued %s (code %s) to user %d for course %d",
		cert.CertificateNumber, cert.VerificationCode, p.UserID, p.CourseID)

	// Notification is best-effort and never blocks issuance
	go func(email, name, courseName, number string) {
		if err := utils.SendCertificateEmail(email, name, courseName, number); err != nil {
			log.Printf("[CERTIFICATE] Failed to send certificate email: %v", err)
		}
	}(student.Email, student.Name, st.course.Title, cert.CertificateNumber)

	return cert, nil
}

// GetCertificate returns the learner's certificate for a course
func GetCertificate(userID, courseID uint) (*courseModels.Certificate, error) {
	return findCertificate(userID, courseID)
}

// VerifyCertificate is the public lookup by shareable verification code
func VerifyCertificate(code string) (*courseModels.Certificate, error) {
	var cert courseModels.Certificate
	err := database.Database.Db.
		Where("verification_code = ? AND is_deleted = ?", code, false).
		First(&cert).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

// IncrementCertificateDownload bumps the download counter for a certificate
func IncrementCertificateDownload(certID uint) error {
	return database.Database.Db.Model(&courseModels.Certificate{}).
		Where("id = ?", certID).
		UpdateColumn("download_count", gorm.Expr("download_count + 1")).Error
}

func findCertificate(userID, courseID uint) (*courseModels.Certificate, error) {
	var cert courseModels.Certificate
	err := database.Database.Db.
		Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
		First(&cert).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

func logIssueFailure(userID, courseID uint, err error) {
	log.Printf("[CERTIFICATE] Issuance failed for user %d course %d: %v", userID, courseID, err)
}
