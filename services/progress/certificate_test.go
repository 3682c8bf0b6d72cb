package progress

import (
	"errors"
	"sync"
	"testing"

	courseModels "lms/models/course"
)

func TestIssueCertificateRequiresEligibility(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "oscar")
	sc := seedCourse(t, "Go Basics", [][]string{{"VIDEO"}})
	enrollUser(t, user.ID, sc.course.ID)

	if _, err := IssueCertificateIfEligible(user.ID, sc.course.ID); !errors.Is(err, ErrPrerequisitesNotMet) {
		t.Errorf("error = %v, want ErrPrerequisitesNotMet", err)
	}
	if _, err := GetCertificate(user.ID, sc.course.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetCertificate() error = %v, want ErrNotFound", err)
	}
}

func TestIssueCertificateExactlyOnce(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, "peggy")
	sc := seedCourse(t, "Go Basics", [][]string{{"VIDEO"}})
	enrollUser(t, user.ID, sc.course.ID)
	completeAllLectures(t, user.ID, sc)

	first, err := IssueCertificateIfEligible(user.ID, sc.course.ID)
	if err != nil {
		t.Fatalf("IssueCertificateIfEligible() error = %v", err)
	}
	if first.CertificateNumber == "" || first.VerificationCode == "" {
		t.Fatal("certificate issued without identifiers")
	}

	// Re-requesting issuance returns the existing certificate unchanged
	second, err := IssueCertificateIfEligible(user.ID, sc.course.ID)
	if err != nil {
		t.Fatalf("repeat IssueCertificateIfEligible() error = %v", err)
	}
	if second.CertificateNumber != first.CertificateNumber {
		t.Errorf("certificate number changed: %q -> %q", first.CertificateNumber, second.CertificateNumber)
	}
	if second.VerificationCode != first.VerificationCode {
		t.Errorf("verification code changed: %q -> %q", first.VerificationCode, second.VerificationCode)
	}

	var count int64
	db.Model(&courseModels.Certificate{}).
		Where("user_id = ? AND course_id = ?", user.ID, sc.course.ID).
		Count(&count)
	if count != 1 {
		t.Errorf("certificate rows = %d, want 1", count)
	}

	// The progress record links back to the certificate
	p, err := GetOrCreateProgress(user.ID, sc.course.ID)
	if err != nil {
		t.Fatalf("GetOrCreateProgress() error = %v", err)
	}
	if !p.CertificateGenerated || p.CertificateID != first.CertificateNumber {
		t.Errorf("progress link: generated=%v id=%q, want %q", p.CertificateGenerated, p.CertificateID, first.CertificateNumber)
	}
}

func TestIssueCertificateConcurrent(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, "quinn")
	sc := seedCourse(t, "Go Basics", [][]string{{"VIDEO"}})
	enrollUser(t, user.ID, sc.course.ID)
	completeAllLectures(t, user.ID, sc)

	const workers = 8
	numbers := make([]string, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cert, err := IssueCertificateIfEligible(user.ID, sc.course.ID)
			if err != nil {
				errs[i] = err
				return
			}
			numbers[i] = cert.CertificateNumber
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			t.Fatalf("worker %d error = %v", i, errs[i])
		}
		if numbers[i] != numbers[0] {
			t.Errorf("worker %d got certificate %q, want %q", i, numbers[i], numbers[0])
		}
	}

	var count int64
	db.Model(&courseModels.Certificate{}).
		Where("user_id = ? AND course_id = ?", user.ID, sc.course.ID).
		Count(&count)
	if count != 1 {
		t.Errorf("certificate rows = %d, want 1", count)
	}
}

func TestVerifyCertificate(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "rita")
	sc := seedCourse(t, "Go Basics", [][]string{{"VIDEO"}})
	enrollUser(t, user.ID, sc.course.ID)
	completeAllLectures(t, user.ID, sc)

	cert, err := IssueCertificateIfEligible(user.ID, sc.course.ID)
	if err != nil {
		t.Fatalf("IssueCertificateIfEligible() error = %v", err)
	}

	found, err := VerifyCertificate(cert.VerificationCode)
	if err != nil {
		t.Fatalf("VerifyCertificate() error = %v", err)
	}
	if found.CertificateNumber != cert.CertificateNumber {
		t.Errorf("verified certificate %q, want %q", found.CertificateNumber, cert.CertificateNumber)
	}
	if found.StudentName != user.Name || found.CourseName != sc.course.Title {
		t.Errorf("snapshot mismatch: student=%q course=%q", found.StudentName, found.CourseName)
	}

	if _, err := VerifyCertificate("NOSUCHCODE"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown code error = %v, want ErrNotFound", err)
	}
}

func TestIncrementCertificateDownload(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "sara")
	sc := seedCourse(t, "Go Basics", [][]string{{"VIDEO"}})
	enrollUser(t, user.ID, sc.course.ID)
	completeAllLectures(t, user.ID, sc)

	cert, err := IssueCertificateIfEligible(user.ID, sc.course.ID)
	if err != nil {
		t.Fatalf("IssueCertificateIfEligible() error = %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := IncrementCertificateDownload(cert.ID); err != nil {
			t.Fatalf("IncrementCertificateDownload() error = %v", err)
		}
	}

	reloaded, err := GetCertificate(user.ID, sc.course.ID)
	if err != nil {
		t.Fatalf("GetCertificate() error = %v", err)
	}
	if reloaded.DownloadCount != 3 {
		t.Errorf("download count = %d, want 3", reloaded.DownloadCount)
	}
}

func TestCertificateWithheldBelowMinimumScore(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "tina")
	sc := seedCourse(t, "Go Basics", [][]string{{"VIDEO"}})
	enrollUser(t, user.ID, sc.course.ID)
	// Passing at 70 is possible but the certificate needs 90
	ft := seedFinalTest(t, sc.course.ID, 70, 90, 3)
	questions := seedFinalQuestions(t, ft.ID, []int{10, 7, 3})

	completeAllLectures(t, user.ID, sc)

	// 17/20 = 85%: passes the test, misses the certificate bar
	result, err := SubmitFinalTest(user.ID, sc.course.ID, answersForFinal(questions, 0, 1), 5)
	if err != nil {
		t.Fatalf("SubmitFinalTest() error = %v", err)
	}
	if !result.Passed {
		t.Fatal("85% should pass a 70% threshold")
	}
	if !result.Progress.IsCompleted {
		t.Error("course should be completed by the passing attempt")
	}

	if _, err := GetCertificate(user.ID, sc.course.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("certificate error = %v, want ErrNotFound below the minimum score", err)
	}
	if _, err := IssueCertificateIfEligible(user.ID, sc.course.ID); !errors.Is(err, ErrPrerequisitesNotMet) {
		t.Errorf("explicit issuance error = %v, want ErrPrerequisitesNotMet", err)
	}
}
