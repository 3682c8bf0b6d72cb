package progress

import (
	"errors"
	"lms/database"
	courseModels "lms/models/course"
	"time"

	"gorm.io/gorm"
)

// LectureUpdate is the payload for recording watch/submission progress on a
// single lecture.
type LectureUpdate struct {
	Completed         *bool  `json:"completed"`
	WatchedPercentage *int   `json:"watched_percentage"`
	SubmissionText    string `json:"submission_text"`
	SubmissionURL     string `json:"submission_url"`
	TimeSpent         int    `json:"time_spent"` // minutes
}

// GetOrCreateProgress returns the learner's progress record for a course,
// creating it lazily on first access after enrollment. Module 0 is unlocked
// at creation; all others start locked. The enrollment summary is reconciled
// opportunistically so stale summaries self-heal on read.
func GetOrCreateProgress(userID, courseID uint) (*courseModels.CourseProgress, error) {
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

	reconcileAndSave(userID, courseID, p)
	return p, nil
}

// RecordLectureProgress updates a single lecture's watch/completion state and
// runs the module unlock engine: module completion percentage is recomputed
// against the course structure's lecture count, a newly complete module
// unlocks its successor, and course-level overall progress is refreshed.
// Replaying a submission for an already-completed lecture is a no-op for
// rewards and progress percentages.
func RecordLectureProgress(userID, courseID uint, moduleIdx, lectureIdx int, upd LectureUpdate) (*courseModels.CourseProgress, error) {
	unlock := lockProgress(userID, courseID)
	defer unlock()

	st, err := loadCourseStructure(courseID)
	if err != nil {
		return nil, err
	}

	if moduleIdx < 0 || moduleIdx >= st.moduleCount() ||
		lectureIdx < 0 || lectureIdx >= st.lectureCount(moduleIdx) {
		return nil, ErrInvalidIndex
	}

	p, err := getOrCreateProgressLocked(st, userID, courseID)
	if err != nil {
		return nil, err
	}

	mp := &p.Modules[moduleIdx]
	if !mp.IsUnlocked {
		return nil, ErrPrerequisitesNotMet
	}

	lecture := st.lectures[moduleIdx][lectureIdx]
	lp := &mp.Lectures[lectureIdx]

	// Quiz lectures complete only through a graded submission
	if upd.Completed != nil && *upd.Completed && lecture.Type == "QUIZ" {
		return nil, ErrValidation
	}

	wasCompleted := lp.Completed
	now := time.Now()

	if upd.WatchedPercentage != nil {
		v := *upd.WatchedPercentage
		if v < 0 || v > 100 {
			return nil, ErrValidation
		}
		if v > lp.WatchedPercentage {
			lp.WatchedPercentage = v
		}
	}
	if upd.SubmissionText != "" || upd.SubmissionURL != "" {
		lp.SubmissionText = upd.SubmissionText
		lp.SubmissionURL = upd.SubmissionURL
		lp.SubmittedAt = &now
	}
	if upd.Completed != nil && *upd.Completed && !lp.Completed {
		lp.Completed = true
		if lp.WatchedPercentage < 100 && lecture.Type == "VIDEO" {
			lp.WatchedPercentage = 100
		}
	}
	lp.TimeSpent += upd.TimeSpent
	p.TotalTimeSpent += upd.TimeSpent

	// Resume cursor
	p.CurrentModuleIndex = moduleIdx
	p.CurrentLectureIndex = lectureIdx

	unlocked := recalcModule(st, p, moduleIdx, now)
	recalcOverall(st, p)

	err = database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := saveProgress(tx, p); err != nil {
			return err
		}
		if err := tx.Save(lp).Error; err != nil {
			return err
		}
		if err := tx.Save(mp).Error; err != nil {
			return err
		}
		if unlocked != nil {
			return tx.Save(unlocked).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !wasCompleted && lp.Completed {
		ApplyReward(userID, EventLectureCompleted)
	}
	touchStreak(userID)
	reconcileAndSave(userID, courseID, p)

	return p, nil
}

// getOrCreateProgressLocked loads the progress record, creating or
// back-filling it from the course structure. Caller holds the pair lock.
func getOrCreateProgressLocked(st *courseStructure, userID, courseID uint) (*courseModels.CourseProgress, error) {
	db := database.Database.Db

	// Progress records exist only for enrolled learners
	var enrollment courseModels.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
		First(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	p, err := loadProgress(db, userID, courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return createProgress(st, userID, courseID)
	}
	if err != nil {
		return nil, err
	}

	if err := backfillProgress(st, p); err != nil {
		return nil, err
	}
	return p, nil
}

func loadProgress(db *gorm.DB, userID, courseID uint) (*courseModels.CourseProgress, error) {
	var p courseModels.CourseProgress
	err := db.
		Preload("Modules", func(db *gorm.DB) *gorm.DB {
			return db.Order("module_progresses.module_index asc")
		}).
		Preload("Modules.Lectures", func(db *gorm.DB) *gorm.DB {
			return db.Order("lecture_progresses.lecture_index asc")
		}).
		Preload("FinalTestAttempts", func(db *gorm.DB) *gorm.DB {
			return db.Order("test_attempts.attempt_number asc")
		}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// createProgress seeds a fresh record from the course structure
func createProgress(st *courseStructure, userID, courseID uint) (*courseModels.CourseProgress, error) {
	now := time.Now()

	p := courseModels.CourseProgress{
		UserID:   userID,
		CourseID: courseID,
		Version:  1,
	}
	for i := range st.modules {
		mp := courseModels.ModuleProgress{
			ModuleIndex: i,
			IsUnlocked:  i == 0, // only the first module starts unlocked
		}
		if i == 0 {
			mp.UnlockedAt = &now
		}
		for j := range st.lectures[i] {
			mp.Lectures = append(mp.Lectures, courseModels.LectureProgress{LectureIndex: j})
		}
		p.Modules = append(p.Modules, mp)
	}

	if err := database.Database.Db.Create(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// backfillProgress appends progress rows for modules/lectures added to the
// course after the learner enrolled.
func backfillProgress(st *courseStructure, p *courseModels.CourseProgress) error {
	db := database.Database.Db

	for i := len(p.Modules); i < st.moduleCount(); i++ {
		mp := courseModels.ModuleProgress{
			ProgressID:  p.ID,
			ModuleIndex: i,
		}
		for j := 0; j < st.lectureCount(i); j++ {
			mp.Lectures = append(mp.Lectures, courseModels.LectureProgress{LectureIndex: j})
		}
		if err := db.Create(&mp).Error; err != nil {
			return err
		}
		p.Modules = append(p.Modules, mp)
	}

	for i := range p.Modules {
		mp := &p.Modules[i]
		for j := len(mp.Lectures); j < st.lectureCount(i); j++ {
			lp := courseModels.LectureProgress{
				ModuleProgressID: mp.ID,
				LectureIndex:     j,
			}
			if err := db.Create(&lp).Error; err != nil {
				return err
			}
			mp.Lectures = append(mp.Lectures, lp)
		}
	}
	return nil
}

// recalcModule recomputes the owning module's completion percentage against
// the course structure's lecture count and, when the module newly reaches
// 100%, marks it complete and unlocks the next module. Unlocks are never
// reverted. The mutation is in-memory only: the newly unlocked module row is
// returned (nil when nothing unlocked) so the caller persists it in the same
// transaction as the rest of the write, keeping "module i+1 unlocked only
// after module i completed" true even when the save fails and rolls back.
func recalcModule(st *courseStructure, p *courseModels.CourseProgress, moduleIdx int, now time.Time) *courseModels.ModuleProgress {
	mp := &p.Modules[moduleIdx]

	total := st.lectureCount(moduleIdx)
	completed := 0
	for i := range mp.Lectures {
		if i < total && mp.Lectures[i].Completed {
			completed++
		}
	}

	if total > 0 {
		mp.CompletionPercentage = float64(completed) / float64(total) * 100
	} else {
		mp.CompletionPercentage = 0
	}

	if mp.CompletionPercentage >= 100 && !mp.Completed {
		mp.Completed = true
		mp.CompletedAt = &now

		if next := moduleIdx + 1; next < st.moduleCount() && next < len(p.Modules) {
			nmp := &p.Modules[next]
			if !nmp.IsUnlocked {
				nmp.IsUnlocked = true
				nmp.UnlockedAt = &now
				return nmp
			}
		}
	}
	return nil
}

// recalcOverall recomputes course-level overall progress from the completed
// module count. The final test is deliberately excluded: overall progress can
// read 100 while IsCompleted is still false.
func recalcOverall(st *courseStructure, p *courseModels.CourseProgress) {
	total := st.moduleCount()
	if total == 0 {
		p.OverallProgress = 0
		return
	}
	completed := 0
	for i := range p.Modules {
		if i < total && p.Modules[i].Completed {
			completed++
		}
	}
	p.OverallProgress = float64(completed) / float64(total) * 100
}

// allModulesCompleted reports whether every module in the course structure is
// complete for this learner.
func allModulesCompleted(st *courseStructure, p *courseModels.CourseProgress) bool {
	if st.moduleCount() == 0 {
		return false
	}
	if len(p.Modules) < st.moduleCount() {
		return false
	}
	for i := 0; i < st.moduleCount(); i++ {
		if !p.Modules[i].Completed {
			return false
		}
	}
	return true
}

// saveProgress writes the record's scalar fields guarded by the optimistic
// version token. A lost race returns ErrConflict and writes nothing.
func saveProgress(tx *gorm.DB, p *courseModels.CourseProgress) error {
	res := tx.Model(&courseModels.CourseProgress{}).
		Where("id = ? AND version = ?", p.ID, p.Version).
		Updates(map[string]interface{}{
			"current_module_index":    p.CurrentModuleIndex,
			"current_lecture_index":   p.CurrentLectureIndex,
			"overall_progress":        p.OverallProgress,
			"is_completed":            p.IsCompleted,
			"completed_at":            p.CompletedAt,
			"final_test_passed":       p.FinalTestPassed,
			"final_test_score":        p.FinalTestScore,
			"final_test_completed_at": p.FinalTestCompletedAt,
			"certificate_generated":   p.CertificateGenerated,
			"certificate_id":          p.CertificateID,
			"total_time_spent":        p.TotalTimeSpent,
			"version":                 p.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	p.Version++
	return nil
}
