package progress

import (
	"errors"
	"lms/database"
	courseModels "lms/models/course"

	"gorm.io/gorm"
)

// courseStructure is a read-only snapshot of a course's ordered modules and
// lectures plus the final test configuration. The core never mutates it.
type courseStructure struct {
	course    courseModels.Course
	modules   []courseModels.CourseModule
	lectures  [][]courseModels.Lecture // index-aligned with modules
	finalTest *courseModels.FinalTest  // nil when the course has none
}

func (s *courseStructure) moduleCount() int { return len(s.modules) }

func (s *courseStructure) lectureCount(moduleIdx int) int {
	if moduleIdx < 0 || moduleIdx >= len(s.lectures) {
		return 0
	}
	return len(s.lectures[moduleIdx])
}

func (s *courseStructure) finalTestEnabled() bool {
	return s.finalTest != nil && s.finalTest.Enabled
}

// loadCourseStructure reads the ordered course structure snapshot
func loadCourseStructure(courseID uint) (*courseStructure, error) {
	db := database.Database.Db

	st := &courseStructure{}
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&st.course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("order_index asc").Find(&st.modules).Error; err != nil {
		return nil, err
	}

	st.lectures = make([][]courseModels.Lecture, len(st.modules))
	for i, mod := range st.modules {
		var lectures []courseModels.Lecture
		if err := db.Where("module_id = ? AND is_deleted = ? AND is_published = ?", mod.ID, false, true).
			Order("order_index asc").Find(&lectures).Error; err != nil {
			return nil, err
		}
		st.lectures[i] = lectures
	}

	var ft courseModels.FinalTest
	err := db.Where("course_id = ? AND is_deleted = ?", courseID, false).First(&ft).Error
	if err == nil {
		st.finalTest = &ft
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return st, nil
}

// lectureQuestions loads the question bank for a quiz lecture
func lectureQuestions(lectureID uint) ([]courseModels.Question, error) {
	var questions []courseModels.Question
	err := database.Database.Db.
		Where("lecture_id = ? AND is_deleted = ?", lectureID, false).
		Order("order_index asc").Find(&questions).Error
	return questions, err
}

// finalTestQuestions loads the question bank for a course final test
func finalTestQuestions(finalTestID uint) ([]courseModels.Question, error) {
	var questions []courseModels.Question
	err := database.Database.Db.
		Where("final_test_id = ? AND is_deleted = ?", finalTestID, false).
		Order("order_index asc").Find(&questions).Error
	return questions, err
}
