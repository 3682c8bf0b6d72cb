package progress

import (
	"fmt"
	"sync/atomic"
	"testing"

	"lms/config"
	"lms/database"
	"lms/models"
	courseModels "lms/models/course"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int64

func modelWithID(id uint) gorm.Model { return gorm.Model{ID: id} }

// setupTestDB installs a fresh in-memory database into the global
// database.Database instance for one test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	if config.AppConfig == nil {
		config.LoadConfig()
	}

	n := atomic.AddInt64(&testDBCounter, 1)
	dsn := fmt.Sprintf("file:progresstest%d?mode=memory&cache=shared", n)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get test database handle: %v", err)
	}
	// A single connection keeps the in-memory database alive for the test
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(database.Models()...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	database.Database = database.DbInstance{Db: db}
	t.Cleanup(func() { sqlDB.Close() })

	return db
}

func seedUser(t *testing.T, name string) *models.User {
	t.Helper()
	user := &models.User{
		Name:     name,
		Email:    fmt.Sprintf("%s@example.com", name),
		Password: "hashed",
	}
	if err := database.Database.Db.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

type seededCourse struct {
	course   *courseModels.Course
	modules  []courseModels.CourseModule
	lectures [][]courseModels.Lecture
}

// seedCourse creates a course whose modules contain lectures of the given
// types ("VIDEO", "TEXT", "QUIZ", "ASSIGNMENT"), one inner slice per module.
func seedCourse(t *testing.T, title string, moduleLectures [][]string) *seededCourse {
	t.Helper()
	db := database.Database.Db

	sc := &seededCourse{
		course: &courseModels.Course{
			Title:       title,
			Instructor:  "Jane Doe",
			Status:      "ACTIVE",
			IsPublished: true,
		},
	}
	if err := db.Create(sc.course).Error; err != nil {
		t.Fatalf("failed to seed course: %v", err)
	}

	for i, lectureTypes := range moduleLectures {
		mod := courseModels.CourseModule{
			CourseID:   sc.course.ID,
			Title:      fmt.Sprintf("Module %d", i+1),
			OrderIndex: i,
		}
		if err := db.Create(&mod).Error; err != nil {
			t.Fatalf("failed to seed module: %v", err)
		}
		sc.modules = append(sc.modules, mod)

		var lectures []courseModels.Lecture
		for j, lt := range lectureTypes {
			lecture := courseModels.Lecture{
				ModuleID:     mod.ID,
				Title:        fmt.Sprintf("Lecture %d.%d", i+1, j+1),
				Type:         lt,
				OrderIndex:   j,
				PassingScore: 70,
				IsPublished:  true,
			}
			if err := db.Create(&lecture).Error; err != nil {
				t.Fatalf("failed to seed lecture: %v", err)
			}
			lectures = append(lectures, lecture)
		}
		sc.lectures = append(sc.lectures, lectures)
	}

	return sc
}

func seedFinalTest(t *testing.T, courseID uint, passingScore, minCertScore float64, maxAttempts int) *courseModels.FinalTest {
	t.Helper()
	ft := &courseModels.FinalTest{
		CourseID:            courseID,
		Enabled:             true,
		PassingScore:        passingScore,
		MinCertificateScore: minCertScore,
		TimeLimit:           60,
		MaxAttempts:         maxAttempts,
	}
	if err := database.Database.Db.Create(ft).Error; err != nil {
		t.Fatalf("failed to seed final test: %v", err)
	}
	return ft
}

// seedFinalQuestions creates one MCQ per points value, correct option 1
func seedFinalQuestions(t *testing.T, finalTestID uint, points []int) []courseModels.Question {
	t.Helper()
	var questions []courseModels.Question
	for i, p := range points {
		q := courseModels.Question{
			FinalTestID:   &finalTestID,
			Type:          "MCQ",
			Prompt:        fmt.Sprintf("Final question %d", i+1),
			Options:       datatypes.JSON(`["wrong","right","also wrong"]`),
			CorrectOption: 1,
			Points:        p,
			OrderIndex:    i,
		}
		if err := database.Database.Db.Create(&q).Error; err != nil {
			t.Fatalf("failed to seed final question: %v", err)
		}
		questions = append(questions, q)
	}
	return questions
}

func seedQuizQuestions(t *testing.T, lectureID uint, count int) []courseModels.Question {
	t.Helper()
	var questions []courseModels.Question
	for i := 0; i < count; i++ {
		id := lectureID
		q := courseModels.Question{
			LectureID:     &id,
			Type:          "MCQ",
			Prompt:        fmt.Sprintf("Quiz question %d", i+1),
			Options:       datatypes.JSON(`["a","b","c"]`),
			CorrectOption: 0,
			Points:        1,
			OrderIndex:    i,
		}
		if err := database.Database.Db.Create(&q).Error; err != nil {
			t.Fatalf("failed to seed quiz question: %v", err)
		}
		questions = append(questions, q)
	}
	return questions
}

func enrollUser(t *testing.T, userID, courseID uint) *courseModels.Enrollment {
	t.Helper()
	enrollment := &courseModels.Enrollment{
		UserID:   userID,
		CourseID: courseID,
		Status:   "ACTIVE",
	}
	if err := database.Database.Db.Create(enrollment).Error; err != nil {
		t.Fatalf("failed to seed enrollment: %v", err)
	}
	return enrollment
}

// completeAllLectures drives every non-quiz lecture to completed and passes
// every quiz lecture with all-correct answers.
func completeAllLectures(t *testing.T, userID uint, sc *seededCourse) {
	t.Helper()
	done := true
	for i := range sc.lectures {
		for j, lecture := range sc.lectures[i] {
			if lecture.Type == "QUIZ" {
				questions := lectureQuestionsOrFatal(t, lecture.ID)
				answers := make([]AnswerInput, len(questions))
				for k, q := range questions {
					opt := q.CorrectOption
					answers[k] = AnswerInput{QuestionID: q.ID, SelectedOption: &opt}
				}
				if _, err := SubmitQuiz(userID, sc.course.ID, i, j, answers); err != nil {
					t.Fatalf("failed to pass quiz %d.%d: %v", i, j, err)
				}
				continue
			}
			if _, err := RecordLectureProgress(userID, sc.course.ID, i, j, LectureUpdate{Completed: &done}); err != nil {
				t.Fatalf("failed to complete lecture %d.%d: %v", i, j, err)
			}
		}
	}
}

func lectureQuestionsOrFatal(t *testing.T, lectureID uint) []courseModels.Question {
	t.Helper()
	questions, err := lectureQuestions(lectureID)
	if err != nil {
		t.Fatalf("failed to load quiz questions: %v", err)
	}
	return questions
}
