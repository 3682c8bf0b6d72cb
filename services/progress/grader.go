package progress

import (
	"strings"
	"time"

	"lms/database"
	courseModels "lms/models/course"

	"gorm.io/gorm"
)

// AnswerInput is one submitted answer, matched to its question by ID.
// SelectedOption is a pointer so an unanswered question is distinguishable
// from option 0.
type AnswerInput struct {
	QuestionID     uint   `json:"question_id"`
	SelectedOption *int   `json:"selected_option"` // MCQ / TRUE_FALSE
	AnswerText     string `json:"answer_text"`     // SHORT_ANSWER
}

// AnswerResult is the per-question grading feedback
type AnswerResult struct {
	QuestionID     uint   `json:"question_id"`
	SelectedOption *int   `json:"selected_option,omitempty"`
	AnswerText     string `json:"answer_text,omitempty"`
	Correct        bool   `json:"correct"`
	PointsEarned   int    `json:"points_earned"`
	PointsPossible int    `json:"points_possible"`
}

// QuizResult is returned from a lecture quiz submission
type QuizResult struct {
	Score        float64                      `json:"score"` // percentage
	Passed       bool                         `json:"passed"`
	Results      []AnswerResult               `json:"results"`
	AttemptsUsed int                          `json:"attempts_used"`
	Progress     *courseModels.CourseProgress `json:"progress"`
}

// SubmitQuiz grades a lecture quiz submission against the lecture's question
// bank. The lecture is marked completed when the percentage reaches the
// lecture's passing score; a failed attempt increments the attempt counter
// and leaves the lecture incomplete, permitting resubmission up to the
// lecture's own attempt cap. Resubmitting an already-passed quiz re-grades
// for feedback but changes no state and awards nothing.
func SubmitQuiz(userID, courseID uint, moduleIdx, lectureIdx int, answers []AnswerInput) (*QuizResult, error) {
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

	lecture := st.lectures[moduleIdx][lectureIdx]
	if lecture.Type != "QUIZ" {
		return nil, ErrValidation
	}
	if len(answers) == 0 {
		return nil, ErrValidation
	}

	questions, err := lectureQuestions(lecture.ID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, ErrValidation
	}

	p, err := getOrCreateProgressLocked(st, userID, courseID)
	if err != nil {
		return nil, err
	}

	mp := &p.Modules[moduleIdx]
	if !mp.IsUnlocked {
		return nil, ErrPrerequisitesNotMet
	}
	lp := &mp.Lectures[lectureIdx]

	results, earned, total := gradeAnswers(questions, answers)
	percentage := float64(0)
	if total > 0 {
		percentage = float64(earned) / float64(total) * 100
	}
	passed := percentage >= lecture.PassingScore

	// Already passed: return feedback only, no state change
	if lp.Completed {
		return &QuizResult{
			Score:        percentage,
			Passed:       true,
			Results:      results,
			AttemptsUsed: lp.Attempts,
			Progress:     p,
		}, nil
	}

	if lecture.MaxAttempts > 0 && lp.Attempts >= lecture.MaxAttempts {
		return nil, ErrAttemptsExhausted
	}

	now := time.Now()
	lp.Attempts++
	lp.Score = &percentage
	lp.SubmittedAt = &now
	if passed {
		lp.Completed = true
		lp.WatchedPercentage = 100
	}

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

	if passed {
		ApplyReward(userID, EventQuizPassed)
	}
	touchStreak(userID)
	reconcileAndSave(userID, courseID, p)

	return &QuizResult{
		Score:        percentage,
		Passed:       passed,
		Results:      results,
		AttemptsUsed: lp.Attempts,
		Progress:     p,
	}, nil
}

// gradeAnswers compares each submitted answer to its question's correct
// answer. MCQ and TRUE_FALSE grade by option index equality; SHORT_ANSWER by
// case-insensitive, whitespace-trimmed string equality. No partial credit or
// fuzzy matching.
func gradeAnswers(questions []courseModels.Question, answers []AnswerInput) (results []AnswerResult, earned, total int) {
	byQuestion := make(map[uint]AnswerInput, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a
	}

	results = make([]AnswerResult, 0, len(questions))
	for _, q := range questions {
		points := q.Points
		if points <= 0 {
			points = 1
		}
		total += points

		r := AnswerResult{QuestionID: q.ID, PointsPossible: points}
		if a, ok := byQuestion[q.ID]; ok {
			r.SelectedOption = a.SelectedOption
			r.AnswerText = a.AnswerText
			r.Correct = isCorrect(q, a)
		}
		if r.Correct {
			r.PointsEarned = points
			earned += points
		}
		results = append(results, r)
	}
	return results, earned, total
}

func isCorrect(q courseModels.Question, a AnswerInput) bool {
	switch q.Type {
	case "SHORT_ANSWER":
		submitted := strings.TrimSpace(a.AnswerText)
		expected := strings.TrimSpace(q.CorrectAnswer)
		return submitted != "" && strings.EqualFold(submitted, expected)
	default: // MCQ, TRUE_FALSE
		return a.SelectedOption != nil && *a.SelectedOption == q.CorrectOption
	}
}
