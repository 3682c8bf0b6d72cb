package progress

import (
	"testing"

	courseModels "lms/models/course"
)

func TestGradeFromScore(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{100, "A+"},
		{97, "A+"},
		{96, "A"},
		{93, "A"},
		{92, "A-"},
		{90, "A-"},
		{89, "B+"},
		{87, "B+"},
		{85, "B"},
		{83, "B"},
		{80, "B-"},
		{77, "C+"},
		{73, "C"},
		{70, "C-"},
		{69, "D"},
		{60, "D"},
		{59, "F"},
		{0, "F"},
	}

	for _, tt := range tests {
		if got := GradeFromScore(tt.score); got != tt.want {
			t.Errorf("GradeFromScore(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func intPtr(v int) *int { return &v }

func TestIsCorrect(t *testing.T) {
	mcq := courseModels.Question{Type: "MCQ", CorrectOption: 2}
	short := courseModels.Question{Type: "SHORT_ANSWER", CorrectAnswer: "Goroutine"}

	tests := []struct {
		name     string
		question courseModels.Question
		answer   AnswerInput
		want     bool
	}{
		{"mcq-correct-index", mcq, AnswerInput{SelectedOption: intPtr(2)}, true},
		{"mcq-wrong-index", mcq, AnswerInput{SelectedOption: intPtr(0)}, false},
		{"mcq-unanswered", mcq, AnswerInput{}, false},
		{"short-exact", short, AnswerInput{AnswerText: "Goroutine"}, true},
		{"short-case-insensitive", short, AnswerInput{AnswerText: "goroutine"}, true},
		{"short-trimmed", short, AnswerInput{AnswerText: "  goroutine \t"}, true},
		{"short-wrong", short, AnswerInput{AnswerText: "thread"}, false},
		{"short-empty", short, AnswerInput{AnswerText: "   "}, false},
		{"short-no-partial-credit", short, AnswerInput{AnswerText: "a goroutine"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isCorrect(tt.question, tt.answer); got != tt.want {
				t.Errorf("isCorrect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGradeAnswers(t *testing.T) {
	questions := []courseModels.Question{
		{Model: modelWithID(1), Type: "MCQ", CorrectOption: 1, Points: 10},
		{Model: modelWithID(2), Type: "MCQ", CorrectOption: 0, Points: 7},
		{Model: modelWithID(3), Type: "SHORT_ANSWER", CorrectAnswer: "mutex", Points: 3},
	}

	answers := []AnswerInput{
		{QuestionID: 1, SelectedOption: intPtr(1)}, // correct
		{QuestionID: 2, SelectedOption: intPtr(1)}, // wrong
		{QuestionID: 3, AnswerText: " MUTEX "},     // correct after trim/fold
	}

	results, earned, total := gradeAnswers(questions, answers)

	if total != 20 {
		t.Errorf("total points = %d, want 20", total)
	}
	if earned != 13 {
		t.Errorf("earned points = %d, want 13", earned)
	}
	if len(results) != 3 {
		t.Fatalf("results length = %d, want 3", len(results))
	}
	wantCorrect := []bool{true, false, true}
	for i, r := range results {
		if r.Correct != wantCorrect[i] {
			t.Errorf("results[%d].Correct = %v, want %v", i, r.Correct, wantCorrect[i])
		}
	}
}

func TestGradeAnswersMissingAnswerScoresZero(t *testing.T) {
	questions := []courseModels.Question{
		{Model: modelWithID(1), Type: "MCQ", CorrectOption: 0, Points: 5},
	}

	results, earned, total := gradeAnswers(questions, nil)

	if earned != 0 || total != 5 {
		t.Errorf("earned/total = %d/%d, want 0/5", earned, total)
	}
	if results[0].Correct {
		t.Error("unanswered question graded as correct")
	}
}

func TestGradeAnswersZeroPointQuestionCountsAsOne(t *testing.T) {
	questions := []courseModels.Question{
		{Model: modelWithID(1), Type: "MCQ", CorrectOption: 0, Points: 0},
	}

	_, earned, total := gradeAnswers(questions, []AnswerInput{{QuestionID: 1, SelectedOption: intPtr(0)}})

	if total != 1 || earned != 1 {
		t.Errorf("earned/total = %d/%d, want 1/1", earned, total)
	}
}
