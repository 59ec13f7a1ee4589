package service

import (
	"testing"

	"lms_backend/internal/config"
	"lms_backend/internal/model"
)

func TestChoiceGraderSetEquality(t *testing.T) {
	q := &model.Question{
		Type:         model.MultipleChoice,
		Grade:        2,
		RightAnswers: `["a","b"]`,
		WrongAnswers: `["c","d"]`,
	}
	tests := []struct {
		name   string
		answer string
		want   float64
	}{
		{"exact set", `["a","b"]`, 2},
		{"order independent", `["b","a"]`, 2},
		{"missing one", `["a"]`, 0},
		{"extra wrong pick", `["a","b","c"]`, 0},
		{"all wrong", `["c","d"]`, 0},
		{"empty answer", ``, 0},
	}
	var g choiceGrader
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, auto := g.Grade(q, tt.answer, nil)
			if !auto {
				t.Fatal("choice grading must always be automatic")
			}
			if got != tt.want {
				t.Errorf("grade = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChoiceGraderSingleSelection(t *testing.T) {
	q := &model.Question{
		Type:         model.MultipleChoice,
		Grade:        1,
		RightAnswers: `["yes"]`,
		WrongAnswers: `["no"]`,
	}
	var g choiceGrader
	// The HTTP layer may submit a bare value instead of a JSON array.
	if got, _ := g.Grade(q, "yes", nil); got != 1 {
		t.Errorf("bare value grade = %v, want 1", got)
	}
	if got, _ := g.Grade(q, "no", nil); got != 0 {
		t.Errorf("wrong bare value grade = %v, want 0", got)
	}
}

func TestBooleanGrader(t *testing.T) {
	q := &model.Question{Type: model.Boolean, Grade: 1, Answer: "true"}
	var g booleanGrader
	tests := []struct {
		answer string
		want   float64
	}{
		{"true", 1},
		{"True", 1},
		{" TRUE ", 1},
		{"false", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got, _ := g.Grade(q, tt.answer, nil); got != tt.want {
			t.Errorf("Grade(%q) = %v, want %v", tt.answer, got, tt.want)
		}
	}
}

func TestGapFillGrader(t *testing.T) {
	var g gapFillGrader
	cfg := &config.QuizConfig{}
	sensitive := &config.QuizConfig{GapCaseSensitive: true}

	tests := []struct {
		name   string
		q      model.Question
		answer string
		cfg    *config.QuizConfig
		want   float64
	}{
		{
			name:   "exact match",
			q:      model.Question{Grade: 1, Answer: "The capital is ||Paris|| today"},
			answer: "Paris",
			cfg:    cfg,
			want:   1,
		},
		{
			name:   "case insensitive by default",
			q:      model.Question{Grade: 1, Answer: "The capital is ||Paris|| today"},
			answer: "paris",
			cfg:    cfg,
			want:   1,
		},
		{
			name:   "case sensitive when configured",
			q:      model.Question{Grade: 1, Answer: "The capital is ||Paris|| today"},
			answer: "paris",
			cfg:    sensitive,
			want:   0,
		},
		{
			name:   "whitespace trimmed",
			q:      model.Question{Grade: 1, Answer: "x ||42|| y"},
			answer: "  42  ",
			cfg:    cfg,
			want:   1,
		},
		{
			name:   "wrong answer",
			q:      model.Question{Grade: 1, Answer: "x ||42|| y"},
			answer: "41",
			cfg:    cfg,
			want:   0,
		},
		{
			name:   "regex when opted in",
			q:      model.Question{Grade: 2, Answer: "pick ||^(cat|dog)$|| one", GapIsPattern: true},
			answer: "dog",
			cfg:    cfg,
			want:   2,
		},
		{
			name:   "regex rejects non-match",
			q:      model.Question{Grade: 2, Answer: "pick ||^(cat|dog)$|| one", GapIsPattern: true},
			answer: "bird",
			cfg:    cfg,
			want:   0,
		},
		{
			name:   "invalid pattern falls back to plain comparison",
			q:      model.Question{Grade: 1, Answer: "x ||((|| y", GapIsPattern: true},
			answer: "((",
			cfg:    cfg,
			want:   1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, auto := g.Grade(&tt.q, tt.answer, tt.cfg)
			if !auto {
				t.Fatal("gap-fill grading must always be automatic")
			}
			if got != tt.want {
				t.Errorf("grade = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGapOf(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"prefix||gap||suffix", "gap"},
		{"|| just the gap ||", "just the gap"},
		{"no delimiters", "no delimiters"},
		{"a||b", "a||b"},
	}
	for _, tt := range tests {
		if got := gapOf(tt.key); got != tt.want {
			t.Errorf("gapOf(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestManualGraderDefers(t *testing.T) {
	var g manualGrader
	q := &model.Question{Type: model.MultiLine, Grade: 5}
	if _, auto := g.Grade(q, "anything", nil); auto {
		t.Error("manual grader must never report an automatic grade")
	}
}

func TestRegisterGraderOverride(t *testing.T) {
	e := newEngineEnv(t)
	course := e.seedCourse(t)
	lesson := e.seedLesson(t, course.ID, nil)
	quiz := e.seedQuiz(t, lesson.ID, nil)

	essay := e.seedManualQuestion(t, 2)
	e.attachQuestion(t, quiz.ID, essay.ID, 0)

	e.grading.RegisterGrader(model.MultiLine, fullMarksGrader{})

	result, err := e.grading.SubmitQuiz(quiz.ID, 1, map[uint]string{essay.ID: "anything"})
	if err != nil {
		t.Fatalf("SubmitQuiz: %v", err)
	}
	if !result.Autogradable {
		t.Fatal("registered grader should make the quiz autogradable")
	}
	if result.Percentage != 100 {
		t.Errorf("percentage = %v, want 100", result.Percentage)
	}
}

type fullMarksGrader struct{}

func (fullMarksGrader) Grade(q *model.Question, _ string, _ *config.QuizConfig) (float64, bool) {
	return q.Grade, true
}
