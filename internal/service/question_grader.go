package service

import (
	"encoding/json"
	"regexp"
	"strings"

	"lms_backend/internal/config"
	"lms_backend/internal/model"
)

// QuestionGrader scores one submitted answer against a question's key.
// autogradable reports whether the grade is authoritative; when false the
// question is deferred to manual grading and grade is ignored.
type QuestionGrader interface {
	Grade(q *model.Question, answer string, cfg *config.QuizConfig) (grade float64, autogradable bool)
}

// defaultGraders maps each question type to its grader. New types plug in
// through GradingService.RegisterGrader without touching the engine.
func defaultGraders() map[model.QuestionType]QuestionGrader {
	return map[model.QuestionType]QuestionGrader{
		model.MultipleChoice: choiceGrader{},
		model.Boolean:        booleanGrader{},
		model.GapFill:        gapFillGrader{},
		model.SingleLine:     manualGrader{},
		model.MultiLine:      manualGrader{},
		model.FileUpload:     manualGrader{},
	}
}

// choiceGrader awards the full grade iff the submitted answer set equals the
// configured right-answer set exactly.
type choiceGrader struct{}

func (choiceGrader) Grade(q *model.Question, answer string, _ *config.QuizConfig) (float64, bool) {
	right := answerSet(q.RightAnswers)
	submitted := submittedSet(answer)
	if len(right) == 0 || len(right) != len(submitted) {
		return 0, true
	}
	for v := range right {
		if !submitted[v] {
			return 0, true
		}
	}
	return q.Grade, true
}

type booleanGrader struct{}

func (booleanGrader) Grade(q *model.Question, answer string, _ *config.QuizConfig) (float64, bool) {
	key := strings.ToLower(strings.TrimSpace(q.Answer))
	if key != "" && key == strings.ToLower(strings.TrimSpace(answer)) {
		return q.Grade, true
	}
	return 0, true
}

// gapFillGrader compares the submitted answer to the gap of a
// "prefix||gap||suffix" key. The baseline is exact string comparison,
// case-insensitive unless configured otherwise; regex matching only applies
// when the question explicitly opts in and its gap compiles as a pattern.
type gapFillGrader struct{}

func (gapFillGrader) Grade(q *model.Question, answer string, cfg *config.QuizConfig) (float64, bool) {
	gap := gapOf(q.Answer)
	if gap == "" {
		return 0, true
	}
	answer = strings.TrimSpace(answer)

	if q.GapIsPattern {
		if re, err := regexp.Compile(gap); err == nil {
			if re.MatchString(answer) {
				return q.Grade, true
			}
			return 0, true
		}
		// Invalid pattern: fall through to plain comparison.
	}

	if cfg != nil && cfg.GapCaseSensitive {
		if answer == gap {
			return q.Grade, true
		}
		return 0, true
	}
	if strings.EqualFold(answer, gap) {
		return q.Grade, true
	}
	return 0, true
}

// manualGrader defers to human input.
type manualGrader struct{}

func (manualGrader) Grade(_ *model.Question, _ string, _ *config.QuizConfig) (float64, bool) {
	return 0, false
}

func gapOf(key string) string {
	parts := strings.Split(key, "||")
	if len(parts) == 3 {
		return strings.TrimSpace(parts[1])
	}
	return strings.TrimSpace(key)
}

// answerSet decodes a JSON string array key into a normalized set. A bare
// string key becomes a one-element set.
func answerSet(key string) map[string]bool {
	set := make(map[string]bool)
	var values []string
	if err := json.Unmarshal([]byte(key), &values); err == nil {
		for _, v := range values {
			if v = strings.TrimSpace(v); v != "" {
				set[v] = true
			}
		}
		return set
	}
	if v := strings.TrimSpace(key); v != "" {
		set[v] = true
	}
	return set
}

// submittedSet accepts either a JSON array of selections or a single bare
// value, the two shapes the HTTP layer submits.
func submittedSet(answer string) map[string]bool {
	return answerSet(answer)
}
