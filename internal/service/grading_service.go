package service

import (
	"encoding/json"
	"math"
	"time"

	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
)

// GradeResult is the typed outcome of grading a quiz attempt. Autogradable
// false is a defined terminal state, not an error: the attempt stays
// ungraded until a grader supplies the remaining question grades.
type GradeResult struct {
	QuestionGrades map[uint]float64  `json:"questionGrades"`
	Total          float64           `json:"total"`
	TotalPossible  float64           `json:"totalPossible"`
	Percentage     float64           `json:"percentage"`
	Autogradable   bool              `json:"autogradable"`
	LessonStatus   model.LessonState `json:"lessonStatus"`
}

type GradingService struct {
	QuizRepo     *repository.QuizRepository
	LessonRepo   *repository.LessonRepository
	AttemptRepo  *repository.AttemptRepository
	StatusRepo   *repository.StatusRepository
	Pool         *QuestionPoolService
	Progress     *ProgressService
	Prerequisite *PrerequisiteService
	Cfg          *config.Config

	graders map[model.QuestionType]QuestionGrader
}

func NewGradingService(
	quizRepo *repository.QuizRepository,
	lessonRepo *repository.LessonRepository,
	attemptRepo *repository.AttemptRepository,
	statusRepo *repository.StatusRepository,
	pool *QuestionPoolService,
	progress *ProgressService,
	prerequisite *PrerequisiteService,
	cfg *config.Config,
) *GradingService {
	return &GradingService{
		QuizRepo:     quizRepo,
		LessonRepo:   lessonRepo,
		AttemptRepo:  attemptRepo,
		StatusRepo:   statusRepo,
		Pool:         pool,
		Progress:     progress,
		Prerequisite: prerequisite,
		Cfg:          cfg,
		graders:      defaultGraders(),
	}
}

// RegisterGrader adds or replaces the grader for a question type.
func (s *GradingService) RegisterGrader(t model.QuestionType, g QuestionGrader) {
	s.graders[t] = g
}

// QuotientAsPercentage converts numerator/denominator to a percentage
// rounded half-up to the given number of decimal places. The denominator is
// floored at 1 so an empty quiz grades to 0 instead of dividing by zero.
func QuotientAsPercentage(numerator, denominator float64, precision int) float64 {
	if denominator < 1 {
		denominator = 1
	}
	shift := math.Pow(10, float64(precision))
	return math.Round(100*numerator/denominator*shift) / shift
}

// SubmitQuiz grades a learner's submitted answers. Answers for questions
// outside the resolved set are ignored; missing answers contribute 0. When
// any resolved question needs human judgement the quiz is left ungraded with
// the auto-computed grades stored as defaults for the grader. A lesson whose
// prerequisite chain is incomplete cannot be submitted against.
func (s *GradingService) SubmitQuiz(quizID, userID uint, answers map[uint]string) (*GradeResult, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		return nil, err
	}

	unlocked, err := s.Prerequisite.IsLessonUnlocked(quiz.LessonID, userID)
	if err != nil {
		return nil, err
	}
	if !unlocked {
		return nil, util.ErrLessonLocked
	}

	questions, err := s.Pool.Resolve(quizID, userID)
	if err != nil {
		return nil, err
	}

	attempt, err := s.AttemptRepo.FindByQuizAndUser(quizID, userID)
	if err != nil {
		return nil, err
	}

	grades := make(map[uint]float64)
	autogradable := quiz.GradeType == model.GradeAuto
	for _, q := range questions {
		answer, answered := answers[q.ID]

		// Zero-grade questions never contribute and never block
		// autogradability, whatever their type.
		if q.Grade == 0 {
			grades[q.ID] = 0
			continue
		}

		grader, ok := s.graders[q.Type]
		if !ok {
			autogradable = false
			continue
		}
		if !answered {
			answer = ""
		}
		grade, auto := grader.Grade(&q, answer, &s.Cfg.Quiz)
		if !auto {
			autogradable = false
			continue
		}
		grades[q.ID] = grade
	}

	now := time.Now()
	attempt.Submitted = true
	attempt.SubmittedAt = &now
	attempt.NeedsManual = !autogradable
	if encoded, err := json.Marshal(answersInSet(answers, questions)); err == nil {
		attempt.Answers = string(encoded)
	}
	if encoded, err := json.Marshal(grades); err == nil {
		attempt.QuestionGrades = string(encoded)
	}
	if err := s.AttemptRepo.Save(attempt); err != nil {
		return nil, err
	}

	if !autogradable {
		if err := s.setLessonStatus(quiz, userID, model.LessonUngraded, nil); err != nil {
			return nil, err
		}
		return &GradeResult{
			QuestionGrades: grades,
			Autogradable:   false,
			LessonStatus:   model.LessonUngraded,
		}, nil
	}

	return s.finalize(quiz, userID, questions, grades)
}

// SaveManualGrades merges a grader's per-question input with the stored auto
// grades and finalizes the quiz. Entries for questions outside the resolved
// set are ignored.
func (s *GradingService) SaveManualGrades(quizID, userID uint, manual map[uint]float64) (*GradeResult, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		return nil, err
	}
	attempt, err := s.AttemptRepo.FindByQuizAndUser(quizID, userID)
	if err != nil {
		return nil, err
	}
	if !attempt.Submitted {
		return nil, util.ErrNotSubmitted
	}

	questions, err := s.Pool.Resolve(quizID, userID)
	if err != nil {
		return nil, err
	}
	inSet := make(map[uint]*model.Question, len(questions))
	for i := range questions {
		inSet[questions[i].ID] = &questions[i]
	}

	grades := make(map[uint]float64)
	if attempt.QuestionGrades != "" {
		json.Unmarshal([]byte(attempt.QuestionGrades), &grades)
	}
	for id, grade := range manual {
		q, ok := inSet[id]
		if !ok {
			continue
		}
		if grade < 0 {
			grade = 0
		}
		if grade > q.Grade {
			grade = q.Grade
		}
		grades[id] = grade
	}

	attempt.NeedsManual = false
	if encoded, err := json.Marshal(grades); err == nil {
		attempt.QuestionGrades = string(encoded)
	}
	if err := s.AttemptRepo.Save(attempt); err != nil {
		return nil, err
	}

	return s.finalize(quiz, userID, questions, grades)
}

func (s *GradingService) ListAttemptsNeedingManual(quizID uint) ([]model.QuizAttempt, error) {
	return s.AttemptRepo.ListNeedingManual(quizID)
}

// finalize computes the quiz percentage from the full per-question grade
// map, derives the lesson status and refreshes course progress.
func (s *GradingService) finalize(quiz *model.Quiz, userID uint, questions []model.Question, grades map[uint]float64) (*GradeResult, error) {
	var total, possible float64
	for _, q := range questions {
		total += grades[q.ID]
		possible += q.Grade
	}
	percentage := QuotientAsPercentage(total, possible, 2)

	state := model.LessonGraded
	if quiz.PassRequired {
		if percentage >= quiz.Passmark {
			state = model.LessonPassed
		} else {
			state = model.LessonFailed
		}
	}

	if err := s.setLessonStatus(quiz, userID, state, &percentage); err != nil {
		return nil, err
	}

	return &GradeResult{
		QuestionGrades: grades,
		Total:          total,
		TotalPossible:  possible,
		Percentage:     percentage,
		Autogradable:   true,
		LessonStatus:   state,
	}, nil
}

func (s *GradingService) setLessonStatus(quiz *model.Quiz, userID uint, state model.LessonState, grade *float64) error {
	if err := s.StatusRepo.UpsertLessonStatus(quiz.LessonID, userID, state, grade); err != nil {
		return err
	}
	lesson, err := s.LessonRepo.FindByID(quiz.LessonID)
	if err != nil {
		return err
	}
	return s.Progress.RefreshCourseStatus(lesson.CourseID, userID)
}

// answersInSet drops submitted answers for questions that are not part of
// the resolved set before they are persisted.
func answersInSet(answers map[uint]string, questions []model.Question) map[uint]string {
	kept := make(map[uint]string, len(answers))
	for _, q := range questions {
		if a, ok := answers[q.ID]; ok {
			kept[q.ID] = a
		}
	}
	return kept
}
