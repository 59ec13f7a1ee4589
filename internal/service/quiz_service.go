package service

import (
	"errors"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

type QuizService struct {
	QuizRepo     *repository.QuizRepository
	QuestionRepo *repository.QuestionRepository
	AttemptRepo  *repository.AttemptRepository
	StatusRepo   *repository.StatusRepository
	LessonRepo   *repository.LessonRepository
	Pool         *QuestionPoolService
	Progress     *ProgressService
	Prerequisite *PrerequisiteService
}

func NewQuizService(
	quizRepo *repository.QuizRepository,
	questionRepo *repository.QuestionRepository,
	attemptRepo *repository.AttemptRepository,
	statusRepo *repository.StatusRepository,
	lessonRepo *repository.LessonRepository,
	pool *QuestionPoolService,
	progress *ProgressService,
	prerequisite *PrerequisiteService,
) *QuizService {
	return &QuizService{
		QuizRepo:     quizRepo,
		QuestionRepo: questionRepo,
		AttemptRepo:  attemptRepo,
		StatusRepo:   statusRepo,
		LessonRepo:   lessonRepo,
		Pool:         pool,
		Progress:     progress,
		Prerequisite: prerequisite,
	}
}

type QuizRequest struct {
	Passmark       float64         `json:"passmark"`
	PassRequired   bool            `json:"passRequired"`
	ShowQuestions  int             `json:"showQuestions"`
	RandomizeOrder bool            `json:"randomizeOrder"`
	GradeType      model.GradeType `json:"gradeType"`
}

func (s *QuizService) CreateQuiz(lessonID, ownerID uint, req QuizRequest) (*model.Quiz, error) {
	if _, err := s.LessonRepo.FindByID(lessonID); err != nil {
		return nil, util.ErrLessonNotFound
	}
	if req.Passmark < 0 || req.Passmark > 100 {
		return nil, errors.New("passmark must be between 0 and 100")
	}
	gradeType := req.GradeType
	if gradeType == "" {
		gradeType = model.GradeAuto
	}
	quiz := &model.Quiz{
		LessonID:       lessonID,
		OwnerID:        ownerID,
		Passmark:       req.Passmark,
		PassRequired:   req.PassRequired,
		ShowQuestions:  req.ShowQuestions,
		RandomizeOrder: req.RandomizeOrder,
		GradeType:      gradeType,
	}
	if err := s.QuizRepo.Create(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

// UpdateQuiz saves quiz settings. ShowQuestions is clamped to the currently
// resolvable question count so the setting can never exceed the pool.
func (s *QuizService) UpdateQuiz(quizID uint, req QuizRequest) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		return nil, util.ErrQuizNotFound
	}
	if req.Passmark < 0 || req.Passmark > 100 {
		return nil, errors.New("passmark must be between 0 and 100")
	}

	showQuestions := req.ShowQuestions
	if showQuestions > 0 {
		pool, err := s.Pool.ResolveForEditing(quizID)
		if err != nil {
			return nil, err
		}
		if showQuestions > len(pool) {
			showQuestions = len(pool)
		}
	}

	quiz.Passmark = req.Passmark
	quiz.PassRequired = req.PassRequired
	quiz.ShowQuestions = showQuestions
	quiz.RandomizeOrder = req.RandomizeOrder
	if req.GradeType != "" {
		quiz.GradeType = req.GradeType
	}
	if err := s.QuizRepo.Update(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) GetQuiz(quizID uint) (*model.Quiz, error) {
	return s.QuizRepo.FindByID(quizID)
}

func (s *QuizService) GetQuizByLesson(lessonID uint) (*model.Quiz, error) {
	return s.QuizRepo.FindByLessonID(lessonID)
}

// AddQuestion appends a concrete question reference to the quiz.
func (s *QuizService) AddQuestion(quizID, questionID uint, order int) (*model.QuizQuestion, error) {
	if _, err := s.QuizRepo.FindByID(quizID); err != nil {
		return nil, util.ErrQuizNotFound
	}
	if _, err := s.QuestionRepo.FindByID(questionID); err != nil {
		return nil, util.ErrQuestionNotFound
	}
	row := &model.QuizQuestion{
		QuizID:     quizID,
		QuestionID: &questionID,
		Order:      order,
	}
	if err := s.QuizRepo.AddQuestionRow(row); err != nil {
		return nil, err
	}
	return row, nil
}

// AddCategoryPlaceholder appends a "count questions from category" entry.
func (s *QuizService) AddCategoryPlaceholder(quizID, categoryID uint, count, order int) (*model.QuizQuestion, error) {
	if _, err := s.QuizRepo.FindByID(quizID); err != nil {
		return nil, util.ErrQuizNotFound
	}
	if count < 1 {
		return nil, errors.New("count must be at least 1")
	}
	row := &model.QuizQuestion{
		QuizID:     quizID,
		CategoryID: &categoryID,
		Count:      count,
		Order:      order,
	}
	if err := s.QuizRepo.AddQuestionRow(row); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *QuizService) RemoveQuestionRow(quizID, rowID uint) error {
	return s.QuizRepo.DeleteQuestionRow(quizID, rowID)
}

func (s *QuizService) ReorderQuestionRows(quizID uint, rowIDs []uint) error {
	return s.QuizRepo.ReorderQuestionRows(quizID, rowIDs)
}

// LearnerQuestion is a question stripped of its answer key.
type LearnerQuestion struct {
	ID      uint               `json:"id"`
	Type    model.QuestionType `json:"type"`
	Text    string             `json:"text"`
	Grade   float64            `json:"grade"`
	Options []string           `json:"options,omitempty"`
}

// GetQuizForLearner resolves the learner's question set, marks the lesson in
// progress on first view and returns questions without answer keys. The
// lesson's prerequisite chain gates this path the same way it gates
// StartLesson.
func (s *QuizService) GetQuizForLearner(quizID, userID uint) ([]LearnerQuestion, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		return nil, util.ErrQuizNotFound
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

	if _, err := s.StatusRepo.GetLessonStatus(quiz.LessonID, userID); errors.Is(err, gorm.ErrRecordNotFound) {
		if err := s.StatusRepo.UpsertLessonStatus(quiz.LessonID, userID, model.LessonInProgress, nil); err != nil {
			return nil, err
		}
	}

	out := make([]LearnerQuestion, 0, len(questions))
	for _, q := range questions {
		out = append(out, LearnerQuestion{
			ID:      q.ID,
			Type:    q.Type,
			Text:    q.Text,
			Grade:   q.Grade,
			Options: questionOptions(&q),
		})
	}
	return out, nil
}

// GetQuizForEditing returns the fully expanded pool with answer keys for the
// administrative surface. No sampling, shuffling or persistence happens on
// this path.
func (s *QuizService) GetQuizForEditing(quizID uint) ([]model.Question, error) {
	return s.Pool.ResolveForEditing(quizID)
}

// ResetQuiz clears the learner's attempt (including the resolved question
// set) and lesson status, then refreshes course progress.
func (s *QuizService) ResetQuiz(quizID, userID uint) error {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		return util.ErrQuizNotFound
	}
	if err := s.AttemptRepo.DeleteByQuizAndUser(quizID, userID); err != nil {
		return err
	}
	if err := s.StatusRepo.DeleteLessonStatus(quiz.LessonID, userID); err != nil {
		return err
	}
	lesson, err := s.LessonRepo.FindByID(quiz.LessonID)
	if err != nil {
		return err
	}
	return s.Progress.RefreshCourseStatus(lesson.CourseID, userID)
}

// questionOptions shuffles right and wrong answers together for choice
// questions; other types have no options.
func questionOptions(q *model.Question) []string {
	switch q.Type {
	case model.MultipleChoice:
		options := make([]string, 0)
		for v := range answerSet(q.RightAnswers) {
			options = append(options, v)
		}
		for v := range answerSet(q.WrongAnswers) {
			options = append(options, v)
		}
		rng := newRand()
		rng.Shuffle(len(options), func(i, j int) {
			options[i], options[j] = options[j], options[i]
		})
		return options
	case model.Boolean:
		return []string{"true", "false"}
	default:
		return nil
	}
}
