package service

import (
	"errors"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

type LessonService struct {
	LessonRepo   *repository.LessonRepository
	QuizRepo     *repository.QuizRepository
	AttemptRepo  *repository.AttemptRepository
	StatusRepo   *repository.StatusRepository
	Progress     *ProgressService
	Prerequisite *PrerequisiteService
}

func NewLessonService(
	lessonRepo *repository.LessonRepository,
	quizRepo *repository.QuizRepository,
	attemptRepo *repository.AttemptRepository,
	statusRepo *repository.StatusRepository,
	progress *ProgressService,
	prerequisite *PrerequisiteService,
) *LessonService {
	return &LessonService{
		LessonRepo:   lessonRepo,
		QuizRepo:     quizRepo,
		AttemptRepo:  attemptRepo,
		StatusRepo:   statusRepo,
		Progress:     progress,
		Prerequisite: prerequisite,
	}
}

type LessonRequest struct {
	Title          string `json:"title" binding:"required"`
	Content        string `json:"content"`
	ModuleID       *uint  `json:"moduleId"`
	PrerequisiteID *uint  `json:"prerequisiteId"`
	Order          int    `json:"order"`
}

func (s *LessonService) CreateLesson(courseID uint, req LessonRequest) (*model.Lesson, error) {
	lesson := &model.Lesson{
		CourseID:       courseID,
		ModuleID:       req.ModuleID,
		PrerequisiteID: req.PrerequisiteID,
		Title:          req.Title,
		Content:        req.Content,
		Order:          req.Order,
	}
	if err := s.LessonRepo.Create(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *LessonService) UpdateLesson(lessonID uint, req LessonRequest) (*model.Lesson, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		return nil, util.ErrLessonNotFound
	}
	lesson.Title = req.Title
	lesson.Content = req.Content
	lesson.ModuleID = req.ModuleID
	lesson.PrerequisiteID = req.PrerequisiteID
	lesson.Order = req.Order
	if err := s.LessonRepo.Update(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *LessonService) DeleteLesson(lessonID uint) error {
	return s.LessonRepo.Delete(lessonID)
}

func (s *LessonService) GetLesson(lessonID uint) (*model.Lesson, error) {
	return s.LessonRepo.FindByID(lessonID)
}

func (s *LessonService) ListLessons(courseID uint) ([]model.Lesson, error) {
	return s.LessonRepo.ListByCourse(courseID)
}

// StartLesson marks the lesson in progress for the learner. Access is gated
// on the prerequisite chain.
func (s *LessonService) StartLesson(lessonID, userID uint) error {
	if _, err := s.LessonRepo.FindByID(lessonID); err != nil {
		return util.ErrLessonNotFound
	}
	unlocked, err := s.Prerequisite.IsLessonUnlocked(lessonID, userID)
	if err != nil {
		return err
	}
	if !unlocked {
		return util.ErrLessonLocked
	}

	status, err := s.StatusRepo.GetLessonStatus(lessonID, userID)
	if err == nil && status.Status != model.LessonNotStarted {
		// Already started; starting again is a no-op.
		return nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return s.StatusRepo.UpsertLessonStatus(lessonID, userID, model.LessonInProgress, nil)
}

// CompleteLesson marks a lesson complete from an explicit learner action.
// A lesson whose quiz requires a pass can only complete through grading;
// once the learner holds a completed status the call is a no-op.
func (s *LessonService) CompleteLesson(lessonID, userID uint) error {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		return util.ErrLessonNotFound
	}

	status, err := s.StatusRepo.GetLessonStatus(lessonID, userID)
	if err == nil && status.Status.IsCompleted() {
		return nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	quiz, err := s.QuizRepo.FindByLessonID(lessonID)
	if err == nil && quiz.PassRequired {
		return util.ErrQuizPassRequired
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if err := s.StatusRepo.UpsertLessonStatus(lessonID, userID, model.LessonComplete, nil); err != nil {
		return err
	}
	return s.Progress.RefreshCourseStatus(lesson.CourseID, userID)
}

// ResetLesson clears the learner's lesson status and, when the lesson has a
// quiz, the attempt record including the persisted resolved question set, so
// the next quiz view performs a fresh resolution.
func (s *LessonService) ResetLesson(lessonID, userID uint) error {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		return util.ErrLessonNotFound
	}

	if quiz, err := s.QuizRepo.FindByLessonID(lessonID); err == nil {
		if err := s.AttemptRepo.DeleteByQuizAndUser(quiz.ID, userID); err != nil {
			return err
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if err := s.StatusRepo.DeleteLessonStatus(lessonID, userID); err != nil {
		return err
	}
	return s.Progress.RefreshCourseStatus(lesson.CourseID, userID)
}
