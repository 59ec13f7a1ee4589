package service

import (
	"lms_backend/internal/repository"
)

// PrerequisiteService gates access to lessons and courses on completion of
// their configured prerequisite. Prerequisite data is untrusted admin input,
// so chain walks carry cycle protection instead of assuming a DAG.
type PrerequisiteService struct {
	LessonRepo *repository.LessonRepository
	CourseRepo *repository.CourseRepository
	Progress   *ProgressService
}

func NewPrerequisiteService(
	lessonRepo *repository.LessonRepository,
	courseRepo *repository.CourseRepository,
	progress *ProgressService,
) *PrerequisiteService {
	return &PrerequisiteService{
		LessonRepo: lessonRepo,
		CourseRepo: courseRepo,
		Progress:   progress,
	}
}

// IsLessonUnlocked reports whether the learner may access the lesson. A
// lesson without a prerequisite is always unlocked.
func (s *PrerequisiteService) IsLessonUnlocked(lessonID, userID uint) (bool, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		return false, err
	}
	if lesson.PrerequisiteID == nil {
		return true, nil
	}
	return s.Progress.LessonCompleted(*lesson.PrerequisiteID, userID)
}

// IsCourseUnlocked reports whether the learner may enrol in the course: its
// prerequisite course, if any, must be complete.
func (s *PrerequisiteService) IsCourseUnlocked(courseID, userID uint) (bool, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		return false, err
	}
	if course.PrerequisiteID == nil {
		return true, nil
	}
	_, completed, total, err := s.courseCompletion(*course.PrerequisiteID, userID)
	if err != nil {
		return false, err
	}
	return total > 0 && completed == total, nil
}

func (s *PrerequisiteService) courseCompletion(courseID, userID uint) (percent, completed, total int, err error) {
	return s.Progress.CoursePercentage(courseID, userID)
}

// FindBlockingPrerequisite walks the prerequisite chain and returns the
// deepest incomplete lesson the learner must finish first, or 0 when the
// lesson is unlocked. A repeated lesson id means the chain is cyclic; the
// walk stops there and returns the repeated id rather than looping.
func (s *PrerequisiteService) FindBlockingPrerequisite(lessonID, userID uint) (uint, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		return 0, err
	}

	visited := map[uint]bool{lessonID: true}
	var blocking uint

	cur := lesson.PrerequisiteID
	for cur != nil {
		id := *cur
		if visited[id] {
			return id, nil
		}
		visited[id] = true

		completed, err := s.Progress.LessonCompleted(id, userID)
		if err != nil {
			return 0, err
		}
		if completed {
			break
		}
		blocking = id

		prereq, err := s.LessonRepo.FindByID(id)
		if err != nil {
			// Dangling prerequisite reference: treat the walk as ended here.
			break
		}
		cur = prereq.PrerequisiteID
	}

	return blocking, nil
}
