package service

import (
	"context"
	"errors"
	"fmt"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProgressService computes lesson, module and course completion from the
// current lesson statuses. Every aggregate is rebuilt from source on each
// refresh; a concurrent lost update to a derived value self-heals on the
// next recomputation.
type ProgressService struct {
	LessonRepo *repository.LessonRepository
	ModuleRepo *repository.ModuleRepository
	StatusRepo *repository.StatusRepository
	Redis      *redis.Client
}

func NewProgressService(
	lessonRepo *repository.LessonRepository,
	moduleRepo *repository.ModuleRepository,
	statusRepo *repository.StatusRepository,
	rdb *redis.Client,
) *ProgressService {
	return &ProgressService{
		LessonRepo: lessonRepo,
		ModuleRepo: moduleRepo,
		StatusRepo: statusRepo,
		Redis:      rdb,
	}
}

func (s *ProgressService) LessonCompleted(lessonID, userID uint) (bool, error) {
	status, err := s.StatusRepo.GetLessonStatus(lessonID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return status.Status.IsCompleted(), nil
}

// CoursePercentage recomputes completion over the lessons currently
// associated with the course. Lessons removed from the course drop out of
// the denominator on the next call.
func (s *ProgressService) CoursePercentage(courseID, userID uint) (percent, completed, total int, err error) {
	lessons, err := s.LessonRepo.ListByCourse(courseID)
	if err != nil {
		return 0, 0, 0, err
	}
	completed, total, err = s.countCompleted(lessons, userID)
	if err != nil {
		return 0, 0, 0, err
	}
	percent = int(QuotientAsPercentage(float64(completed), float64(total), 0))
	return percent, completed, total, nil
}

// ModulePercentage applies the course formula to the subset of the course's
// lessons tagged with the module. ok is false for a module with no lessons:
// that is a defined no-progress result, not a percentage.
func (s *ProgressService) ModulePercentage(moduleID, courseID, userID uint) (percent float64, ok bool, err error) {
	lessons, err := s.LessonRepo.ListByModule(courseID, moduleID)
	if err != nil {
		return 0, false, err
	}
	if len(lessons) == 0 {
		return 0, false, nil
	}
	completed, total, err := s.countCompleted(lessons, userID)
	if err != nil {
		return 0, false, err
	}
	percent = QuotientAsPercentage(float64(completed), float64(total), 0)
	s.cacheModulePercent(moduleID, courseID, userID, percent)
	return percent, true, nil
}

// RefreshCourseStatus rebuilds the course status record and the module
// progress caches for a (course, user) pair. Called whenever a lesson status
// transitions to or from a completed state.
func (s *ProgressService) RefreshCourseStatus(courseID, userID uint) error {
	percent, completed, total, err := s.CoursePercentage(courseID, userID)
	if err != nil {
		return err
	}

	state := model.CourseInProgress
	if total > 0 && completed == total {
		state = model.CourseComplete
	}
	if err := s.StatusRepo.UpsertCourseStatus(courseID, userID, state, percent, completed); err != nil {
		return err
	}

	modules, err := s.ModuleRepo.ListByCourse(courseID)
	if err != nil {
		return err
	}
	for _, m := range modules {
		if _, _, err := s.ModulePercentage(m.ID, courseID, userID); err != nil {
			return err
		}
	}
	return nil
}

func (s *ProgressService) countCompleted(lessons []model.Lesson, userID uint) (completed, total int, err error) {
	total = len(lessons)
	if total == 0 {
		return 0, 0, nil
	}
	ids := make([]uint, 0, total)
	for _, l := range lessons {
		ids = append(ids, l.ID)
	}
	statuses, err := s.StatusRepo.ListLessonStatuses(userID, ids)
	if err != nil {
		return 0, 0, err
	}
	for _, st := range statuses {
		if st.Status.IsCompleted() {
			completed++
		}
	}
	return completed, total, nil
}

// cacheModulePercent rewrites the derived module percentage for readers that
// only need the cached value. Failures are logged, never surfaced: the value
// is recomputed on the next read anyway.
func (s *ProgressService) cacheModulePercent(moduleID, courseID, userID uint, percent float64) {
	if s.Redis == nil {
		return
	}
	key := fmt.Sprintf("module_progress:%d:%d:%d", moduleID, courseID, userID)
	if err := s.Redis.Set(context.Background(), key, percent, 0).Err(); err != nil {
		logger.Log.Warn("module progress cache write failed", zap.String("key", key), zap.Error(err))
	}
}
