package service

import (
	"errors"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

type CourseService struct {
	CourseRepo   *repository.CourseRepository
	ModuleRepo   *repository.ModuleRepository
	LessonRepo   *repository.LessonRepository
	StatusRepo   *repository.StatusRepository
	Progress     *ProgressService
	Prerequisite *PrerequisiteService
}

func NewCourseService(
	courseRepo *repository.CourseRepository,
	moduleRepo *repository.ModuleRepository,
	lessonRepo *repository.LessonRepository,
	statusRepo *repository.StatusRepository,
	progress *ProgressService,
	prerequisite *PrerequisiteService,
) *CourseService {
	return &CourseService{
		CourseRepo:   courseRepo,
		ModuleRepo:   moduleRepo,
		LessonRepo:   lessonRepo,
		StatusRepo:   statusRepo,
		Progress:     progress,
		Prerequisite: prerequisite,
	}
}

type CourseRequest struct {
	Title          string `json:"title" binding:"required"`
	Description    string `json:"description"`
	PrerequisiteID *uint  `json:"prerequisiteId"`
	Published      bool   `json:"published"`
}

func (s *CourseService) CreateCourse(ownerID uint, req CourseRequest) (*model.Course, error) {
	course := &model.Course{
		Title:          req.Title,
		Description:    req.Description,
		OwnerID:        ownerID,
		PrerequisiteID: req.PrerequisiteID,
		Published:      req.Published,
	}
	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) UpdateCourse(courseID uint, req CourseRequest) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		return nil, util.ErrCourseNotFound
	}
	course.Title = req.Title
	course.Description = req.Description
	course.PrerequisiteID = req.PrerequisiteID
	course.Published = req.Published
	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) DeleteCourse(courseID uint) error {
	return s.CourseRepo.Delete(courseID)
}

func (s *CourseService) GetCourse(courseID uint) (*model.Course, error) {
	return s.CourseRepo.FindByID(courseID)
}

func (s *CourseService) ListCourses() ([]model.Course, error) {
	return s.CourseRepo.ListPublished()
}

type ModuleRequest struct {
	Title string `json:"title" binding:"required"`
	Order int    `json:"order"`
}

func (s *CourseService) CreateModule(courseID uint, req ModuleRequest) (*model.CourseModule, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		return nil, util.ErrCourseNotFound
	}
	m := &model.CourseModule{
		CourseID: courseID,
		Title:    req.Title,
		Order:    req.Order,
	}
	if err := s.ModuleRepo.Create(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *CourseService) ListModules(courseID uint) ([]model.CourseModule, error) {
	return s.ModuleRepo.ListByCourse(courseID)
}

func (s *CourseService) DeleteModule(moduleID uint) error {
	return s.ModuleRepo.Delete(moduleID)
}

// StartCourse enrols the learner: the course status record is created on
// first interaction. The course prerequisite chain gates enrolment.
func (s *CourseService) StartCourse(courseID, userID uint) error {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		return util.ErrCourseNotFound
	}
	unlocked, err := s.Prerequisite.IsCourseUnlocked(courseID, userID)
	if err != nil {
		return err
	}
	if !unlocked {
		return util.ErrCourseLocked
	}
	_, err = s.StatusRepo.GetCourseStatus(courseID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.StatusRepo.UpsertCourseStatus(courseID, userID, model.CourseInProgress, 0, 0)
	}
	return err
}

type CourseProgress struct {
	Percent          int                   `json:"percent"`
	CompletedLessons int                   `json:"completedLessons"`
	TotalLessons     int                   `json:"totalLessons"`
	Modules          []ModuleProgressEntry `json:"modules"`
}

type ModuleProgressEntry struct {
	ModuleID uint     `json:"moduleId"`
	Title    string   `json:"title"`
	Percent  *float64 `json:"percent"`
}

// GetCourseProgress recomputes the full progress view for a learner.
// Modules without lessons report a nil percent.
func (s *CourseService) GetCourseProgress(courseID, userID uint) (*CourseProgress, error) {
	percent, completed, total, err := s.Progress.CoursePercentage(courseID, userID)
	if err != nil {
		return nil, err
	}
	modules, err := s.ModuleRepo.ListByCourse(courseID)
	if err != nil {
		return nil, err
	}
	progress := &CourseProgress{
		Percent:          percent,
		CompletedLessons: completed,
		TotalLessons:     total,
	}
	for _, m := range modules {
		entry := ModuleProgressEntry{ModuleID: m.ID, Title: m.Title}
		p, ok, err := s.Progress.ModulePercentage(m.ID, courseID, userID)
		if err != nil {
			return nil, err
		}
		if ok {
			entry.Percent = &p
		}
		progress.Modules = append(progress.Modules, entry)
	}
	return progress, nil
}
