package repository

import (
	"errors"

	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type StatusRepository struct {
	DB *gorm.DB
}

func NewStatusRepository(db *gorm.DB) *StatusRepository {
	return &StatusRepository{DB: db}
}

func (r *StatusRepository) GetLessonStatus(lessonID, userID uint) (*model.LessonStatus, error) {
	var status model.LessonStatus
	err := r.DB.Where("lesson_id = ? AND user_id = ?", lessonID, userID).First(&status).Error
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// UpsertLessonStatus updates the existing record for (lesson, user) or
// creates it, keeping grading idempotent: re-submitting the same answers
// never produces a duplicate status row.
func (r *StatusRepository) UpsertLessonStatus(lessonID, userID uint, state model.LessonState, grade *float64) error {
	var status model.LessonStatus
	err := r.DB.Where("lesson_id = ? AND user_id = ?", lessonID, userID).First(&status).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		status = model.LessonStatus{
			LessonID: lessonID,
			UserID:   userID,
			Status:   state,
			Grade:    grade,
		}
		return r.DB.Create(&status).Error
	}
	if err != nil {
		return err
	}
	status.Status = state
	status.Grade = grade
	return r.DB.Save(&status).Error
}

func (r *StatusRepository) DeleteLessonStatus(lessonID, userID uint) error {
	return r.DB.Where("lesson_id = ? AND user_id = ?", lessonID, userID).
		Delete(&model.LessonStatus{}).Error
}

func (r *StatusRepository) ListLessonStatuses(userID uint, lessonIDs []uint) ([]model.LessonStatus, error) {
	if len(lessonIDs) == 0 {
		return nil, nil
	}
	var statuses []model.LessonStatus
	err := r.DB.Where("user_id = ? AND lesson_id IN ?", userID, lessonIDs).
		Find(&statuses).Error
	return statuses, err
}

func (r *StatusRepository) GetCourseStatus(courseID, userID uint) (*model.CourseStatus, error) {
	var status model.CourseStatus
	err := r.DB.Where("course_id = ? AND user_id = ?", courseID, userID).First(&status).Error
	if err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *StatusRepository) UpsertCourseStatus(courseID, userID uint, state model.CourseState, percent, completed int) error {
	var status model.CourseStatus
	err := r.DB.Where("course_id = ? AND user_id = ?", courseID, userID).First(&status).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		status = model.CourseStatus{
			CourseID:         courseID,
			UserID:           userID,
			Status:           state,
			Percent:          percent,
			CompletedLessons: completed,
		}
		return r.DB.Create(&status).Error
	}
	if err != nil {
		return err
	}
	status.Status = state
	status.Percent = percent
	status.CompletedLessons = completed
	return r.DB.Save(&status).Error
}

func (r *StatusRepository) DeleteCourseStatus(courseID, userID uint) error {
	return r.DB.Where("course_id = ? AND user_id = ?", courseID, userID).
		Delete(&model.CourseStatus{}).Error
}
