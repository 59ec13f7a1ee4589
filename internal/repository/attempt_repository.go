package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) FindByQuizAndUser(quizID, userID uint) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	err := r.DB.Where("quiz_id = ? AND user_id = ?", quizID, userID).First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *AttemptRepository) Create(attempt *model.QuizAttempt) error {
	return r.DB.Create(attempt).Error
}

func (r *AttemptRepository) Save(attempt *model.QuizAttempt) error {
	return r.DB.Save(attempt).Error
}

// DeleteByQuizAndUser clears the attempt record, including the persisted
// resolved question set, so the next view performs a fresh resolution.
func (r *AttemptRepository) DeleteByQuizAndUser(quizID, userID uint) error {
	return r.DB.Where("quiz_id = ? AND user_id = ?", quizID, userID).
		Delete(&model.QuizAttempt{}).Error
}

func (r *AttemptRepository) ListNeedingManual(quizID uint) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.Where("quiz_id = ? AND submitted = ? AND needs_manual = ?", quizID, true, true).
		Find(&attempts).Error
	return attempts, err
}
