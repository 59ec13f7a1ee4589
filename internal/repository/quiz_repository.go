package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) Create(quiz *model.Quiz) error {
	return r.DB.Create(quiz).Error
}

func (r *QuizRepository) Update(quiz *model.Quiz) error {
	return r.DB.Save(quiz).Error
}

func (r *QuizRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quiz_id = ?", id).Delete(&model.QuizQuestion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Quiz{}, id).Error
	})
}

func (r *QuizRepository) FindByID(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.First(&quiz, id).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizRepository) FindByLessonID(lessonID uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.Where("lesson_id = ?", lessonID).First(&quiz).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

// QuestionRows returns a quiz's configured entries in administrator order,
// concrete references and category placeholders alike.
func (r *QuizRepository) QuestionRows(quizID uint) ([]model.QuizQuestion, error) {
	var rows []model.QuizQuestion
	err := r.DB.Where("quiz_id = ?", quizID).Order("`order`, id").Find(&rows).Error
	return rows, err
}

func (r *QuizRepository) AddQuestionRow(row *model.QuizQuestion) error {
	return r.DB.Create(row).Error
}

func (r *QuizRepository) DeleteQuestionRow(quizID, rowID uint) error {
	return r.DB.Where("quiz_id = ?", quizID).Delete(&model.QuizQuestion{}, rowID).Error
}

func (r *QuizRepository) ReorderQuestionRows(quizID uint, rowIDs []uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		for i, id := range rowIDs {
			err := tx.Model(&model.QuizQuestion{}).
				Where("quiz_id = ? AND id = ?", quizID, id).
				Update("order", i).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}
