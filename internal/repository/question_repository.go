package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) Create(q *model.Question) error {
	return r.DB.Create(q).Error
}

func (r *QuestionRepository) Update(q *model.Question) error {
	return r.DB.Save(q).Error
}

func (r *QuestionRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Question{}, id).Error
}

func (r *QuestionRepository) FindByID(id uint) (*model.Question, error) {
	var q model.Question
	err := r.DB.First(&q, id).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// FindByIDs loads questions preserving the order of ids. Ids that no longer
// resolve to a question are skipped.
func (r *QuestionRepository) FindByIDs(ids []uint) ([]model.Question, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var questions []model.Question
	if err := r.DB.Where("id IN ?", ids).Find(&questions).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]model.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	ordered := make([]model.Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := byID[id]; ok {
			ordered = append(ordered, q)
		}
	}
	return ordered, nil
}

// ListIDsByCategory returns candidate question ids for a category placeholder.
// excludeIDs removes questions already selected elsewhere in the expansion;
// authorID > 0 restricts candidates to that author's questions.
func (r *QuestionRepository) ListIDsByCategory(categoryID uint, excludeIDs []uint, authorID uint) ([]uint, error) {
	query := r.DB.Model(&model.Question{}).Where("category_id = ?", categoryID)
	if len(excludeIDs) > 0 {
		query = query.Where("id NOT IN ?", excludeIDs)
	}
	if authorID > 0 {
		query = query.Where("author_id = ?", authorID)
	}
	var ids []uint
	err := query.Order("id").Pluck("id", &ids).Error
	return ids, err
}

func (r *QuestionRepository) List(categoryID uint, authorID uint) ([]model.Question, error) {
	query := r.DB.Model(&model.Question{})
	if categoryID > 0 {
		query = query.Where("category_id = ?", categoryID)
	}
	if authorID > 0 {
		query = query.Where("author_id = ?", authorID)
	}
	var questions []model.Question
	err := query.Order("id").Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) CreateCategory(c *model.QuestionCategory) error {
	return r.DB.Create(c).Error
}

func (r *QuestionRepository) ListCategories() ([]model.QuestionCategory, error) {
	var categories []model.QuestionCategory
	err := r.DB.Order("name").Find(&categories).Error
	return categories, err
}
