package service

import (
	"encoding/json"
	"errors"
	"strings"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
)

type QuestionService struct {
	QuestionRepo *repository.QuestionRepository
}

func NewQuestionService(questionRepo *repository.QuestionRepository) *QuestionService {
	return &QuestionService{QuestionRepo: questionRepo}
}

type QuestionRequest struct {
	Type         model.QuestionType `json:"type" binding:"required"`
	Text         string             `json:"text" binding:"required"`
	Grade        float64            `json:"grade"`
	CategoryID   *uint              `json:"categoryId"`
	Answer       string             `json:"answer"`
	RightAnswers []string           `json:"rightAnswers"`
	WrongAnswers []string           `json:"wrongAnswers"`
	GapIsPattern bool               `json:"gapIsPattern"`
}

func (s *QuestionService) CreateQuestion(authorID uint, req QuestionRequest) (*model.Question, error) {
	if err := validateQuestion(&req); err != nil {
		return nil, err
	}
	q := &model.Question{
		AuthorID:     authorID,
		CategoryID:   req.CategoryID,
		Type:         req.Type,
		Text:         req.Text,
		Grade:        req.Grade,
		Answer:       req.Answer,
		RightAnswers: encodeAnswers(req.RightAnswers),
		WrongAnswers: encodeAnswers(req.WrongAnswers),
		GapIsPattern: req.GapIsPattern,
	}
	if err := s.QuestionRepo.Create(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuestionService) UpdateQuestion(questionID uint, req QuestionRequest) (*model.Question, error) {
	q, err := s.QuestionRepo.FindByID(questionID)
	if err != nil {
		return nil, util.ErrQuestionNotFound
	}
	if err := validateQuestion(&req); err != nil {
		return nil, err
	}
	q.CategoryID = req.CategoryID
	q.Type = req.Type
	q.Text = req.Text
	q.Grade = req.Grade
	q.Answer = req.Answer
	q.RightAnswers = encodeAnswers(req.RightAnswers)
	q.WrongAnswers = encodeAnswers(req.WrongAnswers)
	q.GapIsPattern = req.GapIsPattern
	if err := s.QuestionRepo.Update(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuestionService) DeleteQuestion(questionID uint) error {
	return s.QuestionRepo.Delete(questionID)
}

func (s *QuestionService) GetQuestion(questionID uint) (*model.Question, error) {
	return s.QuestionRepo.FindByID(questionID)
}

func (s *QuestionService) ListQuestions(categoryID, authorID uint) ([]model.Question, error) {
	return s.QuestionRepo.List(categoryID, authorID)
}

func (s *QuestionService) CreateCategory(name string) (*model.QuestionCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("category name required")
	}
	c := &model.QuestionCategory{Name: name}
	if err := s.QuestionRepo.CreateCategory(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *QuestionService) ListCategories() ([]model.QuestionCategory, error) {
	return s.QuestionRepo.ListCategories()
}

func validateQuestion(req *QuestionRequest) error {
	if req.Grade < 0 {
		return errors.New("grade must not be negative")
	}
	switch req.Type {
	case model.MultipleChoice:
		if len(req.RightAnswers) == 0 {
			return errors.New("multiple-choice question needs at least one right answer")
		}
	case model.Boolean:
		v := strings.ToLower(strings.TrimSpace(req.Answer))
		if v != "true" && v != "false" {
			return errors.New("boolean question answer must be true or false")
		}
	case model.GapFill:
		if len(strings.Split(req.Answer, "||")) != 3 {
			return errors.New("gap-fill answer must be of the form prefix||gap||suffix")
		}
	case model.SingleLine, model.MultiLine, model.FileUpload:
		// Manually graded, no key to validate.
	default:
		return errors.New("unknown question type")
	}
	return nil
}

func encodeAnswers(values []string) string {
	if len(values) == 0 {
		return ""
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		return ""
	}
	return string(encoded)
}
