package controller

import (
	"fmt"
	"path/filepath"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/service"
	"lms_backend/internal/util"
	"lms_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	Service *service.QuizService
	Grading *service.GradingService
	Storage *service.StorageService
}

func NewQuizController(svc *service.QuizService, grading *service.GradingService, storage *service.StorageService) *QuizController {
	return &QuizController{Service: svc, Grading: grading, Storage: storage}
}

// @Summary View a quiz as a learner (resolves the question set)
// @Tags quizzes
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "quiz id"
// @Success 200 {object} util.Response
// @Router /api/quizzes/{id} [get]
func (c *QuizController) GetQuiz(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	claims := util.GetUserFromContext(ctx)
	questions, err := c.Service.GetQuizForLearner(id, claims.UserID)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

type SubmitQuizRequest struct {
	Answers map[uint]string `json:"answers" binding:"required"`
}

// @Summary Submit quiz answers for grading
// @Tags quizzes
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "quiz id"
// @Param body body SubmitQuizRequest true "answers keyed by question id"
// @Success 200 {object} util.Response
// @Router /api/quizzes/{id}/submit [post]
func (c *QuizController) SubmitQuiz(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req SubmitQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	claims := util.GetUserFromContext(ctx)
	result, err := c.Grading.SubmitQuiz(id, claims.UserID, req.Answers)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}

	outcome := "graded"
	if !result.Autogradable {
		outcome = "ungraded"
	}
	monitoring.QuizSubmissions.WithLabelValues(outcome).Inc()
	if result.Autogradable {
		monitoring.QuizGradePercent.Observe(result.Percentage)
	}

	util.Success(ctx, result)
}

// @Summary Upload an answer file for a file-upload question
// @Tags quizzes
// @Accept mpfd
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "quiz id"
// @Param file formData file true "answer file"
// @Success 200 {object} util.Response
// @Router /api/quizzes/{id}/answer-file [post]
func (c *QuizController) UploadAnswerFile(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	claims := util.GetUserFromContext(ctx)

	header, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file required")
		return
	}
	file, err := header.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	filename := fmt.Sprintf("answers/%d/%d/%d%s", id, claims.UserID, time.Now().UnixNano(), filepath.Ext(header.Filename))
	url, err := c.Storage.Upload(ctx.Request.Context(), filename, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"url": url})
}

// @Summary Reset a quiz for the current learner
// @Tags quizzes
// @Security ApiKeyAuth
// @Param id path int true "quiz id"
// @Success 200 {object} util.Response
// @Router /api/quizzes/{id}/reset [post]
func (c *QuizController) ResetQuiz(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	claims := util.GetUserFromContext(ctx)
	if err := c.Service.ResetQuiz(id, claims.UserID); err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary Create a quiz for a lesson
// @Tags quizzes
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "lesson id"
// @Param body body service.QuizRequest true "quiz settings"
// @Success 201 {object} util.Response
// @Router /api/teacher/lessons/{id}/quiz [post]
func (c *QuizController) CreateQuiz(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.QuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	claims := util.GetUserFromContext(ctx)
	quiz, err := c.Service.CreateQuiz(id, claims.UserID, req)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, quiz)
}

// @Summary Update quiz settings
// @Tags quizzes
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "quiz id"
// @Param body body service.QuizRequest true "quiz settings"
// @Success 200 {object} util.Response
// @Router /api/teacher/quizzes/{id} [put]
func (c *QuizController) UpdateQuiz(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.QuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	quiz, err := c.Service.UpdateQuiz(id, req)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, quiz)
}

// @Summary View the fully expanded question pool for editing
// @Tags quizzes
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "quiz id"
// @Success 200 {object} util.Response
// @Router /api/teacher/quizzes/{id}/questions [get]
func (c *QuizController) GetQuizForEditing(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	questions, err := c.Service.GetQuizForEditing(id)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

type AddQuestionRequest struct {
	QuestionID uint `json:"questionId"`
	CategoryID uint `json:"categoryId"`
	Count      int  `json:"count"`
	Order      int  `json:"order"`
}

// @Summary Add a question or category placeholder to a quiz
// @Tags quizzes
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "quiz id"
// @Param body body AddQuestionRequest true "question reference or placeholder"
// @Success 201 {object} util.Response
// @Router /api/teacher/quizzes/{id}/questions [post]
func (c *QuizController) AddQuestion(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req AddQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	var row *model.QuizQuestion
	var err error
	if req.QuestionID > 0 {
		row, err = c.Service.AddQuestion(id, req.QuestionID, req.Order)
	} else if req.CategoryID > 0 {
		row, err = c.Service.AddCategoryPlaceholder(id, req.CategoryID, req.Count, req.Order)
	} else {
		util.BadRequest(ctx, "questionId or categoryId required")
		return
	}
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, row)
}

// @Summary Remove a quiz question row
// @Tags quizzes
// @Security ApiKeyAuth
// @Param id path int true "quiz id"
// @Param rowId path int true "row id"
// @Success 200 {object} util.Response
// @Router /api/teacher/quizzes/{id}/questions/{rowId} [delete]
func (c *QuizController) RemoveQuestion(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	rowID, ok := pathID(ctx, "rowId")
	if !ok {
		return
	}
	if err := c.Service.RemoveQuestionRow(id, rowID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

type ReorderRequest struct {
	RowIDs []uint `json:"rowIds" binding:"required"`
}

// @Summary Reorder quiz question rows
// @Tags quizzes
// @Accept json
// @Security ApiKeyAuth
// @Param id path int true "quiz id"
// @Param body body ReorderRequest true "row ids in the new order"
// @Success 200 {object} util.Response
// @Router /api/teacher/quizzes/{id}/questions/reorder [put]
func (c *QuizController) ReorderQuestions(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req ReorderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if err := c.Service.ReorderQuestionRows(id, req.RowIDs); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
