package controller

import (
	"strconv"

	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	Service *service.QuestionService
}

func NewQuestionController(svc *service.QuestionService) *QuestionController {
	return &QuestionController{Service: svc}
}

// @Summary Create a question in the shared bank
// @Tags questions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.QuestionRequest true "question data"
// @Success 201 {object} util.Response
// @Router /api/teacher/questions [post]
func (c *QuestionController) CreateQuestion(ctx *gin.Context) {
	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	claims := util.GetUserFromContext(ctx)
	q, err := c.Service.CreateQuestion(claims.UserID, req)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, q)
}

// @Summary List bank questions
// @Tags questions
// @Produce json
// @Security ApiKeyAuth
// @Param categoryId query int false "filter by category"
// @Param authorId query int false "filter by author"
// @Success 200 {object} util.Response
// @Router /api/teacher/questions [get]
func (c *QuestionController) ListQuestions(ctx *gin.Context) {
	categoryID := queryID(ctx, "categoryId")
	authorID := queryID(ctx, "authorId")

	questions, err := c.Service.ListQuestions(categoryID, authorID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// @Summary Get a bank question
// @Tags questions
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "question id"
// @Success 200 {object} util.Response
// @Router /api/teacher/questions/{id} [get]
func (c *QuestionController) GetQuestion(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	q, err := c.Service.GetQuestion(id)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, q)
}

// @Summary Update a bank question
// @Tags questions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "question id"
// @Param body body service.QuestionRequest true "question data"
// @Success 200 {object} util.Response
// @Router /api/teacher/questions/{id} [put]
func (c *QuestionController) UpdateQuestion(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	q, err := c.Service.UpdateQuestion(id, req)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, q)
}

// @Summary Delete a bank question
// @Tags questions
// @Security ApiKeyAuth
// @Param id path int true "question id"
// @Success 200 {object} util.Response
// @Router /api/teacher/questions/{id} [delete]
func (c *QuestionController) DeleteQuestion(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.Service.DeleteQuestion(id); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

type CategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// @Summary Create a question category
// @Tags questions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body CategoryRequest true "category data"
// @Success 201 {object} util.Response
// @Router /api/teacher/question-categories [post]
func (c *QuestionController) CreateCategory(ctx *gin.Context) {
	var req CategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	category, err := c.Service.CreateCategory(req.Name)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, category)
}

// @Summary List question categories
// @Tags questions
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/teacher/question-categories [get]
func (c *QuestionController) ListCategories(ctx *gin.Context) {
	categories, err := c.Service.ListCategories()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, categories)
}

func queryID(ctx *gin.Context, name string) uint {
	if idStr := ctx.Query(name); idStr != "" {
		if id, err := strconv.Atoi(idStr); err == nil && id > 0 {
			return uint(id)
		}
	}
	return 0
}
