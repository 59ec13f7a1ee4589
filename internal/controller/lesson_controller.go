package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LessonController struct {
	Service      *service.LessonService
	Prerequisite *service.PrerequisiteService
}

func NewLessonController(svc *service.LessonService, prereq *service.PrerequisiteService) *LessonController {
	return &LessonController{Service: svc, Prerequisite: prereq}
}

// @Summary List a course's lessons
// @Tags lessons
// @Produce json
// @Param id path int true "course id"
// @Success 200 {object} util.Response
// @Router /api/courses/{id}/lessons [get]
func (c *LessonController) ListLessons(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	lessons, err := c.Service.ListLessons(id)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, lessons)
}

// @Summary Get a lesson with its lock state
// @Tags lessons
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "lesson id"
// @Success 200 {object} util.Response
// @Router /api/lessons/{id} [get]
func (c *LessonController) GetLesson(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	lesson, err := c.Service.GetLesson(id)
	if err != nil {
		util.NotFound(ctx)
		return
	}

	claims := util.GetUserFromContext(ctx)
	unlocked, err := c.Prerequisite.IsLessonUnlocked(id, claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	var blocking uint
	if !unlocked {
		blocking, err = c.Prerequisite.FindBlockingPrerequisite(id, claims.UserID)
		if err != nil {
			util.LogInternalError(ctx, err)
			return
		}
	}

	util.Success(ctx, gin.H{
		"lesson":               lesson,
		"unlocked":             unlocked,
		"blockingPrerequisite": blocking,
	})
}

// @Summary Create a lesson in a course
// @Tags lessons
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "course id"
// @Param body body service.LessonRequest true "lesson data"
// @Success 201 {object} util.Response
// @Router /api/teacher/courses/{id}/lessons [post]
func (c *LessonController) CreateLesson(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.LessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	lesson, err := c.Service.CreateLesson(id, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, lesson)
}

// @Summary Update a lesson
// @Tags lessons
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "lesson id"
// @Param body body service.LessonRequest true "lesson data"
// @Success 200 {object} util.Response
// @Router /api/teacher/lessons/{id} [put]
func (c *LessonController) UpdateLesson(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.LessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	lesson, err := c.Service.UpdateLesson(id, req)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, lesson)
}

// @Summary Delete a lesson
// @Tags lessons
// @Security ApiKeyAuth
// @Param id path int true "lesson id"
// @Success 200 {object} util.Response
// @Router /api/teacher/lessons/{id} [delete]
func (c *LessonController) DeleteLesson(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.Service.DeleteLesson(id); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary Start a lesson
// @Tags lessons
// @Security ApiKeyAuth
// @Param id path int true "lesson id"
// @Success 200 {object} util.Response
// @Router /api/lessons/{id}/start [post]
func (c *LessonController) StartLesson(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	claims := util.GetUserFromContext(ctx)
	if err := c.Service.StartLesson(id, claims.UserID); err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary Mark a lesson complete
// @Tags lessons
// @Security ApiKeyAuth
// @Param id path int true "lesson id"
// @Success 200 {object} util.Response
// @Router /api/lessons/{id}/complete [post]
func (c *LessonController) CompleteLesson(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	claims := util.GetUserFromContext(ctx)
	if err := c.Service.CompleteLesson(id, claims.UserID); err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary Reset a lesson for the current learner
// @Tags lessons
// @Security ApiKeyAuth
// @Param id path int true "lesson id"
// @Success 200 {object} util.Response
// @Router /api/lessons/{id}/reset [post]
func (c *LessonController) ResetLesson(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	claims := util.GetUserFromContext(ctx)
	if err := c.Service.ResetLesson(id, claims.UserID); err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
