package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GradingController struct {
	Grading *service.GradingService
}

func NewGradingController(grading *service.GradingService) *GradingController {
	return &GradingController{Grading: grading}
}

// @Summary List submissions awaiting manual grading
// @Tags grading
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "quiz id"
// @Success 200 {object} util.Response
// @Router /api/teacher/quizzes/{id}/manual [get]
func (c *GradingController) ListPending(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	attempts, err := c.Grading.ListAttemptsNeedingManual(id)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}

type ManualGradeRequest struct {
	UserID uint             `json:"userId" binding:"required"`
	Grades map[uint]float64 `json:"grades" binding:"required"`
}

// @Summary Submit manual grades for a learner's quiz attempt
// @Tags grading
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "quiz id"
// @Param body body ManualGradeRequest true "per-question grades"
// @Success 200 {object} util.Response
// @Router /api/teacher/quizzes/{id}/manual [post]
func (c *GradingController) SaveManualGrades(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req ManualGradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	result, err := c.Grading.SaveManualGrades(id, req.UserID, req.Grades)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
