package service

import (
	"testing"

	"lms_backend/internal/model"
)

func TestCoursePercentage(t *testing.T) {
	e := newEngineEnv(t)
	course := e.seedCourse(t)

	module := &model.CourseModule{CourseID: course.ID, Title: "Basics"}
	e.create(t, module)

	inModule1 := e.seedLesson(t, course.ID, &module.ID)
	inModule2 := e.seedLesson(t, course.ID, &module.ID)
	outside1 := e.seedLesson(t, course.ID, nil)
	e.seedLesson(t, course.ID, nil)

	const userID = 1

	percent, completed, total, err := e.progress.CoursePercentage(course.ID, userID)
	if err != nil {
		t.Fatalf("CoursePercentage: %v", err)
	}
	if percent != 0 || completed != 0 || total != 4 {
		t.Fatalf("fresh course = (%d%%, %d/%d), want (0%%, 0/4)", percent, completed, total)
	}

	// Complete one module lesson and one standalone lesson.
	if err := e.statuses.UpsertLessonStatus(inModule1.ID, userID, model.LessonComplete, nil); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := e.statuses.UpsertLessonStatus(outside1.ID, userID, model.LessonPassed, nil); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	// In-progress and failed states do not count.
	if err := e.statuses.UpsertLessonStatus(inModule2.ID, userID, model.LessonFailed, nil); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	percent, completed, total, err = e.progress.CoursePercentage(course.ID, userID)
	if err != nil {
		t.Fatalf("CoursePercentage: %v", err)
	}
	if percent != 50 || completed != 2 || total != 4 {
		t.Errorf("course = (%d%%, %d/%d), want (50%%, 2/4)", percent, completed, total)
	}

	modulePercent, ok, err := e.progress.ModulePercentage(module.ID, course.ID, userID)
	if err != nil {
		t.Fatalf("ModulePercentage: %v", err)
	}
	if !ok || modulePercent != 50 {
		t.Errorf("module = (%v, %v), want (50, true)", modulePercent, ok)
	}
}

func TestModulePercentageEmptyModule(t *testing.T) {
	e := newEngineEnv(t)
	course := e.seedCourse(t)
	module := &model.CourseModule{CourseID: course.ID, Title: "Empty"}
	e.create(t, module)

	percent, ok, err := e.progress.ModulePercentage(module.ID, course.ID, 1)
	if err != nil {
		t.Fatalf("ModulePercentage: %v", err)
	}
	if ok {
		t.Error("a module with no lessons must report no progress, not a percentage")
	}
	if percent != 0 {
		t.Errorf("percent = %v, want 0", percent)
	}
}

func TestRefreshCourseStatusTransitions(t *testing.T) {
	e := newEngineEnv(t)
	course := e.seedCourse(t)
	l1 := e.seedLesson(t, course.ID, nil)
	l2 := e.seedLesson(t, course.ID, nil)

	const userID = 1

	if err := e.statuses.UpsertLessonStatus(l1.ID, userID, model.LessonComplete, nil); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := e.progress.RefreshCourseStatus(course.ID, userID); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	status, err := e.statuses.GetCourseStatus(course.ID, userID)
	if err != nil {
		t.Fatalf("get course status: %v", err)
	}
	if status.Status != model.CourseInProgress || status.Percent != 50 || status.CompletedLessons != 1 {
		t.Errorf("status = (%v, %d%%, %d), want (in-progress, 50%%, 1)", status.Status, status.Percent, status.CompletedLessons)
	}

	if err := e.statuses.UpsertLessonStatus(l2.ID, userID, model.LessonGraded, nil); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := e.progress.RefreshCourseStatus(course.ID, userID); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	status, err = e.statuses.GetCourseStatus(course.ID, userID)
	if err != nil {
		t.Fatalf("get course status: %v", err)
	}
	if status.Status != model.CourseComplete || status.Percent != 100 {
		t.Errorf("status = (%v, %d%%), want (complete, 100%%)", status.Status, status.Percent)
	}

	// Resetting a lesson drops the course straight back out of complete.
	if err := e.statuses.DeleteLessonStatus(l2.ID, userID); err != nil {
		t.Fatalf("delete lesson status: %v", err)
	}
	if err := e.progress.RefreshCourseStatus(course.ID, userID); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	status, err = e.statuses.GetCourseStatus(course.ID, userID)
	if err != nil {
		t.Fatalf("get course status: %v", err)
	}
	if status.Status != model.CourseInProgress || status.Percent != 50 {
		t.Errorf("status = (%v, %d%%), want (in-progress, 50%%)", status.Status, status.Percent)
	}
}

func TestCourseWithNoLessonsNeverCompletes(t *testing.T) {
	e := newEngineEnv(t)
	course := e.seedCourse(t)

	if err := e.progress.RefreshCourseStatus(course.ID, 1); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	status, err := e.statuses.GetCourseStatus(course.ID, 1)
	if err != nil {
		t.Fatalf("get course status: %v", err)
	}
	if status.Status != model.CourseInProgress {
		t.Errorf("empty course status = %v, want in-progress", status.Status)
	}
	if status.Percent != 0 {
		t.Errorf("empty course percent = %d, want 0", status.Percent)
	}
}

func TestGradingUpdatesCourseProgress(t *testing.T) {
	e := newEngineEnv(t)
	course := e.seedCourse(t)
	quizLesson := e.seedLesson(t, course.ID, nil)
	e.seedLesson(t, course.ID, nil)
	quiz := e.seedQuiz(t, quizLesson.ID, nil)

	q := e.seedBooleanQuestion(t, 1, "true")
	e.attachQuestion(t, quiz.ID, q.ID, 0)

	const userID = 1
	if _, err := e.grading.SubmitQuiz(quiz.ID, userID, map[uint]string{q.ID: "true"}); err != nil {
		t.Fatalf("SubmitQuiz: %v", err)
	}

	status, err := e.statuses.GetCourseStatus(course.ID, userID)
	if err != nil {
		t.Fatalf("get course status: %v", err)
	}
	if status.Percent != 50 || status.CompletedLessons != 1 {
		t.Errorf("course after grading = (%d%%, %d), want (50%%, 1)", status.Percent, status.CompletedLessons)
	}
}
