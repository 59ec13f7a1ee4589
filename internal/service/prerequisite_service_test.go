package service

import (
	"testing"

	"lms_backend/internal/model"
)

func (e *engineEnv) chainLesson(t *testing.T, courseID uint, prereq *uint) *model.Lesson {
	t.Helper()
	lesson := &model.Lesson{CourseID: courseID, PrerequisiteID: prereq, Title: "chained"}
	e.create(t, lesson)
	return lesson
}

func TestIsLessonUnlocked(t *testing.T) {
	e := newEngineEnv(t)
	course := e.seedCourse(t)

	first := e.chainLesson(t, course.ID, nil)
	second := e.chainLesson(t, course.ID, &first.ID)

	const userID = 1

	unlocked, err := e.prereq.IsLessonUnlocked(first.ID, userID)
	if err != nil {
		t.Fatalf("IsLessonUnlocked: %v", err)
	}
	if !unlocked {
		t.Error("lesson without prerequisite must be unlocked")
	}

	unlocked, err = e.prereq.IsLessonUnlocked(second.ID, userID)
	if err != nil {
		t.Fatalf("IsLessonUnlocked: %v", err)
	}
	if unlocked {
		t.Error("lesson must stay locked until its prerequisite completes")
	}

	if err := e.statuses.UpsertLessonStatus(first.ID, userID, model.LessonComplete, nil); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	unlocked, err = e.prereq.IsLessonUnlocked(second.ID, userID)
	if err != nil {
		t.Fatalf("IsLessonUnlocked: %v", err)
	}
	if !unlocked {
		t.Error("completing the prerequisite must unlock the lesson")
	}
}

func TestFindBlockingPrerequisiteWalksChain(t *testing.T) {
	e := newEngineEnv(t)
	course := e.seedCourse(t)

	a := e.chainLesson(t, course.ID, nil)
	b := e.chainLesson(t, course.ID, &a.ID)
	c := e.chainLesson(t, course.ID, &b.ID)

	const userID = 1

	// Nothing completed: the walk reaches the start of the chain.
	blocking, err := e.prereq.FindBlockingPrerequisite(c.ID, userID)
	if err != nil {
		t.Fatalf("FindBlockingPrerequisite: %v", err)
	}
	if blocking != a.ID {
		t.Errorf("blocking = %d, want deepest incomplete lesson %d", blocking, a.ID)
	}

	// Completing the deepest lesson moves the block one step up.
	if err := e.statuses.UpsertLessonStatus(a.ID, userID, model.LessonComplete, nil); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	blocking, err = e.prereq.FindBlockingPrerequisite(c.ID, userID)
	if err != nil {
		t.Fatalf("FindBlockingPrerequisite: %v", err)
	}
	if blocking != b.ID {
		t.Errorf("blocking = %d, want %d", blocking, b.ID)
	}

	if err := e.statuses.UpsertLessonStatus(b.ID, userID, model.LessonComplete, nil); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	blocking, err = e.prereq.FindBlockingPrerequisite(c.ID, userID)
	if err != nil {
		t.Fatalf("FindBlockingPrerequisite: %v", err)
	}
	if blocking != 0 {
		t.Errorf("blocking = %d, want 0 once the chain is complete", blocking)
	}
}

func TestFindBlockingPrerequisiteTerminatesOnCycle(t *testing.T) {
	e := newEngineEnv(t)
	course := e.seedCourse(t)

	a := e.chainLesson(t, course.ID, nil)
	b := e.chainLesson(t, course.ID, &a.ID)
	c := e.chainLesson(t, course.ID, &b.ID)

	// Close the loop: a now requires c.
	a.PrerequisiteID = &c.ID
	if err := e.lessons.Update(a); err != nil {
		t.Fatalf("update lesson: %v", err)
	}

	blocking, err := e.prereq.FindBlockingPrerequisite(c.ID, 1)
	if err != nil {
		t.Fatalf("FindBlockingPrerequisite on a cycle: %v", err)
	}
	if blocking != c.ID {
		t.Errorf("blocking = %d, want the repeated lesson %d", blocking, c.ID)
	}
}

func TestFindBlockingPrerequisiteDanglingReference(t *testing.T) {
	e := newEngineEnv(t)
	course := e.seedCourse(t)

	missing := uint(9999)
	lesson := e.chainLesson(t, course.ID, &missing)

	blocking, err := e.prereq.FindBlockingPrerequisite(lesson.ID, 1)
	if err != nil {
		t.Fatalf("FindBlockingPrerequisite: %v", err)
	}
	if blocking != missing {
		t.Errorf("blocking = %d, want the dangling id %d", blocking, missing)
	}
}

func TestIsCourseUnlocked(t *testing.T) {
	e := newEngineEnv(t)

	basic := e.seedCourse(t)
	lesson := e.seedLesson(t, basic.ID, nil)

	advanced := &model.Course{Title: "Advanced", Published: true, PrerequisiteID: &basic.ID}
	e.create(t, advanced)

	const userID = 1

	unlocked, err := e.prereq.IsCourseUnlocked(basic.ID, userID)
	if err != nil {
		t.Fatalf("IsCourseUnlocked: %v", err)
	}
	if !unlocked {
		t.Error("course without prerequisite must be unlocked")
	}

	unlocked, err = e.prereq.IsCourseUnlocked(advanced.ID, userID)
	if err != nil {
		t.Fatalf("IsCourseUnlocked: %v", err)
	}
	if unlocked {
		t.Error("advanced course must stay locked until the basic course completes")
	}

	if err := e.statuses.UpsertLessonStatus(lesson.ID, userID, model.LessonComplete, nil); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	unlocked, err = e.prereq.IsCourseUnlocked(advanced.ID, userID)
	if err != nil {
		t.Fatalf("IsCourseUnlocked: %v", err)
	}
	if !unlocked {
		t.Error("finishing every lesson of the prerequisite course must unlock the advanced course")
	}
}

func TestEmptyPrerequisiteCourseNeverUnlocks(t *testing.T) {
	e := newEngineEnv(t)

	empty := e.seedCourse(t)
	advanced := &model.Course{Title: "Advanced", Published: true, PrerequisiteID: &empty.ID}
	e.create(t, advanced)

	unlocked, err := e.prereq.IsCourseUnlocked(advanced.ID, 1)
	if err != nil {
		t.Fatalf("IsCourseUnlocked: %v", err)
	}
	if unlocked {
		t.Error("a prerequisite course with no lessons can never be complete")
	}
}
