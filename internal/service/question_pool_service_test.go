package service

import (
	"math/rand"
	"testing"

	"lms_backend/internal/model"
)

func TestResolveIsStickyPerLearner(t *testing.T) {
	e := newEngineEnv(t)
	course := e.seedCourse(t)
	lesson := e.seedLesson(t, course.ID, nil)
	quiz := e.seedQuiz(t, lesson.ID, func(q *model.Quiz) {
		q.ShowQuestions = 3
	})

	category := &model.QuestionCategory{Name: "pool"}
	e.create(t, category)
	for i := 0; i < 10; i++ {
		e.seedCategoryQuestion(t, category.ID, 0)
	}
	e.attachCategory(t, quiz.ID, category.ID, 10, 0)

	const userID = 1
	first, err := e.pool.Resolve(quiz.ID, userID)
	if err != nil {
		t.Fatalf("first Resolve: %v", err)
	}
	if len(first) != 3 {
		t.Fatalf("resolved %d questions, want 3", len(first))
	}

	// Every later resolution returns the recorded set in the recorded order.
	for i := 0; i < 5; i++ {
		again, err := e.pool.Resolve(quiz.ID, userID)
		if err != nil {
			t.Fatalf("repeat Resolve: %v", err)
		}
		firstIDs := questionIDs(first)
		againIDs := questionIDs(again)
		if len(againIDs) != len(firstIDs) {
			t.Fatalf("repeat resolution size %d, want %d", len(againIDs), len(firstIDs))
		}
		for j := range firstIDs {
			if againIDs[j] != firstIDs[j] {
				t.Fatalf("repeat resolution changed: %v vs %v", againIDs, firstIDs)
			}
		}
	}
}

func TestResolveExpandsPlaceholdersWithoutDuplicates(t *testing.T) {
	e := newEngineEnv(t)
	course := e.seedCourse(t)
	lesson := e.seedLesson(t, course.ID, nil)
	quiz := e.seedQuiz(t, lesson.ID, nil)

	category := &model.QuestionCategory{Name: "shared"}
	e.create(t, category)

	inCategory := e.seedCategoryQuestion(t, category.ID, 0)
	e.seedCategoryQuestion(t, category.ID, 0)

	// The concrete reference comes first; the placeholder must not re-draw
	// the same question.
	e.attachQuestion(t, quiz.ID, inCategory.ID, 0)
	e.attachCategory(t, quiz.ID, category.ID, 2, 1)

	questions, err := e.pool.Resolve(quiz.ID, 1)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	seen := make(map[uint]bool)
	for _, q := range questions {
		if seen[q.ID] {
			t.Fatalf("question %d appears twice", q.ID)
		}
		seen[q.ID] = true
	}
	// Concrete entry plus the one remaining category member.
	if len(questions) != 2 {
		t.Errorf("resolved %d questions, want 2", len(questions))
	}
	if questions[0].ID != inCategory.ID {
		t.Errorf("first question = %d, want the concrete entry %d", questions[0].ID, inCategory.ID)
	}
}

func TestResolveUndersizedCategoryYieldsWhatItHas(t *testing.T) {
	e := newEngineEnv(t)
	course := e.seedCourse(t)
	lesson := e.seedLesson(t, course.ID, nil)
	quiz := e.seedQuiz(t, lesson.ID, nil)

	category := &model.QuestionCategory{Name: "small"}
	e.create(t, category)
	e.seedCategoryQuestion(t, category.ID, 0)
	e.seedCategoryQuestion(t, category.ID, 0)

	e.attachCategory(t, quiz.ID, category.ID, 5, 0)

	questions, err := e.pool.Resolve(quiz.ID, 1)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(questions) != 2 {
		t.Errorf("resolved %d questions, want the 2 that exist", len(questions))
	}
}

func TestResolveSamplingKeepsConfiguredOrder(t *testing.T) {
	e := newEngineEnv(t)
	course := e.seedCourse(t)
	lesson := e.seedLesson(t, course.ID, nil)
	quiz := e.seedQuiz(t, lesson.ID, func(q *model.Quiz) {
		q.ShowQuestions = 3
	})

	var attached []uint
	for i := 0; i < 6; i++ {
		q := e.seedBooleanQuestion(t, 1, "true")
		e.attachQuestion(t, quiz.ID, q.ID, i)
		attached = append(attached, q.ID)
	}

	position := make(map[uint]int, len(attached))
	for i, id := range attached {
		position[id] = i
	}

	questions, err := e.pool.Resolve(quiz.ID, 1)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(questions) != 3 {
		t.Fatalf("resolved %d questions, want 3", len(questions))
	}
	for i := 1; i < len(questions); i++ {
		if position[questions[i-1].ID] > position[questions[i].ID] {
			t.Fatalf("sample broke the configured order: %v", questionIDs(questions))
		}
	}
}

func TestResolveSkipsDeletedQuestions(t *testing.T) {
	e := newEngineEnv(t)
	course := e.seedCourse(t)
	lesson := e.seedLesson(t, course.ID, nil)
	quiz := e.seedQuiz(t, lesson.ID, nil)

	kept := e.seedBooleanQuestion(t, 1, "true")
	doomed := e.seedBooleanQuestion(t, 1, "true")
	e.attachQuestion(t, quiz.ID, kept.ID, 0)
	e.attachQuestion(t, quiz.ID, doomed.ID, 1)

	const userID = 1
	if _, err := e.pool.Resolve(quiz.ID, userID); err != nil {
		t.Fatalf("initial Resolve: %v", err)
	}
	if err := e.questions.Delete(doomed.ID); err != nil {
		t.Fatalf("delete question: %v", err)
	}

	questions, err := e.pool.Resolve(quiz.ID, userID)
	if err != nil {
		t.Fatalf("Resolve after delete: %v", err)
	}
	if len(questions) != 1 || questions[0].ID != kept.ID {
		t.Errorf("resolved %v, want only question %d", questionIDs(questions), kept.ID)
	}
}

func TestResolveForEditingIgnoresSampling(t *testing.T) {
	e := newEngineEnv(t)
	course := e.seedCourse(t)
	lesson := e.seedLesson(t, course.ID, nil)
	quiz := e.seedQuiz(t, lesson.ID, func(q *model.Quiz) {
		q.ShowQuestions = 1
		q.RandomizeOrder = true
	})

	var attached []uint
	for i := 0; i < 4; i++ {
		q := e.seedBooleanQuestion(t, 1, "true")
		e.attachQuestion(t, quiz.ID, q.ID, i)
		attached = append(attached, q.ID)
	}

	questions, err := e.pool.ResolveForEditing(quiz.ID)
	if err != nil {
		t.Fatalf("ResolveForEditing: %v", err)
	}
	if len(questions) != 4 {
		t.Fatalf("editing view has %d questions, want all 4", len(questions))
	}
	for i, id := range attached {
		if questions[i].ID != id {
			t.Fatalf("editing view order %v, want configured order %v", questionIDs(questions), attached)
		}
	}

	// The editing view never creates an attempt.
	var count int64
	e.db.Model(&model.QuizAttempt{}).Where("quiz_id = ?", quiz.ID).Count(&count)
	if count != 0 {
		t.Errorf("attempt rows = %d, want 0", count)
	}
}

func TestCategoryAuthorRestriction(t *testing.T) {
	e := newEngineEnv(t)
	e.cfg.Quiz.RestrictCategoryAuthor = true

	teacher := &model.User{Name: "T", Email: "t@example.com", Password: "x", Role: model.Teacher}
	e.create(t, teacher)
	admin := &model.User{Name: "A", Email: "a@example.com", Password: "x", Role: model.Admin}
	e.create(t, admin)

	course := e.seedCourse(t)
	category := &model.QuestionCategory{Name: "restricted"}
	e.create(t, category)

	own := e.seedCategoryQuestion(t, category.ID, teacher.ID)
	e.seedCategoryQuestion(t, category.ID, admin.ID)

	teacherLesson := e.seedLesson(t, course.ID, nil)
	teacherQuiz := e.seedQuiz(t, teacherLesson.ID, func(q *model.Quiz) {
		q.OwnerID = teacher.ID
	})
	e.attachCategory(t, teacherQuiz.ID, category.ID, 10, 0)

	questions, err := e.pool.Resolve(teacherQuiz.ID, 1)
	if err != nil {
		t.Fatalf("Resolve teacher quiz: %v", err)
	}
	if len(questions) != 1 || questions[0].ID != own.ID {
		t.Errorf("teacher quiz resolved %v, want only own question %d", questionIDs(questions), own.ID)
	}

	// An administrator's quiz draws from the whole category.
	adminLesson := e.seedLesson(t, course.ID, nil)
	adminQuiz := e.seedQuiz(t, adminLesson.ID, func(q *model.Quiz) {
		q.OwnerID = admin.ID
	})
	e.attachCategory(t, adminQuiz.ID, category.ID, 10, 0)

	questions, err = e.pool.Resolve(adminQuiz.ID, 1)
	if err != nil {
		t.Fatalf("Resolve admin quiz: %v", err)
	}
	if len(questions) != 2 {
		t.Errorf("admin quiz resolved %d questions, want 2", len(questions))
	}
}

func TestSampleInOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	ids := []uint{10, 20, 30, 40, 50}

	for i := 0; i < 20; i++ {
		sampled := sampleInOrder(rng, ids, 3)
		if len(sampled) != 3 {
			t.Fatalf("sample size = %d, want 3", len(sampled))
		}
		for j := 1; j < len(sampled); j++ {
			if sampled[j-1] >= sampled[j] {
				t.Fatalf("sample %v is not in source order", sampled)
			}
		}
	}
}
