package service

import (
	"encoding/json"
	"testing"

	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/pkg/database"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap db: %v", err)
	}
	// One connection only, so every query sees the same in-memory database.
	sqlDB.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// engineEnv wires the engine services against an in-memory database the way
// the application wires them against MySQL.
type engineEnv struct {
	db  *gorm.DB
	cfg *config.Config

	users     *repository.UserRepository
	courses   *repository.CourseRepository
	modules   *repository.ModuleRepository
	lessons   *repository.LessonRepository
	quizzes   *repository.QuizRepository
	questions *repository.QuestionRepository
	attempts  *repository.AttemptRepository
	statuses  *repository.StatusRepository

	pool      *QuestionPoolService
	grading   *GradingService
	progress  *ProgressService
	prereq    *PrerequisiteService
	quizSvc   *QuizService
	lessonSvc *LessonService
}

func newEngineEnv(t *testing.T) *engineEnv {
	t.Helper()
	db := newTestDB(t)
	cfg := &config.Config{}

	e := &engineEnv{
		db:        db,
		cfg:       cfg,
		users:     repository.NewUserRepository(db),
		courses:   repository.NewCourseRepository(db),
		modules:   repository.NewModuleRepository(db),
		lessons:   repository.NewLessonRepository(db),
		quizzes:   repository.NewQuizRepository(db),
		questions: repository.NewQuestionRepository(db),
		attempts:  repository.NewAttemptRepository(db),
		statuses:  repository.NewStatusRepository(db),
	}

	e.progress = NewProgressService(e.lessons, e.modules, e.statuses, nil)
	e.prereq = NewPrerequisiteService(e.lessons, e.courses, e.progress)
	e.pool = NewQuestionPoolService(e.quizzes, e.questions, e.attempts, e.users, cfg)
	e.grading = NewGradingService(e.quizzes, e.lessons, e.attempts, e.statuses, e.pool, e.progress, e.prereq, cfg)
	e.quizSvc = NewQuizService(e.quizzes, e.questions, e.attempts, e.statuses, e.lessons, e.pool, e.progress, e.prereq)
	e.lessonSvc = NewLessonService(e.lessons, e.quizzes, e.attempts, e.statuses, e.progress, e.prereq)

	return e
}

func (e *engineEnv) create(t *testing.T, v interface{}) {
	t.Helper()
	if err := e.db.Create(v).Error; err != nil {
		t.Fatalf("create fixture %T: %v", v, err)
	}
}

func (e *engineEnv) seedCourse(t *testing.T) *model.Course {
	t.Helper()
	course := &model.Course{Title: "Go Foundations", Published: true}
	e.create(t, course)
	return course
}

func (e *engineEnv) seedLesson(t *testing.T, courseID uint, moduleID *uint) *model.Lesson {
	t.Helper()
	lesson := &model.Lesson{CourseID: courseID, ModuleID: moduleID, Title: "Lesson"}
	e.create(t, lesson)
	return lesson
}

func (e *engineEnv) seedQuiz(t *testing.T, lessonID uint, mutate func(*model.Quiz)) *model.Quiz {
	t.Helper()
	quiz := &model.Quiz{LessonID: lessonID, GradeType: model.GradeAuto}
	if mutate != nil {
		mutate(quiz)
	}
	e.create(t, quiz)
	return quiz
}

func (e *engineEnv) seedChoiceQuestion(t *testing.T, grade float64, right, wrong []string) *model.Question {
	t.Helper()
	q := &model.Question{
		Type:         model.MultipleChoice,
		Text:         "pick",
		Grade:        grade,
		RightAnswers: mustJSON(t, right),
		WrongAnswers: mustJSON(t, wrong),
	}
	e.create(t, q)
	return q
}

func (e *engineEnv) seedBooleanQuestion(t *testing.T, grade float64, answer string) *model.Question {
	t.Helper()
	q := &model.Question{Type: model.Boolean, Text: "true or false", Grade: grade, Answer: answer}
	e.create(t, q)
	return q
}

func (e *engineEnv) seedManualQuestion(t *testing.T, grade float64) *model.Question {
	t.Helper()
	q := &model.Question{Type: model.MultiLine, Text: "explain", Grade: grade}
	e.create(t, q)
	return q
}

func (e *engineEnv) seedCategoryQuestion(t *testing.T, categoryID uint, authorID uint) *model.Question {
	t.Helper()
	q := &model.Question{
		Type:       model.Boolean,
		Text:       "from category",
		Grade:      1,
		Answer:     "true",
		CategoryID: &categoryID,
		AuthorID:   authorID,
	}
	e.create(t, q)
	return q
}

func (e *engineEnv) attachQuestion(t *testing.T, quizID, questionID uint, order int) *model.QuizQuestion {
	t.Helper()
	row := &model.QuizQuestion{QuizID: quizID, QuestionID: &questionID, Order: order}
	e.create(t, row)
	return row
}

func (e *engineEnv) attachCategory(t *testing.T, quizID, categoryID uint, count, order int) *model.QuizQuestion {
	t.Helper()
	row := &model.QuizQuestion{QuizID: quizID, CategoryID: &categoryID, Count: count, Order: order}
	e.create(t, row)
	return row
}

func (e *engineEnv) lessonStatus(t *testing.T, lessonID, userID uint) *model.LessonStatus {
	t.Helper()
	status, err := e.statuses.GetLessonStatus(lessonID, userID)
	if err != nil {
		t.Fatalf("lesson status: %v", err)
	}
	return status
}

func mustJSON(t *testing.T, v interface{}) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}

func questionIDs(questions []model.Question) []uint {
	ids := make([]uint, 0, len(questions))
	for _, q := range questions {
		ids = append(ids, q.ID)
	}
	return ids
}
