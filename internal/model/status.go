package model

type LessonState string

const (
	LessonNotStarted LessonState = "not-started"
	LessonInProgress LessonState = "in-progress"
	LessonUngraded   LessonState = "ungraded"
	LessonGraded     LessonState = "graded"
	LessonPassed     LessonState = "passed"
	LessonFailed     LessonState = "failed"
	LessonComplete   LessonState = "complete"
)

// IsCompleted reports whether the state counts towards course and module
// completion percentages.
func (s LessonState) IsCompleted() bool {
	return s == LessonComplete || s == LessonPassed || s == LessonGraded
}

// LessonStatus is the one active record per (lesson, user).
type LessonStatus struct {
	BaseModel
	LessonID uint        `gorm:"uniqueIndex:idx_lesson_user;not null" json:"lessonId"`
	UserID   uint        `gorm:"uniqueIndex:idx_lesson_user;not null" json:"userId"`
	Status   LessonState `gorm:"size:20;not null" json:"status"`
	Grade    *float64    `json:"grade,omitempty"`
}

func (LessonStatus) TableName() string {
	return "lesson_statuses"
}

type CourseState string

const (
	CourseNotStarted CourseState = "not-started"
	CourseInProgress CourseState = "in-progress"
	CourseComplete   CourseState = "complete"
)

// CourseStatus is the one active record per (course, user). Percent and
// CompletedLessons are derived values, rebuilt from the current lesson
// statuses on every refresh rather than adjusted incrementally.
type CourseStatus struct {
	BaseModel
	CourseID         uint        `gorm:"uniqueIndex:idx_course_user;not null" json:"courseId"`
	UserID           uint        `gorm:"uniqueIndex:idx_course_user;not null" json:"userId"`
	Status           CourseState `gorm:"size:20;not null" json:"status"`
	Percent          int         `gorm:"default:0" json:"percent"`
	CompletedLessons int         `gorm:"default:0" json:"completedLessons"`
}

func (CourseStatus) TableName() string {
	return "course_statuses"
}
