package model

type GradeType string

const (
	GradeAuto   GradeType = "auto"
	GradeManual GradeType = "manual"
)

type Quiz struct {
	BaseModel
	LessonID       uint      `gorm:"uniqueIndex;not null" json:"lessonId"`
	OwnerID        uint      `gorm:"index" json:"ownerId"`
	Passmark       float64   `gorm:"default:0" json:"passmark"`
	PassRequired   bool      `gorm:"default:false" json:"passRequired"`
	ShowQuestions  int       `gorm:"default:0" json:"showQuestions"`
	RandomizeOrder bool      `gorm:"default:false" json:"randomizeOrder"`
	GradeType      GradeType `gorm:"size:10;default:auto" json:"gradeType"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// QuizQuestion is one ordered entry of a quiz. A row either references a
// concrete question (QuestionID set) or is a category placeholder meaning
// "Count questions drawn from CategoryID".
type QuizQuestion struct {
	BaseModel
	QuizID     uint  `gorm:"index;not null" json:"quizId"`
	QuestionID *uint `gorm:"index" json:"questionId,omitempty"`
	CategoryID *uint `gorm:"index" json:"categoryId,omitempty"`
	Count      int   `gorm:"default:0" json:"count"`
	Order      int   `gorm:"default:0" json:"order"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

func (q *QuizQuestion) IsPlaceholder() bool {
	return q.QuestionID == nil && q.CategoryID != nil
}
