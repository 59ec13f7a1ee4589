package model

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple-choice"
	Boolean        QuestionType = "boolean"
	GapFill        QuestionType = "gap-fill"
	SingleLine     QuestionType = "single-line"
	MultiLine      QuestionType = "multi-line"
	FileUpload     QuestionType = "file-upload"
)

// Question lives in a shared bank and may be referenced by many quizzes.
//
// Answer-key usage per type:
//   - multiple-choice: RightAnswers/WrongAnswers hold JSON string arrays
//   - boolean:         Answer is "true" or "false"
//   - gap-fill:        Answer is "prefix||gap||suffix"; GapIsPattern opts the
//     gap into regex matching
//   - single-line, multi-line, file-upload: no key, manually graded
type Question struct {
	BaseModel
	AuthorID     uint         `gorm:"index" json:"authorId"`
	CategoryID   *uint        `gorm:"index" json:"categoryId,omitempty"`
	Type         QuestionType `gorm:"size:20;not null" json:"type"`
	Text         string       `gorm:"type:text;not null" json:"text"`
	Grade        float64      `gorm:"default:1" json:"grade"`
	Answer       string       `gorm:"type:text" json:"answer,omitempty"`
	RightAnswers string       `gorm:"type:text" json:"rightAnswers,omitempty"`
	WrongAnswers string       `gorm:"type:text" json:"wrongAnswers,omitempty"`
	GapIsPattern bool         `gorm:"default:false" json:"gapIsPattern"`
}

func (Question) TableName() string {
	return "questions"
}

type QuestionCategory struct {
	BaseModel
	Name string `gorm:"size:100;uniqueIndex;not null" json:"name"`
}

func (QuestionCategory) TableName() string {
	return "question_categories"
}
