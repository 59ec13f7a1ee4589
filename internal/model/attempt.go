package model

import "time"

// QuizAttempt records one learner's interaction with a quiz. The resolved
// question id list is written the first time the learner is shown the quiz
// and never changes afterwards, so a returning learner is graded against the
// same set they answered.
type QuizAttempt struct {
	BaseModel
	QuizID              uint       `gorm:"index:idx_attempt_quiz_user;not null" json:"quizId"`
	UserID              uint       `gorm:"index:idx_attempt_quiz_user;not null" json:"userId"`
	ResolvedQuestionIDs string     `gorm:"type:text" json:"resolvedQuestionIds"`
	Answers             string     `gorm:"type:text" json:"answers"`
	QuestionGrades      string     `gorm:"type:text" json:"questionGrades"`
	Submitted           bool       `gorm:"default:false" json:"submitted"`
	NeedsManual         bool       `gorm:"default:false" json:"needsManual"`
	SubmittedAt         *time.Time `json:"submittedAt,omitempty"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
