package model

type Lesson struct {
	BaseModel
	CourseID       uint   `gorm:"index;not null" json:"courseId"`
	ModuleID       *uint  `gorm:"index" json:"moduleId,omitempty"`
	PrerequisiteID *uint  `gorm:"index" json:"prerequisiteId,omitempty"`
	Title          string `gorm:"size:255;not null" json:"title"`
	Content        string `gorm:"type:text" json:"content"`
	Order          int    `gorm:"default:0" json:"order"`
}

func (Lesson) TableName() string {
	return "lessons"
}
