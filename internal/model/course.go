package model

type Course struct {
	BaseModel
	Title          string `gorm:"size:255;not null" json:"title"`
	Description    string `gorm:"type:text" json:"description"`
	OwnerID        uint   `gorm:"index" json:"ownerId"`
	PrerequisiteID *uint  `gorm:"index" json:"prerequisiteId,omitempty"`
	Published      bool   `gorm:"default:false" json:"published"`
}

func (Course) TableName() string {
	return "courses"
}

// CourseModule groups lessons inside a course for progress sub-aggregation.
type CourseModule struct {
	BaseModel
	CourseID uint   `gorm:"index" json:"courseId"`
	Title    string `gorm:"size:255;not null" json:"title"`
	Order    int    `gorm:"default:0" json:"order"`
}

func (CourseModule) TableName() string {
	return "course_modules"
}
