package model

// CourseLevel 课程难度
type CourseLevel string

const (
	LevelBeginner     CourseLevel = "Beginner"
	LevelIntermediate CourseLevel = "Intermediate"
	LevelAdvanced     CourseLevel = "Advanced"
)

// Course 课程表：对应 courses
type Course struct {
	CourseID    string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_id"`
	Name        string      `gorm:"type:varchar(200);not null"                     json:"name"`
	Level       CourseLevel `gorm:"type:varchar(20);not null"                      json:"level"`
	Description string      `gorm:"type:text;not null;default:''"                  json:"description"`
	ImageURL    *string     `gorm:"type:varchar(500)"                              json:"image_url,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Course) TableName() string { return "courses" }
