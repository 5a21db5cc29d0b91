package model

import "time"

// DateLayout 课程日期格式，仅精确到日历日
const DateLayout = "2006-01-02"

// Lecture 排课表：对应 lectures
// (instructor_id, lecture_date) 唯一：同一讲师同一天最多一节课
type Lecture struct {
	LectureID    string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"          json:"lecture_id"`
	Seq          int64     `gorm:"->;autoIncrement"                                        json:"-"` // 插入顺序，由数据库维护
	CourseID     string    `gorm:"type:uuid;not null"                                      json:"course_id"`
	InstructorID string    `gorm:"type:uuid;not null;uniqueIndex:uq_lectures_instructor_date,priority:1" json:"instructor_id"`
	LectureDate  time.Time `gorm:"type:date;not null;uniqueIndex:uq_lectures_instructor_date,priority:2" json:"lecture_date"`
	BaseModel

	// 关联
	Course     *Course `gorm:"foreignKey:CourseID;references:CourseID"   json:"course,omitempty"`
	Instructor *User   `gorm:"foreignKey:InstructorID;references:UserID" json:"instructor,omitempty"`
}

// TableName 指定表名
func (Lecture) TableName() string { return "lectures" }

// DateString 返回 UTC 日历日字符串
func (l *Lecture) DateString() string {
	return l.LectureDate.UTC().Format(DateLayout)
}
