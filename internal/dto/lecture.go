package dto

// ── 排课模块 DTO ──

// AssignLectureRequest 排课请求
type AssignLectureRequest struct {
	CourseID     string `json:"course_id"     binding:"required,uuid"`
	InstructorID string `json:"instructor_id" binding:"required,uuid"`
	Date         string `json:"date"          binding:"required,calendardate"` // YYYY-MM-DD，按 UTC 日历日
}

// LectureResponse 排课信息响应
// Instructor 仅在管理员视图中返回
type LectureResponse struct {
	ID         string         `json:"id"`
	Date       string         `json:"date"`
	Course     CourseRef      `json:"course"`
	Instructor *InstructorRef `json:"instructor,omitempty"`
	CreatedAt  string         `json:"created_at"`
}

// ScheduleConflictData 排课冲突响应数据
type ScheduleConflictData struct {
	InstructorID string `json:"instructor_id"`
	Date         string `json:"date"`
}
