package dto

// ── 通用响应 ──

// UserResponse 用户信息响应（脱敏，不含密码哈希）
type UserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// CourseRef 课程简要信息（排课列表反规范化展示）
type CourseRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// InstructorRef 讲师简要信息（排课列表反规范化展示）
type InstructorRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
