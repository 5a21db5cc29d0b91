package dto

// ── 课程模块 DTO ──

// CreateCourseRequest 创建课程请求
type CreateCourseRequest struct {
	Name        string  `json:"name"        binding:"required,min=2,max=200"`
	Level       string  `json:"level"       binding:"required,oneof=Beginner Intermediate Advanced"`
	Description string  `json:"description" binding:"required,max=5000"`
	ImageURL    *string `json:"image_url"   binding:"omitempty,url,max=500"`
}

// CourseResponse 课程信息响应
type CourseResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Level       string  `json:"level"`
	Description string  `json:"description"`
	ImageURL    *string `json:"image_url,omitempty"`
	CreatedAt   string  `json:"created_at"`
}
