package dto

// ── 讲师模块 DTO ──

// CreateInstructorRequest 创建讲师请求
type CreateInstructorRequest struct {
	Name  string `json:"name"  binding:"required,min=2,max=100"`
	Email string `json:"email" binding:"required,email,max=255"`
}

// CreateInstructorResponse 创建讲师响应
// TempPassword 仅在本次响应中明文返回一次，之后任何接口都无法再次获取
type CreateInstructorResponse struct {
	User         UserResponse `json:"user"`
	TempPassword string       `json:"temp_password"`
}
