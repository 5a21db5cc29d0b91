package model

import "time"

// BaseModel 通用审计字段（所有业务模型嵌入）
// 课程、讲师与排课均为只增不改，因此不带软删除与乐观锁版本号
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy *string   `gorm:"type:uuid"                          json:"created_by,omitempty"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
