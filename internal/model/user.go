package model

import "strings"

// Role 用户角色，封闭取值：admin | instructor
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleInstructor Role = "instructor"
)

// Valid 判断角色是否属于已知取值
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleInstructor:
		return true
	}
	return false
}

// User 用户表：对应 users（管理员与讲师共用）
type User struct {
	UserID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name         string `gorm:"type:varchar(100);not null"                     json:"name"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         Role   `gorm:"type:varchar(20);not null"                      json:"role"`
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// NormalizeEmail 邮箱统一去空格并转小写，保证唯一性按不区分大小写比较
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
