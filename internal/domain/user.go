package domain

import (
	"time"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleFaculty Role = "faculty"
	RoleStudent Role = "student"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	Department   string    `json:"department"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}

// CanActForFaculty 判断当前用户能否以某位教师的名义操作：
// 管理员可以替任意教师操作，教师只能操作自己名下的记录
func (u *User) CanActForFaculty(facultyID int64) bool {
	return u.Role == RoleAdmin || u.ID == facultyID
}
