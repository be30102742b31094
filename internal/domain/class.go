package domain

import "time"

// ClassGroup 表示一个按院系和学期划分的学生班级
type ClassGroup struct {
	ID         int64     `json:"id"`
	ClassName  string    `json:"className"`
	CourseCode string    `json:"courseCode"`
	Department string    `json:"department"`
	Semester   int32     `json:"semester"`
	CreatedAt  time.Time `json:"createdAt"`
	Version    int32     `json:"-"`
}
