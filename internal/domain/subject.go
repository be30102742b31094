package domain

import "time"

type Subject struct {
	ID          int64     `json:"id"`
	SubjectName string    `json:"subjectName"`
	SubjectCode string    `json:"subjectCode"`
	Credits     int32     `json:"credits"`
	Department  string    `json:"department"`
	Semester    int32     `json:"semester"`
	CreatedAt   time.Time `json:"createdAt"`
	Version     int32     `json:"-"`
}
