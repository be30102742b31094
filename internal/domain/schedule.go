package domain

import "time"

type ScheduleStatus string

const (
	ScheduleStatusActive      ScheduleStatus = "active"
	ScheduleStatusSubstituted ScheduleStatus = "substituted"
	ScheduleStatusCancelled   ScheduleStatus = "cancelled"
)

// Schedule 表示一次性的、指定日期的授课安排，区别于每周重复的课表时段。
// 被未结束的代课申请引用时不允许删除。
type Schedule struct {
	ID                  int64          `json:"id"`
	Date                time.Time      `json:"date"`
	Day                 Day            `json:"day"`
	StartTime           string         `json:"startTime"`
	EndTime             string         `json:"endTime"`
	Classroom           string         `json:"classroom"`
	ClassID             int64          `json:"classID"`
	FacultyID           int64          `json:"facultyID"`
	SubjectID           int64          `json:"subjectID"`
	Status              ScheduleStatus `json:"status"`
	SubstituteFacultyID *int64         `json:"substituteFacultyID"`
	Notes               string         `json:"notes"`
	UpdatedBy           int64          `json:"updatedBy"`
	LastUpdated         time.Time      `json:"lastUpdated"`
	CreatedAt           time.Time      `json:"createdAt"`
	Version             int32          `json:"-"`
}
