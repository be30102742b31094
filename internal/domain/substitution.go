package domain

import (
	"fmt"
	"strings"
	"time"
)

type SubstitutionStatus string

const (
	SubstitutionStatusPending   SubstitutionStatus = "pending"
	SubstitutionStatusApproved  SubstitutionStatus = "approved"
	SubstitutionStatusRejected  SubstitutionStatus = "rejected"
	SubstitutionStatusCompleted SubstitutionStatus = "completed"
)

// substitutionTransitions 定义了代课申请的状态机：
// pending -> approved | rejected，approved -> completed，其余状态均为终态
var substitutionTransitions = map[SubstitutionStatus][]SubstitutionStatus{
	SubstitutionStatusPending:  {SubstitutionStatusApproved, SubstitutionStatusRejected},
	SubstitutionStatusApproved: {SubstitutionStatusCompleted},
}

// CanTransition 判断代课申请能否从 from 状态转移到 to 状态
func CanTransition(from SubstitutionStatus, to SubstitutionStatus) bool {
	for _, next := range substitutionTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Substitution 表示一次代课申请。状态只能通过状态机转移，
// 进入终态（rejected、completed）后不允许再修改。
type Substitution struct {
	ID                  int64              `json:"id"`
	Date                time.Time          `json:"date"`
	OriginalFacultyID   int64              `json:"originalFacultyID"`
	SubstituteFacultyID *int64             `json:"substituteFacultyID"`
	SubjectID           int64              `json:"subjectID"`
	ScheduleID          *int64             `json:"scheduleID"`
	Reason              string             `json:"reason"`
	Classroom           string             `json:"classroom"`
	TimeSlot            string             `json:"timeSlot"`
	Status              SubstitutionStatus `json:"status"`
	CreatedAt           time.Time          `json:"createdAt"`
	Version             int32              `json:"-"`
}

// ProposedRange 解析申请中填写的代课时段
func (s *Substitution) ProposedRange() (TimeRange, error) {
	startTime, endTime, found := strings.Cut(s.TimeSlot, "-")
	if !found {
		return TimeRange{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s.TimeSlot)
	}
	return ParseTimeRange(startTime, endTime)
}
