package scheduling

import (
	"fmt"

	"github.com/sysu-ecnc-dev/timetable-manager/backend/internal/domain"
)

type CommitmentKind string

const (
	CommitmentKindTimeSlot CommitmentKind = "timeSlot"
	CommitmentKindSchedule CommitmentKind = "schedule"
)

// Commitment 表示某位教师已经占用的一段时间，来源可以是每周课表时段或一次性的授课安排
type Commitment struct {
	Kind  CommitmentKind
	ID    int64
	Range domain.TimeRange
}

// ConflictError 表示提议的时间与教师已有的某个时间占用重叠
type ConflictError struct {
	With Commitment
}

func (e *ConflictError) Error() string {
	switch e.With.Kind {
	case CommitmentKindSchedule:
		return fmt.Sprintf("该教师在 %s 已有授课安排", e.With.Range)
	default:
		return fmt.Sprintf("该教师在 %s 已有课表时段", e.With.Range)
	}
}

// FindConflict 在已有的时间占用中查找第一个与提议区间重叠的占用，没有冲突时返回 nil。
// 多个占用同时冲突时不做排序，按传入顺序报告第一个。
func FindConflict(proposed domain.TimeRange, commitments []Commitment) *ConflictError {
	for _, c := range commitments {
		if proposed.Overlaps(c.Range) {
			return &ConflictError{With: c}
		}
	}
	return nil
}

// SlotCommitments 将某位教师的课表时段转换为时间占用，excludeSlotID 用于更新时排除时段自身
func SlotCommitments(slots []*domain.FlatSlot, excludeSlotID int64) ([]Commitment, error) {
	commitments := make([]Commitment, 0, len(slots))
	for _, slot := range slots {
		if slot.SlotID == excludeSlotID {
			continue
		}

		tr, err := domain.ParseTimeRange(slot.StartTime, slot.EndTime)
		if err != nil {
			return nil, err
		}

		commitments = append(commitments, Commitment{
			Kind:  CommitmentKindTimeSlot,
			ID:    slot.SlotID,
			Range: tr,
		})
	}
	return commitments, nil
}

// ScheduleCommitments 将某位教师非取消状态的授课安排转换为时间占用
func ScheduleCommitments(schedules []*domain.Schedule, excludeScheduleID int64) ([]Commitment, error) {
	commitments := make([]Commitment, 0, len(schedules))
	for _, schedule := range schedules {
		if schedule.ID == excludeScheduleID {
			continue
		}
		if schedule.Status == domain.ScheduleStatusCancelled {
			continue
		}

		tr, err := domain.ParseTimeRange(schedule.StartTime, schedule.EndTime)
		if err != nil {
			return nil, err
		}

		commitments = append(commitments, Commitment{
			Kind:  CommitmentKindSchedule,
			ID:    schedule.ID,
			Range: tr,
		})
	}
	return commitments, nil
}
