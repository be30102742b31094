package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeSlot 表示课表中的一个每周重复的时段，只能通过其所属课表进行增删改
type TimeSlot struct {
	ID        int64  `json:"id"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	SubjectID int64  `json:"subjectID"`
	FacultyID int64  `json:"facultyID"`
	Classroom string `json:"classroom"`
}

// Timetable 以 (classID, day) 为键，独占其下所有的时段。
// 插入第一个时段时惰性创建，删除最后一个时段时一并删除。
type Timetable struct {
	ID        int64      `json:"id"`
	ClassID   int64      `json:"classID"`
	Day       Day        `json:"day"`
	TimeSlots []TimeSlot `json:"timeSlots"`
	CreatedAt time.Time  `json:"createdAt"`
	Version   int32      `json:"-"`
}

// FlatSlot 是按时段展开后的课表记录，每条记录带上其所属课表的 classID 和 day，
// 并以 timetableID_slotID 形式的复合标识对外寻址
type FlatSlot struct {
	TimetableID int64  `json:"timetableID"`
	SlotID      int64  `json:"slotID"`
	ClassID     int64  `json:"classID"`
	Day         Day    `json:"day"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	SubjectID   int64  `json:"subjectID"`
	FacultyID   int64  `json:"facultyID"`
	Classroom   string `json:"classroom"`
}

// CompositeID 返回这条记录的复合标识
func (s *FlatSlot) CompositeID() string {
	return SlotCompositeID(s.TimetableID, s.SlotID)
}

func SlotCompositeID(timetableID int64, slotID int64) string {
	return fmt.Sprintf("%d_%d", timetableID, slotID)
}

// ParseSlotCompositeID 按第一个下划线切分复合标识
func ParseSlotCompositeID(compositeID string) (timetableID int64, slotID int64, err error) {
	left, right, found := strings.Cut(compositeID, "_")
	if !found {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidCompositeID, compositeID)
	}

	timetableID, err = strconv.ParseInt(left, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidCompositeID, compositeID)
	}

	slotID, err = strconv.ParseInt(right, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidCompositeID, compositeID)
	}

	return timetableID, slotID, nil
}
