package scheduling

import (
	"sort"

	"github.com/sysu-ecnc-dev/timetable-manager/backend/internal/domain"
)

// EffectiveSlot 是叠加了代课信息之后某个时段的实际授课视图
type EffectiveSlot struct {
	TimetableID        int64                     `json:"timetableID"`
	SlotID             int64                     `json:"slotID"`
	ClassID            int64                     `json:"classID"`
	Day                domain.Day                `json:"day"`
	StartTime          string                    `json:"startTime"`
	EndTime            string                    `json:"endTime"`
	SubjectID          int64                     `json:"subjectID"`
	Classroom          string                    `json:"classroom"`
	FacultyID          *int64                    `json:"facultyID"`
	HasSubstitution    bool                      `json:"hasSubstitution"`
	SubstitutionID     int64                     `json:"substitutionID,omitempty"`
	SubstitutionStatus domain.SubstitutionStatus `json:"substitutionStatus,omitempty"`
}

// Reconcile 把待定或已批准的代课申请叠加到课表时段上，得到实际授课视图。
// 匹配按 科目+原教师+教室 的自然键进行，而不是按外键；当不同课表中存在相同
// 的自然键组合时无法区分代课针对的是哪一个时段，这是已知的限制。
// 命中且未指定代课教师时 FacultyID 为 nil，表示“代课教师待定”。
// 结果按开始时间升序排列，输入不变时结果稳定。
func Reconcile(slots []*domain.FlatSlot, substitutions []*domain.Substitution) []EffectiveSlot {
	effective := make([]EffectiveSlot, 0, len(slots))

	for _, slot := range slots {
		es := EffectiveSlot{
			TimetableID: slot.TimetableID,
			SlotID:      slot.SlotID,
			ClassID:     slot.ClassID,
			Day:         slot.Day,
			StartTime:   slot.StartTime,
			EndTime:     slot.EndTime,
			SubjectID:   slot.SubjectID,
			Classroom:   slot.Classroom,
		}

		sub := matchSubstitution(slot, substitutions)
		if sub != nil {
			es.HasSubstitution = true
			es.SubstitutionID = sub.ID
			es.SubstitutionStatus = sub.Status
			es.FacultyID = sub.SubstituteFacultyID
		} else {
			facultyID := slot.FacultyID
			es.FacultyID = &facultyID
		}

		effective = append(effective, es)
	}

	sort.SliceStable(effective, func(i, j int) bool {
		return effective[i].StartTime < effective[j].StartTime
	})

	return effective
}

func matchSubstitution(slot *domain.FlatSlot, substitutions []*domain.Substitution) *domain.Substitution {
	for _, sub := range substitutions {
		if sub.Status != domain.SubstitutionStatusApproved && sub.Status != domain.SubstitutionStatusPending {
			continue
		}
		if sub.SubjectID == slot.SubjectID && sub.OriginalFacultyID == slot.FacultyID && sub.Classroom == slot.Classroom {
			return sub
		}
	}
	return nil
}
