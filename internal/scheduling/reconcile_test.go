package scheduling

import (
	"testing"

	"github.com/sysu-ecnc-dev/timetable-manager/backend/internal/domain"
)

func int64Ptr(v int64) *int64 {
	return &v
}

func TestReconcileNoSubstitutions(t *testing.T) {
	slots := []*domain.FlatSlot{
		{TimetableID: 1, SlotID: 1, ClassID: 1, Day: domain.DayMonday, StartTime: "08:00", EndTime: "09:40", SubjectID: 10, FacultyID: 100, Classroom: "A101"},
	}

	effective := Reconcile(slots, nil)
	if len(effective) != 1 {
		t.Fatalf("got %d effective slots, want 1", len(effective))
	}

	es := effective[0]
	if es.HasSubstitution {
		t.Error("slot without substitution marked as substituted")
	}
	if es.FacultyID == nil || *es.FacultyID != 100 {
		t.Errorf("FacultyID = %v, want 100", es.FacultyID)
	}
}

func TestReconcileApprovedSubstitution(t *testing.T) {
	slots := []*domain.FlatSlot{
		{TimetableID: 1, SlotID: 1, ClassID: 1, Day: domain.DayMonday, StartTime: "08:00", EndTime: "09:40", SubjectID: 10, FacultyID: 100, Classroom: "A101"},
		{TimetableID: 1, SlotID: 2, ClassID: 1, Day: domain.DayMonday, StartTime: "10:00", EndTime: "11:40", SubjectID: 11, FacultyID: 101, Classroom: "A102"},
	}
	substitutions := []*domain.Substitution{
		{ID: 5, SubjectID: 10, OriginalFacultyID: 100, Classroom: "A101", SubstituteFacultyID: int64Ptr(200), Status: domain.SubstitutionStatusApproved},
	}

	effective := Reconcile(slots, substitutions)
	if len(effective) != 2 {
		t.Fatalf("got %d effective slots, want 2", len(effective))
	}

	matched := effective[0]
	if !matched.HasSubstitution {
		t.Fatal("matching slot not marked as substituted")
	}
	if matched.SubstitutionID != 5 {
		t.Errorf("SubstitutionID = %d, want 5", matched.SubstitutionID)
	}
	if matched.SubstitutionStatus != domain.SubstitutionStatusApproved {
		t.Errorf("SubstitutionStatus = %s, want approved", matched.SubstitutionStatus)
	}
	if matched.FacultyID == nil || *matched.FacultyID != 200 {
		t.Errorf("FacultyID = %v, want substitute 200", matched.FacultyID)
	}

	untouched := effective[1]
	if untouched.HasSubstitution {
		t.Error("non-matching slot marked as substituted")
	}
	if untouched.FacultyID == nil || *untouched.FacultyID != 101 {
		t.Errorf("FacultyID = %v, want original 101", untouched.FacultyID)
	}
}

// 待定且未指定代课教师的申请命中时，实际授课教师未知
func TestReconcilePendingWithoutSubstitute(t *testing.T) {
	slots := []*domain.FlatSlot{
		{TimetableID: 1, SlotID: 1, Day: domain.DayMonday, StartTime: "08:00", EndTime: "09:40", SubjectID: 10, FacultyID: 100, Classroom: "A101"},
	}
	substitutions := []*domain.Substitution{
		{ID: 6, SubjectID: 10, OriginalFacultyID: 100, Classroom: "A101", Status: domain.SubstitutionStatusPending},
	}

	effective := Reconcile(slots, substitutions)
	if len(effective) != 1 {
		t.Fatalf("got %d effective slots, want 1", len(effective))
	}

	es := effective[0]
	if !es.HasSubstitution {
		t.Fatal("matching slot not marked as substituted")
	}
	if es.SubstitutionStatus != domain.SubstitutionStatusPending {
		t.Errorf("SubstitutionStatus = %s, want pending", es.SubstitutionStatus)
	}
	if es.FacultyID != nil {
		t.Errorf("FacultyID = %v, want nil while substitute is undecided", *es.FacultyID)
	}
}

// 申请可以先批准、代课教师后定，此时该时段同样显示为代课待定
func TestReconcileApprovedWithoutSubstitute(t *testing.T) {
	slots := []*domain.FlatSlot{
		{TimetableID: 1, SlotID: 1, Day: domain.DayMonday, StartTime: "08:00", EndTime: "09:40", SubjectID: 10, FacultyID: 100, Classroom: "A101"},
	}
	substitutions := []*domain.Substitution{
		{ID: 7, SubjectID: 10, OriginalFacultyID: 100, Classroom: "A101", Status: domain.SubstitutionStatusApproved},
	}

	effective := Reconcile(slots, substitutions)
	if len(effective) != 1 {
		t.Fatalf("got %d effective slots, want 1", len(effective))
	}

	es := effective[0]
	if !es.HasSubstitution {
		t.Fatal("matching slot not marked as substituted")
	}
	if es.SubstitutionStatus != domain.SubstitutionStatusApproved {
		t.Errorf("SubstitutionStatus = %s, want approved", es.SubstitutionStatus)
	}
	if es.FacultyID != nil {
		t.Errorf("FacultyID = %v, want nil while substitute is undecided", *es.FacultyID)
	}
}

// 自然键的三个分量都必须一致才算命中
func TestReconcileNaturalKeyMismatch(t *testing.T) {
	slot := &domain.FlatSlot{TimetableID: 1, SlotID: 1, Day: domain.DayMonday, StartTime: "08:00", EndTime: "09:40", SubjectID: 10, FacultyID: 100, Classroom: "A101"}

	tests := []struct {
		name string
		sub  *domain.Substitution
	}{
		{name: "different subject", sub: &domain.Substitution{SubjectID: 99, OriginalFacultyID: 100, Classroom: "A101", Status: domain.SubstitutionStatusApproved}},
		{name: "different faculty", sub: &domain.Substitution{SubjectID: 10, OriginalFacultyID: 999, Classroom: "A101", Status: domain.SubstitutionStatusApproved}},
		{name: "different classroom", sub: &domain.Substitution{SubjectID: 10, OriginalFacultyID: 100, Classroom: "B202", Status: domain.SubstitutionStatusApproved}},
		{name: "rejected ignored", sub: &domain.Substitution{SubjectID: 10, OriginalFacultyID: 100, Classroom: "A101", Status: domain.SubstitutionStatusRejected}},
		{name: "completed ignored", sub: &domain.Substitution{SubjectID: 10, OriginalFacultyID: 100, Classroom: "A101", Status: domain.SubstitutionStatusCompleted}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			effective := Reconcile([]*domain.FlatSlot{slot}, []*domain.Substitution{tt.sub})
			if len(effective) != 1 {
				t.Fatalf("got %d effective slots, want 1", len(effective))
			}
			if effective[0].HasSubstitution {
				t.Error("slot marked as substituted despite mismatch")
			}
			if effective[0].FacultyID == nil || *effective[0].FacultyID != 100 {
				t.Errorf("FacultyID = %v, want original 100", effective[0].FacultyID)
			}
		})
	}
}

func TestReconcileOrderedByStartTime(t *testing.T) {
	slots := []*domain.FlatSlot{
		{TimetableID: 1, SlotID: 3, StartTime: "14:00", EndTime: "15:40", FacultyID: 100},
		{TimetableID: 1, SlotID: 1, StartTime: "08:00", EndTime: "09:40", FacultyID: 100},
		{TimetableID: 1, SlotID: 2, StartTime: "10:00", EndTime: "11:40", FacultyID: 100},
	}

	effective := Reconcile(slots, nil)
	if len(effective) != 3 {
		t.Fatalf("got %d effective slots, want 3", len(effective))
	}

	for i := 1; i < len(effective); i++ {
		if effective[i-1].StartTime > effective[i].StartTime {
			t.Fatalf("result not ordered by start time: %s before %s", effective[i-1].StartTime, effective[i].StartTime)
		}
	}
}

func TestReconcileEmptyInput(t *testing.T) {
	effective := Reconcile(nil, nil)
	if len(effective) != 0 {
		t.Errorf("got %d effective slots for empty input, want 0", len(effective))
	}
}
