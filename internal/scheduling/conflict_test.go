package scheduling

import (
	"errors"
	"testing"

	"github.com/sysu-ecnc-dev/timetable-manager/backend/internal/domain"
)

func mustRange(t *testing.T, startTime, endTime string) domain.TimeRange {
	t.Helper()
	tr, err := domain.ParseTimeRange(startTime, endTime)
	if err != nil {
		t.Fatalf("ParseTimeRange(%q, %q) unexpected error: %v", startTime, endTime, err)
	}
	return tr
}

func TestFindConflict(t *testing.T) {
	commitments := []Commitment{
		{Kind: CommitmentKindTimeSlot, ID: 1, Range: mustRange(t, "08:00", "09:40")},
		{Kind: CommitmentKindSchedule, ID: 2, Range: mustRange(t, "14:00", "15:40")},
	}

	tests := []struct {
		name     string
		proposed domain.TimeRange
		wantID   int64
	}{
		{name: "no conflict", proposed: mustRange(t, "10:00", "11:40"), wantID: 0},
		{name: "touching earlier slot", proposed: mustRange(t, "09:40", "10:40"), wantID: 0},
		{name: "overlaps slot", proposed: mustRange(t, "09:00", "10:00"), wantID: 1},
		{name: "overlaps schedule", proposed: mustRange(t, "15:00", "16:00"), wantID: 2},
		{name: "contains slot", proposed: mustRange(t, "07:00", "10:00"), wantID: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conflict := FindConflict(tt.proposed, commitments)
			if tt.wantID == 0 {
				if conflict != nil {
					t.Fatalf("FindConflict(%v) = %v, want nil", tt.proposed, conflict)
				}
				return
			}
			if conflict == nil {
				t.Fatalf("FindConflict(%v) = nil, want conflict with %d", tt.proposed, tt.wantID)
			}
			if conflict.With.ID != tt.wantID {
				t.Errorf("FindConflict(%v) conflicts with %d, want %d", tt.proposed, conflict.With.ID, tt.wantID)
			}
		})
	}
}

func TestFindConflictReportsFirst(t *testing.T) {
	commitments := []Commitment{
		{Kind: CommitmentKindTimeSlot, ID: 10, Range: mustRange(t, "09:00", "11:00")},
		{Kind: CommitmentKindTimeSlot, ID: 20, Range: mustRange(t, "10:00", "12:00")},
	}

	conflict := FindConflict(mustRange(t, "10:30", "10:45"), commitments)
	if conflict == nil {
		t.Fatal("expected a conflict")
	}
	if conflict.With.ID != 10 {
		t.Errorf("conflict reported with %d, want first commitment 10", conflict.With.ID)
	}
}

func TestSlotCommitments(t *testing.T) {
	slots := []*domain.FlatSlot{
		{SlotID: 1, StartTime: "08:00", EndTime: "09:40"},
		{SlotID: 2, StartTime: "10:00", EndTime: "11:40"},
	}

	commitments, err := SlotCommitments(slots, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(commitments) != 2 {
		t.Fatalf("got %d commitments, want 2", len(commitments))
	}

	// 更新时排除时段自身
	commitments, err = SlotCommitments(slots, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(commitments) != 1 {
		t.Fatalf("got %d commitments, want 1", len(commitments))
	}
	if commitments[0].ID != 1 {
		t.Errorf("remaining commitment ID = %d, want 1", commitments[0].ID)
	}
}

func TestSlotCommitmentsInvalidTimes(t *testing.T) {
	slots := []*domain.FlatSlot{
		{SlotID: 1, StartTime: "bad", EndTime: "09:40"},
	}

	if _, err := SlotCommitments(slots, 0); !errors.Is(err, domain.ErrInvalidTimeFormat) {
		t.Errorf("error = %v, want %v", err, domain.ErrInvalidTimeFormat)
	}
}

func TestScheduleCommitments(t *testing.T) {
	schedules := []*domain.Schedule{
		{ID: 1, StartTime: "08:00", EndTime: "09:40", Status: domain.ScheduleStatusActive},
		{ID: 2, StartTime: "10:00", EndTime: "11:40", Status: domain.ScheduleStatusCancelled},
		{ID: 3, StartTime: "14:00", EndTime: "15:40", Status: domain.ScheduleStatusSubstituted},
	}

	commitments, err := ScheduleCommitments(schedules, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 已取消的安排不占用时间
	if len(commitments) != 2 {
		t.Fatalf("got %d commitments, want 2", len(commitments))
	}
	for _, c := range commitments {
		if c.ID == 2 {
			t.Error("cancelled schedule included in commitments")
		}
		if c.Kind != CommitmentKindSchedule {
			t.Errorf("commitment kind = %s, want %s", c.Kind, CommitmentKindSchedule)
		}
	}

	// 排除指定的安排自身
	commitments, err = ScheduleCommitments(schedules, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(commitments) != 1 || commitments[0].ID != 3 {
		t.Errorf("got %+v, want only schedule 3", commitments)
	}
}

func TestConflictErrorMessage(t *testing.T) {
	slotConflict := &ConflictError{With: Commitment{Kind: CommitmentKindTimeSlot, Range: mustRange(t, "08:00", "09:40")}}
	scheduleConflict := &ConflictError{With: Commitment{Kind: CommitmentKindSchedule, Range: mustRange(t, "08:00", "09:40")}}

	if slotConflict.Error() == scheduleConflict.Error() {
		t.Error("slot and schedule conflicts should produce different messages")
	}
}
