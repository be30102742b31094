package domain

import (
	"errors"
	"testing"
)

func TestSlotCompositeID(t *testing.T) {
	if got := SlotCompositeID(12, 34); got != "12_34" {
		t.Errorf("SlotCompositeID(12, 34) = %q, want %q", got, "12_34")
	}

	slot := &FlatSlot{TimetableID: 7, SlotID: 3}
	if got := slot.CompositeID(); got != "7_3" {
		t.Errorf("CompositeID() = %q, want %q", got, "7_3")
	}
}

func TestParseSlotCompositeID(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		wantTimetable int64
		wantSlot      int64
		wantErr       bool
	}{
		{name: "simple", input: "12_34", wantTimetable: 12, wantSlot: 34},
		{name: "single digits", input: "1_2", wantTimetable: 1, wantSlot: 2},
		{name: "no separator", input: "1234", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "non numeric left", input: "a_2", wantErr: true},
		{name: "non numeric right", input: "1_b", wantErr: true},
		{name: "trailing separator", input: "1_", wantErr: true},
		{name: "leading separator", input: "_2", wantErr: true},
		// 多个下划线时按第一个切分，剩余部分不是合法数字
		{name: "extra separator", input: "1_2_3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			timetableID, slotID, err := ParseSlotCompositeID(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCompositeID) {
					t.Fatalf("ParseSlotCompositeID(%q) error = %v, want %v", tt.input, err, ErrInvalidCompositeID)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSlotCompositeID(%q) unexpected error: %v", tt.input, err)
			}
			if timetableID != tt.wantTimetable || slotID != tt.wantSlot {
				t.Errorf("ParseSlotCompositeID(%q) = (%d, %d), want (%d, %d)", tt.input, timetableID, slotID, tt.wantTimetable, tt.wantSlot)
			}
		})
	}
}

func TestCompositeIDRoundTrip(t *testing.T) {
	pairs := [][2]int64{{1, 1}, {42, 7}, {1000, 99999}}
	for _, pair := range pairs {
		id := SlotCompositeID(pair[0], pair[1])
		timetableID, slotID, err := ParseSlotCompositeID(id)
		if err != nil {
			t.Fatalf("ParseSlotCompositeID(%q) unexpected error: %v", id, err)
		}
		if timetableID != pair[0] || slotID != pair[1] {
			t.Errorf("round trip of (%d, %d) = (%d, %d)", pair[0], pair[1], timetableID, slotID)
		}
	}
}
