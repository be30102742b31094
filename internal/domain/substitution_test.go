package domain

import (
	"errors"
	"testing"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from SubstitutionStatus
		to   SubstitutionStatus
		want bool
	}{
		{name: "pending to approved", from: SubstitutionStatusPending, to: SubstitutionStatusApproved, want: true},
		{name: "pending to rejected", from: SubstitutionStatusPending, to: SubstitutionStatusRejected, want: true},
		{name: "approved to completed", from: SubstitutionStatusApproved, to: SubstitutionStatusCompleted, want: true},
		{name: "pending to completed", from: SubstitutionStatusPending, to: SubstitutionStatusCompleted, want: false},
		{name: "approved to rejected", from: SubstitutionStatusApproved, to: SubstitutionStatusRejected, want: false},
		{name: "approved to pending", from: SubstitutionStatusApproved, to: SubstitutionStatusPending, want: false},
		{name: "rejected is terminal", from: SubstitutionStatusRejected, to: SubstitutionStatusApproved, want: false},
		{name: "completed is terminal", from: SubstitutionStatusCompleted, to: SubstitutionStatusPending, want: false},
		{name: "no self transition", from: SubstitutionStatusPending, to: SubstitutionStatusPending, want: false},
		{name: "unknown status", from: SubstitutionStatus("unknown"), to: SubstitutionStatusApproved, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestProposedRange(t *testing.T) {
	tests := []struct {
		name     string
		timeSlot string
		want     TimeRange
		wantErr  error
	}{
		{name: "valid", timeSlot: "09:00-10:30", want: TimeRange{Start: 540, End: 630}},
		{name: "no separator", timeSlot: "09:00 10:30", wantErr: ErrInvalidTimeFormat},
		{name: "bad times", timeSlot: "9am-10am", wantErr: ErrInvalidTimeFormat},
		{name: "inverted", timeSlot: "10:30-09:00", wantErr: ErrInvalidRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := &Substitution{TimeSlot: tt.timeSlot}
			got, err := sub.ProposedRange()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ProposedRange() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ProposedRange() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ProposedRange() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// 终态一旦进入就不可能再离开
func TestTerminalStatesHaveNoExits(t *testing.T) {
	all := []SubstitutionStatus{
		SubstitutionStatusPending,
		SubstitutionStatusApproved,
		SubstitutionStatusRejected,
		SubstitutionStatusCompleted,
	}

	for _, terminal := range []SubstitutionStatus{SubstitutionStatusRejected, SubstitutionStatusCompleted} {
		for _, to := range all {
			if CanTransition(terminal, to) {
				t.Errorf("terminal state %s allows transition to %s", terminal, to)
			}
		}
	}
}
