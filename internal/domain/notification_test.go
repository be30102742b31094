package domain

import (
	"testing"
	"time"
)

func testSubstitution() *Substitution {
	return &Substitution{
		ID:                1,
		Date:              time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		OriginalFacultyID: 10,
		SubjectID:         3,
		Reason:            "外出开会",
		Classroom:         "A-201",
		TimeSlot:          "08:00-09:30",
		Status:            SubstitutionStatusPending,
	}
}

func TestRequestNotifications(t *testing.T) {
	original := &User{ID: 10, FullName: "王老师", Email: "wang@example.com"}
	admins := []*User{
		{ID: 1, FullName: "管理员甲", Email: "admin1@example.com"},
		{ID: 2, FullName: "管理员乙", Email: "admin2@example.com"},
	}

	t.Run("代课教师暂缺时只通知管理员", func(t *testing.T) {
		msgs := RequestNotifications(testSubstitution(), original, nil, admins)
		if len(msgs) != 2 {
			t.Fatalf("got %d messages, want 2", len(msgs))
		}
		for i, msg := range msgs {
			if msg.Type != "substitution_requested" {
				t.Errorf("message %d type = %q", i, msg.Type)
			}
			if msg.To != admins[i].Email {
				t.Errorf("message %d to = %q, want %q", i, msg.To, admins[i].Email)
			}
			if msg.Priority != NotificationPriorityMedium {
				t.Errorf("message %d priority = %q", i, msg.Priority)
			}
		}
	})

	t.Run("已填写拟代课教师时高优先级知会该教师", func(t *testing.T) {
		substitute := &User{ID: 20, FullName: "李老师", Email: "li@example.com"}
		msgs := RequestNotifications(testSubstitution(), original, substitute, admins)
		if len(msgs) != 3 {
			t.Fatalf("got %d messages, want 3", len(msgs))
		}

		last := msgs[len(msgs)-1]
		if last.Type != "substitution_assigned" {
			t.Errorf("substitute message type = %q", last.Type)
		}
		if last.To != substitute.Email {
			t.Errorf("substitute message to = %q, want %q", last.To, substitute.Email)
		}
		if last.Priority != NotificationPriorityHigh {
			t.Errorf("substitute message priority = %q, want high", last.Priority)
		}

		data, ok := last.Data.(SubstitutionAssignedData)
		if !ok {
			t.Fatalf("substitute message data type %T", last.Data)
		}
		if data.OriginalFacultyName != original.FullName {
			t.Errorf("data.OriginalFacultyName = %q", data.OriginalFacultyName)
		}
		if data.Classroom != "A-201" {
			t.Errorf("data.Classroom = %q", data.Classroom)
		}
	})
}

// 处理结果要同时送达申请人和所有管理员
func TestDecisionNotifications(t *testing.T) {
	original := &User{ID: 10, FullName: "王老师", Email: "wang@example.com"}
	admins := []*User{
		{ID: 1, FullName: "管理员甲", Email: "admin1@example.com"},
		{ID: 2, FullName: "管理员乙", Email: "admin2@example.com"},
	}

	msgs := DecisionNotifications(testSubstitution(), original, admins, "已批准")
	if len(msgs) != 3 {
		t.Fatalf("got %d messages, want 3", len(msgs))
	}

	wantTo := []string{original.Email, admins[0].Email, admins[1].Email}
	wantName := []string{original.FullName, admins[0].FullName, admins[1].FullName}
	for i, msg := range msgs {
		if msg.Type != "substitution_decided" {
			t.Errorf("message %d type = %q", i, msg.Type)
		}
		if msg.To != wantTo[i] {
			t.Errorf("message %d to = %q, want %q", i, msg.To, wantTo[i])
		}

		data, ok := msg.Data.(SubstitutionDecidedData)
		if !ok {
			t.Fatalf("message %d data type %T", i, msg.Data)
		}
		if data.FullName != wantName[i] {
			t.Errorf("message %d data.FullName = %q, want %q", i, data.FullName, wantName[i])
		}
		if data.OriginalFacultyName != original.FullName {
			t.Errorf("message %d data.OriginalFacultyName = %q", i, data.OriginalFacultyName)
		}
		if data.Outcome != "已批准" {
			t.Errorf("message %d data.Outcome = %q", i, data.Outcome)
		}
	}
}
