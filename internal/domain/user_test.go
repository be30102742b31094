package domain

import "testing"

func TestCanActForFaculty(t *testing.T) {
	tests := []struct {
		name      string
		user      *User
		facultyID int64
		want      bool
	}{
		{name: "admin for anyone", user: &User{ID: 1, Role: RoleAdmin}, facultyID: 42, want: true},
		{name: "faculty for self", user: &User{ID: 42, Role: RoleFaculty}, facultyID: 42, want: true},
		{name: "faculty for other", user: &User{ID: 42, Role: RoleFaculty}, facultyID: 43, want: false},
		{name: "student for self", user: &User{ID: 7, Role: RoleStudent}, facultyID: 7, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.CanActForFaculty(tt.facultyID); got != tt.want {
				t.Errorf("CanActForFaculty(%d) = %v, want %v", tt.facultyID, got, tt.want)
			}
		})
	}
}
