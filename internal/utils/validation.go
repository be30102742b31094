package utils

import (
	"fmt"

	"github.com/sysu-ecnc-dev/timetable-manager/backend/internal/domain"
)

// ValidateSlotTimes 校验时段的时间格式和先后关系
func ValidateSlotTimes(startTime string, endTime string) error {
	if _, err := domain.ParseTimeRange(startTime, endTime); err != nil {
		return err
	}
	return nil
}

func ValidateDay(day domain.Day) error {
	if !day.IsValid() {
		return fmt.Errorf("非法的星期：%q", day)
	}
	return nil
}

// ValidateFacultyReference 校验被引用的用户存在且角色为教师
func ValidateFacultyReference(user *domain.User) error {
	if user == nil || user.Role != domain.RoleFaculty {
		return fmt.Errorf("%w：被引用的用户不是教师", domain.ErrInvalidSubstitute)
	}
	return nil
}

// ValidateSubstitutePair 校验代课教师与原教师不是同一个人
func ValidateSubstitutePair(originalFacultyID int64, substituteFacultyID *int64) error {
	if substituteFacultyID != nil && *substituteFacultyID == originalFacultyID {
		return fmt.Errorf("%w：代课教师不能是原教师本人", domain.ErrInvalidSubstitute)
	}
	return nil
}
