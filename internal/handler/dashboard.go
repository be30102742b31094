package handler

import (
	"net/http"
	"time"

	"github.com/sysu-ecnc-dev/timetable-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/timetable-manager/backend/internal/repository"
)

// GetAdminDashboard 返回管理员仪表盘的统计数据
func (h *Handler) GetAdminDashboard(w http.ResponseWriter, r *http.Request) {
	stats := make(map[string]int64)

	for key, table := range map[string]string{
		"schedules": "schedules",
		"subjects":  "subjects",
		"classes":   "class_groups",
		"timeSlots": "time_slots",
	} {
		count, err := h.repository.CountRows(table)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		stats[key] = count
	}

	for key, status := range map[string]domain.SubstitutionStatus{
		"substitutions":          "",
		"pendingSubstitutions":   domain.SubstitutionStatusPending,
		"approvedSubstitutions":  domain.SubstitutionStatusApproved,
		"completedSubstitutions": domain.SubstitutionStatusCompleted,
	} {
		count, err := h.repository.CountSubstitutions(status)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		stats[key] = count
	}

	today := domain.DateOnly(time.Now())
	todayCount, err := h.repository.CountSubstitutionsOnDate(today)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	stats["todaySubstitutions"] = todayCount

	h.successResponse(w, r, "获取仪表盘数据成功", stats)
}

// GetFacultyDashboard 返回教师本人的课表时段、近期授课安排和代课申请
func (h *Handler) GetFacultyDashboard(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	slots, err := h.repository.ListSlots(repository.SlotFilter{FacultyID: myInfo.ID})
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	today := domain.DateOnly(time.Now())
	schedules, err := h.repository.ListSchedules(repository.ScheduleFilter{
		FacultyID: myInfo.ID,
		StartDate: today,
		EndDate:   today.AddDate(0, 0, 14),
	})
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	requested, err := h.repository.ListSubstitutions(repository.SubstitutionFilter{OriginalFacultyID: myInfo.ID})
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	assigned, err := h.repository.ListSubstitutions(repository.SubstitutionFilter{SubstituteFacultyID: myInfo.ID})
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取教师仪表盘数据成功", map[string]any{
		"timeSlots":              slots,
		"upcomingSchedules":      schedules,
		"requestedSubstitutions": requested,
		"assignedSubstitutions":  assigned,
	})
}
