package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/timetable-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/timetable-manager/backend/internal/repository"
	"github.com/sysu-ecnc-dev/timetable-manager/backend/internal/scheduling"
	"github.com/sysu-ecnc-dev/timetable-manager/backend/internal/utils"
)

func (h *Handler) currentUserID(r *http.Request) (int64, error) {
	subString := r.Context().Value(SubCtxKey).(string)
	return strconv.ParseInt(subString, 10, 64)
}

// CreateSchedule 创建一次性的授课安排，教师只能创建自己名下的，管理员不受限制
func (h *Handler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		Date      string `json:"date" validate:"required"`
		StartTime string `json:"startTime" validate:"required"`
		EndTime   string `json:"endTime" validate:"required"`
		Classroom string `json:"classroom" validate:"required"`
		ClassID   int64  `json:"classID" validate:"required"`
		FacultyID int64  `json:"facultyID" validate:"required"`
		SubjectID int64  `json:"subjectID" validate:"required"`
		Notes     string `json:"notes"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		h.errorResponse(w, r, "日期格式错误，应为 YYYY-MM-DD")
		return
	}
	if err := utils.ValidateSlotTimes(req.StartTime, req.EndTime); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if !myInfo.CanActForFaculty(req.FacultyID) {
		h.errorResponse(w, r, "只能创建自己的授课安排")
		return
	}

	if _, err := h.loadFaculty(req.FacultyID); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	schedule := &domain.Schedule{
		Date:      date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Classroom: req.Classroom,
		ClassID:   req.ClassID,
		FacultyID: req.FacultyID,
		SubjectID: req.SubjectID,
		Status:    domain.ScheduleStatusActive,
		Notes:     req.Notes,
		UpdatedBy: myInfo.ID,
	}

	if err := h.repository.CreateSchedule(schedule); err != nil {
		var conflictErr *scheduling.ConflictError
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &conflictErr):
			h.errorResponse(w, r, conflictErr.Error())
		case errors.As(err, &pgErr) && pgErr.Code == "23503":
			h.errorResponse(w, r, "引用的班级或科目不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建授课安排成功", schedule)
}

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	schedule := r.Context().Value(ScheduleCtx).(*domain.Schedule)
	h.successResponse(w, r, "获取授课安排成功", schedule)
}

func (h *Handler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	filter := repository.ScheduleFilter{}

	if facultyIDParam := r.URL.Query().Get("facultyID"); facultyIDParam != "" {
		facultyID, err := strconv.ParseInt(facultyIDParam, 10, 64)
		if err != nil {
			h.errorResponse(w, r, "教师ID无效")
			return
		}
		filter.FacultyID = facultyID
	}
	if classIDParam := r.URL.Query().Get("classID"); classIDParam != "" {
		classID, err := strconv.ParseInt(classIDParam, 10, 64)
		if err != nil {
			h.errorResponse(w, r, "班级ID无效")
			return
		}
		filter.ClassID = classID
	}
	if statusParam := r.URL.Query().Get("status"); statusParam != "" {
		status := domain.ScheduleStatus(statusParam)
		switch status {
		case domain.ScheduleStatusActive, domain.ScheduleStatusSubstituted, domain.ScheduleStatusCancelled:
		default:
			h.errorResponse(w, r, "无效的状态")
			return
		}
		filter.Status = status
	}
	if startDateParam := r.URL.Query().Get("startDate"); startDateParam != "" {
		startDate, err := time.Parse("2006-01-02", startDateParam)
		if err != nil {
			h.errorResponse(w, r, "日期格式错误，应为 YYYY-MM-DD")
			return
		}
		filter.StartDate = startDate
	}
	if endDateParam := r.URL.Query().Get("endDate"); endDateParam != "" {
		endDate, err := time.Parse("2006-01-02", endDateParam)
		if err != nil {
			h.errorResponse(w, r, "日期格式错误，应为 YYYY-MM-DD")
			return
		}
		filter.EndDate = endDate
	}

	schedules, err := h.repository.ListSchedules(filter)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取授课安排列表成功", schedules)
}

func (h *Handler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date      *string `json:"date"`
		StartTime *string `json:"startTime"`
		EndTime   *string `json:"endTime"`
		Classroom *string `json:"classroom"`
		FacultyID *int64  `json:"facultyID"`
		Status    *string `json:"status" validate:"omitempty,oneof=active substituted cancelled"`
		Notes     *string `json:"notes"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	schedule := r.Context().Value(ScheduleCtx).(*domain.Schedule)

	if req.Date != nil {
		date, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			h.errorResponse(w, r, "日期格式错误，应为 YYYY-MM-DD")
			return
		}
		schedule.Date = date
		schedule.Day = domain.DayOfDate(date)
	}
	if req.StartTime != nil {
		schedule.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		schedule.EndTime = *req.EndTime
	}
	if err := utils.ValidateSlotTimes(schedule.StartTime, schedule.EndTime); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if req.Classroom != nil {
		schedule.Classroom = *req.Classroom
	}
	if req.FacultyID != nil {
		if _, err := h.loadFaculty(*req.FacultyID); err != nil {
			h.errorResponse(w, r, err.Error())
			return
		}
		schedule.FacultyID = *req.FacultyID
	}
	if req.Status != nil {
		schedule.Status = domain.ScheduleStatus(*req.Status)
	}
	if req.Notes != nil {
		schedule.Notes = *req.Notes
	}

	updatedBy, err := h.currentUserID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	schedule.UpdatedBy = updatedBy

	if err := h.repository.UpdateSchedule(schedule); err != nil {
		var conflictErr *scheduling.ConflictError
		switch {
		case errors.As(err, &conflictErr):
			h.errorResponse(w, r, conflictErr.Error())
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新授课安排失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新授课安排成功", schedule)
}

func (h *Handler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	schedule := r.Context().Value(ScheduleCtx).(*domain.Schedule)

	if err := h.repository.DeleteSchedule(schedule.ID); err != nil {
		switch {
		case errors.Is(err, repository.ErrScheduleReferenced):
			h.errorResponse(w, r, err.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "删除授课安排成功", nil)
}

// RequestScheduleSubstitution 针对某个授课安排提出代课申请，
// 申请会携带该安排的科目、教师和教室信息，供课表叠加时按自然键匹配
func (h *Handler) RequestScheduleSubstitution(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	schedule := r.Context().Value(ScheduleCtx).(*domain.Schedule)

	var req struct {
		Reason              string `json:"reason" validate:"required"`
		SubstituteFacultyID *int64 `json:"substituteFacultyID"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 只有该安排的授课教师本人或管理员可以提出申请
	if !myInfo.CanActForFaculty(schedule.FacultyID) {
		h.errorResponse(w, r, "只能为自己的授课安排申请代课")
		return
	}

	if schedule.Status == domain.ScheduleStatusCancelled {
		h.errorResponse(w, r, "已取消的授课安排无需代课")
		return
	}

	if err := utils.ValidateSubstitutePair(schedule.FacultyID, req.SubstituteFacultyID); err != nil {
		h.badRequest(w, r, err)
		return
	}
	var substitute *domain.User
	if req.SubstituteFacultyID != nil {
		faculty, err := h.loadFaculty(*req.SubstituteFacultyID)
		if err != nil {
			h.errorResponse(w, r, err.Error())
			return
		}
		substitute = faculty
	}

	scheduleID := schedule.ID
	sub := &domain.Substitution{
		Date:                schedule.Date,
		OriginalFacultyID:   schedule.FacultyID,
		SubstituteFacultyID: req.SubstituteFacultyID,
		SubjectID:           schedule.SubjectID,
		ScheduleID:          &scheduleID,
		Reason:              req.Reason,
		Classroom:           schedule.Classroom,
		TimeSlot:            schedule.StartTime + "-" + schedule.EndTime,
	}

	if err := h.repository.CreateSubstitution(sub); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.notifyRequestSubmitted(sub, substitute)

	h.successResponse(w, r, "代课申请已提交", sub)
}
