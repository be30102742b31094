package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/timetable-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/timetable-manager/backend/internal/repository"
	"github.com/sysu-ecnc-dev/timetable-manager/backend/internal/scheduling"
	"github.com/sysu-ecnc-dev/timetable-manager/backend/internal/utils"
)

// loadFaculty 校验被引用的教师存在且角色正确
func (h *Handler) loadFaculty(facultyID int64) (*domain.User, error) {
	faculty, err := h.repository.GetUserByID(facultyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.New("教师不存在")
		}
		return nil, err
	}
	if err := utils.ValidateFacultyReference(faculty); err != nil {
		return nil, err
	}
	return faculty, nil
}

func (h *Handler) AddTimeSlot(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ClassID   int64  `json:"classID" validate:"required"`
		Day       string `json:"day" validate:"required"`
		StartTime string `json:"startTime" validate:"required"`
		EndTime   string `json:"endTime" validate:"required"`
		SubjectID int64  `json:"subjectID" validate:"required"`
		FacultyID int64  `json:"facultyID" validate:"required"`
		Classroom string `json:"classroom" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	day := domain.Day(req.Day)
	if err := utils.ValidateDay(day); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := utils.ValidateSlotTimes(req.StartTime, req.EndTime); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if _, err := h.loadFaculty(req.FacultyID); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	slot := &domain.TimeSlot{
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		SubjectID: req.SubjectID,
		FacultyID: req.FacultyID,
		Classroom: req.Classroom,
	}

	flat, err := h.repository.UpsertSlot(req.ClassID, day, slot)
	if err != nil {
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

	h.successResponse(w, r, "添加课表时段成功", flat)
}

func (h *Handler) ListTimeSlots(w http.ResponseWriter, r *http.Request) {
	filter := repository.SlotFilter{}

	if classIDParam := r.URL.Query().Get("classID"); classIDParam != "" {
		classID, err := strconv.ParseInt(classIDParam, 10, 64)
		if err != nil {
			h.errorResponse(w, r, "班级ID无效")
			return
		}
		filter.ClassID = classID
	}
	if dayParam := r.URL.Query().Get("day"); dayParam != "" {
		day := domain.Day(dayParam)
		if err := utils.ValidateDay(day); err != nil {
			h.badRequest(w, r, err)
			return
		}
		filter.Day = day
	}
	if facultyIDParam := r.URL.Query().Get("facultyID"); facultyIDParam != "" {
		facultyID, err := strconv.ParseInt(facultyIDParam, 10, 64)
		if err != nil {
			h.errorResponse(w, r, "教师ID无效")
			return
		}
		filter.FacultyID = facultyID
	}

	slots, err := h.repository.ListSlots(filter)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取课表时段成功", slots)
}

func (h *Handler) GetTimeSlot(w http.ResponseWriter, r *http.Request) {
	timetableID, slotID, err := domain.ParseSlotCompositeID(chi.URLParam(r, "compositeID"))
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	slot, err := h.repository.FindSlotByKey(timetableID, slotID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, domain.ErrSlotNotFound.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "获取课表时段成功", slot)
}

func (h *Handler) UpdateTimeSlot(w http.ResponseWriter, r *http.Request) {
	timetableID, slotID, err := domain.ParseSlotCompositeID(chi.URLParam(r, "compositeID"))
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	var req struct {
		StartTime string `json:"startTime" validate:"required"`
		EndTime   string `json:"endTime" validate:"required"`
		SubjectID int64  `json:"subjectID" validate:"required"`
		FacultyID int64  `json:"facultyID" validate:"required"`
		Classroom string `json:"classroom" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := utils.ValidateSlotTimes(req.StartTime, req.EndTime); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if _, err := h.loadFaculty(req.FacultyID); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	slot := &domain.TimeSlot{
		ID:        slotID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		SubjectID: req.SubjectID,
		FacultyID: req.FacultyID,
		Classroom: req.Classroom,
	}

	flat, err := h.repository.UpdateSlot(timetableID, slot)
	if err != nil {
		var conflictErr *scheduling.ConflictError
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &conflictErr):
			h.errorResponse(w, r, conflictErr.Error())
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, domain.ErrSlotNotFound.Error())
		case errors.As(err, &pgErr) && pgErr.Code == "23503":
			h.errorResponse(w, r, "引用的科目不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新课表时段成功", flat)
}

func (h *Handler) RemoveTimeSlot(w http.ResponseWriter, r *http.Request) {
	timetableID, slotID, err := domain.ParseSlotCompositeID(chi.URLParam(r, "compositeID"))
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 时段不存在时也视为删除成功，重复删除是幂等的
	if _, err := h.repository.RemoveSlot(timetableID, slotID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除课表时段成功", nil)
}

func (h *Handler) GetTimetable(w http.ResponseWriter, r *http.Request) {
	timetableID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "课表ID无效")
		return
	}

	timetable, err := h.repository.GetTimetableByID(timetableID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "课表不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "获取课表成功", timetable)
}

// GetEffectiveTimetable 返回某一天叠加了代课信息之后的实际授课视图
func (h *Handler) GetEffectiveTimetable(w http.ResponseWriter, r *http.Request) {
	dateParam := r.URL.Query().Get("date")
	date, err := time.Parse("2006-01-02", dateParam)
	if err != nil {
		h.errorResponse(w, r, "日期格式错误，应为 YYYY-MM-DD")
		return
	}

	filter := repository.SlotFilter{Day: domain.DayOfDate(date)}
	if classIDParam := r.URL.Query().Get("classID"); classIDParam != "" {
		classID, err := strconv.ParseInt(classIDParam, 10, 64)
		if err != nil {
			h.errorResponse(w, r, "班级ID无效")
			return
		}
		filter.ClassID = classID
	}

	slots, err := h.repository.ListSlots(filter)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	substitutions, err := h.repository.GetActiveSubstitutionsOnDate(date)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	effective := scheduling.Reconcile(slots, substitutions)

	h.successResponse(w, r, "获取当日课表成功", effective)
}
