package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/sysu-ecnc-dev/timetable-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/timetable-manager/backend/internal/repository"
	"github.com/sysu-ecnc-dev/timetable-manager/backend/internal/scheduling"
	"github.com/sysu-ecnc-dev/timetable-manager/backend/internal/utils"
)

// RequestSubstitution 提交一份不挂靠具体授课安排的代课申请，
// 科目、教室和时段由申请人自行填写，叠加课表时按自然键匹配
func (h *Handler) RequestSubstitution(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		Date                string `json:"date" validate:"required"`
		StartTime           string `json:"startTime" validate:"required"`
		EndTime             string `json:"endTime" validate:"required"`
		SubjectID           int64  `json:"subjectID" validate:"required"`
		Classroom           string `json:"classroom" validate:"required"`
		Reason              string `json:"reason" validate:"required"`
		OriginalFacultyID   *int64 `json:"originalFacultyID"`
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

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		h.errorResponse(w, r, "日期格式错误，应为 YYYY-MM-DD")
		return
	}
	if err := utils.ValidateSlotTimes(req.StartTime, req.EndTime); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 教师只能为自己申请代课，管理员可以替任意教师提交
	originalFacultyID := myInfo.ID
	if req.OriginalFacultyID != nil {
		if !myInfo.CanActForFaculty(*req.OriginalFacultyID) {
			h.errorResponse(w, r, "只能为自己申请代课")
			return
		}
		originalFacultyID = *req.OriginalFacultyID
	}

	if _, err := h.loadFaculty(originalFacultyID); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	if err := utils.ValidateSubstitutePair(originalFacultyID, req.SubstituteFacultyID); err != nil {
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

	sub := &domain.Substitution{
		Date:                date,
		OriginalFacultyID:   originalFacultyID,
		SubstituteFacultyID: req.SubstituteFacultyID,
		SubjectID:           req.SubjectID,
		Reason:              req.Reason,
		Classroom:           req.Classroom,
		TimeSlot:            req.StartTime + "-" + req.EndTime,
	}

	if err := h.repository.CreateSubstitution(sub); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.notifyRequestSubmitted(sub, substitute)

	h.successResponse(w, r, "代课申请已提交", sub)
}

func (h *Handler) GetSubstitution(w http.ResponseWriter, r *http.Request) {
	sub := r.Context().Value(SubstitutionCtx).(*domain.Substitution)
	h.successResponse(w, r, "获取代课申请成功", sub)
}

func (h *Handler) ListSubstitutions(w http.ResponseWriter, r *http.Request) {
	filter := repository.SubstitutionFilter{}

	if statusParam := r.URL.Query().Get("status"); statusParam != "" {
		status := domain.SubstitutionStatus(statusParam)
		switch status {
		case domain.SubstitutionStatusPending, domain.SubstitutionStatusApproved, domain.SubstitutionStatusRejected, domain.SubstitutionStatusCompleted:
		default:
			h.errorResponse(w, r, "无效的状态")
			return
		}
		filter.Status = status
	}
	if facultyIDParam := r.URL.Query().Get("originalFacultyID"); facultyIDParam != "" {
		facultyID, err := strconv.ParseInt(facultyIDParam, 10, 64)
		if err != nil {
			h.errorResponse(w, r, "教师ID无效")
			return
		}
		filter.OriginalFacultyID = facultyID
	}
	if facultyIDParam := r.URL.Query().Get("substituteFacultyID"); facultyIDParam != "" {
		facultyID, err := strconv.ParseInt(facultyIDParam, 10, 64)
		if err != nil {
			h.errorResponse(w, r, "教师ID无效")
			return
		}
		filter.SubstituteFacultyID = facultyID
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

	subs, err := h.repository.ListSubstitutions(filter)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取代课申请列表成功", subs)
}

// GetMySubstitutions 返回和自己相关的代课申请，包括自己发起的和自己被指派的
func (h *Handler) GetMySubstitutions(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

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

	h.successResponse(w, r, "获取我的代课申请成功", map[string]any{
		"requested": requested,
		"assigned":  assigned,
	})
}

// DecideSubstitution 批准或驳回一份待定的代课申请。
// 批准时代课教师可以暂缺，此时课表叠加后该时段显示为代课待定；
// 已指定代课教师的要校验其当天没有时间冲突，校验不通过时申请保持待定状态。
func (h *Handler) DecideSubstitution(w http.ResponseWriter, r *http.Request) {
	sub := r.Context().Value(SubstitutionCtx).(*domain.Substitution)

	var req struct {
		Status              string `json:"status" validate:"required,oneof=approved rejected"`
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

	target := domain.SubstitutionStatus(req.Status)
	if !domain.CanTransition(sub.Status, target) {
		h.errorResponse(w, r, domain.ErrIllegalTransition.Error())
		return
	}

	if target == domain.SubstitutionStatusRejected {
		if err := h.repository.TransitionSubstitution(sub, domain.SubstitutionStatusPending, domain.SubstitutionStatusRejected); err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, domain.ErrIllegalTransition.Error())
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		h.notifyDecision(sub, "已驳回")
		h.successResponse(w, r, "已驳回代课申请", sub)
		return
	}

	// 批准时允许顺便指定或更换代课教师，也允许代课教师暂缺
	if req.SubstituteFacultyID != nil {
		sub.SubstituteFacultyID = req.SubstituteFacultyID
	}

	var substitute *domain.User
	if sub.SubstituteFacultyID != nil {
		if err := utils.ValidateSubstitutePair(sub.OriginalFacultyID, sub.SubstituteFacultyID); err != nil {
			h.badRequest(w, r, err)
			return
		}

		faculty, err := h.loadFaculty(*sub.SubstituteFacultyID)
		if err != nil {
			h.errorResponse(w, r, err.Error())
			return
		}
		substitute = faculty

		proposed, err := sub.ProposedRange()
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}

		// 校验代课教师当天没有别的安排，有冲突时申请保持待定
		var excludeScheduleID int64
		if sub.ScheduleID != nil {
			excludeScheduleID = *sub.ScheduleID
		}
		if err := h.repository.CheckFacultyAvailability(*sub.SubstituteFacultyID, domain.DayOfDate(sub.Date), proposed, 0, excludeScheduleID); err != nil {
			var conflictErr *scheduling.ConflictError
			switch {
			case errors.As(err, &conflictErr):
				h.errorResponse(w, r, "代课教师在该时段已有安排："+conflictErr.Error())
			default:
				h.internalServerError(w, r, err)
			}
			return
		}
	}

	if err := h.repository.TransitionSubstitution(sub, domain.SubstitutionStatusPending, domain.SubstitutionStatusApproved); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, domain.ErrIllegalTransition.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// 挂靠了授课安排的申请，批准后将该安排标记为已代课
	if sub.ScheduleID != nil {
		decidedBy, err := h.currentUserID(r)
		if err == nil {
			err = h.repository.MarkScheduleSubstituted(*sub.ScheduleID, sub.SubstituteFacultyID, decidedBy)
		}
		if err != nil {
			slog.Error("标记授课安排为已代课失败", "scheduleID", *sub.ScheduleID, "substitutionID", sub.ID, "error", err)
		}
	}

	if substitute != nil {
		h.notifySubstituteAssigned(sub, substitute)
	}
	h.notifyDecision(sub, "已批准")

	h.successResponse(w, r, "已批准代课申请", sub)
}

// CompleteSubstitution 将已批准的代课申请标记为已完成
func (h *Handler) CompleteSubstitution(w http.ResponseWriter, r *http.Request) {
	sub := r.Context().Value(SubstitutionCtx).(*domain.Substitution)

	if !domain.CanTransition(sub.Status, domain.SubstitutionStatusCompleted) {
		h.errorResponse(w, r, domain.ErrIllegalTransition.Error())
		return
	}

	if err := h.repository.TransitionSubstitution(sub, domain.SubstitutionStatusApproved, domain.SubstitutionStatusCompleted); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, domain.ErrIllegalTransition.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "代课申请已完成", sub)
}

// DeleteSubstitution 撤回代课申请，只允许申请人本人或管理员操作，
// 且只能撤回待定状态的申请
func (h *Handler) DeleteSubstitution(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	sub := r.Context().Value(SubstitutionCtx).(*domain.Substitution)

	if !myInfo.CanActForFaculty(sub.OriginalFacultyID) {
		h.errorResponse(w, r, "只能撤回自己的代课申请")
		return
	}

	if sub.Status != domain.SubstitutionStatusPending {
		h.errorResponse(w, r, domain.ErrIllegalTransition.Error())
		return
	}

	// 申请已经不存在时也视为撤回成功
	if _, err := h.repository.DeleteSubstitution(sub.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "撤回代课申请成功", nil)
}

// notifyRequestSubmitted 将新的代课申请通知所有管理员和拟代课教师（如果已填写），
// 投递失败只记录日志
func (h *Handler) notifyRequestSubmitted(sub *domain.Substitution, substitute *domain.User) {
	original, err := h.repository.GetUserByID(sub.OriginalFacultyID)
	if err != nil {
		slog.Error("查询申请教师失败", "substitutionID", sub.ID, "error", err)
		return
	}

	admins, err := h.repository.GetActiveUsersByRole(domain.RoleAdmin)
	if err != nil {
		slog.Error("查询管理员列表失败", "substitutionID", sub.ID, "error", err)
		return
	}

	for _, msg := range domain.RequestNotifications(sub, original, substitute, admins) {
		h.notifyAsync(msg)
	}
}

func (h *Handler) notifySubstituteAssigned(sub *domain.Substitution, substitute *domain.User) {
	original, err := h.repository.GetUserByID(sub.OriginalFacultyID)
	if err != nil {
		slog.Error("查询申请教师失败", "substitutionID", sub.ID, "error", err)
		return
	}

	h.notifyAsync(domain.NotificationMessage{
		Type:     "substitution_assigned",
		To:       substitute.Email,
		Priority: domain.NotificationPriorityHigh,
		Data: domain.SubstitutionAssignedData{
			FullName:            substitute.FullName,
			OriginalFacultyName: original.FullName,
			Date:                sub.Date.Format("2006-01-02"),
			TimeSlot:            sub.TimeSlot,
			Classroom:           sub.Classroom,
		},
	})
}

// notifyDecision 将处理结果通知申请人，并同步知会所有管理员
func (h *Handler) notifyDecision(sub *domain.Substitution, outcome string) {
	original, err := h.repository.GetUserByID(sub.OriginalFacultyID)
	if err != nil {
		slog.Error("查询申请教师失败", "substitutionID", sub.ID, "error", err)
		return
	}

	admins, err := h.repository.GetActiveUsersByRole(domain.RoleAdmin)
	if err != nil {
		slog.Error("查询管理员列表失败", "substitutionID", sub.ID, "error", err)
		return
	}

	for _, msg := range domain.DecisionNotifications(sub, original, admins, outcome) {
		h.notifyAsync(msg)
	}
}
