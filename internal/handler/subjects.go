package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/timetable-manager/backend/internal/domain"
)

func (h *Handler) GetAllSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.repository.GetAllSubjects()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取科目列表成功", subjects)
}

func (h *Handler) GetSubject(w http.ResponseWriter, r *http.Request) {
	subject := r.Context().Value(SubjectCtx).(*domain.Subject)
	h.successResponse(w, r, "获取科目成功", subject)
}

func (h *Handler) CreateSubject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SubjectName string `json:"subjectName" validate:"required"`
		SubjectCode string `json:"subjectCode" validate:"required"`
		Credits     int32  `json:"credits" validate:"required,min=1,max=10"`
		Department  string `json:"department" validate:"required"`
		Semester    int32  `json:"semester" validate:"required,min=1,max=12"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	subject := &domain.Subject{
		SubjectName: req.SubjectName,
		SubjectCode: req.SubjectCode,
		Credits:     req.Credits,
		Department:  req.Department,
		Semester:    req.Semester,
	}

	if err := h.repository.CreateSubject(subject); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "subjects_subject_code_key":
			h.badRequest(w, r, errors.New("科目代码已存在"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建科目成功", subject)
}

func (h *Handler) UpdateSubject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SubjectName *string `json:"subjectName"`
		SubjectCode *string `json:"subjectCode"`
		Credits     *int32  `json:"credits" validate:"omitempty,min=1,max=10"`
		Department  *string `json:"department"`
		Semester    *int32  `json:"semester" validate:"omitempty,min=1,max=12"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	subject := r.Context().Value(SubjectCtx).(*domain.Subject)

	if req.SubjectName != nil {
		subject.SubjectName = *req.SubjectName
	}
	if req.SubjectCode != nil {
		subject.SubjectCode = *req.SubjectCode
	}
	if req.Credits != nil {
		subject.Credits = *req.Credits
	}
	if req.Department != nil {
		subject.Department = *req.Department
	}
	if req.Semester != nil {
		subject.Semester = *req.Semester
	}

	if err := h.repository.UpdateSubject(subject); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "subjects_subject_code_key":
			h.badRequest(w, r, errors.New("科目代码已存在"))
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新科目失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新科目成功", subject)
}

func (h *Handler) DeleteSubject(w http.ResponseWriter, r *http.Request) {
	subject := r.Context().Value(SubjectCtx).(*domain.Subject)

	if err := h.repository.DeleteSubject(subject.ID); err != nil {
		var pgErr *pgconn.PgError
		switch {
		// 被课表时段或授课安排引用的科目不允许删除
		case errors.As(err, &pgErr) && pgErr.Code == "23503":
			h.errorResponse(w, r, "该科目已被课表或授课安排引用，无法删除")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "删除科目成功", nil)
}
