package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/timetable-manager/backend/internal/domain"
)

func (h *Handler) GetAllClassGroups(w http.ResponseWriter, r *http.Request) {
	// 按院系过滤是可选的
	department := r.URL.Query().Get("department")
	if department != "" {
		classes, err := h.repository.GetClassGroupsByDepartment(department)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}

		h.successResponse(w, r, "获取班级列表成功", classes)
		return
	}

	classes, err := h.repository.GetAllClassGroups()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取班级列表成功", classes)
}

func (h *Handler) GetClassGroup(w http.ResponseWriter, r *http.Request) {
	class := r.Context().Value(ClassGroupCtx).(*domain.ClassGroup)
	h.successResponse(w, r, "获取班级成功", class)
}

func (h *Handler) CreateClassGroup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ClassName  string `json:"className" validate:"required"`
		CourseCode string `json:"courseCode" validate:"required"`
		Department string `json:"department" validate:"required"`
		Semester   int32  `json:"semester" validate:"required,min=1,max=12"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	class := &domain.ClassGroup{
		ClassName:  req.ClassName,
		CourseCode: req.CourseCode,
		Department: req.Department,
		Semester:   req.Semester,
	}

	if err := h.repository.CreateClassGroup(class); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "class_groups_class_name_key":
			h.badRequest(w, r, errors.New("班级名称已存在"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建班级成功", class)
}

func (h *Handler) UpdateClassGroup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ClassName  *string `json:"className"`
		CourseCode *string `json:"courseCode"`
		Department *string `json:"department"`
		Semester   *int32  `json:"semester" validate:"omitempty,min=1,max=12"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	class := r.Context().Value(ClassGroupCtx).(*domain.ClassGroup)

	if req.ClassName != nil {
		class.ClassName = *req.ClassName
	}
	if req.CourseCode != nil {
		class.CourseCode = *req.CourseCode
	}
	if req.Department != nil {
		class.Department = *req.Department
	}
	if req.Semester != nil {
		class.Semester = *req.Semester
	}

	if err := h.repository.UpdateClassGroup(class); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "class_groups_class_name_key":
			h.badRequest(w, r, errors.New("班级名称已存在"))
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新班级失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新班级成功", class)
}

func (h *Handler) DeleteClassGroup(w http.ResponseWriter, r *http.Request) {
	class := r.Context().Value(ClassGroupCtx).(*domain.ClassGroup)

	if err := h.repository.DeleteClassGroup(class.ID); err != nil {
		var pgErr *pgconn.PgError
		switch {
		// 已有课表的班级不允许删除
		case errors.As(err, &pgErr) && pgErr.Code == "23503":
			h.errorResponse(w, r, "该班级已有课表或授课安排，无法删除")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "删除班级成功", nil)
}
