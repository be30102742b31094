package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/timetable-manager/backend/internal/domain"
)

func (r *Repository) GetAllClassGroups() ([]*domain.ClassGroup, error) {
	query := `
		SELECT id, class_name, course_code, department, semester, created_at, version
		FROM class_groups
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	classes := make([]*domain.ClassGroup, 0)
	for rows.Next() {
		class := &domain.ClassGroup{}
		dst := []any{&class.ID, &class.ClassName, &class.CourseCode, &class.Department, &class.Semester, &class.CreatedAt, &class.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		classes = append(classes, class)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return classes, nil
}

func (r *Repository) GetClassGroupsByDepartment(department string) ([]*domain.ClassGroup, error) {
	query := `
		SELECT id, class_name, course_code, department, semester, created_at, version
		FROM class_groups WHERE department = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, department)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	classes := make([]*domain.ClassGroup, 0)
	for rows.Next() {
		class := &domain.ClassGroup{}
		dst := []any{&class.ID, &class.ClassName, &class.CourseCode, &class.Department, &class.Semester, &class.CreatedAt, &class.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		classes = append(classes, class)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return classes, nil
}

func (r *Repository) GetClassGroupByID(id int64) (*domain.ClassGroup, error) {
	query := `
		SELECT class_name, course_code, department, semester, created_at, version
		FROM class_groups WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	class := &domain.ClassGroup{
		ID: id,
	}

	dst := []any{&class.ClassName, &class.CourseCode, &class.Department, &class.Semester, &class.CreatedAt, &class.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return class, nil
}

func (r *Repository) CreateClassGroup(class *domain.ClassGroup) error {
	query := `
		INSERT INTO class_groups (class_name, course_code, department, semester)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{class.ClassName, class.CourseCode, class.Department, class.Semester}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&class.ID, &class.CreatedAt, &class.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateClassGroup(class *domain.ClassGroup) error {
	query := `
		UPDATE class_groups
		SET
			class_name = $1,
			course_code = $2,
			department = $3,
			semester = $4,
			version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{class.ClassName, class.CourseCode, class.Department, class.Semester, class.ID, class.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&class.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteClassGroup(id int64) error {
	query := `
		DELETE FROM class_groups WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
