package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/timetable-manager/backend/internal/domain"
)

func (r *Repository) GetAllSubjects() ([]*domain.Subject, error) {
	query := `
		SELECT id, subject_name, subject_code, credits, department, semester, created_at, version
		FROM subjects
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subjects := make([]*domain.Subject, 0)
	for rows.Next() {
		subject := &domain.Subject{}
		dst := []any{&subject.ID, &subject.SubjectName, &subject.SubjectCode, &subject.Credits, &subject.Department, &subject.Semester, &subject.CreatedAt, &subject.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		subjects = append(subjects, subject)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return subjects, nil
}

func (r *Repository) GetSubjectByID(id int64) (*domain.Subject, error) {
	query := `
		SELECT subject_name, subject_code, credits, department, semester, created_at, version
		FROM subjects WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	subject := &domain.Subject{
		ID: id,
	}

	dst := []any{&subject.SubjectName, &subject.SubjectCode, &subject.Credits, &subject.Department, &subject.Semester, &subject.CreatedAt, &subject.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return subject, nil
}

func (r *Repository) CreateSubject(subject *domain.Subject) error {
	query := `
		INSERT INTO subjects (subject_name, subject_code, credits, department, semester)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{subject.SubjectName, subject.SubjectCode, subject.Credits, subject.Department, subject.Semester}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&subject.ID, &subject.CreatedAt, &subject.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateSubject(subject *domain.Subject) error {
	query := `
		UPDATE subjects
		SET
			subject_name = $1,
			subject_code = $2,
			credits = $3,
			department = $4,
			semester = $5,
			version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{subject.SubjectName, subject.SubjectCode, subject.Credits, subject.Department, subject.Semester, subject.ID, subject.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&subject.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteSubject(id int64) error {
	query := `
		DELETE FROM subjects WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
