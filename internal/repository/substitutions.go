package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sysu-ecnc-dev/timetable-manager/backend/internal/domain"
)

const substitutionColumns = `id, date, original_faculty_id, substitute_faculty_id, subject_id, schedule_id, reason, classroom, time_slot, status, created_at, version`

func scanSubstitution(scanner interface{ Scan(...any) error }) (*domain.Substitution, error) {
	sub := &domain.Substitution{}
	dst := []any{
		&sub.ID,
		&sub.Date,
		&sub.OriginalFacultyID,
		&sub.SubstituteFacultyID,
		&sub.SubjectID,
		&sub.ScheduleID,
		&sub.Reason,
		&sub.Classroom,
		&sub.TimeSlot,
		&sub.Status,
		&sub.CreatedAt,
		&sub.Version,
	}
	if err := scanner.Scan(dst...); err != nil {
		return nil, err
	}
	return sub, nil
}

func (r *Repository) CreateSubstitution(sub *domain.Substitution) error {
	query := `
		INSERT INTO substitutions (date, original_faculty_id, substitute_faculty_id, subject_id, schedule_id, reason, classroom, time_slot, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{
		sub.Date,
		sub.OriginalFacultyID,
		sub.SubstituteFacultyID,
		sub.SubjectID,
		sub.ScheduleID,
		sub.Reason,
		sub.Classroom,
		sub.TimeSlot,
		domain.SubstitutionStatusPending,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&sub.ID, &sub.CreatedAt, &sub.Version); err != nil {
		return err
	}

	sub.Status = domain.SubstitutionStatusPending

	return nil
}

func (r *Repository) GetSubstitutionByID(id int64) (*domain.Substitution, error) {
	query := `SELECT ` + substitutionColumns + ` FROM substitutions WHERE id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return scanSubstitution(r.dbpool.QueryRowContext(ctx, query, id))
}

// TransitionSubstitution 按状态机转移代课申请的状态，批准时指定的代课教师随状态一并写入。
// WHERE 条件同时校验原状态和版本号，因此并发的重复决定只会有一个成功，
// 其余的会命中 sql.ErrNoRows，由调用方映射为状态不允许的错误。
func (r *Repository) TransitionSubstitution(sub *domain.Substitution, from domain.SubstitutionStatus, to domain.SubstitutionStatus) error {
	query := `
		UPDATE substitutions
		SET
			status = $1,
			substitute_faculty_id = $2,
			version = version + 1
		WHERE id = $3 AND status = $4 AND version = $5
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{to, sub.SubstituteFacultyID, sub.ID, from, sub.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&sub.Version); err != nil {
		return err
	}

	sub.Status = to

	return nil
}

// DeleteSubstitution 删除代课申请，只允许删除 pending 状态的申请。
// 申请不存在时返回 (false, nil)，重复删除不算错误。
func (r *Repository) DeleteSubstitution(id int64) (bool, error) {
	query := `DELETE FROM substitutions WHERE id = $1 AND status = $2`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	result, err := r.dbpool.ExecContext(ctx, query, id, domain.SubstitutionStatusPending)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

type SubstitutionFilter struct {
	Status              domain.SubstitutionStatus
	OriginalFacultyID   int64
	SubstituteFacultyID int64
	StartDate           time.Time
	EndDate             time.Time
}

func (r *Repository) ListSubstitutions(filter SubstitutionFilter) ([]*domain.Substitution, error) {
	conditions := make([]string, 0, 4)
	args := make([]any, 0, 5)

	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.OriginalFacultyID != 0 {
		args = append(args, filter.OriginalFacultyID)
		conditions = append(conditions, fmt.Sprintf("original_faculty_id = $%d", len(args)))
	}
	if filter.SubstituteFacultyID != 0 {
		args = append(args, filter.SubstituteFacultyID)
		conditions = append(conditions, fmt.Sprintf("substitute_faculty_id = $%d", len(args)))
	}
	if !filter.StartDate.IsZero() {
		args = append(args, filter.StartDate)
		conditions = append(conditions, fmt.Sprintf("date >= $%d", len(args)))
	}
	if !filter.EndDate.IsZero() {
		args = append(args, filter.EndDate)
		conditions = append(conditions, fmt.Sprintf("date <= $%d", len(args)))
	}

	query := `SELECT ` + substitutionColumns + ` FROM substitutions`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date DESC, created_at DESC"

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subs := make([]*domain.Substitution, 0)
	for rows.Next() {
		sub, err := scanSubstitution(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return subs, nil
}

// GetActiveSubstitutionsOnDate 返回某个日期上待定或已批准的代课申请，供课表叠加使用
func (r *Repository) GetActiveSubstitutionsOnDate(date time.Time) ([]*domain.Substitution, error) {
	query := `
		SELECT ` + substitutionColumns + `
		FROM substitutions
		WHERE date = $1 AND status IN ($2, $3)
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, date, domain.SubstitutionStatusPending, domain.SubstitutionStatusApproved)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subs := make([]*domain.Substitution, 0)
	for rows.Next() {
		sub, err := scanSubstitution(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return subs, nil
}

// CountSubstitutions 供仪表盘统计使用，status 为空时统计全部
func (r *Repository) CountSubstitutions(status domain.SubstitutionStatus) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var count int64
	var err error
	if status == "" {
		err = r.dbpool.QueryRowContext(ctx, `SELECT COUNT(*) FROM substitutions`).Scan(&count)
	} else {
		err = r.dbpool.QueryRowContext(ctx, `SELECT COUNT(*) FROM substitutions WHERE status = $1`, status).Scan(&count)
	}
	if err != nil {
		return 0, err
	}

	return count, nil
}

// CountSubstitutionsOnDate 统计某个日期的代课申请数量
func (r *Repository) CountSubstitutionsOnDate(date time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var count int64
	if err := r.dbpool.QueryRowContext(ctx, `SELECT COUNT(*) FROM substitutions WHERE date = $1`, date).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

// CountRows 供仪表盘统计使用
func (r *Repository) CountRows(table string) (int64, error) {
	// 只允许统计固定的几张表，防止拼接任意表名
	switch table {
	case "schedules", "subjects", "class_groups", "time_slots":
	default:
		return 0, sql.ErrNoRows
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var count int64
	if err := r.dbpool.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}
