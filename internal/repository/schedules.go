package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sysu-ecnc-dev/timetable-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/timetable-manager/backend/internal/scheduling"
)

const scheduleColumns = `id, date, day, start_time, end_time, classroom, class_id, faculty_id, subject_id, status, substitute_faculty_id, notes, updated_by, last_updated, created_at, version`

func scanSchedule(scanner interface{ Scan(...any) error }) (*domain.Schedule, error) {
	schedule := &domain.Schedule{}
	dst := []any{
		&schedule.ID,
		&schedule.Date,
		&schedule.Day,
		&schedule.StartTime,
		&schedule.EndTime,
		&schedule.Classroom,
		&schedule.ClassID,
		&schedule.FacultyID,
		&schedule.SubjectID,
		&schedule.Status,
		&schedule.SubstituteFacultyID,
		&schedule.Notes,
		&schedule.UpdatedBy,
		&schedule.LastUpdated,
		&schedule.CreatedAt,
		&schedule.Version,
	}
	if err := scanner.Scan(dst...); err != nil {
		return nil, err
	}
	return schedule, nil
}

// CreateSchedule 创建一次性的授课安排。和课表时段一样，
// 冲突检查和写入在同一个事务内进行，并以教师的咨询锁串行化。
func (r *Repository) CreateSchedule(schedule *domain.Schedule) error {
	proposed, err := domain.ParseTimeRange(schedule.StartTime, schedule.EndTime)
	if err != nil {
		return err
	}

	schedule.Day = domain.DayOfDate(schedule.Date)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := lockFaculty(ctx, tx, schedule.FacultyID); err != nil {
		return err
	}

	// 一次性安排只和同一天的课表时段以及同一个日期的其他安排冲突
	commitments, err := facultySlotCommitments(ctx, tx, schedule.FacultyID, schedule.Day, 0)
	if err != nil {
		return err
	}
	scheduleCommitments, err := facultyScheduleCommitmentsOnDate(ctx, tx, schedule.FacultyID, schedule.Date, 0)
	if err != nil {
		return err
	}
	commitments = append(commitments, scheduleCommitments...)

	if conflict := scheduling.FindConflict(proposed, commitments); conflict != nil {
		return conflict
	}

	query := `
		INSERT INTO schedules (date, day, start_time, end_time, classroom, class_id, faculty_id, subject_id, status, notes, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, substitute_faculty_id, last_updated, created_at, version
	`
	args := []any{
		schedule.Date,
		schedule.Day,
		schedule.StartTime,
		schedule.EndTime,
		schedule.Classroom,
		schedule.ClassID,
		schedule.FacultyID,
		schedule.SubjectID,
		domain.ScheduleStatusActive,
		schedule.Notes,
		schedule.UpdatedBy,
	}
	dst := []any{&schedule.ID, &schedule.SubstituteFacultyID, &schedule.LastUpdated, &schedule.CreatedAt, &schedule.Version}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	schedule.Status = domain.ScheduleStatusActive

	return tx.Commit()
}

// UpdateSchedule 更新授课安排并重新校验冲突，校验时排除安排自身原有的占用
func (r *Repository) UpdateSchedule(schedule *domain.Schedule) error {
	proposed, err := domain.ParseTimeRange(schedule.StartTime, schedule.EndTime)
	if err != nil {
		return err
	}

	schedule.Day = domain.DayOfDate(schedule.Date)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := lockFaculty(ctx, tx, schedule.FacultyID); err != nil {
		return err
	}

	if schedule.Status != domain.ScheduleStatusCancelled {
		commitments, err := facultySlotCommitments(ctx, tx, schedule.FacultyID, schedule.Day, 0)
		if err != nil {
			return err
		}
		scheduleCommitments, err := facultyScheduleCommitmentsOnDate(ctx, tx, schedule.FacultyID, schedule.Date, schedule.ID)
		if err != nil {
			return err
		}
		commitments = append(commitments, scheduleCommitments...)

		if conflict := scheduling.FindConflict(proposed, commitments); conflict != nil {
			return conflict
		}
	}

	query := `
		UPDATE schedules
		SET
			date = $1,
			day = $2,
			start_time = $3,
			end_time = $4,
			classroom = $5,
			class_id = $6,
			faculty_id = $7,
			subject_id = $8,
			status = $9,
			substitute_faculty_id = $10,
			notes = $11,
			updated_by = $12,
			last_updated = NOW(),
			version = version + 1
		WHERE id = $13 AND version = $14
		RETURNING last_updated, version
	`
	args := []any{
		schedule.Date,
		schedule.Day,
		schedule.StartTime,
		schedule.EndTime,
		schedule.Classroom,
		schedule.ClassID,
		schedule.FacultyID,
		schedule.SubjectID,
		schedule.Status,
		schedule.SubstituteFacultyID,
		schedule.Notes,
		schedule.UpdatedBy,
		schedule.ID,
		schedule.Version,
	}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&schedule.LastUpdated, &schedule.Version); err != nil {
		return err
	}

	return tx.Commit()
}

// MarkScheduleSubstituted 在代课申请批准时由工作流调用，
// 将原授课安排标记为已代课并记录代课教师
func (r *Repository) MarkScheduleSubstituted(scheduleID int64, substituteFacultyID *int64, updatedBy int64) error {
	query := `
		UPDATE schedules
		SET
			status = $1,
			substitute_faculty_id = $2,
			updated_by = $3,
			last_updated = NOW(),
			version = version + 1
		WHERE id = $4
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{domain.ScheduleStatusSubstituted, substituteFacultyID, updatedBy, scheduleID}
	if _, err := r.dbpool.ExecContext(ctx, query, args...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetScheduleByID(id int64) (*domain.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return scanSchedule(r.dbpool.QueryRowContext(ctx, query, id))
}

type ScheduleFilter struct {
	FacultyID int64
	ClassID   int64
	Status    domain.ScheduleStatus
	StartDate time.Time
	EndDate   time.Time
}

func (r *Repository) ListSchedules(filter ScheduleFilter) ([]*domain.Schedule, error) {
	conditions := make([]string, 0, 4)
	args := make([]any, 0, 5)

	if filter.FacultyID != 0 {
		args = append(args, filter.FacultyID)
		conditions = append(conditions, fmt.Sprintf("faculty_id = $%d", len(args)))
	}
	if filter.ClassID != 0 {
		args = append(args, filter.ClassID)
		conditions = append(conditions, fmt.Sprintf("class_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if !filter.StartDate.IsZero() {
		args = append(args, filter.StartDate)
		conditions = append(conditions, fmt.Sprintf("date >= $%d", len(args)))
	}
	if !filter.EndDate.IsZero() {
		args = append(args, filter.EndDate)
		conditions = append(conditions, fmt.Sprintf("date <= $%d", len(args)))
	}

	query := `SELECT ` + scheduleColumns + ` FROM schedules`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date, start_time"

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schedules := make([]*domain.Schedule, 0)
	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, schedule)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return schedules, nil
}

// DeleteSchedule 删除授课安排。仍被未结束的代课申请引用的安排不允许删除
func (r *Repository) DeleteSchedule(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var referenced bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM substitutions
			WHERE schedule_id = $1 AND status IN ('pending', 'approved')
		)
	`
	if err := tx.QueryRowContext(ctx, query, id).Scan(&referenced); err != nil {
		return err
	}
	if referenced {
		return ErrScheduleReferenced
	}

	query = `DELETE FROM schedules WHERE id = $1`
	if _, err := tx.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return tx.Commit()
}
