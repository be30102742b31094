package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sysu-ecnc-dev/timetable-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/timetable-manager/backend/internal/scheduling"
)

// 咨询锁的命名空间，避免和其他业务的锁键冲突
const facultyLockScope = 7001

// lockFaculty 在当前事务内获取某位教师的咨询锁，事务提交或回滚时自动释放。
// 同一位教师的“读已有占用-判断-写入”序列必须串行执行，否则两个重叠的提议可能同时通过检查。
func lockFaculty(ctx context.Context, tx *sql.Tx, facultyID int64) error {
	_, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1, $2)`, facultyLockScope, facultyID)
	return err
}

// facultySlotCommitments 查询某位教师在某一天的全部课表时段占用
func facultySlotCommitments(ctx context.Context, tx *sql.Tx, facultyID int64, day domain.Day, excludeSlotID int64) ([]scheduling.Commitment, error) {
	query := `
		SELECT ts.id, ts.start_time, ts.end_time
		FROM time_slots ts
		JOIN timetables t ON t.id = ts.timetable_id
		WHERE ts.faculty_id = $1 AND t.day = $2
	`

	rows, err := tx.QueryContext(ctx, query, facultyID, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := make([]*domain.FlatSlot, 0)
	for rows.Next() {
		slot := &domain.FlatSlot{FacultyID: facultyID, Day: day}
		if err := rows.Scan(&slot.SlotID, &slot.StartTime, &slot.EndTime); err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return scheduling.SlotCommitments(slots, excludeSlotID)
}

// facultyScheduleCommitmentsOnDay 查询某位教师所有落在某一天（星期几）的未取消授课安排占用
func facultyScheduleCommitmentsOnDay(ctx context.Context, tx *sql.Tx, facultyID int64, day domain.Day, excludeScheduleID int64) ([]scheduling.Commitment, error) {
	query := `
		SELECT id, start_time, end_time, status
		FROM schedules
		WHERE faculty_id = $1 AND day = $2 AND status <> 'cancelled'
	`

	return scanScheduleCommitments(ctx, tx, query, []any{facultyID, day}, excludeScheduleID)
}

// facultyScheduleCommitmentsOnDate 查询某位教师在某个具体日期的未取消授课安排占用
func facultyScheduleCommitmentsOnDate(ctx context.Context, tx *sql.Tx, facultyID int64, date time.Time, excludeScheduleID int64) ([]scheduling.Commitment, error) {
	query := `
		SELECT id, start_time, end_time, status
		FROM schedules
		WHERE faculty_id = $1 AND date = $2 AND status <> 'cancelled'
	`

	return scanScheduleCommitments(ctx, tx, query, []any{facultyID, date}, excludeScheduleID)
}

func scanScheduleCommitments(ctx context.Context, tx *sql.Tx, query string, args []any, excludeScheduleID int64) ([]scheduling.Commitment, error) {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schedules := make([]*domain.Schedule, 0)
	for rows.Next() {
		schedule := &domain.Schedule{}
		if err := rows.Scan(&schedule.ID, &schedule.StartTime, &schedule.EndTime, &schedule.Status); err != nil {
			return nil, err
		}
		schedules = append(schedules, schedule)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return scheduling.ScheduleCommitments(schedules, excludeScheduleID)
}

// CheckFacultyAvailability 检查某位教师在某一天的某个时间区间内是否空闲，
// 同时检查每周课表时段和落在那一天的授课安排，发现重叠时返回 *scheduling.ConflictError。
// 该方法只读，可以安全重试；写入路径在各自的事务内做同样的检查以保证串行化。
func (r *Repository) CheckFacultyAvailability(facultyID int64, day domain.Day, proposed domain.TimeRange, excludeSlotID int64, excludeScheduleID int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	commitments, err := facultySlotCommitments(ctx, tx, facultyID, day, excludeSlotID)
	if err != nil {
		return err
	}

	scheduleCommitments, err := facultyScheduleCommitmentsOnDay(ctx, tx, facultyID, day, excludeScheduleID)
	if err != nil {
		return err
	}
	commitments = append(commitments, scheduleCommitments...)

	if conflict := scheduling.FindConflict(proposed, commitments); conflict != nil {
		return conflict
	}

	return tx.Commit()
}
