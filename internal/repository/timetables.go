package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sysu-ecnc-dev/timetable-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/timetable-manager/backend/internal/scheduling"
)

// dayOrderExpr 让查询结果按周一到周日的顺序排列，而不是按字母序
const dayOrderExpr = `array_position(ARRAY['Monday','Tuesday','Wednesday','Thursday','Friday','Saturday','Sunday'], t.day::text)`

// UpsertSlot 向 (classID, day) 的课表追加一个时段，课表不存在时先创建。
// 整个过程在一个事务内完成：先获取教师的咨询锁，再做冲突检查，检查不通过时不产生任何写入。
func (r *Repository) UpsertSlot(classID int64, day domain.Day, slot *domain.TimeSlot) (*domain.FlatSlot, error) {
	proposed, err := domain.ParseTimeRange(slot.StartTime, slot.EndTime)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := lockFaculty(ctx, tx, slot.FacultyID); err != nil {
		return nil, err
	}

	commitments, err := facultySlotCommitments(ctx, tx, slot.FacultyID, day, 0)
	if err != nil {
		return nil, err
	}
	scheduleCommitments, err := facultyScheduleCommitmentsOnDay(ctx, tx, slot.FacultyID, day, 0)
	if err != nil {
		return nil, err
	}
	commitments = append(commitments, scheduleCommitments...)

	if conflict := scheduling.FindConflict(proposed, commitments); conflict != nil {
		return nil, conflict
	}

	// 惰性创建 (classID, day) 的课表
	var timetableID int64
	query := `SELECT id FROM timetables WHERE class_id = $1 AND day = $2`
	if err := tx.QueryRowContext(ctx, query, classID, day).Scan(&timetableID); err != nil {
		if err != sql.ErrNoRows {
			return nil, err
		}

		query = `INSERT INTO timetables (class_id, day) VALUES ($1, $2) RETURNING id`
		if err := tx.QueryRowContext(ctx, query, classID, day).Scan(&timetableID); err != nil {
			return nil, err
		}
	}

	query = `
		INSERT INTO time_slots (timetable_id, start_time, end_time, subject_id, faculty_id, classroom)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	args := []any{timetableID, slot.StartTime, slot.EndTime, slot.SubjectID, slot.FacultyID, slot.Classroom}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&slot.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &domain.FlatSlot{
		TimetableID: timetableID,
		SlotID:      slot.ID,
		ClassID:     classID,
		Day:         day,
		StartTime:   slot.StartTime,
		EndTime:     slot.EndTime,
		SubjectID:   slot.SubjectID,
		FacultyID:   slot.FacultyID,
		Classroom:   slot.Classroom,
	}, nil
}

// UpdateSlot 更新某个时段并重新校验冲突，校验时排除时段自身原有的占用，
// 因此只改教室等不影响时间的更新不会和自己冲突
func (r *Repository) UpdateSlot(timetableID int64, slot *domain.TimeSlot) (*domain.FlatSlot, error) {
	proposed, err := domain.ParseTimeRange(slot.StartTime, slot.EndTime)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// 确认时段存在并取出所属课表的 class 和 day
	var classID int64
	var day domain.Day
	query := `
		SELECT t.class_id, t.day
		FROM time_slots ts
		JOIN timetables t ON t.id = ts.timetable_id
		WHERE ts.id = $1 AND ts.timetable_id = $2
	`
	if err := tx.QueryRowContext(ctx, query, slot.ID, timetableID).Scan(&classID, &day); err != nil {
		return nil, err
	}

	if err := lockFaculty(ctx, tx, slot.FacultyID); err != nil {
		return nil, err
	}

	commitments, err := facultySlotCommitments(ctx, tx, slot.FacultyID, day, slot.ID)
	if err != nil {
		return nil, err
	}
	scheduleCommitments, err := facultyScheduleCommitmentsOnDay(ctx, tx, slot.FacultyID, day, 0)
	if err != nil {
		return nil, err
	}
	commitments = append(commitments, scheduleCommitments...)

	if conflict := scheduling.FindConflict(proposed, commitments); conflict != nil {
		return nil, conflict
	}

	query = `
		UPDATE time_slots
		SET
			start_time = $1,
			end_time = $2,
			subject_id = $3,
			faculty_id = $4,
			classroom = $5
		WHERE id = $6 AND timetable_id = $7
	`
	args := []any{slot.StartTime, slot.EndTime, slot.SubjectID, slot.FacultyID, slot.Classroom, slot.ID, timetableID}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &domain.FlatSlot{
		TimetableID: timetableID,
		SlotID:      slot.ID,
		ClassID:     classID,
		Day:         day,
		StartTime:   slot.StartTime,
		EndTime:     slot.EndTime,
		SubjectID:   slot.SubjectID,
		FacultyID:   slot.FacultyID,
		Classroom:   slot.Classroom,
	}, nil
}

// RemoveSlot 删除某个时段，删除后课表为空时一并删除课表。
// 时段不存在时返回 (false, nil) 而不是错误，重复删除对调用方来说是成功的。
func (r *Repository) RemoveSlot(timetableID int64, slotID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `DELETE FROM time_slots WHERE id = $1 AND timetable_id = $2`
	result, err := tx.ExecContext(ctx, query, slotID, timetableID)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, tx.Commit()
	}

	var remaining int64
	query = `SELECT COUNT(*) FROM time_slots WHERE timetable_id = $1`
	if err := tx.QueryRowContext(ctx, query, timetableID).Scan(&remaining); err != nil {
		return false, err
	}

	if remaining == 0 {
		query = `DELETE FROM timetables WHERE id = $1`
		if _, err := tx.ExecContext(ctx, query, timetableID); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}

	return true, nil
}

type SlotFilter struct {
	ClassID   int64
	Day       domain.Day
	FacultyID int64
}

// ListSlots 返回按时段展开后的课表记录，按天和开始时间排序。
// 每次调用都重新查询，不做缓存。
func (r *Repository) ListSlots(filter SlotFilter) ([]*domain.FlatSlot, error) {
	conditions := make([]string, 0, 3)
	args := make([]any, 0, 3)

	if filter.ClassID != 0 {
		args = append(args, filter.ClassID)
		conditions = append(conditions, fmt.Sprintf("t.class_id = $%d", len(args)))
	}
	if filter.Day != "" {
		args = append(args, filter.Day)
		conditions = append(conditions, fmt.Sprintf("t.day = $%d", len(args)))
	}
	if filter.FacultyID != 0 {
		args = append(args, filter.FacultyID)
		conditions = append(conditions, fmt.Sprintf("ts.faculty_id = $%d", len(args)))
	}

	query := `
		SELECT t.id, ts.id, t.class_id, t.day, ts.start_time, ts.end_time, ts.subject_id, ts.faculty_id, ts.classroom
		FROM time_slots ts
		JOIN timetables t ON t.id = ts.timetable_id
	`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY " + dayOrderExpr + ", ts.start_time"

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := make([]*domain.FlatSlot, 0)
	for rows.Next() {
		slot := &domain.FlatSlot{}
		dst := []any{&slot.TimetableID, &slot.SlotID, &slot.ClassID, &slot.Day, &slot.StartTime, &slot.EndTime, &slot.SubjectID, &slot.FacultyID, &slot.Classroom}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return slots, nil
}

// FindSlotByKey 根据复合标识中的两个 ID 查询单个时段
func (r *Repository) FindSlotByKey(timetableID int64, slotID int64) (*domain.FlatSlot, error) {
	query := `
		SELECT t.class_id, t.day, ts.start_time, ts.end_time, ts.subject_id, ts.faculty_id, ts.classroom
		FROM time_slots ts
		JOIN timetables t ON t.id = ts.timetable_id
		WHERE ts.id = $1 AND ts.timetable_id = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	slot := &domain.FlatSlot{
		TimetableID: timetableID,
		SlotID:      slotID,
	}

	dst := []any{&slot.ClassID, &slot.Day, &slot.StartTime, &slot.EndTime, &slot.SubjectID, &slot.FacultyID, &slot.Classroom}
	if err := r.dbpool.QueryRowContext(ctx, query, slotID, timetableID).Scan(dst...); err != nil {
		return nil, err
	}

	return slot, nil
}

// GetTimetableByID 返回某个课表及其全部时段
func (r *Repository) GetTimetableByID(id int64) (*domain.Timetable, error) {
	query := `
		SELECT t.class_id, t.day, t.created_at, t.version, ts.id, ts.start_time, ts.end_time, ts.subject_id, ts.faculty_id, ts.classroom
		FROM timetables t
		LEFT JOIN time_slots ts ON ts.timetable_id = t.id
		WHERE t.id = $1
		ORDER BY ts.start_time
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	timetable := &domain.Timetable{
		ID:        id,
		TimeSlots: make([]domain.TimeSlot, 0),
	}
	found := false

	for rows.Next() {
		var row struct {
			ClassID   int64
			Day       domain.Day
			CreatedAt time.Time
			Version   int32

			SlotID    sql.NullInt64
			StartTime sql.NullString
			EndTime   sql.NullString
			SubjectID sql.NullInt64
			FacultyID sql.NullInt64
			Classroom sql.NullString
		}

		dst := []any{
			&row.ClassID,
			&row.Day,
			&row.CreatedAt,
			&row.Version,
			&row.SlotID,
			&row.StartTime,
			&row.EndTime,
			&row.SubjectID,
			&row.FacultyID,
			&row.Classroom,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if !found {
			timetable.ClassID = row.ClassID
			timetable.Day = row.Day
			timetable.CreatedAt = row.CreatedAt
			timetable.Version = row.Version
			found = true
		}

		// 时段列为空说明这个课表下没有任何时段
		if !row.SlotID.Valid {
			continue
		}

		timetable.TimeSlots = append(timetable.TimeSlots, domain.TimeSlot{
			ID:        row.SlotID.Int64,
			StartTime: row.StartTime.String,
			EndTime:   row.EndTime.String,
			SubjectID: row.SubjectID.Int64,
			FacultyID: row.FacultyID.Int64,
			Classroom: row.Classroom.String,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !found {
		return nil, sql.ErrNoRows
	}

	return timetable, nil
}
