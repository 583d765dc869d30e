package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ismo-hris/hris-backend-go/internal/domain/attendance"
	"github.com/ismo-hris/hris-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

const attendanceColumns = `a.id, a.employee_id, a.erp_id, a.work_date, a.check_in, a.check_out, a.present,
		a.updated_by, a.created_at, a.updated_at`

func scanAttendance(row pgx.Row) (attendance.Record, error) {
	var rec attendance.Record
	err := row.Scan(
		&rec.ID,
		&rec.Employee.InternalID,
		&rec.Employee.ERPID,
		&rec.WorkDate,
		&rec.CheckIn,
		&rec.CheckOut,
		&rec.Present,
		&rec.UpdatedBy,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	return rec, err
}

func collectAttendance(rows pgx.Rows) ([]attendance.Record, error) {
	defer rows.Close()

	result := []attendance.Record{}
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}

// Upsert implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Upsert(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance AS a (employee_id, erp_id, work_date, check_in, check_out, present, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (employee_id, work_date) DO UPDATE
		SET check_in = EXCLUDED.check_in,
			check_out = EXCLUDED.check_out,
			present = EXCLUDED.present,
			updated_by = EXCLUDED.updated_by,
			updated_at = NOW()
		RETURNING ` + attendanceColumns

	saved, err := scanAttendance(q.QueryRow(ctx, query,
		rec.Employee.InternalID,
		rec.Employee.ERPID,
		rec.WorkDate,
		rec.CheckIn,
		rec.CheckOut,
		rec.HasPunch(),
		rec.UpdatedBy,
	))
	if err != nil {
		return attendance.Record{}, fmt.Errorf("upsert attendance: %w", err)
	}
	return saved, nil
}

// ListByEmployee implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByEmployee(ctx context.Context, filter attendance.ListFilter) ([]attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"a.erp_id = $1"}
	args := []any{filter.ERPID}
	argIdx := 2

	if !filter.From.IsZero() {
		conditions = append(conditions, fmt.Sprintf("a.work_date >= $%d", argIdx))
		args = append(args, filter.From)
		argIdx++
	}
	if !filter.To.IsZero() {
		conditions = append(conditions, fmt.Sprintf("a.work_date <= $%d", argIdx))
		args = append(args, filter.To)
		argIdx++
	}

	query := `SELECT ` + attendanceColumns + ` FROM attendance a
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY a.work_date DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return collectAttendance(rows)
}

// ListForSection implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListForSection(ctx context.Context, sectionID *int64, day time.Time) ([]attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendance a
		JOIN employees e ON e.id = a.employee_id
		WHERE ($1::bigint IS NULL OR e.section_id = $1) AND a.work_date = $2`

	rows, err := q.Query(ctx, query, sectionID, day)
	if err != nil {
		return nil, fmt.Errorf("list section attendance: %w", err)
	}
	return collectAttendance(rows)
}

// CoveringForSection implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) CoveringForSection(ctx context.Context, sectionID *int64, day time.Time) ([]attendance.Covering, error) {
	q := GetQuerier(ctx, r.db)

	// Leave beats official work; then the newest request wins.
	query := `
		SELECT DISTINCT ON (lr.employee_id) lr.employee_id, lr.erp_id, lr.category
		FROM leave_requests lr
		JOIN employees e ON e.id = lr.employee_id
		WHERE ($1::bigint IS NULL OR e.section_id = $1)
			AND lr.status <> 'rejected'
			AND lr.start_date <= $2 AND lr.end_date >= $2
		ORDER BY lr.employee_id, (lr.kind = 'leave') DESC, lr.created_at DESC`

	rows, err := q.Query(ctx, query, sectionID, day)
	if err != nil {
		return nil, fmt.Errorf("list covering requests: %w", err)
	}
	defer rows.Close()

	result := []attendance.Covering{}
	for rows.Next() {
		var c attendance.Covering
		if err := rows.Scan(&c.Employee.InternalID, &c.Employee.ERPID, &c.Category); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

// CountPresent implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) CountPresent(ctx context.Context, day time.Time) (int, error) {
	q := GetQuerier(ctx, r.db)

	var n int
	err := q.QueryRow(ctx, `
		SELECT COUNT(*) FROM attendance a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.work_date = $1 AND a.present AND e.active`, day).Scan(&n)
	return n, err
}
