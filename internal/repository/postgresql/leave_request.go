package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ismo-hris/hris-backend-go/internal/domain/leave"
	"github.com/ismo-hris/hris-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

const leaveRequestViewSelect = `
		SELECT lr.id, lr.kind::text, lr.employee_id, lr.erp_id, lr.approver_employee_id, lr.approver_erp_id,
			lr.category, lr.start_date, lr.end_date, lr.reason, lr.authority, lr.status::text,
			lr.created_by, lr.decided_by, lr.decided_at, lr.created_at, lr.updated_at,
			e.name, COALESCE(a.name, '')
		FROM leave_requests lr
		JOIN employees e ON e.id = lr.employee_id
		LEFT JOIN employees a ON a.id = lr.approver_employee_id`

func scanLeaveView(row pgx.Row) (leave.View, error) {
	var (
		v                 leave.View
		kind, status      string
		approverID, apERP *int64
	)
	err := row.Scan(
		&v.ID,
		&kind,
		&v.Requester.InternalID,
		&v.Requester.ERPID,
		&approverID,
		&apERP,
		&v.Category,
		&v.StartDate,
		&v.EndDate,
		&v.Reason,
		&v.Authority,
		&status,
		&v.CreatedBy,
		&v.DecidedBy,
		&v.DecidedAt,
		&v.CreatedAt,
		&v.UpdatedAt,
		&v.RequesterName,
		&v.ApproverName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.View{}, leave.ErrLeaveRequestNotFound
		}
		return leave.View{}, err
	}
	v.Kind = leave.Kind(kind)
	v.Status = leave.Status(status)
	if approverID != nil {
		v.Approver.InternalID = *approverID
	}
	if apERP != nil {
		v.Approver.ERPID = *apERP
	}
	return v, nil
}

func nullableID(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (kind, employee_id, erp_id, approver_employee_id, approver_erp_id, category,
			start_date, end_date, reason, authority, status, created_by, decided_by, decided_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at, updated_at`

	err := q.QueryRow(ctx, query,
		string(req.Kind),
		req.Requester.InternalID,
		req.Requester.ERPID,
		nullableID(req.Approver.InternalID),
		nullableID(req.Approver.ERPID),
		req.Category,
		req.StartDate,
		req.EndDate,
		req.Reason,
		req.Authority,
		string(req.Status),
		req.CreatedBy,
		req.DecidedBy,
		req.DecidedAt,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("insert %s request: %w", req.Kind, err)
	}
	return req, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, kind leave.Kind, id int64) (leave.View, error) {
	q := GetQuerier(ctx, r.db)
	return scanLeaveView(q.QueryRow(ctx, leaveRequestViewSelect+` WHERE lr.kind = $1 AND lr.id = $2`, string(kind), id))
}

// ListBySection implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListBySection(ctx context.Context, kind leave.Kind, sectionID *int64, filter leave.ListFilter) ([]leave.View, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"lr.kind = $1", "e.active"}
	args := []any{string(kind)}
	argIdx := 2

	if sectionID != nil {
		conditions = append(conditions, fmt.Sprintf("e.section_id = $%d", argIdx))
		args = append(args, *sectionID)
		argIdx++
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("lr.status::text = $%d", argIdx))
		args = append(args, filter.Status)
		argIdx++
	}
	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("lr.category = $%d", argIdx))
		args = append(args, filter.Category)
		argIdx++
	}

	query := leaveRequestViewSelect + `
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY lr.created_at DESC, lr.id DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s requests: %w", kind, err)
	}
	defer rows.Close()

	result := []leave.View{}
	for rows.Next() {
		v, err := scanLeaveView(rows)
		if err != nil {
			return nil, err
		}
		if filter.Matches(v) {
			result = append(result, v)
		}
	}
	return result, rows.Err()
}

// Decide implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Decide(ctx context.Context, kind leave.Kind, id int64, status leave.Status, decidedBy int64, decidedAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = $1, decided_by = $2, decided_at = $3, updated_at = NOW()
		WHERE kind = $4 AND id = $5 AND status = 'pending'`

	tag, err := q.Exec(ctx, query, string(status), decidedBy, decidedAt, string(kind), id)
	if err != nil {
		return fmt.Errorf("decide %s request %d: %w", kind, id, err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Nothing updated: either the row is gone or it was already decided.
	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM leave_requests WHERE kind = $1 AND id = $2)`, string(kind), id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return leave.ErrLeaveRequestNotFound
	}
	return leave.ErrLeaveRequestAlreadyProcessed
}

// ListApprovedInRange implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListApprovedInRange(ctx context.Context, filter leave.ReportFilter) ([]leave.View, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{
		"lr.kind = 'leave'",
		"lr.status = 'approved'",
		"lr.start_date <= $1",
		"lr.end_date >= $2",
	}
	args := []any{filter.To, filter.From}
	argIdx := 3

	if filter.SectionID != nil {
		conditions = append(conditions, fmt.Sprintf("e.section_id = $%d", argIdx))
		args = append(args, *filter.SectionID)
		argIdx++
	}
	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("lr.category = $%d", argIdx))
		args = append(args, filter.Category)
		argIdx++
	}

	query := leaveRequestViewSelect + `
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY e.name, lr.start_date`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list approved leave: %w", err)
	}
	defer rows.Close()

	result := []leave.View{}
	for rows.Next() {
		v, err := scanLeaveView(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, rows.Err()
}
