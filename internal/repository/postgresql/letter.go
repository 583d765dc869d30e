package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ismo-hris/hris-backend-go/internal/domain/letter"
	"github.com/ismo-hris/hris-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type letterRepositoryImpl struct {
	db *database.DB
}

func NewLetterRepository(db *database.DB) letter.LetterRepository {
	return &letterRepositoryImpl{db: db}
}

const letterColumns = `id, ref_no, subject, sender, receiver, category, status, priority, due_date,
		recurrence_unit, recurrence_interval, next_due_date, file_path, file_name, file_content_type,
		file_description, created_by, created_at, updated_at`

func scanLetter(row pgx.Row) (letter.Letter, error) {
	var (
		l                          letter.Letter
		category, status, priority string
		unit                       *string
		interval                   *int
		path, name, contentType    *string
		description                string
	)
	err := row.Scan(
		&l.ID,
		&l.RefNo,
		&l.Subject,
		&l.Sender,
		&l.Receiver,
		&category,
		&status,
		&priority,
		&l.DueDate,
		&unit,
		&interval,
		&l.NextDueDate,
		&path,
		&name,
		&contentType,
		&description,
		&l.CreatedBy,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return letter.Letter{}, letter.ErrLetterNotFound
		}
		return letter.Letter{}, err
	}

	l.Category = letter.Category(category)
	l.Status = letter.Status(status)
	l.Priority = letter.Priority(priority)
	if unit != nil && interval != nil {
		l.Recurrence = &letter.Recurrence{Unit: letter.Unit(*unit), Interval: *interval}
	}
	if path != nil {
		l.Attachment = &letter.Attachment{Path: *path, Description: description}
		if name != nil {
			l.Attachment.Name = *name
		}
		if contentType != nil {
			l.Attachment.ContentType = *contentType
		}
	}
	return l, nil
}

// letterArgs flattens the writable columns in letterColumns order, skipping
// id and the timestamps.
func letterArgs(l letter.Letter) []any {
	var (
		unit                    *string
		interval                *int
		path, name, contentType *string
		description             string
	)
	if l.Recurrence != nil {
		u := string(l.Recurrence.Unit)
		unit, interval = &u, &l.Recurrence.Interval
	}
	if l.Attachment != nil {
		path, name, contentType = &l.Attachment.Path, &l.Attachment.Name, &l.Attachment.ContentType
		description = l.Attachment.Description
	}
	return []any{
		l.RefNo,
		l.Subject,
		l.Sender,
		l.Receiver,
		string(l.Category),
		string(l.Status),
		string(l.Priority),
		l.DueDate,
		unit,
		interval,
		l.NextDueDate,
		path,
		name,
		contentType,
		description,
	}
}

// Create implements letter.LetterRepository.
func (r *letterRepositoryImpl) Create(ctx context.Context, l letter.Letter) (letter.Letter, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO letters (id, ref_no, subject, sender, receiver, category, status, priority, due_date,
			recurrence_unit, recurrence_interval, next_due_date, file_path, file_name, file_content_type,
			file_description, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING ` + letterColumns

	args := append([]any{l.ID}, letterArgs(l)...)
	args = append(args, l.CreatedBy)

	created, err := scanLetter(q.QueryRow(ctx, query, args...))
	if err != nil {
		return letter.Letter{}, fmt.Errorf("insert letter: %w", err)
	}
	return created, nil
}

// GetByID implements letter.LetterRepository.
func (r *letterRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (letter.Letter, error) {
	q := GetQuerier(ctx, r.db)
	return scanLetter(q.QueryRow(ctx, `SELECT `+letterColumns+` FROM letters WHERE id = $1`, id))
}

// List implements letter.LetterRepository.
func (r *letterRepositoryImpl) List(ctx context.Context, filter letter.ListFilter) ([]letter.Letter, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"TRUE"}
	args := []any{}
	argIdx := 1

	if filter.Query != "" {
		conditions = append(conditions, fmt.Sprintf("(ref_no ILIKE $%d OR subject ILIKE $%d OR sender ILIKE $%d OR receiver ILIKE $%d)", argIdx, argIdx, argIdx, argIdx))
		args = append(args, "%"+filter.Query+"%")
		argIdx++
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, filter.Status)
		argIdx++
	}
	if filter.Priority != "" {
		conditions = append(conditions, fmt.Sprintf("priority = $%d", argIdx))
		args = append(args, filter.Priority)
		argIdx++
	}
	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argIdx))
		args = append(args, filter.Category)
		argIdx++
	}
	where := strings.Join(conditions, " AND ")

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM letters WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count letters: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM letters WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		letterColumns, where, argIdx, argIdx+1)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list letters: %w", err)
	}
	defer rows.Close()

	letters := []letter.Letter{}
	for rows.Next() {
		l, err := scanLetter(rows)
		if err != nil {
			return nil, 0, err
		}
		letters = append(letters, l)
	}
	return letters, total, rows.Err()
}

// Update implements letter.LetterRepository. CreatedBy and CreatedAt are kept.
func (r *letterRepositoryImpl) Update(ctx context.Context, l letter.Letter) (letter.Letter, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE letters
		SET ref_no = $1, subject = $2, sender = $3, receiver = $4, category = $5, status = $6, priority = $7,
			due_date = $8, recurrence_unit = $9, recurrence_interval = $10, next_due_date = $11,
			file_path = $12, file_name = $13, file_content_type = $14, file_description = $15,
			updated_at = NOW()
		WHERE id = $16
		RETURNING ` + letterColumns

	args := append(letterArgs(l), l.ID)
	updated, err := scanLetter(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, letter.ErrLetterNotFound) {
			return letter.Letter{}, err
		}
		return letter.Letter{}, fmt.Errorf("update letter %s: %w", l.ID, err)
	}
	return updated, nil
}

// Delete implements letter.LetterRepository. Logs go with the letter.
func (r *letterRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM letters WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete letter %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return letter.ErrLetterNotFound
	}
	return nil
}

// ListRecurringDue implements letter.LetterRepository.
func (r *letterRepositoryImpl) ListRecurringDue(ctx context.Context, day time.Time) ([]letter.Letter, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + letterColumns + ` FROM letters
		WHERE recurrence_unit IS NOT NULL AND next_due_date IS NOT NULL AND next_due_date <= $1
		ORDER BY next_due_date`

	rows, err := q.Query(ctx, query, day)
	if err != nil {
		return nil, fmt.Errorf("list recurring letters: %w", err)
	}
	defer rows.Close()

	letters := []letter.Letter{}
	for rows.Next() {
		l, err := scanLetter(rows)
		if err != nil {
			return nil, err
		}
		letters = append(letters, l)
	}
	return letters, rows.Err()
}

type letterLogRepositoryImpl struct {
	db *database.DB
}

func NewLetterLogRepository(db *database.DB) letter.LogRepository {
	return &letterLogRepositoryImpl{db: db}
}

// Create implements letter.LogRepository.
func (r *letterLogRepositoryImpl) Create(ctx context.Context, log letter.Log) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO letter_logs (letter_id, action, message, old_status, new_status, old_due_date,
			new_due_date, next_due_date, actor)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := q.Exec(ctx, query,
		log.LetterID,
		string(log.Action),
		log.Message,
		statusText(log.OldStatus),
		statusText(log.NewStatus),
		log.OldDueDate,
		log.NewDueDate,
		log.NextDueDate,
		log.Actor,
	)
	if err != nil {
		return fmt.Errorf("insert letter log: %w", err)
	}
	return nil
}

// ListByLetter implements letter.LogRepository.
func (r *letterLogRepositoryImpl) ListByLetter(ctx context.Context, letterID uuid.UUID) ([]letter.Log, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, letter_id, action, message, old_status, new_status, old_due_date, new_due_date,
			next_due_date, actor, created_at
		FROM letter_logs
		WHERE letter_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := q.Query(ctx, query, letterID)
	if err != nil {
		return nil, fmt.Errorf("list letter logs: %w", err)
	}
	defer rows.Close()

	logs := []letter.Log{}
	for rows.Next() {
		var (
			l                    letter.Log
			action               string
			oldStatus, newStatus *string
		)
		if err := rows.Scan(&l.ID, &l.LetterID, &action, &l.Message, &oldStatus, &newStatus,
			&l.OldDueDate, &l.NewDueDate, &l.NextDueDate, &l.Actor, &l.CreatedAt); err != nil {
			return nil, err
		}
		l.Action = letter.LogAction(action)
		l.OldStatus = statusPtr(oldStatus)
		l.NewStatus = statusPtr(newStatus)
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func statusText(s *letter.Status) *string {
	if s == nil {
		return nil
	}
	v := string(*s)
	return &v
}

func statusPtr(s *string) *letter.Status {
	if s == nil {
		return nil
	}
	v := letter.Status(*s)
	return &v
}
