package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ismo-hris/hris-backend-go/internal/domain/employee"
	"github.com/ismo-hris/hris-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `e.id, e.erp_id, e.hris_id, e.name, e.cnic, e.gender, e.section_id, e.location_id,
		e.grade_id, e.designation_id, e.position, e.active, e.created_at, e.updated_at`

const employeeLabelJoins = `
		JOIN sections s ON s.id = e.section_id
		JOIN locations l ON l.id = e.location_id
		JOIN grades g ON g.id = e.grade_id
		JOIN designations d ON d.id = e.designation_id`

func employeeDest(e *employee.Employee) []any {
	return []any{
		&e.InternalID,
		&e.ERPID,
		&e.HRISID,
		&e.Name,
		&e.CNIC,
		&e.Gender,
		&e.SectionID,
		&e.LocationID,
		&e.GradeID,
		&e.DesignationID,
		&e.Position,
		&e.Active,
		&e.CreatedAt,
		&e.UpdatedAt,
	}
}

func scanEmployeeWithLabels(row pgx.Row) (employee.WithLabels, error) {
	var e employee.WithLabels
	dest := append(employeeDest(&e.Employee), &e.SectionName, &e.LocationName, &e.GradeName, &e.DesignationTitle)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.WithLabels{}, employee.ErrEmployeeNotFound
		}
		return employee.WithLabels{}, err
	}
	return e, nil
}

func mapEmployeeWriteError(err error) error {
	if constraint, ok := uniqueConstraint(err); ok {
		switch constraint {
		case "employees_erp_id_key":
			return employee.ErrERPIDExists
		case "employees_hris_id_key":
			return employee.ErrHRISIDExists
		case "employees_cnic_key":
			return employee.ErrCNICExists
		}
	}
	return err
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employees AS e (erp_id, hris_id, name, cnic, gender, section_id, location_id,
			grade_id, designation_id, position, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + employeeColumns

	var created employee.Employee
	err := q.QueryRow(ctx, query,
		e.ERPID, e.HRISID, e.Name, e.CNIC, e.Gender, e.SectionID, e.LocationID,
		e.GradeID, e.DesignationID, e.Position, e.Active,
	).Scan(employeeDest(&created)...)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("insert employee: %w", mapEmployeeWriteError(err))
	}
	return created, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id int64) (employee.WithLabels, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + employeeColumns + `, s.name, l.name, g.name, d.title
		FROM employees e` + employeeLabelJoins + `
		WHERE e.id = $1`

	return scanEmployeeWithLabels(q.QueryRow(ctx, query, id))
}

// GetByERPID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByERPID(ctx context.Context, erpID int64) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	var e employee.Employee
	err := q.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees e WHERE e.erp_id = $1`, erpID).Scan(employeeDest(&e)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, err
	}
	return e, nil
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.WithLabels, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"TRUE"}
	args := []any{}
	argIdx := 1

	if filter.SectionID != nil {
		conditions = append(conditions, fmt.Sprintf("e.section_id = $%d", argIdx))
		args = append(args, *filter.SectionID)
		argIdx++
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("e.active = $%d", argIdx))
		args = append(args, *filter.Active)
		argIdx++
	}
	if filter.Query != "" {
		conditions = append(conditions, fmt.Sprintf("(e.name ILIKE $%d OR e.erp_id::text ILIKE $%d OR e.hris_id::text ILIKE $%d OR e.cnic ILIKE $%d)", argIdx, argIdx, argIdx, argIdx))
		args = append(args, "%"+filter.Query+"%")
		argIdx++
	}

	query := `
		SELECT ` + employeeColumns + `, s.name, l.name, g.name, d.title
		FROM employees e` + employeeLabelJoins + `
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY e.name`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	var result []employee.WithLabels
	for rows.Next() {
		e, err := scanEmployeeWithLabels(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Update(ctx context.Context, e employee.Employee) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees
		SET erp_id = $1, hris_id = $2, name = $3, cnic = $4, gender = $5, section_id = $6,
			location_id = $7, grade_id = $8, designation_id = $9, position = $10, active = $11,
			updated_at = NOW()
		WHERE id = $12`

	tag, err := q.Exec(ctx, query,
		e.ERPID, e.HRISID, e.Name, e.CNIC, e.Gender, e.SectionID,
		e.LocationID, e.GradeID, e.DesignationID, e.Position, e.Active,
		e.InternalID,
	)
	if err != nil {
		return fmt.Errorf("update employee %d: %w", e.InternalID, mapEmployeeWriteError(err))
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// Delete implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Delete(ctx context.Context, id int64) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return employee.ErrEmployeeInUse
		}
		return fmt.Errorf("delete employee %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// CountActive implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) CountActive(ctx context.Context) (int, error) {
	q := GetQuerier(ctx, r.db)

	var n int
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM employees WHERE active`).Scan(&n)
	return n, err
}

// HRISIDsInUse implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) HRISIDsInUse(ctx context.Context) (map[int]struct{}, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT hris_id FROM employees`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	used := make(map[int]struct{})
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		used[id] = struct{}{}
	}
	return used, rows.Err()
}
