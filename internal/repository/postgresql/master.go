package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ismo-hris/hris-backend-go/internal/domain/master"
	"github.com/ismo-hris/hris-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type masterRepositoryImpl struct {
	db *database.DB
}

func NewMasterRepository(db *database.DB) master.MasterRepository {
	return &masterRepositoryImpl{db: db}
}

// listNamed runs a two-column (id, label) query and maps each row with build.
func listNamed[T any](ctx context.Context, q database.Querier, query string, build func(id int64, label string) T) ([]T, error) {
	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []T{}
	for rows.Next() {
		var (
			id    int64
			label string
		)
		if err := rows.Scan(&id, &label); err != nil {
			return nil, err
		}
		result = append(result, build(id, label))
	}
	return result, rows.Err()
}

func (r *masterRepositoryImpl) ListSections(ctx context.Context) ([]master.Section, error) {
	sections, err := listNamed(ctx, GetQuerier(ctx, r.db), `SELECT id, name FROM sections ORDER BY name`,
		func(id int64, name string) master.Section { return master.Section{ID: id, Name: name} })
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	return sections, nil
}

func (r *masterRepositoryImpl) ListLocations(ctx context.Context) ([]master.Location, error) {
	locations, err := listNamed(ctx, GetQuerier(ctx, r.db), `SELECT id, name FROM locations ORDER BY name`,
		func(id int64, name string) master.Location { return master.Location{ID: id, Name: name} })
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	return locations, nil
}

func (r *masterRepositoryImpl) ListGrades(ctx context.Context) ([]master.Grade, error) {
	grades, err := listNamed(ctx, GetQuerier(ctx, r.db), `SELECT id, name FROM grades ORDER BY id`,
		func(id int64, name string) master.Grade { return master.Grade{ID: id, Name: name} })
	if err != nil {
		return nil, fmt.Errorf("list grades: %w", err)
	}
	return grades, nil
}

func (r *masterRepositoryImpl) ListDesignations(ctx context.Context) ([]master.Designation, error) {
	designations, err := listNamed(ctx, GetQuerier(ctx, r.db), `SELECT id, title FROM designations ORDER BY title`,
		func(id int64, title string) master.Designation { return master.Designation{ID: id, Title: title} })
	if err != nil {
		return nil, fmt.Errorf("list designations: %w", err)
	}
	return designations, nil
}

func (r *masterRepositoryImpl) HolidayOn(ctx context.Context, day time.Time) (master.Holiday, bool, error) {
	q := GetQuerier(ctx, r.db)

	var h master.Holiday
	err := q.QueryRow(ctx, `SELECT id, name, date FROM public_holidays WHERE date = $1`, day).Scan(&h.ID, &h.Name, &h.Date)
	if errors.Is(err, pgx.ErrNoRows) {
		return master.Holiday{}, false, nil
	}
	if err != nil {
		return master.Holiday{}, false, fmt.Errorf("holiday on %s: %w", day.Format(time.DateOnly), err)
	}
	return h, true, nil
}
