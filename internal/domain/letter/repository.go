package letter

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type LetterRepository interface {
	Create(ctx context.Context, l Letter) (Letter, error)
	GetByID(ctx context.Context, id uuid.UUID) (Letter, error)
	List(ctx context.Context, filter ListFilter) ([]Letter, int64, error)
	Update(ctx context.Context, l Letter) (Letter, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// ListRecurringDue returns recurring letters whose next due date is on or before day.
	ListRecurringDue(ctx context.Context, day time.Time) ([]Letter, error)
}

type LogRepository interface {
	Create(ctx context.Context, log Log) error
	ListByLetter(ctx context.Context, letterID uuid.UUID) ([]Log, error)
}
