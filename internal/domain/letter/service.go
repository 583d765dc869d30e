package letter

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/ismo-hris/hris-backend-go/internal/domain/auth"
)

type LetterService interface {
	Create(ctx context.Context, id auth.Identity, req UpsertLetterRequest, file *Upload) (LetterResponse, error)
	Get(ctx context.Context, letterID uuid.UUID) (LetterResponse, error)
	List(ctx context.Context, filter ListFilter) (ListResponse, error)
	// Replace overwrites every field. A nil file keeps the current attachment.
	Replace(ctx context.Context, id auth.Identity, letterID uuid.UUID, req UpsertLetterRequest, file *Upload) (LetterResponse, error)
	Delete(ctx context.Context, id auth.Identity, letterID uuid.UUID) error
	Download(ctx context.Context, letterID uuid.UUID) (io.ReadCloser, Attachment, error)
	History(ctx context.Context, letterID uuid.UUID) ([]LogResponse, error)
	RollRecurring(ctx context.Context, today time.Time) (int, error)
}
