package letter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/ismo-hris/hris-backend-go/internal/domain/auth"
	"github.com/ismo-hris/hris-backend-go/internal/domain/letter"
	"github.com/ismo-hris/hris-backend-go/internal/pkg/storage"
	"github.com/ismo-hris/hris-backend-go/internal/pkg/validator"
	"github.com/ismo-hris/hris-backend-go/internal/service/file"
)

// Transactor runs fn in one database transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type LetterServiceImpl struct {
	letterRepo  letter.LetterRepository
	logRepo     letter.LogRepository
	fileService file.FileService
	tx          Transactor
}

func NewLetterService(
	letterRepo letter.LetterRepository,
	logRepo letter.LogRepository,
	fileService file.FileService,
	tx Transactor,
) letter.LetterService {
	return &LetterServiceImpl{
		letterRepo:  letterRepo,
		logRepo:     logRepo,
		fileService: fileService,
		tx:          tx,
	}
}

// discard removes a file written for a mutation that did not commit.
func (s *LetterServiceImpl) discard(ctx context.Context, path string) {
	if err := s.fileService.DeleteFile(ctx, path); err != nil {
		slog.Error("failed to delete letter attachment", "path", path, "error", err)
	}
}

// Create implements letter.LetterService. The attachment is mandatory.
func (s *LetterServiceImpl) Create(ctx context.Context, id auth.Identity, req letter.UpsertLetterRequest, upload *letter.Upload) (letter.LetterResponse, error) {
	if err := req.Validate(); err != nil {
		return letter.LetterResponse{}, err
	}
	if upload == nil {
		return letter.LetterResponse{}, validator.ValidationErrors{{Field: "file", Message: "File is required"}}
	}

	letterID, err := uuid.NewV7()
	if err != nil {
		return letter.LetterResponse{}, fmt.Errorf("failed to generate letter id: %w", err)
	}

	att, err := s.fileService.UploadLetterAttachment(ctx, letterID, *upload)
	if err != nil {
		return letter.LetterResponse{}, err
	}

	l := letter.Letter{ID: letterID, Attachment: &att, CreatedBy: id.Username}
	req.Apply(&l)

	var created letter.Letter
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		if created, err = s.letterRepo.Create(txCtx, l); err != nil {
			return err
		}
		return s.logRepo.Create(txCtx, letter.CreatedLog(created, id.Username))
	})
	if err != nil {
		s.discard(ctx, att.Path)
		return letter.LetterResponse{}, fmt.Errorf("failed to create letter: %w", err)
	}

	slog.Info("letter created", "letter_id", created.ID, "ref_no", created.RefNo, "by", id.Username)
	return letter.NewLetterResponse(created), nil
}

// Get implements letter.LetterService.
func (s *LetterServiceImpl) Get(ctx context.Context, letterID uuid.UUID) (letter.LetterResponse, error) {
	l, err := s.letterRepo.GetByID(ctx, letterID)
	if err != nil {
		return letter.LetterResponse{}, err
	}
	return letter.NewLetterResponse(l), nil
}

// List implements letter.LetterService.
func (s *LetterServiceImpl) List(ctx context.Context, filter letter.ListFilter) (letter.ListResponse, error) {
	filter.Normalize()

	letters, total, err := s.letterRepo.List(ctx, filter)
	if err != nil {
		return letter.ListResponse{}, fmt.Errorf("failed to list letters: %w", err)
	}

	resp := letter.ListResponse{
		Letters:    make([]letter.LetterResponse, 0, len(letters)),
		TotalItems: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}
	for _, l := range letters {
		resp.Letters = append(resp.Letters, letter.NewLetterResponse(l))
	}
	return resp, nil
}

// Replace implements letter.LetterService.
func (s *LetterServiceImpl) Replace(ctx context.Context, id auth.Identity, letterID uuid.UUID, req letter.UpsertLetterRequest, upload *letter.Upload) (letter.LetterResponse, error) {
	if err := req.Validate(); err != nil {
		return letter.LetterResponse{}, err
	}

	before, err := s.letterRepo.GetByID(ctx, letterID)
	if err != nil {
		return letter.LetterResponse{}, err
	}

	after := before
	if before.Attachment != nil {
		att := *before.Attachment
		after.Attachment = &att
	}
	var uploaded string
	if upload != nil {
		att, err := s.fileService.UploadLetterAttachment(ctx, letterID, *upload)
		if err != nil {
			return letter.LetterResponse{}, err
		}
		after.Attachment = &att
		uploaded = att.Path
	}
	req.Apply(&after)

	var updated letter.Letter
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		if updated, err = s.letterRepo.Update(txCtx, after); err != nil {
			return err
		}
		return s.logRepo.Create(txCtx, letter.UpdatedLog(before, updated, id.Username))
	})
	if err != nil {
		if uploaded != "" {
			s.discard(ctx, uploaded)
		}
		if errors.Is(err, letter.ErrLetterNotFound) {
			return letter.LetterResponse{}, err
		}
		return letter.LetterResponse{}, fmt.Errorf("failed to update letter: %w", err)
	}

	if uploaded != "" && before.Attachment != nil && before.Attachment.Path != uploaded {
		s.discard(ctx, before.Attachment.Path)
	}
	return letter.NewLetterResponse(updated), nil
}

// Delete implements letter.LetterService. The history goes with the letter.
func (s *LetterServiceImpl) Delete(ctx context.Context, id auth.Identity, letterID uuid.UUID) error {
	l, err := s.letterRepo.GetByID(ctx, letterID)
	if err != nil {
		return err
	}
	if err := s.letterRepo.Delete(ctx, letterID); err != nil {
		return err
	}
	if l.Attachment != nil {
		s.discard(ctx, l.Attachment.Path)
	}
	slog.Info("letter deleted", "letter_id", letterID, "ref_no", l.RefNo, "by", id.Username)
	return nil
}

// Download implements letter.LetterService.
func (s *LetterServiceImpl) Download(ctx context.Context, letterID uuid.UUID) (io.ReadCloser, letter.Attachment, error) {
	l, err := s.letterRepo.GetByID(ctx, letterID)
	if err != nil {
		return nil, letter.Attachment{}, err
	}
	if l.Attachment == nil {
		return nil, letter.Attachment{}, letter.ErrAttachmentNotFound
	}

	rc, err := s.fileService.Open(ctx, l.Attachment.Path)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			return nil, letter.Attachment{}, letter.ErrAttachmentNotFound
		}
		return nil, letter.Attachment{}, fmt.Errorf("failed to open attachment: %w", err)
	}
	return rc, *l.Attachment, nil
}

// History implements letter.LetterService.
func (s *LetterServiceImpl) History(ctx context.Context, letterID uuid.UUID) ([]letter.LogResponse, error) {
	if _, err := s.letterRepo.GetByID(ctx, letterID); err != nil {
		return nil, err
	}

	logs, err := s.logRepo.ListByLetter(ctx, letterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list letter history: %w", err)
	}
	responses := make([]letter.LogResponse, 0, len(logs))
	for _, l := range logs {
		responses = append(responses, letter.NewLogResponse(l))
	}
	return responses, nil
}

// RollRecurring implements letter.LetterService. Every recurring letter whose
// next due date has arrived gets its due date moved to the latest schedule
// point on or before today. One failing letter does not stop the rest.
func (s *LetterServiceImpl) RollRecurring(ctx context.Context, today time.Time) (int, error) {
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	due, err := s.letterRepo.ListRecurringDue(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("failed to list recurring letters: %w", err)
	}

	rolled := 0
	var errs []error
	for _, l := range due {
		if l.DueDate == nil || l.Recurrence == nil {
			continue
		}
		newDue, next, ok := letter.RollForward(*l.DueDate, *l.Recurrence, today)
		if !ok {
			continue
		}
		oldDue := *l.DueDate
		l.DueDate, l.NextDueDate = &newDue, &next

		err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
			updated, err := s.letterRepo.Update(txCtx, l)
			if err != nil {
				return err
			}
			return s.logRepo.Create(txCtx, letter.RecurredLog(updated, oldDue))
		})
		if err != nil {
			slog.Error("failed to roll letter forward", "letter_id", l.ID, "error", err)
			errs = append(errs, fmt.Errorf("letter %s: %w", l.ID, err))
			continue
		}
		rolled++
	}
	return rolled, errors.Join(errs...)
}
