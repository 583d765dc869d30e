package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/ismo-hris/hris-backend-go/internal/domain/letter"
	"github.com/ismo-hris/hris-backend-go/internal/pkg/storage"
)

// sniffLen is how much of an upload is read to detect its type.
const sniffLen = 3072

var allowedLetterTypes = []string{
	"application/pdf",
	"image/jpeg",
	"image/png",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"application/vnd.ms-excel",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"text/plain",
}

type FileService interface {
	// UploadLetterAttachment stores an attachment under the letter's folder.
	UploadLetterAttachment(ctx context.Context, letterID uuid.UUID, upload letter.Upload) (letter.Attachment, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	DeleteFile(ctx context.Context, path string) error
}

type fileServiceImpl struct {
	storage       storage.FileStorage
	maxUploadSize int64
}

func NewFileService(storage storage.FileStorage, maxUploadSize int64) FileService {
	return &fileServiceImpl{
		storage:       storage,
		maxUploadSize: maxUploadSize,
	}
}

// errTooLarge is returned by limitedReader once the limit is crossed.
var errTooLarge = errors.New("upload limit exceeded")

type limitedReader struct {
	r         io.Reader
	remaining int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	if l.remaining < 0 {
		return n, errTooLarge
	}
	return n, err
}

// UploadLetterAttachment detects the content type from the first bytes, so a
// renamed executable is refused whatever its extension.
func (s *fileServiceImpl) UploadLetterAttachment(ctx context.Context, letterID uuid.UUID, upload letter.Upload) (letter.Attachment, error) {
	if s.maxUploadSize > 0 && upload.Size > s.maxUploadSize {
		return letter.Attachment{}, letter.ErrAttachmentTooLarge
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(upload.File, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return letter.Attachment{}, fmt.Errorf("failed to read attachment: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return letter.Attachment{}, letter.ErrInvalidAttachment
	}

	mime := mimetype.Detect(head)
	if !mimetype.EqualsAny(mime.String(), allowedLetterTypes...) {
		return letter.Attachment{}, fmt.Errorf("%w: %s", letter.ErrInvalidAttachment, mime.String())
	}

	ext := mime.Extension()
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(upload.Filename))
	}
	key := path.Join("letters", letterID.String(), uuid.NewString()+ext)

	var body io.Reader = io.MultiReader(bytes.NewReader(head), upload.File)
	if s.maxUploadSize > 0 {
		body = &limitedReader{r: body, remaining: s.maxUploadSize}
	}

	stored, err := s.storage.Upload(ctx, body, key, mime.String())
	if err != nil {
		if errors.Is(err, errTooLarge) {
			return letter.Attachment{}, letter.ErrAttachmentTooLarge
		}
		return letter.Attachment{}, fmt.Errorf("failed to upload letter attachment: %w", err)
	}

	return letter.Attachment{
		Path:        stored,
		Name:        filepath.Base(upload.Filename),
		ContentType: mime.String(),
	}, nil
}

// Open streams a stored file.
func (s *fileServiceImpl) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	return s.storage.Download(ctx, path)
}

// DeleteFile deletes a file
func (s *fileServiceImpl) DeleteFile(ctx context.Context, path string) error {
	return s.storage.Delete(ctx, path)
}
