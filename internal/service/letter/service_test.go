package letter

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ismo-hris/hris-backend-go/internal/domain/auth"
	"github.com/ismo-hris/hris-backend-go/internal/domain/letter"
	"github.com/ismo-hris/hris-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLetterRepo struct {
	rows      map[uuid.UUID]letter.Letter
	updateErr error
}

func (f *fakeLetterRepo) Create(_ context.Context, l letter.Letter) (letter.Letter, error) {
	l.CreatedAt = time.Now()
	l.UpdatedAt = l.CreatedAt
	f.rows[l.ID] = l
	return l, nil
}

func (f *fakeLetterRepo) GetByID(_ context.Context, id uuid.UUID) (letter.Letter, error) {
	l, ok := f.rows[id]
	if !ok {
		return letter.Letter{}, letter.ErrLetterNotFound
	}
	return l, nil
}

func (f *fakeLetterRepo) List(context.Context, letter.ListFilter) ([]letter.Letter, int64, error) {
	var out []letter.Letter
	for _, l := range f.rows {
		out = append(out, l)
	}
	return out, int64(len(out)), nil
}

func (f *fakeLetterRepo) Update(_ context.Context, l letter.Letter) (letter.Letter, error) {
	if f.updateErr != nil {
		return letter.Letter{}, f.updateErr
	}
	if _, ok := f.rows[l.ID]; !ok {
		return letter.Letter{}, letter.ErrLetterNotFound
	}
	f.rows[l.ID] = l
	return l, nil
}

func (f *fakeLetterRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.rows, id)
	return nil
}

func (f *fakeLetterRepo) ListRecurringDue(_ context.Context, day time.Time) ([]letter.Letter, error) {
	var out []letter.Letter
	for _, l := range f.rows {
		if l.Recurrence != nil && l.NextDueDate != nil && !l.NextDueDate.After(day) {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakeLogRepo struct {
	logs []letter.Log
}

func (f *fakeLogRepo) Create(_ context.Context, l letter.Log) error {
	l.ID = int64(len(f.logs) + 1)
	f.logs = append(f.logs, l)
	return nil
}

func (f *fakeLogRepo) ListByLetter(_ context.Context, id uuid.UUID) ([]letter.Log, error) {
	var out []letter.Log
	for _, l := range f.logs {
		if l.LetterID == id {
			out = append(out, l)
		}
	}
	return out, nil
}

type memFiles struct {
	files   map[string][]byte
	deleted []string
}

func (m *memFiles) UploadLetterAttachment(_ context.Context, letterID uuid.UUID, upload letter.Upload) (letter.Attachment, error) {
	data, err := io.ReadAll(upload.File)
	if err != nil {
		return letter.Attachment{}, err
	}
	path := "letters/" + letterID.String() + "/" + uuid.NewString() + ".pdf"
	m.files[path] = data
	return letter.Attachment{Path: path, Name: upload.Filename, ContentType: "application/pdf"}, nil
}

func (m *memFiles) Open(_ context.Context, path string) (io.ReadCloser, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, errors.New("missing")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memFiles) DeleteFile(_ context.Context, path string) error {
	delete(m.files, path)
	m.deleted = append(m.deleted, path)
	return nil
}

type inlineTx struct{}

func (inlineTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixture struct {
	svc     letter.LetterService
	letters *fakeLetterRepo
	logs    *fakeLogRepo
	files   *memFiles
}

func newFixture() fixture {
	f := fixture{
		letters: &fakeLetterRepo{rows: map[uuid.UUID]letter.Letter{}},
		logs:    &fakeLogRepo{},
		files:   &memFiles{files: map[string][]byte{}},
	}
	f.svc = NewLetterService(f.letters, f.logs, f.files, inlineTx{})
	return f
}

var clerk = auth.Identity{UserID: 1, Username: "ayesha"}

func validRequest() letter.UpsertLetterRequest {
	return letter.UpsertLetterRequest{
		RefNo:           "REF-1",
		Subject:         "Quarterly return",
		Sender:          "Finance",
		Receiver:        "Registry",
		Category:        "Memo",
		Status:          "draft",
		Priority:        "high",
		DueDate:         "2024-01-31",
		RecurrenceType:  "months",
		RecurrenceValue: 1,
		FileDescription: "signed copy",
	}
}

func upload(content string) *letter.Upload {
	return &letter.Upload{File: strings.NewReader(content), Filename: "memo.pdf", Size: int64(len(content))}
}

func TestLetterService_Create(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.Create(context.Background(), clerk, validRequest(), upload("%PDF-1"))
	require.NoError(t, err)
	assert.Equal(t, byte(7), resp.ID[6]>>4, "letter ids are UUIDv7")
	assert.Equal(t, "2024-02-29", resp.NextDueDate)
	assert.Equal(t, "ayesha", resp.CreatedBy)
	require.NotNil(t, resp.Attachment)
	assert.Equal(t, "signed copy", resp.Attachment.Description)

	require.Len(t, f.logs.logs, 1)
	assert.Equal(t, letter.LogCreated, f.logs.logs[0].Action)
}

func TestLetterService_Create_RequiresFile(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(context.Background(), clerk, validRequest(), nil)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "file")
	assert.Empty(t, f.letters.rows)
}

func TestLetterService_Replace_LogsChangesAndSwapsFile(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created, err := f.svc.Create(ctx, clerk, validRequest(), upload("%PDF-1"))
	require.NoError(t, err)
	oldPath := f.letters.rows[created.ID].Attachment.Path

	req := validRequest()
	req.Status = "completed"
	req.DueDate = "2024-02-15"
	resp, err := f.svc.Replace(ctx, clerk, created.ID, req, upload("%PDF-2"))
	require.NoError(t, err)
	assert.Equal(t, letter.StatusCompleted, resp.Status)
	assert.Equal(t, "2024-03-15", resp.NextDueDate)

	require.Len(t, f.logs.logs, 2)
	updated := f.logs.logs[1]
	assert.Equal(t, letter.LogUpdated, updated.Action)
	require.NotNil(t, updated.OldStatus)
	assert.Equal(t, letter.StatusDraft, *updated.OldStatus)
	assert.Contains(t, updated.Message, "attachment")
	assert.Equal(t, []string{oldPath}, f.files.deleted)
}

func TestLetterService_Replace_KeepsFileWhenNoneSent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created, err := f.svc.Create(ctx, clerk, validRequest(), upload("%PDF-1"))
	require.NoError(t, err)

	_, err = f.svc.Replace(ctx, clerk, created.ID, validRequest(), nil)
	require.NoError(t, err)
	assert.Equal(t, "Letter saved without changes", f.logs.logs[1].Message)
	assert.Empty(t, f.files.deleted)
}

func TestLetterService_Replace_DiscardsUploadOnFailure(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created, err := f.svc.Create(ctx, clerk, validRequest(), upload("%PDF-1"))
	require.NoError(t, err)

	f.letters.updateErr = errors.New("db down")
	_, err = f.svc.Replace(ctx, clerk, created.ID, validRequest(), upload("%PDF-2"))
	require.Error(t, err)
	require.Len(t, f.files.deleted, 1)
	assert.Len(t, f.files.files, 1)
}

func TestLetterService_DownloadAndDelete(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created, err := f.svc.Create(ctx, clerk, validRequest(), upload("%PDF-1"))
	require.NoError(t, err)

	rc, att, err := f.svc.Download(ctx, created.ID)
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "%PDF-1", string(body))
	assert.Equal(t, "memo.pdf", att.Name)

	require.NoError(t, f.svc.Delete(ctx, clerk, created.ID))
	assert.Empty(t, f.files.files)
	_, err = f.svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, letter.ErrLetterNotFound)
}

func TestLetterService_History(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.History(ctx, uuid.New())
	assert.ErrorIs(t, err, letter.ErrLetterNotFound)

	created, err := f.svc.Create(ctx, clerk, validRequest(), upload("%PDF-1"))
	require.NoError(t, err)
	history, err := f.svc.History(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "2024-01-31", history[0].NewDueDate)
}

func TestLetterService_RollRecurring(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created, err := f.svc.Create(ctx, clerk, validRequest(), upload("%PDF-1"))
	require.NoError(t, err)

	n, err := f.svc.RollRecurring(ctx, time.Date(2024, 4, 2, 15, 0, 0, 0, time.Local))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-31", got.DueDate)
	assert.Equal(t, "2024-04-30", got.NextDueDate)

	last := f.logs.logs[len(f.logs.logs)-1]
	assert.Equal(t, letter.LogRecurred, last.Action)
	assert.Equal(t, "system", last.Actor)
	assert.Equal(t, "2024-01-31", last.OldDueDate.Format(validator.DateLayout))

	n, err = f.svc.RollRecurring(ctx, time.Date(2024, 4, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Zero(t, n)
}
