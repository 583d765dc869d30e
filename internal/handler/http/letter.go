package http

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/ismo-hris/hris-backend-go/internal/domain/auth"
	"github.com/ismo-hris/hris-backend-go/internal/domain/letter"
	"github.com/ismo-hris/hris-backend-go/internal/handler/http/response"
)

// multipartMemory is how much of a letter form ParseMultipartForm keeps in
// memory before spilling to temp files.
const multipartMemory = 8 << 20

type LetterHandler interface {
	ListLetters(w http.ResponseWriter, r *http.Request)
	GetLetter(w http.ResponseWriter, r *http.Request)
	CreateLetter(w http.ResponseWriter, r *http.Request)
	ReplaceLetter(w http.ResponseWriter, r *http.Request)
	DeleteLetter(w http.ResponseWriter, r *http.Request)
	Download(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
}

type letterHandlerImpl struct {
	letterService letter.LetterService
	maxBodySize   int64
}

// NewLetterHandler caps multipart bodies at maxUploadSize plus room for the
// text fields.
func NewLetterHandler(letterService letter.LetterService, maxUploadSize int64) LetterHandler {
	return &letterHandlerImpl{
		letterService: letterService,
		maxBodySize:   maxUploadSize + 1<<20,
	}
}

func letterIDParam(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// parseLetterForm reads the sibling text fields and the optional binary
// "file" field. The returned close func must be called once the upload has
// been consumed.
func (h *letterHandlerImpl) parseLetterForm(w http.ResponseWriter, r *http.Request) (letter.UpsertLetterRequest, *letter.Upload, func(), error) {
	noop := func() {}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return letter.UpsertLetterRequest{}, nil, noop, letter.ErrAttachmentTooLarge
		}
		return letter.UpsertLetterRequest{}, nil, noop, err
	}

	req := letter.UpsertLetterRequest{
		RefNo:           r.FormValue("ref_no"),
		Subject:         r.FormValue("subject"),
		Sender:          r.FormValue("sender"),
		Receiver:        r.FormValue("receiver"),
		Category:        r.FormValue("category"),
		Status:          r.FormValue("status"),
		Priority:        r.FormValue("priority"),
		DueDate:         r.FormValue("due_date"),
		RecurrenceType:  r.FormValue("recurrence_type"),
		FileDescription: r.FormValue("file_description"),
	}
	if v := r.FormValue("recurrence_value"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			n = -1
		}
		req.RecurrenceValue = n
	}

	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return req, nil, noop, nil
	}
	if err != nil {
		return letter.UpsertLetterRequest{}, nil, noop, err
	}
	upload := &letter.Upload{
		File:     file,
		Filename: header.Filename,
		Size:     header.Size,
	}
	return req, upload, func() { file.Close() }, nil
}

func (h *letterHandlerImpl) badForm(w http.ResponseWriter, err error) {
	if errors.Is(err, letter.ErrAttachmentTooLarge) {
		response.HandleError(w, err)
		return
	}
	slog.Error("Letter form parse error", "error", err)
	response.BadRequest(w, "Failed to parse form data", nil)
}

// ListLetters implements LetterHandler
func (h *letterHandlerImpl) ListLetters(w http.ResponseWriter, r *http.Request) {
	filter := letter.ListFilter{
		Query:    r.URL.Query().Get("q"),
		Status:   r.URL.Query().Get("status"),
		Priority: r.URL.Query().Get("priority"),
		Category: r.URL.Query().Get("category"),
		Page:     intQuery(r, "page", 1),
		Limit:    intQuery(r, "limit", 20),
	}

	result, err := h.letterService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Letters, response.NewMeta(result.Page, result.Limit, result.TotalItems))
}

// GetLetter implements LetterHandler
func (h *letterHandlerImpl) GetLetter(w http.ResponseWriter, r *http.Request) {
	letterID, ok := letterIDParam(r)
	if !ok {
		response.BadRequest(w, "Invalid letter ID", nil)
		return
	}

	result, err := h.letterService.Get(r.Context(), letterID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CreateLetter reads a multipart form with a required "file" field.
func (h *letterHandlerImpl) CreateLetter(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	req, upload, closeFile, err := h.parseLetterForm(w, r)
	if err != nil {
		h.badForm(w, err)
		return
	}
	defer closeFile()

	result, err := h.letterService.Create(r.Context(), id, req, upload)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Letter created successfully", result)
}

// ReplaceLetter overwrites every field. Without a "file" field the current
// attachment is kept.
func (h *letterHandlerImpl) ReplaceLetter(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}
	letterID, ok := letterIDParam(r)
	if !ok {
		response.BadRequest(w, "Invalid letter ID", nil)
		return
	}

	req, upload, closeFile, err := h.parseLetterForm(w, r)
	if err != nil {
		h.badForm(w, err)
		return
	}
	defer closeFile()

	result, err := h.letterService.Replace(r.Context(), id, letterID, req, upload)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Letter updated successfully", result)
}

// DeleteLetter implements LetterHandler
func (h *letterHandlerImpl) DeleteLetter(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}
	letterID, ok := letterIDParam(r)
	if !ok {
		response.BadRequest(w, "Invalid letter ID", nil)
		return
	}

	if err := h.letterService.Delete(r.Context(), id, letterID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Letter deleted successfully", nil)
}

// Download streams the attachment bytes.
func (h *letterHandlerImpl) Download(w http.ResponseWriter, r *http.Request) {
	letterID, ok := letterIDParam(r)
	if !ok {
		response.BadRequest(w, "Invalid letter ID", nil)
		return
	}

	body, attachment, err := h.letterService.Download(r.Context(), letterID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", attachment.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": attachment.Name}))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		slog.Error("Letter download copy error", "error", err, "letter_id", letterID)
	}
}

// History returns the audit log, newest first.
func (h *letterHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	letterID, ok := letterIDParam(r)
	if !ok {
		response.BadRequest(w, "Invalid letter ID", nil)
		return
	}

	result, err := h.letterService.History(r.Context(), letterID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
