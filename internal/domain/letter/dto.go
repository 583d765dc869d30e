package letter

import (
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ismo-hris/hris-backend-go/internal/pkg/validator"
)

// UpsertLetterRequest carries the text fields of the multipart letter form.
type UpsertLetterRequest struct {
	RefNo           string
	Subject         string
	Sender          string
	Receiver        string
	Category        string
	Status          string
	Priority        string
	DueDate         string
	RecurrenceType  string
	RecurrenceValue int
	FileDescription string
}

func (r *UpsertLetterRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RefNo) {
		errs = append(errs, validator.ValidationError{Field: "ref_no", Message: "Reference number is required"})
	}
	if validator.IsEmpty(r.Subject) {
		errs = append(errs, validator.ValidationError{Field: "subject", Message: "Subject is required"})
	}
	if validator.IsEmpty(r.Sender) {
		errs = append(errs, validator.ValidationError{Field: "sender", Message: "Sender is required"})
	}
	if validator.IsEmpty(r.Receiver) {
		errs = append(errs, validator.ValidationError{Field: "receiver", Message: "Receiver is required"})
	}
	if validator.IsEmpty(r.Category) {
		errs = append(errs, validator.ValidationError{Field: "category", Message: "Category is required"})
	} else if !validator.IsInSlice(r.Category, Categories) {
		errs = append(errs, validator.ValidationError{Field: "category", Message: "Category must be one of " + strings.Join(Categories, ", ")})
	}
	if validator.IsEmpty(r.Status) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "Status is required"})
	} else if !validator.IsInSlice(r.Status, Statuses) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "Status must be one of " + strings.Join(Statuses, ", ")})
	}
	if validator.IsEmpty(r.Priority) {
		errs = append(errs, validator.ValidationError{Field: "priority", Message: "Priority is required"})
	} else if !validator.IsInSlice(r.Priority, Priorities) {
		errs = append(errs, validator.ValidationError{Field: "priority", Message: "Priority must be one of " + strings.Join(Priorities, ", ")})
	}
	if validator.IsEmpty(r.FileDescription) {
		errs = append(errs, validator.ValidationError{Field: "file_description", Message: "File description is required"})
	}
	if r.DueDate != "" {
		if _, ok := validator.IsValidDate(r.DueDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "due_date", Message: "Due date must be YYYY-MM-DD"})
		}
	}
	if r.RecurrenceType != "" && r.RecurrenceType != "none" {
		if _, ok := ParseUnit(r.RecurrenceType); !ok {
			errs = append(errs, validator.ValidationError{Field: "recurrence_type", Message: "Recurrence type must be one of " + strings.Join(Units, ", ")})
		}
		if r.RecurrenceValue < 1 {
			errs = append(errs, validator.ValidationError{Field: "recurrence_value", Message: "Recurrence value must be a positive number"})
		}
		if r.DueDate == "" {
			errs = append(errs, validator.ValidationError{Field: "due_date", Message: "Due date is required for a recurring letter"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Apply copies the request onto l and re-derives the next due date.
// Call after Validate.
func (r *UpsertLetterRequest) Apply(l *Letter) {
	l.RefNo = strings.TrimSpace(r.RefNo)
	l.Subject = strings.TrimSpace(r.Subject)
	l.Sender = strings.TrimSpace(r.Sender)
	l.Receiver = strings.TrimSpace(r.Receiver)
	l.Category = Category(r.Category)
	l.Status = Status(r.Status)
	l.Priority = Priority(r.Priority)

	l.DueDate = nil
	if d, ok := validator.IsValidDate(r.DueDate); ok {
		l.DueDate = &d
	}
	l.Recurrence = nil
	if unit, ok := ParseUnit(r.RecurrenceType); ok {
		l.Recurrence = &Recurrence{Unit: unit, Interval: r.RecurrenceValue}
	}
	if l.Attachment != nil {
		l.Attachment.Description = r.FileDescription
	}
	l.DeriveNextDueDate()
}

// Upload is an attachment streamed from a multipart form.
type Upload struct {
	File     io.Reader
	Filename string
	Size     int64
}

type ListFilter struct {
	Query    string
	Status   string
	Priority string
	Category string
	Page     int
	Limit    int
}

// Normalize applies the default page size and clamps out-of-range values.
func (f *ListFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
}

func (f ListFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

type AttachmentResponse struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Description string `json:"description"`
}

type LetterResponse struct {
	ID              uuid.UUID           `json:"id"`
	RefNo           string              `json:"ref_no"`
	Subject         string              `json:"subject"`
	Sender          string              `json:"sender"`
	Receiver        string              `json:"receiver"`
	Category        Category            `json:"category"`
	Status          Status              `json:"status"`
	Priority        Priority            `json:"priority"`
	DueDate         string              `json:"due_date,omitempty"`
	RecurrenceType  Unit                `json:"recurrence_type,omitempty"`
	RecurrenceValue int                 `json:"recurrence_value,omitempty"`
	NextDueDate     string              `json:"next_due_date,omitempty"`
	Attachment      *AttachmentResponse `json:"attachment,omitempty"`
	CreatedBy       string              `json:"created_by"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(validator.DateLayout)
}

func NewLetterResponse(l Letter) LetterResponse {
	resp := LetterResponse{
		ID:          l.ID,
		RefNo:       l.RefNo,
		Subject:     l.Subject,
		Sender:      l.Sender,
		Receiver:    l.Receiver,
		Category:    l.Category,
		Status:      l.Status,
		Priority:    l.Priority,
		DueDate:     formatDate(l.DueDate),
		NextDueDate: formatDate(l.NextDueDate),
		CreatedBy:   l.CreatedBy,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
	if l.Recurrence != nil {
		resp.RecurrenceType = l.Recurrence.Unit
		resp.RecurrenceValue = l.Recurrence.Interval
	}
	if l.Attachment != nil {
		resp.Attachment = &AttachmentResponse{
			Name:        l.Attachment.Name,
			ContentType: l.Attachment.ContentType,
			Description: l.Attachment.Description,
		}
	}
	return resp
}

type ListResponse struct {
	Letters    []LetterResponse
	TotalItems int64
	Page       int
	Limit      int
}

type LogResponse struct {
	ID          int64     `json:"id"`
	Action      LogAction `json:"action"`
	Message     string    `json:"message"`
	OldStatus   *Status   `json:"old_status,omitempty"`
	NewStatus   *Status   `json:"new_status,omitempty"`
	OldDueDate  string    `json:"old_due_date,omitempty"`
	NewDueDate  string    `json:"new_due_date,omitempty"`
	NextDueDate string    `json:"next_due_date,omitempty"`
	Actor       string    `json:"actor"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewLogResponse(l Log) LogResponse {
	return LogResponse{
		ID:          l.ID,
		Action:      l.Action,
		Message:     l.Message,
		OldStatus:   l.OldStatus,
		NewStatus:   l.NewStatus,
		OldDueDate:  formatDate(l.OldDueDate),
		NewDueDate:  formatDate(l.NewDueDate),
		NextDueDate: formatDate(l.NextDueDate),
		Actor:       l.Actor,
		CreatedAt:   l.CreatedAt,
	}
}
