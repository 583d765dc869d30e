package letter

import (
	"time"

	"github.com/google/uuid"
)

type Category string

const (
	CategoryNotice   Category = "Notice"
	CategoryMemo     Category = "Memo"
	CategoryCircular Category = "Circular"
	CategoryLetter   Category = "Letter"
)

var Categories = []string{string(CategoryNotice), string(CategoryMemo), string(CategoryCircular), string(CategoryLetter)}

type Status string

const (
	StatusDraft      Status = "draft"
	StatusInProgress Status = "in-progress"
	StatusForwarded  Status = "forwarded"
	StatusCompleted  Status = "completed"
)

var Statuses = []string{string(StatusDraft), string(StatusInProgress), string(StatusForwarded), string(StatusCompleted)}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

var Priorities = []string{string(PriorityLow), string(PriorityMedium), string(PriorityHigh), string(PriorityUrgent)}

type Recurrence struct {
	Unit     Unit
	Interval int
}

type Attachment struct {
	Path        string
	Name        string
	ContentType string
	Description string
}

type Letter struct {
	ID          uuid.UUID
	RefNo       string
	Subject     string
	Sender      string
	Receiver    string
	Category    Category
	Status      Status
	Priority    Priority
	DueDate     *time.Time
	Recurrence  *Recurrence
	NextDueDate *time.Time
	Attachment  *Attachment
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DeriveNextDueDate recomputes NextDueDate from DueDate and Recurrence.
func (l *Letter) DeriveNextDueDate() {
	l.NextDueDate = nil
	if l.DueDate == nil || l.Recurrence == nil {
		return
	}
	if next, ok := AddInterval(*l.DueDate, l.Recurrence.Unit, l.Recurrence.Interval); ok {
		l.NextDueDate = &next
	}
}

type LogAction string

const (
	LogCreated  LogAction = "created"
	LogUpdated  LogAction = "updated"
	LogRecurred LogAction = "recurred"
)

// Log is one audit entry in a letter's history.
type Log struct {
	ID          int64
	LetterID    uuid.UUID
	Action      LogAction
	Message     string
	OldStatus   *Status
	NewStatus   *Status
	OldDueDate  *time.Time
	NewDueDate  *time.Time
	NextDueDate *time.Time
	Actor       string
	CreatedAt   time.Time
}
