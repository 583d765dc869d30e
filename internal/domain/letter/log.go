package letter

import (
	"fmt"
	"strings"
	"time"
)

func CreatedLog(l Letter, actor string) Log {
	status := l.Status
	return Log{
		LetterID:    l.ID,
		Action:      LogCreated,
		Message:     fmt.Sprintf("Letter %s created", l.RefNo),
		NewStatus:   &status,
		NewDueDate:  l.DueDate,
		NextDueDate: l.NextDueDate,
		Actor:       actor,
	}
}

// UpdatedLog describes what a replace changed. Status and due date deltas are
// recorded in their own columns; other changed fields are listed in Message.
func UpdatedLog(before, after Letter, actor string) Log {
	log := Log{
		LetterID:    after.ID,
		Action:      LogUpdated,
		NextDueDate: after.NextDueDate,
		Actor:       actor,
	}

	var changed []string
	if before.Status != after.Status {
		oldStatus, newStatus := before.Status, after.Status
		log.OldStatus, log.NewStatus = &oldStatus, &newStatus
		changed = append(changed, "status")
	}
	if !sameDate(before.DueDate, after.DueDate) {
		log.OldDueDate, log.NewDueDate = before.DueDate, after.DueDate
		changed = append(changed, "due date")
	}
	if before.Subject != after.Subject {
		changed = append(changed, "subject")
	}
	if before.Priority != after.Priority {
		changed = append(changed, "priority")
	}
	if !sameRecurrence(before.Recurrence, after.Recurrence) {
		changed = append(changed, "recurrence")
	}
	if before.Attachment == nil && after.Attachment != nil ||
		before.Attachment != nil && after.Attachment != nil && before.Attachment.Path != after.Attachment.Path {
		changed = append(changed, "attachment")
	}

	if len(changed) == 0 {
		log.Message = "Letter saved without changes"
	} else {
		log.Message = "Updated " + strings.Join(changed, ", ")
	}
	return log
}

func RecurredLog(l Letter, oldDue time.Time) Log {
	return Log{
		LetterID:    l.ID,
		Action:      LogRecurred,
		Message:     "Due date rolled forward by recurrence",
		OldDueDate:  &oldDue,
		NewDueDate:  l.DueDate,
		NextDueDate: l.NextDueDate,
		Actor:       "system",
	}
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Format(dateLayout) == b.Format(dateLayout)
}

func sameRecurrence(a, b *Recurrence) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
