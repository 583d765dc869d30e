package dashboard

import (
	"strings"
	"sync"
	"time"
)

// Predicates are what the user typed into a page's search box and picked
// in its dropdown filters.
type Predicates struct {
	Text  string
	Equal map[string]string
}

func (p Predicates) IsEmpty() bool {
	if strings.TrimSpace(p.Text) != "" {
		return false
	}
	for _, v := range p.Equal {
		if v != "" {
			return false
		}
	}
	return true
}

// Projection describes how to search and filter one record type. Search
// returns the display fields the text box matches against. Fields maps an
// enumerated field name (status, priority, category) to its value.
type Projection[T any] struct {
	Search func(T) []string
	Fields map[string]func(T) string
}

// Apply returns the records matching every predicate, in their original
// order. Empty predicates return the full list. An Equal key without a
// matching Fields entry excludes nothing.
func (p Projection[T]) Apply(records []T, preds Predicates) []T {
	out := make([]T, 0, len(records))
	text := strings.ToLower(strings.TrimSpace(preds.Text))
	for _, rec := range records {
		if text != "" && p.Search != nil {
			if !strings.Contains(strings.ToLower(strings.Join(p.Search(rec), " ")), text) {
				continue
			}
		}
		if !p.matchesFields(rec, preds.Equal) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func (p Projection[T]) matchesFields(rec T, equal map[string]string) bool {
	for key, want := range equal {
		if want == "" {
			continue
		}
		field, ok := p.Fields[key]
		if !ok {
			continue
		}
		if field(rec) != want {
			return false
		}
	}
	return true
}

// Debouncer calls fn with the latest pushed value once no new value has
// arrived for d. Calls to fn never overlap.
type Debouncer struct {
	d       time.Duration
	fn      func(string)
	mu      sync.Mutex
	run     sync.Mutex
	timer   *time.Timer
	pending *string
}

func NewDebouncer(d time.Duration, fn func(string)) *Debouncer {
	return &Debouncer{d: d, fn: fn}
}

func (b *Debouncer) Push(v string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = &v
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.d, b.fire)
}

// Flush delivers a pending value now and waits for a running call to end.
func (b *Debouncer) Flush() {
	b.mu.Lock()
	if b.timer != nil {
		b.timer.Stop()
	}
	b.mu.Unlock()
	b.fire()
}

func (b *Debouncer) fire() {
	b.run.Lock()
	defer b.run.Unlock()

	b.mu.Lock()
	v := b.pending
	b.pending = nil
	b.mu.Unlock()

	if v != nil {
		b.fn(*v)
	}
}
