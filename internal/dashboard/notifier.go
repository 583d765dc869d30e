package dashboard

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/ismo-hris/hris-backend-go/internal/client"
)

type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notifier shows transient, non-blocking messages. No error reported
// through it ends the page.
type Notifier interface {
	Notify(level Level, msg string)
}

type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

func (n *WriterNotifier) Notify(level Level, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "%s: %s\n", level, msg)
}

// Describe turns an API or form error into one notification line.
func Describe(err error) string {
	var netErr *client.NetworkError
	var srvErr *client.ServerError
	switch {
	case errors.As(err, &netErr):
		return "Network error, please retry: " + netErr.Err.Error()
	case errors.As(err, &srvErr):
		if len(srvErr.Details) == 0 {
			return srvErr.Message
		}
		keys := make([]string, 0, len(srvErr.Details))
		for k := range srvErr.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, srvErr.Details[k])
		}
		return srvErr.Message + ": " + strings.Join(parts, ", ")
	default:
		return err.Error()
	}
}

// Report sends err to n, if there is one.
func Report(n Notifier, err error) {
	if err != nil {
		n.Notify(LevelError, Describe(err))
	}
}
