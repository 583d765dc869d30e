package dashboard

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/ismo-hris/hris-backend-go/internal/pkg/validator"
)

var ErrFormInvalid = errors.New("form has invalid fields")

type FieldState int

const (
	Untouched FieldState = iota
	TouchedValid
	TouchedInvalid
)

func (s FieldState) String() string {
	switch s {
	case TouchedValid:
		return "valid"
	case TouchedInvalid:
		return "invalid"
	default:
		return "untouched"
	}
}

// Rule checks one field value and returns an error message, or "" when the
// value passes.
type Rule func(value string) string

func Required(msg string) Rule {
	return func(v string) string {
		if validator.IsEmpty(v) {
			return msg
		}
		return ""
	}
}

// Digits accepts exactly n ASCII digits. Empty values pass; pair with
// Required when the field is mandatory.
func Digits(n int, msg string) Rule {
	return func(v string) string {
		if v == "" || validator.IsDigits(v, n) {
			return ""
		}
		return msg
	}
}

func OneOf(values []string, msg string) Rule {
	return func(v string) string {
		if v == "" || validator.IsInSlice(v, values) {
			return ""
		}
		return msg
	}
}

func PositiveInt(msg string) Rule {
	return func(v string) string {
		if v == "" {
			return ""
		}
		if n, err := strconv.Atoi(v); err != nil || n <= 0 {
			return msg
		}
		return ""
	}
}

func Date(msg string) Rule {
	return func(v string) string {
		if v == "" {
			return ""
		}
		if _, ok := validator.IsValidDate(v); !ok {
			return msg
		}
		return ""
	}
}

type Field struct {
	Name    string
	Default string
	Rules   []Rule
}

// Form holds the draft values of one record being created or edited.
type Form struct {
	fields []Field
	values map[string]string
	states map[string]FieldState
	errors map[string]string
}

func NewForm(fields ...Field) *Form {
	f := &Form{fields: fields}
	f.Reset()
	return f
}

// Reset restores every field to its default and untouched state.
func (f *Form) Reset() {
	f.values = make(map[string]string, len(f.fields))
	f.states = make(map[string]FieldState, len(f.fields))
	f.errors = make(map[string]string)
	for _, fd := range f.fields {
		f.values[fd.Name] = fd.Default
		f.states[fd.Name] = Untouched
	}
}

func (f *Form) field(name string) (Field, bool) {
	for _, fd := range f.fields {
		if fd.Name == name {
			return fd, true
		}
	}
	return Field{}, false
}

// Set stores a value and validates that field only. Unknown names are
// ignored.
func (f *Form) Set(name, value string) {
	fd, ok := f.field(name)
	if !ok {
		return
	}
	f.values[name] = strings.TrimSpace(value)
	f.check(fd)
}

func (f *Form) check(fd Field) bool {
	for _, rule := range fd.Rules {
		if msg := rule(f.values[fd.Name]); msg != "" {
			f.errors[fd.Name] = msg
			f.states[fd.Name] = TouchedInvalid
			return false
		}
	}
	delete(f.errors, fd.Name)
	f.states[fd.Name] = TouchedValid
	return true
}

// Validate checks every field. Each failing field records the message of
// its first failing rule.
func (f *Form) Validate() bool {
	ok := true
	for _, fd := range f.fields {
		if !f.check(fd) {
			ok = false
		}
	}
	return ok
}

func (f *Form) Value(name string) string {
	return f.values[name]
}

func (f *Form) Values() map[string]string {
	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

func (f *Form) State(name string) FieldState {
	return f.states[name]
}

func (f *Form) Errors() map[string]string {
	out := make(map[string]string, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

// Submit validates and, only when every field passes, calls send. On
// success the form resets to its defaults. On failure the values stay so
// the user can retry without re-entering them.
func (f *Form) Submit(ctx context.Context, send func(ctx context.Context, values map[string]string) error) error {
	if !f.Validate() {
		return ErrFormInvalid
	}
	if err := send(ctx, f.Values()); err != nil {
		return err
	}
	f.Reset()
	return nil
}

// ApplyServerErrors marks fields the API rejected.
func (f *Form) ApplyServerErrors(details map[string]string) {
	for name, msg := range details {
		if _, ok := f.field(name); !ok {
			continue
		}
		f.errors[name] = msg
		f.states[name] = TouchedInvalid
	}
}
