package main

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ismo-hris/hris-backend-go/internal/client"
	"github.com/ismo-hris/hris-backend-go/internal/dashboard"
	"github.com/spf13/cobra"
)

// formFlags binds one string flag per form field.
type formFlags map[string]*string

func (ff formFlags) add(cmd *cobra.Command, field, flag, usage string) {
	v := new(string)
	cmd.Flags().StringVar(v, flag, "", usage)
	ff[field] = v
}

// fill copies the flags that were given into the form. Fields left out
// keep their default and are still checked on submit.
func (ff formFlags) fill(f *dashboard.Form) {
	for field, v := range ff {
		if *v != "" {
			f.Set(field, *v)
		}
	}
}

// submit runs the form and reports field errors, both the local ones and
// those the API returned for a validation failure.
func (a *app) submit(ctx context.Context, f *dashboard.Form, send func(context.Context, map[string]string) error) error {
	err := f.Submit(ctx, send)
	if err == nil {
		return nil
	}

	var srvErr *client.ServerError
	if errors.As(err, &srvErr) && srvErr.IsValidation() {
		f.ApplyServerErrors(srvErr.Details)
	} else if !errors.Is(err, dashboard.ErrFormInvalid) {
		return err
	}

	errs := f.Errors()
	names := make([]string, 0, len(errs))
	for name := range errs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		a.notifier.Notify(dashboard.LevelError, fmt.Sprintf("%s: %s", name, errs[name]))
	}
	if srvErr != nil {
		return srvErr
	}
	return err
}

func atoi64(s string) int64 {
	n, _ := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return n
}

func parseIDArg(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}
