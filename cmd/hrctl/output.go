package main

import (
	"fmt"
	"os"

	"github.com/ismo-hris/hris-backend-go/internal/dashboard"
	"github.com/spf13/cobra"
)

type listOptions struct {
	query string
	xlsx  string
}

func (o *listOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.query, "q", "q", "", "Search text")
	cmd.Flags().StringVar(&o.xlsx, "xlsx", "", "Write the rows to this .xlsx file instead of printing them")
}

// show prints rows as a table, or exports them when --xlsx was given.
func show[T any](a *app, t dashboard.Table[T], rows []T, xlsx, sheet string) error {
	if xlsx == "" {
		return t.Render(a.out, rows)
	}

	f, err := os.Create(xlsx)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := t.WriteXLSX(f, sheet, rows); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close export file: %w", err)
	}
	a.info("wrote %d rows to %s", len(rows), xlsx)
	return nil
}
