package dashboard

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/xuri/excelize/v2"
)

type Column[T any] struct {
	Header string
	Value  func(T) string
}

// Table maps columns to record fields. The same columns feed the terminal
// view and the spreadsheet export.
type Table[T any] struct {
	Columns []Column[T]
}

func (t Table[T]) headers() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Header
	}
	return out
}

func (t Table[T]) row(rec T) []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Value(rec)
	}
	return out
}

// Render writes an aligned text table. An empty list prints the header and
// a "no records" line.
func (t Table[T]) Render(w io.Writer, rows []T) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, strings.Join(t.headers(), "\t")); err != nil {
		return err
	}
	for _, rec := range rows {
		if _, err := fmt.Fprintln(tw, strings.Join(t.row(rec), "\t")); err != nil {
			return err
		}
	}
	if len(rows) == 0 {
		if _, err := fmt.Fprintln(tw, "(no records)"); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// WriteXLSX writes the rows as a one-sheet workbook with a bold header row.
func (t Table[T]) WriteXLSX(w io.Writer, sheet string, rows []T) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheet = "Sheet1"
	}
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return fmt.Errorf("name sheet: %w", err)
		}
	}

	header := make([]interface{}, len(t.Columns))
	for i, h := range t.headers() {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for i, rec := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := t.row(rec)
		row := make([]interface{}, len(values))
		for j, v := range values {
			row[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	return f.Write(w)
}

// Display transforms shared by the page tables.

const displayDate = "02 Jan 2006"

// FormatDate renders YYYY-MM-DD as "02 Jan 2006". Other input is returned
// unchanged; "" stays "".
func FormatDate(s string) string {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return s
	}
	return t.Format(displayDate)
}

func FormatClock(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("15:04")
}

// Badge renders a status the way the web tables colored it, as a bracketed
// upper-case tag.
func Badge(status string) string {
	if status == "" {
		return ""
	}
	return "[" + strings.ToUpper(strings.ReplaceAll(status, "_", " ")) + "]"
}
