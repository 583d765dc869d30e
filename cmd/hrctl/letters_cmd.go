package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/ismo-hris/hris-backend-go/internal/client"
	"github.com/ismo-hris/hris-backend-go/internal/dashboard"
	"github.com/ismo-hris/hris-backend-go/internal/domain/letter"
	"github.com/spf13/cobra"
)

func newLettersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "letters",
		Short:             "Letter register",
		PersistentPreRunE: a.requireSession,
	}

	cmd.AddCommand(newLettersListCmd(a))
	cmd.AddCommand(newLettersCreateCmd(a))
	cmd.AddCommand(newLettersReplaceCmd(a))
	cmd.AddCommand(newLettersDeleteCmd(a))
	cmd.AddCommand(newLettersDownloadCmd(a))
	cmd.AddCommand(newLettersHistoryCmd(a))
	return cmd
}

func parseLetterID(arg string) (uuid.UUID, error) {
	id, err := uuid.Parse(arg)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid letter id %q", arg)
	}
	return id, nil
}

func newLettersListCmd(a *app) *cobra.Command {
	var opts listOptions
	var status, priority, category string
	var page, limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List letters",
		RunE: func(cmd *cobra.Command, args []string) error {
			var meta client.Meta
			store := dashboard.NewStore(func(ctx context.Context, p dashboard.Params) ([]letter.LetterResponse, error) {
				pg, _ := strconv.Atoi(p["page"])
				lim, _ := strconv.Atoi(p["limit"])
				res, err := a.client.Letters(ctx, letter.ListFilter{
					Query:    p["q"],
					Status:   p["status"],
					Priority: p["priority"],
					Category: p["category"],
					Page:     pg,
					Limit:    lim,
				})
				if err != nil {
					return nil, err
				}
				meta = res.Meta
				return res.Letters, nil
			})

			records, err := store.Load(cmd.Context(), dashboard.Params{
				"q":        opts.query,
				"status":   status,
				"priority": priority,
				"category": category,
				"page":     strconv.Itoa(page),
				"limit":    strconv.Itoa(limit),
			})
			if err != nil {
				return err
			}
			rows := dashboard.LetterProjection.Apply(records, dashboard.Predicates{
				Text:  opts.query,
				Equal: map[string]string{"status": status, "priority": priority, "category": category},
			})

			if err := show(a, dashboard.LetterTable, rows, opts.xlsx, "Letters"); err != nil {
				return err
			}
			if opts.xlsx == "" && meta.TotalPages > 0 {
				fmt.Fprintf(a.out, "\nPage %d of %d (%d letters)\n", meta.Page, meta.TotalPages, meta.TotalItems)
			}
			return nil
		},
	}

	opts.bind(cmd)
	cmd.Flags().StringVar(&status, "status", "", "Status")
	cmd.Flags().StringVar(&priority, "priority", "", "Priority")
	cmd.Flags().StringVar(&category, "category", "", "Category")
	cmd.Flags().IntVar(&page, "page", 1, "Page")
	cmd.Flags().IntVar(&limit, "limit", 20, "Letters per page")
	return cmd
}

func letterFormFlags(cmd *cobra.Command) formFlags {
	ff := formFlags{}
	ff.add(cmd, "ref_no", "ref-no", "Reference number")
	ff.add(cmd, "subject", "subject", "Subject")
	ff.add(cmd, "sender", "sender", "Sender")
	ff.add(cmd, "receiver", "receiver", "Receiver")
	ff.add(cmd, "category", "category", "Category")
	ff.add(cmd, "status", "status", "Status")
	ff.add(cmd, "priority", "priority", "Priority")
	ff.add(cmd, "due_date", "due-date", "Due date, YYYY-MM-DD")
	ff.add(cmd, "recurrence_type", "every-unit", "Recurrence unit: days, weeks, months, years or none")
	ff.add(cmd, "recurrence_value", "every", "Recurrence interval")
	ff.add(cmd, "file_description", "file-description", "Attachment description")
	return ff
}

func letterRequest(values map[string]string) letter.UpsertLetterRequest {
	interval, _ := strconv.Atoi(values["recurrence_value"])
	return letter.UpsertLetterRequest{
		RefNo:           values["ref_no"],
		Subject:         values["subject"],
		Sender:          values["sender"],
		Receiver:        values["receiver"],
		Category:        values["category"],
		Status:          values["status"],
		Priority:        values["priority"],
		DueDate:         values["due_date"],
		RecurrenceType:  values["recurrence_type"],
		RecurrenceValue: interval,
		FileDescription: values["file_description"],
	}
}

// openUpload opens path for a multipart upload. An empty path is no file.
func openUpload(path string) (*client.FileUpload, func(), error) {
	if path == "" {
		return nil, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open attachment: %w", err)
	}
	return &client.FileUpload{Name: filepath.Base(path), Content: f}, func() { _ = f.Close() }, nil
}

func (a *app) previewDueDate(f *dashboard.Form) {
	if next := dashboard.PreviewNextDueDate(f); next != "" {
		a.info("next due date will be %s", dashboard.FormatDate(next))
	}
}

func newLettersCreateCmd(a *app) *cobra.Command {
	var ff formFlags
	var file string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a letter with its attachment",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return errors.New("--file is required")
			}
			f := dashboard.LetterForm()
			ff.fill(f)
			a.previewDueDate(f)

			upload, closeUpload, err := openUpload(file)
			if err != nil {
				return err
			}
			defer closeUpload()

			return a.submit(cmd.Context(), f, func(ctx context.Context, values map[string]string) error {
				l, err := a.client.CreateLetter(ctx, letterRequest(values), upload)
				if err != nil {
					return err
				}
				a.info("letter %s created", l.ID)
				return dashboard.LetterTable.Render(a.out, []letter.LetterResponse{l})
			})
		},
	}

	ff = letterFormFlags(cmd)
	cmd.Flags().StringVar(&file, "file", "", "Attachment to upload")
	return cmd
}

func newLettersReplaceCmd(a *app) *cobra.Command {
	var ff formFlags
	var file string

	cmd := &cobra.Command{
		Use:   "replace <id>",
		Short: "Edit a letter; fields not given keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseLetterID(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			current, err := a.client.Letter(ctx, id)
			if err != nil {
				return err
			}

			f := dashboard.LetterForm()
			f.Set("ref_no", current.RefNo)
			f.Set("subject", current.Subject)
			f.Set("sender", current.Sender)
			f.Set("receiver", current.Receiver)
			f.Set("category", string(current.Category))
			f.Set("status", string(current.Status))
			f.Set("priority", string(current.Priority))
			f.Set("due_date", current.DueDate)
			f.Set("recurrence_type", string(current.RecurrenceType))
			if current.RecurrenceValue > 0 {
				f.Set("recurrence_value", strconv.Itoa(current.RecurrenceValue))
			}
			if current.Attachment != nil {
				f.Set("file_description", current.Attachment.Description)
			}
			ff.fill(f)
			a.previewDueDate(f)

			upload, closeUpload, err := openUpload(file)
			if err != nil {
				return err
			}
			defer closeUpload()

			return a.submit(ctx, f, func(ctx context.Context, values map[string]string) error {
				l, err := a.client.ReplaceLetter(ctx, id, letterRequest(values), upload)
				if err != nil {
					return err
				}
				a.info("letter %s updated", l.ID)
				return dashboard.LetterTable.Render(a.out, []letter.LetterResponse{l})
			})
		},
	}

	ff = letterFormFlags(cmd)
	cmd.Flags().StringVar(&file, "file", "", "New attachment (keeps the current one when empty)")
	return cmd
}

func newLettersDeleteCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a letter and its attachment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseLetterID(args[0])
			if err != nil {
				return err
			}
			ok, err := a.confirmer(yes).Confirm(fmt.Sprintf("Delete letter %s?", id))
			if err != nil {
				return err
			}
			if !ok {
				a.info("nothing deleted")
				return nil
			}
			if err := a.client.DeleteLetter(cmd.Context(), id); err != nil {
				return err
			}
			a.info("letter %s deleted", id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func newLettersDownloadCmd(a *app) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "download <id>",
		Short: "Save a letter's attachment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseLetterID(args[0])
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			name, err := a.client.DownloadLetter(cmd.Context(), id, &buf)
			if err != nil {
				return err
			}
			if name == "" {
				name = id.String()
			}
			path := filepath.Join(dir, filepath.Base(name))
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("save attachment: %w", err)
			}
			a.info("saved %s", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "Directory to save into")
	return cmd
}

func newLettersHistoryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "history <id>",
		Short: "Status and due date changes of a letter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseLetterID(args[0])
			if err != nil {
				return err
			}
			logs, err := a.client.LetterHistory(cmd.Context(), id)
			if err != nil {
				return err
			}
			return dashboard.LetterLogTable.Render(a.out, logs)
		},
	}
}
