package main

import (
	"context"
	"fmt"

	"github.com/ismo-hris/hris-backend-go/internal/client"
	"github.com/ismo-hris/hris-backend-go/internal/dashboard"
	"github.com/ismo-hris/hris-backend-go/internal/domain/attendance"
	"github.com/spf13/cobra"
)

func newAttendanceCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "attendance",
		Short:             "Daily attendance",
		PersistentPreRunE: a.requireSession,
	}

	cmd.AddCommand(newAttendanceOverviewCmd(a))
	cmd.AddCommand(newAttendanceListCmd(a))
	cmd.AddCommand(newAttendanceShiftCmd(a))
	return cmd
}

func newAttendanceOverviewCmd(a *app) *cobra.Command {
	var opts listOptions
	var date, status string

	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Who is present, on leave or absent on a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			var holiday string
			store := dashboard.NewStore(func(ctx context.Context, p dashboard.Params) ([]attendance.OverviewRow, error) {
				resp, err := a.client.AttendanceOverview(ctx, p["date"])
				if err != nil {
					return nil, err
				}
				date, holiday = resp.Date, resp.Holiday
				return resp.Rows, nil
			})
			records, err := store.Load(cmd.Context(), dashboard.Params{"date": date})
			if err != nil {
				return err
			}

			rows := dashboard.OverviewProjection.Apply(records, dashboard.Predicates{
				Text:  opts.query,
				Equal: map[string]string{"status": status},
			})
			if opts.xlsx == "" {
				fmt.Fprintf(a.out, "Attendance for %s\n", dashboard.FormatDate(date))
				if holiday != "" {
					fmt.Fprintf(a.out, "Public holiday: %s\n", holiday)
				}
				fmt.Fprintln(a.out)
			}
			return show(a, dashboard.OverviewTable, rows, opts.xlsx, "Attendance")
		},
	}

	opts.bind(cmd)
	cmd.Flags().StringVar(&date, "date", "", "Day, YYYY-MM-DD (defaults to today)")
	cmd.Flags().StringVar(&status, "status", "", "Present, Absent, a leave type or a holiday name")
	return cmd
}

func newAttendanceListCmd(a *app) *cobra.Command {
	var erpID int64
	var from, to, xlsx string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Punch records of one employee",
		RunE: func(cmd *cobra.Command, args []string) error {
			if erpID <= 0 {
				return fmt.Errorf("--employee is required")
			}
			rows, err := a.client.Attendance(cmd.Context(), erpID, from, to)
			if err != nil {
				return err
			}
			return show(a, dashboard.RecordTable, rows, xlsx, "Attendance")
		},
	}

	cmd.Flags().Int64Var(&erpID, "employee", 0, "ERP id of the employee")
	cmd.Flags().StringVar(&from, "from", "", "First day, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "Last day, YYYY-MM-DD")
	cmd.Flags().StringVar(&xlsx, "xlsx", "", "Write the rows to this .xlsx file instead of printing them")
	return cmd
}

func newAttendanceShiftCmd(a *app) *cobra.Command {
	ff := formFlags{}

	cmd := &cobra.Command{
		Use:   "shift",
		Short: "Add or correct a manual shift record",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f := dashboard.ShiftForm()
			ff.fill(f)

			options, err := a.client.EmployeeOptions(ctx, client.EmployeeQuery{})
			if err != nil {
				return err
			}

			return a.submit(ctx, f, func(ctx context.Context, values map[string]string) error {
				ref, err := employeeRef(options, values["employee"])
				if err != nil {
					return err
				}
				rec, err := a.client.UpsertShift(ctx, attendance.UpsertShiftRequest{
					Employee: ref,
					Date:     values["date"],
					CheckIn:  values["check_in"],
					CheckOut: values["check_out"],
				})
				if err != nil {
					return err
				}
				a.info("shift saved for %s on %s", ref, dashboard.FormatDate(rec.Date))
				return dashboard.RecordTable.Render(a.out, []attendance.RecordResponse{rec})
			})
		},
	}

	ff.add(cmd, "employee", "employee", "ERP id of the employee")
	ff.add(cmd, "date", "date", "Day, YYYY-MM-DD")
	ff.add(cmd, "check_in", "check-in", "Check-in time, HH:MM")
	ff.add(cmd, "check_out", "check-out", "Check-out time, HH:MM")
	return cmd
}
