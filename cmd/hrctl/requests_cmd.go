package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ismo-hris/hris-backend-go/internal/client"
	"github.com/ismo-hris/hris-backend-go/internal/dashboard"
	"github.com/ismo-hris/hris-backend-go/internal/domain/employee"
	"github.com/ismo-hris/hris-backend-go/internal/domain/leave"
	"github.com/spf13/cobra"
)

type kindSpec struct {
	kind  leave.Kind
	use   string
	short string
	sheet string
}

var (
	kindLeaveSpec        = kindSpec{kind: leave.KindLeave, use: "leaves", short: "Leave requests", sheet: "Leaves"}
	kindOfficialWorkSpec = kindSpec{kind: leave.KindOfficialWork, use: "official-work", short: "Official work requests", sheet: "Official Work"}
)

func newRequestsCmd(a *app, ks kindSpec) *cobra.Command {
	cmd := &cobra.Command{
		Use:               ks.use,
		Short:             ks.short,
		PersistentPreRunE: a.requireSession,
	}

	cmd.AddCommand(newRequestsListCmd(a, ks))
	cmd.AddCommand(newRequestsApplyCmd(a, ks))
	cmd.AddCommand(newRequestsDecideCmd(a, ks, leave.ActionApprove))
	cmd.AddCommand(newRequestsDecideCmd(a, ks, leave.ActionReject))
	if ks.kind == leave.KindLeave {
		cmd.AddCommand(newLeaveReportCmd(a))
	}
	return cmd
}

func (a *app) requestStore(kind leave.Kind) *dashboard.Store[leave.LeaveRequestResponse] {
	return dashboard.NewStore(func(ctx context.Context, p dashboard.Params) ([]leave.LeaveRequestResponse, error) {
		return a.client.Requests(ctx, kind, leave.ListFilter{Status: p["status"], Category: p["category"]})
	})
}

func newRequestsListCmd(a *app, ks kindSpec) *cobra.Command {
	var opts listOptions
	var status, category string
	var mine bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List requests of your section",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := a.requestStore(ks.kind)
			records, err := store.Load(cmd.Context(), dashboard.Params{"status": status, "category": category})
			if err != nil {
				return err
			}

			rows := dashboard.RequestProjection.Apply(records, dashboard.Predicates{
				Text:  opts.query,
				Equal: map[string]string{"status": status, "category": category},
			})
			id := dashboard.SessionIdentity(a.session.User)
			var decidable []string
			filtered := make([]leave.LeaveRequestResponse, 0, len(rows))
			for _, r := range rows {
				can := dashboard.CanDecide(r, id)
				if can {
					decidable = append(decidable, strconv.FormatInt(r.ID, 10))
				}
				if !mine || can {
					filtered = append(filtered, r)
				}
			}

			if err := show(a, dashboard.RequestTable(ks.kind), filtered, opts.xlsx, ks.sheet); err != nil {
				return err
			}
			if len(decidable) > 0 && opts.xlsx == "" {
				fmt.Fprintf(a.out, "\nAwaiting your decision: %s\n", strings.Join(decidable, ", "))
			}
			return nil
		},
	}

	opts.bind(cmd)
	cmd.Flags().StringVar(&status, "status", "", "pending, approved or rejected")
	cmd.Flags().StringVar(&category, "type", "", "Leave type")
	cmd.Flags().BoolVar(&mine, "mine", false, "Only requests waiting for your decision")
	return cmd
}

// employeeRef looks an ERP id up in the dropdown options so the request
// carries both ids of the employee.
func employeeRef(options []dashboard.Option, erp string) (employee.Ref, error) {
	o, ok := dashboard.OptionByERPID(options, atoi64(erp))
	if !ok {
		return employee.Ref{}, fmt.Errorf("no employee with ERP id %s", erp)
	}
	return o.Value, nil
}

func newRequestsApplyCmd(a *app, ks kindSpec) *cobra.Command {
	ff := formFlags{}

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply on behalf of an employee",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			needsApprover := a.session.User.GradeID < a.autoApproveGrade
			f := dashboard.RequestForm(ks.kind, needsApprover)
			ff.fill(f)

			options, err := a.client.EmployeeOptions(ctx, client.EmployeeQuery{})
			if err != nil {
				return err
			}

			var created leave.LeaveRequestResponse
			err = a.submit(ctx, f, func(ctx context.Context, values map[string]string) error {
				req := leave.CreateRequest{
					Category:  values["leave_type"],
					StartDate: values["start_date"],
					EndDate:   values["end_date"],
					Reason:    values["reason"],
					Authority: values["approved_by"],
				}
				var err error
				if req.Employee, err = employeeRef(options, values["employee"]); err != nil {
					return err
				}
				if needsApprover {
					approver, err := employeeRef(options, values["approver"])
					if err != nil {
						return err
					}
					req.Approver = &approver
				}
				created, err = a.client.CreateRequest(ctx, ks.kind, req)
				return err
			})
			if err != nil {
				return err
			}

			a.info("%s %d submitted as %s", strings.ToLower(ks.kind.Label()), created.ID, created.Status)
			return dashboard.RequestTable(ks.kind).Render(a.out, []leave.LeaveRequestResponse{created})
		},
	}

	ff.add(cmd, "employee", "employee", "ERP id of the employee")
	ff.add(cmd, "leave_type", "type", "Leave type: "+strings.Join(leave.Categories(ks.kind), ", "))
	ff.add(cmd, "start_date", "from", "First day, YYYY-MM-DD")
	ff.add(cmd, "end_date", "to", "Last day, YYYY-MM-DD")
	ff.add(cmd, "reason", "reason", "Reason")
	ff.add(cmd, "approver", "approver", "ERP id of the section head (below the auto-approve grade)")
	if ks.kind == leave.KindOfficialWork {
		ff.add(cmd, "approved_by", "approved-by", "Approving authority: "+strings.Join(leave.Authorities, ", "))
	}
	return cmd
}

func newRequestsDecideCmd(a *app, ks kindSpec, action leave.Action) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   string(action) + " <id>",
		Short: strings.ToUpper(string(action[:1])) + string(action[1:]) + " a pending request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			store := a.requestStore(ks.kind)
			if _, err := store.Load(ctx, dashboard.Params{"status": string(leave.StatusPending)}); err != nil {
				return err
			}

			var rec *leave.LeaveRequestResponse
			for _, r := range store.Records() {
				if r.ID == id {
					rec = &r
					break
				}
			}
			if rec == nil {
				return fmt.Errorf("no pending %s with id %d", strings.ToLower(ks.kind.Label()), id)
			}

			approval := &dashboard.Approval{
				Kind:    ks.kind,
				Confirm: a.confirmer(yes),
				Send:    a.client.Decide,
				Refresh: func(ctx context.Context) error {
					_, err := store.Refresh(ctx)
					return err
				},
			}
			decided, err := approval.Decide(ctx, dashboard.SessionIdentity(a.session.User), *rec, action)
			if err != nil {
				if errors.Is(err, dashboard.ErrDeclined) {
					a.info("nothing sent")
					return nil
				}
				return err
			}

			a.info("%s %d is now %s", strings.ToLower(ks.kind.Label()), decided.ID, decided.Status)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func newLeaveReportCmd(a *app) *cobra.Command {
	var q client.ReportQuery
	var xlsx string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Leave days per employee and type",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := a.client.LeaveReport(cmd.Context(), q)
			if err != nil {
				return err
			}
			return show(a, dashboard.ReportTable, rows, xlsx, "Leave Report")
		},
	}

	cmd.Flags().Int64Var(&q.SectionID, "section-id", 0, "Section id (superusers; others may only name their own)")
	cmd.Flags().StringVar(&q.Category, "type", "", "Leave type")
	cmd.Flags().StringVar(&q.From, "from", "", "First day, YYYY-MM-DD")
	cmd.Flags().StringVar(&q.To, "to", "", "Last day, YYYY-MM-DD")
	cmd.Flags().StringVar(&xlsx, "xlsx", "", "Write the rows to this .xlsx file instead of printing them")
	return cmd
}
