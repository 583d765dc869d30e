package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ismo-hris/hris-backend-go/internal/client"
	"github.com/ismo-hris/hris-backend-go/internal/dashboard"
	"github.com/ismo-hris/hris-backend-go/internal/domain/employee"
	"github.com/ismo-hris/hris-backend-go/internal/domain/master"
	"github.com/spf13/cobra"
)

func newEmployeesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "employees",
		Short:             "Employee directory",
		PersistentPreRunE: a.requireSession,
	}

	cmd.AddCommand(newEmployeesListCmd(a))
	cmd.AddCommand(newEmployeesSearchCmd(a))
	cmd.AddCommand(newEmployeesCreateCmd(a))
	cmd.AddCommand(newEmployeesReplaceCmd(a))
	cmd.AddCommand(newEmployeesDeleteCmd(a))
	cmd.AddCommand(newEmployeesSummaryCmd(a))
	return cmd
}

func (a *app) employeeStore() *dashboard.Store[employee.EmployeeResponse] {
	return dashboard.NewStore(func(ctx context.Context, p dashboard.Params) ([]employee.EmployeeResponse, error) {
		q := client.EmployeeQuery{Query: p["q"]}
		switch p["status"] {
		case "active":
			active := true
			q.Active = &active
		case "inactive":
			active := false
			q.Active = &active
		}
		return a.client.Employees(ctx, q)
	})
}

func newEmployeesListCmd(a *app) *cobra.Command {
	var opts listOptions
	var section, location, status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List employees",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := a.employeeStore()
			records, err := store.Load(cmd.Context(), dashboard.Params{"status": status})
			if err != nil {
				return err
			}
			rows := dashboard.EmployeeProjection.Apply(records, dashboard.Predicates{
				Text:  opts.query,
				Equal: map[string]string{"section": section, "location": location, "status": status},
			})
			return show(a, dashboard.EmployeeTable, rows, opts.xlsx, "Employees")
		},
	}

	opts.bind(cmd)
	cmd.Flags().StringVar(&section, "section", "", "Section name")
	cmd.Flags().StringVar(&location, "location", "", "Location name")
	cmd.Flags().StringVar(&status, "status", "", "active or inactive")
	return cmd
}

func newEmployeesSearchCmd(a *app) *cobra.Command {
	var pause time.Duration

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Read queries from stdin, one per line, and show matching employees",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := a.employeeStore().Load(cmd.Context(), dashboard.Params{})
			if err != nil {
				return err
			}

			search := dashboard.NewDebouncer(pause, func(q string) {
				rows := dashboard.EmployeeProjection.Apply(records, dashboard.Predicates{Text: q})
				fmt.Fprintf(a.out, "%q: %d match(es)\n", q, len(rows))
				if err := dashboard.EmployeeTable.Render(a.out, rows); err != nil {
					a.notifier.Notify(dashboard.LevelError, err.Error())
				}
			})
			defer search.Flush()

			for {
				line, err := a.in.ReadString('\n')
				if line != "" {
					search.Push(strings.TrimSpace(line))
				}
				if errors.Is(err, io.EOF) {
					return nil
				}
				if err != nil {
					return err
				}
			}
		},
	}

	cmd.Flags().DurationVar(&pause, "pause", 300*time.Millisecond, "Wait this long after the last query before searching")
	return cmd
}

func employeeFormFlags(cmd *cobra.Command) formFlags {
	ff := formFlags{}
	ff.add(cmd, "erp_id", "erp-id", "ERP id")
	ff.add(cmd, "hris_id", "hris-id", "5 digit HRIS id (defaults to a suggested unused id)")
	ff.add(cmd, "name", "name", "Full name")
	ff.add(cmd, "cnic", "cnic", "13 digit CNIC without dashes")
	ff.add(cmd, "gender", "gender", "Male or Female")
	ff.add(cmd, "section_id", "section", "Section name or id")
	ff.add(cmd, "location_id", "location", "Location name or id")
	ff.add(cmd, "grade_id", "grade", "Grade name or id")
	ff.add(cmd, "designation_id", "designation", "Designation title or id")
	ff.add(cmd, "position", "position", "Position")
	return ff
}

// resolveLookups swaps label values of the lookup fields for their ids.
// Values already numeric, or not found, are left for the form to judge.
func resolveLookups(f *dashboard.Form, lk master.LookupsResponse) {
	byName := func(value string, names map[string]int64) string {
		if value == "" {
			return value
		}
		if _, err := strconv.ParseInt(value, 10, 64); err == nil {
			return value
		}
		if id, ok := names[strings.ToLower(value)]; ok {
			return strconv.FormatInt(id, 10)
		}
		return value
	}

	sections := map[string]int64{}
	for _, s := range lk.Sections {
		sections[strings.ToLower(s.Name)] = s.ID
	}
	locations := map[string]int64{}
	for _, l := range lk.Locations {
		locations[strings.ToLower(l.Name)] = l.ID
	}
	grades := map[string]int64{}
	for _, g := range lk.Grades {
		grades[strings.ToLower(g.Name)] = g.ID
	}
	designations := map[string]int64{}
	for _, d := range lk.Designations {
		designations[strings.ToLower(d.Title)] = d.ID
	}

	for field, names := range map[string]map[string]int64{
		"section_id":     sections,
		"location_id":    locations,
		"grade_id":       grades,
		"designation_id": designations,
	} {
		if v := f.Value(field); v != "" {
			f.Set(field, byName(v, names))
		}
	}
}

func employeeRequest(values map[string]string) employee.UpsertEmployeeRequest {
	hris, _ := strconv.Atoi(values["hris_id"])
	return employee.UpsertEmployeeRequest{
		ERPID:         atoi64(values["erp_id"]),
		HRISID:        hris,
		Name:          values["name"],
		CNIC:          values["cnic"],
		Gender:        values["gender"],
		SectionID:     atoi64(values["section_id"]),
		LocationID:    atoi64(values["location_id"]),
		GradeID:       atoi64(values["grade_id"]),
		DesignationID: atoi64(values["designation_id"]),
		Position:      values["position"],
	}
}

func newEmployeesCreateCmd(a *app) *cobra.Command {
	var ff formFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add an employee",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			lk, err := a.client.Lookups(ctx)
			if err != nil {
				return err
			}

			f := dashboard.EmployeeForm(lk.SuggestedHRISID)
			ff.fill(f)
			resolveLookups(f, lk)

			store := a.employeeStore()
			var erpID string
			err = a.submit(ctx, f, func(ctx context.Context, values map[string]string) error {
				if _, err := a.client.CreateEmployee(ctx, employeeRequest(values)); err != nil {
					return err
				}
				erpID = values["erp_id"]
				return nil
			})
			if err != nil {
				return err
			}

			// Show the new row as the server now lists it.
			records, err := store.Load(ctx, dashboard.Params{"q": erpID})
			if err != nil {
				return err
			}
			a.info("employee %s created", erpID)
			return dashboard.EmployeeTable.Render(a.out, records)
		},
	}

	ff = employeeFormFlags(cmd)
	return cmd
}

func newEmployeesReplaceCmd(a *app) *cobra.Command {
	var ff formFlags
	var inactive bool

	cmd := &cobra.Command{
		Use:   "replace <id>",
		Short: "Overwrite every field of an employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			lk, err := a.client.Lookups(ctx)
			if err != nil {
				return err
			}

			f := dashboard.EmployeeForm(0)
			ff.fill(f)
			resolveLookups(f, lk)

			return a.submit(ctx, f, func(ctx context.Context, values map[string]string) error {
				req := employeeRequest(values)
				active := !inactive
				req.Active = &active
				e, err := a.client.ReplaceEmployee(ctx, id, req)
				if err != nil {
					return err
				}
				return dashboard.EmployeeTable.Render(a.out, []employee.EmployeeResponse{e})
			})
		},
	}

	ff = employeeFormFlags(cmd)
	cmd.Flags().BoolVar(&inactive, "inactive", false, "Mark the employee inactive")
	return cmd
}

func newEmployeesDeleteCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			ok, err := a.confirmer(yes).Confirm(fmt.Sprintf("Delete employee %d?", id))
			if err != nil {
				return err
			}
			if !ok {
				a.info("nothing deleted")
				return nil
			}
			if err := a.client.DeleteEmployee(cmd.Context(), id); err != nil {
				return err
			}
			a.info("employee %d deleted", id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func newEmployeesSummaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Active headcount and today's attendance",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.client.EmployeeSummary(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Active employees: %d\n", s.TotalActive)
			fmt.Fprintf(a.out, "Present today:    %d\n", s.PresentToday)
			fmt.Fprintf(a.out, "Absent today:     %d\n", s.AbsentToday)
			return nil
		},
	}
}
