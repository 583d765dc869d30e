package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ismo-hris/hris-backend-go/internal/client"
	"github.com/ismo-hris/hris-backend-go/internal/dashboard"
	"github.com/spf13/cobra"
)

const (
	exitOK         = 0
	exitFailure    = 1
	exitValidation = 2
	exitAuth       = 3
)

const defaultAPIURL = "http://localhost:8080/api/v1"

// app carries what every page command needs. The session is loaded lazily
// by requireSession so that login and help work without one.
type app struct {
	apiURL           string
	sessionPath      string
	autoApproveGrade int

	in       *bufio.Reader
	out      io.Writer
	notifier dashboard.Notifier

	session *session
	client  *client.Client
}

func newApp(in io.Reader, out, errOut io.Writer) *app {
	return &app{
		in:       bufio.NewReader(in),
		out:      out,
		notifier: dashboard.NewWriterNotifier(errOut),
	}
}

// anonymousClient is used by login, before a token exists.
func (a *app) anonymousClient() (*client.Client, error) {
	return client.New(a.apiURL, "")
}

func (a *app) requireSession(cmd *cobra.Command, args []string) error {
	s, err := loadSession(a.sessionPath)
	if err != nil {
		return err
	}
	c, err := client.New(a.apiURL, s.Token)
	if err != nil {
		return err
	}
	a.session = s
	a.client = c
	return nil
}

func (a *app) info(format string, args ...any) {
	a.notifier.Notify(dashboard.LevelInfo, fmt.Sprintf(format, args...))
}

// prompt reads one trimmed line from stdin.
func (a *app) prompt(label string) (string, error) {
	fmt.Fprint(a.out, label)
	line, err := a.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (a *app) confirmer(assumeYes bool) dashboard.Confirmer {
	return dashboard.ConfirmFunc(func(prompt string) (bool, error) {
		if assumeYes {
			return true, nil
		}
		answer, err := a.prompt(prompt + " [y/N] ")
		if err != nil {
			return false, err
		}
		answer = strings.ToLower(answer)
		return answer == "y" || answer == "yes", nil
	})
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "hrctl",
		Short:         "Terminal dashboard for the HRIS API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	apiURL := os.Getenv("HRCTL_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	cmd.PersistentFlags().StringVar(&a.apiURL, "api", apiURL, "API base URL (env HRCTL_API_URL)")
	cmd.PersistentFlags().StringVar(&a.sessionPath, "session", defaultSessionPath(), "Session file")
	cmd.PersistentFlags().IntVar(&a.autoApproveGrade, "auto-approve-grade", 9, "Lowest grade whose requests need no approver")

	cmd.AddCommand(newLoginCmd(a))
	cmd.AddCommand(newLogoutCmd(a))
	cmd.AddCommand(newWhoamiCmd(a))
	cmd.AddCommand(newChangePasswordCmd(a))
	cmd.AddCommand(newUsersCmd(a))
	cmd.AddCommand(newEmployeesCmd(a))
	cmd.AddCommand(newRequestsCmd(a, kindLeaveSpec))
	cmd.AddCommand(newRequestsCmd(a, kindOfficialWorkSpec))
	cmd.AddCommand(newAttendanceCmd(a))
	cmd.AddCommand(newLettersCmd(a))
	return cmd
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, dashboard.ErrFormInvalid):
		return exitValidation
	case errors.Is(err, errNotLoggedIn):
		return exitAuth
	}
	var srvErr *client.ServerError
	if errors.As(err, &srvErr) && srvErr.Status == 401 {
		return exitAuth
	}
	return exitFailure
}

func Execute() {
	a := newApp(os.Stdin, os.Stdout, os.Stderr)
	if err := newRootCmd(a).Execute(); err != nil {
		dashboard.Report(a.notifier, err)
		os.Exit(exitCode(err))
	}
}
