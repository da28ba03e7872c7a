package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go-presence/internal/app"
	"go-presence/internal/auth"
	"go-presence/internal/config"
	"go-presence/internal/session"
	"go-presence/internal/shared/apperror"
)

type options struct {
	cmd      string
	email    string
	password string
	company  string
	refresh  bool
}

func main() {
	var opts options
	flag.StringVar(&opts.cmd, "cmd", "status", "Command: login|logout|status|in|out|toggle|history|show")
	flag.StringVar(&opts.email, "email", "", "Email (for login)")
	flag.StringVar(&opts.password, "password", "", "Password (for login); PRESENCE_PASSWORD is read when empty")
	flag.StringVar(&opts.company, "company", "", "Company id (for login)")
	flag.BoolVar(&opts.refresh, "refresh", true, "Refetch history from the attendance service (for history)")
	flag.Parse()
	if opts.password == "" {
		opts.password = os.Getenv("PRESENCE_PASSWORD")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	logger, err := app.NewLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg)
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	defer a.Close(context.Background())

	if err := run(ctx, a.Auth, a.Session, opts, os.Stdout); err != nil {
		fmt.Println("Error:", message(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, authSvc auth.Service, sessionSvc session.Service, opts options, w io.Writer) error {
	if opts.cmd != "login" && !authSvc.IsAuthenticated() {
		return fmt.Errorf("not signed in, run -cmd login first")
	}

	switch opts.cmd {
	case "login":
		id, err := authSvc.Login(ctx, opts.email, opts.password, opts.company)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Signed in as %s (%s)\n", id.Name, id.Email)
		return nil

	case "logout":
		if err := authSvc.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(w, "Signed out")
		return nil

	case "status":
		if _, err := sessionSvc.CheckStatus(ctx); err != nil {
			return err
		}
		printSnapshot(w, sessionSvc.Snapshot())
		return nil

	case "show":
		printSnapshot(w, sessionSvc.Snapshot())
		return nil

	case "in":
		if _, err := sessionSvc.CheckStatus(ctx); err != nil {
			return err
		}
		rec, err := sessionSvc.PunchIn(ctx)
		if err != nil {
			return err
		}
		printPunchIn(w, &rec)
		return nil

	case "out":
		if _, err := sessionSvc.CheckStatus(ctx); err != nil {
			return err
		}
		closed, err := sessionSvc.PunchOut(ctx)
		if err != nil {
			return err
		}
		printPunchOut(w, closed)
		return nil

	case "toggle":
		if _, err := sessionSvc.CheckStatus(ctx); err != nil {
			return err
		}
		res, err := sessionSvc.Toggle(ctx)
		if err != nil {
			return err
		}
		if res.Record != nil && res.Record.IsOpen() {
			printPunchIn(w, res.Record)
		} else {
			printPunchOut(w, res.Record)
		}
		return nil

	case "history":
		if !opts.refresh {
			printHistory(w, sessionSvc.History())
			return nil
		}
		records, err := sessionSvc.FetchHistory(ctx)
		if err != nil {
			return err
		}
		printHistory(w, records)
		return nil

	default:
		return fmt.Errorf("unknown command %q", opts.cmd)
	}
}

func printSnapshot(w io.Writer, snap session.Snapshot) {
	resp := session.ToSnapshotResponse(snap)
	fmt.Fprintln(w, resp.Title)
	if resp.Current != nil {
		fmt.Fprintf(w, "Punched in at %s on %s (%s)\n", resp.Current.PunchInTime, resp.Current.PunchInDate, resp.Elapsed)
	}
}

func printPunchIn(w io.Writer, rec *session.Record) {
	r := session.ToRecordResponse(rec)
	fmt.Fprintf(w, "Punched in at %s on %s\n", r.PunchInTime, r.PunchInDate)
}

func printPunchOut(w io.Writer, rec *session.Record) {
	if rec == nil {
		fmt.Fprintln(w, "Punched out")
		return
	}
	r := session.ToRecordResponse(rec)
	fmt.Fprintf(w, "Punched out at %s (%s worked)\n", r.PunchOutTime, session.DescribeElapsed(rec.Duration(*rec.PunchOutAt)))
}

func printHistory(w io.Writer, records []session.Record) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No attendance history")
		return
	}
	for _, resp := range session.ToRecordResponses(records) {
		line := []string{resp.PunchInDate, resp.PunchInTime + " - " + resp.PunchOutTime}
		if resp.WorkingHours != nil {
			line = append(line, fmt.Sprintf("%.2fh", *resp.WorkingHours))
		}
		if resp.Status != "" {
			line = append(line, resp.Status)
		}
		fmt.Fprintln(w, strings.Join(line, "  "))
	}
}

// message keeps the user-facing text of app errors and hides the wrapped cause.
func message(err error) string {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
