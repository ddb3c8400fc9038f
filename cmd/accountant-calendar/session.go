package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/username/accountant-calendar/internal/session"
	"github.com/username/accountant-calendar/pkg/dateutil"
)

const sessionHelp = `Commands:
  open vacation|workdays  start a calculator
  pick DATE               pick a range boundary (YYYY-MM-DD or DD.MM.YYYY)
  salary AMOUNT           set average monthly salary, e.g. 90 000,50
  show                    print the current state
  cancel                  close the calculator
  quit                    exit`

func sessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Интерактивный выбор периода и расчёт (команды читаются из stdin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := newProvider()
			if err != nil {
				return err
			}

			s := session.New(provider, logger)
			return runSession(cmd.Context(), s, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// runSession reads one command per line until EOF or quit.
// Input errors are reported and the session continues.
func runSession(ctx context.Context, s *session.Session, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, sessionHelp)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		command, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		switch strings.ToLower(command) {
		case "open":
			tool, err := session.ParseTool(arg)
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				continue
			}
			s.Open(tool)
			printSnapshot(out, s.Snapshot())

		case "pick":
			date, err := parseDateArg("date", arg)
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				continue
			}
			snap, err := s.Pick(ctx, date)
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				continue
			}
			printSnapshot(out, snap)

		case "salary":
			snap, err := s.SetSalary(ctx, arg)
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				continue
			}
			printSnapshot(out, snap)

		case "show":
			printSnapshot(out, s.Snapshot())

		case "cancel":
			s.Cancel()
			printSnapshot(out, s.Snapshot())

		case "help":
			fmt.Fprintln(out, sessionHelp)

		case "quit", "exit":
			return nil

		default:
			logger.Debug("Unknown session command", zap.String("command", command))
			fmt.Fprintf(out, "unknown command %q, type help\n", command)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}

func printSnapshot(w io.Writer, snap session.Snapshot) {
	fmt.Fprintf(w, "[%s] ", snap.Tool)
	switch {
	case !snap.HasSelection:
		fmt.Fprintln(w, "pick the first date")
	case snap.End == nil:
		fmt.Fprintf(w, "%s .. pick the second date\n", dateutil.ISODate(snap.Start))
	default:
		fmt.Fprintf(w, "%s .. %s\n", dateutil.ISODate(snap.Start), dateutil.ISODate(*snap.End))
	}

	if snap.Workdays != nil {
		fmt.Fprintf(w, "  Working days: %d of %d\n", snap.Workdays.WorkDays, snap.Workdays.TotalDays)
	}
	if snap.Vacation != nil {
		v := snap.Vacation
		fmt.Fprintf(w, "  Vacation days: %d of %d, gross %.2f ₽, NDFL %.0f ₽, net %.2f ₽\n",
			v.VacationDays, v.CalendarDays, v.Gross, v.NDFL, v.Net)
	} else if snap.Tool == session.ToolVacation && snap.End != nil && snap.Salary == 0 {
		fmt.Fprintln(w, "  enter salary to calculate")
	}
	printAvailability(w, snap.DataAvailable)
}
