package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/username/accountant-calendar/internal/calculator"
	"github.com/username/accountant-calendar/internal/calendar"
	"github.com/username/accountant-calendar/internal/stats"
	"github.com/username/accountant-calendar/pkg/dateutil"
)

func dayCmd() *cobra.Command {
	var week string

	cmd := &cobra.Command{
		Use:   "day DATE",
		Short: "Классифицировать дату (рабочий, выходной, праздник, сокращённый)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDateArg("date", args[0])
			if err != nil {
				return err
			}
			mode, err := weekMode(week)
			if err != nil {
				return err
			}

			provider, err := newProvider()
			if err != nil {
				return err
			}
			ds := provider.ForYear(cmd.Context(), date.Year())

			c := ds.Classify(date, mode)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s, %s week)\n", c, russianWeekday(date.Weekday()), mode)
			fmt.Fprintf(out, "  Working hours (40h week): %d\n", c.WorkingHours())
			if d, ok := calendar.DeadlineOn(date); ok {
				fmt.Fprintf(out, "  Tax deadline: %s [%s, %s]\n", d.Title, d.Type, d.Priority)
			}
			printAvailability(out, ds.Available())
			return nil
		},
	}

	cmd.Flags().StringVar(&week, "week", "", "Week mode: five-day or six-day (default from config)")
	return cmd
}

func workdaysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "workdays START END",
		Short: "Посчитать рабочие дни в периоде",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := parseRangeArgs(args[0], args[1])
			if err != nil {
				return err
			}

			provider, err := newProvider()
			if err != nil {
				return err
			}

			res, err := calculator.CountWorkdays(r, provider.ForRange(cmd.Context(), r))
			if err != nil {
				return err
			}

			logger.Debug("Workdays counted", zap.Stringer("range", r), zap.Int("work_days", res.WorkDays))
			printWorkdays(cmd.OutOrStdout(), r, res)
			return nil
		},
	}
}

func vacationCmd() *cobra.Command {
	var salary string

	cmd := &cobra.Command{
		Use:   "vacation START END",
		Short: "Рассчитать отпускные",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := parseRangeArgs(args[0], args[1])
			if err != nil {
				return err
			}
			amount, err := calculator.ParseAmount(salary)
			if err != nil {
				return err
			}

			provider, err := newProvider()
			if err != nil {
				return err
			}

			res, err := calculator.CalculateVacation(r, amount, provider.ForRange(cmd.Context(), r))
			if err != nil {
				return err
			}

			printVacation(cmd.OutOrStdout(), r, amount, res)
			return nil
		},
	}

	cmd.Flags().StringVar(&salary, "salary", "", "Average monthly salary, e.g. \"90 000\" or 90000,50")
	_ = cmd.MarkFlagRequired("salary")
	return cmd
}

func statsCmd() *cobra.Command {
	var (
		year      int
		month     int
		quarter   int
		week      string
		breakdown bool
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Статистика и нормы рабочего времени за месяц, квартал или год",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if month != 0 && quarter != 0 {
				return calendar.Invalid("period", "--month and --quarter are mutually exclusive")
			}
			mode, err := weekMode(week)
			if err != nil {
				return err
			}

			provider, err := newProvider()
			if err != nil {
				return err
			}
			ds := provider.ForYear(cmd.Context(), year)
			out := cmd.OutOrStdout()

			if breakdown {
				b := stats.Breakdown(year, ds, mode)
				printBreakdown(out, b)
				printAvailability(out, b.Total.DataAvailable)
				return nil
			}

			var (
				ps       stats.PeriodStats
				title    string
				from, to = time.January, time.December
			)
			switch {
			case month != 0:
				ps, err = stats.Month(year, time.Month(month), ds, mode)
				title = fmt.Sprintf("%s %d", russianMonth(time.Month(month)), year)
				from, to = time.Month(month), time.Month(month)
			case quarter != 0:
				ps, err = stats.Quarter(year, quarter, ds, mode)
				title = fmt.Sprintf("%d квартал %d", quarter, year)
				from = time.Month(3*(quarter-1) + 1)
				to = from + 2
			default:
				ps, err = stats.Year(year, ds, mode)
				title = fmt.Sprintf("%d год", year)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "%s (%s week)\n", title, mode)
			printPeriodStats(out, ps)
			printDeadlines(out, calendar.DateRange{
				Start: time.Date(year, from, 1, 0, 0, 0, 0, time.Local),
				End:   time.Date(year, to, dateutil.DaysInMonth(year, to), 0, 0, 0, 0, time.Local),
			})
			printAvailability(out, ps.DataAvailable)
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", dateutil.Today().Year(), "Calendar year")
	cmd.Flags().IntVar(&month, "month", 0, "Month 1-12")
	cmd.Flags().IntVar(&quarter, "quarter", 0, "Quarter 1-4")
	cmd.Flags().StringVar(&week, "week", "", "Week mode: five-day or six-day (default from config)")
	cmd.Flags().BoolVar(&breakdown, "breakdown", false, "Print every month and quarter of the year")
	return cmd
}

func parseDateArg(name, s string) (time.Time, error) {
	date, err := dateutil.ParseDate(s)
	if err != nil {
		return time.Time{}, calendar.Invalid(name, "%v", err)
	}
	return date, nil
}

func parseRangeArgs(start, end string) (calendar.DateRange, error) {
	from, err := parseDateArg("start", start)
	if err != nil {
		return calendar.DateRange{}, err
	}
	to, err := parseDateArg("end", end)
	if err != nil {
		return calendar.DateRange{}, err
	}
	return calendar.NewDateRange(from, to)
}

func weekMode(flag string) (calendar.WeekMode, error) {
	if flag == "" {
		return cfg.Stats.GetWeekMode(), nil
	}
	return calendar.ParseWeekMode(flag)
}

func printWorkdays(w io.Writer, r calendar.DateRange, res calculator.WorkDayResult) {
	fmt.Fprintf(w, "Период %s\n", r)
	fmt.Fprintf(w, "  Calendar days: %d\n", res.TotalDays)
	fmt.Fprintf(w, "  Working days:  %d\n", res.WorkDays)
	printAvailability(w, res.DataAvailable)
}

func printVacation(w io.Writer, r calendar.DateRange, salary float64, res calculator.VacationResult) {
	fmt.Fprintf(w, "Отпуск %s, средняя зарплата %.2f ₽\n", r, salary)
	fmt.Fprintf(w, "  Calendar days: %d\n", res.CalendarDays)
	fmt.Fprintf(w, "  Vacation days: %d (holidays excluded)\n", res.VacationDays)
	fmt.Fprintf(w, "  Daily rate:    %.2f ₽ (salary / %.1f)\n", res.DailyRate, calculator.AverageDaysInMonth)
	fmt.Fprintf(w, "  Gross:         %.2f ₽\n", res.Gross)
	fmt.Fprintf(w, "  NDFL 13%%:      %.0f ₽\n", res.NDFL)
	fmt.Fprintf(w, "  Net:           %.2f ₽\n", res.Net)
	printAvailability(w, res.DataAvailable)
}

func printPeriodStats(w io.Writer, ps stats.PeriodStats) {
	fmt.Fprintf(w, "  Calendar days: %d\n", ps.CalendarDays)
	fmt.Fprintf(w, "  Working days:  %d (short: %d)\n", ps.WorkDays, ps.ShortDays)
	fmt.Fprintf(w, "  Days off:      %d\n", ps.Holidays)
	fmt.Fprintf(w, "  Norm 40h:      %.0f\n", ps.Hours40)
	fmt.Fprintf(w, "  Norm 36h:      %.1f\n", ps.Hours36)
	fmt.Fprintf(w, "  Norm 24h:      %.1f\n", ps.Hours24)
}

func printBreakdown(w io.Writer, b stats.YearBreakdown) {
	fmt.Fprintf(w, "%d год (%s week)\n", b.Year, b.Mode)
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════")
	fmt.Fprintln(w, "  Period        | Days | Work | Off | 40h    | 36h    | 24h")
	fmt.Fprintln(w, "----------------+------+------+-----+--------+--------+-------")
	for i, m := range b.Months {
		printBreakdownRow(w, russianMonth(time.Month(i+1)), m)
		if (i+1)%3 == 0 {
			printBreakdownRow(w, fmt.Sprintf("%d квартал", (i+1)/3), b.Quarters[i/3])
		}
	}
	printBreakdownRow(w, "Год", b.Total)
}

func printBreakdownRow(w io.Writer, label string, ps stats.PeriodStats) {
	fmt.Fprintf(w, "  %-13s | %4d | %4d | %3d | %6.0f | %6.1f | %6.1f\n",
		label, ps.CalendarDays, ps.WorkDays, ps.Holidays, ps.Hours40, ps.Hours36, ps.Hours24)
}

func printDeadlines(w io.Writer, r calendar.DateRange) {
	for _, d := range calendar.TaxDeadlines(r) {
		fmt.Fprintf(w, "  Deadline %s: %s [%s]\n", d.Date, d.Title, d.Priority)
	}
}

func printAvailability(w io.Writer, available bool) {
	if !available {
		fmt.Fprintln(w, "  ⚠ Calendar data unavailable for this year: holidays are not taken into account")
		fmt.Fprintf(w, "  Built-in calendar covers: %s\n", builtinYears())
	}
}

func builtinYears() string {
	years := calendar.Static().Years()
	parts := make([]string, 0, len(years))
	for _, y := range years {
		parts = append(parts, strconv.Itoa(y))
	}
	return strings.Join(parts, ", ")
}

var russianMonths = [...]string{
	"Январь", "Февраль", "Март", "Апрель", "Май", "Июнь",
	"Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь",
}

func russianMonth(m time.Month) string {
	if m < time.January || m > time.December {
		return m.String()
	}
	return russianMonths[m-1]
}

var russianWeekdays = [...]string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}

func russianWeekday(wd time.Weekday) string {
	return russianWeekdays[wd]
}
