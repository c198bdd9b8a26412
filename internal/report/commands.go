package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"daytrack/internal/backend"
	"daytrack/internal/core"
	applog "daytrack/internal/log"
	"daytrack/internal/services"
)

// Options customise how the commands reach their data. Zero values use the
// configured timezone and a discarding logger.
type Options struct {
	Today  services.Today
	Logger *applog.Logger
}

// session is what every subcommand needs once the store is open.
type session struct {
	analytics *services.AnalyticsService
	today     core.Date
	printer   *Printer
	close     func() error
}

// NewCommand builds the daytrack-report command tree.
func NewCommand(v *viper.Viper, opts Options) *cobra.Command {
	if opts.Logger == nil {
		opts.Logger = applog.NewDiscard()
	}

	cmd := &cobra.Command{
		Use:           "daytrack-report",
		Short:         "Print time tracking summaries on the command line.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("backend", "", "storage backend (memory or sqlite)")
	flags.String("data-dir", "", "data directory for the memory backend")
	flags.String("sqlite-path", "", "SQLite database file")
	flags.String("timezone", "", "timezone deciding which day is today")
	flags.Bool("no-color", false, "disable colored output")
	for key, name := range map[string]string{
		KeyBackend:    "backend",
		KeyDataDir:    "data-dir",
		KeySQLitePath: "sqlite-path",
		KeyTimezone:   "timezone",
		KeyNoColor:    "no-color",
	} {
		_ = v.BindPFlag(key, flags.Lookup(name))
	}

	open := func(cmd *cobra.Command) (*session, error) {
		return openSession(cmd, v, opts)
	}
	cmd.AddCommand(
		newWeekCommand(open),
		newRangeCommand(open),
		newCalendarCommand(open),
	)
	return cmd
}

func openSession(cmd *cobra.Command, v *viper.Viper, opts Options) (*session, error) {
	cfg, err := LoadConfig(v)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	today := opts.Today
	if today == nil {
		loc, err := cfg.Location()
		if err != nil {
			return nil, err
		}
		today = services.SystemToday(loc)
	}

	bc, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	result, err := backend.NewFactory(opts.Logger).CreateBackend(cmd.Context(), bc)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.DataBackend, err)
	}
	st := result.Store
	return &session{
		analytics: services.NewAnalyticsService(st, st, st, services.CacheOptions{}, opts.Logger),
		today:     today(),
		printer:   NewPrinter(cmd.OutOrStdout(), v.GetBool(KeyNoColor)),
		close:     result.Close,
	}, nil
}

type opener func(cmd *cobra.Command) (*session, error)

// run opens a session, hands it to fn and always closes the store.
func run(cmd *cobra.Command, open opener, fn func(ctx context.Context, s *session) error) (err error) {
	s, err := open(cmd)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, s.close())
	}()
	return fn(cmd.Context(), s)
}

func newWeekCommand(open opener) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "week",
		Short: "Summarize the Sunday to Saturday week containing a date.",
		Example: `
daytrack-report week
daytrack-report week --date 2024-03-06
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, open, func(ctx context.Context, s *session) error {
				day := s.today
				if date != "" {
					var err error
					if day, err = core.ParseDate(date); err != nil {
						return err
					}
				}
				snap, err := s.analytics.WeekSummary(ctx, day)
				if err != nil {
					return err
				}
				s.printer.Week(snap)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "any day of the week, YYYY-MM-DD (default today)")
	return cmd
}

func newRangeCommand(open opener) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "range",
		Short: "Show totals, category breakdown and ratings for the last N days.",
		Example: `
daytrack-report range
daytrack-report range --days 30
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 1 {
				return fmt.Errorf("--days must be at least 1, got %d", days)
			}
			return run(cmd, open, func(ctx context.Context, s *session) error {
				r := core.DateRange{
					Label: fmt.Sprintf("Last %d days", days),
					Start: s.today.AddDays(-(days - 1)),
					End:   s.today,
				}
				o, err := s.analytics.Overview(ctx, r)
				if err != nil {
					return err
				}
				s.printer.Overview(o)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", 7, "number of days ending today")
	return cmd
}

func newCalendarCommand(open opener) *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Print the month grid with daily totals and ratings.",
		Example: `
daytrack-report calendar
daytrack-report calendar --month 2024-02
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, open, func(ctx context.Context, s *session) error {
				ref := core.FirstOfMonth(s.today)
				if month != "" {
					var err error
					if ref, err = core.ParseMonth(month); err != nil {
						return err
					}
				}
				view, err := s.analytics.Calendar(ctx, ref, s.today)
				if err != nil {
					return err
				}
				s.printer.Calendar(view)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "month to show, YYYY-MM (default current month)")
	return cmd
}
