package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/five82/reel/internal/app"
	"github.com/five82/reel/internal/config"
	"github.com/five82/reel/internal/instance"
	"github.com/five82/reel/internal/logging"
	"github.com/five82/reel/internal/logtail"
	"github.com/five82/reel/internal/ui"
)

type rootFlags struct {
	configPath string
	prefsPath  string
	instance   string
}

func (f *rootFlags) options(console io.Writer) app.Options {
	return app.Options{
		ConfigPath: f.configPath,
		PrefsPath:  f.prefsPath,
		Instance:   f.instance,
		Version:    version,
		Console:    console,
	}
}

var viewCommands = []struct {
	view  ui.View
	short string
}{
	{ui.ViewLibrary, "Browse every movie in the library"},
	{ui.ViewMissing, "Monitored movies without a file"},
	{ui.ViewQueue, "Active downloads"},
	{ui.ViewCalendar, "Upcoming and recent releases"},
	{ui.ViewSearch, "Search for a movie and add it"},
	{ui.ViewUnmonitored, "Library movies that are not monitored"},
	{ui.ViewStatus, "Server version and health checks"},
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "reel",
		Short:         "Terminal client for Radarr",
		Long:          "reel browses and manages one or more Radarr servers from the terminal.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), flags.options(nil), ui.ViewLibrary)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	pf.StringVar(&flags.prefsPath, "prefs", "", "preferences file (default ~/.config/reel/prefs.toml)")
	pf.StringVarP(&flags.instance, "instance", "i", "", "use this instance for this run only")

	for _, vc := range viewCommands {
		view := vc.view
		root.AddCommand(&cobra.Command{
			Use:   view.String(),
			Short: vc.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return app.Run(cmd.Context(), flags.options(nil), view)
			},
		})
	}

	root.AddCommand(newInstancesCmd(flags), newLogsCmd(flags))
	return root
}

func newInstancesCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "instances",
		Short: "List, select and test configured Radarr instances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listInstances(cmd, flags)
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List configured instances",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return listInstances(cmd, flags)
			},
		},
		&cobra.Command{
			Use:   "use <name>",
			Short: "Make an instance current and remember it",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return useInstance(cmd, flags, args[0])
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Forget the selected instance and use the configured default",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				env, err := app.Open(flags.options(nil))
				if err != nil {
					return err
				}
				defer func() { _ = env.Close() }()
				if err := env.Session.Reset(cmd.Context()); err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "Selection cleared")
				return err
			},
		},
		&cobra.Command{
			Use:   "test",
			Short: "Check that every instance answers with its API key",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return testInstances(cmd, flags)
			},
		},
	)
	return cmd
}

func listInstances(cmd *cobra.Command, flags *rootFlags) error {
	env, err := app.Open(flags.options(nil))
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	list, err := env.Session.Instances()
	if err != nil {
		return err
	}
	if len(list) == 0 {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "No instances configured in %s\n", env.Config.Path)
		return err
	}
	current, _ := env.Session.Current(cmd.Context())

	rows := make([][]string, 0, len(list))
	for _, inst := range list {
		marker := ""
		if inst.Same(current) {
			marker = "*"
		}
		def := ""
		if inst.IsDefault {
			def = "yes"
		}
		rows = append(rows, []string{marker, inst.Name, instance.NormalizeURL(inst.URL), def})
	}
	return printTable(cmd.OutOrStdout(), []string{"", "NAME", "URL", "DEFAULT"}, rows)
}

func useInstance(cmd *cobra.Command, flags *rootFlags, name string) error {
	env, err := app.Open(flags.options(nil))
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	list, err := env.Session.Instances()
	if err != nil {
		return err
	}
	inst, ok := instance.Find(list, name)
	if !ok {
		names := make([]string, len(list))
		for i, candidate := range list {
			names[i] = candidate.Name
		}
		return fmt.Errorf("no instance named %q (configured: %s)", name, strings.Join(names, ", "))
	}
	if err := env.Session.Switch(cmd.Context(), inst); err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Now using %s (%s)\n", inst.Name, instance.NormalizeURL(inst.URL))
	return err
}

func testInstances(cmd *cobra.Command, flags *rootFlags) error {
	env, err := app.Open(flags.options(nil))
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	results, err := env.Session.TestAll(cmd.Context())
	if err != nil {
		return err
	}

	failed := 0
	rows := make([][]string, 0, len(results))
	for _, res := range results {
		status := "ok"
		detail := res.Elapsed.Round(time.Millisecond).String()
		if !res.OK {
			failed++
			status = "failed"
			detail = "see " + env.Config.LogPath()
			if res.Err != nil {
				detail = res.Err.Error()
			}
		}
		rows = append(rows, []string{res.Instance.Name, instance.NormalizeURL(res.Instance.URL), status, detail})
	}
	if err := printTable(cmd.OutOrStdout(), []string{"NAME", "URL", "STATUS", "DETAIL"}, rows); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d instances failed the connection test", failed, len(results))
	}
	return nil
}

func newLogsCmd(flags *rootFlags) *cobra.Command {
	var (
		lines   int
		level   string
		noColor bool
	)
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the tail of reel's own log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			path := cfg.LogPath()
			entries, err := logtail.Read(path, lines)
			if err != nil {
				return err
			}
			if level != "" {
				entries = logtail.Filter(entries, logging.ParseLevel(level))
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				_, err := fmt.Fprintf(out, "No log entries in %s\n", path)
				return err
			}
			return logtail.Write(out, entries, !noColor && isTerminal(out))
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 200, "number of lines to show (0 for all)")
	cmd.Flags().StringVar(&level, "level", "", "minimum level: debug, info, warn, error")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	return cmd
}

func printTable(w io.Writer, headers []string, rows [][]string) error {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
