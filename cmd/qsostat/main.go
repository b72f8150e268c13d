// Package main provides the CLI entrypoint for qsostat.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/qsostat/internal/config"
	"github.com/verte-zerg/qsostat/internal/cty"
	"github.com/verte-zerg/qsostat/internal/export"
	"github.com/verte-zerg/qsostat/internal/model"
	"github.com/verte-zerg/qsostat/internal/stats"
	"github.com/verte-zerg/qsostat/internal/statsui"
	"github.com/verte-zerg/qsostat/internal/store"
)

const (
	defaultSortBy    = "date"
	defaultIncrement = "1h"
	defaultIdleGap   = "30m"
	defaultDetail    = "basic"
	defaultFormat    = "text"
	maxSuggestions   = 3
	ratesPlotHeight  = 12
)

var (
	optDB        string
	optCTY       string
	optIdleGap   string
	optDetail    string
	optVerbose   bool
	optSortBy    string
	optSortDesc  bool
	optIncrement string

	reportContests []string
	exportFormat   string
	exportOut      string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "qsostat",
		Short:         "Contest log statistics viewer",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runViewerCmd,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&optDB, "db", config.DefaultDBPath(), "DXLog database (.s3db)")
	pf.StringVar(&optCTY, "cty", "", "cty.plist used to fill missing continent/country")
	pf.StringVar(&optIdleGap, "idle-gap", defaultIdleGap, "break length that ends an operating session")
	pf.StringVar(&optDetail, "detail", defaultDetail, "summary detail: basic or scored")
	pf.BoolVar(&optVerbose, "verbose", false, "log computation details to stderr")
	pf.StringVar(&optSortBy, "sort-by", defaultSortBy, "contest order: date or contest")
	pf.BoolVar(&optSortDesc, "sort-desc", true, "list newest/last contests first")
	pf.StringVar(&optIncrement, "increment", defaultIncrement, "performance grid interval (e.g. 1h, 30m)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newContestsCmd())
	rootCmd.AddCommand(newSummaryCmd())
	rootCmd.AddCommand(newGridCmd())
	rootCmd.AddCommand(newRatesCmd())
	rootCmd.AddCommand(newExportCmd())

	return rootCmd
}

// settings is the merged view of flags and the config file.
type settings struct {
	viewer       model.ViewerConfig
	detail       stats.Detail
	increment    stats.Increment
	sortKey      store.SortKey
	exportFormat export.Format
	exportPath   string
}

func loadSettings(cmd *cobra.Command) (settings, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return settings{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "db", &optDB, fileCfg.Viewer.DB)
	applyStringConfig(cmd, "cty", &optCTY, fileCfg.Viewer.CTY)
	applyStringConfig(cmd, "idle-gap", &optIdleGap, fileCfg.Viewer.IdleGap)
	applyStringConfig(cmd, "detail", &optDetail, fileCfg.Viewer.Detail)
	applyStringConfig(cmd, "sort-by", &optSortBy, fileCfg.Viewer.SortBy)
	applyBoolConfig(cmd, "sort-desc", &optSortDesc, fileCfg.Viewer.SortDesc)
	applyStringConfig(cmd, "increment", &optIncrement, fileCfg.Viewer.Increment)

	format, path := defaultFormat, config.DefaultExportPath()
	if fileCfg.Export.Format != nil {
		format = *fileCfg.Export.Format
	}
	if fileCfg.Export.Path != nil {
		path = *fileCfg.Export.Path
	}
	if cmd.Flags().Lookup("format") != nil {
		applyStringConfig(cmd, "format", &exportFormat, &format)
		format = exportFormat
	}
	if cmd.Flags().Lookup("out") != nil {
		applyStringConfig(cmd, "out", &exportOut, &path)
		path = exportOut
	}

	s := settings{exportPath: path}
	if s.sortKey, err = store.ParseSortKey(optSortBy); err != nil {
		return settings{}, fmt.Errorf("--sort-by: %w", err)
	}
	if s.increment, err = stats.ParseIncrement(optIncrement); err != nil {
		return settings{}, fmt.Errorf("--increment: %w", err)
	}
	gap, err := time.ParseDuration(optIdleGap)
	if err != nil || gap <= 0 {
		return settings{}, fmt.Errorf("--idle-gap must be a positive duration like 30m")
	}
	if s.detail, err = parseDetail(optDetail); err != nil {
		return settings{}, err
	}
	if s.exportFormat, err = export.ParseFormat(format); err != nil {
		return settings{}, err
	}
	s.viewer = model.ViewerConfig{
		DBPath:    optDB,
		SortBy:    string(s.sortKey),
		SortDesc:  optSortDesc,
		Increment: s.increment.String(),
		IdleGap:   gap,
		CTYPath:   optCTY,
		Scored:    s.detail == stats.DetailScored,
	}
	return s, nil
}

func parseDetail(s string) (stats.Detail, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "basic":
		return stats.DetailBasic, nil
	case "scored", "score":
		return stats.DetailScored, nil
	default:
		return stats.DetailBasic, fmt.Errorf("--detail must be basic or scored, got %q", s)
	}
}

func (s settings) engine() *stats.Engine {
	eng := &stats.Engine{IdleGap: s.viewer.IdleGap, Detail: s.detail}
	if optVerbose {
		eng.Logf = log.New(os.Stderr, "qsostat: ", 0).Printf
	}
	return eng
}

// loadEnricher loads an explicitly configured cty file, or the default one
// when present. A nil result disables enrichment.
func loadEnricher(path string) (stats.Enricher, error) {
	explicit := path != ""
	if !explicit {
		path = config.DefaultCTYPath()
		if _, err := os.Stat(path); err != nil {
			return nil, nil
		}
	}
	db, err := cty.Load(path)
	if err != nil {
		if explicit {
			return nil, err
		}
		logErrf("ignoring %s: %v\n", path, err)
		return nil, nil
	}
	if optVerbose {
		logErrf("qsostat: loaded %d cty prefixes from %s\n", db.Len(), path)
	}
	return db, nil
}

func openStore(path string) (*store.Store, error) {
	st, err := store.Open(path)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w\npass --db or set [viewer] db in %s", err, config.DefaultConfigPath())
		}
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

func runViewerCmd(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	enricher, err := loadEnricher(s.viewer.CTYPath)
	if err != nil {
		return err
	}
	st, err := openStore(s.viewer.DBPath)
	if err != nil {
		return err
	}
	defer closeStore(st)

	viewer := statsui.NewModel(st, s.viewer, statsui.Options{
		Enricher:     enricher,
		ExportPath:   s.exportPath,
		ExportFormat: s.exportFormat,
	})
	program := tea.NewProgram(viewer, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run viewer: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newContestsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contests",
		Short: "List contests in the log database",
		Args:  cobra.NoArgs,
		RunE:  runContestsCmd,
	}
}

func runContestsCmd(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	st, err := openStore(s.viewer.DBPath)
	if err != nil {
		return err
	}
	defer closeStore(st)

	contests, err := st.ListContests(cmd.Context(), s.sortKey, s.viewer.SortDesc)
	if err != nil {
		return err
	}
	if len(contests) == 0 {
		logErrln("No contests found.")
		return nil
	}
	rows := make([][]string, 0, len(contests))
	for _, c := range contests {
		date := ""
		if !c.StartDate.IsZero() {
			date = c.StartDate.Format("2006-01-02 15:04")
		}
		rows = append(rows, []string{strconv.FormatInt(c.ID, 10), date, c.Name, c.PowerCategory})
	}
	lines := stats.FormatTable([]string{"ID", "Date", "Contest", "Power"}, rows, map[int]bool{0: true})
	return writeLines(cmd.OutOrStdout(), lines)
}

func addContestFlag(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&reportContests, "contest", "c", nil, "contest id or name (repeatable)")
	_ = cmd.MarkFlagRequired("contest")
}

func newSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Compare summary statistics of contests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd, func(w io.Writer, r stats.Report) error {
				return stats.RenderSummaryTable(w, r)
			})
		},
	}
	addContestFlag(cmd)
	return cmd
}

func newGridCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Show per-interval band performance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd, func(w io.Writer, r stats.Report) error {
				for i, cr := range r.Contests {
					if i > 0 {
						if _, err := fmt.Fprintln(w); err != nil {
							return err
						}
					}
					if err := stats.RenderGrid(w, cr); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	addContestFlag(cmd)
	return cmd
}

func newRatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Plot 10/30/60 minute rates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd, func(w io.Writer, r stats.Report) error {
				for _, cr := range r.Contests {
					if err := stats.RenderRates(w, cr, 0, ratesPlotHeight, false); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	addContestFlag(cmd)
	return cmd
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write statistics to a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd, nil)
		},
	}
	addContestFlag(cmd)
	cmd.Flags().StringVar(&exportFormat, "format", defaultFormat, "text, json or yaml")
	cmd.Flags().StringVarP(&exportOut, "out", "o", config.DefaultExportPath(), "output file, - for stdout")
	return cmd
}

// runReport builds the report for --contest and hands it to render. A nil
// render exports it instead.
func runReport(cmd *cobra.Command, render func(io.Writer, stats.Report) error) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	enricher, err := loadEnricher(s.viewer.CTYPath)
	if err != nil {
		return err
	}
	st, err := openStore(s.viewer.DBPath)
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := cmd.Context()
	ids, err := resolveContests(ctx, st, reportContests)
	if err != nil {
		return err
	}
	report, err := stats.BuildReport(ctx, st, ids, stats.ReportOptions{
		Engine:    s.engine(),
		Increment: s.increment,
		Enricher:  enricher,
	})
	if err != nil {
		return err
	}
	if render != nil {
		return render(cmd.OutOrStdout(), report)
	}
	if s.exportPath == "-" {
		return export.Write(cmd.OutOrStdout(), report, s.exportFormat)
	}
	if err := export.WriteFile(s.exportPath, report, s.exportFormat); err != nil {
		return err
	}
	logErrf("Wrote %s\n", s.exportPath)
	return nil
}

type contestFinder interface {
	GetContest(ctx context.Context, id int64) (model.Contest, error)
	FindContests(ctx context.Context, query string) ([]model.Contest, error)
	ListContests(ctx context.Context, key store.SortKey, desc bool) ([]model.Contest, error)
}

// resolveContests maps ids and name fragments to contest ids, keeping the
// argument order and dropping duplicates.
func resolveContests(ctx context.Context, st contestFinder, args []string) ([]int64, error) {
	seen := make(map[int64]bool)
	var ids []int64
	add := func(id int64) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		if arg == "" {
			continue
		}
		if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
			if _, err := st.GetContest(ctx, id); err != nil {
				return nil, err
			}
			add(id)
			continue
		}
		matches, err := st.FindContests(ctx, arg)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			return nil, noMatchError(ctx, st, arg)
		}
		for _, c := range matches {
			add(c.ID)
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("--contest must not be empty")
	}
	return ids, nil
}

func noMatchError(ctx context.Context, st contestFinder, query string) error {
	all, err := st.ListContests(ctx, store.SortByContest, false)
	if err != nil {
		return err
	}
	names := suggestNames(query, all, maxSuggestions)
	if len(names) == 0 {
		return fmt.Errorf("%w: no contest matches %q", store.ErrContestNotFound, query)
	}
	return fmt.Errorf("%w: no contest matches %q (did you mean: %s?)", store.ErrContestNotFound, query, strings.Join(names, ", "))
}

// suggestNames ranks distinct contest names by edit distance to query.
func suggestNames(query string, contests []model.Contest, limit int) []string {
	type candidate struct {
		name string
		dist int
	}
	q := strings.ToLower(query)
	seen := make(map[string]bool)
	var cands []candidate
	for _, c := range contests {
		if c.Name == "" || seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		cands = append(cands, candidate{name: c.Name, dist: levenshtein.ComputeDistance(q, strings.ToLower(c.Name))})
	}
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].dist == cands[j].dist {
			return cands[i].name < cands[j].name
		}
		return cands[i].dist < cands[j].dist
	})
	if len(cands) > limit {
		cands = cands[:limit]
	}
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.name
	}
	return out
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# qsostat configuration
# Uncomment a value to enable it. CLI flags override config values.

[viewer]
# db = %q
# sort-by = %q            # date or contest
# sort-desc = true
# increment = %q             # Performance grid interval (30m, 1h, 2 hours)
# idle-gap = %q             # Break length that ends an operating session
# cty = %q
# detail = %q            # basic or scored

[export]
# format = %q             # text, json or yaml
# path = %q
`,
		config.DefaultDBPath(),
		defaultSortBy,
		defaultIncrement,
		defaultIdleGap,
		config.DefaultCTYPath(),
		defaultDetail,
		defaultFormat,
		config.DefaultExportPath(),
	)
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
