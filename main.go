package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sadopc/habitgrid/internal/calendar"
	"github.com/sadopc/habitgrid/internal/config"
	"github.com/sadopc/habitgrid/internal/export"
	"github.com/sadopc/habitgrid/internal/log"
	"github.com/sadopc/habitgrid/internal/stats"
	"github.com/sadopc/habitgrid/internal/store"
	"github.com/sadopc/habitgrid/internal/tracker"
	"github.com/sadopc/habitgrid/internal/tui"
)

var (
	configPath string

	exportCSV bool
	exportOut string

	importDryRun bool

	statsMonth string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          config.AppName,
		Short:        "Month calendar for tracking daily habits",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE:         runTUI,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath(), "config file")

	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newConfigCmd())
	return rootCmd
}

// env is what every command opens: config, log file and database.
type env struct {
	cfg    config.Config
	log    *log.Logger
	store  *store.Store
	closer io.Closer
}

func openEnv() (*env, error) {
	cfg, err := config.LoadOrCreate(configPath)
	if err != nil {
		return nil, err
	}
	logger, closer, err := log.OpenFile(cfg.LogFile, log.ParseLevel(cfg.LogLevel))
	if err != nil {
		return nil, err
	}
	s, err := store.New(cfg.DBPath)
	if err != nil {
		closer.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	return &env{cfg: cfg, log: logger.WithComponent(log.ComponentCLI), store: s, closer: closer}, nil
}

func (e *env) Close() {
	if err := e.store.Close(); err != nil {
		e.log.Error("close database", log.FieldError, err)
	}
	e.closer.Close()
}

// load reads the saved state, logging what had to be repaired.
func (e *env) load(now time.Time) (tracker.State, error) {
	logger := e.log.WithComponent(log.ComponentStore)
	res, err := e.store.Load(now)
	if err != nil {
		logger.Error("load state", log.FieldOperation, log.OpLoad, log.FieldError, err)
		return tracker.State{}, err
	}
	if len(res.Migrated) > 0 {
		logger.Info("migrated stored state", log.FieldOperation, log.OpMigrate,
			log.FieldFields, strings.Join(res.Migrated, ","))
	}
	if len(res.Invalid) > 0 {
		logger.Warn("stored fields reset to defaults", log.FieldOperation, log.OpLoad,
			log.FieldFields, strings.Join(res.Invalid, ","))
	}
	return res.State, nil
}

func (e *env) save(st tracker.State, action string) error {
	if err := e.store.Save(st); err != nil {
		e.log.WithComponent(log.ComponentStore).Error("save state",
			log.FieldOperation, log.OpSave, log.FieldAction, action, log.FieldError, err)
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

func runTUI(_ *cobra.Command, _ []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	st, err := e.load(time.Now())
	if err != nil {
		return err
	}
	e.log.Info("starting", log.FieldPath, e.cfg.DBPath)

	app := tui.NewApp(e.store, st, e.cfg, e.log)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

// --- export ---

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a JSON backup (or CSV of records)",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().BoolVar(&exportCSV, "csv", false, "export records as CSV instead of a backup")
	cmd.Flags().StringVar(&exportOut, "out", "", "output file (default: export_dir/calendar_backup_YYYYMMDD.json)")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	now := time.Now()
	st, err := e.load(now)
	if err != nil {
		return err
	}

	out := exportOut
	if out == "" {
		name := export.FileName(now)
		if exportCSV {
			name = export.CSVFileName(now)
		}
		out = filepath.Join(e.cfg.ExportDir, name)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	if exportCSV {
		if err := export.ToCSV(st, out); err != nil {
			return err
		}
	} else {
		if err := export.ToJSON(&st, out, now); err != nil {
			return err
		}
		// Remember when the last backup was taken.
		if err := e.save(st, log.OpExport); err != nil {
			return err
		}
	}

	e.log.WithComponent(log.ComponentBackup).Info("exported", log.FieldOperation, log.OpExport, log.FieldPath, out)
	fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", out)
	return nil
}

// --- import ---

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the saved data with a JSON backup",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
	cmd.Flags().BoolVar(&importDryRun, "dry-run", false, "check the file without saving")
	return cmd
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	now := time.Now()
	current, err := e.load(now)
	if err != nil {
		return err
	}

	logger := e.log.WithComponent(log.ComponentBackup)
	res, err := export.Import(args[0], current, now)
	if err != nil {
		logger.Warn("import rejected", log.FieldOperation, log.OpImport, log.FieldPath, args[0], log.FieldError, err)
		return err
	}

	w := cmd.OutOrStdout()
	if res.ExportedAt != nil {
		fmt.Fprintf(w, "Backup taken %s\n", res.ExportedAt.Local().Format("2006-01-02 15:04"))
	}
	if len(res.Migrated) > 0 {
		fmt.Fprintf(w, "Converted legacy data: %s\n", strings.Join(res.Migrated, ", "))
	}
	if len(res.Invalid) > 0 {
		fmt.Fprintf(w, "Defaults used for: %s\n", strings.Join(res.Invalid, ", "))
	}
	fmt.Fprintf(w, "%d categories, %d marked days\n", len(res.State.Categories), len(res.State.Records))

	if importDryRun {
		return nil
	}
	if err := e.save(res.State, log.OpImport); err != nil {
		return err
	}
	logger.Info("imported", log.FieldOperation, log.OpImport, log.FieldPath, args[0])
	fmt.Fprintf(w, "Imported %s\n", args[0])
	return nil
}

// --- stats ---

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print per-category counts for a month",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsMonth, "month", "", "month to report (YYYY-MM, default: current)")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	now := time.Now()
	ym := calendar.Of(now)
	if statsMonth != "" {
		parsed, err := calendar.ParseYearMonth(statsMonth)
		if err != nil {
			return fmt.Errorf("invalid --month value: %w", err)
		}
		ym = parsed
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	st, err := e.load(now)
	if err != nil {
		return err
	}

	s := stats.Compute(st.Records, st.Categories, ym)
	return stats.WriteTable(cmd.OutOrStdout(), s, st.Categories, terminalWidth(cmd.OutOrStdout()))
}

// terminalWidth is the width of w when it is a terminal, else 0.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

// --- config ---

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create the config file if needed and print it",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadOrCreate(configPath)
	if err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "# %s\n", configPath)
	_, err = w.Write(data)
	return err
}
