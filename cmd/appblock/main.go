// Package main is the CLI entry point for appblock.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/app_block/internal/config"
	"github.com/eliteGoblin/focusd/app_block/internal/daemon"
	"github.com/eliteGoblin/focusd/app_block/internal/domain"
	"github.com/eliteGoblin/focusd/app_block/internal/engine"
	"github.com/eliteGoblin/focusd/app_block/internal/infra"
	"github.com/eliteGoblin/focusd/app_block/internal/policy"
)

var (
	// Version info (set via ldflags)
	Version   = "0.1.0"
	Commit    = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "appblock",
	Short: "Foreground app blocker - closes or hides distracting apps",
	Long: `appblock polls the foreground window (or frontmost app) and closes or
minimizes anything the policy file blocks, such as Steam and Dota 2.
It can also keep task managers, terminals and system settings out of reach.`,
	Version:      Version,
	SilenceUsage: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the block loop in the foreground",
	Long: `Runs one block pass per poll interval until interrupted.
The policy file is re-read when it changes.`,
	RunE: runRun,
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Show what the policy would do with a window, without acting",
	Long: `Evaluates a described window or app against the policy file and prints
the decision. Nothing is closed or minimized.

  appblock check --process steam.exe --title Steam
  appblock check --bundle-id com.valvesoftware.dota2`,
	RunE: runCheck,
}

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List built-in app presets",
	Long:  `Shows the presets a policy file can name under "presets", with their rules.`,
	RunE:  runPresets,
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show recent block actions",
	Long:  `Prints the most recent entries from the encrypted audit log, newest first.`,
	RunE:  runAudit,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Prints version, commit, and build time. Use --json for machine-readable output.`,
	Run:   runVersion,
}

var (
	cfgFile    string
	jsonOutput bool
	auditLimit int
	checkOpts  checkOptions
)

type checkOptions struct {
	variant    string
	process    string
	title      string
	path       string
	visible    bool
	bundleID   string
	bundlePath string
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: <config dir>/appblock/config.yaml)")

	checkCmd.Flags().StringVar(&checkOpts.variant, "variant", "", "Decision procedure: desktop or frontmost (default from config)")
	checkCmd.Flags().StringVar(&checkOpts.process, "process", "", "Process name of the window")
	checkCmd.Flags().StringVar(&checkOpts.title, "title", "", "Window title")
	checkCmd.Flags().StringVar(&checkOpts.path, "path", "", "Executable path")
	checkCmd.Flags().BoolVar(&checkOpts.visible, "visible", true, "Whether the window is visible")
	checkCmd.Flags().StringVar(&checkOpts.bundleID, "bundle-id", "", "Bundle identifier (frontmost variant)")
	checkCmd.Flags().StringVar(&checkOpts.bundlePath, "bundle-path", "", "App bundle path to read the identifier from (frontmost variant)")

	auditCmd.Flags().IntVar(&auditLimit, "limit", 20, "Maximum number of entries (0 for all)")
	versionCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version info as JSON")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(presetsCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(versionCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	logger := config.NewLogger(cfg.Logging)
	defer func() { _ = logger.Sync() }()

	holder := policy.NewHolder(nil)
	reloader := daemon.NewFilePolicyReloader(cfg.PolicyFile, policy.NewRegistry(), holder)
	if _, err := reloader.Reload(cmd.Context()); err != nil {
		// Keep running with an empty policy; the reloader retries.
		logger.Warn("policy not loaded, nothing will be blocked until it is",
			zap.String("policy_file", cfg.PolicyFile),
			zap.Error(err))
	}

	var auditLog domain.AuditLog
	if cfg.Audit.Enabled {
		log, err := openAuditLog(cfg.Audit.DataDir)
		if err != nil {
			logger.Warn("audit log disabled", zap.Error(err))
		} else {
			defer log.Close()
			auditLog = log
		}
	}

	blocker, err := buildBlocker(cfg.Variant, holder, auditLog, logger)
	if err != nil {
		return err
	}

	// Set up graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	poller := daemon.NewPoller(daemon.PollerConfig{
		PollInterval:         cfg.PollInterval,
		PolicyReloadInterval: cfg.PolicyReloadInterval,
	}, blocker, reloader, logger)

	logger.Info("appblock starting",
		zap.String("version", Version),
		zap.String("variant", string(cfg.Variant)),
		zap.String("policy_file", cfg.PolicyFile))

	if err := poller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	variant := cfg.Variant
	if checkOpts.variant != "" {
		variant = domain.Variant(checkOpts.variant)
	}

	rules, err := policy.LoadFromFile(cfg.PolicyFile, policy.NewRegistry())
	if err != nil {
		return err
	}

	snap := &domain.WindowSnapshot{
		ProcessName: checkOpts.process,
		Title:       checkOpts.title,
		Path:        checkOpts.path,
		Visible:     checkOpts.visible,
		BundleID:    checkOpts.bundleID,
		BundlePath:  checkOpts.bundlePath,
	}

	out := cmd.OutOrStdout()
	switch variant {
	case domain.VariantDesktop:
		fmt.Fprintln(out, engine.EvaluateDesktop(rules, snap))

	case domain.VariantFrontmost:
		if snap.BundleID == "" && snap.BundlePath != "" {
			id, err := infra.NewPlistBundleResolver().ResolveBundleID(snap.BundlePath)
			if err != nil {
				fmt.Fprintf(out, "bundle id unresolved: %v\n", err)
			} else {
				snap.BundleID = id
			}
		}
		decisions := engine.EvaluateFrontmost(rules, snap)
		if len(decisions) == 0 {
			fmt.Fprintln(out, domain.NoActionDecision())
		}
		for _, d := range decisions {
			fmt.Fprintln(out, d)
		}

	default:
		return fmt.Errorf("unknown variant %q", variant)
	}
	return nil
}

func runPresets(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "\n=== Built-in Presets ===")
	for _, p := range policy.NewRegistry().GetAll() {
		fmt.Fprintf(out, "\n[%s] %s\n", p.ID(), p.Name())
		fmt.Fprintln(out, "  Window rules:")
		for _, w := range p.WindowRules() {
			fmt.Fprintf(out, "    - %s\n", describeWindowRule(w))
		}
		fmt.Fprintln(out, "  Bundle IDs:")
		for _, b := range p.BundleIDs() {
			fmt.Fprintf(out, "    - %s\n", b)
		}
	}
	fmt.Fprintln(out, "\n========================")
	return nil
}

func describeWindowRule(w policy.WindowRule) string {
	var s string
	add := func(field string, v fmt.Stringer) {
		if s != "" {
			s += ", "
		}
		s += field + " " + v.String()
	}
	if w.Process != nil {
		add("process", w.Process)
	}
	if w.Title != nil {
		add("title", w.Title)
	}
	if w.Path != nil {
		add("path", w.Path)
	}
	return s
}

func runAudit(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	log, err := openAuditLog(cfg.Audit.DataDir)
	if err != nil {
		return err
	}
	defer log.Close()

	entries, err := log.Recent(cmd.Context(), auditLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No block actions recorded.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tVARIANT\tRULE\tACTION\tTARGET\tAPPLIED\tERROR")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%t\t%s\n",
			e.ExecutedAt.Format("2006-01-02 15:04:05"), e.Variant, e.Rule, e.Action, e.Target, e.Applied, e.Error)
	}
	return w.Flush()
}

func runVersion(cmd *cobra.Command, args []string) {
	out := cmd.OutOrStdout()
	if jsonOutput {
		_ = json.NewEncoder(out).Encode(map[string]string{
			"version":    Version,
			"commit":     Commit,
			"build_time": BuildTime,
		})
		return
	}
	fmt.Fprintf(out, "appblock %s (commit: %s, built: %s)\n", Version, Commit, BuildTime)
}
