package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/daniloc96/canvas-xnat-sync/internal/config"
	"github.com/daniloc96/canvas-xnat-sync/internal/console"
	"github.com/daniloc96/canvas-xnat-sync/internal/interfaces"
	"github.com/daniloc96/canvas-xnat-sync/internal/log"
	"github.com/daniloc96/canvas-xnat-sync/internal/models"
	"github.com/daniloc96/canvas-xnat-sync/internal/sync"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitSetup       = 1
	ExitXNATAuth    = 2
	ExitRunFailures = 3
)

// ErrRunIncomplete is returned when a run finished but some actions or reads failed.
var ErrRunIncomplete = errors.New("integration completed with failures")

var (
	cfgFile            string
	flagDryRun         bool
	flagLogLevel       string
	flagLogFormat      string
	flagLogFile        string
	flagEnrollmentType string
	flagNoProgress     bool
	flagHistoryMonth   string
	flagHistoryLimit   int32

	lambdaHandler func(ctx context.Context, event models.LambdaEvent) (*models.LambdaResponse, error)
	runSync       func(ctx context.Context, cfg *config.Config) (*models.RunResult, error)
	openHistory   func(ctx context.Context, cfg *config.Config) (interfaces.RunHistory, error)
	stdout        io.Writer = os.Stdout
)

// SetLambdaHandler registers the Lambda handler used in Lambda mode.
func SetLambdaHandler(handler func(ctx context.Context, event models.LambdaEvent) (*models.LambdaResponse, error)) {
	lambdaHandler = handler
}

// SetRunSync registers the integration runner used by the CLI.
func SetRunSync(handler func(ctx context.Context, cfg *config.Config) (*models.RunResult, error)) {
	runSync = handler
}

// SetHistoryOpener registers how the history command reaches the run store.
func SetHistoryOpener(opener func(ctx context.Context, cfg *config.Config) (interfaces.RunHistory, error)) {
	openHistory = opener
}

var rootCmd = &cobra.Command{
	Use:           "canvas-xnat-sync",
	Short:         "Reconcile Canvas course enrollments into XNAT projects",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		closeLog, err := setupLogging(cfg)
		if err != nil {
			return err
		}
		defer closeLog()

		if runSync == nil {
			return fmt.Errorf("integration runner is not configured")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logrus.WithFields(logrus.Fields{
			"canvas":  cfg.Canvas.URL,
			"xnat":    cfg.XNAT.URL,
			"dry_run": cfg.Sync.DryRun,
		}).Info("🚀 Starting Canvas to XNAT integration")

		result, err := runSync(ctx, cfg)
		if err != nil {
			return err
		}

		logrus.WithFields(logrus.Fields{
			"run_id":      result.RunID,
			"dry_run":     result.DryRun,
			"duration_ms": result.DurationMs,
		}).Info(result.Summary.String())
		console.RenderSummary(stdout, result)

		if !result.IsSuccess() {
			return ErrRunIncomplete
		}
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded integration runs for a month",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if cfg.History.TableName == "" {
			return fmt.Errorf("history.table_name is required")
		}
		if openHistory == nil {
			return fmt.Errorf("run history is not configured")
		}

		month := time.Now().UTC()
		if flagHistoryMonth != "" {
			month, err = time.Parse("2006-01", flagHistoryMonth)
			if err != nil {
				return fmt.Errorf("invalid --month %q, expected YYYY-MM", flagHistoryMonth)
			}
		}

		store, err := openHistory(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		records, err := store.ListRuns(cmd.Context(), month, flagHistoryLimit)
		if err != nil {
			return err
		}
		console.RenderHistory(stdout, records)
		return nil
	},
}

// Execute runs the CLI or Lambda handler depending on environment.
func Execute() {
	if config.InLambda() {
		if lambdaHandler == nil {
			logrus.Fatal("lambda handler is not configured")
		}
		lambda.Start(lambdaHandler)
		return
	}

	if err := rootCmd.Execute(); err != nil {
		code := ExitCode(err)
		if code == ExitRunFailures {
			logrus.Warn(err)
		} else {
			logrus.Error(err)
		}
		os.Exit(code)
	}
}

// ExitCode maps a run error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, sync.ErrSessionUnavailable):
		return ExitXNATAuth
	case errors.Is(err, ErrRunIncomplete):
		return ExitRunFailures
	default:
		return ExitSetup
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default ./credentials.yaml)")
	rootCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Log planned XNAT changes without applying them")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.Flags().StringVar(&flagLogFormat, "log-format", "", "Log format: text, json, pretty or plain")
	rootCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Append logs to this file (empty string disables)")
	rootCmd.Flags().StringVar(&flagEnrollmentType, "enrollment-type", "", "Only sync courses where the token user has this enrollment type")
	rootCmd.Flags().BoolVar(&flagNoProgress, "no-progress", false, "Disable progress bars")

	historyCmd.Flags().StringVar(&flagHistoryMonth, "month", "", "Month to list as YYYY-MM (default current month)")
	historyCmd.Flags().Int32Var(&flagHistoryLimit, "limit", 20, "Maximum number of runs to list")
	rootCmd.AddCommand(historyCmd)
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	overrideConfigFromFlags(cmd, cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogging points the standard logger at stdout and the configured log file.
// With progress bars on, console output is left to the bars and logs go to the file only.
func setupLogging(cfg *config.Config) (func(), error) {
	out := io.Writer(os.Stdout)
	closeFn := func() {}

	if cfg.Log.File != "" {
		f, err := log.OpenFile(cfg.Log.File)
		if err != nil {
			return nil, err
		}
		closeFn = func() { _ = f.Close() }
		if cfg.Sync.ShowProgress {
			out = f
		} else {
			out = io.MultiWriter(os.Stdout, f)
		}
	}

	log.Configure(logrus.StandardLogger(), out, cfg.Log.Level, cfg.Log.Format)
	return closeFn, nil
}

func overrideConfigFromFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("dry-run") {
		cfg.Sync.DryRun = flagDryRun
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = flagLogLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format = flagLogFormat
	}
	if cmd.Flags().Changed("log-file") {
		cfg.Log.File = flagLogFile
	}
	if cmd.Flags().Changed("enrollment-type") {
		cfg.Canvas.EnrollmentType = config.NormalizeEnrollmentType(flagEnrollmentType)
	}
	if cmd.Flags().Changed("no-progress") {
		cfg.Sync.ShowProgress = !flagNoProgress
	}
}
