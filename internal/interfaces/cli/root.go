// Package cli is the thumblens command line.  Every view of the dashboard
// has a subcommand that loads it once and prints it as text, a table or
// JSON; serve runs the dashboard HTTP server.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thumblens/thumblens/internal/config"
	"github.com/thumblens/thumblens/internal/infrastructure/monitoring/logging"
	"github.com/thumblens/thumblens/internal/view"
	"github.com/thumblens/thumblens/pkg/client"
	"github.com/thumblens/thumblens/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Output formats.
const (
	OutputText  = "text"
	OutputJSON  = "json"
	OutputTable = "table"
)

type cliContextKey struct{}

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath   string
	LogLevel     string
	OutputFormat string
	NoColor      bool
	Timeout      time.Duration
	ServerAddr   string
}

// CLIContext carries initialized dependencies through the command tree.
type CLIContext struct {
	Config       *config.Config
	ConfigPath   string
	Logger       logging.Logger
	Client       *client.Client
	Deps         *view.Deps
	OutputFormat string
	NoColor      bool
	Timeout      time.Duration
}

// NewRootCommand creates the root command with its global flags and every
// subcommand.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "thumblens",
		Short: "Explore thumbnail dataset statistics from the terminal",
		Long: "thumblens reads the thumbnail statistics service and shows how upload\n" +
			"years compare with the reference channel: feature distributions,\n" +
			"likeness scores, channel evolution, clustering and convergence tests.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: ./thumblens.yaml)")
	pf.StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVarP(&opts.OutputFormat, "output", "o", OutputText, "output format (text, json, table)")
	pf.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")
	pf.DurationVar(&opts.Timeout, "timeout", 60*time.Second, "timeout of one command")
	pf.StringVar(&opts.ServerAddr, "server", "", "statistics service URL (default: api.base_url)")

	cmd.AddCommand(
		newOverviewCmd(),
		newCompareCmd(),
		newLikenessCmd(),
		newEvolutionCmd(),
		newClusteringCmd(),
		newConvergenceCmd(),
		newCorrelationsCmd(),
		newThumbnailsCmd(),
		newServeCmd(),
	)
	return cmd
}

func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	switch opts.OutputFormat {
	case OutputText, OutputJSON, OutputTable:
	default:
		return errors.InvalidParam("output must be one of text, json, table")
	}
	if opts.NoColor {
		color.NoColor = true
	}

	cfg, path, err := initConfig(opts)
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}
	if opts.ServerAddr != "" {
		cfg.API.BaseURL = opts.ServerAddr
	}

	logger, err := initLogger(cmd.ErrOrStderr(), opts)
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}

	apiClient, err := newClient(cfg, logger, nil)
	if err != nil {
		return fmt.Errorf("client initialization failed: %w", err)
	}

	cliCtx := &CLIContext{
		Config:       cfg,
		ConfigPath:   path,
		Logger:       logger,
		Client:       apiClient,
		Deps:         view.NewDeps(apiClient, cfg, logger, nil),
		OutputFormat: opts.OutputFormat,
		NoColor:      opts.NoColor,
		Timeout:      opts.Timeout,
	}
	cmd.SetContext(context.WithValue(cmd.Context(), cliContextKey{}, cliCtx))
	return nil
}

// initConfig loads configuration: the --config file when given, otherwise
// the first file found on the search path, otherwise the environment and
// defaults.  It returns the path it read, "" when none.
func initConfig(opts *RootOptions) (*config.Config, string, error) {
	if opts.ConfigPath != "" {
		cfg, err := config.Load(opts.ConfigPath)
		return cfg, opts.ConfigPath, err
	}

	searchPaths := []string{"./thumblens.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(home, ".thumblens", "config.yaml"))
	}
	searchPaths = append(searchPaths, "/etc/thumblens/config.yaml")

	for _, p := range searchPaths {
		if _, err := os.Stat(p); err == nil {
			cfg, err := config.Load(p)
			return cfg, p, err
		}
	}

	cfg, err := config.LoadFromEnv()
	return cfg, "", err
}

// initLogger writes console logs to w so they never mix with command
// output.
func initLogger(w io.Writer, opts *RootOptions) (logging.Logger, error) {
	level := strings.ToLower(opts.LogLevel)
	switch level {
	case logging.LevelDebug, logging.LevelInfo, logging.LevelWarn, logging.LevelError:
	default:
		return nil, errors.InvalidParam("unknown log level " + opts.LogLevel)
	}
	return logging.NewWriterLogger(w, level), nil
}

// newClient builds the statistics client from cfg.  observer may be nil.
func newClient(cfg *config.Config, logger logging.Logger, observer client.RequestObserver) (*client.Client, error) {
	opts := []client.Option{
		client.WithTimeout(cfg.API.Timeout),
		client.WithStaticPrefix(cfg.API.StaticPrefix),
		client.WithLogger(logging.Printf(logger.Named("client"))),
	}
	if cfg.API.UserAgent != "" {
		opts = append(opts, client.WithUserAgent(cfg.API.UserAgent))
	}
	if observer != nil {
		opts = append(opts, client.WithRequestObserver(observer))
	}
	return client.NewClient(cfg.API.BaseURL, opts...)
}

// GetCLIContext extracts CLIContext from a cobra command's context.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.Internal("command context is nil")
	}
	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, errors.Internal("CLIContext not found in command context")
	}
	return cliCtx, nil
}

// commandContext bounds one command by the --timeout flag.
func (c *CLIContext) commandContext(parent context.Context) (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, c.Timeout)
}

// Execute is the main entry point for the CLI application.
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		PrintError(rootCmd, err)
		return err
	}
	return nil
}

// PrintResult writes r in the format chosen by --output.
func PrintResult(cmd *cobra.Command, r *Result) error {
	format := OutputText
	if cliCtx, err := GetCLIContext(cmd); err == nil {
		format = cliCtx.OutputFormat
	}

	out := cmd.OutOrStdout()
	switch format {
	case OutputJSON:
		return printJSON(out, r.Data)
	case OutputTable:
		return r.writeTables(out)
	default:
		return r.writeText(out)
	}
}

func printJSON(w io.Writer, data interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// PrintError writes a formatted error message to stderr.  Service errors
// keep their status line; validation errors drop the code prefix.
func PrintError(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	msg := err.Error()
	var appErr *errors.AppError
	if apiErr, ok := client.AsAPIError(err); ok {
		msg = apiErr.Error()
	} else if errors.As(err, &appErr) && appErr.Cause == nil {
		msg = appErr.Message
		if appErr.Detail != "" {
			msg += ": " + appErr.Detail
		}
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", color.RedString("Error:"), msg)
}
