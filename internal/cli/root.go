// Package cli wires the rknnc command tree.
package cli

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"rknnc/internal/logging"
	"rknnc/internal/toolkit"
)

// Options are the persistent settings shared by all commands. Defaults come
// from RKNNC_* environment variables.
type Options struct {
	LogLevel       string
	LogFormat      string
	Python         string
	VerboseToolkit bool
	MetricsFile    string
}

// DefaultOptions reads the environment.
func DefaultOptions() Options {
	return Options{
		LogLevel:       envStr("RKNNC_LOG_LEVEL", "info"),
		LogFormat:      envStr("RKNNC_LOG_FORMAT", logging.FormatConsole),
		Python:         envStr("RKNNC_PYTHON", toolkit.DefaultPython),
		VerboseToolkit: envBool("RKNNC_VERBOSE_TOOLKIT", false),
		MetricsFile:    envStr("RKNNC_METRICS_FILE", ""),
	}
}

// toolkitFactory opens the toolkit used by convert.
type toolkitFactory func(ctx context.Context, opts Options, log zerolog.Logger) (toolkit.Toolkit, error)

func startBridge(ctx context.Context, opts Options, log zerolog.Logger) (toolkit.Toolkit, error) {
	return toolkit.StartBridge(ctx, toolkit.BridgeOptions{
		Python:  opts.Python,
		Verbose: opts.VerboseToolkit,
		Logger:  log,
	})
}

// app carries what the commands need at run time.
type app struct {
	opts       Options
	stdout     io.Writer
	stderr     io.Writer
	newToolkit toolkitFactory
}

func (a *app) logger() zerolog.Logger {
	return logging.New(a.stderr, a.opts.LogLevel, a.opts.LogFormat)
}

// Execute runs the command line args (without the program name).
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a := &app{opts: DefaultOptions(), stdout: stdout, stderr: stderr, newToolkit: startBridge}
	root := buildRootCmd(a)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func buildRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "rknnc",
		Short:         "Convert ONNX models to RKNN from a declarative config file",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.opts.LogLevel, "log-level", a.opts.LogLevel, "Log level: debug|info|warn|error (defaults RKNNC_LOG_LEVEL or info)")
	pf.StringVar(&a.opts.LogFormat, "log-format", a.opts.LogFormat, "Log format: console|json (defaults RKNNC_LOG_FORMAT or console)")
	pf.StringVar(&a.opts.Python, "python", a.opts.Python, "Python interpreter with rknn-toolkit2 installed (defaults RKNNC_PYTHON or python3)")
	pf.BoolVar(&a.opts.VerboseToolkit, "verbose-toolkit", a.opts.VerboseToolkit, "Enable the toolkit's verbose output")
	pf.StringVar(&a.opts.MetricsFile, "metrics-file", a.opts.MetricsFile, "Write Prometheus metrics of the run to this file (defaults RKNNC_METRICS_FILE)")

	root.AddCommand(convertCmd(a), explainCmd(a), defaultsCmd(), completionCmd(root))
	return root
}

func completionCmd(root *cobra.Command) *cobra.Command {
	c := &cobra.Command{Use: "completion", Short: "Generate the autocompletion script for the specified shell"}
	c.AddCommand(&cobra.Command{Use: "bash", Short: "Bash completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenBashCompletion(cmd.OutOrStdout()) }})
	c.AddCommand(&cobra.Command{Use: "zsh", Short: "Zsh completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenZshCompletion(cmd.OutOrStdout()) }})
	c.AddCommand(&cobra.Command{Use: "fish", Short: "Fish completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenFishCompletion(cmd.OutOrStdout(), true) }})
	c.AddCommand(&cobra.Command{Use: "powershell", Short: "PowerShell completion", RunE: func(cmd *cobra.Command, args []string) error {
		return root.GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
	}})
	return c
}
