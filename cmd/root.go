package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"aiready-action/internal/actions"
	"aiready-action/internal/analyzer"
	"aiready-action/internal/app"
	"aiready-action/internal/config"
	"github.com/spf13/cobra"
)

type actionFlags struct {
	Config        string
	Paths         string
	Exclude       string
	OutputFormat  string
	MaxOutputSize string
	CLICommand    string
	MinScore      int
	MaxIssues     int
	FailOnIssues  bool
	Simulate      bool
	Debug         bool
	ShowVersion   bool
}

func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

// run is the single failure boundary: returned errors and panics alike end
// as an ::error:: line plus ExitFailed.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) (code int) {
	defer recoverFailure(stdout, &code)
	root := NewRootCmd(stdout, stderr)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		var ee *ExitError
		if errors.As(err, &ee) {
			if ee.Msg != "" {
				setFailed(stdout, ee.Msg)
			}
			return ee.Code
		}
		setFailed(stdout, err.Error())
		return ExitFailed
	}
	return ExitOK
}

func NewRootCmd(stdout, _ io.Writer) *cobra.Command {
	flags := &actionFlags{}
	root := &cobra.Command{
		Use:           "aiready-action",
		Short:         "Run the AIReady analyzer and gate the build on its score",
		Long:          rootLongHelp(),
		Example:       rootExampleHelp(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.ShowVersion {
				printVersion(stdout)
				return nil
			}
			return runAction(cmd, stdout, flags)
		},
	}
	root.CompletionOptions.HiddenDefaultCmd = true
	bindFlags(root, flags)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			printVersion(stdout)
		},
	}
	root.AddCommand(versionCmd)
	return root
}

func bindFlags(cmd *cobra.Command, flags *actionFlags) {
	f := cmd.Flags()
	f.StringVar(&flags.Config, config.InputConfig, "", "YAML file with default inputs")
	f.StringVar(&flags.Paths, config.InputPaths, "", "path or glob to analyze (default \".\")")
	f.StringVar(&flags.Exclude, config.InputExclude, "", "comma separated glob patterns to exclude")
	f.StringVar(&flags.OutputFormat, config.InputOutputFormat, "", "summary, json or both (default \"summary\")")
	f.StringVar(&flags.MaxOutputSize, config.InputMaxOutputSize, "", "cap on captured analyzer output (default \"10MB\")")
	f.StringVar(&flags.CLICommand, config.InputCLICommand, "", "analyzer command (default \""+config.DefaultCLICommand+"\")")
	f.IntVar(&flags.MinScore, config.InputMinScore, 70, "minimum acceptable score (0-100)")
	f.IntVar(&flags.MaxIssues, config.InputMaxIssues, 10, "maximum acceptable number of issues")
	f.BoolVar(&flags.FailOnIssues, config.InputFailOnIssues, false, "fail when the analyzer itself reports failure")
	f.BoolVar(&flags.Simulate, config.InputSimulateOnMissingTool, false, "use a simulated result when the analyzer cannot run")
	f.BoolVar(&flags.Debug, "debug", false, "enable debug logging")
	f.BoolVarP(&flags.ShowVersion, "version", "v", false, "print version information")
}

// overrides returns only flags set on the command line, keyed by input name.
func overrides(cmd *cobra.Command, flags *actionFlags) map[string]string {
	out := map[string]string{}
	set := func(name, v string) {
		if cmd.Flags().Changed(name) {
			out[name] = v
		}
	}
	set(config.InputConfig, flags.Config)
	set(config.InputPaths, flags.Paths)
	set(config.InputExclude, flags.Exclude)
	set(config.InputOutputFormat, flags.OutputFormat)
	set(config.InputMaxOutputSize, flags.MaxOutputSize)
	set(config.InputCLICommand, flags.CLICommand)
	set(config.InputMinScore, strconv.Itoa(flags.MinScore))
	set(config.InputMaxIssues, strconv.Itoa(flags.MaxIssues))
	set(config.InputFailOnIssues, strconv.FormatBool(flags.FailOnIssues))
	set(config.InputSimulateOnMissingTool, strconv.FormatBool(flags.Simulate))
	return out
}

func runAction(cmd *cobra.Command, stdout io.Writer, flags *actionFlags) error {
	src := actions.EnvSource{}
	ov := overrides(cmd, flags)
	cfg, err := config.Resolve(src, ov)
	if err != nil {
		writeConfigError(stdout, detectOutputFormat(src, ov), err.Error())
		return &ExitError{Code: ExitFailed, Msg: err.Error()}
	}
	if flags.Debug {
		cfg.Debug = true
	}
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(actions.NewHandler(stdout, level))

	if err := actions.SetSecret(stdout, cfg.Token); err != nil {
		return &ExitError{Code: ExitFailed, Msg: err.Error()}
	}
	cwd, err := os.Getwd()
	if err != nil {
		return &ExitError{Code: ExitFailed, Msg: "read working directory: " + err.Error()}
	}

	out, err := app.Run(cmd.Context(), app.Options{
		Config: cfg,
		Analyzer: &analyzer.CLI{
			Command:        cfg.CommandArgs(),
			MaxOutputBytes: cfg.MaxOutputBytes,
			Dir:            cwd,
			Logger:         logger,
		},
		Outputs: actions.NewOutputs(src, stdout),
		Logger:  logger,
		Stdout:  stdout,
		CWD:     cwd,
		Version: Version,
	})
	if err != nil {
		return &ExitError{Code: ExitFailed, Msg: err.Error()}
	}
	if out.Failed {
		return &ExitError{Code: ExitFailed, Msg: out.Message}
	}
	return nil
}

func setFailed(w io.Writer, msg string) {
	_ = actions.Issue(w, actions.Command{Name: "error", Message: msg})
}

func recoverFailure(w io.Writer, code *int) {
	r := recover()
	if r == nil {
		return
	}
	setFailed(w, panicMessage(r))
	*code = ExitFailed
}

func panicMessage(r any) string {
	if err, ok := r.(error); ok {
		return err.Error()
	}
	return "An unknown error occurred"
}
