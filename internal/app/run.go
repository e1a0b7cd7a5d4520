package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"aiready-action/internal/actions"
	"aiready-action/internal/analyzer"
	"aiready-action/internal/output"
	"aiready-action/internal/scan"
	"aiready-action/internal/textutil"
)

// Run performs one analysis: invoke, publish, report, evaluate. Threshold
// breaches and an unavailable analyzer come back as a failed Outcome; a
// non-nil error means the run broke down for another reason.
func Run(ctx context.Context, opts Options) (Outcome, error) {
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Analyzer == nil {
		return Outcome{}, errors.New("no analyzer configured")
	}

	logger.Info("🔍 AIReady: Analyzing your codebase for AI readability...")
	logger.Debug("configuration resolved",
		"source", cfg.Source,
		"paths", cfg.Paths,
		"exclude", cfg.Exclude,
		"min_score", cfg.MinScore,
		"max_issues", cfg.MaxIssues,
		"fail_on_issues", cfg.FailOnIssues,
		"output_format", string(cfg.OutputFormat),
	)

	sr := scan.Count(scan.Options{CWD: opts.CWD, Paths: cfg.Paths, Exclude: cfg.ExcludePatterns()})
	for _, se := range sr.Errors {
		logger.Debug("preflight", "code", se.Code, "path", se.Path, "detail", se.Detail)
	}
	if sr.Files == 0 {
		logger.Warn(fmt.Sprintf("No files matched paths %q; the analysis may be empty", cfg.Paths))
	} else {
		logger.Debug("preflight", "files", sr.Files)
	}

	simulated := false
	res, err := opts.Analyzer.Analyze(ctx, analyzer.Request{Paths: cfg.Paths, Exclude: cfg.Exclude, Token: cfg.Token})
	if err != nil {
		var ie *analyzer.InvocationError
		if !errors.As(err, &ie) {
			return Outcome{}, err
		}
		if !cfg.SimulateOnMissingTool {
			out := Outcome{
				Failed:  true,
				Code:    CodeAnalyzerUnavailable,
				Message: fmt.Sprintf("AIReady CLI unavailable: %v", err),
			}
			if cfg.OutputFormat.ShowsJSON() {
				if werr := writeReport(opts, out); werr != nil {
					return out, werr
				}
			}
			return out, nil
		}
		logger.Warn("AIReady CLI not available, using simulated results", "cause", err.Error())
		res = analyzer.Simulated()
		simulated = true
	}
	logger.Debug("analyzer report", "report", textutil.Truncate(res.Report, 200))

	if err := publish(opts.Outputs, res); err != nil {
		return Outcome{}, err
	}

	if cfg.OutputFormat.ShowsSummary() {
		logSummary(logger, res)
	}

	out := Evaluate(cfg, res)
	out.Simulated = simulated

	if cfg.OutputFormat.ShowsJSON() {
		if err := writeReport(opts, out); err != nil {
			return out, err
		}
	}
	if !out.Failed {
		logger.Info("✅ AIReady check passed!")
	}
	return out, nil
}

func publish(o OutputSetter, r analyzer.Result) error {
	if o == nil {
		return errors.New("no output sink configured")
	}
	outputs := []struct{ name, value string }{
		{"passed", strconv.FormatBool(r.Passed)},
		{"score", strconv.Itoa(r.Score)},
		{"issues", strconv.Itoa(r.Issues)},
		{"warnings", strconv.Itoa(r.Warnings)},
		{"report", r.Report},
	}
	for _, kv := range outputs {
		if err := o.Set(kv.name, kv.value); err != nil {
			return fmt.Errorf("set output %s: %w", kv.name, err)
		}
	}
	return nil
}

func writeReport(opts Options, out Outcome) error {
	if opts.Stdout == nil {
		return nil
	}
	events := buildEvents(opts, out)
	if err := actions.Issue(opts.Stdout, actions.Command{Name: "group", Message: "AIReady JSON report"}); err != nil {
		return err
	}
	if err := output.Write(opts.Stdout, output.FormatJSON, events); err != nil {
		return fmt.Errorf("write json report: %w", err)
	}
	return actions.Issue(opts.Stdout, actions.Command{Name: "endgroup"})
}

func buildEvents(opts Options, out Outcome) []output.Event {
	events := []output.Event{{
		"type":          "meta",
		"tool":          "aiready-action",
		"version":       opts.Version,
		"config_source": opts.Config.Source,
		"paths":         opts.Config.Paths,
		"exclude":       opts.Config.Exclude,
		"thresholds": map[string]any{
			"min_score":      opts.Config.MinScore,
			"max_issues":     opts.Config.MaxIssues,
			"fail_on_issues": opts.Config.FailOnIssues,
		},
	}}
	if out.Code == CodeAnalyzerUnavailable {
		return append(events, buildErrorEvent("analyzer", out.Code, out.Message))
	}
	events = append(events, output.Event{
		"type":      "result",
		"passed":    out.Result.Passed,
		"score":     out.Result.Score,
		"issues":    out.Result.Issues,
		"warnings":  out.Result.Warnings,
		"report":    out.Result.Report,
		"simulated": out.Simulated,
	})
	if out.Failed {
		return append(events, buildErrorEvent("threshold", out.Code, out.Message))
	}
	return append(events, output.Event{"type": "outcome", "code": out.Code, "failed": false})
}
