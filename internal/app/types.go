package app

import (
	"io"
	"log/slog"

	"aiready-action/internal/analyzer"
	"aiready-action/internal/config"
)

const (
	CodePassed                  = "passed"
	CodeScoreBelowMinimum       = "score_below_minimum"
	CodeIssuesAboveMaximum      = "issues_above_maximum"
	CodeAnalyzerReportedFailure = "analyzer_reported_failure"
	CodeAnalyzerUnavailable     = "analyzer_unavailable"
)

// OutputSetter publishes named step outputs.
type OutputSetter interface {
	Set(name, value string) error
}

type Options struct {
	Config   config.Config
	Analyzer analyzer.Analyzer
	Outputs  OutputSetter
	Logger   *slog.Logger
	// Stdout receives the JSON report when the output format asks for it.
	Stdout  io.Writer
	CWD     string
	Version string
}

// Outcome is the terminal state of a run. Failed runs always carry a Message.
type Outcome struct {
	Failed    bool
	Code      string
	Message   string
	Result    analyzer.Result
	Simulated bool
}
