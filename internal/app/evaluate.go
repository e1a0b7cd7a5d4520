package app

import (
	"fmt"

	"aiready-action/internal/analyzer"
	"aiready-action/internal/config"
)

// Evaluate applies the gates in order and stops at the first that trips:
// minimum score, maximum issues, then the analyzer's own verdict when
// fail-on-issues is set.
func Evaluate(cfg config.Config, r analyzer.Result) Outcome {
	out := Outcome{Result: r}
	switch {
	case r.Score < cfg.MinScore:
		out.Failed = true
		out.Code = CodeScoreBelowMinimum
		out.Message = fmt.Sprintf("AI score %d is below minimum threshold %d", r.Score, cfg.MinScore)
	case r.Issues > cfg.MaxIssues:
		out.Failed = true
		out.Code = CodeIssuesAboveMaximum
		out.Message = fmt.Sprintf("Found %d issues, exceeding maximum allowed %d", r.Issues, cfg.MaxIssues)
	case !r.Passed && cfg.FailOnIssues:
		out.Failed = true
		out.Code = CodeAnalyzerReportedFailure
		out.Message = "AIReady check failed. See report for details."
	default:
		out.Code = CodePassed
	}
	return out
}
