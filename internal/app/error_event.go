package app

import "aiready-action/internal/output"

type errorHint struct {
	NextAction  string
	FixExample  string
	DocKey      string
	Recoverable bool
}

func buildErrorEvent(category, code, detail string) output.Event {
	h := hintByCode(code)
	return output.Event{
		"type":        "error",
		"code":        code,
		"category":    category,
		"detail":      detail,
		"next_action": h.NextAction,
		"fix_example": h.FixExample,
		"doc_key":     h.DocKey,
		"recoverable": h.Recoverable,
	}
}

func hintByCode(code string) errorHint {
	switch code {
	case CodeScoreBelowMinimum:
		return errorHint{
			NextAction:  "Address the findings in the report, or lower min-score",
			FixExample:  "with:\n  min-score: 60",
			DocKey:      "threshold.min_score",
			Recoverable: true,
		}
	case CodeIssuesAboveMaximum:
		return errorHint{
			NextAction:  "Fix blocking issues, or raise max-issues",
			FixExample:  "with:\n  max-issues: 20",
			DocKey:      "threshold.max_issues",
			Recoverable: true,
		}
	case CodeAnalyzerReportedFailure:
		return errorHint{
			NextAction:  "Read the report output, or set fail-on-issues to false",
			FixExample:  "with:\n  fail-on-issues: false",
			DocKey:      "threshold.fail_on_issues",
			Recoverable: true,
		}
	case CodeAnalyzerUnavailable:
		return errorHint{
			NextAction:  "Make sure Node.js and npx can install @aiready/cli on the runner",
			FixExample:  "- uses: actions/setup-node@v4\n  with:\n    node-version: 20",
			DocKey:      "analyzer.unavailable",
			Recoverable: true,
		}
	default:
		return errorHint{
			NextAction:  "Fix the inputs named in detail and re-run",
			FixExample:  "aiready-action --help",
			DocKey:      "general.error",
			Recoverable: true,
		}
	}
}
