package cmd

import (
	"io"

	"aiready-action/internal/actions"
	"aiready-action/internal/config"
	"aiready-action/internal/output"
)

// writeConfigError emits a machine-readable error document when the caller
// asked for JSON, even though the configuration itself did not resolve.
func writeConfigError(w io.Writer, format, detail string) {
	if format != string(config.FormatJSON) && format != string(config.FormatBoth) {
		return
	}
	events := []output.Event{
		{
			"type":    "meta",
			"tool":    "aiready-action",
			"version": Version,
		},
		{
			"type":        "error",
			"code":        "config_invalid",
			"category":    "config",
			"detail":      detail,
			"next_action": "Fix the input named in detail; numbers must be integers and booleans true/false",
			"fix_example": "with:\n  max-issues: 10\n  fail-on-issues: true",
			"doc_key":     "config.invalid",
			"recoverable": true,
		},
	}
	_ = actions.Issue(w, actions.Command{Name: "group", Message: "AIReady JSON report"})
	_ = output.Write(w, output.FormatJSON, events)
	_ = actions.Issue(w, actions.Command{Name: "endgroup"})
}

// detectOutputFormat reads the requested format without validating the rest
// of the configuration.
func detectOutputFormat(src actions.Source, overrides map[string]string) string {
	if v, ok := overrides[config.InputOutputFormat]; ok && v != "" {
		return v
	}
	return actions.GetInput(src, config.InputOutputFormat)
}
