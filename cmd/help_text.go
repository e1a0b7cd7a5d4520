package cmd

import "strings"

func rootLongHelp() string {
	return strings.TrimSpace(`
Runs the AIReady analyzer (npx @aiready/cli) over the repository, publishes
its result as step outputs and fails the step when a threshold is breached.

Inputs are read the way the runner exports them (INPUT_<NAME>), can be
defaulted from a YAML file (--config), and are overridden by flags:
  token                     credential passed to the analyzer (default $GITHUB_TOKEN)
  paths                     path or glob to analyze (default ".")
  exclude                   patterns excluded from analysis (default none)
  min-score                 fail when score < min-score (default 70)
  max-issues                fail when issues > max-issues (default 10)
  fail-on-issues            fail when the analyzer reports failure (default false)
  output-format             summary | json | both (default summary)
  simulate-on-missing-tool  use a simulated result if the analyzer cannot run (default false)
  max-output-size           cap on captured analyzer output (default 10MB)
  cli-command               analyzer command (default "npx @aiready/cli")

Gates are checked in order and the first breach fails the step:
  1. score below min-score
  2. issues above max-issues
  3. analyzer verdict failed, when fail-on-issues is true

Outputs: passed, score, issues, warnings, report.

Exit codes:
- 0 passed
- 1 failed (the reason is logged as an ::error:: line)
`)
}

func rootExampleHelp() string {
	return strings.TrimSpace(`
  # Analyze the working tree with default thresholds
  aiready-action

  # Stricter gate, JSON report in the log
  aiready-action --min-score 85 --max-issues 0 --output-format both

  # Inputs as the runner passes them
  INPUT_PATHS=src INPUT_EXCLUDE='**/*.test.ts' aiready-action

  # Defaults from a file
  aiready-action --config .github/aiready.yaml
`)
}
