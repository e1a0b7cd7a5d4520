// Package analyzer runs the external readability analyzer and turns its
// JSON report into a Result.
package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"aiready-action/internal/textutil"
)

// Result is the analyzer verdict for one run.
type Result struct {
	Passed   bool   `json:"passed"`
	Score    int    `json:"score"`
	Issues   int    `json:"issues"`
	Warnings int    `json:"warnings"`
	Report   string `json:"report"`
}

// Request carries what the analyzer needs for one invocation.
type Request struct {
	Paths   string
	Exclude string
	Token   string
}

// Analyzer produces a Result or an *InvocationError.
type Analyzer interface {
	Analyze(ctx context.Context, req Request) (Result, error)
}

// InvocationError means the analyzer could not produce a usable result:
// it failed to start, exited non-zero, overflowed the output cap or printed
// something that is not a valid report.
type InvocationError struct {
	Op  string
	Err error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InvocationError) Unwrap() error { return e.Err }

// Simulated is substituted when the analyzer is unavailable and the run
// opted into simulation.
func Simulated() Result {
	return Result{
		Passed:   true,
		Score:    85,
		Issues:   3,
		Warnings: 5,
		Report:   "AIReady analysis completed successfully",
	}
}

type wireResult struct {
	Passed   *bool   `json:"passed"`
	Score    *int    `json:"score"`
	Issues   *int    `json:"issues"`
	Warnings *int    `json:"warnings"`
	Report   *string `json:"report"`
}

// ParseResult decodes analyzer stdout. All five fields are required.
func ParseResult(stdout []byte) (Result, error) {
	if textutil.DetectBinary(stdout) {
		return Result{}, &InvocationError{Op: "parse", Err: fmt.Errorf("output is binary")}
	}
	var w wireResult
	if err := json.Unmarshal([]byte(strings.TrimSpace(textutil.Decode(stdout))), &w); err != nil {
		return Result{}, &InvocationError{Op: "parse", Err: err}
	}
	var missing []string
	if w.Passed == nil {
		missing = append(missing, "passed")
	}
	if w.Score == nil {
		missing = append(missing, "score")
	}
	if w.Issues == nil {
		missing = append(missing, "issues")
	}
	if w.Warnings == nil {
		missing = append(missing, "warnings")
	}
	if w.Report == nil {
		missing = append(missing, "report")
	}
	if len(missing) > 0 {
		return Result{}, &InvocationError{Op: "parse", Err: fmt.Errorf("missing fields: %s", strings.Join(missing, ", "))}
	}
	r := Result{Passed: *w.Passed, Score: *w.Score, Issues: *w.Issues, Warnings: *w.Warnings, Report: *w.Report}
	if r.Score < 0 || r.Score > 100 {
		return Result{}, &InvocationError{Op: "parse", Err: fmt.Errorf("score %d outside 0..100", r.Score)}
	}
	if r.Issues < 0 || r.Warnings < 0 {
		return Result{}, &InvocationError{Op: "parse", Err: fmt.Errorf("negative counts: issues=%d warnings=%d", r.Issues, r.Warnings)}
	}
	return r, nil
}
