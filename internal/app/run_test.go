package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"aiready-action/internal/actions"
	"aiready-action/internal/analyzer"
	"aiready-action/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnalyzer struct {
	res   analyzer.Result
	err   error
	calls []analyzer.Request
}

func (f *fakeAnalyzer) Analyze(_ context.Context, req analyzer.Request) (analyzer.Result, error) {
	f.calls = append(f.calls, req)
	return f.res, f.err
}

type recordedOutputs struct {
	values map[string]string
	err    error
}

func (r *recordedOutputs) Set(name, value string) error {
	if r.err != nil {
		return r.err
	}
	if r.values == nil {
		r.values = map[string]string{}
	}
	r.values[name] = value
	return nil
}

type harness struct {
	opts    Options
	log     *bytes.Buffer
	outputs *recordedOutputs
}

func newHarness(t *testing.T, cfg config.Config, a analyzer.Analyzer) *harness {
	t.Helper()
	tmp := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmp, "index.ts"), []byte("export {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	log := &bytes.Buffer{}
	outs := &recordedOutputs{}
	return &harness{
		log:     log,
		outputs: outs,
		opts: Options{
			Config:   cfg,
			Analyzer: a,
			Outputs:  outs,
			Logger:   slog.New(actions.NewHandler(log, slog.LevelInfo)),
			Stdout:   log,
			CWD:      tmp,
			Version:  "test",
		},
	}
}

func baseConfig() config.Config {
	return config.Config{
		MaxIssues:    10,
		MinScore:     70,
		Paths:        ".",
		OutputFormat: config.FormatSummary,
	}
}

func warnings(log string) []string {
	var out []string
	for _, ln := range strings.Split(log, "\n") {
		if strings.HasPrefix(ln, "::warning::") {
			out = append(out, ln)
		}
	}
	return out
}

func TestRunPublishesOutputsAndSummary(t *testing.T) {
	a := &fakeAnalyzer{res: analyzer.Result{Passed: true, Score: 92, Issues: 1, Warnings: 7, Report: "all good"}}
	cfg := baseConfig()
	cfg.Exclude = "dist/**"
	cfg.Token = "tok"
	h := newHarness(t, cfg, a)

	out, err := Run(context.Background(), h.opts)
	require.NoError(t, err)
	assert.False(t, out.Failed)
	assert.Equal(t, CodePassed, out.Code)

	require.Len(t, a.calls, 1)
	assert.Equal(t, analyzer.Request{Paths: ".", Exclude: "dist/**", Token: "tok"}, a.calls[0])

	assert.Equal(t, map[string]string{
		"passed":   "true",
		"score":    "92",
		"issues":   "1",
		"warnings": "7",
		"report":   "all good",
	}, h.outputs.values)

	log := h.log.String()
	assert.Contains(t, log, "📊 AIReady Results:")
	assert.Contains(t, log, "\n   Score: 92/100\n   Issues: 1\n   Warnings: 7\n   Status: ✅ PASSED\n")
	assert.Contains(t, log, "✅ PASSED")
	assert.Contains(t, log, "✅ AIReady check passed!")
	assert.NotContains(t, log, "::group::")
	assert.Empty(t, warnings(log))
}

func TestRunPassedFalseStringified(t *testing.T) {
	a := &fakeAnalyzer{res: analyzer.Result{Passed: false, Score: 90, Issues: 2}}
	h := newHarness(t, baseConfig(), a)

	out, err := Run(context.Background(), h.opts)
	require.NoError(t, err)
	assert.False(t, out.Failed)
	assert.Equal(t, "false", h.outputs.values["passed"])
	assert.Contains(t, h.log.String(), "❌ FAILED")
}

func TestRunThresholdFailure(t *testing.T) {
	a := &fakeAnalyzer{res: analyzer.Result{Passed: true, Score: 65, Issues: 0}}
	h := newHarness(t, baseConfig(), a)

	out, err := Run(context.Background(), h.opts)
	require.NoError(t, err)
	assert.True(t, out.Failed)
	assert.Equal(t, "AI score 65 is below minimum threshold 70", out.Message)
	assert.NotContains(t, h.log.String(), "check passed")
	assert.Equal(t, "65", h.outputs.values["score"], "outputs are published before evaluation")
}

func TestRunFallbackWhenSimulationEnabled(t *testing.T) {
	a := &fakeAnalyzer{err: &analyzer.InvocationError{Op: "start", Err: errors.New("npx: not found")}}
	cfg := baseConfig()
	cfg.SimulateOnMissingTool = true
	h := newHarness(t, cfg, a)

	out, err := Run(context.Background(), h.opts)
	require.NoError(t, err)
	assert.False(t, out.Failed)
	assert.True(t, out.Simulated)

	assert.Equal(t, map[string]string{
		"passed":   "true",
		"score":    "85",
		"issues":   "3",
		"warnings": "5",
		"report":   "AIReady analysis completed successfully",
	}, h.outputs.values)

	w := warnings(h.log.String())
	require.Len(t, w, 1)
	assert.Contains(t, w[0], "using simulated results")
	assert.NotContains(t, h.log.String(), "::error::")
}

func TestRunInvocationFailureWithoutSimulation(t *testing.T) {
	a := &fakeAnalyzer{err: &analyzer.InvocationError{Op: "run", Err: errors.New("exited with code 1")}}
	h := newHarness(t, baseConfig(), a)

	out, err := Run(context.Background(), h.opts)
	require.NoError(t, err)
	assert.True(t, out.Failed)
	assert.Equal(t, CodeAnalyzerUnavailable, out.Code)
	assert.Contains(t, out.Message, "exited with code 1")
	assert.Empty(t, h.outputs.values, "nothing is published without a result")
}

func TestRunUnexpectedAnalyzerError(t *testing.T) {
	a := &fakeAnalyzer{err: context.Canceled}
	cfg := baseConfig()
	cfg.SimulateOnMissingTool = true
	h := newHarness(t, cfg, a)

	_, err := Run(context.Background(), h.opts)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, h.outputs.values)
}

func TestRunCancelledIsNeverSimulated(t *testing.T) {
	cfg := baseConfig()
	cfg.SimulateOnMissingTool = true
	h := newHarness(t, cfg, nil)
	h.opts.Analyzer = &analyzer.CLI{Command: []string{"aiready-definitely-not-installed-binary"}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, h.opts)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, h.outputs.values)
	assert.NotContains(t, h.log.String(), "simulated")
}

func TestRunOutputFailure(t *testing.T) {
	a := &fakeAnalyzer{res: analyzer.Result{Passed: true, Score: 90}}
	h := newHarness(t, baseConfig(), a)
	h.outputs.err = errors.New("disk full")

	_, err := Run(context.Background(), h.opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestRunNoAnalyzer(t *testing.T) {
	h := newHarness(t, baseConfig(), nil)
	h.opts.Analyzer = nil
	_, err := Run(context.Background(), h.opts)
	require.Error(t, err)
}

func TestRunJSONFormatSkipsSummary(t *testing.T) {
	a := &fakeAnalyzer{res: analyzer.Result{Passed: true, Score: 40, Issues: 1, Warnings: 0, Report: "r"}}
	cfg := baseConfig()
	cfg.OutputFormat = config.FormatJSON
	h := newHarness(t, cfg, a)

	out, err := Run(context.Background(), h.opts)
	require.NoError(t, err)
	require.True(t, out.Failed)

	log := h.log.String()
	assert.NotContains(t, log, "AIReady Results")
	doc := extractReport(t, log)
	require.Len(t, doc.Events, 3)
	assert.Equal(t, "meta", doc.Events[0]["type"])
	assert.Equal(t, "result", doc.Events[1]["type"])
	assert.Equal(t, float64(40), doc.Events[1]["score"])
	assert.Equal(t, "error", doc.Events[2]["type"])
	assert.Equal(t, CodeScoreBelowMinimum, doc.Events[2]["code"])
	assert.NotEmpty(t, doc.Events[2]["next_action"])
}

func TestRunBothFormats(t *testing.T) {
	a := &fakeAnalyzer{res: analyzer.Result{Passed: true, Score: 99}}
	cfg := baseConfig()
	cfg.OutputFormat = config.FormatBoth
	h := newHarness(t, cfg, a)

	_, err := Run(context.Background(), h.opts)
	require.NoError(t, err)
	log := h.log.String()
	assert.Contains(t, log, "AIReady Results")
	doc := extractReport(t, log)
	assert.Equal(t, "outcome", doc.Events[len(doc.Events)-1]["type"])
}

func TestRunJSONUnavailable(t *testing.T) {
	a := &fakeAnalyzer{err: &analyzer.InvocationError{Op: "start", Err: errors.New("missing")}}
	cfg := baseConfig()
	cfg.OutputFormat = config.FormatJSON
	h := newHarness(t, cfg, a)

	_, err := Run(context.Background(), h.opts)
	require.NoError(t, err)
	doc := extractReport(t, h.log.String())
	require.Len(t, doc.Events, 2)
	assert.Equal(t, CodeAnalyzerUnavailable, doc.Events[1]["code"])
}

func TestRunWarnsOnEmptySelection(t *testing.T) {
	a := &fakeAnalyzer{res: analyzer.Result{Passed: true, Score: 99}}
	cfg := baseConfig()
	cfg.Paths = "does-not-exist/**"
	h := newHarness(t, cfg, a)

	_, err := Run(context.Background(), h.opts)
	require.NoError(t, err)
	w := warnings(h.log.String())
	require.Len(t, w, 1)
	assert.Contains(t, w[0], "No files matched")
}

type reportDoc struct {
	Events []map[string]any `json:"events"`
}

func extractReport(t *testing.T, log string) reportDoc {
	t.Helper()
	start := strings.Index(log, "::group::AIReady JSON report\n")
	end := strings.Index(log, "::endgroup::")
	require.True(t, start >= 0 && end > start, "report group missing in %q", log)
	body := log[start+len("::group::AIReady JSON report\n") : end]
	var doc reportDoc
	require.NoError(t, json.Unmarshal([]byte(body), &doc))
	return doc
}
