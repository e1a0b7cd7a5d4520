package actions

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
)

const (
	EnvOutputFile = "GITHUB_OUTPUT"
	EnvDebug      = "RUNNER_DEBUG"
)

// Outputs publishes step outputs. With File set, values are appended to it
// in heredoc form; otherwise a set-output command is written to W.
type Outputs struct {
	File string
	W    io.Writer

	// delimiter is overridable in tests.
	delimiter func() string
}

// NewOutputs wires the outputs file from src, falling back to commands on w.
func NewOutputs(src Source, w io.Writer) *Outputs {
	file, _ := src.Lookup(EnvOutputFile)
	return &Outputs{File: strings.TrimSpace(file), W: w}
}

func (o *Outputs) Set(name, value string) error {
	if o.File == "" {
		return Issue(o.W, Command{Name: "set-output", Properties: map[string]string{"name": name}, Message: value})
	}
	entry, err := o.fileEntry(name, value)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(o.File, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	if _, err := f.WriteString(entry); err != nil {
		_ = f.Close()
		return fmt.Errorf("write output %s: %w", name, err)
	}
	return f.Close()
}

func (o *Outputs) fileEntry(name, value string) (string, error) {
	gen := o.delimiter
	if gen == nil {
		gen = func() string { return "ghadelimiter_" + uuid.NewString() }
	}
	d := gen()
	if strings.Contains(name, d) {
		return "", fmt.Errorf("unexpected input: name should not contain the delimiter %q", d)
	}
	if strings.Contains(value, d) {
		return "", fmt.Errorf("unexpected input: value should not contain the delimiter %q", d)
	}
	return fmt.Sprintf("%s<<%s\n%s\n%s\n", name, d, value, d), nil
}

// SetSecret masks v in all later log lines. Empty values are ignored.
func SetSecret(w io.Writer, v string) error {
	if v == "" {
		return nil
	}
	return Issue(w, Command{Name: "add-mask", Message: v})
}

// IsDebug reports whether the runner asked for debug logging.
func IsDebug(src Source) bool {
	v, _ := src.Lookup(EnvDebug)
	return strings.TrimSpace(v) == "1"
}
