package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

const (
	DefaultMaxOutputBytes = 10 * 1024 * 1024
	maxStderrBytes        = 64 * 1024
)

// CLI runs the analyzer as a subprocess: Command followed by
// --output json --paths <paths> [--exclude <exclude>].
type CLI struct {
	Command        []string
	MaxOutputBytes int64
	Dir            string
	Logger         *slog.Logger
}

// Args is the full argv for req, command included.
func (c *CLI) Args(req Request) []string {
	args := append([]string{}, c.Command...)
	args = append(args, "--output", "json", "--paths", req.Paths)
	if req.Exclude != "" {
		args = append(args, "--exclude", req.Exclude)
	}
	return args
}

func (c *CLI) Analyze(ctx context.Context, req Request) (Result, error) {
	if len(c.Command) == 0 {
		return Result{}, &InvocationError{Op: "start", Err: errors.New("no analyzer command configured")}
	}
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}
	limit := c.MaxOutputBytes
	if limit <= 0 {
		limit = DefaultMaxOutputBytes
	}

	argv := c.Args(req)
	//nolint:gosec // the analyzer command comes from step inputs, not untrusted data
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = c.Dir
	cmd.Env = append(cmd.Environ(), "GITHUB_TOKEN="+req.Token)

	stdout := &cappedBuffer{limit: limit}
	stderr := &cappedBuffer{limit: maxStderrBytes}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	logger.Debug("invoking analyzer", "argv", strings.Join(argv, " "))
	start := time.Now()
	err := cmd.Run()
	logger.Debug("analyzer finished", "duration", time.Since(start).Round(time.Millisecond), "stdout_bytes", stdout.total)

	if err != nil {
		// A cancelled run is not a missing tool and must never be simulated.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			msg := fmt.Sprintf("exited with code %d", exitErr.ExitCode())
			if tail := strings.TrimSpace(stderr.String()); tail != "" {
				msg = fmt.Sprintf("%s; stderr: %s", msg, tail)
			}
			return Result{}, &InvocationError{Op: "run", Err: errors.New(msg)}
		}
		return Result{}, &InvocationError{Op: "start", Err: err}
	}
	if stdout.Truncated() {
		return Result{}, &InvocationError{Op: "read", Err: fmt.Errorf("output exceeded %d bytes", limit)}
	}
	return ParseResult(stdout.Bytes())
}

// cappedBuffer keeps the first limit bytes and counts the rest. It never
// fails a write, so the child is never blocked on a full pipe.
type cappedBuffer struct {
	limit int64
	buf   []byte
	total int64
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	b.total += int64(len(p))
	if room := b.limit - int64(len(b.buf)); room > 0 {
		if int64(len(p)) > room {
			b.buf = append(b.buf, p[:room]...)
		} else {
			b.buf = append(b.buf, p...)
		}
	}
	return len(p), nil
}

func (b *cappedBuffer) Bytes() []byte   { return b.buf }
func (b *cappedBuffer) String() string  { return string(b.buf) }
func (b *cappedBuffer) Truncated() bool { return b.total > b.limit }
