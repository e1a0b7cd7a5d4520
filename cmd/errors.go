package cmd

import "fmt"

// The runner only distinguishes success from failure.
const (
	ExitOK     = 0
	ExitFailed = 1
)

type ExitError struct {
	Code int
	Msg  string
}

func (e *ExitError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Msg
}
