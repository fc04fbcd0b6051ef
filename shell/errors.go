package shell

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// CodeNotFound is the exit code reported for a missing executable
const CodeNotFound = 127

// Error is returned when a command exits non-zero or cannot be found
type Error struct {
	Cmd    []string
	Code   int
	Stdout string
	Stderr string
}

func (e *Error) Error() string {
	return fmt.Sprintf("command failed (%d): %s", e.Code, strings.Join(e.Cmd, " "))
}

// ExitCode returns the exit code carried by err, 0 when err is nil and 1
// when err is not a shell error
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var shellErr *Error
	if errors.As(err, &shellErr) {
		return shellErr.Code
	}
	return 1
}
