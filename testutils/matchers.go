package testutils

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/cryptix-os/helix/shell"
	"go.uber.org/mock/gomock"
)

type argvMatcher struct {
	argv   []string
	stream bool
}

// Argv matches a captured shell.Command with exactly this argument vector
func Argv(argv ...string) gomock.Matcher {
	return argvMatcher{argv: argv}
}

// StreamedArgv matches a streamed shell.Command with exactly this argument vector
func StreamedArgv(argv ...string) gomock.Matcher {
	return argvMatcher{argv: argv, stream: true}
}

func (m argvMatcher) Matches(x any) bool {
	c, ok := x.(shell.Command)
	if !ok {
		return false
	}
	return c.Stream == m.stream && reflect.DeepEqual(c.Argv(), m.argv)
}

func (m argvMatcher) String() string {
	if m.stream {
		return fmt.Sprintf("streamed command %q", strings.Join(m.argv, " "))
	}
	return fmt.Sprintf("command %q", strings.Join(m.argv, " "))
}

type prefixMatcher struct {
	prefix []string
}

// ArgvPrefix matches a shell.Command whose argument vector starts with prefix
func ArgvPrefix(prefix ...string) gomock.Matcher {
	return prefixMatcher{prefix: prefix}
}

func (m prefixMatcher) Matches(x any) bool {
	c, ok := x.(shell.Command)
	if !ok {
		return false
	}
	argv := c.Argv()
	return len(argv) >= len(m.prefix) && reflect.DeepEqual(argv[:len(m.prefix)], m.prefix)
}

func (m prefixMatcher) String() string {
	return fmt.Sprintf("command starting with %q", strings.Join(m.prefix, " "))
}

// OK is a successful shell.Result with the given stdout
func OK(stdout string) *shell.Result {
	return &shell.Result{Stdout: stdout}
}
