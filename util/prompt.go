package util

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Confirm asks message until the answer is one of yes, no, y or n and
// reports whether it was a yes
func Confirm(in io.Reader, out io.Writer, message string) (bool, error) {
	reader := bufio.NewReader(in)
	for {
		fmt.Fprintf(out, "%s => [y/n]: ", message)

		line, err := reader.ReadString('\n')
		answer := strings.ToLower(strings.TrimSpace(line))
		switch answer {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}

		if err == io.EOF {
			return false, errors.New("no answer given")
		}
		if err != nil {
			return false, errors.Wrap(err, "reading answer")
		}
	}
}
