package util

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    bool
		prompts int
	}{
		{"yes", "yes\n", true, 1},
		{"short yes", "y\n", true, 1},
		{"upper case", "Y\n", true, 1},
		{"no", "no\n", false, 1},
		{"short no", "n\n", false, 1},
		{"asks again on garbage", "maybe\n\nyes\n", true, 3},
		{"answer without newline", "n", false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := Confirm(strings.NewReader(tt.input), &out, "proceed?")
			require.NoError(t, err)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.prompts, strings.Count(out.String(), "proceed? => [y/n]: "))
		})
	}
}

func TestConfirmEOF(t *testing.T) {
	_, err := Confirm(strings.NewReader("what\n"), &bytes.Buffer{}, "proceed?")
	assert.EqualError(t, err, "no answer given")
}
