package util

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type lockedBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (l *lockedBuffer) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func (l *lockedBuffer) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.String()
}

func TestProgressSpinnerDo(t *testing.T) {
	t.Run("success ends with done", func(t *testing.T) {
		var out lockedBuffer
		ps := NewProgressSpinner(&out)

		ran := false
		err := ps.Do(func() error {
			ran = true
			return nil
		}, "creating image")

		assert.NoError(t, err)
		assert.True(t, ran)
		assert.True(t, strings.HasSuffix(out.String(), "\n"))
		assert.Contains(t, out.String(), "creating image")
		assert.Contains(t, out.String(), "done")
	})

	t.Run("failure is returned and marked", func(t *testing.T) {
		var out lockedBuffer
		ps := NewProgressSpinner(&out)

		boom := errors.New("boom")
		err := ps.Do(func() error { return boom }, "syncing")

		assert.Equal(t, boom, err)
		assert.Contains(t, out.String(), "failed")
	})

	t.Run("Done without Start is a no-op", func(t *testing.T) {
		var out lockedBuffer
		NewProgressSpinner(&out).Done()
		assert.Equal(t, "", out.String())
	})
}

func TestNoProgress(t *testing.T) {
	called := false
	err := NoProgress{}.Do(func() error {
		called = true
		return nil
	}, "ignored")
	assert.NoError(t, err)
	assert.True(t, called)
}

func TestNewProgressWithoutTerminal(t *testing.T) {
	assert.IsType(t, NoProgress{}, NewProgress(nil, false))
}
