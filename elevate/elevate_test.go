package elevate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type execCall struct {
	argv0 string
	argv  []string
	envv  []string
}

func newTestElevator(euid int, calls *[]execCall) *Elevator {
	return &Elevator{
		Geteuid:  func() int { return euid },
		Getuid:   func() int { return 1000 },
		Getgid:   func() int { return 100 },
		LookPath: func(string) (string, error) { return "/usr/bin/sudo", nil },
		Exec: func(argv0 string, argv []string, envv []string) error {
			*calls = append(*calls, execCall{argv0, argv, envv})
			return nil
		},
		Environ: func() []string { return []string{"PATH=/usr/bin"} },
	}
}

func TestElevate(t *testing.T) {
	t.Run("root does not re-exec", func(t *testing.T) {
		var calls []execCall
		e := newTestElevator(0, &calls)

		require.NoError(t, e.Elevate("/usr/local/bin/helix", []string{"image", "create"}))
		assert.True(t, e.IsRoot())
		assert.Empty(t, calls)
	})

	t.Run("non-root re-execs through sudo with the invoker exported", func(t *testing.T) {
		var calls []execCall
		e := newTestElevator(1000, &calls)

		require.NoError(t, e.Elevate("/usr/local/bin/helix", []string{"image", "create", "-s", "2GiB"}))
		require.Len(t, calls, 1)

		assert.Equal(t, "/usr/bin/sudo", calls[0].argv0)
		assert.Equal(t, []string{
			"sudo", "--preserve-env=RAISED_BY_SUDO_UID,RAISED_BY_SUDO_GID",
			"/usr/local/bin/helix", "image", "create", "-s", "2GiB",
		}, calls[0].argv)
		assert.Equal(t, []string{"PATH=/usr/bin", "RAISED_BY_SUDO_UID=1000", "RAISED_BY_SUDO_GID=100"}, calls[0].envv)
	})

	t.Run("stale invoker entries are replaced", func(t *testing.T) {
		var calls []execCall
		e := newTestElevator(1000, &calls)
		e.Environ = func() []string {
			return []string{"RAISED_BY_SUDO_UID=0", "PATH=/usr/bin", "RAISED_BY_SUDO_GID=0"}
		}

		require.NoError(t, e.Elevate("/usr/local/bin/helix", nil))
		require.Len(t, calls, 1)
		assert.Equal(t, []string{"PATH=/usr/bin", "RAISED_BY_SUDO_UID=1000", "RAISED_BY_SUDO_GID=100"}, calls[0].envv)
	})

	t.Run("missing sudo", func(t *testing.T) {
		var calls []execCall
		e := newTestElevator(1000, &calls)
		e.LookPath = func(string) (string, error) { return "", errors.New("not found") }

		assert.ErrorContains(t, e.Elevate("helix", nil), "sudo is required")
		assert.Empty(t, calls)
	})

	t.Run("exec failure", func(t *testing.T) {
		var calls []execCall
		e := newTestElevator(1000, &calls)
		e.Exec = func(string, []string, []string) error { return errors.New("EPERM") }

		assert.ErrorContains(t, e.Elevate("helix", nil), "exec sudo")
	})
}

func TestInvoker(t *testing.T) {
	env := func(vars map[string]string) func(string) string {
		return func(k string) string { return vars[k] }
	}

	uid, gid, ok := invoker(env(map[string]string{EnvUID: "1000", EnvGID: "100"}))
	assert.True(t, ok)
	assert.Equal(t, 1000, uid)
	assert.Equal(t, 100, gid)

	_, _, ok = invoker(env(nil))
	assert.False(t, ok)

	_, _, ok = invoker(env(map[string]string{EnvUID: "1000"}))
	assert.False(t, ok)

	_, _, ok = invoker(env(map[string]string{EnvUID: "-1", EnvGID: "100"}))
	assert.False(t, ok)
}

func TestRestoreOwnerWithoutSudo(t *testing.T) {
	t.Setenv(EnvUID, "")
	t.Setenv(EnvGID, "")
	assert.NoError(t, RestoreOwner("/does/not/matter"))
}
