// Package elevate re-executes helix under sudo and hands files created as root
// back to the user that invoked it.
package elevate

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/cryptix-os/helix/log"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Environment variables carrying the identity of the user that ran sudo
const (
	EnvUID = "RAISED_BY_SUDO_UID"
	EnvGID = "RAISED_BY_SUDO_GID"
)

// Elevator swaps the running process for a sudo'ed copy of itself
type Elevator struct {
	Geteuid  func() int
	Getuid   func() int
	Getgid   func() int
	LookPath func(file string) (string, error)
	Exec     func(argv0 string, argv []string, envv []string) error
	Environ  func() []string
}

// New returns an Elevator backed by the real process
func New() *Elevator {
	return &Elevator{
		Geteuid:  unix.Geteuid,
		Getuid:   unix.Getuid,
		Getgid:   unix.Getgid,
		LookPath: exec.LookPath,
		Exec:     unix.Exec,
		Environ:  os.Environ,
	}
}

// IsRoot reports whether the effective uid is 0
func (e *Elevator) IsRoot() bool {
	return e.Geteuid() == 0
}

// Argv returns the sudo argument vector that re-runs self with args
func (e *Elevator) Argv(self string, args []string) []string {
	return append([]string{"sudo", "--preserve-env=" + EnvUID + "," + EnvGID, self}, args...)
}

// Env returns the environment handed to sudo with any earlier invoker
// entries replaced
func (e *Elevator) Env() []string {
	var env []string
	for _, kv := range e.Environ() {
		if strings.HasPrefix(kv, EnvUID+"=") || strings.HasPrefix(kv, EnvGID+"=") {
			continue
		}
		env = append(env, kv)
	}
	return append(env,
		fmt.Sprintf("%s=%d", EnvUID, e.Getuid()),
		fmt.Sprintf("%s=%d", EnvGID, e.Getgid()),
	)
}

// Elevate replaces the current process with `sudo self args...`. It only
// returns on failure; when already root it does nothing.
func (e *Elevator) Elevate(self string, args []string) error {
	if e.IsRoot() {
		return nil
	}

	log.Info("Not started as root. Running sudo...")
	sudo, err := e.LookPath("sudo")
	if err != nil {
		return errors.Wrap(err, "sudo is required to set up loop devices")
	}

	argv := e.Argv(self, args)
	log.Trace("running %v", argv)
	if err := e.Exec(sudo, argv, e.Env()); err != nil {
		return errors.Wrap(err, "exec sudo")
	}
	return nil
}

// Invoker returns the uid and gid of the user that ran sudo, ok is false
// when the process was not raised by Elevate
func Invoker() (uid, gid int, ok bool) {
	return invoker(os.Getenv)
}

func invoker(getenv func(string) string) (uid, gid int, ok bool) {
	uid, err := strconv.Atoi(getenv(EnvUID))
	if err != nil || uid < 0 {
		return 0, 0, false
	}
	gid, err = strconv.Atoi(getenv(EnvGID))
	if err != nil || gid < 0 {
		return 0, 0, false
	}
	return uid, gid, true
}

// RestoreOwner chowns path back to the invoking user when the process was
// raised by Elevate
func RestoreOwner(path string) error {
	uid, gid, ok := Invoker()
	if !ok {
		return nil
	}

	log.Trace("handing %s back to %d:%d", path, uid, gid)
	if err := unix.Chown(path, uid, gid); err != nil {
		return errors.Wrapf(err, "chown %s", path)
	}
	return nil
}
