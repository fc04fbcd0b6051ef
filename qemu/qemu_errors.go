package qemu

import (
	"errors"
)

type errCustom struct {
	Msg   string
	Cause error
}

func (e *errCustom) Error() string {
	if e.Cause == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Cause.Error()
}

func (e *errCustom) Unwrap() error {
	return e.Cause
}

type errQemuHWAccelDisabledInConfig struct{ errCustom }
type errQemuNotInstalled struct{ errCustom }
type errQemuHWAccelNotSupported struct{ errCustom }
type errQemuHWAccelNoUserRights struct{ errCustom }
type errQemuHWAccelForeignArch struct{ errCustom }
type errFirmwareNotFound struct{ errCustom }

// IsNotInstalled reports whether err means the emulator binary is missing
func IsNotInstalled(err error) bool {
	var target *errQemuNotInstalled
	return errors.As(err, &target)
}

func qemuAccelWarningMessage(err error) string {
	var (
		targetErrQemuHWAccelDisabledInConfig *errQemuHWAccelDisabledInConfig
		targetQemuHWAccelNoUserRights        *errQemuHWAccelNoUserRights
		targetQemuHWAccelNotSupported        *errQemuHWAccelNotSupported
		targetQemuHWAccelForeignArch         *errQemuHWAccelForeignArch
	)
	if errors.As(err, &targetErrQemuHWAccelDisabledInConfig) {
		return "You have disabled hardware acceleration"
	}

	if errors.As(err, &targetQemuHWAccelNoUserRights) {
		return "You don't have rights for using hardware acceleration\n" +
			"Try adding yourself to the kvm group: `sudo adduser $user kvm`\n" +
			"You'll need to re-login for this to take affect\n"
	}

	if errors.As(err, &targetQemuHWAccelNotSupported) {
		return "You specified hardware acceleration, but it is not supported\n" +
			"Are you running inside a vm? If so disable accel with --accel=false\n"
	}

	if errors.As(err, &targetQemuHWAccelForeignArch) {
		return "Target architecture differs from the host, falling back to emulation"
	}

	return "Hardware acceleration cannot be used on the current host"
}
