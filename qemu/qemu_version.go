package qemu

import (
	"context"
	"regexp"

	"github.com/cryptix-os/helix/shell"
)

var versionRegexp = regexp.MustCompile(`[0-9]+\.[0-9]+\.[0-9]+`)

// Version returns the version reported by binary --version
func Version(ctx context.Context, runner shell.Runner, binary string) (string, error) {
	res, err := runner.Run(ctx, shell.Cmd(binary, "--version"))
	if err != nil {
		return "", &errQemuNotInstalled{errCustom{"cannot execute QEMU", err}}
	}
	return parseQemuVersion([]byte(res.Stdout)), nil
}

func parseQemuVersion(data []byte) string {
	return versionRegexp.FindString(string(data))
}
