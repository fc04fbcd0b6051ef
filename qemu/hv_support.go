package qemu

import (
	"strings"

	"github.com/spf13/afero"
)

// hvSupport looks for the vmx or svm cpu flag. Only meaningful on x86 hosts.
func hvSupport(fs afero.Fs) (bool, error) {
	const intel string = "vmx"
	const amd string = "svm"

	b, err := afero.ReadFile(fs, "/proc/cpuinfo")
	if err != nil {
		return false, err
	}

	for _, line := range strings.Split(string(b), "\n") {
		kvp := strings.SplitN(line, ":", 2)
		if len(kvp) < 2 || strings.TrimSpace(kvp[0]) != "flags" {
			continue
		}
		for _, flag := range strings.Fields(kvp[1]) {
			if flag == intel || flag == amd {
				return true, nil
			}
		}
	}

	return false, nil
}
