// Package image assembles bootable two-partition disk images from a staged
// root tree.
package image

import (
	"context"
	"fmt"
	"strings"

	"github.com/cryptix-os/helix/shell"
	"github.com/cryptix-os/helix/util"
	"github.com/spf13/afero"
)

// Builder writes a disk image following a Layout
type Builder interface {
	Build(ctx context.Context, layout *Layout, source, output string) error
}

// Backend selects the Builder implementation
type Backend string

// Available backends
const (
	BackendLoop   Backend = "loop"
	BackendDiskfs Backend = "diskfs"
)

// ParseBackend accepts loop or diskfs in any case
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case BackendLoop, BackendDiskfs:
		return b, nil
	}
	return "", fmt.Errorf("invalid image backend %q, use loop or diskfs", s)
}

// NeedsRoot reports whether the backend attaches loop devices and mounts
func (b Backend) NeedsRoot() bool {
	return b == BackendLoop
}

// NewBuilder returns the builder for backend
func NewBuilder(backend Backend, runner shell.Runner, progress util.Progress) (Builder, error) {
	switch backend {
	case BackendLoop:
		return NewLoopBuilder(runner, progress), nil
	case BackendDiskfs:
		return NewDiskfsBuilder(runner, progress), nil
	}
	return nil, fmt.Errorf("invalid image backend %q", backend)
}

// CheckSource fails unless path is an existing directory
func CheckSource(fs afero.Fs, path string) error {
	ok, err := afero.DirExists(fs, path)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("input path is not a directory: %s", path)
	}
	return nil
}
