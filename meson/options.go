package meson

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cryptix-os/helix/types"
)

// Arch is a kernel target architecture
type Arch string

// Supported targets
const (
	X86_64  Arch = "x86_64"
	AArch64 Arch = "aarch64"
)

// ParseArch validates a target architecture name
func ParseArch(s string) (Arch, error) {
	switch a := Arch(s); a {
	case X86_64, AArch64:
		return a, nil
	}
	return "", fmt.Errorf("invalid target architecture '%s', use x86_64 or aarch64", s)
}

// Compiler is the cross toolchain family
type Compiler string

// Supported compilers
const (
	GCC   Compiler = "gcc"
	Clang Compiler = "clang"
)

// ParseCompiler validates a compiler name
func ParseCompiler(s string) (Compiler, error) {
	switch c := Compiler(s); c {
	case GCC, Clang:
		return c, nil
	}
	return "", fmt.Errorf("invalid compiler '%s', use gcc or clang", s)
}

// BuildType is the project level build flavour
type BuildType string

// Build flavours
const (
	Release BuildType = "release"
	Debug   BuildType = "debug"
	Dist    BuildType = "dist"
)

// ParseBuildType validates a build type
func ParseBuildType(s string) (BuildType, error) {
	b := BuildType(s)
	if _, err := b.MesonBuildType(); err != nil {
		return "", err
	}
	return b, nil
}

// MesonBuildType maps the build type to meson's --buildtype. A release build
// keeps debug info, only dist is fully optimized.
func (b BuildType) MesonBuildType() (string, error) {
	switch b {
	case Dist:
		return "release", nil
	case Release:
		return "debugoptimized", nil
	case Debug:
		return "debug", nil
	}
	return "", fmt.Errorf("invalid build type '%s'", b)
}

// Firmware selects the emulator run target
type Firmware string

// Firmware kinds
const (
	BIOS Firmware = "bios"
	UEFI Firmware = "uefi"
)

// ParseFirmware validates a firmware name, empty means uefi
func ParseFirmware(s string) (Firmware, error) {
	switch f := Firmware(strings.ToLower(s)); f {
	case "":
		return UEFI, nil
	case BIOS, UEFI:
		return f, nil
	}
	return "", fmt.Errorf("invalid firmware '%s', use bios or uefi", s)
}

// Options configure a Driver
type Options struct {
	Arch          Arch
	Compiler      Compiler
	BuildType     BuildType
	BuildDir      string
	CrossFilesDir string
	Jobs          int
}

// OptionsFromConfig validates c and fills in the default build directory
func OptionsFromConfig(c types.BuildConfig) (*Options, error) {
	arch, err := ParseArch(c.TargetArch)
	if err != nil {
		return nil, err
	}
	compiler, err := ParseCompiler(c.Compiler)
	if err != nil {
		return nil, err
	}
	buildType, err := ParseBuildType(c.BuildType)
	if err != nil {
		return nil, err
	}
	if c.Jobs < 1 {
		return nil, fmt.Errorf("jobs must be at least 1, got %d", c.Jobs)
	}

	o := &Options{
		Arch:          arch,
		Compiler:      compiler,
		BuildType:     buildType,
		BuildDir:      c.BuildDir,
		CrossFilesDir: c.CrossFilesDir,
		Jobs:          c.Jobs,
	}
	if o.BuildDir == "" {
		o.BuildDir = DefaultBuildDir(buildType, arch)
	}
	if o.CrossFilesDir == "" {
		o.CrossFilesDir = "CrossFiles"
	}
	return o, nil
}

// DefaultBuildDir is build_<buildtype>_<arch>
func DefaultBuildDir(b BuildType, a Arch) string {
	return fmt.Sprintf("build_%s_%s", b, a)
}

// CrossFile is the meson cross file for the compiler and target
func (o *Options) CrossFile() string {
	return filepath.Join(o.CrossFilesDir, fmt.Sprintf("kernel-target-%s-%s.cross-file", o.Compiler, o.Arch))
}

// JobsFlag is the -jN argument handed to meson compile
func (o *Options) JobsFlag() string {
	return fmt.Sprintf("-j%d", o.Jobs)
}
