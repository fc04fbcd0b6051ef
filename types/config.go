package types

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Config for helix
type Config struct {
	// Image configures disk image assembly.
	Image ImageConfig `json:",omitempty" yaml:"image,omitempty"`

	// Build configures the meson build driver.
	Build BuildConfig `json:",omitempty" yaml:"build,omitempty"`

	// Emulator configures direct qemu boots of a disk image.
	Emulator EmulatorConfig `json:",omitempty" yaml:"emulator,omitempty"`

	// RunConfig
	RunConfig RunConfig `json:",omitempty" yaml:"run,omitempty"`
}

// ImageConfig describes the disk image to assemble.
type ImageConfig struct {
	// Input is the staged root tree copied into every partition.
	Input string `json:",omitempty" yaml:"input,omitempty"`

	// Output is the raw image file path (e.g. image.hdd).
	Output string `json:",omitempty" yaml:"output,omitempty"`

	// Size of the image, e.g. "2GiB" or "800000000".
	Size string `json:",omitempty" yaml:"size,omitempty"`

	// PartitionTable is either mbr or gpt.
	PartitionTable string `json:",omitempty" yaml:"partition_table,omitempty"`

	// BootSize is the end of the FAT32 boot partition, e.g. "1024MiB".
	BootSize string `json:",omitempty" yaml:"boot_size,omitempty"`

	// Backend selects the builder: loop (needs root) or diskfs.
	Backend string `json:",omitempty" yaml:"backend,omitempty"`

	// BootLabel
	BootLabel string `json:",omitempty" yaml:"boot_label,omitempty"`

	// RootLabel
	RootLabel string `json:",omitempty" yaml:"root_label,omitempty"`

	// EchfsPartition is the partition number echfs-utils imports into.
	EchfsPartition int `json:",omitempty" yaml:"echfs_partition,omitempty"`
}

// BuildConfig describes the meson build tree.
type BuildConfig struct {
	// TargetArch is x86_64 or aarch64.
	TargetArch string `json:",omitempty" yaml:"target_arch,omitempty"`

	// Compiler is gcc or clang.
	Compiler string `json:",omitempty" yaml:"compiler,omitempty"`

	// BuildType is release, debug or dist.
	BuildType string `json:",omitempty" yaml:"build_type,omitempty"`

	// BuildDir overrides build_<buildtype>_<arch>.
	BuildDir string `json:",omitempty" yaml:"build_dir,omitempty"`

	// CrossFilesDir holds the kernel-target-*.cross-file files.
	CrossFilesDir string `json:",omitempty" yaml:"cross_files_dir,omitempty"`

	// Jobs is passed to meson compile -j.
	Jobs int `json:",omitempty" yaml:"jobs,omitempty"`

	// AssumeYes skips the rebuild confirmation.
	AssumeYes bool `json:",omitempty" yaml:"assume_yes,omitempty"`
}

// EmulatorConfig configures qemu for boot.
type EmulatorConfig struct {
	// Firmware is bios or uefi.
	Firmware string `json:",omitempty" yaml:"firmware,omitempty"`

	// Memory configures the amount of memory handed to qemu (default 2G).
	Memory string `json:",omitempty" yaml:"memory,omitempty"`

	// CPUs
	CPUs int `json:",omitempty" yaml:"cpus,omitempty"`

	// UefiFirmwarePath points at an OVMF/AAVMF image.
	UefiFirmwarePath string `json:",omitempty" yaml:"uefi_firmware_path,omitempty"`

	// Accel enables KVM when available.
	Accel bool `json:",omitempty" yaml:"accel,omitempty"`

	// Display is passed to -display (default none).
	Display string `json:",omitempty" yaml:"display,omitempty"`
}

// RunConfig provides logging details
type RunConfig struct {
	// ShowDebug enables trace output.
	ShowDebug bool `json:",omitempty" yaml:"show_debug,omitempty"`

	// ShowErrors
	ShowErrors bool `json:",omitempty" yaml:"show_errors,omitempty"`

	// ShowWarnings
	ShowWarnings bool `json:",omitempty" yaml:"show_warnings,omitempty"`

	// Quiet suppresses info output.
	Quiet bool `json:",omitempty" yaml:"quiet,omitempty"`
}

// NewConfig returns a Config populated with helix defaults.
func NewConfig() *Config {
	return &Config{
		Image: ImageConfig{
			Output:         "image.hdd",
			PartitionTable: "mbr",
			BootSize:       "1024MiB",
			Backend:        "loop",
			BootLabel:      "HELIX_BOOT",
			RootLabel:      "helix_root",
			EchfsPartition: 2,
		},
		Build: BuildConfig{
			TargetArch:    "x86_64",
			Compiler:      "gcc",
			BuildType:     "release",
			CrossFilesDir: "CrossFiles",
			Jobs:          5,
		},
		Emulator: EmulatorConfig{
			Firmware: "uefi",
			Memory:   "2G",
			CPUs:     1,
			Accel:    true,
			Display:  "none",
		},
		RunConfig: RunConfig{
			ShowErrors:   true,
			ShowWarnings: true,
		},
	}
}

// LoadConfigFile reads a json or yaml file over the values already held by c.
func LoadConfigFile(path string, c *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "error reading config")
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		err = yaml.Unmarshal(data, c)
	default:
		err = json.Unmarshal(data, c)
	}
	if err != nil {
		return errors.Wrapf(err, "error config %s", path)
	}
	return nil
}
