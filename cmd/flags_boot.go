package cmd

import (
	"github.com/cryptix-os/helix/types"
	"github.com/spf13/pflag"
)

// BootCommandFlags configure the emulator for a direct image boot
type BootCommandFlags struct {
	TargetArch   string
	Firmware     string
	UefiFirmware string
	Memory       string
	CPUs         *int
	Accel        *bool
	Display      string
}

// MergeToConfig overrides configuration passed by argument with command flags values
func (flags *BootCommandFlags) MergeToConfig(c *types.Config) (err error) {
	if flags.TargetArch != "" {
		c.Build.TargetArch = flags.TargetArch
	}
	if flags.Firmware != "" {
		c.Emulator.Firmware = flags.Firmware
	}
	if flags.UefiFirmware != "" {
		c.Emulator.UefiFirmwarePath = flags.UefiFirmware
	}
	if flags.Memory != "" {
		c.Emulator.Memory = flags.Memory
	}
	if flags.CPUs != nil {
		c.Emulator.CPUs = *flags.CPUs
	}
	if flags.Accel != nil {
		c.Emulator.Accel = *flags.Accel
	}
	if flags.Display != "" {
		c.Emulator.Display = flags.Display
	}
	return
}

// NewBootCommandFlags returns an instance of BootCommandFlags
func NewBootCommandFlags(cmdFlags *pflag.FlagSet) (flags *BootCommandFlags) {
	flags = &BootCommandFlags{}

	flags.TargetArch, _ = cmdFlags.GetString("target-arch")
	flags.Firmware, _ = cmdFlags.GetString("firmware")
	flags.UefiFirmware, _ = cmdFlags.GetString("uefi-firmware")
	flags.Memory, _ = cmdFlags.GetString("memory")
	flags.Display, _ = cmdFlags.GetString("display")
	if cmdFlags.Changed("smp") {
		n, _ := cmdFlags.GetInt("smp")
		flags.CPUs = types.IntPtr(n)
	}
	if cmdFlags.Changed("accel") {
		a, _ := cmdFlags.GetBool("accel")
		flags.Accel = types.BoolPtr(a)
	}

	return
}

// PersistBootCommandFlags append a command the emulator flags
func PersistBootCommandFlags(cmdFlags *pflag.FlagSet) {
	PersistTargetArchFlag(cmdFlags)
	cmdFlags.String("firmware", "", "firmware, bios or uefi (default uefi)")
	cmdFlags.String("uefi-firmware", "", "path to an OVMF/AAVMF firmware image")
	cmdFlags.StringP("memory", "m", "", "guest memory (default 2G)")
	cmdFlags.Int("smp", 1, "number of guest cpus")
	cmdFlags.Bool("accel", true, "use kvm when available")
	cmdFlags.String("display", "", "qemu display backend (default none)")
}
