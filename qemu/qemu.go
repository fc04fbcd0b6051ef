// Package qemu boots disk images under qemu-system-<arch> with bios or uefi
// firmware.
package qemu

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cryptix-os/helix/log"
	"github.com/cryptix-os/helix/shell"
	"github.com/cryptix-os/helix/types"
	"github.com/cryptix-os/helix/util"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"golang.org/x/sys/unix"
)

// Config describes one emulator run
type Config struct {
	Image            string
	Arch             string
	Firmware         string
	UefiFirmwarePath string
	Memory           string
	CPUs             int
	Accel            bool
	Display          string
}

// NewConfig takes the emulator settings and target architecture from c
func NewConfig(c *types.Config, image string) Config {
	return Config{
		Image:            image,
		Arch:             c.Build.TargetArch,
		Firmware:         c.Emulator.Firmware,
		UefiFirmwarePath: c.Emulator.UefiFirmwarePath,
		Memory:           c.Emulator.Memory,
		CPUs:             c.Emulator.CPUs,
		Accel:            c.Emulator.Accel,
		Display:          c.Emulator.Display,
	}
}

var uefiFirmwareCandidates = map[string][]string{
	"x86_64": {
		"/usr/share/ovmf/OVMF.fd",
		"/usr/share/OVMF/OVMF.fd",
		"/usr/share/edk2/x64/OVMF.fd",
		"/usr/share/edk2-ovmf/x64/OVMF.fd",
		"/usr/share/qemu/OVMF.fd",
		"/usr/share/OVMF/OVMF_CODE.fd",
	},
	"aarch64": {
		"/usr/share/qemu-efi-aarch64/QEMU_EFI.fd",
		"/usr/share/AAVMF/AAVMF_CODE.fd",
		"/usr/share/edk2/aarch64/QEMU_EFI.fd",
		"/usr/share/qemu/edk2-aarch64-code.fd",
	},
}

// Qemu renders and runs one emulator invocation
type Qemu struct {
	cfg Config

	fs           afero.Fs
	lookPath     func(file string) (string, error)
	kvmAvailable func() error
	hostArch     string

	machine  machine
	flags    []string
	firmware firmware
	drives   []drive
	display  display
	serial   serial
}

// New returns a Qemu for cfg probing the real host
func New(cfg Config) *Qemu {
	return &Qemu{
		cfg:          cfg,
		fs:           afero.NewOsFs(),
		lookPath:     exec.LookPath,
		kvmAvailable: kvmAvailable,
		hostArch:     hostArch,
	}
}

// Binary is the emulator executable for the target architecture
func (q *Qemu) Binary() string {
	return "qemu-system-" + q.cfg.Arch
}

func (q *Qemu) addDrive(id, image, ifaceType string) {
	drv := drive{
		path:   image,
		iftype: ifaceType,
		index:  strconv.Itoa(len(q.drives)),
		ID:     id,
	}
	if !strings.Contains(filepath.Ext(image), "qcow") {
		drv.format = "raw"
	}
	q.drives = append(q.drives, drv)
}

func (q *Qemu) addFlag(flag string) {
	q.flags = append(q.flags, flag)
}

func (q *Qemu) addOption(flag, value string) {
	q.flags = append(q.flags, flag, value)
}

func (q *Qemu) validate() error {
	c := q.cfg
	if c.Image == "" {
		return errors.New("no disk image given")
	}
	if _, ok := uefiFirmwareCandidates[c.Arch]; !ok {
		return fmt.Errorf("invalid target architecture '%s'", c.Arch)
	}
	switch c.Firmware {
	case "bios", "uefi":
	default:
		return fmt.Errorf("invalid firmware '%s', use bios or uefi", c.Firmware)
	}
	if c.Firmware == "bios" && c.Arch != "x86_64" {
		return fmt.Errorf("bios firmware is only available for x86_64, %s boots with uefi", c.Arch)
	}
	if _, err := util.ParseSize(c.Memory); err != nil {
		return errors.Wrap(err, "memory")
	}
	if c.CPUs < 1 {
		return fmt.Errorf("cpus must be at least 1, got %d", c.CPUs)
	}
	return nil
}

// findFirmware returns the configured uefi image or the first installed one
func (q *Qemu) findFirmware() (string, error) {
	if p := q.cfg.UefiFirmwarePath; p != "" {
		if ok, _ := afero.Exists(q.fs, p); !ok {
			return "", &errFirmwareNotFound{errCustom{fmt.Sprintf("UEFI firmware %s does not exist", p), nil}}
		}
		return p, nil
	}

	for _, p := range uefiFirmwareCandidates[q.cfg.Arch] {
		if ok, _ := afero.Exists(q.fs, p); ok {
			return p, nil
		}
	}
	return "", &errFirmwareNotFound{errCustom{fmt.Sprintf(
		"no UEFI firmware found for %s, set --uefi-firmware or install it with `%s`",
		q.cfg.Arch, DetectPackageManager(q.fs).InstallQEMUCommand(q.cfg.Arch)), nil}}
}

// setAccel enables kvm when possible, otherwise warns and falls back to tcg
func (q *Qemu) setAccel() {
	if err := q.addAccel(); err != nil {
		log.Warn(qemuAccelWarningMessage(err))
		q.addOption("-cpu", "max")
	}
}

func (q *Qemu) addAccel() error {
	if !q.cfg.Accel {
		return &errQemuHWAccelDisabledInConfig{errCustom{"Hardware acceleration disabled in config", nil}}
	}
	if q.cfg.Arch != q.hostArch {
		return &errQemuHWAccelForeignArch{errCustom{"Target is not the host architecture", nil}}
	}
	if q.cfg.Arch == "x86_64" {
		ok, err := hvSupport(q.fs)
		if !(ok && err == nil) {
			return &errQemuHWAccelNotSupported{errCustom{"Hardware acceleration not supported", err}}
		}
	}
	if err := q.kvmAvailable(); err != nil {
		return &errQemuHWAccelNoUserRights{errCustom{"Cannot open /dev/kvm", err}}
	}

	q.machine.accel = "kvm:tcg"
	q.addOption("-cpu", "host")
	return nil
}

func (q *Qemu) setConfig() error {
	if err := q.validate(); err != nil {
		return err
	}
	c := q.cfg
	q.flags, q.drives, q.firmware = nil, nil, firmware{}

	if c.Arch == "x86_64" {
		q.machine = machine{mtype: "q35"}
		q.addDrive("hd0", c.Image, "ide")
	} else {
		q.machine = machine{mtype: "virt"}
		q.addDrive("hd0", c.Image, "virtio")
	}

	q.setAccel()

	q.addOption("-m", c.Memory)
	q.addOption("-smp", strconv.Itoa(c.CPUs))

	if c.Arch == "x86_64" {
		q.addOption("-device", "isa-debug-exit")
	}

	if c.Firmware == "uefi" {
		path, err := q.findFirmware()
		if err != nil {
			return err
		}
		q.firmware = firmware{path: path}
	}

	q.display = display{disptype: c.Display}
	if c.Display == "" {
		q.display.disptype = "none"
	}
	q.serial = serial{serialtype: "stdio"}
	q.addFlag("-no-reboot")
	return nil
}

// Args renders the emulator argument vector
func (q *Qemu) Args() ([]string, error) {
	if err := q.setConfig(); err != nil {
		return nil, err
	}

	args := componentArgs(q.machine)
	args = append(args, q.flags...)
	args = append(args, componentArgs(q.firmware)...)
	for _, drive := range q.drives {
		args = append(args, componentArgs(drive)...)
	}
	args = append(args, componentArgs(q.display)...)
	args = append(args, componentArgs(q.serial)...)

	return args, nil
}

// Command is the streamed shell command that boots the image, with the
// terminal wired to the guest serial port
func (q *Qemu) Command() (shell.Command, error) {
	args, err := q.Args()
	if err != nil {
		return shell.Command{}, err
	}
	return shell.Command{Name: q.Binary(), Args: args, Stdin: os.Stdin, Stream: true}, nil
}

func (q *Qemu) isInstalled() error {
	if _, err := q.lookPath(q.Binary()); err != nil {
		return &errQemuNotInstalled{errCustom{fmt.Sprintf(
			"Cannot find %s, install it with `%s`",
			q.Binary(), DetectPackageManager(q.fs).InstallQEMUCommand(q.cfg.Arch)), err}}
	}
	return nil
}

// Boot runs the emulator until the guest exits. A guest exit through
// isa-debug-exit is reported with its decoded status.
func (q *Qemu) Boot(ctx context.Context, runner shell.Runner) error {
	cmd, err := q.Command()
	if err != nil {
		return err
	}
	if err := q.isInstalled(); err != nil {
		return err
	}
	if v, err := Version(ctx, runner, q.Binary()); err == nil {
		log.Trace("using %s %s", q.Binary(), v)
	}

	log.Info("Booting %s with %s firmware", q.cfg.Image, q.cfg.Firmware)
	res, err := runner.TryRun(ctx, cmd)
	if err != nil {
		return err
	}
	if !res.Success() {
		return errors.Wrap(&shell.Error{Cmd: res.Cmd, Code: res.Code}, exitMessage(res.Code))
	}
	return nil
}

// isa-debug-exit makes qemu exit with (value << 1) | 1
func exitMessage(code int) string {
	if code&1 == 1 && code > 1 {
		return fmt.Sprintf("guest exited with status %d", code>>1)
	}
	return fmt.Sprintf("qemu exited with code %d", code)
}

// kvmAvailable returns nil if the current user have read and write access to /dev/kvm
func kvmAvailable() error {
	return unix.Access("/dev/kvm", unix.R_OK|unix.W_OK)
}
