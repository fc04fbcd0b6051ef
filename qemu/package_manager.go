package qemu

import (
	"fmt"

	"github.com/spf13/afero"
)

// PackageManager is the host distribution's package manager
type PackageManager int32

const (
	PackageManagerNotFound PackageManager = iota
	PackageManagerYum
	PackageManagerAptGet
	PackageManagerApk
	PackageManagerEmerge
	PackageManagerZypp
	PackageManagerPacman
	PackageManagerDNF
)

var distribsPackageManagers = []struct {
	release string
	manager PackageManager
}{
	{"/etc/redhat-release", PackageManagerYum},
	{"/etc/fedora-release", PackageManagerDNF},
	{"/etc/debian_version", PackageManagerAptGet},
	{"/etc/alpine-release", PackageManagerApk},
	{"/etc/gentoo-release", PackageManagerEmerge},
	{"/etc/SuSE-release", PackageManagerZypp},
	{"/etc/arch-release", PackageManagerPacman},
}

// InstallQEMUCommand returns how to install the emulator and uefi firmware
// for arch
func (pm PackageManager) InstallQEMUCommand(arch string) string {
	switch pm {
	case PackageManagerYum:
		return "yum install qemu-kvm edk2-ovmf"
	case PackageManagerAptGet:
		if arch == "aarch64" {
			return "apt-get install qemu-system-arm qemu-efi-aarch64"
		}
		return "apt-get install qemu-system-x86 ovmf"
	case PackageManagerApk:
		return fmt.Sprintf("apk add qemu-system-%s ovmf", arch)
	case PackageManagerEmerge:
		return "emerge --ask app-emulation/qemu sys-firmware/edk2-ovmf-bin"
	case PackageManagerZypp:
		return "zypper install qemu qemu-ovmf-x86_64"
	case PackageManagerPacman:
		return "pacman -S qemu-full edk2-ovmf"
	case PackageManagerDNF:
		return "dnf install qemu-system-" + arch + " edk2-ovmf"
	}
	return "https://www.qemu.org/download"
}

// DetectPackageManager guesses the package manager from distribution
// release files, the last match wins
func DetectPackageManager(fs afero.Fs) PackageManager {
	pm := PackageManagerNotFound
	for _, d := range distribsPackageManagers {
		if ok, _ := afero.Exists(fs, d.release); ok {
			pm = d.manager
		}
	}
	return pm
}
