//go:build !amd64 && !arm64

package qemu

const hostArch = ""
