package qemu

const hostArch = "aarch64"
