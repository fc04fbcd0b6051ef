package qemu

const hostArch = "x86_64"
