package image

import (
	"testing"

	"github.com/cryptix-os/helix/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTableType(t *testing.T) {
	for in, want := range map[string]TableType{"mbr": MBR, "MBR": MBR, "gpt": GPT, " Gpt ": GPT} {
		got, err := ParseTableType(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseTableType("apm")
	assert.Error(t, err)

	assert.Equal(t, "msdos", MBR.PartedLabel())
	assert.Equal(t, "gpt", GPT.PartedLabel())
}

func TestMkfsArgv(t *testing.T) {
	assert.Equal(t, []string{"mkfs.vfat", "-F32", "-n", "HELIX_BOOT", "/dev/loop0p1"}, FAT32.MkfsArgv("/dev/loop0p1", "HELIX_BOOT"))
	assert.Equal(t, []string{"mkfs.vfat", "-F32", "/dev/loop0p1"}, FAT32.MkfsArgv("/dev/loop0p1", ""))
	assert.Equal(t, []string{"mkfs.ext2", "-L", "helix_root", "/dev/loop0p2"}, Ext2.MkfsArgv("/dev/loop0p2", "helix_root"))
}

func TestNewLayoutMBR(t *testing.T) {
	l, err := NewLayout(LayoutSpec{Table: MBR, Size: 2 * util.GiB, BootEnd: 1024 * util.MiB, BootLabel: "BOOT", RootLabel: "root"})
	require.NoError(t, err)

	assert.Equal(t, uint64(2*util.GiB), l.Size)
	assert.Equal(t, uint64(2048), l.SizeMiB())
	require.Len(t, l.Partitions, 2)

	boot, root := l.Partitions[0], l.Partitions[1]
	assert.Equal(t, Partition{Number: 1, Filesystem: FAT32, Label: "BOOT", Bootable: true, Start: 2048, End: 2097151}, boot)
	assert.Equal(t, Partition{Number: 2, Filesystem: Ext2, Label: "root", Start: 2097152, End: 4194303}, root)

	assert.Equal(t, uint64(1024*util.MiB-util.MiB), boot.Size())
	assert.Equal(t, uint64(1024*util.MiB), root.Offset())
	assert.Equal(t, uint64(1024*util.MiB), root.Size())
}

func TestNewLayoutGPTReservesBackupHeader(t *testing.T) {
	l, err := NewLayout(LayoutSpec{Table: GPT, Size: 2 * util.GiB, BootEnd: 1024 * util.MiB})
	require.NoError(t, err)

	root := l.Partitions[1]
	assert.Equal(t, uint64(4194303-33), root.End)
}

func TestNewLayoutTruncatesToMiB(t *testing.T) {
	l, err := NewLayout(LayoutSpec{Table: MBR, Size: 800000000, BootEnd: 64 * util.MiB})
	require.NoError(t, err)

	assert.Equal(t, uint64(762*util.MiB), l.Size)
	assert.Equal(t, uint64(762*util.MiB/SectorSize-1), l.Partitions[1].End)
}

func TestNewLayoutErrors(t *testing.T) {
	tests := []struct {
		name string
		spec LayoutSpec
		msg  string
	}{
		{"unknown table", LayoutSpec{Table: "apm", Size: util.GiB, BootEnd: 64 * util.MiB}, "invalid partition table"},
		{"below one MiB", LayoutSpec{Table: MBR, Size: 1000, BootEnd: 64 * util.MiB}, "at least 1 MiB"},
		{"unaligned boot end", LayoutSpec{Table: MBR, Size: util.GiB, BootEnd: 64*util.MiB + 512}, "whole number of MiB"},
		{"boot end inside the gap", LayoutSpec{Table: MBR, Size: util.GiB, BootEnd: util.MiB}, "whole number of MiB"},
		{"768MiB with the default boot end", LayoutSpec{Table: MBR, Size: 768 * util.MiB, BootEnd: 1024 * util.MiB}, "too small"},
		{"no room for root", LayoutSpec{Table: MBR, Size: 64 * util.MiB, BootEnd: 64 * util.MiB}, "too small"},
		{"gpt backup eats the last MiB", LayoutSpec{Table: GPT, Size: 65 * util.MiB, BootEnd: 64 * util.MiB}, "too small"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLayout(tt.spec)
			assert.ErrorContains(t, err, tt.msg)
		})
	}
}
