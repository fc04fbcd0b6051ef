package image

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cryptix-os/helix/shell"
	"github.com/cryptix-os/helix/shell/mocks"
	"github.com/cryptix-os/helix/testutils"
	"github.com/cryptix-os/helix/util"
	diskfs "github.com/diskfs/go-diskfs"
	"github.com/diskfs/go-diskfs/partition/gpt"
	"github.com/diskfs/go-diskfs/partition/mbr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func smallLayout(t *testing.T, table TableType) *Layout {
	t.Helper()
	l, err := NewLayout(LayoutSpec{Table: table, Size: 80 * util.MiB, BootEnd: 64 * util.MiB, BootLabel: "HELIX_BOOT", RootLabel: "helix_root"})
	require.NoError(t, err)
	return l
}

func readBack(t *testing.T, output string, path string) string {
	t.Helper()
	d, err := diskfs.Open(output)
	require.NoError(t, err)
	defer d.File.Close()

	fs, err := d.GetFilesystem(1)
	require.NoError(t, err)

	f, err := fs.OpenFile(path, os.O_RDONLY)
	require.NoError(t, err)
	b, err := io.ReadAll(f)
	require.NoError(t, err)
	return string(b)
}

func TestDiskfsBuilderMBR(t *testing.T) {
	ctx := context.Background()
	source := testutils.StageDirTree(t, testutils.RootTree)
	output := filepath.Join(t.TempDir(), "image.hdd")

	ctrl := gomock.NewController(t)
	runner := mocks.NewMockRunner(ctrl)
	runner.EXPECT().Run(ctx, testutils.Argv("mke2fs", "-F", "-q", "-t", "ext2", "-L", "helix_root",
		"-d", source, "-E", "offset=67108864", output, "16384k")).Return(testutils.OK(""), nil)

	err := NewDiskfsBuilder(runner, nil).Build(ctx, smallLayout(t, MBR), source, output)
	require.NoError(t, err)

	info, err := os.Stat(output)
	require.NoError(t, err)
	assert.Equal(t, int64(80*util.MiB), info.Size())

	d, err := diskfs.Open(output)
	require.NoError(t, err)
	table, err := d.GetPartitionTable()
	require.NoError(t, err)
	d.File.Close()

	mt, ok := table.(*mbr.Table)
	require.True(t, ok)
	require.Len(t, mt.Partitions, 2)
	assert.Equal(t, uint32(2048), mt.Partitions[0].Start)
	assert.Equal(t, mbr.Fat32LBA, mt.Partitions[0].Type)
	assert.True(t, mt.Partitions[0].Bootable)
	assert.Equal(t, uint32(131072), mt.Partitions[1].Start)
	assert.Equal(t, mbr.Linux, mt.Partitions[1].Type)

	assert.Equal(t, testutils.RootTree["etc/motd"], readBack(t, output, "/etc/motd"))
	assert.Equal(t, testutils.RootTree["boot/limine.conf"], readBack(t, output, "/boot/limine.conf"))
}

func TestDiskfsBuilderGPT(t *testing.T) {
	ctx := context.Background()
	source := testutils.StageDirTree(t, testutils.RootTree)
	output := filepath.Join(t.TempDir(), "image.hdd")

	ctrl := gomock.NewController(t)
	runner := mocks.NewMockRunner(ctrl)
	runner.EXPECT().Run(ctx, testutils.ArgvPrefix("mke2fs")).DoAndReturn(func(_ context.Context, c shell.Command) (*shell.Result, error) {
		assert.Equal(t, "16367k", c.Args[len(c.Args)-1])
		return testutils.OK(""), nil
	})

	layout := smallLayout(t, GPT)
	err := NewDiskfsBuilder(runner, nil).Build(ctx, layout, source, output)
	require.NoError(t, err)

	d, err := diskfs.Open(output)
	require.NoError(t, err)
	table, err := d.GetPartitionTable()
	require.NoError(t, err)

	gt, ok := table.(*gpt.Table)
	require.True(t, ok)
	require.GreaterOrEqual(t, len(gt.Partitions), 2)
	assert.Equal(t, gpt.EFISystemPartition, gt.Partitions[0].Type)
	assert.Equal(t, uint64(2048), gt.Partitions[0].Start)
	assert.True(t, strings.EqualFold(PartitionGUID(layout.Partitions[0]), gt.Partitions[0].GUID))
	assert.Equal(t, gpt.LinuxFilesystem, gt.Partitions[1].Type)

	fs, err := d.GetFilesystem(1)
	require.NoError(t, err)
	entries, err := fs.ReadDir("/")
	require.NoError(t, err)
	d.File.Close()

	var names []string
	for _, e := range entries {
		names = append(names, strings.ToLower(e.Name()))
	}
	assert.Subset(t, names, []string{"boot", "efi", "etc", "usr"})
}

func TestDiskfsBuilderMke2fsFailure(t *testing.T) {
	ctx := context.Background()
	source := testutils.StageDirTree(t, testutils.RootTree)
	output := filepath.Join(t.TempDir(), "image.hdd")

	ctrl := gomock.NewController(t)
	runner := mocks.NewMockRunner(ctrl)
	runner.EXPECT().Run(ctx, testutils.ArgvPrefix("mke2fs")).Return(&shell.Result{Code: 1}, &shell.Error{Cmd: []string{"mke2fs"}, Code: 1})

	err := NewDiskfsBuilder(runner, nil).Build(ctx, smallLayout(t, MBR), source, output)
	require.Error(t, err)
	assert.Equal(t, 1, shell.ExitCode(err))
	assert.Contains(t, err.Error(), "populate partition 2")
}

func TestPartitionGUIDIsStable(t *testing.T) {
	p := Partition{Number: 1, Label: "HELIX_BOOT"}
	assert.Equal(t, PartitionGUID(p), PartitionGUID(p))
	assert.NotEqual(t, PartitionGUID(p), PartitionGUID(Partition{Number: 2, Label: "HELIX_BOOT"}))
}

func TestCheckSource(t *testing.T) {
	fs := testutils.StageMemTree(t, "/srv/root", testutils.RootTree)

	assert.NoError(t, CheckSource(fs, "/srv/root"))
	assert.ErrorContains(t, CheckSource(fs, "/srv/root/etc/motd"), "not a directory")
	assert.ErrorContains(t, CheckSource(fs, "/missing"), "not a directory")
}

func TestParseBackend(t *testing.T) {
	b, err := ParseBackend("DiskFS")
	require.NoError(t, err)
	assert.Equal(t, BackendDiskfs, b)
	assert.False(t, b.NeedsRoot())
	assert.True(t, BackendLoop.NeedsRoot())

	_, err = ParseBackend("guestfs")
	assert.Error(t, err)
}
