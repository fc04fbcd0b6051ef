package image

import (
	"context"
	"fmt"

	"github.com/cryptix-os/helix/log"
	"github.com/cryptix-os/helix/shell"
	"github.com/cryptix-os/helix/util"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// LoopImage is a raw image file driven through parted and a loop device
type LoopImage struct {
	runner   shell.Runner
	progress util.Progress
	fs       afero.Fs

	Path string

	// Loop is the attached loop device, empty until SetupLoop
	Loop string
}

// CreateLoopImage writes size MiB of zeroes to path
func CreateLoopImage(ctx context.Context, runner shell.Runner, progress util.Progress, path string, sizeMiB uint64) (*LoopImage, error) {
	log.Trace("creating image `%s` with size: `%dMiB`", path, sizeMiB)

	err := progress.Do(func() error {
		_, err := runner.Run(ctx, shell.Cmd("dd", "if=/dev/zero", "of="+path, "bs=1M", fmt.Sprintf("count=%d", sizeMiB)))
		return err
	}, "Writing ", path)
	if err != nil {
		return nil, errors.Wrapf(err, "create image %s", path)
	}

	return &LoopImage{runner: runner, progress: progress, fs: afero.NewOsFs(), Path: path}, nil
}

// CreatePartitionTable writes an empty table of type t
func (im *LoopImage) CreatePartitionTable(ctx context.Context, t TableType) error {
	log.Trace("Creating partition table")
	_, err := im.runner.Run(ctx, shell.Cmd("parted", "-s", im.Path, "mklabel", t.PartedLabel()))
	return errors.Wrap(err, "create partition table")
}

// Mkpart adds p to the partition table
func (im *LoopImage) Mkpart(ctx context.Context, t TableType, p Partition) error {
	log.Trace("Creating partition %d", p.Number)
	_, err := im.runner.Run(ctx, shell.Cmd("parted", "-s", im.Path, "mkpart", "primary", string(p.Filesystem),
		fmt.Sprintf("%ds", p.Start), fmt.Sprintf("%ds", p.End)))
	if err != nil {
		return errors.Wrapf(err, "create partition %d", p.Number)
	}

	if !p.Bootable {
		return nil
	}
	flag := "boot"
	if t == GPT {
		flag = "esp"
	}
	_, err = im.runner.Run(ctx, shell.Cmd("parted", "-s", im.Path, "set", fmt.Sprint(p.Number), flag, "on"))
	return errors.Wrapf(err, "flag partition %d", p.Number)
}

// SetupLoop attaches the image to a free loop device with partition scanning
func (im *LoopImage) SetupLoop(ctx context.Context) error {
	if im.Loop != "" {
		return nil
	}
	log.Trace("Setting up loop device")
	res, err := im.runner.Run(ctx, shell.Cmd("losetup", "-fP", "--show", im.Path))
	if err != nil {
		return errors.Wrap(err, "attach loop device")
	}
	if res.Stdout == "" {
		return errors.New("losetup did not report a loop device")
	}
	im.Loop = res.Stdout
	log.Trace("Attached %s to %s", im.Path, im.Loop)
	return nil
}

// PartitionDevice is the block device node of partition n
func (im *LoopImage) PartitionDevice(n int) string {
	return fmt.Sprintf("%sp%d", im.Loop, n)
}

// Mkfs formats p, attaching the loop device first if needed
func (im *LoopImage) Mkfs(ctx context.Context, p Partition) error {
	if err := im.SetupLoop(ctx); err != nil {
		return err
	}

	dev := im.PartitionDevice(p.Number)
	argv := p.Filesystem.MkfsArgv(dev, p.Label)
	log.Trace("Formatting %s as %s", dev, p.Filesystem)
	err := im.progress.Do(func() error {
		_, err := im.runner.Run(ctx, shell.Cmd(argv[0], argv[1:]...))
		return err
	}, "Formatting ", dev)
	return errors.Wrapf(err, "format partition %d", p.Number)
}

// CopyToPartition mounts partition n and copies the contents of source into it
func (im *LoopImage) CopyToPartition(ctx context.Context, n int, source string) (err error) {
	if err := im.SetupLoop(ctx); err != nil {
		return err
	}

	dir, err := afero.TempDir(im.fs, "", "helix-mnt-")
	if err != nil {
		return errors.Wrap(err, "create mount point")
	}
	defer func() {
		if rerr := im.fs.RemoveAll(dir); rerr != nil && err == nil {
			err = errors.Wrap(rerr, "remove mount point")
		}
	}()

	dev := im.PartitionDevice(n)
	log.Trace("Mounting %s at %s", dev, dir)
	if _, err := im.runner.Run(ctx, shell.Cmd("mount", dev, dir)); err != nil {
		return errors.Wrapf(err, "mount partition %d", n)
	}
	defer func() {
		if _, uerr := im.runner.Run(ctx, shell.Cmd("umount", dir)); uerr != nil && err == nil {
			err = errors.Wrapf(uerr, "unmount partition %d", n)
		}
	}()

	log.Trace("Copying %s to partition %d", source, n)
	_, err = im.runner.Run(ctx, shell.Cmd("cp", "-r", source+"/.", dir+"/"))
	return errors.Wrapf(err, "copy files to partition %d", n)
}

// Sync flushes pending writes to the image
func (im *LoopImage) Sync(ctx context.Context) error {
	log.Trace("Syncing disk...")
	return im.progress.Do(func() error {
		_, err := im.runner.Run(ctx, shell.Cmd("sync"))
		return errors.Wrap(err, "sync")
	}, "Syncing disk")
}

// Close detaches the loop device if one is attached
func (im *LoopImage) Close(ctx context.Context) error {
	if im.Loop == "" {
		return nil
	}
	log.Trace("Detaching %s", im.Loop)
	if _, err := im.runner.Run(ctx, shell.Cmd("losetup", "-d", im.Loop)); err != nil {
		return errors.Wrapf(err, "detach %s", im.Loop)
	}
	im.Loop = ""
	return nil
}

// LoopBuilder builds images with dd, parted, losetup, mkfs and mount. It
// needs root.
type LoopBuilder struct {
	runner   shell.Runner
	progress util.Progress
}

// NewLoopBuilder returns a LoopBuilder running its commands through runner
func NewLoopBuilder(runner shell.Runner, progress util.Progress) *LoopBuilder {
	if progress == nil {
		progress = util.NoProgress{}
	}
	return &LoopBuilder{runner: runner, progress: progress}
}

// Build implements Builder
func (b *LoopBuilder) Build(ctx context.Context, layout *Layout, source, output string) (err error) {
	im, err := CreateLoopImage(ctx, b.runner, b.progress, output, layout.SizeMiB())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := im.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := im.CreatePartitionTable(ctx, layout.Table); err != nil {
		return err
	}
	for _, p := range layout.Partitions {
		if err := im.Mkpart(ctx, layout.Table, p); err != nil {
			return err
		}
	}

	for _, p := range layout.Partitions {
		if err := im.Mkfs(ctx, p); err != nil {
			return err
		}
		if err := im.CopyToPartition(ctx, p.Number, source); err != nil {
			return err
		}
	}

	return im.Sync(ctx)
}
