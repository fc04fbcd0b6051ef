package image

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cryptix-os/helix/log"
	"github.com/cryptix-os/helix/shell"
	"github.com/cryptix-os/helix/util"
	diskfs "github.com/diskfs/go-diskfs"
	"github.com/diskfs/go-diskfs/disk"
	"github.com/diskfs/go-diskfs/filesystem"
	"github.com/diskfs/go-diskfs/partition"
	"github.com/diskfs/go-diskfs/partition/gpt"
	"github.com/diskfs/go-diskfs/partition/mbr"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/afero"
)

// DiskfsBuilder builds images in-process through a go-diskfs handle, with
// mke2fs populating the ext2 partition at its byte offset. It needs no root.
type DiskfsBuilder struct {
	runner   shell.Runner
	progress util.Progress

	// Fs is where the source tree is read from
	Fs afero.Fs

	// ProgressOutput receives the copy progress bar, nil disables it
	ProgressOutput io.Writer
}

// NewDiskfsBuilder returns a DiskfsBuilder reading the source tree from disk
func NewDiskfsBuilder(runner shell.Runner, progress util.Progress) *DiskfsBuilder {
	if progress == nil {
		progress = util.NoProgress{}
	}
	return &DiskfsBuilder{runner: runner, progress: progress, Fs: afero.NewOsFs()}
}

// Build implements Builder
func (b *DiskfsBuilder) Build(ctx context.Context, layout *Layout, source, output string) error {
	log.Trace("creating image `%s` with size: `%dMiB`", output, layout.SizeMiB())
	if err := os.Remove(output); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "remove existing image %s", output)
	}

	d, err := diskfs.Create(output, int64(layout.Size), diskfs.Raw, diskfs.SectorSizeDefault)
	if err != nil {
		return errors.Wrapf(err, "create image %s", output)
	}

	log.Trace("Creating partition table")
	if err := d.Partition(PartitionTable(layout)); err != nil {
		d.File.Close()
		return errors.Wrap(err, "create partition table")
	}

	for _, p := range layout.Partitions {
		if p.Filesystem != FAT32 {
			continue
		}
		log.Trace("Formatting partition %d as %s", p.Number, p.Filesystem)
		fs, err := d.CreateFilesystem(disk.FilesystemSpec{Partition: p.Number, FSType: filesystem.TypeFat32, VolumeLabel: p.Label})
		if err != nil {
			d.File.Close()
			return errors.Wrapf(err, "format partition %d", p.Number)
		}
		if err := b.copyTree(fs, source, p.Number); err != nil {
			d.File.Close()
			return err
		}
	}

	if err := d.File.Close(); err != nil {
		return errors.Wrapf(err, "close image %s", output)
	}

	for _, p := range layout.Partitions {
		if p.Filesystem == FAT32 {
			continue
		}
		if err := b.populate(ctx, p, source, output); err != nil {
			return err
		}
	}
	return nil
}

// populate formats p inside the image file and fills it with source
func (b *DiskfsBuilder) populate(ctx context.Context, p Partition, source, output string) error {
	log.Trace("Formatting partition %d as %s", p.Number, p.Filesystem)
	argv := []string{"-F", "-q", "-t", string(p.Filesystem)}
	if p.Label != "" {
		argv = append(argv, "-L", p.Label)
	}
	argv = append(argv,
		"-d", source,
		"-E", fmt.Sprintf("offset=%d", p.Offset()),
		output,
		fmt.Sprintf("%dk", p.Size()/util.KiB),
	)

	err := b.progress.Do(func() error {
		_, err := b.runner.Run(ctx, shell.Cmd("mke2fs", argv...))
		return err
	}, "Populating partition ", p.Number)
	return errors.Wrapf(err, "populate partition %d", p.Number)
}

// copyTree copies the contents of source to the root of fs
func (b *DiskfsBuilder) copyTree(fs filesystem.FileSystem, source string, n int) error {
	var total int64
	err := afero.Walk(b.Fs, source, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode().IsRegular() {
			total += info.Size()
		}
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "walk %s", source)
	}

	var bar io.Writer = io.Discard
	if b.ProgressOutput != nil {
		pb := progressbar.NewOptions64(total,
			progressbar.OptionSetWriter(b.ProgressOutput),
			progressbar.OptionSetDescription(fmt.Sprintf("copying to partition %d", n)),
			progressbar.OptionShowBytes(true),
			progressbar.OptionClearOnFinish(),
		)
		defer pb.Finish()
		bar = pb
	}

	log.Trace("Copying %s to partition %d", source, n)
	return afero.Walk(b.Fs, source, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(source, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		dest := "/" + filepath.ToSlash(rel)

		switch {
		case info.IsDir():
			if err := fs.Mkdir(dest); err != nil {
				return errors.Wrapf(err, "mkdir %s on partition %d", dest, n)
			}
		case info.Mode().IsRegular():
			if err := b.copyFile(fs, path, dest, bar); err != nil {
				return errors.Wrapf(err, "copy %s to partition %d", rel, n)
			}
		default:
			log.Warn("skipping %s, not a regular file", path)
		}
		return nil
	})
}

func (b *DiskfsBuilder) copyFile(fs filesystem.FileSystem, src, dest string, bar io.Writer) error {
	in, err := b.Fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := fs.OpenFile(dest, os.O_CREATE|os.O_RDWR)
	if err != nil {
		return err
	}
	if _, err := io.Copy(io.MultiWriter(out, bar), in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// PartitionTable converts layout to a go-diskfs partition table
func PartitionTable(layout *Layout) partition.Table {
	if layout.Table == GPT {
		parts := make([]*gpt.Partition, 0, len(layout.Partitions))
		for _, p := range layout.Partitions {
			typ := gpt.LinuxFilesystem
			if p.Bootable {
				typ = gpt.EFISystemPartition
			}
			parts = append(parts, &gpt.Partition{
				Start: p.Start,
				End:   p.End,
				Size:  p.Size(),
				Type:  typ,
				Name:  p.Label,
				GUID:  PartitionGUID(p),
			})
		}
		return &gpt.Table{
			ProtectiveMBR:      true,
			LogicalSectorSize:  SectorSize,
			PhysicalSectorSize: SectorSize,
			Partitions:         parts,
		}
	}

	parts := make([]*mbr.Partition, 0, len(layout.Partitions))
	for _, p := range layout.Partitions {
		typ := mbr.Linux
		if p.Filesystem == FAT32 {
			typ = mbr.Fat32LBA
		}
		parts = append(parts, &mbr.Partition{
			Bootable: p.Bootable,
			Type:     typ,
			Start:    uint32(p.Start),
			Size:     uint32(p.Sectors()),
		})
	}
	return &mbr.Table{
		LogicalSectorSize:  SectorSize,
		PhysicalSectorSize: SectorSize,
		Partitions:         parts,
	}
}

// PartitionGUID is a stable GUID derived from the partition label and number
func PartitionGUID(p Partition) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("helix:%d:%s", p.Number, p.Label))).String()
}
