package image

import (
	"fmt"
	"math"
	"strings"

	"github.com/cryptix-os/helix/util"
	"github.com/pkg/errors"
)

// SectorSize is the logical sector size of every image helix writes
const SectorSize = 512

const (
	firstSector = 2048

	// backup GPT header plus 32 sectors of partition entries
	gptBackupSectors = 33

	minRootSize = util.MiB
)

// TableType is the partition table format
type TableType string

// Partition table formats
const (
	MBR TableType = "mbr"
	GPT TableType = "gpt"
)

// ParseTableType accepts mbr or gpt in any case
func ParseTableType(s string) (TableType, error) {
	switch t := TableType(strings.ToLower(strings.TrimSpace(s))); t {
	case MBR, GPT:
		return t, nil
	}
	return "", fmt.Errorf("invalid partition table type %q, use mbr or gpt", s)
}

// PartedLabel is the label name parted expects for mklabel
func (t TableType) PartedLabel() string {
	if t == MBR {
		return "msdos"
	}
	return "gpt"
}

// Filesystem formats a partition can carry
type Filesystem string

// Supported filesystems
const (
	FAT32 Filesystem = "fat32"
	Ext2  Filesystem = "ext2"
)

// MkfsArgv returns the mkfs invocation formatting device
func (f Filesystem) MkfsArgv(device, label string) []string {
	switch f {
	case FAT32:
		argv := []string{"mkfs.vfat", "-F32"}
		if label != "" {
			argv = append(argv, "-n", label)
		}
		return append(argv, device)
	default:
		argv := []string{"mkfs." + string(f)}
		if label != "" {
			argv = append(argv, "-L", label)
		}
		return append(argv, device)
	}
}

// Partition is one entry of a Layout, in sectors
type Partition struct {
	Number     int
	Filesystem Filesystem
	Label      string
	Bootable   bool

	// Start is the first sector, End the last one (inclusive)
	Start uint64
	End   uint64
}

// Sectors is the partition length in sectors
func (p Partition) Sectors() uint64 {
	return p.End - p.Start + 1
}

// Offset is the byte offset of the partition in the image
func (p Partition) Offset() uint64 {
	return p.Start * SectorSize
}

// Size is the partition length in bytes
func (p Partition) Size() uint64 {
	return p.Sectors() * SectorSize
}

// LayoutSpec is what a Layout is computed from
type LayoutSpec struct {
	Table TableType

	// Size of the image in bytes, truncated to whole MiB
	Size uint64

	// BootEnd is where the FAT32 boot partition stops and the ext2 root
	// partition starts, in bytes
	BootEnd uint64

	BootLabel string
	RootLabel string
}

// Layout is the partition layout of a two-partition image
type Layout struct {
	Table      TableType
	Size       uint64
	Partitions []Partition
}

// NewLayout computes the boot and root partitions for spec
func NewLayout(spec LayoutSpec) (*Layout, error) {
	if spec.Table != MBR && spec.Table != GPT {
		return nil, fmt.Errorf("invalid partition table type %q", spec.Table)
	}

	size := spec.Size / util.MiB * util.MiB
	if size == 0 {
		return nil, errors.New("image size must be at least 1 MiB")
	}
	if spec.BootEnd%util.MiB != 0 || spec.BootEnd <= firstSector*SectorSize {
		return nil, fmt.Errorf("boot partition end %d must be a whole number of MiB above 1 MiB", spec.BootEnd)
	}

	total := size / SectorSize
	last := total - 1
	if spec.Table == GPT {
		last = total - 1 - gptBackupSectors
	}
	if spec.Table == MBR && total > math.MaxUint32 {
		return nil, fmt.Errorf("image size %s exceeds the MBR limit, use gpt", util.FormatSize(size))
	}

	rootStart := spec.BootEnd / SectorSize
	if last < rootStart || (last-rootStart+1)*SectorSize < minRootSize {
		return nil, fmt.Errorf("image size %s is too small for a boot partition ending at %s",
			util.FormatSize(size), util.FormatSize(spec.BootEnd))
	}

	return &Layout{
		Table: spec.Table,
		Size:  size,
		Partitions: []Partition{
			{
				Number:     1,
				Filesystem: FAT32,
				Label:      spec.BootLabel,
				Bootable:   true,
				Start:      firstSector,
				End:        rootStart - 1,
			},
			{
				Number:     2,
				Filesystem: Ext2,
				Label:      spec.RootLabel,
				Start:      rootStart,
				End:        last,
			},
		},
	}, nil
}

// SizeMiB is the image size in MiB, the dd block count
func (l *Layout) SizeMiB() uint64 {
	return l.Size / util.MiB
}
