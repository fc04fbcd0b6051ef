package cmd

import (
	"path/filepath"
	"strings"

	"github.com/cryptix-os/helix/types"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

// ImageCommandFlags consolidates the flags describing the disk image to create
type ImageCommandFlags struct {
	Input          string
	Output         string
	Size           string
	PartitionTable string
	BootSize       string
	Backend        string
	BootLabel      string
	RootLabel      string
}

// MergeToConfig overrides configuration passed by argument with command flags values
func (flags *ImageCommandFlags) MergeToConfig(c *types.Config) (err error) {
	if flags.Input != "" {
		c.Image.Input = flags.Input
	}
	if flags.Output != "" {
		c.Image.Output = flags.Output
	}
	if flags.Size != "" {
		c.Image.Size = flags.Size
	}
	if flags.PartitionTable != "" {
		c.Image.PartitionTable = flags.PartitionTable
	}
	if flags.BootSize != "" {
		c.Image.BootSize = flags.BootSize
	}
	if flags.Backend != "" {
		c.Image.Backend = flags.Backend
	}
	if flags.BootLabel != "" {
		c.Image.BootLabel = flags.BootLabel
	}
	if flags.RootLabel != "" {
		c.Image.RootLabel = flags.RootLabel
	}

	if c.Image.Input != "" {
		if c.Image.Input, err = filepath.Abs(c.Image.Input); err != nil {
			return errors.Wrap(err, "input path")
		}
	}
	if c.Image.Output != "" {
		if c.Image.Output, err = filepath.Abs(c.Image.Output); err != nil {
			return errors.Wrap(err, "output path")
		}
	}

	return
}

// NewImageCommandFlags returns an instance of ImageCommandFlags
func NewImageCommandFlags(cmdFlags *pflag.FlagSet) (flags *ImageCommandFlags) {
	flags = &ImageCommandFlags{}

	flags.Input, _ = cmdFlags.GetString("input")
	flags.Output, _ = cmdFlags.GetString("output")
	flags.Size, _ = cmdFlags.GetString("size")
	flags.PartitionTable, _ = cmdFlags.GetString("partition-table")
	flags.BootSize, _ = cmdFlags.GetString("boot-size")
	flags.Backend, _ = cmdFlags.GetString("backend")
	flags.BootLabel, _ = cmdFlags.GetString("boot-label")
	flags.RootLabel, _ = cmdFlags.GetString("root-label")

	flags.Input = strings.TrimSpace(flags.Input)
	flags.Output = strings.TrimSpace(flags.Output)

	return
}

// PersistImageCommandFlags append a command the flags describing an image
func PersistImageCommandFlags(cmdFlags *pflag.FlagSet) {
	cmdFlags.StringP("input", "i", "", "directory to copy into both partitions")
	cmdFlags.StringP("output", "o", "", "output image file path (default image.hdd)")
	cmdFlags.StringP("size", "s", "", "image size (e.g. 768MiB or 800000000)")
	cmdFlags.StringP("partition-table", "p", "", "partition table type, mbr or gpt (default mbr)")
	cmdFlags.String("boot-size", "", "end of the fat32 boot partition (default 1024MiB)")
	cmdFlags.String("backend", "", "image builder, loop (needs root) or diskfs (default loop)")
	cmdFlags.String("boot-label", "", "boot partition label (default HELIX_BOOT)")
	cmdFlags.String("root-label", "", "root partition label (default helix_root)")
}

// EchfsCommandFlags select the image and partition echfs files are imported into
type EchfsCommandFlags struct {
	Image     string
	Partition *int
}

// MergeToConfig overrides configuration passed by argument with command flags values
func (flags *EchfsCommandFlags) MergeToConfig(c *types.Config) (err error) {
	if flags.Image != "" {
		c.Image.Output = flags.Image
	}
	if flags.Partition != nil {
		c.Image.EchfsPartition = *flags.Partition
	}
	return
}

// NewEchfsCommandFlags returns an instance of EchfsCommandFlags
func NewEchfsCommandFlags(cmdFlags *pflag.FlagSet) (flags *EchfsCommandFlags) {
	flags = &EchfsCommandFlags{}

	flags.Image, _ = cmdFlags.GetString("image")
	if cmdFlags.Changed("partition") {
		p, _ := cmdFlags.GetInt("partition")
		flags.Partition = types.IntPtr(p)
	}

	return
}

// PersistEchfsCommandFlags append a command the echfs import flags
func PersistEchfsCommandFlags(cmdFlags *pflag.FlagSet) {
	cmdFlags.String("image", "", "disk image to import into (default image.hdd)")
	cmdFlags.IntP("partition", "p", 2, "echfs partition number")
}
