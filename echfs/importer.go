// Package echfs copies a directory tree into an echfs partition of a disk
// image with echfs-utils.
package echfs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cryptix-os/helix/log"
	"github.com/cryptix-os/helix/shell"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// Importer mirrors a source tree into one partition of Image
type Importer struct {
	Runner    shell.Runner
	Fs        afero.Fs
	Image     string
	Partition int
}

// NewImporter returns an Importer for partition of image reading from disk
func NewImporter(runner shell.Runner, image string, partition int) *Importer {
	return &Importer{Runner: runner, Fs: afero.NewOsFs(), Image: image, Partition: partition}
}

// Import creates every directory below root and imports every file, in walk
// order so parents exist before their children
func (im *Importer) Import(ctx context.Context, root string) error {
	if im.Partition < 1 {
		return fmt.Errorf("invalid partition %d", im.Partition)
	}
	ok, err := afero.DirExists(im.Fs, root)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s does not exist", root)
	}

	return afero.Walk(im.Fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		switch {
		case info.IsDir():
			if _, err := im.Runner.Run(ctx, im.cmd("mkdir", rel)); err != nil {
				return errors.Wrapf(err, "create directory %s", rel)
			}
			log.Info("Created directory: %s", rel)
		case info.Mode().IsRegular():
			if _, err := im.Runner.Run(ctx, im.cmd("import", path, rel)); err != nil {
				return errors.Wrapf(err, "import %s", rel)
			}
			log.Info("Imported file: %s", rel)
		default:
			log.Warn("skipping %s, not a regular file", path)
		}
		return nil
	})
}

func (im *Importer) cmd(args ...string) shell.Command {
	return shell.Cmd("echfs-utils", append([]string{"-m", fmt.Sprintf("-p%d", im.Partition), im.Image}, args...)...)
}
