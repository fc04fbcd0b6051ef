package cmd

import (
	"os"

	"github.com/cryptix-os/helix/echfs"
	"github.com/cryptix-os/helix/elevate"
	"github.com/cryptix-os/helix/image"
	"github.com/cryptix-os/helix/log"
	"github.com/cryptix-os/helix/shell"
	"github.com/cryptix-os/helix/types"
	"github.com/cryptix-os/helix/util"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// ImageCommands provides image related commands
func ImageCommands() *cobra.Command {
	var cmdImage = &cobra.Command{
		Use:       "image",
		Short:     "create and fill bootable disk images",
		ValidArgs: []string{"create", "layout", "import"},
		Args:      cobra.OnlyValidArgs,
	}

	cmdImage.AddCommand(imageCreateCommand())
	cmdImage.AddCommand(imageLayoutCommand())
	cmdImage.AddCommand(imageImportCommand())
	return cmdImage
}

func imageCreateCommand() *cobra.Command {
	var cmdImageCreate = &cobra.Command{
		Use:   "create",
		Short: "create an mbr/gpt partitioned disk image from a root tree",
		Long: "Creates a raw disk image with a fat32 boot partition and an ext2 root partition\n" +
			"and copies the contents of the input directory into both.",
		Args: cobra.NoArgs,
		Run:  imageCreateCommandHandler,
	}

	PersistImageCommandFlags(cmdImageCreate.Flags())
	return cmdImageCreate
}

func imageCreateCommandHandler(cmd *cobra.Command, args []string) {
	c, err := loadConfig(cmd, NewImageCommandFlags(cmd.Flags()))
	if err != nil {
		exitWithError(err)
	}

	backend, err := image.ParseBackend(c.Image.Backend)
	if err != nil {
		exitWithError(err)
	}
	layout, err := imageLayout(&c.Image)
	if err != nil {
		exitWithError(err)
	}
	if c.Image.Input == "" {
		exitWithError(errors.New("an input directory is required, pass --input"))
	}
	if err := image.CheckSource(afero.NewOsFs(), c.Image.Input); err != nil {
		exitWithError(err)
	}

	if backend.NeedsRoot() {
		self, err := os.Executable()
		panicOnError(err)
		conf, err := NewConfigCommandFlags(cmd.Flags()).ConfigFile()
		if err != nil {
			exitWithError(err)
		}
		if err := elevate.New().Elevate(self, elevatedArgs(os.Args[1:], conf)); err != nil {
			exitWithError(err)
		}
	}

	progress := newProgress(c.RunConfig.ShowDebug)
	builder, err := image.NewBuilder(backend, shell.NewExecutor(), progress)
	if err != nil {
		exitWithError(err)
	}
	if db, ok := builder.(*image.DiskfsBuilder); ok && !c.RunConfig.ShowDebug && util.IsTerminal(os.Stderr) {
		db.ProgressOutput = os.Stderr
	}

	if err := builder.Build(cmd.Context(), layout, c.Image.Input, c.Image.Output); err != nil {
		exitWithError(err)
	}
	if err := elevate.RestoreOwner(c.Image.Output); err != nil {
		log.Warn("%v", err)
	}

	if !c.RunConfig.Quiet {
		image.PrintLayout(os.Stdout, layout)
	}
	log.Info("Done.")
}

// elevatedArgs pins the config file resolved for this process on the
// arguments of the sudo'ed copy
func elevatedArgs(args []string, configFile string) []string {
	if configFile == "" {
		return args
	}
	return append(append([]string{}, args...), "--config", configFile)
}

// imageLayout computes the partition layout from the image configuration
func imageLayout(c *types.ImageConfig) (*image.Layout, error) {
	table, err := image.ParseTableType(c.PartitionTable)
	if err != nil {
		return nil, err
	}
	if c.Size == "" {
		return nil, errors.New("an image size is required, pass --size")
	}
	size, err := util.ParseSize(c.Size)
	if err != nil {
		return nil, errors.Wrap(err, "image size")
	}
	bootEnd, err := util.ParseSize(c.BootSize)
	if err != nil {
		return nil, errors.Wrap(err, "boot size")
	}

	return image.NewLayout(image.LayoutSpec{
		Table:     table,
		Size:      size,
		BootEnd:   bootEnd,
		BootLabel: c.BootLabel,
		RootLabel: c.RootLabel,
	})
}

func imageLayoutCommand() *cobra.Command {
	var cmdImageLayout = &cobra.Command{
		Use:   "layout",
		Short: "print the partition layout an image create would write",
		Args:  cobra.NoArgs,
		Run:   imageLayoutCommandHandler,
	}

	PersistImageCommandFlags(cmdImageLayout.Flags())
	return cmdImageLayout
}

func imageLayoutCommandHandler(cmd *cobra.Command, args []string) {
	c, err := loadConfig(cmd, NewImageCommandFlags(cmd.Flags()))
	if err != nil {
		exitWithError(err)
	}

	layout, err := imageLayout(&c.Image)
	if err != nil {
		exitWithError(err)
	}
	image.PrintLayout(cmd.OutOrStdout(), layout)
}

func imageImportCommand() *cobra.Command {
	var cmdImageImport = &cobra.Command{
		Use:   "import <directory>",
		Short: "import a directory tree into an echfs partition with echfs-utils",
		Args:  cobra.ExactArgs(1),
		Run:   imageImportCommandHandler,
	}

	PersistEchfsCommandFlags(cmdImageImport.Flags())
	return cmdImageImport
}

func imageImportCommandHandler(cmd *cobra.Command, args []string) {
	c, err := loadConfig(cmd, NewEchfsCommandFlags(cmd.Flags()))
	if err != nil {
		exitWithError(err)
	}

	importer := echfs.NewImporter(shell.NewExecutor(), c.Image.Output, c.Image.EchfsPartition)
	if err := importer.Import(cmd.Context(), args[0]); err != nil {
		exitWithError(err)
	}
}
