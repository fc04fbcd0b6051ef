package cmd

import (
	"os"

	"github.com/cryptix-os/helix/qemu"
	"github.com/cryptix-os/helix/shell"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// BootCommand provides the direct image boot command
func BootCommand() *cobra.Command {
	var cmdBoot = &cobra.Command{
		Use:   "boot [image]",
		Short: "boot a disk image under qemu",
		Long: "Boots a disk image under qemu-system-<target-arch> with the serial console on\n" +
			"the terminal. The image defaults to the configured image output.",
		Args: cobra.MaximumNArgs(1),
		Run:  bootCommandHandler,
	}

	PersistBootCommandFlags(cmdBoot.Flags())
	return cmdBoot
}

func bootCommandHandler(cmd *cobra.Command, args []string) {
	c, err := loadConfig(cmd, NewBootCommandFlags(cmd.Flags()))
	if err != nil {
		exitWithError(err)
	}

	img := c.Image.Output
	if len(args) > 0 {
		img = args[0]
	}
	if info, err := os.Stat(img); err != nil || info.IsDir() {
		exitWithError(errors.Errorf("disk image %s does not exist", img))
	}

	if err := qemu.New(qemu.NewConfig(c, img)).Boot(cmd.Context(), shell.NewExecutor()); err != nil {
		exitWithError(err)
	}
}
