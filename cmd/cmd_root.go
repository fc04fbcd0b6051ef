package cmd

import (
	"os"

	"github.com/cryptix-os/helix/log"
	"github.com/cryptix-os/helix/types"
	"github.com/spf13/cobra"
)

// GetRootCommand provides set all commands for helix
func GetRootCommand() *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:           "helix",
		Short:         "build disk images and drive the kernel build",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			log.InitDefault(os.Stdout, config)
			debugStacks = config.RunConfig.ShowDebug
			return nil
		},
	}

	// persist flags transversal to every command
	PersistGlobalCommandFlags(rootCmd.PersistentFlags())
	PersistConfigCommandFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(ImageCommands())
	rootCmd.AddCommand(BuildCommand())
	rootCmd.AddCommand(BootCommand())
	rootCmd.AddCommand(VersionCommand())

	return rootCmd
}

// loadConfig builds the configuration for cmd from defaults, the config
// file, the global flags and then extra command flags, in that order
func loadConfig(cmd *cobra.Command, extra ...MergeConfigFlags) (*types.Config, error) {
	flags := cmd.Flags()
	c := types.NewConfig()

	container := NewMergeConfigContainer(append([]MergeConfigFlags{
		NewConfigCommandFlags(flags),
		NewGlobalCommandFlags(flags),
	}, extra...)...)

	if err := container.Merge(c); err != nil {
		return nil, err
	}
	return c, nil
}
