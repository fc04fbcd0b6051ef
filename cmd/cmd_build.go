package cmd

import (
	"os"
	"strings"

	"github.com/cryptix-os/helix/meson"
	"github.com/cryptix-os/helix/shell"
	"github.com/cryptix-os/helix/util"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// BuildCommand provides the meson build driver command
func BuildCommand() *cobra.Command {
	var cmdBuild = &cobra.Command{
		Use:   "build [action]",
		Short: "configure, compile and run the kernel with meson",
		Long: "Actions:\n" +
			"  setup, s      regenerate the build directory\n" +
			"  build, b      compile (default)\n" +
			"  rebuild, rb   setup then build, after confirmation\n" +
			"  run, r        compile and boot with uefi firmware\n" +
			"  run-bios      compile and boot with bios firmware\n" +
			"  run-uefi      compile and boot with uefi firmware",
		ValidArgs: meson.ValidActions,
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		Run:       buildCommandHandler,
	}

	PersistBuildCommandFlags(cmdBuild.Flags())
	return cmdBuild
}

func buildCommandHandler(cmd *cobra.Command, args []string) {
	c, err := loadConfig(cmd, NewBuildCommandFlags(cmd.Flags()))
	if err != nil {
		exitWithError(err)
	}

	name := string(meson.ActionBuild)
	if len(args) > 0 {
		name = args[0]
	}
	action, err := meson.ParseAction(name)
	if err != nil {
		exitWithError(err)
	}

	opts, err := meson.OptionsFromConfig(c.Build)
	if err != nil {
		exitWithError(err)
	}

	driver := meson.NewDriver(shell.NewExecutor(), afero.NewOsFs(), newProgress(c.RunConfig.ShowDebug), *opts)
	if err := driver.Do(cmd.Context(), action, confirmFunc(c.Build.AssumeYes)); err != nil {
		exitWithError(err)
	}
}

// confirmFunc asks on the terminal unless assumeYes is set
func confirmFunc(assumeYes bool) func(string) (bool, error) {
	return func(message string) (bool, error) {
		if assumeYes {
			return true, nil
		}
		if !util.IsTerminal(os.Stdin) {
			return false, errors.Errorf("%s: stdin is not a terminal, pass --yes", strings.SplitN(message, "\n", 2)[0])
		}
		return util.Confirm(os.Stdin, os.Stdout, message)
	}
}
