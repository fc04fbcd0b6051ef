package cmd

import (
	"github.com/cryptix-os/helix/types"

	"github.com/spf13/pflag"
)

// GlobalCommandFlags are flags accepted by every command. Warnings and
// errors are nil unless set on the command line so a config file can turn
// them off.
type GlobalCommandFlags struct {
	ShowWarnings *bool
	ShowErrors   *bool
	ShowDebug    bool
	Quiet        bool
}

// MergeToConfig append command flags that are used transversally for all commands to configuration
func (flags *GlobalCommandFlags) MergeToConfig(config *types.Config) (err error) {
	if flags.ShowWarnings != nil {
		config.RunConfig.ShowWarnings = *flags.ShowWarnings
	}
	if flags.ShowErrors != nil {
		config.RunConfig.ShowErrors = *flags.ShowErrors
	}
	if flags.ShowDebug {
		config.RunConfig.ShowDebug = true
	}
	if flags.Quiet {
		config.RunConfig.Quiet = true
	}

	return
}

// NewGlobalCommandFlags returns an instance of GlobalCommandFlags
func NewGlobalCommandFlags(cmdFlags *pflag.FlagSet) (flags *GlobalCommandFlags) {
	flags = &GlobalCommandFlags{}

	if cmdFlags.Changed("show-warnings") {
		v, _ := cmdFlags.GetBool("show-warnings")
		flags.ShowWarnings = types.BoolPtr(v)
	}
	if cmdFlags.Changed("show-errors") {
		v, _ := cmdFlags.GetBool("show-errors")
		flags.ShowErrors = types.BoolPtr(v)
	}
	flags.ShowDebug, _ = cmdFlags.GetBool("show-debug")
	flags.Quiet, _ = cmdFlags.GetBool("quiet")

	return flags
}

// PersistGlobalCommandFlags append the global flags to a command
func PersistGlobalCommandFlags(cmdFlags *pflag.FlagSet) {
	cmdFlags.Bool("show-warnings", true, "display warning messages")
	cmdFlags.Bool("show-errors", true, "display error messages")
	cmdFlags.Bool("show-debug", false, "display debug messages and every command run")
	cmdFlags.BoolP("quiet", "q", false, "hide info messages")
}
