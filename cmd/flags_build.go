package cmd

import (
	"github.com/cryptix-os/helix/types"
	"github.com/spf13/pflag"
)

// BuildCommandFlags select the meson build tree
type BuildCommandFlags struct {
	TargetArch    string
	Compiler      string
	BuildType     string
	BuildDir      string
	CrossFilesDir string
	Jobs          *int
	AssumeYes     bool
}

// MergeToConfig overrides configuration passed by argument with command flags values
func (flags *BuildCommandFlags) MergeToConfig(c *types.Config) (err error) {
	if flags.TargetArch != "" {
		c.Build.TargetArch = flags.TargetArch
	}
	if flags.Compiler != "" {
		c.Build.Compiler = flags.Compiler
	}
	if flags.BuildType != "" {
		c.Build.BuildType = flags.BuildType
	}
	if flags.BuildDir != "" {
		c.Build.BuildDir = flags.BuildDir
	}
	if flags.CrossFilesDir != "" {
		c.Build.CrossFilesDir = flags.CrossFilesDir
	}
	if flags.Jobs != nil {
		c.Build.Jobs = *flags.Jobs
	}
	if flags.AssumeYes {
		c.Build.AssumeYes = true
	}
	return
}

// NewBuildCommandFlags returns an instance of BuildCommandFlags
func NewBuildCommandFlags(cmdFlags *pflag.FlagSet) (flags *BuildCommandFlags) {
	flags = &BuildCommandFlags{}

	flags.TargetArch, _ = cmdFlags.GetString("target-arch")
	flags.Compiler, _ = cmdFlags.GetString("compiler")
	flags.BuildType, _ = cmdFlags.GetString("build-type")
	flags.BuildDir, _ = cmdFlags.GetString("build-dir")
	flags.CrossFilesDir, _ = cmdFlags.GetString("cross-files-dir")
	if cmdFlags.Changed("jobs") {
		j, _ := cmdFlags.GetInt("jobs")
		flags.Jobs = types.IntPtr(j)
	}
	flags.AssumeYes, _ = cmdFlags.GetBool("yes")

	return
}

// PersistBuildCommandFlags append a command the build tree flags
func PersistBuildCommandFlags(cmdFlags *pflag.FlagSet) {
	PersistTargetArchFlag(cmdFlags)
	cmdFlags.StringP("compiler", "c", "", "compiler, gcc or clang (default gcc)")
	cmdFlags.StringP("build-type", "b", "", "build type, release, debug or dist (default release)")
	cmdFlags.StringP("build-dir", "C", "", "build directory (default build_<build-type>_<target-arch>)")
	cmdFlags.String("cross-files-dir", "", "directory holding the meson cross files (default CrossFiles)")
	cmdFlags.IntP("jobs", "j", 5, "parallel compile jobs")
	cmdFlags.BoolP("yes", "y", false, "do not ask before regenerating the build directory")
}

// PersistTargetArchFlag append a command the target architecture flag
func PersistTargetArchFlag(cmdFlags *pflag.FlagSet) {
	cmdFlags.StringP("target-arch", "t", "", "target architecture, x86_64 or aarch64 (default x86_64)")
}
