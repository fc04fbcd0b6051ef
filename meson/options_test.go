package meson

import (
	"testing"

	"github.com/cryptix-os/helix/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMesonBuildType(t *testing.T) {
	tests := []struct {
		in   BuildType
		want string
	}{
		{Dist, "release"},
		{Release, "debugoptimized"},
		{Debug, "debug"},
	}
	for _, tt := range tests {
		got, err := tt.in.MesonBuildType()
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := BuildType("fast").MesonBuildType()
	assert.EqualError(t, err, "invalid build type 'fast'")

	_, err = ParseBuildType("fast")
	assert.Error(t, err)
}

func TestParseChoices(t *testing.T) {
	_, err := ParseArch("riscv64")
	assert.Error(t, err)
	a, err := ParseArch("aarch64")
	require.NoError(t, err)
	assert.Equal(t, AArch64, a)

	_, err = ParseCompiler("msvc")
	assert.Error(t, err)

	fw, err := ParseFirmware("")
	require.NoError(t, err)
	assert.Equal(t, UEFI, fw)
	fw, err = ParseFirmware("BIOS")
	require.NoError(t, err)
	assert.Equal(t, BIOS, fw)
	_, err = ParseFirmware("coreboot")
	assert.Error(t, err)
}

func TestOptionsFromConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		o, err := OptionsFromConfig(types.NewConfig().Build)
		require.NoError(t, err)

		assert.Equal(t, "build_release_x86_64", o.BuildDir)
		assert.Equal(t, "CrossFiles/kernel-target-gcc-x86_64.cross-file", o.CrossFile())
		assert.Equal(t, "-j5", o.JobsFlag())
	})

	t.Run("explicit build dir wins", func(t *testing.T) {
		c := types.NewConfig().Build
		c.BuildDir = "out"
		c.Compiler = "clang"
		c.TargetArch = "aarch64"
		c.BuildType = "debug"

		o, err := OptionsFromConfig(c)
		require.NoError(t, err)
		assert.Equal(t, "out", o.BuildDir)
		assert.Equal(t, "CrossFiles/kernel-target-clang-aarch64.cross-file", o.CrossFile())
	})

	t.Run("default dir follows build type and arch", func(t *testing.T) {
		c := types.NewConfig().Build
		c.BuildType = "dist"
		c.TargetArch = "aarch64"

		o, err := OptionsFromConfig(c)
		require.NoError(t, err)
		assert.Equal(t, "build_dist_aarch64", o.BuildDir)
	})

	t.Run("rejects bad values", func(t *testing.T) {
		for _, mutate := range []func(*types.BuildConfig){
			func(c *types.BuildConfig) { c.TargetArch = "mips" },
			func(c *types.BuildConfig) { c.Compiler = "tcc" },
			func(c *types.BuildConfig) { c.BuildType = "fast" },
			func(c *types.BuildConfig) { c.Jobs = 0 },
		} {
			c := types.NewConfig().Build
			mutate(&c)
			_, err := OptionsFromConfig(c)
			assert.Error(t, err)
		}
	})
}

func TestParseAction(t *testing.T) {
	tests := map[string]Action{
		"setup": ActionSetup, "s": ActionSetup,
		"build": ActionBuild, "b": ActionBuild,
		"rebuild": ActionRebuild, "rb": ActionRebuild,
		"run": ActionRun, "r": ActionRun,
		"run-bios": ActionRunBIOS, "run-uefi": ActionRunUEFI,
	}
	for in, want := range tests {
		got, err := ParseAction(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseAction("all")
	assert.Error(t, err)

	assert.Equal(t, UEFI, ActionRun.Firmware())
	assert.Equal(t, BIOS, ActionRunBIOS.Firmware())
	assert.Equal(t, UEFI, ActionRunUEFI.Firmware())
}
