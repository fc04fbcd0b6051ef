package cmd_test

import (
	"path/filepath"
	"testing"

	"github.com/cryptix-os/helix/cmd"
	"github.com/cryptix-os/helix/types"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newImageFlagSet() *pflag.FlagSet {
	flagSet := pflag.NewFlagSet("test", 0)
	cmd.PersistImageCommandFlags(flagSet)
	return flagSet
}

func TestMergeMultipleFlags(t *testing.T) {
	isolate(t)

	imageFlagSet := newImageFlagSet()
	imageFlagSet.Set("size", "4GiB")
	imageFlags := cmd.NewImageCommandFlags(imageFlagSet)

	configFileName := writeConfigToFile(t, &types.Config{Image: types.ImageConfig{Size: "768MiB", Backend: "diskfs"}}, "helix.json")
	configFlagSet := newConfigFlagSet()
	configFlagSet.Set("config", configFileName)
	configFlags := cmd.NewConfigCommandFlags(configFlagSet)

	t.Run("if config flags are placed before the image flags size overrides the value", func(t *testing.T) {
		container := cmd.NewMergeConfigContainer(configFlags, imageFlags)

		config := types.NewConfig()

		err := container.Merge(config)

		assert.Nil(t, err)
		assert.Equal(t, "4GiB", config.Image.Size)
		assert.Equal(t, "diskfs", config.Image.Backend)
	})

	t.Run("if image flags are placed before the config flags the file wins", func(t *testing.T) {
		container := cmd.NewMergeConfigContainer(imageFlags, configFlags)

		config := types.NewConfig()

		err := container.Merge(config)

		assert.Nil(t, err)
		assert.Equal(t, "768MiB", config.Image.Size)
	})
}

func TestImageFlagsMergeToConfig(t *testing.T) {
	flagSet := newImageFlagSet()
	flagSet.Set("input", "root")
	flagSet.Set("output", "out/disk.img")
	flagSet.Set("partition-table", "gpt")
	flagSet.Set("boot-size", "256MiB")
	flagSet.Set("backend", "diskfs")
	flagSet.Set("boot-label", "EFI")

	c := types.NewConfig()
	require.NoError(t, cmd.NewImageCommandFlags(flagSet).MergeToConfig(c))

	wantInput, _ := filepath.Abs("root")
	wantOutput, _ := filepath.Abs("out/disk.img")
	assert.Equal(t, wantInput, c.Image.Input)
	assert.Equal(t, wantOutput, c.Image.Output)
	assert.Equal(t, "gpt", c.Image.PartitionTable)
	assert.Equal(t, "256MiB", c.Image.BootSize)
	assert.Equal(t, "diskfs", c.Image.Backend)
	assert.Equal(t, "EFI", c.Image.BootLabel)
	assert.Equal(t, "helix_root", c.Image.RootLabel)
}

func TestEchfsFlagsMergeToConfig(t *testing.T) {
	flagSet := pflag.NewFlagSet("test", 0)
	cmd.PersistEchfsCommandFlags(flagSet)

	c := types.NewConfig()
	require.NoError(t, cmd.NewEchfsCommandFlags(flagSet).MergeToConfig(c))
	assert.Equal(t, 2, c.Image.EchfsPartition)
	assert.Equal(t, "image.hdd", c.Image.Output)

	flagSet.Set("partition", "3")
	flagSet.Set("image", "disk.img")
	require.NoError(t, cmd.NewEchfsCommandFlags(flagSet).MergeToConfig(c))
	assert.Equal(t, 3, c.Image.EchfsPartition)
	assert.Equal(t, "disk.img", c.Image.Output)
}

func TestBuildFlagsMergeToConfig(t *testing.T) {
	flagSet := pflag.NewFlagSet("test", 0)
	cmd.PersistBuildCommandFlags(flagSet)

	c := types.NewConfig()
	c.Build.Jobs = 16
	require.NoError(t, cmd.NewBuildCommandFlags(flagSet).MergeToConfig(c))
	assert.Equal(t, 16, c.Build.Jobs, "unset --jobs keeps the configured value")

	flagSet.Set("target-arch", "aarch64")
	flagSet.Set("compiler", "clang")
	flagSet.Set("build-type", "dist")
	flagSet.Set("build-dir", "out")
	flagSet.Set("jobs", "2")
	flagSet.Set("yes", "true")
	require.NoError(t, cmd.NewBuildCommandFlags(flagSet).MergeToConfig(c))

	assert.Equal(t, types.BuildConfig{
		TargetArch:    "aarch64",
		Compiler:      "clang",
		BuildType:     "dist",
		BuildDir:      "out",
		CrossFilesDir: "CrossFiles",
		Jobs:          2,
		AssumeYes:     true,
	}, c.Build)
}

func TestBootFlagsMergeToConfig(t *testing.T) {
	flagSet := pflag.NewFlagSet("test", 0)
	cmd.PersistBootCommandFlags(flagSet)

	flagSet.Set("firmware", "bios")
	flagSet.Set("memory", "512M")
	flagSet.Set("smp", "2")
	flagSet.Set("accel", "false")
	flagSet.Set("uefi-firmware", "/opt/OVMF.fd")

	c := types.NewConfig()
	require.NoError(t, cmd.NewBootCommandFlags(flagSet).MergeToConfig(c))

	assert.Equal(t, types.EmulatorConfig{
		Firmware:         "bios",
		Memory:           "512M",
		CPUs:             2,
		UefiFirmwarePath: "/opt/OVMF.fd",
		Accel:            false,
		Display:          "none",
	}, c.Emulator)
}
