package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cryptix-os/helix/elevate"
	"github.com/cryptix-os/helix/types"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

// DefaultConfigEnv names a config file used when --config is not given
const DefaultConfigEnv = "HELIX_DEFAULT_CONFIG"

// ConfigCommandFlags handles config file path flag and build configuration from the file
type ConfigCommandFlags struct {
	Config string
}

// MergeToConfig reads a json or yaml configuration file, falling back to
// $HELIX_DEFAULT_CONFIG and then ~/.helixrc
func (flags *ConfigCommandFlags) MergeToConfig(c *types.Config) (err error) {
	conf, err := flags.ConfigFile()
	if err != nil || conf == "" {
		return err
	}

	return types.LoadConfigFile(conf, c)
}

// ConfigFile returns the absolute path of the config file MergeToConfig
// loads, empty when there is none. A process raised by sudo only honours
// --config since its environment and home belong to root.
func (flags *ConfigCommandFlags) ConfigFile() (string, error) {
	if flags.Config != "" {
		return absConfigPath(flags.Config)
	}
	if _, _, raised := elevate.Invoker(); raised {
		return "", nil
	}

	if conf := os.Getenv(DefaultConfigEnv); conf != "" {
		return absConfigPath(conf)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", nil
	}
	conf := filepath.Join(home, ".helixrc")
	if _, err := os.Stat(conf); err != nil {
		return "", nil
	}
	return conf, nil
}

func absConfigPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrap(err, "config path")
	}
	return abs, nil
}

// NewConfigCommandFlags returns an instance of ConfigCommandFlags
func NewConfigCommandFlags(cmdFlags *pflag.FlagSet) (flags *ConfigCommandFlags) {
	var err error
	flags = &ConfigCommandFlags{}

	flags.Config, err = cmdFlags.GetString("config")
	if err != nil {
		exitWithError(err)
	}

	flags.Config = strings.TrimSpace(flags.Config)

	return
}

// PersistConfigCommandFlags append a command the config file flag
func PersistConfigCommandFlags(cmdFlags *pflag.FlagSet) {
	cmdFlags.String("config", "", "helix config file (json, or yaml with a .yml/.yaml extension)")
}
