package cli

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	m2kerrors "github.com/matzehuels/m2k/pkg/errors"
	"github.com/matzehuels/m2k/pkg/material"
)

// configName is the config file name inside the config directory.
const configName = "config.toml"

// Config is the optional user configuration:
//
//	templates = "/studio/katana/templates"
//	scene     = "/tmp/lookdev.toml"
//	indent    = 2
//
//	[layout]
//	node_width  = 200
//	space_width = 60
//	row_height  = 100
type Config struct {
	Templates string          `toml:"templates"`
	Scene     string          `toml:"scene"`
	Indent    int             `toml:"indent"`
	Layout    material.Layout `toml:"layout"`
}

// defaultConfig returns the configuration used when no file exists.
func defaultConfig() Config {
	return Config{Layout: material.DefaultLayout()}
}

// configDir returns the config directory using XDG standard (~/.config/m2k/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// loadConfig reads the config file. A missing default config is not an
// error; a missing explicit --config is.
func (c *CLI) loadConfig() (Config, error) {
	path := c.configFile()
	if path == "" {
		return defaultConfig(), nil
	}
	cfg, err := readConfig(path)
	if errors.Is(err, fs.ErrNotExist) && c.configPath == "" {
		return defaultConfig(), nil
	}
	if err != nil {
		return Config{}, err
	}
	c.Logger.Debug("loaded config", "path", path)
	return cfg, nil
}

// readConfig decodes a config file over the defaults. Unknown keys are
// rejected.
func readConfig(path string) (Config, error) {
	cfg := defaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Config{}, m2kerrors.Wrap(m2kerrors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return Config{}, m2kerrors.Wrap(m2kerrors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, m2kerrors.New(m2kerrors.ErrCodeInvalidConfig, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Layout.Validate(); err != nil {
		return Config{}, m2kerrors.Wrap(m2kerrors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	return cfg, nil
}
