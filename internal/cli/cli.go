// Package cli implements the m2k command-line interface.
//
// Commands read a host scene snapshot (see host.LoadSceneFile), run the
// export pipeline against it and deliver or report the result:
//   - copy: export the selection's network to the clipboard, stdout or a file
//   - inspect: show how the network would be placed, without copying
//   - visualize: draw the network as DOT, SVG or JSON
//   - templates: list the loaded node templates
//
// Every command supports --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/m2k/pkg/buildinfo"
	m2kerrors "github.com/matzehuels/m2k/pkg/errors"
	"github.com/matzehuels/m2k/pkg/host"
	"github.com/matzehuels/m2k/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "m2k"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Persistent flags
	configPath   string
	scenePath    string
	templatesDir string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "m2k copies Maya shading networks into Katana",
		Long: `m2k exports the shading network upstream of the selected Maya nodes as a
Katana node graph. Only parameters that differ from the Katana defaults are
written, and the nodes are laid out left to right by depth.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/m2k/config.toml)")
	root.PersistentFlags().StringVarP(&c.scenePath, "scene", "s", "", "scene snapshot (TOML)")
	root.PersistentFlags().StringVarP(&c.templatesDir, "templates", "t", "", "template directory (default: built-in RenderMan templates)")

	root.AddCommand(c.copyCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.templatesCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// session is the state one command runs with.
type session struct {
	config Config
	scene  *host.Memory
	runner *pipeline.Runner
}

// open loads the config, the scene and the template store. Flags override
// config values.
func (c *CLI) open(ctx context.Context, needScene bool) (*session, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	if c.templatesDir != "" {
		cfg.Templates = c.templatesDir
	}
	if c.scenePath != "" {
		cfg.Scene = c.scenePath
	}

	s := &session{config: cfg}
	if needScene {
		if cfg.Scene == "" {
			return nil, m2kerrors.New(m2kerrors.ErrCodeInvalidInput, "no scene given (use --scene or set scene in %s)", c.configFile())
		}
		s.scene, err = host.LoadSceneFile(cfg.Scene)
		if err != nil {
			return nil, err
		}
		c.Logger.Debug("loaded scene", "path", cfg.Scene, "nodes", len(s.scene.Names()))
	}

	store, err := pipeline.LoadTemplates(ctx, cfg.Templates, c.Logger)
	if err != nil {
		return nil, err
	}
	s.runner = pipeline.NewRunner(store, c.Logger)
	return s, nil
}

// options builds pipeline options from the session config.
func (s *session) options(c *CLI) pipeline.Options {
	return pipeline.Options{
		Layout: s.config.Layout,
		Indent: s.config.Indent,
		Logger: c.Logger,
	}
}

// configFile returns the config path in use.
func (c *CLI) configFile() string {
	if c.configPath != "" {
		return c.configPath
	}
	dir, err := configDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, configName)
}
