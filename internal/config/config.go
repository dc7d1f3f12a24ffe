// Package config loads the tool's own settings: defaults for the git
// source and for rendering. Settings come from ranger.yaml under the XDG
// config directory (or an explicit file) and from RANGER_* environment
// variables, which win over the file.
package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"github.com/simonhull/ranger/internal/errors"
)

const (
	// DefaultRepo is the template repository used by "generate git".
	DefaultRepo = "https://github.com/replicadse/ranger.git"
	// DefaultBranch is the branch cloned when none is given.
	DefaultBranch = "master"
	// DefaultShell runs helper commands.
	DefaultShell = "sh"

	envPrefix = "RANGER"
)

// Config holds the tool settings.
type Config struct {
	Git     GitConfig
	Helpers HelpersConfig
	Render  RenderConfig

	// File is the config file that was read, or "" when only defaults and
	// the environment applied.
	File string
}

// GitConfig holds defaults for the git source.
type GitConfig struct {
	Repo   string
	Branch string
}

// HelpersConfig configures helper execution.
type HelpersConfig struct {
	Shell string
}

// RenderConfig configures tree rendering.
type RenderConfig struct {
	// Ignore lists file name patterns never copied from a template.
	Ignore []string
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Git:     GitConfig{Repo: DefaultRepo, Branch: DefaultBranch},
		Helpers: HelpersConfig{Shell: DefaultShell},
	}
}

// DefaultPath is where Load looks when no file is given.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "ranger", "ranger.yaml")
}

// Load reads settings. An empty path means DefaultPath, which may be
// absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("git.repo", DefaultRepo)
	v.SetDefault("git.branch", DefaultBranch)
	v.SetDefault("helpers.shell", DefaultShell)
	v.SetDefault("render.ignore", []string{})

	// RANGER_GIT_BRANCH overrides git.branch
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	file := path
	if file == "" {
		file = DefaultPath()
	}
	v.SetConfigFile(file)

	read := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case path == "" && (stderrors.As(err, &notFound) || stderrors.Is(err, os.ErrNotExist)):
			read = false
		default:
			return nil, errors.Wrapf(err, errors.ErrConfig, "failed to read config %s", file)
		}
	}

	cfg := &Config{
		Git: GitConfig{
			Repo:   v.GetString("git.repo"),
			Branch: v.GetString("git.branch"),
		},
		Helpers: HelpersConfig{
			Shell: v.GetString("helpers.shell"),
		},
		Render: RenderConfig{
			Ignore: v.GetStringSlice("render.ignore"),
		},
	}
	if read {
		cfg.File = file
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that required settings are present.
func (c *Config) Validate() error {
	if c.Git.Repo == "" {
		return errors.New(errors.ErrConfig, "git.repo must not be empty")
	}
	if c.Git.Branch == "" {
		return errors.New(errors.ErrConfig, "git.branch must not be empty")
	}
	if c.Helpers.Shell == "" {
		return errors.New(errors.ErrConfig, "helpers.shell must not be empty")
	}
	for _, pattern := range c.Render.Ignore {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return errors.Wrapf(err, errors.ErrConfig, "invalid render.ignore pattern %q", pattern)
		}
	}
	return nil
}
