// Package config loads application configuration and ignore pattern sources.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"github.com/temirov/git2text/internal/utils"
)

const (
	// GlobalConfigFileName is the configuration file name inside the XDG directory.
	GlobalConfigFileName = "config.yaml"
	// LocalConfigFileName is the per-project configuration file name.
	LocalConfigFileName = ".git2text.yaml"
	// GlobalIgnoreFileName is the process-wide ignore file inside the XDG directory.
	GlobalIgnoreFileName = "ignore"

	errorWorkingDirectoryFormat = "determine working directory: %w"
	errorResolveConfigFormat    = "resolve configuration path %s: %w"
	errorStatConfigFormat       = "stat configuration %s: %w"
	errorConfigIsDirectoryFmt   = "configuration path %s is a directory"
	errorReadConfigFormat       = "read configuration from %s: %w"
	errorDecodeConfigFormat     = "decode configuration from %s: %w"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds configuration defaults layered under
// command-line flags.
type ApplicationConfiguration struct {
	Ignore IgnoreConfiguration `mapstructure:"ignore"`
	Output OutputConfiguration `mapstructure:"output"`
}

// IgnoreConfiguration configures the ignore pattern sources.
type IgnoreConfiguration struct {
	Patterns         []string `mapstructure:"patterns"`
	UseGitignore     *bool    `mapstructure:"use_gitignore"`
	GlobalIgnoreFile string   `mapstructure:"global_ignore_file"`
}

// OutputConfiguration configures output routing defaults.
type OutputConfiguration struct {
	SkipEmpty *bool  `mapstructure:"skip_empty"`
	Clipboard *bool  `mapstructure:"clipboard"`
	Path      string `mapstructure:"path"`
}

// LoadApplicationConfiguration merges the global XDG configuration file with
// the working-directory local file. Later sources override earlier ones;
// unset pointer fields never override.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return ApplicationConfiguration{}, fmt.Errorf(errorWorkingDirectoryFormat, workingDirectoryError)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	globalPath := filepath.Join(xdg.ConfigHome, utils.ApplicationName, GlobalConfigFileName)
	globalConfig, globalLoadError := loadConfigurationFromPath(globalPath)
	if globalLoadError != nil {
		return ApplicationConfiguration{}, globalLoadError
	}
	merged = merged.Merge(globalConfig)

	localPath, resolveError := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveError != nil {
		return ApplicationConfiguration{}, resolveError
	}
	if localPath != "" {
		localConfig, localLoadError := loadConfigurationFromPath(localPath)
		if localLoadError != nil {
			return ApplicationConfiguration{}, localLoadError
		}
		merged = merged.Merge(localConfig)
	}

	merged.Ignore.Patterns = utils.DeduplicatePatterns(merged.Ignore.Patterns)

	return merged, nil
}

// GlobalIgnoreFilePath returns the path of the process-wide ignore file,
// honoring a configured override.
func (config ApplicationConfiguration) GlobalIgnoreFilePath() string {
	if config.Ignore.GlobalIgnoreFile != "" {
		return config.Ignore.GlobalIgnoreFile
	}
	return filepath.Join(xdg.ConfigHome, utils.ApplicationName, GlobalIgnoreFileName)
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		if workingDirectory == "" {
			absolutePath, absoluteError := filepath.Abs(explicitPath)
			if absoluteError != nil {
				return "", fmt.Errorf(errorResolveConfigFormat, explicitPath, absoluteError)
			}
			return absolutePath, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	if workingDirectory == "" {
		return "", nil
	}
	return filepath.Join(workingDirectory, LocalConfigFileName), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statError := os.Stat(path)
	if statError != nil {
		if os.IsNotExist(statError) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf(errorStatConfigFormat, path, statError)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf(errorConfigIsDirectoryFmt, path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readError := reader.ReadInConfig(); readError != nil {
		return ApplicationConfiguration{}, fmt.Errorf(errorReadConfigFormat, path, readError)
	}
	var configuration ApplicationConfiguration
	if decodeError := reader.Unmarshal(&configuration); decodeError != nil {
		return ApplicationConfiguration{}, fmt.Errorf(errorDecodeConfigFormat, path, decodeError)
	}
	return configuration, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	result.Ignore = result.Ignore.merge(override.Ignore)
	result.Output = result.Output.merge(override.Output)
	return result
}

func (config IgnoreConfiguration) merge(override IgnoreConfiguration) IgnoreConfiguration {
	result := config
	if len(override.Patterns) > 0 {
		result.Patterns = append([]string{}, utils.DeduplicatePatterns(override.Patterns)...)
	}
	if override.UseGitignore != nil {
		result.UseGitignore = cloneBool(override.UseGitignore)
	}
	if override.GlobalIgnoreFile != "" {
		result.GlobalIgnoreFile = override.GlobalIgnoreFile
	}
	return result
}

func (config OutputConfiguration) merge(override OutputConfiguration) OutputConfiguration {
	result := config
	if override.SkipEmpty != nil {
		result.SkipEmpty = cloneBool(override.SkipEmpty)
	}
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	if override.Path != "" {
		result.Path = override.Path
	}
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
