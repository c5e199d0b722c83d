// Package cli provides the command line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/git2text/internal/config"
	"github.com/temirov/git2text/internal/gitrepo"
	"github.com/temirov/git2text/internal/services/clipboard"
	"github.com/temirov/git2text/internal/utils"
)

const (
	outputFlagName      = "output"
	outputFlagShorthand = "o"
	ignoreFlagName      = "ignore"
	includeFlagName     = "include"
	skipEmptyFlagName   = "skip-empty-files"
	clipboardFlagName   = "clipboard"
	noGitignoreFlagName = "no-gitignore"
	configFlagName      = "config"
	versionTemplate     = "git2text version: {{.Version}}\n"

	rootUse              = "git2text <path>"
	rootShortDescription = "git2text serializes a project tree and its file contents into one text document"
	rootLongDescription  = `git2text walks a local directory or a freshly cloned remote repository,
selects files through layered gitignore-style rules, and produces a single
document containing the project tree followed by every selected file's
content. The document is written to a file, the clipboard, or both.`
	rootUsageExample = `  # Copy the current project to the clipboard
  git2text .

  # Write a remote repository to a file, skipping empty files
  git2text https://github.com/user/repo -o repo.md --skip-empty-files

  # Restrict selection to Go sources and the readme
  git2text . -o out.md --include '*.go' --include README.md`

	outputFlagDescription      = "output file path"
	ignoreFlagDescription      = "ignore pattern (repeatable, gitignore syntax)"
	includeFlagDescription     = "include pattern (repeatable, gitignore syntax)"
	skipEmptyFlagDescription   = "skip zero-byte files"
	clipboardFlagDescription   = "copy the document to the clipboard"
	noGitignoreFlagDescription = "do not use the global ignore file or .gitignore"
	configFlagDescription      = "path to a configuration file"

	messageWrittenFormat    = "All contents have been written to: %s\n"
	messageCopiedClipboard  = "The content has been copied to the clipboard."
	errorPathMissingFormat  = "path not found or not a directory or a git URL: %s"
	errorRunInterruptedText = "run interrupted"
)

// runOptions stores the resolved flag values for one invocation.
type runOptions struct {
	outputPath      string
	ignorePatterns  []string
	includePatterns []string
	skipEmpty       bool
	copyToClipboard bool
	noGitignore     bool
	configPath      string
}

// Execute runs the git2text application.
func Execute(logger *zap.Logger) error {
	rootCommand := createRootCommand(logger, clipboard.NewService())
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand(logger *zap.Logger, clipboardCopier clipboard.Copier) *cobra.Command {
	options := &runOptions{}

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Example:      rootUsageExample,
		Version:      utils.GetApplicationVersion(),
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return run(command, arguments[0], options, logger, clipboardCopier)
		},
	}
	rootCommand.SetVersionTemplate(versionTemplate)

	rootCommand.Flags().StringVarP(&options.outputPath, outputFlagName, outputFlagShorthand, "", outputFlagDescription)
	rootCommand.Flags().StringArrayVar(&options.ignorePatterns, ignoreFlagName, nil, ignoreFlagDescription)
	rootCommand.Flags().StringArrayVar(&options.includePatterns, includeFlagName, nil, includeFlagDescription)
	rootCommand.Flags().BoolVar(&options.skipEmpty, skipEmptyFlagName, false, skipEmptyFlagDescription)
	rootCommand.Flags().BoolVar(&options.copyToClipboard, clipboardFlagName, false, clipboardFlagDescription)
	rootCommand.Flags().BoolVar(&options.noGitignore, noGitignoreFlagName, false, noGitignoreFlagDescription)
	rootCommand.Flags().StringVar(&options.configPath, configFlagName, "", configFlagDescription)
	return rootCommand
}

// run resolves the root directory (cloning remote repositories into a
// temporary directory that is removed on every exit path), applies
// configuration defaults, and executes the generation pipeline.
func run(command *cobra.Command, pathArgument string, options *runOptions, logger *zap.Logger, clipboardCopier clipboard.Copier) error {
	ctx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stopSignals()

	applicationConfiguration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{
		ExplicitFilePath: options.configPath,
	})
	if configurationError != nil {
		return configurationError
	}
	applyConfigurationDefaults(command, options, applicationConfiguration)

	rootDirectory := pathArgument
	if gitrepo.IsRemoteURL(pathArgument) {
		clonedDirectory, cleanup, cloneError := gitrepo.CloneToTemp(ctx, pathArgument, logger)
		if cloneError != nil {
			return cloneError
		}
		defer cleanup()
		rootDirectory = clonedDirectory
	} else {
		pathInfo, statError := os.Stat(pathArgument)
		if statError != nil || !pathInfo.IsDir() {
			return fmt.Errorf(errorPathMissingFormat, pathArgument)
		}
	}

	return executePipeline(ctx, rootDirectory, options, applicationConfiguration, logger, clipboardCopier)
}

// applyConfigurationDefaults fills options from configuration for every flag
// the user did not set explicitly. Command-line values always win.
func applyConfigurationDefaults(command *cobra.Command, options *runOptions, applicationConfiguration config.ApplicationConfiguration) {
	flags := command.Flags()
	if !flags.Changed(skipEmptyFlagName) && applicationConfiguration.Output.SkipEmpty != nil {
		options.skipEmpty = *applicationConfiguration.Output.SkipEmpty
	}
	if !flags.Changed(clipboardFlagName) && applicationConfiguration.Output.Clipboard != nil {
		options.copyToClipboard = *applicationConfiguration.Output.Clipboard
	}
	if !flags.Changed(outputFlagName) && applicationConfiguration.Output.Path != "" {
		options.outputPath = applicationConfiguration.Output.Path
	}
	if !flags.Changed(noGitignoreFlagName) && applicationConfiguration.Ignore.UseGitignore != nil {
		options.noGitignore = !*applicationConfiguration.Ignore.UseGitignore
	}
	if len(applicationConfiguration.Ignore.Patterns) > 0 {
		options.ignorePatterns = utils.DeduplicatePatterns(
			append(append([]string{}, applicationConfiguration.Ignore.Patterns...), options.ignorePatterns...),
		)
	}
	if options.outputPath == "" && !flags.Changed(clipboardFlagName) && applicationConfiguration.Output.Clipboard == nil {
		// Without an output file the document has nowhere else to go.
		options.copyToClipboard = true
	}
}
