package cli

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/git2text/internal/config"
	"github.com/temirov/git2text/internal/document"
	"github.com/temirov/git2text/internal/pattern"
	"github.com/temirov/git2text/internal/services/clipboard"
)

// executePipeline compiles the pattern specifications, generates the output
// document, and routes it to the configured destinations.
func executePipeline(ctx context.Context, rootDirectory string, options *runOptions, applicationConfiguration config.ApplicationConfiguration, logger *zap.Logger, clipboardCopier clipboard.Copier) error {
	ignoreSpec, includeSpec, specError := buildSpecs(rootDirectory, options, applicationConfiguration)
	if specError != nil {
		return specError
	}

	if interruptError := checkInterrupted(ctx); interruptError != nil {
		return interruptError
	}

	documentText, generateError := document.Generate(document.Options{
		RootDirectory: rootDirectory,
		IgnoreSpec:    ignoreSpec,
		IncludeSpec:   includeSpec,
		SkipEmpty:     options.skipEmpty,
		Logger:        logger,
	})
	if generateError != nil {
		return generateError
	}

	if interruptError := checkInterrupted(ctx); interruptError != nil {
		return interruptError
	}

	if options.outputPath != "" {
		if writeError := document.WriteFile(options.outputPath, documentText); writeError != nil {
			return writeError
		}
		fmt.Printf(messageWrittenFormat, options.outputPath)
	}
	if options.copyToClipboard {
		if copyError := clipboardCopier.Copy(documentText); copyError != nil {
			return copyError
		}
		fmt.Println(messageCopiedClipboard)
	}
	return nil
}

// buildSpecs compiles the layered ignore specification (global ignore file,
// repository ignore rules, command-line patterns, concatenated in that fixed
// priority order into one linear rule list) and the optional include
// specification. Compilation failures are configuration errors reported
// before any traversal begins.
func buildSpecs(rootDirectory string, options *runOptions, applicationConfiguration config.ApplicationConfiguration) (*pattern.Spec, *pattern.Spec, error) {
	var ignoreSources []*pattern.Spec

	if !options.noGitignore {
		globalLines, globalReadError := pattern.ReadPatternLines(applicationConfiguration.GlobalIgnoreFilePath())
		if globalReadError != nil {
			return nil, nil, globalReadError
		}
		globalSpec, globalCompileError := pattern.Compile(globalLines)
		if globalCompileError != nil {
			return nil, nil, globalCompileError
		}
		ignoreSources = append(ignoreSources, globalSpec)

		repositorySpec, repositoryError := pattern.RepositorySpec(rootDirectory)
		if repositoryError != nil {
			return nil, nil, repositoryError
		}
		ignoreSources = append(ignoreSources, repositorySpec)
	}

	commandLineSpec, commandLineError := pattern.Compile(options.ignorePatterns)
	if commandLineError != nil {
		return nil, nil, commandLineError
	}
	ignoreSources = append(ignoreSources, commandLineSpec)

	ignoreSpec := pattern.Merge(ignoreSources...)

	var includeSpec *pattern.Spec
	if len(options.includePatterns) > 0 {
		compiledInclude, includeError := pattern.Compile(options.includePatterns)
		if includeError != nil {
			return nil, nil, includeError
		}
		includeSpec = compiledInclude
	}

	return ignoreSpec, includeSpec, nil
}

func checkInterrupted(ctx context.Context) error {
	if ctx.Err() != nil {
		return fmt.Errorf("%s: %w", errorRunInterruptedText, ctx.Err())
	}
	return nil
}
