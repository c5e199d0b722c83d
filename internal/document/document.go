// Package document assembles the output artifact: one rendered tree section
// followed by a content block for every selected file, in selection order.
package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/git2text/internal/emit"
	"github.com/temirov/git2text/internal/pattern"
	"github.com/temirov/git2text/internal/selector"
	"github.com/temirov/git2text/internal/tree"
)

const (
	treeSectionHeader = "Project Tree:"
	fenceMarker       = "```"
	newline           = "\n"

	errorCreateOutputDirFormat = "creating output directory %s: %w"
	errorCreateOutputFormat    = "creating output file in %s: %w"
	errorWriteOutputFormat     = "writing output to %s: %w"
	errorFinalizeOutputFormat  = "finalizing output file %s: %w"
	temporaryFilePattern       = ".git2text-*.tmp"

	outputFileMode = os.FileMode(0o644)
)

// Options carries everything the generation pipeline needs for one run.
type Options struct {
	RootDirectory string
	IgnoreSpec    *pattern.Spec
	IncludeSpec   *pattern.Spec
	SkipEmpty     bool
	Logger        *zap.Logger
}

// Generate performs one selection pass and returns the complete document.
// The tree section is built from a pruned walk in ignore mode and from the
// selected path list in include mode, so include mode never shows unselected
// siblings.
func Generate(options Options) (string, error) {
	selectedPaths, selectionError := selector.Select(options.RootDirectory, options.IgnoreSpec, options.IncludeSpec, options.Logger)
	if selectionError != nil {
		return "", selectionError
	}

	var treeRoot *tree.Node
	if options.IncludeSpec != nil {
		treeRoot = tree.BuildFromSelection(selectedPaths)
	} else {
		builtRoot, buildError := tree.BuildFromWalk(options.RootDirectory, options.IgnoreSpec, options.Logger)
		if buildError != nil {
			return "", buildError
		}
		treeRoot = builtRoot
	}

	var builder strings.Builder
	builder.WriteString(treeSectionHeader + newline)
	builder.WriteString(fenceMarker + newline)
	builder.WriteString(tree.Render(treeRoot))
	builder.WriteString(fenceMarker + newline)
	builder.WriteString(newline)

	emitter := emit.NewEmitter(options.RootDirectory, options.SkipEmpty, options.Logger)
	for _, relativePath := range selectedPaths {
		if _, emitError := emitter.File(&builder, relativePath); emitError != nil {
			return "", emitError
		}
	}

	return builder.String(), nil
}

// WriteFile stores the document at destinationPath, creating parent
// directories as needed. The content is written to a temporary file in the
// destination directory and renamed into place, so a failed run never leaves
// a partially written document behind.
func WriteFile(destinationPath, content string) error {
	destinationDirectory := filepath.Dir(destinationPath)
	if destinationDirectory != "" && destinationDirectory != "." {
		if makeDirError := os.MkdirAll(destinationDirectory, 0o755); makeDirError != nil {
			return fmt.Errorf(errorCreateOutputDirFormat, destinationDirectory, makeDirError)
		}
	}

	temporaryFile, createError := os.CreateTemp(destinationDirectory, temporaryFilePattern)
	if createError != nil {
		return fmt.Errorf(errorCreateOutputFormat, destinationDirectory, createError)
	}
	temporaryPath := temporaryFile.Name()

	if _, writeError := temporaryFile.WriteString(content); writeError != nil {
		temporaryFile.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf(errorWriteOutputFormat, destinationPath, writeError)
	}
	// CreateTemp opens the file with restrictive permissions.
	if chmodError := temporaryFile.Chmod(outputFileMode); chmodError != nil {
		temporaryFile.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf(errorWriteOutputFormat, destinationPath, chmodError)
	}
	if closeError := temporaryFile.Close(); closeError != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf(errorWriteOutputFormat, destinationPath, closeError)
	}
	if renameError := os.Rename(temporaryPath, destinationPath); renameError != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf(errorFinalizeOutputFormat, destinationPath, renameError)
	}
	return nil
}
