// Package emit writes annotated, fenced blocks of file content.
package emit

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/git2text/internal/language"
	"github.com/temirov/git2text/internal/utils"
)

const (
	fileHeaderFormat      = "# File: %s\n"
	fileFooterFormat      = "# End of file: %s\n"
	fenceMarker           = "```"
	skippingEmptyFormat   = "Skipping empty file: %s"
	warningDecodeFormat   = "Warning: could not decode %s as text, skipping file"
	warningReadFileFormat = "Warning: failed to read file %s: %v"
	newline               = "\n"
)

// Emitter appends delimited content blocks for selected files to a writer.
type Emitter struct {
	rootDirectory string
	skipEmpty     bool
	logger        *zap.Logger
}

// NewEmitter constructs an Emitter for files under rootDirectory.
// When skipEmpty is set, zero-byte files produce no block.
func NewEmitter(rootDirectory string, skipEmpty bool, logger *zap.Logger) *Emitter {
	return &Emitter{
		rootDirectory: rootDirectory,
		skipEmpty:     skipEmpty,
		logger:        logger,
	}
}

// File emits one block for the file at relativePath. The block consists of a
// header line naming the relative path, a fenced region tagged by the
// extension classifier, the raw content with a guaranteed trailing newline, a
// closing fence, a footer line, and exactly one following blank line.
//
// The file is skipped without error when it is empty and skipEmpty is set,
// when its content does not decode as text, or when it cannot be read.
// The returned boolean reports whether a block was written; a non-nil error
// indicates a failed write to the output destination.
func (emitter *Emitter) File(writer io.Writer, relativePath string) (bool, error) {
	fullPath := filepath.Join(emitter.rootDirectory, filepath.FromSlash(relativePath))

	fileBytes, readError := os.ReadFile(fullPath)
	if readError != nil {
		emitter.logger.Warn(fmt.Sprintf(warningReadFileFormat, fullPath, readError))
		return false, nil
	}
	if emitter.skipEmpty && len(fileBytes) == 0 {
		emitter.logger.Info(fmt.Sprintf(skippingEmptyFormat, fullPath))
		return false, nil
	}
	if !utils.DecodesAsText(fileBytes) {
		emitter.logger.Warn(fmt.Sprintf(warningDecodeFormat, fullPath))
		return false, nil
	}

	fileContent := string(fileBytes)
	if !strings.HasSuffix(fileContent, newline) {
		fileContent += newline
	}
	contentTag := language.Classify(relativePath)

	block := fmt.Sprintf(fileHeaderFormat, relativePath) +
		fenceMarker + contentTag + newline +
		fileContent +
		fenceMarker + newline +
		fmt.Sprintf(fileFooterFormat, relativePath) +
		newline

	if _, writeError := io.WriteString(writer, block); writeError != nil {
		return false, fmt.Errorf("writing content block for %s: %w", relativePath, writeError)
	}
	return true, nil
}
