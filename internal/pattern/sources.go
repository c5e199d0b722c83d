package pattern

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/temirov/git2text/internal/utils"
)

const (
	gitIgnoreFileName                 = ".gitignore"
	errorReadRepositoryPatternsFormat = "reading repository ignore patterns under %s: %w"
	errorRepositoryPatternFileFormat  = "repository ignore file %s: %w"
	errorReadPatternFileFormat        = "reading pattern file %s: %w"
)

// RepositorySpec collects the repository's ignore rules the way git layers
// them: the root .gitignore first, then .gitignore files of nested
// directories scoped to their own subtrees. Malformed pattern lines in any of
// the ignore files are reported as errors, naming the offending file.
func RepositorySpec(rootDirectory string) (*Spec, error) {
	if validationError := validateRepositoryPatternFiles(rootDirectory); validationError != nil {
		return nil, validationError
	}
	repositoryFilesystem := osfs.New(rootDirectory)
	rules, readError := gitignore.ReadPatterns(repositoryFilesystem, nil)
	if readError != nil {
		return nil, fmt.Errorf(errorReadRepositoryPatternsFormat, rootDirectory, readError)
	}
	return newSpec(rules), nil
}

// validateRepositoryPatternFiles runs every pattern line of every .gitignore
// file under rootDirectory through the compile-time validator, so malformed
// lines fail the run before traversal instead of silently never matching.
// Inaccessible entries are skipped; the selector reports them during the walk.
func validateRepositoryPatternFiles(rootDirectory string) error {
	return filepath.WalkDir(rootDirectory, func(walkedPath string, directoryEntry os.DirEntry, accessError error) error {
		if accessError != nil {
			if directoryEntry != nil && directoryEntry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if directoryEntry.IsDir() {
			if directoryEntry.Name() == utils.GitDirectoryName {
				return filepath.SkipDir
			}
			return nil
		}
		if directoryEntry.Name() != gitIgnoreFileName {
			return nil
		}

		lines, readError := ReadPatternLines(walkedPath)
		if readError != nil {
			return readError
		}
		for _, rawLine := range lines {
			trimmedLine := strings.TrimSpace(rawLine)
			if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
				continue
			}
			if validationError := validatePatternLine(trimmedLine); validationError != nil {
				return fmt.Errorf(errorRepositoryPatternFileFormat, walkedPath, validationError)
			}
		}
		return nil
	})
}

// ReadPatternLines returns the raw lines of the pattern file at filePath.
// A missing file yields no lines and no error.
func ReadPatternLines(filePath string) ([]string, error) {
	fileHandle, openError := os.Open(filePath)
	if openError != nil {
		if os.IsNotExist(openError) {
			return nil, nil
		}
		return nil, fmt.Errorf(errorReadPatternFileFormat, filePath, openError)
	}
	defer fileHandle.Close()

	var lines []string
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, fmt.Errorf(errorReadPatternFileFormat, filePath, scanError)
	}
	return lines, nil
}
